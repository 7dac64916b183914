package render

// Charset is a small tagged variant in place of a class hierarchy: a
// named glyph table the renderer dispatches through by value, never by
// subclassing.
type Charset struct {
	Name string

	Commit      string // normal commit
	CommitMerge string // commit recorded with >=2 parents
	CommitHead  string // commit decorated as HEAD

	Pass       string // vertical carry
	Horizontal string // horizontal connector segment
	ForkRight  string // corner at the commit's own lane, target lane > primary
	ForkLeft   string // corner at the commit's own lane, target lane < primary
	ForkEndR   string // corner at the target lane, approached from the left
	ForkEndL   string // corner at the target lane, approached from the right
	MergeRight string // corner at the commit's own lane, source lane > primary
	MergeLeft  string // corner at the commit's own lane, source lane < primary
	MergeEndR  string // corner at the source lane, approached from the left
	MergeEndL  string // corner at the source lane, approached from the right
	Crossing   string // a horizontal run crosses an unrelated Pass lane
	EndRight   string // End slot, side consistent with a fork that went right
	EndLeft    string // End slot, side consistent with a fork that went left
}

// Unicode is the reference profile: box-drawing characters and filled
// circles.
func Unicode() Charset {
	return Charset{
		Name: "unicode",

		Commit:      "●",
		CommitMerge: "◉",
		CommitHead:  "◎",

		Pass:       "│",
		Horizontal: "─",
		ForkRight:  "├",
		ForkLeft:   "┤",
		ForkEndR:   "╮",
		ForkEndL:   "╭",
		MergeRight: "┤",
		MergeLeft:  "├",
		MergeEndR:  "╯",
		MergeEndL:  "╰",
		Crossing:   "┼",
		EndRight:   "╮",
		EndLeft:    "╯",
	}
}

// ASCII is the plain-text fallback profile: '*', '|', '/', '\\', '+', '-'.
func ASCII() Charset {
	return Charset{
		Name: "ascii",

		Commit:      "*",
		CommitMerge: "*",
		CommitHead:  "*",

		Pass:       "|",
		Horizontal: "-",
		ForkRight:  "+",
		ForkLeft:   "+",
		ForkEndR:   "\\",
		ForkEndL:   "/",
		MergeRight: "+",
		MergeLeft:  "+",
		MergeEndR:  "/",
		MergeEndL:  "\\",
		Crossing:   "+",
		EndRight:   "\\",
		EndLeft:    "/",
	}
}

// ASCIIRich keeps ASCII's connectors but uses letters for the commit
// glyphs: 'o' plain, '@' HEAD, 'M' merge.
func ASCIIRich() Charset {
	c := ASCII()
	c.Name = "ascii-rich"
	c.Commit = "o"
	c.CommitHead = "@"
	c.CommitMerge = "M"
	return c
}

// Profile resolves a configured charset name, defaulting to Unicode for
// anything unrecognized.
func Profile(name string) Charset {
	switch name {
	case "ascii":
		return ASCII()
	case "ascii-rich":
		return ASCIIRich()
	default:
		return Unicode()
	}
}
