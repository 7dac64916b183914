// Package render implements the cell renderer: it maps a layout row
// produced by internal/rows into styled glyph cells written through the
// RenderBuffer abstraction.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/yourusername/graphline/internal/lanes"
	"github.com/yourusername/graphline/internal/rows"
	"github.com/yourusername/graphline/internal/theme"
)

// ErrRenderCapacity is advisory: the target buffer has fewer columns
// than even a single lane needs. RenderRow returns it with an empty
// Result; a row that fits only partly is reported through Result.Clipped
// with no error. The viewport draws a fallback row on this error instead
// of aborting its loop.
var ErrRenderCapacity = errors.New("render: insufficient width for lane layout")

// laneWidth is the number of display columns each lane occupies: one for
// the glyph, one for the horizontal connector/space.
const laneWidth = 2

// RenderBuffer is the minimal output sink the core writes through. Real
// terminal backends, test harnesses, and screenshot renderers all satisfy
// it by implementing set_cell plus width/height queries.
type RenderBuffer interface {
	SetCell(row, col int, glyph string, style lipgloss.Style)
	Width() int
	Height() int
}

// Buffer is an in-memory RenderBuffer, used by tests and by anything that
// wants to diff renders without a real terminal.
type Buffer struct {
	w, h  int
	cells [][]Cell
}

// Cell is a single buffer entry.
type Cell struct {
	Glyph string
	Style lipgloss.Style
}

// NewBuffer allocates a w x h grid of blank cells.
func NewBuffer(w, h int) *Buffer {
	cells := make([][]Cell, h)
	for i := range cells {
		cells[i] = make([]Cell, w)
		for j := range cells[i] {
			cells[i][j] = Cell{Glyph: " "}
		}
	}
	return &Buffer{w: w, h: h, cells: cells}
}

func (b *Buffer) Width() int  { return b.w }
func (b *Buffer) Height() int { return b.h }

func (b *Buffer) SetCell(row, col int, glyph string, style lipgloss.Style) {
	if row < 0 || row >= b.h || col < 0 || col >= b.w {
		return
	}
	b.cells[row][col] = Cell{Glyph: glyph, Style: style}
}

// PlainRow renders row as a plain string (styles dropped), useful for
// scroll-replay byte-identity assertions.
func (b *Buffer) PlainRow(row int) string {
	if row < 0 || row >= b.h {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[row] {
		sb.WriteString(c.Glyph)
	}
	return sb.String()
}

// StyledRow renders row through lipgloss, applying each cell's style.
func (b *Buffer) StyledRow(row int) string {
	if row < 0 || row >= b.h {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[row] {
		sb.WriteString(c.Style.Render(c.Glyph))
	}
	return sb.String()
}

// Result reports how much of a row's output was actually written.
type Result struct {
	LinesUsed int
	Clipped   bool
}

// Renderer is a function from Row to cells, parameterized by a Theme and
// Charset — plain data plus functions, not a class hierarchy.
type Renderer struct {
	Theme   theme.Theme
	Charset Charset
	// CJKAware selects display-width (wcwidth-style) truncation over a
	// code-point-count truncation. Default on; see internal/config.
	CJKAware bool
}

// New constructs a Renderer.
func New(th theme.Theme, cs Charset, cjkAware bool) *Renderer {
	return &Renderer{Theme: th, Charset: cs, CJKAware: cjkAware}
}

// RenderRow writes row into buf starting at termRow, using at most
// maxWidth columns, and returns how many terminal lines it used (one when
// the row fuses cleanly, two when a Fork/Merge or lane termination needs a
// connector line below the commit line).
func (r *Renderer) RenderRow(buf RenderBuffer, termRow int, row rows.Row, maxWidth int) (Result, error) {
	numLanes := len(row.Slots)
	if numLanes == 0 {
		numLanes = 1
	}
	graphWidth := numLanes * laneWidth
	clipped := false
	if graphWidth > maxWidth {
		if maxWidth < laneWidth {
			return Result{}, ErrRenderCapacity
		}
		numLanes = maxWidth / laneWidth
		graphWidth = numLanes * laneWidth
		clipped = true
	}

	splitLine := r.needsConnectorLine(row, numLanes)

	r.renderCommitLine(buf, termRow, row, numLanes)
	linesUsed := 1
	if splitLine {
		r.renderConnectorLine(buf, termRow+1, row, numLanes)
		linesUsed = 2
	}

	r.renderDecoration(buf, termRow, row, graphWidth+1, maxWidth)

	return Result{LinesUsed: linesUsed, Clipped: clipped}, nil
}

// needsConnectorLine decides fused-vs-two-line per row: a row with no
// Fork/Merge cell, and no terminated lane, fuses cleanly into the commit
// line alone.
func (r *Renderer) needsConnectorLine(row rows.Row, numLanes int) bool {
	for i := 0; i < numLanes && i < len(row.Slots); i++ {
		switch row.Slots[i].Kind {
		case lanes.Fork, lanes.Merge:
			return true
		}
	}
	return len(row.Terminated) > 0
}

func (r *Renderer) laneColor(row rows.Row, lane int) lipgloss.Color {
	palette := r.Theme.Lanes()
	idx := lane % len(palette)
	if lane < len(row.LaneColor) && row.LaneColor[lane] >= 0 {
		idx = row.LaneColor[lane] % len(palette)
	}
	return palette[idx]
}

func (r *Renderer) renderCommitLine(buf RenderBuffer, termRow int, row rows.Row, numLanes int) {
	for lane := 0; lane < numLanes; lane++ {
		col := lane * laneWidth
		color := r.laneColor(row, lane)
		style := lipgloss.NewStyle().Foreground(color)

		glyph := " "
		if lane < len(row.Slots) {
			switch row.Slots[lane].Kind {
			case lanes.Commit:
				glyph = r.commitGlyph(row)
				if row.HasDecor && row.Decoration.IsHead {
					style = style.Bold(true)
				}
			case lanes.Pass, lanes.Fork, lanes.Merge:
				// A Fork/Merge target lane has no cell content of its own
				// on the commit line; the connector line below carries the
				// corner. Only a genuine Pass renders here.
				if row.Slots[lane].Kind == lanes.Pass {
					glyph = r.Charset.Pass
				}
			}
		}
		buf.SetCell(termRow, col, glyph, style)
		buf.SetCell(termRow, col+1, " ", style)
	}
}

func (r *Renderer) commitGlyph(row rows.Row) string {
	switch {
	case row.HasDecor && row.Decoration.IsHead:
		return r.Charset.CommitHead
	case row.IsMerge:
		return r.Charset.CommitMerge
	default:
		return r.Charset.Commit
	}
}

// connectorSpan is a horizontal run from a row's primary lane to a
// Fork/Merge target lane.
type connectorSpan struct {
	target int
	merge  bool
}

// renderConnectorLine draws the horizontal spans from the commit's primary
// lane to every Fork/Merge target lane, and the End glyph for terminated
// lanes. Every Pass lane a span passes over renders the crossing glyph;
// all spans of a row start at the primary lane, and no priority between
// spans is computed.
func (r *Renderer) renderConnectorLine(buf RenderBuffer, termRow int, row rows.Row, numLanes int) {
	primary := row.PrimaryLane
	var spans []connectorSpan
	for lane := 0; lane < numLanes && lane < len(row.Slots); lane++ {
		switch row.Slots[lane].Kind {
		case lanes.Fork:
			spans = append(spans, connectorSpan{target: lane, merge: false})
		case lanes.Merge:
			spans = append(spans, connectorSpan{target: lane, merge: true})
		}
	}

	crossed := make(map[int]bool)
	for _, s := range spans {
		lo, hi := primary, s.target
		if lo > hi {
			lo, hi = hi, lo
		}
		for lane := lo + 1; lane < hi; lane++ {
			crossed[lane] = true
		}
	}

	for lane := 0; lane < numLanes; lane++ {
		col := lane * laneWidth
		color := r.laneColor(row, lane)
		style := lipgloss.NewStyle().Foreground(color)

		glyph, padGlyph := " ", " "
		switch {
		case lane == primary && r.terminated(row, lane):
			glyph = r.Charset.EndLeft
		case lane == primary:
			// Corner(s) at the source lane: pick a side if any span exists.
			if g, ok := r.cornerAtSource(spans, primary); ok {
				glyph = g
				padGlyph = r.Charset.Horizontal
			}
		case r.spanTarget(spans, lane):
			glyph = r.cornerAtTarget(spans, lane, primary)
		case crossed[lane] && lane < len(row.Slots) && row.Slots[lane].Kind == lanes.Pass:
			glyph = r.Charset.Crossing
			padGlyph = r.Charset.Horizontal
		case r.spanCrosses(spans, primary, lane):
			padGlyph = r.Charset.Horizontal
		case lane < len(row.Slots) && row.Slots[lane].Kind == lanes.Pass:
			glyph = r.Charset.Pass
		}
		buf.SetCell(termRow, col, glyph, style)
		buf.SetCell(termRow, col+1, padGlyph, style)
	}
}

func (r *Renderer) terminated(row rows.Row, lane int) bool {
	for _, t := range row.Terminated {
		if t == lane {
			return true
		}
	}
	return false
}

func (r *Renderer) spanTarget(spans []connectorSpan, lane int) bool {
	for _, s := range spans {
		if s.target == lane {
			return true
		}
	}
	return false
}

func (r *Renderer) spanCrosses(spans []connectorSpan, primary, lane int) bool {
	for _, s := range spans {
		lo, hi := primary, s.target
		if lo > hi {
			lo, hi = hi, lo
		}
		if lane > lo && lane < hi {
			return true
		}
	}
	return false
}

func (r *Renderer) cornerAtSource(spans []connectorSpan, primary int) (string, bool) {
	if len(spans) == 0 {
		return "", false
	}
	s := spans[0]
	right := s.target > primary
	if s.merge {
		if right {
			return r.Charset.MergeRight, true
		}
		return r.Charset.MergeLeft, true
	}
	if right {
		return r.Charset.ForkRight, true
	}
	return r.Charset.ForkLeft, true
}

func (r *Renderer) cornerAtTarget(spans []connectorSpan, lane, primary int) string {
	for _, s := range spans {
		if s.target != lane {
			continue
		}
		fromLeft := lane > primary
		if s.merge {
			if fromLeft {
				return r.Charset.MergeEndR
			}
			return r.Charset.MergeEndL
		}
		if fromLeft {
			return r.Charset.ForkEndR
		}
		return r.Charset.ForkEndL
	}
	return " "
}

// renderDecoration appends the short id and ref labels after the graph
// cells, truncated to fit maxWidth. The commit summary is not written:
// rows.Row carries no message text.
func (r *Renderer) renderDecoration(buf RenderBuffer, termRow int, row rows.Row, startCol, maxWidth int) {
	avail := maxWidth - startCol
	if avail <= 0 {
		return
	}

	shortID := row.CommitID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	text := shortID
	if row.HasDecor {
		if label := decorationLabel(row.Decoration); label != "" {
			text += " " + label
		}
	}

	style := lipgloss.NewStyle().Foreground(r.Theme.CommitHash)
	if row.HasDecor && row.Decoration.IsHead {
		style = style.Bold(true)
	}
	r.writeText(buf, termRow, startCol, maxWidth, text, style)
}

func decorationLabel(d rows.Decoration) string {
	var parts []string
	if d.IsHead {
		parts = append(parts, "HEAD")
	}
	for _, b := range d.Branches {
		parts = append(parts, fmt.Sprintf("[%s]", b))
	}
	for _, t := range d.Tags {
		parts = append(parts, fmt.Sprintf("(%s)", t))
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) writeText(buf RenderBuffer, termRow, col, maxWidth int, text string, style lipgloss.Style) int {
	truncated := r.truncate(text, maxWidth-col)
	for _, ru := range truncated {
		w := runewidth.RuneWidth(ru)
		if w == 0 {
			w = 1
		}
		if col >= maxWidth {
			break
		}
		buf.SetCell(termRow, col, string(ru), style)
		col += w
	}
	return col
}

// truncate shortens s to fit within width display columns. When CJKAware
// is set it measures with go-runewidth (wcwidth-style) rather than
// code-point count, so CJK and emoji runs don't overflow the buffer.
func (r *Renderer) truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if !r.CJKAware {
		runes := []rune(s)
		if len(runes) <= width {
			return s
		}
		if width <= 1 {
			return "…"
		}
		return string(runes[:width-1]) + "…"
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	var sb strings.Builder
	used := 0
	budget := width - 1 // reserve one column for the ellipsis
	for _, ru := range s {
		w := runewidth.RuneWidth(ru)
		if used+w > budget {
			break
		}
		sb.WriteRune(ru)
		used += w
	}
	sb.WriteRune('…')
	return sb.String()
}

// FormatRelativeTime renders t as a short "N units ago" label. Neither
// RenderRow nor internal/tui/graphview calls it.
func FormatRelativeTime(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}
