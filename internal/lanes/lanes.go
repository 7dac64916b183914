// Package lanes implements the lane allocator: it assigns every
// commit and every in-flight parent edge to a horizontal column, reusing
// freed columns aggressively and keeping first-parent lineage in a single
// column across rows.
//
// The allocator is expressed as a function over a mutable Active slice,
// not a class hierarchy, per the "plain data + functions" design note.
package lanes

// SlotKind tags the content of a lane at a single row.
type SlotKind int

const (
	Empty SlotKind = iota
	Pass
	Commit
	Fork
	Merge
	End
)

func (k SlotKind) String() string {
	switch k {
	case Empty:
		return "Empty"
	case Pass:
		return "Pass"
	case Commit:
		return "Commit"
	case Fork:
		return "Fork"
	case Merge:
		return "Merge"
	case End:
		return "End"
	default:
		return "?"
	}
}

// Slot is the value stored in a row's lane array.
type Slot struct {
	Kind SlotKind
	// Other is the commit's primary lane for Fork and Merge slots: a Fork
	// at lane k is an edge leaving primary lane Other for lane k, and a
	// Merge at lane k is an edge from lane k joining primary lane Other.
	// Unused otherwise.
	Other int
}

// Reservation is an entry in the allocator's Active vector: a lane either
// carries no reservation (empty string ID) or carries a forward pointer
// to the commit id it is reserved for.
type Reservation struct {
	ID string // empty means the lane is free
}

func (r Reservation) free() bool { return r.ID == "" }

// Row is the per-commit output of a single allocator Step: the chosen
// primary lane, the full lane-content vector for this row, and the color
// each active lane carries (stable for the life of a reservation).
type Row struct {
	CommitID     string
	PrimaryLane  int
	Slots        []Slot
	LaneColor    []int // color index per lane, aligned with Slots, -1 if unset
	IsPrivileged bool
	// Terminated lists lanes whose edge dies at this row with no further
	// parent to carry it (true roots, and commits whose sole parent was
	// a dangling/virtual-leaf reference). The renderer draws the End
	// glyph for these lanes in the connector region below the row.
	Terminated []int
	// ParentLane maps each present parent id to the lane it was assigned
	// (new, reused, or the primary lane for the first parent).
	ParentLane map[string]int
	// FromLane maps each lane active after this Step to the lane its
	// edge visually originates from on this row: the commit's primary
	// lane for edges this commit created (first-parent continuation,
	// forks), or the lane itself for edges merely passing through
	// untouched. This is exactly the ActiveEdge.from_lane of a Row.
	FromLane map[int]int
}

// Allocator holds the Active[] state carried between rows.
//
// Privileged branches (e.g. main/master) are forced onto lane 0 by a
// pre-scan, not by retroactive reassignment: the caller determines, from
// a decoration pre-scan over the full topo order, which single
// privileged branch tip appears first (lowest topo index — "newest"),
// and NewAllocator seeds lane 0 with a reservation for that commit id
// before any row is processed. When that commit is later reached, Step's
// ordinary "locate an existing reservation for this commit id" rule
// (step 1 below) finds it already parked at lane 0 — no special-casing,
// and no retroactive reassignment, is needed in Step itself.
type Allocator struct {
	Active        []Reservation
	laneColor     []int
	nextColor     int
	numColors     int
	privilegedTip string // commit id seeded into lane 0, if any
}

// NewAllocator builds an allocator. privilegedTip, if non-empty, is the
// single commit id to seed into lane 0 — the tip of whichever configured
// privileged branch appears first (lowest topo index) in the commit
// history; see rows.PrivilegedTips / rows.EarliestPrivilegedTip for how
// callers compute it from a decoration pre-scan.
func NewAllocator(privilegedTip string, numColors int) *Allocator {
	if numColors < 1 {
		numColors = 1
	}
	a := &Allocator{
		numColors:     numColors,
		privilegedTip: privilegedTip,
	}
	if privilegedTip != "" {
		a.ensureLen(1)
		a.Active[0] = Reservation{ID: privilegedTip}
	}
	return a
}

// Snapshot returns a deep copy of the allocator's Active state, suitable
// for a viewport checkpoint.
func (a *Allocator) Snapshot() []Reservation {
	cp := make([]Reservation, len(a.Active))
	copy(cp, a.Active)
	return cp
}

// Colors returns a deep copy of the per-lane color assignment.
func (a *Allocator) Colors() []int {
	cp := make([]int, len(a.laneColor))
	copy(cp, a.laneColor)
	return cp
}

// Restore replaces the allocator's Active/color state, e.g. when a
// viewport rewinds to a checkpoint.
func (a *Allocator) Restore(active []Reservation, laneColor []int, nextColor int) {
	a.Active = append([]Reservation(nil), active...)
	a.laneColor = append([]int(nil), laneColor...)
	a.nextColor = nextColor
}

// State captures everything needed to resume allocation from this point:
// the payload a viewport checkpoint stores and later reloads.
type State struct {
	Active    []Reservation
	LaneColor []int
	NextColor int
}

// Save captures the allocator's current state by value.
func (a *Allocator) Save() State {
	return State{
		Active:    a.Snapshot(),
		LaneColor: a.Colors(),
		NextColor: a.nextColor,
	}
}

// Load resets the allocator to a previously Saved state.
func (a *Allocator) Load(s State) {
	a.Restore(s.Active, s.LaneColor, s.NextColor)
}

func (a *Allocator) leftmostFree() int {
	for i, r := range a.Active {
		if r.free() {
			return i
		}
	}
	return len(a.Active)
}

func (a *Allocator) ensureLen(n int) {
	for len(a.Active) < n {
		a.Active = append(a.Active, Reservation{})
		a.laneColor = append(a.laneColor, -1)
	}
}

func (a *Allocator) allocColor() int {
	c := a.nextColor
	a.nextColor = (a.nextColor + 1) % a.numColors
	return c
}

// Step processes one commit in topo order and returns its Row. parents is
// the commit's present-parent id list in original order (first parent
// first). It runs a 6-step per-row update:
//
//  1. locate or allocate the commit's primary lane
//  2. emit Merge cells for every other lane still reserving this id
//  3. place the Commit cell
//  4. assign parents (first parent inherits the primary lane; others
//     reuse or Fork a new lane)
//  5. carry through every untouched reserved lane as Pass
//  6. compact trailing frees
func (a *Allocator) Step(commitID string, parents []string) Row {
	// Step 1: locate commit lane, leftmost if multiple reservations exist.
	primary := -1
	for i, r := range a.Active {
		if r.ID == commitID {
			if primary == -1 {
				primary = i
			}
		}
	}
	isPrivilegedTip := commitID == a.privilegedTip && a.privilegedTip != ""
	if primary == -1 {
		primary = a.leftmostFree()
	}
	a.ensureLen(primary + 1)

	slots := make([]Slot, len(a.Active))
	for i := range slots {
		slots[i] = Slot{Kind: Empty}
	}

	// Step 2: emit Merge for every OTHER lane still reserving commitID,
	// then free those lanes (merges collapse onto the primary lane).
	for i, r := range a.Active {
		if i == primary {
			continue
		}
		if r.ID == commitID {
			slots[i] = Slot{Kind: Merge, Other: primary}
			a.Active[i] = Reservation{}
		}
	}

	// Step 3: place the commit cell.
	slots[primary] = Slot{Kind: Commit}
	commitColor := a.laneColor[primary]
	if commitColor < 0 {
		commitColor = a.allocColor()
	}
	a.laneColor[primary] = commitColor
	a.Active[primary] = Reservation{} // cleared; step 4 may re-reserve it

	touched := map[int]bool{primary: true}
	parentLane := make(map[string]int, len(parents))

	// Step 4: assign parents left-to-right.
	for pi, parentID := range parents {
		if pi == 0 {
			// First parent inherits the primary lane.
			a.Active[primary] = Reservation{ID: parentID}
			a.laneColor[primary] = commitColor
			parentLane[parentID] = primary
			continue
		}

		// Reuse an existing reservation for this parent if one exists.
		reused := -1
		for i, r := range a.Active {
			if r.ID == parentID {
				reused = i
				break
			}
		}
		if reused != -1 {
			// Fork.Other records the lane this visual fork originates
			// from (the commit's own primary lane); the slot's own index
			// is the destination lane. No new reservation is made: the
			// lane already carries parentID forward from elsewhere.
			slots[reused] = Slot{Kind: Fork, Other: primary}
			touched[reused] = true
			parentLane[parentID] = reused
			continue
		}

		newLane := a.leftmostFree()
		a.ensureLen(newLane + 1)
		a.Active[newLane] = Reservation{ID: parentID}
		forkColor := a.allocColor()
		a.laneColor[newLane] = forkColor
		if newLane >= len(slots) {
			grown := make([]Slot, newLane+1)
			copy(grown, slots)
			for i := len(slots); i < len(grown); i++ {
				grown[i] = Slot{Kind: Empty}
			}
			slots = grown
		}
		slots[newLane] = Slot{Kind: Fork, Other: primary}
		touched[newLane] = true
		parentLane[parentID] = newLane
	}

	var terminated []int
	if len(parents) == 0 {
		// No present parent to carry the primary lane forward: a true
		// root, or a commit whose sole parent was a dangling reference.
		// The commit cell itself still renders normally; the lane simply
		// terminates here: virtual leaves die immediately.
		terminated = append(terminated, primary)
	}

	// Step 5: carry through every lane not touched this row that still
	// holds a reservation.
	for i, r := range a.Active {
		if touched[i] {
			continue
		}
		if i >= len(slots) {
			continue
		}
		if !r.free() && slots[i].Kind == Empty {
			slots[i] = Slot{Kind: Pass}
		}
	}

	// Step 6: compact trailing frees (never rename an in-use lane).
	a.trimTrailing()

	colorSnap := make([]int, len(slots))
	for i := range colorSnap {
		if i < len(a.laneColor) {
			colorSnap[i] = a.laneColor[i]
		} else {
			colorSnap[i] = -1
		}
	}
	if commitColor >= 0 && primary < len(colorSnap) {
		colorSnap[primary] = commitColor
	}

	fromLane := make(map[int]int, len(a.Active))
	for i, r := range a.Active {
		if r.free() {
			continue
		}
		if touched[i] {
			fromLane[i] = primary
		} else {
			fromLane[i] = i
		}
	}

	return Row{
		CommitID:     commitID,
		PrimaryLane:  primary,
		Slots:        slots,
		LaneColor:    colorSnap,
		IsPrivileged: isPrivilegedTip,
		Terminated:   terminated,
		ParentLane:   parentLane,
		FromLane:     fromLane,
	}
}

func (a *Allocator) trimTrailing() {
	last := -1
	for i, r := range a.Active {
		if !r.free() {
			last = i
		}
	}
	a.Active = a.Active[:last+1]
	if last+1 < len(a.laneColor) {
		a.laneColor = a.laneColor[:last+1]
	}
}

// Width returns the current number of lanes (post the most recent Step).
func (a *Allocator) Width() int { return len(a.Active) }
