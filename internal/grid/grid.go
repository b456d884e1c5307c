// Package grid stores the live cell population of an unbounded 2D cellular
// automaton. Only cells whose state differs from the default are kept, so
// memory and per-step work scale with the active population rather than
// with the extent the pattern has ever reached.
package grid

import "casim/internal/core"

// Space is the sparse cell store. It tracks, alongside the cells
// themselves, the evaluation frontier (coordinates that must be re-examined
// on the next step) and the bounding box of the population.
//
// Bounds policy: insertions expand the box incrementally. Removing a single
// cell through SetCellState never shrinks it, so the box may be loose until
// the next batch operation; ApplyChanges restores a tight box whenever a
// removal touched the boundary, and Clear or an emptied grid invalidates it.
// LoadCells trusts the bounds it is given.
//
// A Space is not safe for concurrent use; the caller serializes access.
type Space struct {
	cells        map[core.Point]int32
	defaultState int32
	neighborhood []core.Point
	influence    []core.Point
	frontier     map[core.Point]struct{}

	minBounds   core.Point
	maxBounds   core.Point
	boundsValid bool
}

// New constructs an empty Space with the given default state and ordered
// neighborhood offsets. The influence set (every offset reachable by two
// neighborhood hops) is derived once here.
func New(defaultState int32, neighborhood []core.Point) *Space {
	s := &Space{
		cells:        map[core.Point]int32{},
		defaultState: defaultState,
		neighborhood: append([]core.Point(nil), neighborhood...),
		frontier:     map[core.Point]struct{}{},
	}
	s.influence = influenceOf(s.neighborhood)
	return s
}

// influenceOf composes every pair of neighborhood offsets and deduplicates,
// preserving first-encounter order.
func influenceOf(neighborhood []core.Point) []core.Point {
	seen := make(map[core.Point]struct{}, len(neighborhood)*len(neighborhood))
	out := make([]core.Point, 0, len(neighborhood)*len(neighborhood))
	for _, a := range neighborhood {
		for _, b := range neighborhood {
			sum := a.Add(b)
			if _, ok := seen[sum]; ok {
				continue
			}
			seen[sum] = struct{}{}
			out = append(out, sum)
		}
	}
	return out
}

// State returns the cell state at p, or the default state when p is absent.
func (s *Space) State(p core.Point) int32 {
	if v, ok := s.cells[p]; ok {
		return v
	}
	return s.defaultState
}

// SetCellState writes one cell. Setting the default state removes the cell.
// When the write actually changes the state, p and its whole influence
// neighborhood join the evaluation frontier.
func (s *Space) SetCellState(p core.Point, state int32) {
	s.set(p, state)
	if len(s.cells) == 0 {
		s.boundsValid = false
	}
}

// set performs the store/remove plus frontier and bounds bookkeeping shared
// by SetCellState and ApplyChanges. It reports whether the removal (if any)
// sat on the current bounding box.
func (s *Space) set(p core.Point, state int32) (boundaryRemoval bool) {
	prev, present := s.cells[p]
	if !present {
		prev = s.defaultState
	}
	if state == prev {
		return false
	}

	if state == s.defaultState {
		delete(s.cells, p)
		if s.boundsValid && (p.X == s.minBounds.X || p.X == s.maxBounds.X ||
			p.Y == s.minBounds.Y || p.Y == s.maxBounds.Y) {
			boundaryRemoval = true
		}
	} else {
		s.cells[p] = state
		s.expandBounds(p)
	}

	s.frontier[p] = struct{}{}
	for _, off := range s.influence {
		s.frontier[p.Add(off)] = struct{}{}
	}
	return boundaryRemoval
}

func (s *Space) expandBounds(p core.Point) {
	if !s.boundsValid {
		s.minBounds, s.maxBounds = p, p
		s.boundsValid = true
		return
	}
	if p.X < s.minBounds.X {
		s.minBounds.X = p.X
	}
	if p.Y < s.minBounds.Y {
		s.minBounds.Y = p.Y
	}
	if p.X > s.maxBounds.X {
		s.maxBounds.X = p.X
	}
	if p.Y > s.maxBounds.Y {
		s.maxBounds.Y = p.Y
	}
}

// recomputeBounds rescans the population for a tight bounding box.
func (s *Space) recomputeBounds() {
	s.boundsValid = false
	for p := range s.cells {
		s.expandBounds(p)
	}
}

// NeighborStates returns the states of p's neighbors in neighborhood order.
// The returned slice is the positional input to rule resolution.
func (s *Space) NeighborStates(p core.Point) []int32 {
	out := make([]int32, len(s.neighborhood))
	for i, off := range s.neighborhood {
		out[i] = s.State(p.Add(off))
	}
	return out
}

// ApplyChanges commits one step's delta. The previous frontier is discarded
// first; only cells actually changed by this batch (and their influence
// neighborhoods) form the new one.
func (s *Space) ApplyChanges(updates map[core.Point]int32) {
	s.frontier = make(map[core.Point]struct{}, len(updates)*(len(s.influence)+1))
	shrink := false
	for p, state := range updates {
		if s.set(p, state) {
			shrink = true
		}
	}
	if len(s.cells) == 0 {
		s.boundsValid = false
		return
	}
	if shrink {
		s.recomputeBounds()
	}
}

// LoadCells replaces the whole population, typically from a snapshot. The
// supplied bounds are trusted rather than recomputed; they are ignored when
// cells is empty. The map is retained by the Space. The frontier is rebuilt
// as the influence expansion of every loaded cell so the next step
// re-evaluates the entire restored pattern.
func (s *Space) LoadCells(cells map[core.Point]int32, minBounds, maxBounds core.Point) {
	if cells == nil {
		cells = map[core.Point]int32{}
	}
	s.cells = cells
	s.minBounds, s.maxBounds = minBounds, maxBounds
	s.boundsValid = len(cells) > 0

	s.frontier = make(map[core.Point]struct{}, len(cells)*(len(s.influence)+1))
	for p := range cells {
		s.frontier[p] = struct{}{}
		for _, off := range s.influence {
			s.frontier[p.Add(off)] = struct{}{}
		}
	}
}

// Clear empties the population and the frontier and invalidates bounds.
func (s *Space) Clear() {
	s.cells = map[core.Point]int32{}
	s.frontier = map[core.Point]struct{}{}
	s.boundsValid = false
}

// Cells exposes the live population map. Callers must treat it as
// read-only; mutate through SetCellState or ApplyChanges instead.
func (s *Space) Cells() map[core.Point]int32 { return s.cells }

// Len reports the number of non-default cells.
func (s *Space) Len() int { return len(s.cells) }

// DefaultState returns the state absent cells are considered to hold.
func (s *Space) DefaultState() int32 { return s.defaultState }

// Neighborhood returns the ordered neighbor offsets. Read-only.
func (s *Space) Neighborhood() []core.Point { return s.neighborhood }

// Influence returns the derived influence offsets. Read-only.
func (s *Space) Influence() []core.Point { return s.influence }

// Frontier returns a snapshot of the evaluation frontier. The copy keeps
// step iteration stable while the live set is repopulated.
func (s *Space) Frontier() []core.Point {
	out := make([]core.Point, 0, len(s.frontier))
	for p := range s.frontier {
		out = append(out, p)
	}
	return out
}

// FrontierLen reports the size of the evaluation frontier.
func (s *Space) FrontierLen() int { return len(s.frontier) }

// Bounds returns the bounding box of the population. ok is false when the
// grid is empty; the box may be loose after single-cell removals, per the
// policy documented on Space.
func (s *Space) Bounds() (minBounds, maxBounds core.Point, ok bool) {
	return s.minBounds, s.maxBounds, s.boundsValid
}
