package puzzle

import "github.com/sirupsen/logrus"

// cube is the solver's working domain: cube.get(i, v) is true while
// value v is still feasible at cell i. See spec.md §4.2 and design
// notes §9 ("Cube representation").
type cube struct {
	size int // 1 << N
	data []bool
}

func newCube(b *Board) *cube {
	size := 1 << uint(b.N)
	c := &cube{size: size, data: make([]bool, b.Cells()*size)}
	for i := range c.data {
		c.data[i] = true
	}
	return c
}

func (c *cube) get(i int, v Value) bool { return c.data[i*c.size+int(v)] }

// clear removes v from cell i's candidates, returning true if it was
// actually still feasible (i.e. this call made progress).
func (c *cube) clear(i int, v Value) bool {
	idx := i*c.size + int(v)
	if c.data[idx] {
		c.data[idx] = false
		return true
	}
	return false
}

func allValues(n int) []Value {
	size := 1 << uint(n)
	vals := make([]Value, size)
	for v := 0; v < size; v++ {
		vals[v] = Value(v)
	}
	return vals
}

// Solve runs the constraint-propagation engine of spec.md §4.2 on a
// duplicate of b (b itself is left untouched, per the design notes'
// value-ownership model) and returns the solved duplicate plus the
// final validator status.
//
// log receives one trace entry per rule application when non-nil
// (spec.md §9 "thread a logger... rather than a global", and the
// standalone CLI's -v flag).
func Solve(b *Board, log *logrus.Logger) (*Board, Status) {
	work := b.Clone()
	full := allBits(work.N)
	for i := 0; i < work.Cells(); i++ {
		if work.immutable[i] != full {
			work.known[i] = 0
			work.mask[i] = full
		}
	}
	c := newCube(work)
	counts := make([]int, 1<<uint(work.N))

	trace := func(rule string, changes int) {
		if log == nil || changes == 0 {
			return
		}
		log.WithFields(logrus.Fields{"rule": rule, "changes": changes}).Debug("solver rule fired")
	}

	for {
		status := Validate(work, nil, counts)
		if status != StatusUnfinished {
			return work, status
		}

		syncCubeWithBounds(work, c)
		eliminateUniqueValues(work, c, counts)

		if n := applyArrowBounds(work); n > 0 {
			trace("S2-arrow-bounds", n)
			continue
		}
		if n := applyIncomparability(work, c); n > 0 {
			trace("S3-incomparability", n)
			continue
		}
		if n := tightenBoundsFromCube(work, c); n > 0 {
			trace("S4-bounds-from-cube", n)
			continue
		}
		if n := placeUniqueLocations(work, c, counts); n > 0 {
			trace("S5-unique-location", n)
			continue
		}
		if n := applyArrowStructural(work, c); n > 0 {
			trace("S6-arrow-structural", n)
			continue
		}
		break
	}
	return work, Validate(work, nil, nil)
}

// syncCubeWithBounds is rule S0: drop any cube candidate the current
// known/mask bounds have already ruled out.
func syncCubeWithBounds(b *Board, c *cube) int {
	changes := 0
	for i := 0; i < b.Cells(); i++ {
		known, mask := b.known[i], b.mask[i]
		for _, v := range allValues(b.N) {
			if !c.get(i, v) {
				continue
			}
			if mask&v != v || known&v != known {
				if c.clear(i, v) {
					changes++
				}
			}
		}
	}
	return changes
}

// eliminateUniqueValues is rule S1: a value already resolved
// elsewhere cannot be a candidate anywhere else.
func eliminateUniqueValues(b *Board, c *cube, counts []int) int {
	changes := 0
	for v, count := range counts {
		if count != 1 {
			continue
		}
		val := Value(v)
		for i := 0; i < b.Cells(); i++ {
			if b.resolved(i) && b.known[i] == val {
				continue
			}
			if c.clear(i, val) {
				changes++
			}
		}
	}
	return changes
}

// applyArrowBounds is rule S2: for each arrow i->j, value(j) ⊆
// value(i), so known[i] absorbs known[j] and mask[j] shrinks to
// mask[i]. Run to a local fixed point in one call.
func applyArrowBounds(b *Board) int {
	total := 0
	for {
		changed := 0
		for i := 0; i < b.Cells(); i++ {
			for _, d := range Directions() {
				if !b.hasArrow(i, d) {
					continue
				}
				j, ok := b.neighbour(i, d)
				if !ok {
					continue
				}
				if nk := b.known[i] | b.known[j]; nk != b.known[i] {
					b.known[i] = nk
					changed++
				}
				if nm := b.mask[j] & b.mask[i]; nm != b.mask[j] {
					b.mask[j] = nm
					changed++
				}
			}
		}
		total += changed
		if changed == 0 {
			return total
		}
	}
}

// applyIncomparability is rule S3: for each adjacent pair with no
// arrow relation, a resolved endpoint eliminates every comparable
// candidate at the other endpoint, and neither the empty set nor the
// universal set may sit at an unresolved endpoint of such an edge.
func applyIncomparability(b *Board, c *cube) int {
	changes := 0
	full := allBits(b.N)
	for i := 0; i < b.Cells(); i++ {
		for _, d := range Directions() {
			if b.hasArrow(i, d) {
				continue
			}
			j, ok := b.neighbour(i, d)
			if !ok || b.hasArrow(j, d.Opposite()) {
				continue
			}
			if b.resolved(i) {
				vi := b.known[i]
				for _, v := range allValues(b.N) {
					if !c.get(j, v) {
						continue
					}
					if v.subsetOf(vi) || vi.subsetOf(v) {
						if c.clear(j, v) {
							changes++
						}
					}
				}
			}
			if !b.resolved(j) {
				if c.clear(j, 0) {
					changes++
				}
				if c.clear(j, full) {
					changes++
				}
			}
		}
	}
	return changes
}

// tightenBoundsFromCube is rule S4: recompute known/mask as the
// AND/OR of surviving cube candidates, never loosening the bounds.
func tightenBoundsFromCube(b *Board, c *cube) int {
	changes := 0
	full := allBits(b.N)
	for i := 0; i < b.Cells(); i++ {
		newKnown, newMask := full, Value(0)
		any := false
		for _, v := range allValues(b.N) {
			if !c.get(i, v) {
				continue
			}
			any = true
			newKnown &= v
			newMask |= v
		}
		if !any {
			continue
		}
		if nk := b.known[i] | newKnown; nk != b.known[i] {
			b.known[i] = nk
			changes++
		}
		if nm := b.mask[i] & newMask; nm != b.mask[i] {
			b.mask[i] = nm
			changes++
		}
	}
	return changes
}

// placeUniqueLocations is rule S5: a value with no resolved cell yet
// that's feasible at exactly one unresolved cell must go there.
func placeUniqueLocations(b *Board, c *cube, counts []int) int {
	changes := 0
	for v, count := range counts {
		if count != 0 {
			continue
		}
		val := Value(v)
		found, n := -1, 0
		for i := 0; i < b.Cells(); i++ {
			if b.resolved(i) {
				continue
			}
			if c.get(i, val) {
				found, n = i, n+1
			}
		}
		if n == 1 {
			b.known[found] = val
			b.mask[found] = val
			changes++
		}
	}
	return changes
}

// applyArrowStructural is rule S6: for each arrow i->j, a candidate
// at the supercell needs a strict-subset witness still feasible at
// the subcell, and (per spec.md §9's resolution of the disabled
// symmetric variant) a candidate at the subcell needs a strict-
// superset witness still feasible at the supercell.
func applyArrowStructural(b *Board, c *cube) int {
	changes := 0
	for i := 0; i < b.Cells(); i++ {
		for _, d := range Directions() {
			if !b.hasArrow(i, d) {
				continue
			}
			j, ok := b.neighbour(i, d)
			if !ok {
				continue
			}
			for _, vi := range allValues(b.N) {
				if !c.get(i, vi) {
					continue
				}
				witness := false
				for _, vj := range allValues(b.N) {
					if c.get(j, vj) && vj.properSubsetOf(vi) {
						witness = true
						break
					}
				}
				if !witness {
					if c.clear(i, vi) {
						changes++
					}
				}
			}
			for _, vj := range allValues(b.N) {
				if !c.get(j, vj) {
					continue
				}
				witness := false
				for _, vi := range allValues(b.N) {
					if c.get(i, vi) && vj.properSubsetOf(vi) {
						witness = true
						break
					}
				}
				if !witness {
					if c.clear(j, vj) {
						changes++
					}
				}
			}
		}
	}
	return changes
}
