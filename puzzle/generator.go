package puzzle

import "math/rand"

// Generate produces a solvable puzzle instance of params p, per
// spec.md §4.3. rng is the puzzle's only source of randomness
// (spec.md §1 lists random-number sourcing as an external
// collaborator, so it is always injected rather than pulled from a
// package-level source).
func Generate(p Params, rng *rand.Rand) (*Board, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b, err := NewBoard(p)
	if err != nil {
		return nil, err
	}
	n := p.Cells()
	full := allBits(p.N)

	// Step 1: a full random-permutation solution, entirely immutable.
	perm := rng.Perm(n)
	for i := 0; i < n; i++ {
		v := Value(perm[i])
		b.known[i] = v
		b.mask[i] = v
		b.immutable[i] = full
	}

	// Step 2: declare every containment that actually holds.
	for i := 0; i < n; i++ {
		for _, d := range Directions() {
			j, ok := b.neighbour(i, d)
			if !ok {
				continue
			}
			if b.known[j].subsetOf(b.known[i]) {
				b.setArrow(i, d, true)
			}
		}
	}

	// Step 3: try to un-fix each cell, in random order, keeping the
	// change only if the solver can still complete the board alone.
	order := rng.Perm(n)
	for _, i := range order {
		saved := b.immutable[i]
		b.immutable[i] = 0
		dup := b.Clone()
		if _, status := Solve(dup, nil); status == StatusComplete {
			b.known[i] = 0
			b.mask[i] = full
		} else {
			b.immutable[i] = saved
		}
	}

	return b, nil
}
