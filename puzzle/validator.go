package puzzle

// A Status is the outcome of validating a board.
type Status int

// The three validator outcomes, ordered worst-last for the "take the
// worst status observed" rule in spec.md §4.1.
const (
	StatusComplete Status = iota
	StatusUnfinished
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "COMPLETE"
	case StatusUnfinished:
		return "UNFINISHED"
	case StatusInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

func worse(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// Validate scores b as COMPLETE, UNFINISHED, or INVALID, per
// spec.md §4.1 / original_source's subsets_validate.
//
// If flags is non-nil (sized b.Cells()), every offending edge is
// marked on the cell at its "lower" end by OR-ing in the direction's
// flag bit. If counts is non-nil (sized 2^N), counts[v] is set to the
// number of resolved cells whose value is v.
func Validate(b *Board, flags []uint8, counts []int) Status {
	n := b.Cells()
	localCounts := counts
	if localCounts == nil {
		localCounts = make([]int, 1<<uint(b.N))
	} else {
		for i := range localCounts {
			localCounts[i] = 0
		}
	}
	quick := flags == nil && counts == nil

	status := StatusComplete
	for i := 0; i < n; i++ {
		if !b.resolved(i) {
			status = worse(status, StatusUnfinished)
			continue
		}
		localCounts[b.known[i]]++
	}

	for v := range localCounts {
		if localCounts[v] > 1 {
			status = StatusInvalid
			if quick {
				return status
			}
			break
		}
	}

	for i := 0; i < n; i++ {
		if !b.resolved(i) {
			continue
		}
		for _, d := range Directions() {
			j, ok := b.neighbour(i, d)
			if !ok || !b.resolved(j) {
				continue
			}
			vi, vj := b.known[i], b.known[j]
			x := vi & vj
			switch {
			case b.hasArrow(i, d):
				if x != vj {
					status = StatusInvalid
					if flags != nil {
						flags[i] |= d.Flag()
					}
					if quick {
						return status
					}
				}
			case d == Right || d == Down:
				if !b.hasArrow(j, d.Opposite()) {
					if x == vj || x == vi {
						status = StatusInvalid
						if flags != nil {
							flags[i] |= d.Flag()
						}
						if quick {
							return status
						}
					}
				}
			}
		}
	}

	return status
}
