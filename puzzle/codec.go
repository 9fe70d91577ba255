package puzzle

import (
	"strconv"
	"strings"
)

// flagLetters lists the direction letters in the fixed order the
// codec both emits and accepts them, matching original_source's
// adjthan[] iteration order (U, R, D, L).
var flagLetters = []Direction{Up, Right, Down, Left}

func directionForLetter(c byte) (Direction, bool) {
	for _, d := range flagLetters {
		if d.Letter() == c {
			return d, true
		}
	}
	return 0, false
}

// ParseDescription parses a game description (§6.2) into a Board of
// the given params. The grammar and every error message below are
// taken verbatim from original_source/subsets.c's attempt_load_game.
func ParseDescription(p Params, desc string) (*Board, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b, err := NewBoard(p)
	if err != nil {
		return nil, err
	}
	full := allBits(p.N)
	n := p.Cells()
	pos := 0

	fail := func(cond ErrorCondition, msg string) (*Board, error) {
		return nil, Error{
			Scope:     CodecScope,
			Structure: AttributeValueStructure,
			Attribute: DescriptionAttribute,
			Condition: cond,
			Values:    ErrorData{desc},
			Message:   msg,
		}
	}

	for cell := 0; cell < n; cell++ {
		if pos >= len(desc) {
			return fail(NotEnoughDataCondition, "Not enough data to fill grid")
		}
		c := desc[pos]
		switch {
		case c == '_':
			pos++
		case c >= '0' && c <= '9':
			start := pos
			for pos < len(desc) && desc[pos] >= '0' && desc[pos] <= '9' {
				pos++
			}
			val, err := strconv.Atoi(desc[start:pos])
			if err != nil || Value(val) > full {
				return fail(OutOfRangeNumberCondition, "Out-of-range number in game description")
			}
			b.known[cell] = Value(val)
			b.mask[cell] = Value(val)
			b.immutable[cell] = full
		default:
			return fail(ExpectingNumberCondition, "Expecting number in game description")
		}

		for pos < len(desc) {
			c := desc[pos]
			if c == ',' {
				break
			}
			d, ok := directionForLetter(c)
			if !ok {
				return fail(ExpectingFlagCondition, "Expecting flag URDL in game description")
			}
			b.setArrow(cell, d, true)
			pos++
		}

		if cell < n-1 {
			if pos >= len(desc) || desc[pos] != ',' {
				return fail(MissingSeparatorCondition, "Missing separator")
			}
			pos++
		}
	}
	if pos != len(desc) {
		return fail(TooMuchDataCondition, "Too much data to fill grid")
	}

	for i := 0; i < n; i++ {
		for _, d := range flagLetters {
			if !b.hasArrow(i, d) {
				continue
			}
			j, ok := b.neighbour(i, d)
			if !ok {
				return fail(FlagsOffGridCondition, "Flags go off grid")
			}
			if b.hasArrow(j, d.Opposite()) {
				return fail(FlagsContradictingCondition, "Flags contradicting each other")
			}
		}
	}

	return b, nil
}

// Encode renders a board back into a game description string. Round-
// tripping ParseDescription(p, b.Encode()) reproduces b bit-for-bit
// (spec.md §8.1 P5), and Encode(ParseDescription(p, s)) reproduces s
// for every syntactically valid s the generator could have produced.
func (b *Board) Encode() string {
	var sb strings.Builder
	n := b.Cells()
	full := allBits(b.N)
	for i := 0; i < n; i++ {
		if b.immutable[i] == full {
			sb.WriteString(strconv.Itoa(int(b.known[i])))
		} else {
			sb.WriteByte('_')
		}
		for _, d := range flagLetters {
			if b.hasArrow(i, d) {
				sb.WriteByte(d.Letter())
			}
		}
		if i < n-1 {
			sb.WriteByte(',')
		}
	}
	return sb.String()
}
