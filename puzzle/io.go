package puzzle

import "strings"

// ceilSqrt returns the smallest r with r*r >= n, used to size a cell's
// character block the way original_source's CELL_WIDTH/CELL_HEIGHT
// macros do (2x2 for N=4).
func ceilSqrt(n int) int {
	r := 1
	for r*r < n {
		r++
	}
	return r
}

func cellChar(b *Board, i, cn int) byte {
	if cn >= b.N {
		return ' '
	}
	bit := Value(1) << uint(cn)
	switch {
	case b.known[i]&bit != 0:
		return alphabetGlyph(cn)
	case b.mask[i]&bit == 0:
		return '.'
	default:
		return '?'
	}
}

// Dump renders b as the character-grid text format of spec.md §6.4:
// each cell is a cw x ch block ('A'+k known, '.' ruled out, '?'
// unknown), with arrow glyphs between cells. Per SPEC_FULL.md's
// SUPPLEMENTED FEATURES note, the source-cell's own flag bit is
// always checked before the target's opposite flag bit; INV-4
// guarantees they never disagree.
func (b *Board) Dump() string {
	cw := ceilSqrt(b.N)
	ch := (b.N + cw - 1) / cw

	var sb strings.Builder
	for gy := 0; gy < b.H; gy++ {
		for cy := 0; cy < ch; cy++ {
			for gx := 0; gx < b.W; gx++ {
				i := b.index(gx, gy)
				for cx := 0; cx < cw; cx++ {
					sb.WriteByte(cellChar(b, i, cy*cw+cx))
				}
				if gx < b.W-1 {
					j, _ := b.neighbour(i, Right)
					switch {
					case cy != 0:
						sb.WriteByte(' ')
					case b.hasArrow(i, Right):
						sb.WriteByte(Right.Glyph())
					case b.hasArrow(j, Left):
						sb.WriteByte(Left.Glyph())
					default:
						sb.WriteByte(' ')
					}
				}
			}
			sb.WriteByte('\n')
		}
		if gy < b.H-1 {
			for gx := 0; gx < b.W; gx++ {
				i := b.index(gx, gy)
				j, _ := b.neighbour(i, Down)
				for cx := 0; cx < cw; cx++ {
					if cx != 0 {
						sb.WriteByte(' ')
						continue
					}
					switch {
					case b.hasArrow(i, Down):
						sb.WriteByte(Down.Glyph())
					case b.hasArrow(j, Up):
						sb.WriteByte(Up.Glyph())
					default:
						sb.WriteByte(' ')
					}
				}
				if gx < b.W-1 {
					sb.WriteByte(' ')
				}
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
