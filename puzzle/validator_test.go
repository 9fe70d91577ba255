package puzzle

import "testing"

// TestArrowContradictionDetection is spec.md §8.2 scenario T4.
func TestArrowContradictionDetection(t *testing.T) {
	b, err := NewBoard(DefaultParams)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	// cell 0 and cell 1 are horizontal neighbours.
	i, j := 0, 1
	b.known[i], b.mask[i] = 0b0011, 0b0011
	b.known[j], b.mask[j] = 0b0100, 0b0100
	b.setArrow(i, Right, true)

	flags := make([]uint8, b.Cells())
	status := Validate(b, flags, nil)
	if status != StatusInvalid {
		t.Fatalf("Validate() = %v, want INVALID", status)
	}
	if flags[i]&Right.Flag() == 0 {
		t.Errorf("edge (%d,%d) not flagged invalid", i, j)
	}
}

func TestValidateDuplicateValue(t *testing.T) {
	b := newIdentityBoard(t)
	b.known[1], b.mask[1] = b.known[0], b.mask[0]
	if status := Validate(b, nil, nil); status != StatusInvalid {
		t.Errorf("Validate() with duplicate value = %v, want INVALID", status)
	}
}

func TestValidateUnfinished(t *testing.T) {
	b := newIdentityBoard(t)
	b.known[5], b.mask[5] = 0, allBits(b.N)
	if status := Validate(b, nil, nil); status != StatusUnfinished {
		t.Errorf("Validate() with one open cell = %v, want UNFINISHED", status)
	}
}
