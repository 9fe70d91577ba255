package puzzle

import "testing"

// newIdentityBoard builds the T1 scenario from spec.md §8.2: all 16
// cells immutable with values 0..15 in row-major order, arrows
// synthesised exactly as the generator would (spec.md §4.3 step 2).
func newIdentityBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoard(DefaultParams)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	full := allBits(b.N)
	for i := 0; i < b.Cells(); i++ {
		b.known[i] = Value(i)
		b.mask[i] = Value(i)
		b.immutable[i] = full
	}
	for i := 0; i < b.Cells(); i++ {
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
	return b
}

func TestParamsValidate(t *testing.T) {
	cases := []struct {
		p     Params
		valid bool
	}{
		{Params{4, 4, 4}, true},
		{Params{3, 3, 4}, false},
		{Params{4, 4, 5}, false},
		{Params{8, 2, 4}, false},
	}
	for _, c := range cases {
		err := c.p.Validate()
		if (err == nil) != c.valid {
			t.Errorf("Params(%v).Validate() error = %v, want valid=%v", c.p, err, c.valid)
		}
	}
}

func TestParseParamsRoundTrip(t *testing.T) {
	p, err := ParseParams("4x4n4")
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p != DefaultParams {
		t.Errorf("ParseParams(4x4n4) = %+v, want %+v", p, DefaultParams)
	}
	if got := p.String(); got != "4x4n4" {
		t.Errorf("Params.String() = %q, want %q", got, "4x4n4")
	}
	if _, err := ParseParams("garbage"); err == nil {
		t.Errorf("ParseParams(garbage) succeeded, want error")
	}
}

func TestBoardCloneIndependence(t *testing.T) {
	b := newIdentityBoard(t)
	clone := b.Clone()
	clone.known[0] = 99
	if b.known[0] == 99 {
		t.Errorf("Clone shares backing array with original")
	}
}
