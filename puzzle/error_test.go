package puzzle

import "testing"

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  Error
		want string
	}{
		{Error{Message: "Puzzle is invalid."}, "Puzzle is invalid."},
		{Error{Scope: CodecScope, Condition: OutOfRangeNumberCondition}, "Invalid game description: Out-of-range number in game description"},
		{Error{Scope: CodecScope, Condition: FlagsOffGridCondition}, "Invalid game description: Flags go off grid"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("Error() = %q, want %q", got, c.want)
		}
	}
}
