package score

import (
	"testing"

	"kabuscore/pkg/core/table"
)

func TestStrictlyIncreasing(t *testing.T) {
	cases := []struct {
		name string
		in   table.Series
		want bool
	}{
		{"empty", table.Series{}, false},
		{"single", table.SeriesOf(5), false},
		{"rising", table.SeriesOf(1, 2, 3), true},
		{"flat step", table.SeriesOf(1, 1, 2), false},
		{"falling", table.SeriesOf(3, 2, 1), false},
	}
	for _, c := range cases {
		if got := StrictlyIncreasing(c.in); got != c.want {
			t.Errorf("%s: StrictlyIncreasing = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestStrictlyIncreasingSkipsAbsent(t *testing.T) {
	// A gap must not break the comparison window: [1, absent, 2] is a
	// strict rise over the present subsequence.
	one, two := 1.0, 2.0
	s := table.Series{&one, nil, &two}
	if !StrictlyIncreasing(s) {
		t.Error("gap treated as a decrease")
	}

	// Two values with only one present is still insufficient evidence.
	if StrictlyIncreasing(table.Series{&one, nil}) {
		t.Error("single present value must not count as increasing")
	}
}

func TestNonDecreasing(t *testing.T) {
	cases := []struct {
		name string
		in   table.Series
		want bool
	}{
		// Vacuous truth by convention: no history is not a cut.
		{"empty", table.Series{}, true},
		{"single", table.SeriesOf(5), true},
		{"flat", table.SeriesOf(2, 2, 2), true},
		{"rising", table.SeriesOf(1, 2, 2), true},
		{"cut", table.SeriesOf(3, 2), false},
	}
	for _, c := range cases {
		if got := NonDecreasing(c.in); got != c.want {
			t.Errorf("%s: NonDecreasing = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBounds(t *testing.T) {
	s := table.SeriesOf(7, 8.5, 12)
	if !AllAtLeast(s, 7) {
		t.Error("AllAtLeast(7) should pass, 7 >= 7")
	}
	if AllAtLeast(s, 8) {
		t.Error("AllAtLeast(8) should fail on the leading 7")
	}
	if !AllAtMost(s, 12) {
		t.Error("AllAtMost(12) should pass")
	}
	if AllAtMost(s, 11) {
		t.Error("AllAtMost(11) should fail on the trailing 12")
	}
	if !AllAbove(s, 0) {
		t.Error("AllAbove(0) should pass for positive values")
	}
	if AllAbove(table.SeriesOf(5, 0, 6), 0) {
		t.Error("AllAbove(0) must reject an exact zero")
	}

	// Vacuously true over empty present subsequences.
	if !AllAtLeast(table.Series{nil}, 100) || !AllAtMost(table.Series{}, -100) {
		t.Error("bound checks must be vacuously true with no present values")
	}
}
