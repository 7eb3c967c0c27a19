// Package score evaluates the nine-criterion quality score over an
// assembled FinancialRecord.
package score

import "kabuscore/pkg/core/table"

// Trend predicates operate on the present subsequence of a series,
// in order. Absent entries are skipped, not treated as breaks: a gap
// between two values does not count as a decrease.

// StrictlyIncreasing reports whether every present value is strictly
// below its successor. Fewer than two present values is false, not
// "insufficient data": growth needs evidence.
func StrictlyIncreasing(s table.Series) bool {
	vals := s.Present()
	if len(vals) < 2 {
		return false
	}
	for i := 0; i < len(vals)-1; i++ {
		if vals[i] >= vals[i+1] {
			return false
		}
	}
	return true
}

// NonDecreasing reports whether no present value exceeds its successor.
// Fewer than two present values is vacuously true, the asymmetry with
// StrictlyIncreasing is deliberate: a security with no dividend history
// is not penalized for "no evidence of a cut".
func NonDecreasing(s table.Series) bool {
	vals := s.Present()
	for i := 0; i+1 < len(vals); i++ {
		if vals[i] > vals[i+1] {
			return false
		}
	}
	return true
}

// AllAtLeast reports whether every present value is >= threshold.
// Vacuously true over an empty present subsequence.
func AllAtLeast(s table.Series, threshold float64) bool {
	for _, v := range s.Present() {
		if v < threshold {
			return false
		}
	}
	return true
}

// AllAtMost reports whether every present value is <= threshold.
// Vacuously true over an empty present subsequence.
func AllAtMost(s table.Series, threshold float64) bool {
	for _, v := range s.Present() {
		if v > threshold {
			return false
		}
	}
	return true
}

// AllAbove reports whether every present value is strictly above
// threshold. Used for the operating cash flow positivity check.
func AllAbove(s table.Series, threshold float64) bool {
	for _, v := range s.Present() {
		if v <= threshold {
			return false
		}
	}
	return true
}
