package safe

import (
	"math"
)

// Increment returns n+1 and reports false instead of wrapping.
// Counters that must never roll over (nonces) use this form.
func Increment(n uint64) (uint64, bool) {
	if n == math.MaxUint64 {
		return n, false
	}
	return n + 1, true
}
