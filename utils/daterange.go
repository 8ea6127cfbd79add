package utils

import "time"

// Overlaps reports whether the half-open date ranges [startA, endA) and
// [startB, endB) intersect. A stay whose checkout equals another's check-in
// does not overlap, so back-to-back stays are allowed.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}
