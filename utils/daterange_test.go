package utils

import (
	"testing"
	"time"
)

func d(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func TestOverlapsSymmetry(t *testing.T) {
	ranges := [][2]string{
		{"2026-03-01", "2026-03-05"},
		{"2026-03-03", "2026-03-10"},
		{"2026-03-05", "2026-03-08"},
		{"2026-03-10", "2026-03-15"},
		{"2026-02-20", "2026-03-20"},
	}

	for i := range ranges {
		for j := range ranges {
			a0, a1 := d(t, ranges[i][0]), d(t, ranges[i][1])
			b0, b1 := d(t, ranges[j][0]), d(t, ranges[j][1])
			if Overlaps(a0, a1, b0, b1) != Overlaps(b0, b1, a0, a1) {
				t.Errorf("Overlaps not symmetric for %v vs %v", ranges[i], ranges[j])
			}
		}
	}
}

func TestOverlapsBackToBack(t *testing.T) {
	// Checkout day equals the next check-in day: no overlap
	if Overlaps(d(t, "2026-03-10"), d(t, "2026-03-15"), d(t, "2026-03-15"), d(t, "2026-03-20")) {
		t.Error("back-to-back stays must not overlap")
	}
	if Overlaps(d(t, "2026-03-15"), d(t, "2026-03-20"), d(t, "2026-03-10"), d(t, "2026-03-15")) {
		t.Error("back-to-back stays must not overlap (reversed)")
	}
}

func TestOverlapsContainment(t *testing.T) {
	// Candidate fully contains an existing stay
	if !Overlaps(d(t, "2026-03-01"), d(t, "2026-03-31"), d(t, "2026-03-10"), d(t, "2026-03-15")) {
		t.Error("containing range must overlap")
	}
	// Candidate fully inside an existing stay
	if !Overlaps(d(t, "2026-03-11"), d(t, "2026-03-13"), d(t, "2026-03-10"), d(t, "2026-03-15")) {
		t.Error("contained range must overlap")
	}
}

// threeCaseOverlap is the expanded decomposition: candidate starts during the
// stay, candidate ends during the stay, or candidate fully contains the stay.
// It must agree with Overlaps on every input.
func threeCaseOverlap(startA, endA, startB, endB time.Time) bool {
	startsDuring := (startA.After(startB) || startA.Equal(startB)) && startA.Before(endB)
	endsDuring := endA.After(startB) && (endA.Before(endB) || endA.Equal(endB))
	contains := (startA.Before(startB) || startA.Equal(startB)) && (endA.After(endB) || endA.Equal(endB))
	return startsDuring || endsDuring || contains
}

func TestOverlapsEquivalentToThreeCaseForm(t *testing.T) {
	base := d(t, "2026-03-01")
	// Exhaustive small grid of half-open ranges over a 10-day window
	for aStart := 0; aStart < 10; aStart++ {
		for aEnd := aStart + 1; aEnd <= 10; aEnd++ {
			for bStart := 0; bStart < 10; bStart++ {
				for bEnd := bStart + 1; bEnd <= 10; bEnd++ {
					a0 := base.AddDate(0, 0, aStart)
					a1 := base.AddDate(0, 0, aEnd)
					b0 := base.AddDate(0, 0, bStart)
					b1 := base.AddDate(0, 0, bEnd)
					simple := Overlaps(a0, a1, b0, b1)
					expanded := threeCaseOverlap(a0, a1, b0, b1)
					if simple != expanded {
						t.Fatalf("forms disagree for [%d,%d) vs [%d,%d): simple=%v expanded=%v",
							aStart, aEnd, bStart, bEnd, simple, expanded)
					}
				}
			}
		}
	}
}
