package services

import (
	"errors"
	"testing"

	"github.com/test-kooza/rental-management-system-sub000/models"
)

func TestCheckBackToBackStayIsAvailable(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, host.ID, true)
	seedBooking(t, db, property.ID, guest.ID, models.BookingStatusConfirmed, "2026-03-10", "2026-03-15")

	result, err := NewAvailabilityService(db).Check(property.ID, "2026-03-15", "2026-03-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("back-to-back stay should be available, got reason %q", result.Reason)
	}
}

func TestCheckOverlappingStayIsUnavailable(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, host.ID, true)
	seedBooking(t, db, property.ID, guest.ID, models.BookingStatusConfirmed, "2026-03-10", "2026-03-15")

	result, err := NewAvailabilityService(db).Check(property.ID, "2026-03-12", "2026-03-18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("overlapping stay should be unavailable")
	}
	if result.Reason != ReasonDatesNotAvailable {
		t.Fatalf("expected reason %q, got %q", ReasonDatesNotAvailable, result.Reason)
	}
}

func TestCheckDelistedPropertyBlocksEverything(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	property := seedProperty(t, db, host.ID, false)

	result, err := NewAvailabilityService(db).Check(property.ID, "2026-07-01", "2026-07-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("delisted property must be unavailable")
	}
	if result.Reason != ReasonNotListed {
		t.Fatalf("expected reason %q, got %q", ReasonNotListed, result.Reason)
	}
}

func TestCheckNonBlockingStatusesNeverBlock(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, host.ID, true)

	// Each one fully contains the candidate range
	for _, status := range []models.BookingStatus{
		models.BookingStatusCancelled,
		models.BookingStatusDeclined,
		models.BookingStatusCompleted,
	} {
		seedBooking(t, db, property.ID, guest.ID, status, "2026-03-01", "2026-03-31")
	}

	result, err := NewAvailabilityService(db).Check(property.ID, "2026-03-10", "2026-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("non-blocking statuses must not block, got reason %q", result.Reason)
	}
}

func TestCheckPendingBookingBlocks(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, host.ID, true)
	seedBooking(t, db, property.ID, guest.ID, models.BookingStatusPending, "2026-03-10", "2026-03-15")

	result, err := NewAvailabilityService(db).Check(property.ID, "2026-03-14", "2026-03-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("pending booking must block availability")
	}
}

func TestCheckInvalidDates(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	property := seedProperty(t, db, host.ID, true)

	service := NewAvailabilityService(db)

	cases := [][2]string{
		{"not-a-date", "2026-03-15"},
		{"2026-03-10", "15/03/2026"},
		{"2026-03-15", "2026-03-10"}, // check-out before check-in
		{"2026-03-15", "2026-03-15"}, // zero nights
	}
	for _, c := range cases {
		if _, err := service.Check(property.ID, c[0], c[1]); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("Check(%q, %q): expected ErrInvalidDateFormat, got %v", c[0], c[1], err)
		}
	}
}

func TestCheckUnknownProperty(t *testing.T) {
	db := openTestDB(t)

	if _, err := NewAvailabilityService(db).Check(9999, "2026-03-10", "2026-03-15"); !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}
