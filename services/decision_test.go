package services

import (
	"errors"
	"testing"

	"github.com/test-kooza/rental-management-system-sub000/models"
)

func TestDecideOwnerConfirms(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, host.ID, true)
	booking := seedBooking(t, db, property.ID, guest.ID, models.BookingStatusPending, "2026-03-10", "2026-03-15")

	service := NewDecisionService(db)
	updated, err := service.Decide(booking.ID, models.BookingStatusConfirmed, Identity{ID: host.ID, Role: RoleHost})
	if err != nil {
		t.Fatalf("owner decision failed: %v", err)
	}
	if updated.Status != models.BookingStatusConfirmed {
		t.Errorf("expected confirmed, got %s", updated.Status)
	}

	var notifications []models.Notification
	if err := db.Find(&notifications).Error; err != nil {
		t.Fatalf("notification query failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected one guest notification, got %d", len(notifications))
	}
	if notifications[0].UserID != guest.ID {
		t.Errorf("notification went to user %d, want guest %d", notifications[0].UserID, guest.ID)
	}
	if notifications[0].Type != "booking_confirmed" {
		t.Errorf("unexpected notification type %q", notifications[0].Type)
	}
}

func TestDecideNonOwnerRejected(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "host")
	otherHost := seedUser(t, db, "host")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, owner.ID, true)
	booking := seedBooking(t, db, property.ID, guest.ID, models.BookingStatusPending, "2026-03-10", "2026-03-15")

	service := NewDecisionService(db)
	_, err := service.Decide(booking.ID, models.BookingStatusDeclined, Identity{ID: otherHost.ID, Role: RoleHost})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	var stored models.Booking
	if err := db.First(&stored, booking.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Status != models.BookingStatusPending {
		t.Errorf("rejected decision must not change status, got %s", stored.Status)
	}

	var notifications int64
	db.Model(&models.Notification{}).Count(&notifications)
	if notifications != 0 {
		t.Errorf("rejected decision must not notify anyone, got %d", notifications)
	}
}

func TestDecideAdminBypassesOwnership(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	admin := seedUser(t, db, "admin")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, host.ID, true)
	booking := seedBooking(t, db, property.ID, guest.ID, models.BookingStatusPending, "2026-03-10", "2026-03-15")

	service := NewDecisionService(db)
	updated, err := service.Decide(booking.ID, models.BookingStatusDeclined, Identity{ID: admin.ID, Role: RoleAdmin})
	if err != nil {
		t.Fatalf("admin decision failed: %v", err)
	}
	if updated.Status != models.BookingStatusDeclined {
		t.Errorf("expected declined, got %s", updated.Status)
	}
}

func TestDecideInvalidTarget(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, host.ID, true)
	booking := seedBooking(t, db, property.ID, guest.ID, models.BookingStatusPending, "2026-03-10", "2026-03-15")

	service := NewDecisionService(db)
	for _, target := range []models.BookingStatus{models.BookingStatusPending, models.BookingStatusCancelled, models.BookingStatusCompleted} {
		_, err := service.Decide(booking.ID, target, Identity{ID: host.ID, Role: RoleHost})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("target %s: expected ErrInvalidTransition, got %v", target, err)
		}
	}
}

func TestDecideAlreadyDecided(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, "host")
	guest := seedUser(t, db, "user")
	property := seedProperty(t, db, host.ID, true)
	booking := seedBooking(t, db, property.ID, guest.ID, models.BookingStatusConfirmed, "2026-03-10", "2026-03-15")

	service := NewDecisionService(db)
	_, err := service.Decide(booking.ID, models.BookingStatusDeclined, Identity{ID: host.ID, Role: RoleHost})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on a decided booking, got %v", err)
	}

	var stored models.Booking
	if err := db.First(&stored, booking.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Status != models.BookingStatusConfirmed {
		t.Errorf("decided booking must keep its status, got %s", stored.Status)
	}
}

func TestDecideUnknownBooking(t *testing.T) {
	db := openTestDB(t)
	service := NewDecisionService(db)

	_, err := service.Decide(9999, models.BookingStatusConfirmed, Identity{ID: 1, Role: RoleAdmin})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
