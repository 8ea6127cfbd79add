package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/test-kooza/rental-management-system-sub000/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openBookingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Booking{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func createBooking(t *testing.T, db *gorm.DB, propertyID uint, status models.BookingStatus) models.Booking {
	t.Helper()
	booking := models.Booking{
		BookingNumber:     fmt.Sprintf("BK-CAS-%d", time.Now().UnixNano()),
		PropertyID:        propertyID,
		GuestID:           1,
		Status:            status,
		CheckIn:           time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CheckoutSessionID: fmt.Sprintf("cs_cas_%d", time.Now().UnixNano()),
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return booking
}

func TestTransitionBookingStatusAppliesOnce(t *testing.T) {
	db := openBookingTestDB(t)
	booking := createBooking(t, db, 1, models.BookingStatusPending)

	transitioned, err := TransitionBookingStatus(db, booking.ID,
		models.BookingStatusPending, models.BookingStatusConfirmed,
		map[string]interface{}{"payment_transaction_id": "pi_once"})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !transitioned {
		t.Fatal("expected the first transition to apply")
	}

	var stored models.Booking
	if err := db.First(&stored, booking.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Status != models.BookingStatusConfirmed {
		t.Errorf("expected confirmed, got %s", stored.Status)
	}
	if stored.PaymentTransactionID != "pi_once" {
		t.Errorf("extra column not written, got %q", stored.PaymentTransactionID)
	}

	// A repeat of the same compare-and-set finds no pending row
	transitioned, err = TransitionBookingStatus(db, booking.ID,
		models.BookingStatusPending, models.BookingStatusConfirmed,
		map[string]interface{}{"payment_transaction_id": "pi_twice"})
	if err != nil {
		t.Fatalf("second transition errored: %v", err)
	}
	if transitioned {
		t.Fatal("second transition must not apply")
	}

	db.First(&stored, booking.ID)
	if stored.PaymentTransactionID != "pi_once" {
		t.Errorf("losing transition overwrote columns: %q", stored.PaymentTransactionID)
	}
}

func TestTransitionBookingStatusWrongPrecondition(t *testing.T) {
	db := openBookingTestDB(t)
	booking := createBooking(t, db, 1, models.BookingStatusDeclined)

	transitioned, err := TransitionBookingStatus(db, booking.ID,
		models.BookingStatusPending, models.BookingStatusConfirmed, nil)
	if err != nil {
		t.Fatalf("transition errored: %v", err)
	}
	if transitioned {
		t.Fatal("transition from a non-matching status must not apply")
	}
}

func TestBlockingBookingsForProperty(t *testing.T) {
	db := openBookingTestDB(t)

	createBooking(t, db, 1, models.BookingStatusPending)
	createBooking(t, db, 1, models.BookingStatusConfirmed)
	createBooking(t, db, 1, models.BookingStatusDeclined)
	createBooking(t, db, 1, models.BookingStatusCancelled)
	createBooking(t, db, 1, models.BookingStatusCompleted)
	createBooking(t, db, 2, models.BookingStatusConfirmed)

	bookings, err := BlockingBookingsForProperty(db, 1)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected pending and confirmed only, got %d", len(bookings))
	}
	for _, booking := range bookings {
		if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
			t.Errorf("non-blocking status %s returned", booking.Status)
		}
		if booking.PropertyID != 1 {
			t.Errorf("booking for property %d returned", booking.PropertyID)
		}
	}
}
