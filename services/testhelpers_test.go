package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/test-kooza/rental-management-system-sub000/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
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

	if err := db.AutoMigrate(
		&models.Conversation{},
		&models.Message{},
		&models.User{},
		&models.Property{},
		&models.Booking{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  role,
		Email:     fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Role:      role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedProperty(t *testing.T, db *gorm.DB, hostID uint, available bool) models.Property {
	t.Helper()
	property := models.Property{
		HostID:       hostID,
		Title:        "Seaside Loft",
		City:         "Nouakchott",
		NightlyPrice: 120,
		CleaningFee:  30,
		ServiceFee:   15,
		Currency:     "USD",
		IsAvailable:  &available,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("failed to seed property: %v", err)
	}
	return property
}

var seededBookings int

func seedBooking(t *testing.T, db *gorm.DB, propertyID, guestID uint, status models.BookingStatus, checkIn, checkOut string) models.Booking {
	t.Helper()
	seededBookings++
	booking := models.Booking{
		BookingNumber:     fmt.Sprintf("BK-SEED-%d-%d", time.Now().UnixNano(), seededBookings),
		PropertyID:        propertyID,
		GuestID:           guestID,
		Status:            status,
		CheckIn:           day(t, checkIn),
		CheckOut:          day(t, checkOut),
		Adults:            2,
		BasePrice:         120,
		TotalAmount:       645,
		Currency:          "USD",
		CheckoutSessionID: fmt.Sprintf("cs_seed_%d_%d", time.Now().UnixNano(), seededBookings),
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return booking
}

func validBilling() BillingDetails {
	return BillingDetails{
		Street:  "12 Harbor Road",
		City:    "Nouakchott",
		State:   "NKC",
		Zip:     "10001",
		Country: "MR",
		Phone:   "22212345",
	}
}

// fakeGateway is an in-memory PaymentGateway for tests.
type fakeGateway struct {
	sessions  map[string]*CheckoutSession
	created   []CheckoutSessionRequest
	createErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*CheckoutSession{}}
}

func (f *fakeGateway) CreateCheckoutSession(req CheckoutSessionRequest) (*CheckoutSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.created = append(f.created, req)
	id := fmt.Sprintf("cs_test_%03d", len(f.created))
	session := &CheckoutSession{
		ID:            id,
		URL:           "https://pay.example.com/" + id,
		PaymentStatus: "unpaid",
		Metadata:      req.Metadata,
	}
	f.sessions[id] = session
	return session, nil
}

func (f *fakeGateway) RetrieveCheckoutSession(sessionID string) (*CheckoutSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	return session, nil
}

func (f *fakeGateway) markPaid(sessionID, transactionID string) {
	if session, ok := f.sessions[sessionID]; ok {
		session.PaymentStatus = PaymentStatusPaid
		session.TransactionID = transactionID
	}
}

// addSession registers a session that did not come from CreateCheckoutSession.
func (f *fakeGateway) addSession(session *CheckoutSession) {
	f.sessions[session.ID] = session
}
