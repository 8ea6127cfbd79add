package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// BlockingStatuses are the statuses whose date ranges count against availability.
// Declined, cancelled and completed stays never block a candidate range.
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusPending, BookingStatusConfirmed}
}

// Booking is a reservation of a Property by a guest. It is created pending when
// a checkout session is initiated and only moves forward through the lifecycle:
// pending -> confirmed/declined; confirmed -> completed/cancelled elsewhere.
type Booking struct {
	gorm.Model
	BookingNumber string        `json:"bookingNumber" gorm:"size:32;uniqueIndex"`
	PropertyID    uint          `json:"propertyID" gorm:"index"`
	GuestID       uint          `json:"guestID" gorm:"index"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CheckIn       time.Time     `json:"checkIn"`
	CheckOut      time.Time     `json:"checkOut"`
	Adults        int           `json:"adults"`
	Children      int           `json:"children"`
	Infants       int           `json:"infants"`
	BasePrice     float64       `json:"basePrice"`
	TotalAmount   float64       `json:"totalAmount"`
	Currency      string        `json:"currency" gorm:"size:8"`
	Note          string        `json:"note" gorm:"size:1000"`

	// CheckoutSessionID identifies the hosted payment attempt; it doubles as
	// the idempotency key for confirmation. PaymentTransactionID identifies
	// the settled charge and is only set once the booking is confirmed.
	CheckoutSessionID    string `json:"checkoutSessionID" gorm:"size:128;uniqueIndex"`
	PaymentTransactionID string `json:"paymentTransactionID" gorm:"size:128"`

	ConversationID *uint          `json:"conversationID" gorm:"index"`
	BillingDetails datatypes.JSON `json:"billingDetails" gorm:"type:jsonb"`

	// Relationships
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
}

// Nights returns the length of the stay in nights. CheckIn/CheckOut are stored
// at midnight UTC so this is exact.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
