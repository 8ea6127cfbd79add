package services

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/big"
	"os"
	"time"

	"github.com/test-kooza/rental-management-system-sub000/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var billingValidator = validator.New()

// ValidationError reports which billing fields are missing or malformed,
// before any external call or persistence happens.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid billing fields: %v", e.Fields)
}

// UnavailableError carries the availability checker's user-facing reason.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return "property unavailable: " + e.Reason
}

type CheckoutInput struct {
	PropertyID uint
	GuestID    uint
	CheckIn    string
	CheckOut   string
	Adults     int
	Children   int
	Infants    int
	Note       string
	Billing    BillingDetails
}

type CheckoutResult struct {
	RedirectURL   string `json:"redirectURL"`
	BookingNumber string `json:"bookingNumber"`
	SessionID     string `json:"sessionID"`
}

// CheckoutService creates the hosted payment session and the pending booking
// bound to it as a single logical unit.
type CheckoutService struct {
	db           *gorm.DB
	gateway      PaymentGateway
	availability *AvailabilityService
	successURL   string
	cancelURL    string
}

func NewCheckoutService(db *gorm.DB, gateway PaymentGateway) *CheckoutService {
	return &CheckoutService{
		db:           db,
		gateway:      gateway,
		availability: NewAvailabilityService(db),
		successURL:   os.Getenv("CHECKOUT_SUCCESS_URL"),
		cancelURL:    os.Getenv("CHECKOUT_CANCEL_URL"),
	}
}

// GenerateBookingNumber builds a human-readable booking number: a time-based
// prefix plus a random disambiguator. The unique index on booking_number is
// the backstop against the astronomically rare collision.
func GenerateBookingNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 1000)
	}
	return fmt.Sprintf("BK-%s-%03d", time.Now().Format("060102150405"), n.Int64())
}

func (s *CheckoutService) InitiateCheckout(input CheckoutInput) (*CheckoutResult, error) {
	// Billing validation happens before any external call or persistence
	if err := billingValidator.Struct(input.Billing); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			missing := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				missing = append(missing, fe.Field())
			}
			return nil, &ValidationError{Fields: missing}
		}
		return nil, err
	}

	// Authoritative re-check, even if the caller already checked at browse
	// time: this closes the race window between browsing and paying.
	availability, err := s.availability.Check(input.PropertyID, input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, &UnavailableError{Reason: availability.Reason}
	}

	var property models.Property
	if err := s.db.First(&property, input.PropertyID).Error; err != nil {
		return nil, err
	}

	checkIn, checkOut, err := ParseStayDates(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}

	quote := QuoteStay(&property, checkIn, checkOut)
	bookingNumber := GenerateBookingNumber()

	metadata := SessionMetadata{
		BookingNumber: bookingNumber,
		PropertyID:    input.PropertyID,
		GuestID:       input.GuestID,
		CheckIn:       input.CheckIn,
		CheckOut:      input.CheckOut,
		Adults:        input.Adults,
		Children:      input.Children,
		Infants:       input.Infants,
		BasePrice:     quote.BasePrice,
		TotalAmount:   quote.TotalAmount,
		Currency:      quote.Currency,
		Billing:       input.Billing,
	}

	// Monetary values are rounded to the nearest minor unit before transmission
	unitAmount := int64(math.Round(quote.TotalAmount * 100))

	session, err := s.gateway.CreateCheckoutSession(CheckoutSessionRequest{
		Description: fmt.Sprintf("%s (%s to %s, %d nights)", property.Title, input.CheckIn, input.CheckOut, quote.Nights),
		UnitAmount:  unitAmount,
		Currency:    quote.Currency,
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
		Metadata:    metadata.Encode(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	billingJSON, err := json.Marshal(input.Billing)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		BookingNumber:     bookingNumber,
		PropertyID:        input.PropertyID,
		GuestID:           input.GuestID,
		Status:            models.BookingStatusPending,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		Adults:            input.Adults,
		Children:          input.Children,
		Infants:           input.Infants,
		BasePrice:         quote.BasePrice,
		TotalAmount:       quote.TotalAmount,
		Currency:          quote.Currency,
		Note:              input.Note,
		CheckoutSessionID: session.ID,
		BillingDetails:    billingJSON,
	}

	if err := s.db.Create(&booking).Error; err != nil {
		// The session has no matching local row; it expires unused on the
		// provider side, but the failure must still be surfaced.
		log.Printf("checkout session %s created but booking persistence failed: %v", session.ID, err)
		return nil, fmt.Errorf("failed to persist booking for session %s: %w", session.ID, err)
	}

	return &CheckoutResult{
		RedirectURL:   session.URL,
		BookingNumber: bookingNumber,
		SessionID:     session.ID,
	}, nil
}
