package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/storage"

	"gorm.io/gorm"
)

var (
	ErrCorruptSession    = errors.New("checkout session metadata is missing or corrupt")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

type ConfirmationOutcome string

const (
	OutcomeConfirmed         ConfirmationOutcome = "confirmed"
	OutcomeAlreadyConfirmed  ConfirmationOutcome = "already_confirmed"
	OutcomePaymentIncomplete ConfirmationOutcome = "payment_incomplete"
)

type ConfirmationResult struct {
	Outcome         ConfirmationOutcome `json:"outcome"`
	ShouldSendEmail bool                `json:"shouldSendEmail"`
	Booking         *models.Booking     `json:"booking,omitempty"`
	// FailedSideEffects lists best-effort steps (conversation, notifications)
	// that did not complete. The confirmation itself still succeeded.
	FailedSideEffects []string `json:"failedSideEffects,omitempty"`
}

// ConfirmationService turns a settled checkout session into a confirmed
// booking exactly once. Webhook deliveries and client success-page callbacks
// both land here, so the idempotency logic has a single path.
type ConfirmationService struct {
	db            *gorm.DB
	gateway       PaymentGateway
	notifications *NotificationService
}

func NewConfirmationService(db *gorm.DB, gateway PaymentGateway) *ConfirmationService {
	return &ConfirmationService{
		db:            db,
		gateway:       gateway,
		notifications: NewNotificationService(db),
	}
}

func (s *ConfirmationService) ConfirmCheckoutSession(sessionID string) (*ConfirmationResult, error) {
	// Fast idempotency check: a booking already confirmed for this session
	// makes the whole call a no-op, however many times it is repeated.
	var existing models.Booking
	err := s.db.Where("checkout_session_id = ? AND status = ?", sessionID, models.BookingStatusConfirmed).
		First(&existing).Error
	if err == nil {
		return &ConfirmationResult{Outcome: OutcomeAlreadyConfirmed, ShouldSendEmail: false, Booking: &existing}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session, err := s.gateway.RetrieveCheckoutSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}

	// The webhook may legitimately fire before payment clears, or for a
	// session the user abandoned. Not an error.
	if session.PaymentStatus != PaymentStatusPaid {
		return &ConfirmationResult{Outcome: OutcomePaymentIncomplete, ShouldSendEmail: false}, nil
	}

	meta, err := DecodeSessionMetadata(session.Metadata)
	if err != nil {
		log.Printf("checkout session %s has unusable metadata: %v", sessionID, err)
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrCorruptSession)
	}

	// Metadata-keyed lookup is the authoritative path; the local row's stored
	// session id may not have been persisted yet.
	var booking models.Booking
	if err := s.db.Where("booking_number = ?", meta.BookingNumber).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("no booking %s found for checkout session %s", meta.BookingNumber, sessionID)
			return nil, fmt.Errorf("booking %s (session %s): %w", meta.BookingNumber, sessionID, ErrBookingNotFound)
		}
		return nil, err
	}

	// Second idempotency check: two webhook deliveries can race past the
	// session-id lookup above.
	if booking.Status == models.BookingStatusConfirmed {
		return &ConfirmationResult{Outcome: OutcomeAlreadyConfirmed, ShouldSendEmail: false, Booking: &booking}, nil
	}

	transitioned, err := storage.TransitionBookingStatus(s.db, booking.ID,
		models.BookingStatusPending, models.BookingStatusConfirmed,
		map[string]interface{}{
			"payment_transaction_id": session.TransactionID,
			"checkout_session_id":    sessionID,
		})
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// Lost the race or the booking left pending through another path.
		if err := s.db.First(&booking, booking.ID).Error; err != nil {
			return nil, err
		}
		if booking.Status == models.BookingStatusConfirmed {
			return &ConfirmationResult{Outcome: OutcomeAlreadyConfirmed, ShouldSendEmail: false, Booking: &booking}, nil
		}
		return nil, fmt.Errorf("booking %s is %s: %w", booking.BookingNumber, booking.Status, ErrInvalidTransition)
	}

	result := &ConfirmationResult{Outcome: OutcomeConfirmed, ShouldSendEmail: true}

	var property models.Property
	if err := s.db.First(&property, booking.PropertyID).Error; err != nil {
		// Confirmation already happened; everything past this point is
		// best-effort and reported through the side channel.
		log.Printf("booking %s confirmed but property %d load failed: %v", booking.BookingNumber, booking.PropertyID, err)
		result.FailedSideEffects = append(result.FailedSideEffects, "conversation", "host_notification", "guest_notification")
		if err := s.db.First(&booking, booking.ID).Error; err == nil {
			result.Booking = &booking
		}
		return result, nil
	}

	conversation, convErr := s.findOrCreateConversation(booking.GuestID, property.HostID)
	if convErr != nil {
		log.Printf("failed to establish conversation for booking %s: %v", booking.BookingNumber, convErr)
		result.FailedSideEffects = append(result.FailedSideEffects, "conversation")
	} else {
		if err := s.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
			Update("conversation_id", conversation.ID).Error; err != nil {
			log.Printf("failed to link conversation %d to booking %s: %v", conversation.ID, booking.BookingNumber, err)
			result.FailedSideEffects = append(result.FailedSideEffects, "conversation_link")
		}
	}

	if err := s.notifications.NotifyHostBookingConfirmed(&booking, &property); err != nil {
		log.Printf("host notification failed for booking %s: %v", booking.BookingNumber, err)
		result.FailedSideEffects = append(result.FailedSideEffects, "host_notification")
	}
	if err := s.notifications.NotifyGuestBookingConfirmed(&booking, &property); err != nil {
		log.Printf("guest notification failed for booking %s: %v", booking.BookingNumber, err)
		result.FailedSideEffects = append(result.FailedSideEffects, "guest_notification")
	}

	var updated models.Booking
	if err := s.db.Preload("Property").Preload("Guest").First(&updated, booking.ID).Error; err != nil {
		return nil, err
	}
	result.Booking = &updated

	return result, nil
}

// findOrCreateConversation returns the single conversation for a guest/host
// pair. The unique pair index makes the create side race-safe: a concurrent
// confirmation that wins the insert is simply read back.
func (s *ConfirmationService) findOrCreateConversation(guestID, hostID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.Where("guest_id = ? AND host_id = ?", guestID, hostID).First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conversation = models.Conversation{GuestID: guestID, HostID: hostID}
	if createErr := s.db.Create(&conversation).Error; createErr != nil {
		if err := s.db.Where("guest_id = ? AND host_id = ?", guestID, hostID).First(&conversation).Error; err != nil {
			return nil, createErr
		}
	}

	return &conversation, nil
}
