package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/storage"

	"gorm.io/gorm"
)

var ErrUnauthorized = errors.New("not authorized to act on this booking")

// DecisionService applies a host's approve/decline decision to a pending
// booking. Unlike payment confirmation this path is human-triggered, not
// webhook-retried, so it carries no idempotency guard: a duplicate submission
// fails with ErrInvalidTransition.
type DecisionService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewDecisionService(db *gorm.DB) *DecisionService {
	return &DecisionService{db: db, notifications: NewNotificationService(db)}
}

func (s *DecisionService) Decide(bookingID uint, target models.BookingStatus, actor Identity) (*models.Booking, error) {
	if target != models.BookingStatusConfirmed && target != models.BookingStatusDeclined {
		return nil, fmt.Errorf("target %s: %w", target, ErrInvalidTransition)
	}

	var booking models.Booking
	if err := s.db.Preload("Property").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrBookingNotFound)
		}
		return nil, err
	}

	// Hosts may only decide on their own properties; admins bypass.
	if !actor.IsAdmin() {
		if booking.Property == nil || booking.Property.HostID != actor.ID {
			return nil, ErrUnauthorized
		}
	}

	transitioned, err := storage.TransitionBookingStatus(s.db, booking.ID,
		models.BookingStatusPending, target, nil)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, fmt.Errorf("booking %s is not pending: %w", booking.BookingNumber, ErrInvalidTransition)
	}

	if err := s.notifications.NotifyGuestBookingDecision(&booking, target); err != nil {
		log.Printf("guest notification failed for booking %s decision: %v", booking.BookingNumber, err)
	}

	var updated models.Booking
	if err := s.db.Preload("Property").Preload("Guest").First(&updated, booking.ID).Error; err != nil {
		return nil, err
	}

	return &updated, nil
}
