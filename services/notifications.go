package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/utils"

	"gorm.io/gorm"
)

// NotificationService handles notification rows and push delivery. Every
// method here is best-effort from the caller's point of view: failures are
// returned so the caller can report them, but never abort the triggering
// operation.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := ns.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, nil
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

func (ns *NotificationService) pushToUser(userID uint, title, body string, data map[string]string) {
	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("failed to load push tokens for user %d: %v", userID, err)
		return
	}

	for _, token := range tokens {
		if err := utils.SendPushNotification(token, title, body, data); err != nil {
			log.Printf("failed to push to token of user %d: %v", userID, err)
		}
	}
}

func (ns *NotificationService) createAndPush(notification models.Notification, data map[string]string) error {
	if err := ns.db.Create(&notification).Error; err != nil {
		return err
	}

	go ns.pushToUser(notification.UserID, notification.Title, notification.Message, data)
	return nil
}

// NotifyHostBookingConfirmed tells the host a paid booking came in.
func (ns *NotificationService) NotifyHostBookingConfirmed(booking *models.Booking, property *models.Property) error {
	return ns.createAndPush(models.Notification{
		UserID: property.HostID,
		Type:   "booking_confirmed",
		Title:  "New booking confirmed",
		Message: fmt.Sprintf("%s was booked from %s to %s (booking %s).",
			property.Title,
			booking.CheckIn.Format("Jan 2, 2006"),
			booking.CheckOut.Format("Jan 2, 2006"),
			booking.BookingNumber),
		RefType: "booking",
		RefID:   booking.ID,
	}, map[string]string{
		"type":       "booking_confirmed",
		"bookingId":  fmt.Sprintf("%d", booking.ID),
		"propertyId": fmt.Sprintf("%d", booking.PropertyID),
	})
}

// NotifyGuestBookingConfirmed tells the guest their payment went through.
func (ns *NotificationService) NotifyGuestBookingConfirmed(booking *models.Booking, property *models.Property) error {
	return ns.createAndPush(models.Notification{
		UserID: booking.GuestID,
		Type:   "booking_confirmed",
		Title:  "Booking confirmed",
		Message: fmt.Sprintf("Your stay at %s from %s to %s is confirmed (booking %s).",
			property.Title,
			booking.CheckIn.Format("Jan 2, 2006"),
			booking.CheckOut.Format("Jan 2, 2006"),
			booking.BookingNumber),
		RefType: "booking",
		RefID:   booking.ID,
	}, map[string]string{
		"type":       "booking_confirmed",
		"bookingId":  fmt.Sprintf("%d", booking.ID),
		"propertyId": fmt.Sprintf("%d", booking.PropertyID),
	})
}

// NotifyGuestBookingDecision tells the guest the host approved or declined.
func (ns *NotificationService) NotifyGuestBookingDecision(booking *models.Booking, decision models.BookingStatus) error {
	title := "Booking approved"
	message := fmt.Sprintf("Your booking %s was approved by the host.", booking.BookingNumber)
	if decision == models.BookingStatusDeclined {
		title = "Booking declined"
		message = fmt.Sprintf("Your booking %s was declined by the host.", booking.BookingNumber)
	}

	return ns.createAndPush(models.Notification{
		UserID:  booking.GuestID,
		Type:    "booking_" + string(decision),
		Title:   title,
		Message: message,
		RefType: "booking",
		RefID:   booking.ID,
	}, map[string]string{
		"type":      "booking_" + string(decision),
		"bookingId": fmt.Sprintf("%d", booking.ID),
	})
}
