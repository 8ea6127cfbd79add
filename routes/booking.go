package routes

import (
	"errors"
	"log"

	"github.com/test-kooza/rental-management-system-sub000/models"
	"github.com/test-kooza/rental-management-system-sub000/services"
	"github.com/test-kooza/rental-management-system-sub000/storage"
	"github.com/test-kooza/rental-management-system-sub000/utils"

	"github.com/kataras/iris/v12"
)

// newPaymentGateway is swapped out by tests
var newPaymentGateway = func() services.PaymentGateway { return services.NewStripeGateway() }

type CreateCheckoutInput struct {
	PropertyID uint                    `json:"propertyID" validate:"required"`
	CheckIn    string                  `json:"checkIn" validate:"required"`
	CheckOut   string                  `json:"checkOut" validate:"required"`
	Adults     int                     `json:"adults" validate:"required,min=1"`
	Children   int                     `json:"children" validate:"min=0"`
	Infants    int                     `json:"infants" validate:"min=0"`
	Note       string                  `json:"note" validate:"lt=1000"`
	Billing    services.BillingDetails `json:"billing"`
}

type DecisionInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed declined"`
}

// InitiateBookingCheckout validates the request, re-checks availability and
// hands the guest off to the hosted payment page.
func InitiateBookingCheckout(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateCheckoutInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	checkout := services.NewCheckoutService(storage.DB, newPaymentGateway())
	result, err := checkout.InitiateCheckout(services.CheckoutInput{
		PropertyID: input.PropertyID,
		GuestID:    userID,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Adults:     input.Adults,
		Children:   input.Children,
		Infants:    input.Infants,
		Note:       input.Note,
		Billing:    input.Billing,
	})
	if err != nil {
		var validationErr *services.ValidationError
		var unavailableErr *services.UnavailableError
		switch {
		case errors.As(err, &validationErr):
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{"message": "Missing required billing fields", "fields": validationErr.Fields})
		case errors.As(err, &unavailableErr):
			ctx.StatusCode(iris.StatusConflict)
			ctx.JSON(iris.Map{"message": "Property is not available", "reason": unavailableErr.Reason})
		case errors.Is(err, services.ErrInvalidDateFormat):
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{"message": "Invalid date format"})
		case errors.Is(err, services.ErrPropertyNotFound):
			ctx.StatusCode(iris.StatusNotFound)
			ctx.JSON(iris.Map{"message": "Property not found"})
		default:
			log.Printf("checkout initiation failed: %v", err)
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.JSON(iris.Map{
		"success":       true,
		"url":           result.RedirectURL,
		"bookingNumber": result.BookingNumber,
	})
}

// ConfirmBookingPayment is the client-side success callback. It converges on
// the same confirmation processor as the webhook.
func ConfirmBookingPayment(ctx iris.Context) {
	sessionID := ctx.URLParam("session_id")
	if sessionID == "" {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "session_id is required"})
		return
	}

	confirmation := services.NewConfirmationService(storage.DB, newPaymentGateway())
	result, err := confirmation.ConfirmCheckoutSession(sessionID)
	if err != nil {
		log.Printf("payment confirmation failed for session %s: %v", sessionID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	if result.Outcome == services.OutcomePaymentIncomplete {
		ctx.JSON(iris.Map{
			"success": false,
			"pending": true,
			"message": "Payment has not settled yet, please try again shortly.",
		})
		return
	}

	if result.ShouldSendEmail && result.Booking != nil {
		emailService := services.NewEmailService()
		booking := result.Booking
		go func() {
			if err := emailService.SendBookingConfirmation(booking); err != nil {
				log.Printf("confirmation email failed for booking %s: %v", booking.BookingNumber, err)
			}
		}()
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    result.Booking,
	})
}

// DecideBooking lets a host (or admin) approve or decline a pending booking.
func DecideBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	userRole, _ := ctx.Values().Get("userRole").(string)

	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid booking ID"})
		return
	}

	var input DecisionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	decision := services.NewDecisionService(storage.DB)
	booking, err := decision.Decide(bookingID, models.BookingStatus(input.Status),
		services.Identity{ID: userID, Role: userRole})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			ctx.StatusCode(iris.StatusForbidden)
			ctx.JSON(iris.Map{"message": "You do not own this property"})
		case errors.Is(err, services.ErrBookingNotFound):
			ctx.StatusCode(iris.StatusNotFound)
			ctx.JSON(iris.Map{"message": "Booking not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			ctx.StatusCode(iris.StatusConflict)
			ctx.JSON(iris.Map{"message": "Booking is not pending"})
		default:
			log.Printf("booking decision failed: %v", err)
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    booking,
	})
}

// GetMyBookings lists the authenticated guest's bookings, newest first.
func GetMyBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.Where("guest_id = ?", userID).
		Preload("Property").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch bookings"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    bookings,
	})
}

// GetHostBookings lists bookings across all properties owned by this host.
func GetHostBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	if err := storage.DB.
		Joins("JOIN properties ON bookings.property_id = properties.id").
		Where("properties.host_id = ?", userID).
		Preload("Property").
		Preload("Guest").
		Order("bookings.created_at DESC").
		Find(&bookings).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch host bookings"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    bookings,
	})
}
