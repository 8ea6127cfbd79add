package routes

import (
	"encoding/json"
	"log"
	"os"

	"github.com/test-kooza/rental-management-system-sub000/services"
	"github.com/test-kooza/rental-management-system-sub000/storage"

	"github.com/kataras/iris/v12"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeWebhook receives asynchronous payment events. The signature header is
// verified against the shared secret before the payload is trusted. Once an
// event has been dispatched to the confirmation processor we answer 200 even
// for non-fatal outcomes, so the provider stops retrying.
func StripeWebhook(ctx iris.Context) {
	payload, err := ctx.GetBody()
	if err != nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Unable to read payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		log.Printf("webhook signature verification failed: %v", err)
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid signature"})
		return
	}

	if event.Type == "checkout.session.completed" {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("webhook event %s has malformed session payload: %v", event.ID, err)
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{"message": "Malformed event payload"})
			return
		}

		confirmation := services.NewConfirmationService(storage.DB, newPaymentGateway())
		result, err := confirmation.ConfirmCheckoutSession(session.ID)
		if err != nil {
			// Data-integrity failures are logged for operator attention;
			// retrying the delivery cannot repair them, so still ack.
			log.Printf("webhook confirmation failed for session %s: %v", session.ID, err)
		} else if result.ShouldSendEmail && result.Booking != nil {
			emailService := services.NewEmailService()
			booking := result.Booking
			go func() {
				if err := emailService.SendBookingConfirmation(booking); err != nil {
					log.Printf("confirmation email failed for booking %s: %v", booking.BookingNumber, err)
				}
			}()
		}
	}

	ctx.JSON(iris.Map{"received": true})
}
