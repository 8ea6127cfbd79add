package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/test-kooza/rental-management-system-sub000/models"
)

const brevoSendURL = "https://api.brevo.com/v3/smtp/email"

// EmailService sends transactional email through Brevo. It is invoked only
// when a confirmation reports ShouldSendEmail=true.
type EmailService struct {
	apiKey      string
	senderEmail string
	senderName  string
	client      *http.Client
}

func NewEmailService() *EmailService {
	return &EmailService{
		apiKey:      os.Getenv("BREVO_API_KEY"),
		senderEmail: os.Getenv("EMAIL_SENDER"),
		senderName:  os.Getenv("EMAIL_SENDER_NAME"),
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *EmailService) configured() bool {
	return s.apiKey != "" && s.senderEmail != ""
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *EmailService) send(toEmail, toName, subject, htmlContent string) error {
	if !s.configured() {
		log.Println("email service not configured, skipping send")
		return nil
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.senderName, "email": s.senderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, brevoSendURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// BookingEmailPayload coerces the booking's monetary and date fields to plain
// strings; the sender cannot consume the store's native types.
func BookingEmailPayload(booking *models.Booking) map[string]string {
	payload := map[string]string{
		"bookingNumber": booking.BookingNumber,
		"checkIn":       booking.CheckIn.Format("2006-01-02"),
		"checkOut":      booking.CheckOut.Format("2006-01-02"),
		"nights":        strconv.Itoa(booking.Nights()),
		"adults":        strconv.Itoa(booking.Adults),
		"children":      strconv.Itoa(booking.Children),
		"infants":       strconv.Itoa(booking.Infants),
		"basePrice":     strconv.FormatFloat(booking.BasePrice, 'f', 2, 64),
		"totalAmount":   strconv.FormatFloat(booking.TotalAmount, 'f', 2, 64),
		"currency":      booking.Currency,
	}
	if booking.Property != nil {
		payload["propertyTitle"] = booking.Property.Title
		payload["propertyCity"] = booking.Property.City
	}
	return payload
}

// SendBookingConfirmation emails the guest their confirmed booking summary.
func (s *EmailService) SendBookingConfirmation(booking *models.Booking) error {
	if booking.Guest == nil || booking.Guest.Email == "" {
		return fmt.Errorf("booking %s has no guest email", booking.BookingNumber)
	}

	payload := BookingEmailPayload(booking)

	html := fmt.Sprintf(`<h2>Your booking is confirmed</h2>
<p>Booking number: <strong>%s</strong></p>
<p>%s, %s</p>
<p>Check-in %s, check-out %s (%s nights)</p>
<p>Total paid: %s %s</p>`,
		payload["bookingNumber"],
		payload["propertyTitle"], payload["propertyCity"],
		payload["checkIn"], payload["checkOut"], payload["nights"],
		payload["totalAmount"], payload["currency"])

	guestName := fmt.Sprintf("%s %s", booking.Guest.FirstName, booking.Guest.LastName)
	return s.send(booking.Guest.Email, guestName, "Booking confirmed: "+payload["bookingNumber"], html)
}
