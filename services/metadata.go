package services

import (
	"fmt"
	"strconv"
)

// sessionMetadataVersion tags the flat metadata payload so the decode side can
// reject shapes it does not understand.
const sessionMetadataVersion = "1"

type BillingDetails struct {
	Street   string `json:"street" validate:"required"`
	AptSuite string `json:"aptSuite"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Zip      string `json:"zip" validate:"required"`
	Country  string `json:"country" validate:"required"`
	Phone    string `json:"phone"`
}

// SessionMetadata is everything needed to reconstruct a booking from the
// provider's checkout session alone. It is the recovery path if the local
// pending row is ever lost or inconsistent, so it must round-trip exactly.
type SessionMetadata struct {
	BookingNumber string
	PropertyID    uint
	GuestID       uint
	CheckIn       string // 2006-01-02
	CheckOut      string
	Adults        int
	Children      int
	Infants       int
	BasePrice     float64
	TotalAmount   float64
	Currency      string
	Billing       BillingDetails
}

func (m *SessionMetadata) Encode() map[string]string {
	return map[string]string{
		"version":        sessionMetadataVersion,
		"bookingNumber":  m.BookingNumber,
		"propertyID":     strconv.FormatUint(uint64(m.PropertyID), 10),
		"guestID":        strconv.FormatUint(uint64(m.GuestID), 10),
		"checkIn":        m.CheckIn,
		"checkOut":       m.CheckOut,
		"adults":         strconv.Itoa(m.Adults),
		"children":       strconv.Itoa(m.Children),
		"infants":        strconv.Itoa(m.Infants),
		"basePrice":      strconv.FormatFloat(m.BasePrice, 'f', -1, 64),
		"totalAmount":    strconv.FormatFloat(m.TotalAmount, 'f', -1, 64),
		"currency":       m.Currency,
		"billingStreet":  m.Billing.Street,
		"billingApt":     m.Billing.AptSuite,
		"billingCity":    m.Billing.City,
		"billingState":   m.Billing.State,
		"billingZip":     m.Billing.Zip,
		"billingCountry": m.Billing.Country,
		"billingPhone":   m.Billing.Phone,
	}
}

func metadataInt(values map[string]string, key string) (int, error) {
	raw := values[key]
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("session metadata has invalid %s: %v", key, err)
	}
	return n, nil
}

func metadataFloat(values map[string]string, key string) (float64, error) {
	raw := values[key]
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("session metadata has invalid %s: %v", key, err)
	}
	return f, nil
}

// DecodeSessionMetadata parses the metadata captured at checkout-session
// creation. The keys required to locate the booking (booking number, property
// and guest references) are mandatory; there is no recovery path without them.
func DecodeSessionMetadata(values map[string]string) (*SessionMetadata, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("session metadata is empty")
	}

	for _, key := range []string{"bookingNumber", "propertyID", "guestID"} {
		if values[key] == "" {
			return nil, fmt.Errorf("session metadata is missing %q", key)
		}
	}

	propertyID, err := strconv.ParseUint(values["propertyID"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("session metadata has invalid propertyID: %v", err)
	}
	guestID, err := strconv.ParseUint(values["guestID"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("session metadata has invalid guestID: %v", err)
	}

	// The non-mandatory numerics may be absent, but a present value that does
	// not parse means the payload was tampered with or truncated, and a silent
	// zero price is worse than failing.
	adults, err := metadataInt(values, "adults")
	if err != nil {
		return nil, err
	}
	children, err := metadataInt(values, "children")
	if err != nil {
		return nil, err
	}
	infants, err := metadataInt(values, "infants")
	if err != nil {
		return nil, err
	}
	basePrice, err := metadataFloat(values, "basePrice")
	if err != nil {
		return nil, err
	}
	totalAmount, err := metadataFloat(values, "totalAmount")
	if err != nil {
		return nil, err
	}

	return &SessionMetadata{
		BookingNumber: values["bookingNumber"],
		PropertyID:    uint(propertyID),
		GuestID:       uint(guestID),
		CheckIn:       values["checkIn"],
		CheckOut:      values["checkOut"],
		Adults:        adults,
		Children:      children,
		Infants:       infants,
		BasePrice:     basePrice,
		TotalAmount:   totalAmount,
		Currency:      values["currency"],
		Billing: BillingDetails{
			Street:   values["billingStreet"],
			AptSuite: values["billingApt"],
			City:     values["billingCity"],
			State:    values["billingState"],
			Zip:      values["billingZip"],
			Country:  values["billingCountry"],
			Phone:    values["billingPhone"],
		},
	}, nil
}
