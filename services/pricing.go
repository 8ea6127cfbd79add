package services

import (
	"time"

	"github.com/test-kooza/rental-management-system-sub000/models"
)

type StayQuote struct {
	Nights      int     `json:"nights"`
	BasePrice   float64 `json:"basePrice"` // nightly rate
	Subtotal    float64 `json:"subtotal"`
	CleaningFee float64 `json:"cleaningFee"`
	ServiceFee  float64 `json:"serviceFee"`
	TotalAmount float64 `json:"totalAmount"`
	Currency    string  `json:"currency"`
}

// QuoteStay prices a stay from the property's rates. The total is captured
// once at checkout-session creation and trusted at confirmation time.
func QuoteStay(property *models.Property, checkIn, checkOut time.Time) StayQuote {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	subtotal := property.NightlyPrice * float64(nights)

	return StayQuote{
		Nights:      nights,
		BasePrice:   property.NightlyPrice,
		Subtotal:    subtotal,
		CleaningFee: property.CleaningFee,
		ServiceFee:  property.ServiceFee,
		TotalAmount: subtotal + property.CleaningFee + property.ServiceFee,
		Currency:    property.Currency,
	}
}
