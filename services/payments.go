package services

import (
	"os"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// PaymentStatusPaid is the provider's settled-payment status.
const PaymentStatusPaid = "paid"

type CheckoutSessionRequest struct {
	Description string
	UnitAmount  int64 // minor currency units (cents)
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	ID            string
	URL           string
	PaymentStatus string
	TransactionID string // settled charge, distinct from the session id
	Metadata      map[string]string
}

// PaymentGateway is the hosted-checkout provider contract. The Stripe
// implementation is the only one in production; tests substitute a fake.
type PaymentGateway interface {
	CreateCheckoutSession(req CheckoutSessionRequest) (*CheckoutSession, error)
	RetrieveCheckoutSession(sessionID string) (*CheckoutSession, error)
}

type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &StripeGateway{}
}

func (g *StripeGateway) CreateCheckoutSession(req CheckoutSessionRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	created, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		ID:            created.ID,
		URL:           created.URL,
		PaymentStatus: string(created.PaymentStatus),
		Metadata:      created.Metadata,
	}, nil
}

func (g *StripeGateway) RetrieveCheckoutSession(sessionID string) (*CheckoutSession, error) {
	retrieved, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, err
	}

	out := &CheckoutSession{
		ID:            retrieved.ID,
		URL:           retrieved.URL,
		PaymentStatus: string(retrieved.PaymentStatus),
		Metadata:      retrieved.Metadata,
	}
	if retrieved.PaymentIntent != nil {
		out.TransactionID = retrieved.PaymentIntent.ID
	}

	return out, nil
}
