package lib

import (
	"context"
	"math"
	"os"
	"strings"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

type InvoiceInput struct {
	ExternalID  string
	Amount      float64
	Currency    string
	PayerEmail  string
	Description string
	SuccessURL  string
	FailureURL  string
}

type Invoice struct {
	ID  string
	URL string
}

// PaymentGateway creates hosted checkout pages. The gateway reports the
// outcome back through a webhook carrying InvoiceInput.ExternalID.
type PaymentGateway interface {
	CreateInvoice(ctx context.Context, in *InvoiceInput) (*Invoice, error)
}

type StripeGateway struct {
	inner *stripe.Client
}

func NewStripeGateway(c *stripe.Client) *StripeGateway {
	return &StripeGateway{inner: c}
}

func (s *StripeGateway) CreateInvoice(ctx context.Context, in *InvoiceInput) (*Invoice, error) {
	metadata := map[string]string{
		"paymentId": in.ExternalID,
	}
	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		UIMode:            stripe.String("hosted"),
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.FailureURL),
		ClientReferenceID: stripe.String(in.ExternalID),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(in.Currency)),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
					UnitAmount: stripe.Int64(int64(math.Round(in.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionCreatePaymentIntentDataParams{
			Metadata: metadata,
		},
		Metadata: metadata,
	}
	if in.PayerEmail != "" {
		params.CustomerEmail = stripe.String(in.PayerEmail)
	}
	cs, err := s.inner.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	return &Invoice{ID: cs.ID, URL: cs.URL}, nil
}

var paymentGateway PaymentGateway

func GetPaymentGateway() PaymentGateway {
	if paymentGateway != nil {
		return paymentGateway
	}
	paymentGateway = NewStripeGateway(GetStripeClient())
	return paymentGateway
}

// NewPaymentGateway replaces the gateway used for checkouts.
func NewPaymentGateway(g PaymentGateway) {
	paymentGateway = g
}
