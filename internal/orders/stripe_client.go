package orders

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	pkgstripe "github.com/mlindenberg/gastlink-backend/pkg/stripe"
)

// StripePaymentClient exposes the subset of Stripe operations checkout needs.
type StripePaymentClient interface {
	CreateIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripePaymentWrapper struct{}

// NewStripePaymentClient wraps the configured Stripe client so checkout can be tested.
func NewStripePaymentClient(api *pkgstripe.Client) StripePaymentClient {
	if api == nil {
		return nil
	}
	return &stripePaymentWrapper{}
}

func (w *stripePaymentWrapper) CreateIntent(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}
