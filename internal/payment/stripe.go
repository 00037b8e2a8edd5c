package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeGateway struct {
	api        *client.API
	successURL string
	cancelURL  string
}

func NewStripeGateway(secret, successURL, cancelURL string) *StripeGateway {
	api := &client.API{}
	api.Init(secret, nil)
	return &StripeGateway{api: api, successURL: successURL, cancelURL: cancelURL}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, items []LineItem) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, it := range items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(it.Name),
		}
		if len(it.Images) > 0 {
			product.Images = stripe.StringSlice(it.Images)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(it.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(it.Currency),
				UnitAmount:  stripe.Int64(it.UnitPrice),
				ProductData: product,
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(g.successURL),
		CancelURL:          stripe.String(g.cancelURL),
	}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.Msg != "" {
			return "", &GatewayError{Message: serr.Msg, Err: err}
		}
		return "", &GatewayError{Message: "Couldn't make payment, try again", Err: err}
	}
	return sess.ID, nil
}
