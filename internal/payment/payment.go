// Package payment creates hosted checkout sessions for a list of products.
package payment

import (
	"context"
	"errors"
	"strings"
)

var ErrNoProducts = errors.New("there are no products to buy")

// Item is one product line as sent by the client. Price is in the smallest
// currency unit.
type Item struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// LineItem is an Item normalised for the gateway.
type LineItem struct {
	Name      string
	Images    []string
	UnitPrice int64
	Quantity  int64
	Currency  string
}

// Gateway returns the id of a new hosted checkout session.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, items []LineItem) (string, error)
}

// GatewayError carries the message reported by the payment provider.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string { return e.Message }

func (e *GatewayError) Unwrap() error { return e.Err }

// BuildLineItems converts client items to gateway line items. A missing or
// non-positive quantity counts as one.
func BuildLineItems(items []Item, currency string) ([]LineItem, error) {
	if len(items) == 0 {
		return nil, ErrNoProducts
	}
	currency = strings.ToLower(currency)

	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		var images []string
		if it.Image != "" {
			images = []string{it.Image}
		}
		out = append(out, LineItem{
			Name:      it.Name,
			Images:    images,
			UnitPrice: it.Price,
			Quantity:  qty,
			Currency:  currency,
		})
	}
	return out, nil
}
