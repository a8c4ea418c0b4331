package utils

import (
	"context"
	"fmt"

	"go-bookstore/models"
	"go-bookstore/services"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

// StripeClient implements services.PaymentClient over the Stripe hosted
// checkout API. The API client is constructed once and injected, not read
// from the package-level stripe.Key.
type StripeClient struct {
	api        *client.API
	successURL string
	cancelURL  string
}

// NewStripeClient builds a StripeClient with explicit credentials and
// redirect URLs.
func NewStripeClient(secretKey, successURL, cancelURL string) *StripeClient {
	return &StripeClient{
		api:        client.New(secretKey, nil),
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// checkoutLineItems converts cart lines to session line items, unit amounts
// in cents. Lines with a catalog-mapped processor product quote that product
// id, so the webhook can resolve them back; unmapped lines fall back to an
// ad-hoc product named after the snapshot.
func checkoutLineItems(items []models.CartItem) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		unitAmount := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String("usd"),
			UnitAmount: stripe.Int64(unitAmount),
		}
		if item.StripeProductID != "" {
			priceData.Product = stripe.String(item.StripeProductID)
		} else {
			priceData.ProductData = &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(item.Name),
			}
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(int64(item.Quantity)),
		})
	}
	return lineItems
}

// CreateCheckoutSession asks Stripe for a hosted payment session quoting one
// line per cart item.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, items []models.CartItem, customerEmail string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     checkoutLineItems(items),
		CustomerEmail: stripe.String(customerEmail),
		SuccessURL:    stripe.String(c.successURL),
		CancelURL:     stripe.String(c.cancelURL),
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

// SessionLineItems re-fetches the canonical line items of a checkout session
// with the price's product expanded, so callers can resolve processor-side
// product ids.
func (c *StripeClient) SessionLineItems(ctx context.Context, sessionID string) ([]services.SessionLineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.AddExpand("data.price.product")

	iter := c.api.CheckoutSessions.ListLineItems(params)

	var lines []services.SessionLineItem
	for iter.Next() {
		li := iter.LineItem()
		line := services.SessionLineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
		}
		if li.Price != nil {
			line.UnitAmount = li.Price.UnitAmount
			if li.Price.Product != nil {
				line.StripeProductID = li.Price.Product.ID
			}
		}
		lines = append(lines, line)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("stripe list line items: %w", err)
	}
	return lines, nil
}
