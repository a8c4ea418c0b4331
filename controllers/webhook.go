package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// maxWebhookBody bounds the raw payload read for signature verification.
const maxWebhookBody = 65536

// CheckoutCompleter reconciles a completed checkout session into a paid
// order.
type CheckoutCompleter interface {
	HandleSessionCompleted(ctx context.Context, sessionID string) error
}

// WebhookController receives signed payment-processor callbacks. Signature
// verification is the hard security boundary: nothing is parsed or written
// before it passes.
type WebhookController struct {
	Service CheckoutCompleter
	Secret  string
}

// NewWebhookController creates a new WebhookController
func NewWebhookController(service CheckoutCompleter, secret string) *WebhookController {
	return &WebhookController{
		Service: service,
		Secret:  secret,
	}
}

// HandleStripeWebhook verifies and dispatches an incoming event.
func (wc *WebhookController) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	event, err := webhook.ConstructEventWithOptions(body, r.Header.Get("Stripe-Signature"), wc.Secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		http.Error(w, "Invalid webhook signature", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			http.Error(w, "Malformed event payload", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		if err := wc.Service.HandleSessionCompleted(ctx, sess.ID); err != nil {
			log.Printf("webhook: failed to process session %s: %v", sess.ID, err)
			http.Error(w, "Failed to process event", http.StatusInternalServerError)
			return
		}
	default:
		log.Printf("webhook: ignoring event type %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
