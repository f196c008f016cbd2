package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/tonymorry/uniparty/internal/domain"
	"github.com/tonymorry/uniparty/internal/payment"
)

const signatureHeader = "X-Payment-Signature"

// Limit webhook bodies; provider events are small.
const maxWebhookBody = 1 << 20

// Fulfiller finalizes orders after a verified payment notification.
type Fulfiller interface {
	Materialize(ctx context.Context, orderID string) error
	MarkFailed(ctx context.Context, orderID string) error
}

// HandlePaymentWebhook returns the handler for the provider's asynchronous
// payment notifications. The raw body is read before any decoding: signature
// verification must see exactly the delivered bytes, so no framework-level
// body transformation may run ahead of this handler.
//
// Response codes steer the provider's redelivery: 2xx acknowledges (including
// replays and the post-payment sold-out case, which redelivery cannot fix),
// 4xx rejects forged or malformed deliveries, 5xx requests a retry.
func HandlePaymentWebhook(svc Fulfiller, webhookSecret string, logger *log.Logger) http.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "unreadable body")
			return
		}

		if err := payment.VerifySignature(payload, r.Header.Get(signatureHeader), webhookSecret); err != nil {
			// Authenticity failure: no state change, and loud - either an
			// attack or a misconfigured secret, never a transient condition.
			logger.Printf("ERROR: rejected payment webhook: %v", err)
			writeError(w, http.StatusBadRequest, codeBadSignature, "signature verification failed")
			return
		}

		event, err := payment.ParseWebhook(payload)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid payload")
			return
		}

		orderID := event.OrderID()
		if orderID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "missing order reference")
			return
		}

		switch event.Type {
		case payment.EventCheckoutCompleted:
			err = svc.Materialize(r.Context(), orderID)
		case payment.EventCheckoutFailed:
			err = svc.MarkFailed(r.Context(), orderID)
		default:
			// Unknown event types are acknowledged and skipped.
			w.WriteHeader(http.StatusOK)
			return
		}

		switch {
		case err == nil:
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, domain.ErrSoldOut):
			// Payment captured but capacity gone. Acknowledge so the provider
			// stops redelivering; the reconciliation item is already logged.
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrInvalidID):
			// A verified payload referencing an order we do not have (e.g.
			// swept before confirmation). Redelivery cannot fix it.
			logger.Printf("ERROR: verified webhook for unknown order %s", orderID)
			w.WriteHeader(http.StatusOK)
		default:
			logger.Printf("WARN: webhook processing failed for order %s: %v", orderID, err)
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
	}
}
