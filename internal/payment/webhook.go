package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Webhook event types delivered by the provider.
const (
	EventCheckoutCompleted = "checkout.completed"
	EventCheckoutFailed    = "checkout.failed"
)

// ErrBadSignature means the notification could not be authenticated. It must
// never be conflated with validation errors: operators need to tell "forged
// or misconfigured, will never succeed" apart from "malformed, fix and retry".
var ErrBadSignature = errors.New("webhook signature mismatch")

// WebhookEvent is the provider's notification envelope. Metadata echoes what
// was attached to the session, i.e. only the order id.
type WebhookEvent struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Metadata  map[string]string `json:"metadata"`
}

// OrderID extracts the correlation key from the event metadata.
func (e WebhookEvent) OrderID() string {
	return e.Metadata["order_id"]
}

// VerifySignature checks the hex HMAC-SHA256 of the raw, untransformed
// request body against the shared webhook secret. Constant-time compare.
func VerifySignature(payload []byte, signatureHeader, secret string) error {
	if signatureHeader == "" {
		return ErrBadSignature
	}
	expected, err := hex.DecodeString(signatureHeader)
	if err != nil {
		return ErrBadSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), expected) {
		return ErrBadSignature
	}
	return nil
}

// Sign computes the signature header value for a payload. Used by tests and
// by the local provider stub.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseWebhook decodes a verified payload. Callers must have verified the
// signature against the identical raw bytes first.
func ParseWebhook(payload []byte) (WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return WebhookEvent{}, fmt.Errorf("decode webhook payload: %w", err)
	}
	if ev.Type == "" {
		return WebhookEvent{}, fmt.Errorf("webhook payload missing type")
	}
	return ev, nil
}
