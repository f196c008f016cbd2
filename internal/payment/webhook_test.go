package payment

import (
	"testing"
)

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	secret := "whsec_test"
	payload := []byte(`{"id":"evt_1","type":"checkout.completed","metadata":{"order_id":"order-1"}}`)

	t.Run("accepts its own signature", func(t *testing.T) {
		sig := Sign(payload, secret)
		if err := VerifySignature(payload, sig, secret); err != nil {
			t.Fatalf("expected valid signature, got %v", err)
		}
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		sig := Sign(payload, secret)
		tampered := []byte(`{"id":"evt_1","type":"checkout.completed","metadata":{"order_id":"order-2"}}`)
		if err := VerifySignature(tampered, sig, secret); err != ErrBadSignature {
			t.Fatalf("expected ErrBadSignature, got %v", err)
		}
	})

	t.Run("rejects the wrong secret", func(t *testing.T) {
		sig := Sign(payload, "whsec_other")
		if err := VerifySignature(payload, sig, secret); err != ErrBadSignature {
			t.Fatalf("expected ErrBadSignature, got %v", err)
		}
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		if err := VerifySignature(payload, "", secret); err != ErrBadSignature {
			t.Fatalf("expected ErrBadSignature, got %v", err)
		}
	})

	t.Run("rejects a non-hex header", func(t *testing.T) {
		if err := VerifySignature(payload, "not-hex!", secret); err != ErrBadSignature {
			t.Fatalf("expected ErrBadSignature, got %v", err)
		}
	})
}

func TestParseWebhook(t *testing.T) {
	t.Parallel()

	t.Run("decodes a completed event", func(t *testing.T) {
		ev, err := ParseWebhook([]byte(`{"id":"evt_1","type":"checkout.completed","session_id":"sess_1","metadata":{"order_id":"order-1"}}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ev.Type != EventCheckoutCompleted {
			t.Fatalf("expected type %q, got %q", EventCheckoutCompleted, ev.Type)
		}
		if ev.OrderID() != "order-1" {
			t.Fatalf("expected order id from metadata, got %q", ev.OrderID())
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		if _, err := ParseWebhook([]byte(`{`)); err == nil {
			t.Fatalf("expected error for malformed payload")
		}
	})

	t.Run("rejects a payload without a type", func(t *testing.T) {
		if _, err := ParseWebhook([]byte(`{"id":"evt_1"}`)); err == nil {
			t.Fatalf("expected error for missing type")
		}
	})

	t.Run("empty metadata yields no order id", func(t *testing.T) {
		ev, err := ParseWebhook([]byte(`{"id":"evt_1","type":"checkout.failed"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ev.OrderID() != "" {
			t.Fatalf("expected empty order id, got %q", ev.OrderID())
		}
	})
}
