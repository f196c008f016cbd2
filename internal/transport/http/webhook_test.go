package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tonymorry/uniparty/internal/domain"
	"github.com/tonymorry/uniparty/internal/payment"
)

func TestHandlePaymentWebhook(t *testing.T) {
	t.Parallel()

	const secret = "whsec_test"
	quiet := log.New(io.Discard, "", 0)

	completed := []byte(`{"id":"evt_1","type":"checkout.completed","session_id":"sess_1","metadata":{"order_id":"order-1"}}`)
	failed := []byte(`{"id":"evt_2","type":"checkout.failed","session_id":"sess_1","metadata":{"order_id":"order-1"}}`)

	deliver := func(t *testing.T, svc *stubFulfiller, payload []byte, signature string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
		if signature != "" {
			req.Header.Set(signatureHeader, signature)
		}
		rec := httptest.NewRecorder()
		HandlePaymentWebhook(svc, secret, quiet).ServeHTTP(rec, req)
		return rec
	}

	t.Run("verified completion materializes the order", func(t *testing.T) {
		svc := &stubFulfiller{}
		rec := deliver(t, svc, completed, payment.Sign(completed, secret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.materialized != "order-1" {
			t.Fatalf("expected materialize for order-1, got %q", svc.materialized)
		}
	})

	t.Run("verified failure marks the order failed", func(t *testing.T) {
		svc := &stubFulfiller{}
		rec := deliver(t, svc, failed, payment.Sign(failed, secret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.failed != "order-1" {
			t.Fatalf("expected mark-failed for order-1, got %q", svc.failed)
		}
		if svc.materialized != "" {
			t.Fatalf("expected no materialize call, got %q", svc.materialized)
		}
	})

	t.Run("bad signature never reaches the service", func(t *testing.T) {
		svc := &stubFulfiller{}
		rec := deliver(t, svc, completed, payment.Sign(completed, "whsec_other"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		if svc.materialized != "" || svc.failed != "" {
			t.Fatalf("expected service untouched, got materialize=%q failed=%q", svc.materialized, svc.failed)
		}
	})

	t.Run("missing signature is rejected", func(t *testing.T) {
		svc := &stubFulfiller{}
		rec := deliver(t, svc, completed, "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("tampered body fails verification", func(t *testing.T) {
		svc := &stubFulfiller{}
		tampered := []byte(`{"id":"evt_1","type":"checkout.completed","metadata":{"order_id":"order-2"}}`)
		rec := deliver(t, svc, tampered, payment.Sign(completed, secret))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown event type is acknowledged", func(t *testing.T) {
		svc := &stubFulfiller{}
		payload := []byte(`{"id":"evt_3","type":"checkout.expired","metadata":{"order_id":"order-1"}}`)
		rec := deliver(t, svc, payload, payment.Sign(payload, secret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if svc.materialized != "" || svc.failed != "" {
			t.Fatalf("expected service untouched")
		}
	})

	t.Run("missing order reference is rejected", func(t *testing.T) {
		payload := []byte(`{"id":"evt_4","type":"checkout.completed","metadata":{}}`)
		rec := deliver(t, &stubFulfiller{}, payload, payment.Sign(payload, secret))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("post-payment sellout is acknowledged", func(t *testing.T) {
		svc := &stubFulfiller{materializeErr: domain.ErrSoldOut}
		rec := deliver(t, svc, completed, payment.Sign(completed, secret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200 so redelivery stops, got %d", rec.Code)
		}
	})

	t.Run("unknown order is acknowledged", func(t *testing.T) {
		svc := &stubFulfiller{materializeErr: domain.ErrOrderNotFound}
		rec := deliver(t, svc, completed, payment.Sign(completed, secret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("transient failure asks for redelivery", func(t *testing.T) {
		svc := &stubFulfiller{materializeErr: errors.New("db down")}
		rec := deliver(t, svc, completed, payment.Sign(completed, secret))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
	})
}

type stubFulfiller struct {
	materialized   string
	failed         string
	materializeErr error
	markFailedErr  error
}

func (s *stubFulfiller) Materialize(_ context.Context, orderID string) error {
	s.materialized = orderID
	return s.materializeErr
}

func (s *stubFulfiller) MarkFailed(_ context.Context, orderID string) error {
	s.failed = orderID
	return s.markFailedErr
}
