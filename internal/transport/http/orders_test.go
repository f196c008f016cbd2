package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tonymorry/uniparty/internal/app"
	"github.com/tonymorry/uniparty/internal/domain"
)

func TestHandleCreateOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	successOrder := domain.Order{
		ID:                    "order-123",
		EventID:               "event-1",
		Quantity:              2,
		TotalAmountMinorUnits: 3100,
		Status:                domain.OrderStatusPending,
		CreatedAt:             now,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"buyer_id":"b1","event_id":"e1","quantity":2,"holder_names":["Ada","Ben"]}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"order-123"`,
		},
		{
			name:           "invalid json",
			body:           `{"buyer_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field",
			body:           `{"buyer_id":"b1","event_id":"e1","quantity":1,"holder_names":["Ada"],"zone":"z1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing buyer",
			body:           `{"event_id":"e1","quantity":1,"holder_names":["Ada"]}`,
			serviceErr:     domain.ErrBuyerRequired,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid quantity",
			body:           `{"buyer_id":"b1","event_id":"e1","quantity":0,"holder_names":[]}`,
			serviceErr:     domain.ErrInvalidQuantity,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "holder count mismatch",
			body:           `{"buyer_id":"b1","event_id":"e1","quantity":2,"holder_names":["Ada"]}`,
			serviceErr:     domain.ErrHolderCountMismatch,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "academic info required",
			body:           `{"buyer_id":"b1","event_id":"e1","quantity":1,"holder_names":["Ada"]}`,
			serviceErr:     domain.ErrAcademicInfoRequired,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "event not found",
			body:           `{"buyer_id":"b1","event_id":"e1","quantity":1,"holder_names":["Ada"]}`,
			serviceErr:     domain.ErrEventNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "capacity exceeded",
			body:           `{"buyer_id":"b1","event_id":"e1","quantity":1,"holder_names":["Ada"]}`,
			serviceErr:     domain.ErrCapacityExceeded,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "internal error",
			body:           `{"buyer_id":"b1","event_id":"e1","quantity":1,"holder_names":["Ada"]}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubOrderService{
				order: successOrder,
				err:   tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler := HandleCreateOrder(svc)
			handler.ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}

func TestHandleOpenCheckout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		path           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			path:           "/orders/order-1/checkout",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"redirect_url":"https://pay.example/sess_1"`,
		},
		{
			name:           "malformed path",
			path:           "/orders/order-1/refund",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "order not found",
			path:           "/orders/missing/checkout",
			serviceErr:     domain.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "order not pending",
			path:           "/orders/order-1/checkout",
			serviceErr:     domain.ErrOrderNotPending,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "payee not onboarded",
			path:           "/orders/order-1/checkout",
			serviceErr:     domain.ErrPayeeNotOnboarded,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "internal error",
			path:           "/orders/order-1/checkout",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubCheckoutService{
				url: "https://pay.example/sess_1",
				err: tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			rec := httptest.NewRecorder()

			handler := HandleOpenCheckout(svc)
			handler.ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" {
				body := rec.Body.String()
				if !strings.Contains(body, tt.expectedSubstr) {
					t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, body)
				}
			}
		})
	}
}

func TestHandleCreateOrder_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	HandleCreateOrder(&stubOrderService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

type stubOrderService struct {
	order domain.Order
	err   error
}

func (s *stubOrderService) CreateOrder(_ context.Context, _ app.CreateOrderInput) (domain.Order, error) {
	return s.order, s.err
}

type stubCheckoutService struct {
	url string
	err error
}

func (s *stubCheckoutService) OpenCheckout(_ context.Context, _ string) (string, error) {
	return s.url, s.err
}
