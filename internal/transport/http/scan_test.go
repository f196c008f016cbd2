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

func TestHandleScan(t *testing.T) {
	t.Parallel()

	enteredAt := time.Date(2025, 3, 7, 22, 0, 0, 0, time.UTC)
	successResult := app.ScanResult{
		Ticket: domain.Ticket{
			ID:           "t-1",
			EventID:      "event-1",
			HolderName:   "Ada",
			SelectedList: domain.DefaultSelectedList,
			State:        domain.TicketStateEntered,
			EnteredAt:    &enteredAt,
		},
		NewState: domain.TicketStateEntered,
	}

	tests := []struct {
		name           string
		body           string
		organizer      string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "grants entry",
			body:           `{"code":"CODE1"}`,
			organizer:      "org-1",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"granted":true`,
		},
		{
			name:           "missing organizer header",
			body:           `{"code":"CODE1"}`,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "invalid json",
			body:           `{"code":`,
			organizer:      "org-1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown ticket",
			body:           `{"code":"NOPE"}`,
			organizer:      "org-1",
			serviceErr:     domain.ErrInvalidTicket,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "already used",
			body:           `{"code":"CODE1"}`,
			organizer:      "org-1",
			serviceErr:     domain.ErrTicketAlreadyUsed,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "foreign event",
			body:           `{"code":"CODE1"}`,
			organizer:      "org-2",
			serviceErr:     domain.ErrForeignEvent,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "internal error",
			body:           `{"code":"CODE1"}`,
			organizer:      "org-1",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubScanService{
				result: successResult,
				err:    tt.serviceErr,
			}
			req := httptest.NewRequest(http.MethodPost, "/scans", bytes.NewBufferString(tt.body))
			if tt.organizer != "" {
				req.Header.Set(organizerHeader, tt.organizer)
			}
			rec := httptest.NewRecorder()

			handler := HandleScan(svc)
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

type stubScanService struct {
	result app.ScanResult
	err    error
}

func (s *stubScanService) ValidateScan(_ context.Context, _, _ string) (app.ScanResult, error) {
	return s.result, s.err
}
