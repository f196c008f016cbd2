package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tonymorry/uniparty/internal/app"
	"github.com/tonymorry/uniparty/internal/domain"
)

// organizerHeader carries the scanning organization's identity. It stands in
// for the authenticated operator session, which is outside this service.
const organizerHeader = "X-Organizer-ID"

// ScanValidator is the minimal interface needed by the scanner endpoint.
type ScanValidator interface {
	ValidateScan(ctx context.Context, code, scanningOrgID string) (app.ScanResult, error)
}

// HandleScan returns the handler for door-staff ticket scans.
func HandleScan(svc ScanValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orgID := r.Header.Get(organizerHeader)
		if orgID == "" {
			writeError(w, http.StatusForbidden, codeForbidden, "missing organizer identity")
			return
		}

		var req scanRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.ValidateScan(r.Context(), req.Code, orgID)
		if err != nil {
			switch err {
			case domain.ErrInvalidTicket:
				writeError(w, http.StatusNotFound, codeInvalidTicket, err.Error())
			case domain.ErrTicketAlreadyUsed:
				writeError(w, http.StatusConflict, codeAlreadyUsed, err.Error())
			case domain.ErrForeignEvent:
				writeError(w, http.StatusForbidden, codeForeignEvent, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, scanResponse{
			Granted:    true,
			NewState:   string(res.NewState),
			HolderName: res.Ticket.HolderName,
			EventID:    res.Ticket.EventID,
			List:       res.Ticket.SelectedList,
			EnteredAt:  res.Ticket.EnteredAt,
			ExitedAt:   res.Ticket.ExitedAt,
		})
	}
}

type scanRequest struct {
	Code string `json:"code"`
}

type scanResponse struct {
	Granted    bool       `json:"granted"`
	NewState   string     `json:"new_state"`
	HolderName string     `json:"holder_name"`
	EventID    string     `json:"event_id"`
	List       string     `json:"list"`
	EnteredAt  *time.Time `json:"entered_at,omitempty"`
	ExitedAt   *time.Time `json:"exited_at,omitempty"`
}
