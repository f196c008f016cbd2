package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tonymorry/uniparty/internal/app"
	"github.com/tonymorry/uniparty/internal/domain"
)

// AdminEventService is the minimal interface needed for admin event endpoints.
type AdminEventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// HandleAdminEvents returns an HTTP handler for admin event creation/listing.
func HandleAdminEvents(svc AdminEventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, toEventResponse(event))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			var req createEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			var startsAt *time.Time
			if req.StartsAt != "" {
				parsed, err := time.Parse(time.RFC3339, req.StartsAt)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidStartsAt, "invalid starts_at format")
					return
				}
				startsAt = &parsed
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				Name:                 req.Name,
				OrganizerID:          req.OrganizerID,
				StartsAt:             startsAt,
				Capacity:             req.Capacity,
				UnitPriceMinorUnits:  req.UnitPriceMinorUnits,
				RequiresAcademicInfo: req.RequiresAcademicInfo,
				ExitTracking:         req.ExitTracking,
			})
			if err != nil {
				switch err {
				case domain.ErrEventNameRequired:
					writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
				case domain.ErrOrganizerRequired:
					writeError(w, http.StatusBadRequest, codeOrganizerRequired, err.Error())
				case domain.ErrInvalidCapacity:
					writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
				case domain.ErrInvalidPrice:
					writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			writeJSON(w, http.StatusCreated, toEventResponse(event))
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createEventRequest struct {
	Name                 string `json:"name"`
	OrganizerID          string `json:"organizer_id"`
	StartsAt             string `json:"starts_at,omitempty"`
	Capacity             int    `json:"capacity"`
	UnitPriceMinorUnits  int    `json:"unit_price_minor"`
	RequiresAcademicInfo bool   `json:"requires_academic_info,omitempty"`
	ExitTracking         bool   `json:"exit_tracking,omitempty"`
}

type eventResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	OrganizerID          string    `json:"organizer_id"`
	StartsAt             time.Time `json:"starts_at"`
	Capacity             int       `json:"capacity"`
	SoldCount            int       `json:"sold_count"`
	UnitPriceMinorUnits  int       `json:"unit_price_minor"`
	RequiresAcademicInfo bool      `json:"requires_academic_info"`
	ExitTracking         bool      `json:"exit_tracking"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:                   e.ID,
		Name:                 e.Name,
		OrganizerID:          e.OrganizerID,
		StartsAt:             e.StartsAt,
		Capacity:             e.Capacity,
		SoldCount:            e.SoldCount,
		UnitPriceMinorUnits:  e.UnitPriceMinorUnits,
		RequiresAcademicInfo: e.RequiresAcademicInfo,
		ExitTracking:         e.ExitTracking,
	}
}
