package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tonymorry/uniparty/internal/app"
	"github.com/tonymorry/uniparty/internal/domain"
)

// OrderCreator is the minimal interface needed to stage an order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
}

// HandleCreateOrder returns an HTTP handler for order intake.
func HandleCreateOrder(svc OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.CreateOrder(r.Context(), app.CreateOrderInput{
			BuyerID:         req.BuyerID,
			EventID:         req.EventID,
			Quantity:        req.Quantity,
			HolderNames:     req.HolderNames,
			HolderFaculties: req.HolderFaculties,
			SelectedList:    req.SelectedList,
		})
		if err != nil {
			switch err {
			case domain.ErrBuyerRequired:
				writeError(w, http.StatusBadRequest, codeBuyerRequired, err.Error())
			case domain.ErrInvalidQuantity:
				writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
			case domain.ErrHolderCountMismatch:
				writeError(w, http.StatusBadRequest, codeHolderMismatch, err.Error())
			case domain.ErrFacultyCountMismatch:
				writeError(w, http.StatusBadRequest, codeFacultyMismatch, err.Error())
			case domain.ErrAcademicInfoRequired:
				writeError(w, http.StatusBadRequest, codeAcademicInfoRequired, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case domain.ErrCapacityExceeded:
				writeError(w, http.StatusConflict, codeCapacityExceeded, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, orderResponse{
			ID:                    order.ID,
			EventID:               order.EventID,
			Quantity:              order.Quantity,
			TotalAmountMinorUnits: order.TotalAmountMinorUnits,
			Status:                string(order.Status),
			CreatedAt:             order.CreatedAt,
		})
	}
}

// CheckoutOpener is the minimal interface needed to open a checkout session.
type CheckoutOpener interface {
	OpenCheckout(ctx context.Context, orderID string) (string, error)
}

// HandleOpenCheckout returns an HTTP handler for POST /orders/{id}/checkout.
func HandleOpenCheckout(svc CheckoutOpener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		orderID, ok := parseCheckoutPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		redirectURL, err := svc.OpenCheckout(r.Context(), orderID)
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrOrderNotFound:
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			case domain.ErrOrderNotPending:
				writeError(w, http.StatusConflict, codeOrderNotPending, err.Error())
			case domain.ErrPayeeNotOnboarded:
				writeError(w, http.StatusConflict, codePayeeNotOnboarded, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusOK, checkoutResponse{RedirectURL: redirectURL})
	}
}

func parseCheckoutPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "orders" || parts[2] != "checkout" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type createOrderRequest struct {
	BuyerID         string   `json:"buyer_id"`
	EventID         string   `json:"event_id"`
	Quantity        int      `json:"quantity"`
	HolderNames     []string `json:"holder_names"`
	HolderFaculties []string `json:"holder_faculties,omitempty"`
	SelectedList    string   `json:"selected_list,omitempty"`
}

type orderResponse struct {
	ID                    string    `json:"id"`
	EventID               string    `json:"event_id"`
	Quantity              int       `json:"quantity"`
	TotalAmountMinorUnits int       `json:"total_amount_minor"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
}

type checkoutResponse struct {
	RedirectURL string `json:"redirect_url"`
}
