package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidStartsAt      = "invalid_starts_at"
	codeInvalidID            = "invalid_id"
	codeEventNameRequired    = "event_name_required"
	codeOrganizerRequired    = "organizer_required"
	codeInvalidCapacity      = "invalid_capacity"
	codeInvalidPrice         = "invalid_price"
	codeBuyerRequired        = "buyer_required"
	codeInvalidQuantity      = "invalid_quantity"
	codeHolderMismatch       = "holder_names_mismatch"
	codeFacultyMismatch      = "holder_faculties_mismatch"
	codeAcademicInfoRequired = "academic_info_required"
	codeEventNotFound        = "event_not_found"
	codeOrderNotFound        = "order_not_found"
	codeOrderNotPending      = "order_not_pending"
	codeCapacityExceeded     = "capacity_exceeded"
	codePayeeNotOnboarded    = "payee_not_onboarded"
	codeBadSignature         = "bad_signature"
	codeInvalidTicket        = "invalid_ticket"
	codeAlreadyUsed          = "already_used"
	codeForeignEvent         = "foreign_event"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
