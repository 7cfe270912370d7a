package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KhuatDuy04/crawl/internal/errs"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteErr writes err with the status its kind maps to.
func WriteErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	var de *errs.DomainError
	if errors.As(err, &de) {
		msg = de.Message
	}
	WriteError(w, r, status, code, msg)
}

func classify(err error) (int, string) {
	switch {
	case errs.Is(err, errs.ErrTypeInvalidInput):
		return http.StatusBadRequest, string(errs.ErrTypeInvalidInput)
	case errs.Is(err, errs.ErrTypeSession):
		return http.StatusServiceUnavailable, string(errs.ErrTypeSession)
	case errs.Is(err, errs.ErrTypeNavigation):
		return http.StatusBadGateway, string(errs.ErrTypeNavigation)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	}
	return http.StatusInternalServerError, string(errs.ErrTypeInternal)
}
