package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	mw "habitq/internal/middleware"
	"habitq/internal/services"
)

type errorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Invalid email or password"})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	case errors.Is(err, services.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorBody{Error: "Email already registered", Field: "email"})
	case errors.Is(err, services.ErrTimeout):
		mw.Logger(r.Context()).Warn("datastore timeout", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "Service temporarily unavailable", Retryable: true})
	default:
		mw.Logger(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &services.ValidationError{Field: "body", Message: "Invalid JSON body"}
	}
	return nil
}
