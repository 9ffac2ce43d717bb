package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/middlewares"
	"github.com/sbilibin2017/auction-live/internal/services"
)

// MessageResponse represents a successful response carrying only a message
// swagger:model MessageResponse
type MessageResponse struct {
	// Success message
	// default: Ok, user registered.
	Message string `json:"message"`
}

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: item with id "5f3b2d6e9c1a4b0017a1c2d3" doesn't exist
	Error string `json:"error"`

	// Error kind
	// enum: requirement,value,format,not_found,conflict,unauthorized,domain_rule
	Kind string `json:"kind,omitempty"`

	// Structured error parameters
	Params map[string]any `json:"params,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusOf(kind auctionerrors.Kind) int {
	switch kind {
	case auctionerrors.KindRequirement, auctionerrors.KindValue, auctionerrors.KindFormat:
		return http.StatusBadRequest
	case auctionerrors.KindUnauthorized:
		return http.StatusUnauthorized
	case auctionerrors.KindNotFound:
		return http.StatusNotFound
	case auctionerrors.KindConflict, auctionerrors.KindDomainRule:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status of its kind. Errors without a kind
// are logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *auctionerrors.Error
	if errors.As(err, &e) {
		writeJSON(w, statusOf(e.Kind), ErrorResponse{
			Error:  e.Error(),
			Kind:   string(e.Kind),
			Params: e.Params,
		})
		return
	}

	if errors.Is(err, services.ErrImagesDisabled) {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: err.Error()})
		return
	}

	logger.Log.Errorw("internal server error",
		"request_id", middlewares.RequestIDFromContext(r.Context()),
		"method", r.Method,
		"uri", r.RequestURI,
		"err", err,
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return auctionerrors.MalformedBody(err)
	}
	return nil
}

// bearerToken returns the token stored by the auth middleware.
func bearerToken(r *http.Request) string {
	token, _ := middlewares.TokenFromContext(r.Context())
	return token
}
