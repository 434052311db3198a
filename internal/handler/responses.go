package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/msafer/waitlist/internal/domain"
	"github.com/msafer/waitlist/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Encode through a pooled buffer; headers are already sent if encoding
	// fails so all we can do is log
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs the underlying error and sends the mapped
// client-safe response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, message := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}
	respondError(w, status, message)
}

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Internal detail never reaches the client.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestSummary
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgNotOnWaitlist
	case errors.Is(err, domain.ErrNonceNotFound):
		return http.StatusNotFound, ErrMsgChallengeNotFound
	case errors.Is(err, domain.ErrNonceExpired):
		return http.StatusGone, ErrMsgChallengeExpired
	case errors.Is(err, domain.ErrAlreadyLinked):
		return http.StatusConflict, ErrMsgIdentityTaken
	case errors.Is(err, domain.ErrFarcasterOwnership):
		return http.StatusForbidden, ErrMsgOwnershipNotProven
	case errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrAddressMismatch):
		return http.StatusUnauthorized, ErrMsgSignatureRejected
	case errors.Is(err, domain.ErrMessageExpired):
		return http.StatusUnauthorized, ErrMsgSignInFailed
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrMsgSessionRequired
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrMsgAdminKeyRejected
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, ErrMsgTooManyRequests
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
