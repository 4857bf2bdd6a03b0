package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"mock-interview-service/internal/domain"
)

type errorPayload struct {
	Message string `json:"message"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrCatalogNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotInProgress),
		errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrQuestionMismatch),
		errors.Is(err, domain.ErrSessionReset),
		errors.Is(err, domain.ErrCandidateNotVisible):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyAnswer):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCatalogEmpty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorPayload{Message: err.Error()})
}

var errUnsupportedMessage = errors.New("unsupported message type")

func errInvalidPayload(msgType string) error {
	return errors.New("invalid " + msgType + " payload")
}
