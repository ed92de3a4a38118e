package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkordes/trek-booking/internal/domain"
)

// envelope is the body of every response.
type envelope struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func writeEnvelope(w http.ResponseWriter, status int, data any, message string, problems []string) {
	if problems == nil {
		problems = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client has gone if this fails.
	json.NewEncoder(w).Encode(envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
		Errors:     problems,
	})
}

func respondOK(w http.ResponseWriter, data any, message string) {
	writeEnvelope(w, http.StatusOK, data, message, nil)
}

func respondCreated(w http.ResponseWriter, data any, message string) {
	writeEnvelope(w, http.StatusCreated, data, message, nil)
}

// badRequest reports a problem found before the service layer was reached.
func badRequest(w http.ResponseWriter, message string) {
	writeEnvelope(w, http.StatusBadRequest, nil, message, []string{message})
}

// fail maps a service error onto a status code. resource names what was
// being looked up, e.g. "trek". Unexpected errors are logged and hidden.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeEnvelope(w, http.StatusBadRequest, nil, "validation failed", ve.Problems)
	case errors.Is(err, domain.ErrValidation):
		msg := unwrapMessage(err, domain.ErrValidation)
		writeEnvelope(w, http.StatusBadRequest, nil, msg, []string{msg})
	case errors.Is(err, domain.ErrNotFound):
		writeEnvelope(w, http.StatusNotFound, nil, resource+" not found", nil)
	case errors.Is(err, domain.ErrUpload):
		writeEnvelope(w, http.StatusBadRequest, nil, "image upload failed", []string{unwrapMessage(err, domain.ErrUpload)})
	case errors.Is(err, domain.ErrConflict):
		writeEnvelope(w, http.StatusConflict, nil, fmt.Sprintf("%s already exists", resource), nil)
	case errors.Is(err, domain.ErrUnauthorized):
		writeEnvelope(w, http.StatusUnauthorized, nil, "unauthorized", nil)
	default:
		s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeEnvelope(w, http.StatusInternalServerError, nil, "internal server error", nil)
	}
}

// denied is the RequireAuth rejection writer.
func (s *Server) denied(w http.ResponseWriter, r *http.Request, err error) {
	s.log.DebugContext(r.Context(), "rejected token", "path", r.URL.Path, "error", err)
	writeEnvelope(w, http.StatusUnauthorized, nil, "unauthorized request", nil)
}

// unwrapMessage extracts the human-readable part that follows a sentinel.
// e.g. "service.X.Create: validation error: name is required" → "name is required"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
