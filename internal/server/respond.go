package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/imran31415/forcefield/pkg/errors"
)

// maxRequestBytes caps request bodies. Graphs arrive pre-filter, so the
// cap is generous relative to the node and edge limits.
const maxRequestBytes = 8 << 20

// statusClientClosedRequest is the nginx convention for a request whose
// client went away before the response was ready.
const statusClientClosedRequest = 499

// errorBody is the JSON error envelope. Code carries the machine-readable
// error code so clients can branch without parsing messages.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error to its HTTP status via the error code.
// Unrecognized errors are treated as internal.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidParams, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidPreset,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound,
		errors.ErrCodeFileNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionExpired:
		return http.StatusGone
	case errors.ErrCodeCancelled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes v as the JSON response body with the given status.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("response encode failed", "error", err)
	}
}

// respondError writes the JSON error envelope for err. The status comes
// from the error code; errors without a code become 500s with the code
// INTERNAL_ERROR rather than leaking internals to the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	s.respondJSON(w, status, errorBody{Error: errorDetail{
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

// decodeJSON decodes the request body into v, capping the body size.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}
