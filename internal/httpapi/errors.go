package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/usestring/jtd-infer/internal/mcp/tools"
)

// ErrCodeTooLarge is reported when a body exceeds MAX_BODY_BYTES.
const ErrCodeTooLarge = "TOO_LARGE"

// statusFor maps an error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case tools.ErrCodeInvalidInput, tools.ErrCodeInvalidHint:
		return http.StatusBadRequest
	case tools.ErrCodeDiscriminator:
		return http.StatusUnprocessableEntity
	case ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case tools.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var coded *tools.CodedError
	if !errors.As(tools.WrapError(err), &coded) {
		coded = &tools.CodedError{Code: tools.ErrCodeInternal, Message: "internal error", Cause: err}
	}
	s.metrics.errors.WithLabelValues(coded.Code).Inc()

	body := &ErrorBody{
		Code:      coded.Code,
		Message:   coded.Message,
		RequestID: RequestID(r.Context()),
	}
	// Internal causes are logged, not returned.
	if coded.Cause != nil && coded.Code != tools.ErrCodeInternal {
		body.Message += ": " + coded.Cause.Error()
	}
	writeError(w, statusFor(coded.Code), body)
}

func writeError(w http.ResponseWriter, status int, body *ErrorBody) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "error", err)
	}
}
