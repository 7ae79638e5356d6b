// File path: internal/api/errors.go
package api

import (
	"net/http"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
)

// Stable error codes surfaced in the envelope.
const (
	codeValidationError = "VALIDATION_ERROR"
	codeProviderError   = "PROVIDER_ERROR"
	codeTimeout         = "TIMEOUT"
	codeInvalidVPA      = "INVALID_VPA"
	codeNoProvider      = "NO_PROVIDER_AVAILABLE"
	codeRateLimited     = "RATE_LIMITED"
	codeInternal        = "INTERNAL"
)

type errorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	Details   map[string]any `json:"details"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError emits the standard envelope. details carries only structured,
// pre-approved fields; raw provider payloads never pass through here.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	logger := common.Logger()
	requestID := requestIDFrom(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("api: request failed", "status", status, "code", code,
			"message", message, "request_id", requestID)
	} else {
		logger.Warn("api: request failed", "status", status, "code", code,
			"message", message, "request_id", requestID)
	}
	if details == nil {
		details = map[string]any{}
	}
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	}})
}

func statusForCode(code string) int {
	switch code {
	case codeValidationError, codeInvalidVPA:
		return http.StatusBadRequest
	case codeRateLimited:
		return http.StatusTooManyRequests
	case codeNoProvider:
		return http.StatusServiceUnavailable
	case codeProviderError:
		return http.StatusBadGateway
	case codeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
