package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"xpense/internal/core"
)

// Envelope is the uniform success response body.
type Envelope struct {
	ResultCode    int    `json:"result_code"`
	ResultMessage string `json:"result_message"`
	Data          any    `json:"data,omitempty"`
}

// PageEnvelope extends Envelope with pagination metadata. Total counts the
// filtered set before skip/limit are applied.
type PageEnvelope struct {
	ResultCode    int    `json:"result_code"`
	ResultMessage string `json:"result_message"`
	Data          any    `json:"data"`
	Total         int64  `json:"total"`
	Skip          int    `json:"skip"`
	Limit         int    `json:"limit"`
}

// ErrorEnvelope is the uniform error response body.
type ErrorEnvelope struct {
	ResultCode    int    `json:"result_code"`
	ResultMessage string `json:"result_message"`
	ErrorCode     string `json:"error_code"`
}

// Application error codes.
const (
	CodeDuplicate          = "E400"
	CodeInvalidCredentials = "E401"
	CodeAccessToken        = "E402"
	CodeRefreshToken       = "E403"
	CodeNotFound           = "E404"
	CodeValidation         = "E422"
	CodeServer             = "E500"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{
		ResultCode:    status,
		ResultMessage: "Success",
		Data:          data,
	})
}

func writePage(w http.ResponseWriter, data any, total int64, skip, limit int) {
	writeJSON(w, http.StatusOK, PageEnvelope{
		ResultCode:    http.StatusOK,
		ResultMessage: "Success",
		Data:          data,
		Total:         total,
		Skip:          skip,
		Limit:         limit,
	})
}

// writeError maps domain sentinels to HTTP status and error code. Unmapped
// errors become 500 with a generic message so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}

	writeJSON(w, status, ErrorEnvelope{
		ResultCode:    status,
		ResultMessage: message,
		ErrorCode:     code,
	})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity, CodeValidation
	case errors.Is(err, core.ErrDuplicate):
		return http.StatusBadRequest, CodeDuplicate
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, CodeInvalidCredentials
	case errors.Is(err, core.ErrRefreshRevoked):
		return http.StatusUnauthorized, CodeRefreshToken
	case errors.Is(err, core.ErrTokenInvalid), errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized, CodeAccessToken
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeServer
	}
}
