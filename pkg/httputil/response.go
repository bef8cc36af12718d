package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/travelgo/travel-booking/pkg/errors"
	"github.com/travelgo/travel-booking/pkg/logger"
	"github.com/travelgo/travel-booking/pkg/validator"
)

// ErrorBody is the envelope every error response is rendered in.
type ErrorBody struct {
	Error *ErrorResponse `json:"error"`
}

// ErrorResponse describes one failed request.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrorCode writes an error envelope with an explicit status and code.
func WriteErrorCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, ErrorBody{Error: &ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: requestID(r),
	}})
}

// WriteError renders err using its AppError code and status when present,
// otherwise the status derived from its sentinel. 5xx errors are logged with
// the request-scoped logger, falling back to fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	status, code, message := apperrors.Describe(err)

	if status >= http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteErrorCode(w, r, status, code, message)
}

// WriteValidationError writes a 400 response. Field-level details are
// included when err is a *validator.ValidationError.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	resp := &ErrorResponse{
		Code:      apperrors.CodeInvalidInput,
		Message:   err.Error(),
		RequestID: requestID(r),
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		resp.Code = apperrors.CodeValidation
		resp.Message = "request validation failed"
		resp.Fields = valErr.Fields()
	}

	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: resp})
}

// ParseUUID parses a path or query parameter as a UUID. On failure it writes
// a 400 INVALID_PARAMETER response and returns false; the caller must return.
func ParseUUID(w http.ResponseWriter, r *http.Request, name, value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		WriteErrorCode(w, r, http.StatusBadRequest, apperrors.CodeInvalidParam, "invalid UUID for "+name+": "+value)
		return uuid.Nil, false
	}
	return id, true
}

func requestID(r *http.Request) string {
	if r == nil {
		return ""
	}
	return logger.CorrelationIDFromContext(r.Context())
}
