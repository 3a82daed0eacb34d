// Package httputil writes JSON responses and translates domain signals into
// the error payload returned to API callers.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "github.com/AmineOzil/user-registration/pkg/domain-errors"
	"github.com/AmineOzil/user-registration/pkg/requestcontext"
)

// Stable error codes exposed to callers.
const (
	ErrCodeValidation    = "ERR_VALIDATION"
	ErrCodeJSONParse     = "ERR_JSON_PARSE"
	ErrCodeRuleAgeMin    = "ERR_RULE_AGE_MIN"
	ErrCodeRuleCountryFR = "ERR_RULE_COUNTRY_FR"
	ErrCodeUserExists    = "ERR_USER_ALREADY_EXISTS"
	ErrCodeUserNotFound  = "ERR_USER_NOT_FOUND"
	ErrCodeInternal      = "ERR_INTERNAL"
)

const (
	validationTitle      = "Validation Failed"
	validationMessage    = "Input validation failed"
	internalErrorMessage = "An unexpected error occurred"
)

// ErrorPayload is the body of every error response.
type ErrorPayload struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ErrorCode        string            `json:"errorCode"`
	CorrelationID    *string           `json:"correlationId"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// Reporter receives internal errors, e.g. to forward them to an error tracker.
type Reporter interface {
	CaptureError(ctx context.Context, err error)
}

// ErrorWriter renders errors. Internal errors are logged with full detail and
// handed to the Reporter; callers only ever see a generic message.
type ErrorWriter struct {
	logger   *slog.Logger
	reporter Reporter
}

type ErrorWriterOption func(*ErrorWriter)

func WithReporter(r Reporter) ErrorWriterOption {
	return func(ew *ErrorWriter) {
		ew.reporter = r
	}
}

func NewErrorWriter(logger *slog.Logger, opts ...ErrorWriterOption) *ErrorWriter {
	if logger == nil {
		logger = slog.Default()
	}
	ew := &ErrorWriter{logger: logger}
	for _, opt := range opts {
		opt(ew)
	}
	return ew
}

// Translate maps err to its HTTP status and payload. Non-signal errors and
// CodeInternal become a generic 500.
func Translate(r *http.Request, err error) (int, ErrorPayload) {
	payload := ErrorPayload{Path: r.URL.Path}
	if id := requestcontext.CorrelationID(r.Context()); id != "" {
		payload.CorrelationID = &id
	}

	de, ok := dErrors.As(err)
	if !ok {
		return internal(payload)
	}

	switch de.Code {
	case dErrors.CodeValidation:
		payload.Status = http.StatusBadRequest
		payload.Error = validationTitle
		payload.Message = validationMessage
		payload.ErrorCode = ErrCodeValidation
		payload.ValidationErrors = de.Fields
	case dErrors.CodeMalformedInput:
		payload = withSignal(payload, http.StatusBadRequest, ErrCodeJSONParse, de.Message)
	case dErrors.CodeRuleAgeMin:
		payload = withSignal(payload, http.StatusUnprocessableEntity, ErrCodeRuleAgeMin, de.Message)
	case dErrors.CodeRuleCountryFR:
		payload = withSignal(payload, http.StatusUnprocessableEntity, ErrCodeRuleCountryFR, de.Message)
	case dErrors.CodeConflict:
		payload = withSignal(payload, http.StatusConflict, ErrCodeUserExists, de.Message)
	case dErrors.CodeNotFound:
		payload = withSignal(payload, http.StatusNotFound, ErrCodeUserNotFound, de.Message)
	default:
		// CodeInternal and unknown codes.
		return internal(payload)
	}
	return payload.Status, payload
}

// WriteError translates err and writes the payload.
func (ew *ErrorWriter) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := Translate(r, err)
	if status == http.StatusInternalServerError {
		ew.logger.ErrorContext(r.Context(), "internal error",
			"request_id", requestcontext.RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		if ew.reporter != nil {
			ew.reporter.CaptureError(r.Context(), err)
		}
	}
	WriteJSON(w, status, payload)
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withSignal(p ErrorPayload, status int, code, message string) ErrorPayload {
	p.Status = status
	p.Error = http.StatusText(status)
	p.Message = message
	p.ErrorCode = code
	return p
}

func internal(p ErrorPayload) (int, ErrorPayload) {
	p = withSignal(p, http.StatusInternalServerError, ErrCodeInternal, internalErrorMessage)
	return p.Status, p
}
