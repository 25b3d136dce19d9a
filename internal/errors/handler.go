package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"perfcli/internal/middleware"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var problem *ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErrorToProblem(appErr, r)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing the request",
		r.URL.Path,
	)
}

func appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	switch appErr.Type {
	case ErrTypeValidation:
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Validation Failed", appErr.Message, r.URL.Path)
	case ErrTypeNotFound:
		return NewProblemDetails(http.StatusNotFound, TypeNotFound,
			"Not Found", appErr.Message, r.URL.Path)
	case ErrTypeExport:
		return NewProblemDetails(http.StatusInternalServerError, TypeExportFailed,
			"Export Failed", appErr.Message, r.URL.Path)
	default:
		return NewProblemDetails(http.StatusInternalServerError, TypeInternal,
			"Internal Server Error", appErr.Message, r.URL.Path)
	}
}

// ErrValidation is a convenience constructor for field validation problems.
func ErrValidation(field, detail string) *ProblemDetails {
	problem := NewProblemDetails(
		http.StatusBadRequest,
		TypeValidation,
		"Validation Failed",
		detail,
		"",
	)
	problem.WithExtension("field", field)
	return problem
}

// ErrPayloadTooLarge reports an upload exceeding the configured limit.
func ErrPayloadTooLarge(limitBytes int64) *ProblemDetails {
	problem := NewProblemDetails(
		http.StatusRequestEntityTooLarge,
		TypePayloadTooLarge,
		"Payload Too Large",
		"The uploaded reports exceed the configured size limit",
		"",
	)
	problem.WithExtension("limit_bytes", limitBytes)
	return problem
}

// ErrEmptyBatch reports a comparison request carrying no report files.
func ErrEmptyBatch() *ProblemDetails {
	return NewProblemDetails(
		http.StatusBadRequest,
		TypeEmptyBatch,
		"Empty Batch",
		"At least one HTML report file must be uploaded",
		"",
	)
}
