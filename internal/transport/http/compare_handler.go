package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"perfcli/internal/config"
	apierrors "perfcli/internal/errors"
	"perfcli/internal/exporter"
	"perfcli/internal/middleware"
	"perfcli/internal/services"
)

// multipart field names accepted by the compare endpoint.
const (
	fieldReports   = "reports"
	fieldThreshold = "sla"
)

// CompareHandler handles comparison HTTP requests.
type CompareHandler struct {
	service      *services.CompareService
	limits       config.LimitsConfig
	defaultSLA   float64
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(service *services.CompareService, cfg *config.Config, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CompareHandler {
	return &CompareHandler{
		service:      service,
		limits:       cfg.Limits,
		defaultSLA:   cfg.SLA.DefaultThresholdSeconds,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "compare_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the comparison routes.
func (h *CompareHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/compare", h.Compare)
	r.Post("/compare/export", h.Export)

	return r
}

// compareParams are the validated request parameters.
type compareParams struct {
	ThresholdSeconds float64 `validate:"gte=-1000000,lte=1000000"`
	FileCount        int     `validate:"required,min=1"`
}

// Compare handles POST /api/compare: a multipart batch of HTML reports
// plus an optional SLA threshold, answered with the comparison payload.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runComparison(w, r)
	if !ok {
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// Export handles POST /api/compare/export: same input as Compare, but the
// response is an XLSX workbook download.
func (h *CompareHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runComparison(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="comparison.xlsx"`)
	if err := exporter.StreamComparisonWorkbook(w, result.Comparison, result.Annotated); err != nil {
		// Headers are out; all we can do is log.
		h.logger.ErrorContext(r.Context(), "workbook export failed",
			slog.String("error", err.Error()),
			slog.String("batch_id", result.BatchID))
	}
}

// runComparison parses and validates the multipart request and runs the
// comparison batch. On failure it responds with a problem document and
// returns ok=false.
func (h *CompareHandler) runComparison(w http.ResponseWriter, r *http.Request) (*services.CompareResult, bool) {
	reqID := middleware.GetReqID(r.Context())

	if err := r.ParseMultipartForm(h.limits.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge(maxErr.Limit))
		} else {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(fieldReports, "request is not valid multipart form data"))
		}
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	threshold := h.defaultSLA
	if raw := r.FormValue(fieldThreshold); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(fieldThreshold, "SLA threshold must be numeric"))
			return nil, false
		}
		threshold = parsed
	}

	fileHeaders := r.MultipartForm.File[fieldReports]
	params := compareParams{ThresholdSeconds: threshold, FileCount: len(fileHeaders)}
	if err := h.validate.Struct(params); err != nil {
		if len(fileHeaders) == 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrEmptyBatch())
		} else {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(fieldThreshold, err.Error()))
		}
		return nil, false
	}
	if len(fileHeaders) > h.limits.MaxFiles {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation(fieldReports,
			fmt.Sprintf("at most %d reports per batch", h.limits.MaxFiles)))
		return nil, false
	}

	files, err := readUploads(fileHeaders)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	h.logger.InfoContext(r.Context(), "comparison requested",
		slog.String("request_id", reqID),
		slog.Int("files", len(files)),
		slog.Float64("threshold", threshold))

	result, err := h.service.Compare(r.Context(), services.CompareRequest{
		Files:            files,
		ThresholdSeconds: threshold,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return result, true
}

func readUploads(headers []*multipart.FileHeader) ([]services.ReportFile, error) {
	files := make([]services.ReportFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, apierrors.NewParsingError(fmt.Sprintf("opening upload %q", fh.Filename), err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apierrors.NewParsingError(fmt.Sprintf("reading upload %q", fh.Filename), err)
		}
		files = append(files, services.ReportFile{Name: fh.Filename, Data: data})
	}
	return files, nil
}
