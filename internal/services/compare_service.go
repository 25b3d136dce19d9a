package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"perfcli/internal/comparison"
	"perfcli/internal/htmlreport"
	"perfcli/internal/metrics"
	"perfcli/pkg/contracts/domain"
)

// ReportFile is one uploaded report: its filename (the report identity for
// display and joins) and raw bytes.
type ReportFile struct {
	Name string
	Data []byte
}

// CompareRequest describes one comparison batch.
type CompareRequest struct {
	Files []ReportFile
	// ThresholdSeconds is the SLA ceiling; strictly greater values breach.
	// Zero and negative thresholds are valid.
	ThresholdSeconds float64
}

// CompareResult is everything a caller needs to render a comparison: the
// per-file parses, the joined tables, the annotated transaction table and
// its compliance counts, plus batch-level warnings. No presentation
// strings, only data and annotation metadata.
type CompareResult struct {
	BatchID    string                 `json:"batch_id"`
	Threshold  float64                `json:"threshold"`
	Reports    []domain.ParsedReport  `json:"reports"`
	Comparison domain.ComparisonTable `json:"comparison"`
	Annotated  domain.AnnotatedTable  `json:"annotated"`
	Compliance domain.Compliance      `json:"compliance"`
	Warnings   []comparison.Warning   `json:"warnings,omitempty"`
}

// CompareService runs the full extraction, aggregation and annotation pass
// for one batch of uploaded reports.
type CompareService struct {
	normalizer *htmlreport.Normalizer
	metrics    *metrics.Recorder
	logger     *slog.Logger
	// maxParallel bounds concurrent per-file parses. Reports are
	// independent, so parse order carries no meaning; result order is
	// fixed by upload order regardless.
	maxParallel int
}

// NewCompareService creates a CompareService. A nil logger uses
// slog.Default; a nil recorder disables metrics.
func NewCompareService(logger *slog.Logger, rec *metrics.Recorder, maxParallel int) *CompareService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxParallel < 1 {
		maxParallel = 4
	}
	return &CompareService{
		normalizer:  htmlreport.NewNormalizer(logger, rec),
		metrics:     rec,
		logger:      logger.With(slog.String("component", "compare_service")),
		maxParallel: maxParallel,
	}
}

// Compare parses every file in the batch, aggregates the results and
// annotates the transaction table against the SLA threshold. A file that
// fails to parse degrades to an empty report and a warning; it never
// aborts its siblings. The only hard failure is an empty batch or a
// cancelled context.
func (s *CompareService) Compare(ctx context.Context, req CompareRequest) (*CompareResult, error) {
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("no report files supplied")
	}

	batchID := uuid.New().String()
	names := disambiguateNames(req.Files)

	s.logger.InfoContext(ctx, "starting comparison batch",
		slog.String("batch_id", batchID),
		slog.Int("files", len(req.Files)),
		slog.Float64("threshold", req.ThresholdSeconds))

	reports := make([]domain.ParsedReport, len(req.Files))
	parseErrs := make([]error, len(req.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i := range req.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i], parseErrs[i] = s.normalizer.Normalize(req.Files[i].Data, names[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var warnings []comparison.Warning
	for i, err := range parseErrs {
		if err == nil {
			continue
		}
		warnings = append(warnings, comparison.Warning{
			Code:    comparison.WarnParseDegraded,
			Message: fmt.Sprintf("report %q could not be parsed and was recorded empty", names[i]),
		})
	}
	if dropped := totalMalformed(reports); dropped > 0 {
		warnings = append(warnings, comparison.Warning{
			Code:    comparison.WarnMalformedRows,
			Message: fmt.Sprintf("%d malformed table row(s) were dropped", dropped),
			Details: map[string]any{"dropped_rows": dropped},
		})
	}

	table, aggWarnings := comparison.Aggregate(reports)
	warnings = append(warnings, aggWarnings...)
	if len(table.Errors) == 0 {
		warnings = append(warnings, comparison.Warning{
			Code:    comparison.WarnNoErrors,
			Message: "no top-errors section found in any report",
		})
	}

	annotated := comparison.Annotate(table.Transactions, req.ThresholdSeconds)
	s.metrics.SLABreaches(annotated.Compliance.Above)

	s.logger.InfoContext(ctx, "comparison batch completed",
		slog.String("batch_id", batchID),
		slog.Int("transactions", len(table.Transactions.Rows)),
		slog.Int("within_sla", annotated.Compliance.Within),
		slog.Int("above_sla", annotated.Compliance.Above),
		slog.Int("warnings", len(warnings)))

	return &CompareResult{
		BatchID:    batchID,
		Threshold:  req.ThresholdSeconds,
		Reports:    reports,
		Comparison: table,
		Annotated:  annotated,
		Compliance: annotated.Compliance,
		Warnings:   warnings,
	}, nil
}

// disambiguateNames makes report names unique within the batch by
// suffixing repeats with " (2)", " (3)", and so on.
func disambiguateNames(files []ReportFile) []string {
	counts := make(map[string]int, len(files))
	names := make([]string, len(files))
	for i, f := range files {
		counts[f.Name]++
		if counts[f.Name] == 1 {
			names[i] = f.Name
			continue
		}
		names[i] = fmt.Sprintf("%s (%d)", f.Name, counts[f.Name])
	}
	return names
}

func totalMalformed(reports []domain.ParsedReport) int {
	total := 0
	for _, r := range reports {
		total += r.MalformedRows
	}
	return total
}
