package htmlreport

import (
	"fmt"
	"log/slog"
	"strings"

	"perfcli/internal/metrics"
	"perfcli/pkg/contracts/domain"
)

// Section ids used by the summary-style layout. These are the literal
// element ids the report generator emits, container suffix included.
const (
	sectionRunInfoID       = "Test Run Information_div"
	sectionOverallResultID = "Overall Result_div"
	sectionRequestsID      = "Requests_div"
	sectionTransactionsID  = "Transaction details_div"
)

// layoutSpec is the per-layout field-mapping table: where each section
// lives and how its rows map onto record fields. Adding a layout variant
// means adding a spec, not branching the pipeline.
type layoutSpec struct {
	layout       domain.Layout
	runInfo      []SectionID
	overall      []SectionID
	requests     []SectionID
	transactions []SectionID
	errors       []SectionID

	// summaryLabels maps label text to normalized summary keys, read via
	// FieldAfterLabel from the section named by the second map dimension.
	runInfoLabels  map[string]string
	overallLabels  map[string]string
	requestsLabels map[string]string

	// tabularSummary reads run-info/overall/requests sections as
	// metric/value table rows instead of labelled fields.
	tabularSummary bool

	// txnColumns maps transaction-record fields to column indexes;
	// txnMinCells is the minimum cell count below which a row is dropped
	// as malformed.
	txnMinCells int
	txnColumns  txnColumnMap
}

type txnColumnMap struct {
	name         int
	averageTime  int
	percentile95 int
	requests     int
	errors       int
	missedGoals  int
}

// columnUnused marks transaction fields a layout does not provide.
const columnUnused = -1

var summaryLayout = layoutSpec{
	layout:       domain.LayoutSummary,
	runInfo:      []SectionID{ByID(sectionRunInfoID), ByPattern(`test\s*run\s*information`)},
	overall:      []SectionID{ByID(sectionOverallResultID), ByPattern(`overall\s*result`)},
	requests:     []SectionID{ByID(sectionRequestsID)},
	transactions: []SectionID{ByID(sectionTransactionsID), ByPattern(`transaction\s*details`)},
	errors:       []SectionID{ByPattern(`top\s*errors`)},
	runInfoLabels: map[string]string{
		"Start time": domain.SummaryStartTime,
		"End time":   domain.SummaryEndTime,
	},
	overallLabels: map[string]string{
		"Pass/Fail Status": domain.SummaryStatus,
		"Max User Load":    domain.SummaryMaxUserLoad,
	},
	requestsLabels: map[string]string{
		"Failed Requests %": domain.SummaryFailedRequestsPct,
	},
	txnMinCells: 9,
	txnColumns: txnColumnMap{
		name:         0,
		averageTime:  8,
		percentile95: columnUnused,
		requests:     columnUnused,
		errors:       columnUnused,
		missedGoals:  columnUnused,
	},
}

var tableLayout = layoutSpec{
	layout:         domain.LayoutTable,
	runInfo:        []SectionID{ByPattern(`run\s*info`)},
	overall:        []SectionID{ByPattern(`overall\s*results?`)},
	requests:       []SectionID{ByPattern(`requests\s*summary`)},
	transactions:   []SectionID{ByPattern(`transaction\s*(details|summary)`)},
	errors:         []SectionID{ByPattern(`top\s*errors`), ByPattern(`error\s*details`)},
	tabularSummary: true,
	txnMinCells:    6,
	txnColumns: txnColumnMap{
		name:         0,
		averageTime:  1,
		percentile95: 2,
		requests:     3,
		errors:       4,
		missedGoals:  5,
	},
}

// tabularSummaryKeys normalizes the metric names seen in table-style
// summary rows. Unknown metrics fall back to normalizeKey so the summary
// key set stays open.
var tabularSummaryKeys = map[string]string{
	"start time":            domain.SummaryStartTime,
	"end time":              domain.SummaryEndTime,
	"status":                domain.SummaryStatus,
	"test status":           domain.SummaryStatus,
	"pass/fail status":      domain.SummaryStatus,
	"max user load":         domain.SummaryMaxUserLoad,
	"failed requests %":     domain.SummaryFailedRequestsPct,
	"avg response time":     domain.SummaryAvgResponseTime,
	"avg. response time":    domain.SummaryAvgResponseTime,
	"avg response time (s)": domain.SummaryAvgResponseTime,
	"requests/sec":          domain.SummaryRequestsPerSec,
	"requests per second":   domain.SummaryRequestsPerSec,
}

// Normalizer maps one report document onto the shared schema, driving the
// section locator and table extractor per the detected layout spec.
type Normalizer struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewNormalizer creates a Normalizer. A nil logger uses slog.Default; a
// nil recorder disables metrics.
func NewNormalizer(logger *slog.Logger, rec *metrics.Recorder) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		logger:  logger.With(slog.String("component", "normalizer")),
		metrics: rec,
	}
}

// DetectLayout probes the document for layout-specific sections. The
// id-addressed summary layout is checked first since its ids would also
// satisfy the table layout's looser patterns, then its distinctive
// headings: "Test Run Information" also matches the table layout's
// run-info pattern, so a summary report without the container ids must
// not fall through to the wrong column map.
func DetectLayout(doc *Document) domain.Layout {
	if doc.FindSection(
		ByID(sectionRunInfoID),
		ByID(sectionOverallResultID),
		ByID(sectionTransactionsID),
	) != nil {
		return domain.LayoutSummary
	}
	if doc.FindSection(
		ByPattern(`test\s*run\s*information`),
		ByPattern(`transaction\s*details`),
	) != nil {
		return domain.LayoutSummary
	}
	if doc.FindSection(
		ByPattern(`overall\s*results?`),
		ByPattern(`requests\s*summary`),
		ByPattern(`run\s*info`),
	) != nil {
		return domain.LayoutTable
	}
	return domain.LayoutUnknown
}

// Normalize parses the raw bytes of one report and assembles a
// ParsedReport. Any subset of sections may be absent; missing sections
// yield missing fields or empty tables, never an error. The returned
// error is non-nil only when the bytes are not parseable HTML at all, and
// even then a usable empty report is returned so a bad file degrades
// instead of aborting its batch.
func (n *Normalizer) Normalize(data []byte, reportName string) (domain.ParsedReport, error) {
	report := domain.ParsedReport{
		ReportName: reportName,
		Layout:     domain.LayoutUnknown,
		Summary:    domain.ReportSummary{},
	}

	doc, err := ParseDocument(data)
	if err != nil {
		n.logger.Warn("report is not parseable HTML",
			slog.String("report", reportName),
			slog.String("error", err.Error()))
		return report, fmt.Errorf("parsing report %s: %w", reportName, err)
	}

	layout := DetectLayout(doc)
	spec := summaryLayout
	switch layout {
	case domain.LayoutTable:
		spec = tableLayout
	case domain.LayoutUnknown:
		// Best effort with the summary spec; the layout stays unknown so
		// the aggregator can flag a schema mismatch.
		n.logger.Warn("no known layout detected", slog.String("report", reportName))
	}
	report.Layout = layout

	n.extractSummary(doc, spec, &report)
	n.extractTransactions(doc, spec, &report)
	n.extractErrors(doc, spec, &report)

	n.metrics.MalformedRows(report.MalformedRows)
	n.metrics.ReportParsed()
	n.logger.Info("report normalized",
		slog.String("report", reportName),
		slog.String("layout", string(layout)),
		slog.Int("transactions", len(report.Transactions)),
		slog.Int("errors", len(report.Errors)),
		slog.Int("malformed_rows", report.MalformedRows))

	return report, nil
}

func (n *Normalizer) extractSummary(doc *Document, spec layoutSpec, report *domain.ParsedReport) {
	sections := []struct {
		candidates []SectionID
		labels     map[string]string
	}{
		{spec.runInfo, spec.runInfoLabels},
		{spec.overall, spec.overallLabels},
		{spec.requests, spec.requestsLabels},
	}

	for _, s := range sections {
		section := doc.FindSection(s.candidates...)
		if section == nil {
			continue
		}
		if spec.tabularSummary {
			n.summaryFromTable(section, report)
			continue
		}
		for label, key := range s.labels {
			if value, ok := FieldAfterLabel(section, label); ok {
				report.Summary[key] = value
			}
		}
	}
}

// summaryFromTable reads metric/value rows from a table-style summary
// section.
func (n *Normalizer) summaryFromTable(section *Section, report *domain.ParsedReport) {
	for _, row := range ExtractRows(section) {
		if len(row) < 2 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		if label == "" {
			continue
		}
		key, ok := tabularSummaryKeys[label]
		if !ok {
			key = normalizeKey(label)
		}
		if key == "" {
			continue
		}
		report.Summary[key] = row[1]
	}
}

func (n *Normalizer) extractTransactions(doc *Document, spec layoutSpec, report *domain.ParsedReport) {
	section := doc.FindSection(spec.transactions...)
	if section == nil {
		return
	}

	seen := make(map[string]bool)
	for _, row := range ExtractRows(section) {
		if len(row) < spec.txnMinCells {
			report.MalformedRows++
			n.logger.Debug("dropping malformed transaction row",
				slog.String("report", report.ReportName),
				slog.Int("cells", len(row)),
				slog.Int("expected", spec.txnMinCells))
			continue
		}
		name := strings.TrimSpace(row[spec.txnColumns.name])
		if name == "" {
			report.MalformedRows++
			continue
		}
		// First occurrence wins on duplicate names.
		if seen[name] {
			continue
		}
		seen[name] = true

		report.Transactions = append(report.Transactions, domain.TransactionRecord{
			Name:         name,
			AverageTime:  n.coerceColumn(row, spec.txnColumns.averageTime),
			Percentile95: n.coerceColumn(row, spec.txnColumns.percentile95),
			Requests:     n.coerceColumn(row, spec.txnColumns.requests),
			Errors:       n.coerceColumn(row, spec.txnColumns.errors),
			MissedGoals:  n.coerceColumn(row, spec.txnColumns.missedGoals),
		})
	}
}

// coerceColumn applies numeric coercion to one cell, yielding the missing
// marker for unused columns, short rows and uncoercible text.
func (n *Normalizer) coerceColumn(row []string, col int) domain.Value {
	if col == columnUnused || col >= len(row) {
		return domain.Missing()
	}
	f, ok := CoerceFloat(row[col])
	if !ok {
		n.metrics.CoercionFailure()
		return domain.Missing()
	}
	return domain.Num(f)
}

func (n *Normalizer) extractErrors(doc *Document, spec layoutSpec, report *domain.ParsedReport) {
	section := doc.FindSection(spec.errors...)
	if section == nil {
		return
	}

	for _, row := range ExtractRows(section) {
		if len(row) < 3 {
			report.MalformedRows++
			continue
		}
		report.Errors = append(report.Errors, domain.ErrorRecord{
			ReportName:  report.ReportName,
			TestCase:    row[0],
			RequestID:   row[1],
			Description: row[2],
		})
	}
}

// normalizeKey lowercases a raw metric label and collapses every
// non-alphanumeric run to a single underscore.
func normalizeKey(label string) string {
	var sb strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				sb.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}
