// Package comparison composes parsed reports into side-by-side tables and
// attaches SLA and ranking annotations. Everything here is a pure function
// of its inputs: no report's data is mutated, and tables are recomputed on
// every call.
package comparison

import (
	"fmt"
	"sort"

	"perfcli/pkg/contracts/domain"
)

// Warning codes surfaced to the caller at batch level. Per-cell and
// per-row failures never reach this level; they are absorbed as missing
// data during normalization.
const (
	WarnSchemaMismatch = "schema_mismatch"
	WarnParseDegraded  = "parse_degraded"
	WarnMalformedRows  = "malformed_rows"
	WarnNoErrors       = "no_errors_found"
)

// Warning is a non-fatal batch-level condition for the caller to surface.
type Warning struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Aggregate combines the parsed reports of one batch into a comparison
// table: a summary row per report over the union of observed summary keys,
// an outer join of transaction tables keyed by exact transaction name, and
// a concatenated error table. Report order is preserved; transaction rows
// and summary columns are sorted by name so the result is deterministic
// and order-independent up to the per-report column order.
func Aggregate(reports []domain.ParsedReport) (domain.ComparisonTable, []Warning) {
	table := domain.ComparisonTable{
		Reports: make([]string, 0, len(reports)),
	}
	for _, r := range reports {
		table.Reports = append(table.Reports, r.ReportName)
	}

	table.Summary = aggregateSummaries(reports)
	table.Transactions = joinTransactions(table.Reports, reports)
	for _, r := range reports {
		table.Errors = append(table.Errors, r.Errors...)
	}

	var warnings []Warning
	if w, mismatch := detectSchemaMismatch(reports, table.Summary.Columns); mismatch {
		warnings = append(warnings, w)
	}
	return table, warnings
}

func aggregateSummaries(reports []domain.ParsedReport) domain.SummaryTable {
	columnSet := make(map[string]bool)
	var table domain.SummaryTable

	for _, r := range reports {
		cells := make(map[string]string, len(r.Summary))
		for k, v := range r.Summary {
			columnSet[k] = true
			cells[k] = v
		}
		table.Rows = append(table.Rows, domain.SummaryRow{
			ReportName: r.ReportName,
			Cells:      cells,
		})
	}

	table.Columns = make([]string, 0, len(columnSet))
	for k := range columnSet {
		table.Columns = append(table.Columns, k)
	}
	sort.Strings(table.Columns)
	return table
}

// joinTransactions outer-joins the per-report transaction tables. A
// transaction present in only some reports gets absent cells elsewhere.
// Identity is the exact name string; case or whitespace variants stay
// distinct rows (known limitation, matching the source tools' behavior).
func joinTransactions(reportNames []string, reports []domain.ParsedReport) domain.TransactionTable {
	rowIndex := make(map[string]int)
	var rows []domain.TransactionRow

	for ri, r := range reports {
		for _, t := range r.Transactions {
			idx, ok := rowIndex[t.Name]
			if !ok {
				idx = len(rows)
				rowIndex[t.Name] = idx
				rows = append(rows, domain.TransactionRow{
					Name:  t.Name,
					Cells: make([]domain.TransactionCell, len(reports)),
				})
			}
			rows[idx].Cells[ri] = domain.TransactionCell{
				Present:      true,
				AverageTime:  t.AverageTime,
				Percentile95: t.Percentile95,
				Requests:     t.Requests,
				Errors:       t.Errors,
				MissedGoals:  t.MissedGoals,
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return domain.TransactionTable{Reports: reportNames, Rows: rows}
}

// detectSchemaMismatch reports the batch-level condition where no report
// produced any recognizable summary key. The keys that WERE observed are
// included so an unrecognized report format can be diagnosed.
func detectSchemaMismatch(reports []domain.ParsedReport, observed []string) (Warning, bool) {
	if len(reports) == 0 {
		return Warning{}, false
	}
	for _, r := range reports {
		for k := range r.Summary {
			if domain.IsKnownSummaryKey(k) {
				return Warning{}, false
			}
		}
	}
	return Warning{
		Code:    WarnSchemaMismatch,
		Message: fmt.Sprintf("no recognizable summary columns detected across %d report(s)", len(reports)),
		Details: map[string]any{"observed_columns": observed},
	}, true
}
