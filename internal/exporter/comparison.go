package exporter

import (
	"fmt"
	"strconv"

	"perfcli/pkg/contracts/domain"
)

// missingCell is how the missing-value marker is rendered in exports,
// keeping it distinguishable from a real zero or empty string.
const missingCell = "N/A"

// SummaryHeaders returns the export header row for a summary table:
// report name first, then the unioned summary columns.
func SummaryHeaders(table domain.SummaryTable) []string {
	headers := make([]string, 0, len(table.Columns)+1)
	headers = append(headers, "Report Name")
	headers = append(headers, table.Columns...)
	return headers
}

// SummaryRecords flattens a summary table; cells a report did not produce
// render as the missing marker.
func SummaryRecords(table domain.SummaryTable) [][]string {
	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make([]string, 0, len(table.Columns)+1)
		record = append(record, row.ReportName)
		for _, col := range table.Columns {
			if v, ok := row.Cells[col]; ok {
				record = append(record, v)
			} else {
				record = append(record, missingCell)
			}
		}
		records = append(records, record)
	}
	return records
}

// TransactionHeaders returns the export header row for an annotated
// transaction table: the transaction name, then one value column and one
// flags column per report.
func TransactionHeaders(table domain.AnnotatedTable) []string {
	headers := make([]string, 0, 1+2*len(table.Reports))
	headers = append(headers, "Transaction")
	for _, name := range table.Reports {
		headers = append(headers, fmt.Sprintf("%s Avg(s)", name), fmt.Sprintf("%s Flags", name))
	}
	return headers
}

// TransactionRecords flattens an annotated transaction table. Flags are
// plain words (breach/best/worst), never styling.
func TransactionRecords(table domain.AnnotatedTable) [][]string {
	records := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make([]string, 0, 1+2*len(row.Cells))
		record = append(record, row.Name)
		for _, cell := range row.Cells {
			record = append(record, formatValue(cell.Value), formatFlags(cell))
		}
		records = append(records, record)
	}
	return records
}

// ErrorHeaders returns the export header row for the error table.
func ErrorHeaders() []string {
	return []string{"Report Name", "Test Case", "Request Id", "Error Description"}
}

// ErrorRecords flattens the concatenated error table.
func ErrorRecords(errors []domain.ErrorRecord) [][]string {
	records := make([][]string, 0, len(errors))
	for _, e := range errors {
		records = append(records, []string{e.ReportName, e.TestCase, e.RequestID, e.Description})
	}
	return records
}

func formatValue(v domain.Value) string {
	if !v.Valid {
		return missingCell
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

func formatFlags(cell domain.AnnotatedCell) string {
	flags := ""
	if cell.Breach {
		flags = "breach"
	}
	if cell.Best {
		flags = appendFlag(flags, "best")
	}
	if cell.Worst {
		flags = appendFlag(flags, "worst")
	}
	return flags
}

func appendFlag(flags, flag string) string {
	if flags == "" {
		return flag
	}
	return flags + " " + flag
}

// WriteComparisonCSV writes the three comparison tables as separate CSV
// files under the writer's output directory.
func WriteComparisonCSV(w *CSVWriter, table domain.ComparisonTable, annotated domain.AnnotatedTable) error {
	if err := w.WriteSimpleCSV("summary.csv", SummaryHeaders(table.Summary), SummaryRecords(table.Summary)); err != nil {
		return fmt.Errorf("writing summary table: %w", err)
	}
	if err := w.WriteSimpleCSV("transactions.csv", TransactionHeaders(annotated), TransactionRecords(annotated)); err != nil {
		return fmt.Errorf("writing transaction table: %w", err)
	}
	if err := w.WriteSimpleCSV("errors.csv", ErrorHeaders(), ErrorRecords(table.Errors)); err != nil {
		return fmt.Errorf("writing error table: %w", err)
	}
	return nil
}
