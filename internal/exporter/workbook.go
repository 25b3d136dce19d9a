package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"perfcli/pkg/contracts/domain"
)

// WriteComparisonWorkbook writes the comparison as one XLSX workbook file
// with a sheet per table. Cells carry data and flag words only; coloring
// is the consumer's concern.
func WriteComparisonWorkbook(path string, table domain.ComparisonTable, annotated domain.AnnotatedTable) error {
	f, err := buildComparisonWorkbook(table, annotated)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// StreamComparisonWorkbook writes the workbook to w, for HTTP download.
func StreamComparisonWorkbook(w io.Writer, table domain.ComparisonTable, annotated domain.AnnotatedTable) error {
	f, err := buildComparisonWorkbook(table, annotated)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("streaming workbook: %w", err)
	}
	return nil
}

func buildComparisonWorkbook(table domain.ComparisonTable, annotated domain.AnnotatedTable) (*excelize.File, error) {
	f := excelize.NewFile()

	sheets := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{"Summary", SummaryHeaders(table.Summary), SummaryRecords(table.Summary)},
		{"Transactions", TransactionHeaders(annotated), TransactionRecords(annotated)},
		{"Errors", ErrorHeaders(), ErrorRecords(table.Errors)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("renaming sheet %s: %w", sheet.name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("creating sheet %s: %w", sheet.name, err)
			}
		}
		if err := writeSheet(f, sheet.name, sheet.headers, sheet.records); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, records [][]string) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, headers)
	rows = append(rows, records...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d of %s: %w", i+1, sheet, err)
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
