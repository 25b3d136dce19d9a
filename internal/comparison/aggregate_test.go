package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfcli/pkg/contracts/domain"
)

func reportA() domain.ParsedReport {
	return domain.ParsedReport{
		ReportName: "a.html",
		Layout:     domain.LayoutSummary,
		Summary: domain.ReportSummary{
			domain.SummaryStartTime: "10:00",
			domain.SummaryStatus:    "Passed",
		},
		Transactions: []domain.TransactionRecord{
			{Name: "Login", AverageTime: domain.Num(0.9)},
		},
		Errors: []domain.ErrorRecord{
			{ReportName: "a.html", TestCase: "TC-1", RequestID: "7", Description: "timeout"},
		},
	}
}

func reportB() domain.ParsedReport {
	return domain.ParsedReport{
		ReportName: "b.html",
		Layout:     domain.LayoutTable,
		Summary: domain.ReportSummary{
			domain.SummaryStatus:         "Failed",
			domain.SummaryRequestsPerSec: "48.2",
		},
		Transactions: []domain.TransactionRecord{
			{Name: "Login", AverageTime: domain.Num(1.4)},
			{Name: "Checkout", AverageTime: domain.Num(2.1)},
		},
	}
}

func TestAggregateOuterJoin(t *testing.T) {
	table, warnings := Aggregate([]domain.ParsedReport{reportA(), reportB()})
	assert.Empty(t, warnings, "recognizable summaries should not warn")

	assert.Equal(t, []string{"a.html", "b.html"}, table.Reports)

	// Summary columns are the union of observed keys, sorted.
	assert.Equal(t, []string{
		domain.SummaryRequestsPerSec,
		domain.SummaryStartTime,
		domain.SummaryStatus,
	}, table.Summary.Columns)
	require.Len(t, table.Summary.Rows, 2)
	assert.Equal(t, "Passed", table.Summary.Rows[0].Cells[domain.SummaryStatus])
	_, hasStart := table.Summary.Rows[1].Cells[domain.SummaryStartTime]
	assert.False(t, hasStart, "report B never produced a start time")

	// Rows sorted by transaction name: Checkout, Login.
	require.Len(t, table.Transactions.Rows, 2)

	checkout := table.Transactions.Rows[0]
	assert.Equal(t, "Checkout", checkout.Name)
	assert.False(t, checkout.Cells[0].Present, "Checkout is absent from report A")
	assert.True(t, checkout.Cells[1].Present)
	assert.Equal(t, domain.Num(2.1), checkout.Cells[1].AverageTime)

	login := table.Transactions.Rows[1]
	assert.Equal(t, "Login", login.Name)
	assert.True(t, login.Cells[0].Present)
	assert.True(t, login.Cells[1].Present)
	assert.Equal(t, domain.Num(0.9), login.Cells[0].AverageTime)
	assert.Equal(t, domain.Num(1.4), login.Cells[1].AverageTime)

	require.Len(t, table.Errors, 1)
	assert.Equal(t, "a.html", table.Errors[0].ReportName)
}

// Aggregation is order independent up to row/column ordering: the same
// name/report/value triples come out whichever way the batch is ordered.
func TestAggregateOrderIndependent(t *testing.T) {
	ab, _ := Aggregate([]domain.ParsedReport{reportA(), reportB()})
	ba, _ := Aggregate([]domain.ParsedReport{reportB(), reportA()})

	assert.ElementsMatch(t, ab.Reports, ba.Reports)
	assert.Equal(t, ab.Summary.Columns, ba.Summary.Columns)

	extract := func(table domain.ComparisonTable) map[string]map[string]domain.Value {
		out := make(map[string]map[string]domain.Value)
		for _, row := range table.Transactions.Rows {
			cells := make(map[string]domain.Value)
			for i, cell := range row.Cells {
				if cell.Present {
					cells[table.Reports[i]] = cell.AverageTime
				}
			}
			out[row.Name] = cells
		}
		return out
	}
	assert.Equal(t, extract(ab), extract(ba))
}

func TestAggregateSchemaMismatch(t *testing.T) {
	reports := []domain.ParsedReport{
		{
			ReportName: "odd.html",
			Layout:     domain.LayoutUnknown,
			Summary:    domain.ReportSummary{"mystery_metric": "9"},
		},
	}

	_, warnings := Aggregate(reports)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnSchemaMismatch, warnings[0].Code)
	assert.Contains(t, warnings[0].Details["observed_columns"], "mystery_metric")
}

func TestAggregateEmptyBatch(t *testing.T) {
	table, warnings := Aggregate(nil)
	assert.Empty(t, table.Reports)
	assert.Empty(t, warnings)
}

// Two reports, A={"Login": 0.9}, B={"Login": 1.4, "Checkout": 2.1}: the
// join has both rows, Login is fully populated and Checkout is missing in
// A.
func TestAggregateMissingTransactionScenario(t *testing.T) {
	table, _ := Aggregate([]domain.ParsedReport{reportA(), reportB()})

	names := make([]string, 0, len(table.Transactions.Rows))
	for _, row := range table.Transactions.Rows {
		names = append(names, row.Name)
	}
	assert.ElementsMatch(t, []string{"Login", "Checkout"}, names)

	for _, row := range table.Transactions.Rows {
		switch row.Name {
		case "Login":
			assert.True(t, row.Cells[0].Present && row.Cells[1].Present)
		case "Checkout":
			assert.False(t, row.Cells[0].AverageTime.Valid)
			assert.True(t, row.Cells[1].AverageTime.Valid)
		}
	}
}
