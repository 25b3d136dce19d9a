package domain

// ComparisonTable is the side-by-side view over a batch of parsed reports.
// It is recomputed on every aggregation call and never persisted.
type ComparisonTable struct {
	// Reports lists the report names in upload order. All per-report cell
	// slices in this table are index-aligned with it.
	Reports      []string         `json:"reports"`
	Summary      SummaryTable     `json:"summary"`
	Transactions TransactionTable `json:"transactions"`
	Errors       []ErrorRecord    `json:"errors"`
}

// SummaryTable has one row per report; Columns is the union of all summary
// keys observed across the batch, sorted for deterministic output.
type SummaryTable struct {
	Columns []string     `json:"columns"`
	Rows    []SummaryRow `json:"rows"`
}

// SummaryRow holds one report's summary values. Keys a report did not
// produce are absent from Cells.
type SummaryRow struct {
	ReportName string            `json:"report_name"`
	Cells      map[string]string `json:"cells"`
}

// TransactionTable is the outer join of all reports' transaction tables,
// keyed by exact transaction name.
type TransactionTable struct {
	Reports []string         `json:"reports"`
	Rows    []TransactionRow `json:"rows"`
}

// TransactionRow holds one transaction's per-report cells, index-aligned
// with TransactionTable.Reports. Reports lacking the transaction get a
// zero-value cell with Present=false.
type TransactionRow struct {
	Name  string            `json:"name"`
	Cells []TransactionCell `json:"cells"`
}

// TransactionCell is one report's statistics for one transaction.
type TransactionCell struct {
	Present      bool  `json:"present"`
	AverageTime  Value `json:"average_time"`
	Percentile95 Value `json:"percentile_95"`
	Requests     Value `json:"requests"`
	Errors       Value `json:"errors"`
	MissedGoals  Value `json:"missed_goals"`
}

// AnnotatedTable is the transaction comparison table with SLA and ranking
// flags attached to each average-time cell. Flags are pure metadata; all
// presentation (colors, charts) belongs to the caller.
type AnnotatedTable struct {
	Reports    []string       `json:"reports"`
	Threshold  float64        `json:"threshold"`
	Rows       []AnnotatedRow `json:"rows"`
	Compliance Compliance     `json:"compliance"`
}

// AnnotatedRow carries one transaction's annotated cells, index-aligned
// with AnnotatedTable.Reports.
type AnnotatedRow struct {
	Name  string          `json:"name"`
	Cells []AnnotatedCell `json:"cells"`
}

// AnnotatedCell is one average-time value plus its annotation flags.
// Missing values never carry flags.
type AnnotatedCell struct {
	Value  Value `json:"value"`
	Breach bool  `json:"breach"`
	Best   bool  `json:"best"`
	Worst  bool  `json:"worst"`
}

// Compliance counts valid cells within and above the SLA threshold across
// the whole table. Missing values are excluded from the denominator.
type Compliance struct {
	Within int `json:"within"`
	Above  int `json:"above"`
}

// Rate returns the within-SLA fraction, or 0 when no valid cells exist.
func (c Compliance) Rate() float64 {
	total := c.Within + c.Above
	if total == 0 {
		return 0
	}
	return float64(c.Within) / float64(total)
}
