package domain

import (
	"encoding/json"
)

// Layout identifies which known report structure a document follows.
type Layout string

const (
	// LayoutUnknown means no known section structure was detected.
	LayoutUnknown Layout = "unknown"
	// LayoutSummary is the variant with labelled summary fields and a wide
	// transaction table (average time in column 8).
	LayoutSummary Layout = "summary"
	// LayoutTable is the variant that renders overall results as
	// metric/value table rows and a compact transaction table.
	LayoutTable Layout = "table"
)

// Normalized summary keys shared by both report layouts. The summary key
// set is open: layouts may contribute additional keys, and consumers must
// tolerate absence.
const (
	SummaryStartTime         = "start_time"
	SummaryEndTime           = "end_time"
	SummaryStatus            = "status"
	SummaryMaxUserLoad       = "max_user_load"
	SummaryFailedRequestsPct = "failed_requests_pct"
	SummaryAvgResponseTime   = "avg_response_time"
	SummaryRequestsPerSec    = "requests_per_sec"
)

var knownSummaryKeys = map[string]bool{
	SummaryStartTime:         true,
	SummaryEndTime:           true,
	SummaryStatus:            true,
	SummaryMaxUserLoad:       true,
	SummaryFailedRequestsPct: true,
	SummaryAvgResponseTime:   true,
	SummaryRequestsPerSec:    true,
}

// IsKnownSummaryKey reports whether k is one of the summary keys produced
// by a recognized report layout. Used to detect batches where no report
// had a recognizable schema.
func IsKnownSummaryKey(k string) bool {
	return knownSummaryKeys[k]
}

// Value is a numeric cell that distinguishes missing or uncoercible data
// from a real zero. It marshals to JSON null when invalid.
type Value struct {
	Float float64
	Valid bool
}

// Num returns a valid Value holding f.
func Num(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Missing returns the missing-value marker.
func Missing() Value {
	return Value{}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	if err := json.Unmarshal(data, &v.Float); err != nil {
		return err
	}
	v.Valid = true
	return nil
}

// ReportSummary maps normalized metric keys to their raw string values.
// Different layouts expose different key sets; look up tolerantly.
type ReportSummary map[string]string

// TransactionRecord holds the timing statistics for one named transaction
// within a single report. LayoutSummary populates only Name and
// AverageTime; LayoutTable populates the full set.
type TransactionRecord struct {
	Name         string `json:"name"`
	AverageTime  Value  `json:"average_time"`
	Percentile95 Value  `json:"percentile_95"`
	Requests     Value  `json:"requests"`
	Errors       Value  `json:"errors"`
	MissedGoals  Value  `json:"missed_goals"`
}

// ErrorRecord is one entry from a report's top-errors table, tagged with
// the report it came from.
type ErrorRecord struct {
	ReportName  string `json:"report_name"`
	TestCase    string `json:"test_case"`
	RequestID   string `json:"request_id"`
	Description string `json:"description"`
}

// ParsedReport is the normalized form of one uploaded report. It is
// immutable once produced; ReportName is unique within a batch.
type ParsedReport struct {
	ReportName    string              `json:"report_name"`
	Layout        Layout              `json:"layout"`
	Summary       ReportSummary       `json:"summary"`
	Transactions  []TransactionRecord `json:"transactions"`
	Errors        []ErrorRecord       `json:"errors"`
	MalformedRows int                 `json:"malformed_rows"`
}

// Transaction returns the record with the given name, if present.
func (p ParsedReport) Transaction(name string) (TransactionRecord, bool) {
	for _, t := range p.Transactions {
		if t.Name == name {
			return t, true
		}
	}
	return TransactionRecord{}, false
}
