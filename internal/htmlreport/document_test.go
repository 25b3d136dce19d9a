package htmlreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSection(t *testing.T) {
	doc, err := ParseDocument([]byte(layoutSummaryHTML))
	require.NoError(t, err)

	tests := []struct {
		name       string
		candidates []SectionID
		wantFound  bool
	}{
		{
			name:       "exact id match",
			candidates: []SectionID{ByID("Overall Result_div")},
			wantFound:  true,
		},
		{
			name:       "pattern against id",
			candidates: []SectionID{ByPattern(`top\s*errors`)},
			wantFound:  true,
		},
		{
			name:       "pattern against heading text",
			candidates: []SectionID{ByPattern(`transaction details`)},
			wantFound:  true,
		},
		{
			name:       "case insensitive pattern",
			candidates: []SectionID{ByPattern(`TOP\s*ERRORS`)},
			wantFound:  true,
		},
		{
			name:       "fallback through candidate list",
			candidates: []SectionID{ByID("No Such Section_div"), ByID("Requests_div")},
			wantFound:  true,
		},
		{
			name:       "absent section returns nil not error",
			candidates: []SectionID{ByID("Never There_div"), ByPattern(`missing\s*section`)},
			wantFound:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section := doc.FindSection(tt.candidates...)
			if tt.wantFound {
				assert.NotNil(t, section)
			} else {
				assert.Nil(t, section)
			}
		})
	}
}

func TestFieldAfterLabel(t *testing.T) {
	doc, err := ParseDocument([]byte(layoutSummaryHTML))
	require.NoError(t, err)

	runInfo := doc.FindSection(ByID("Test Run Information_div"))
	require.NotNil(t, runInfo)

	tests := []struct {
		name      string
		label     string
		wantValue string
		wantOK    bool
	}{
		{"start time", "Start time", "10/20/2025 10:00:00 AM", true},
		{"end time", "End time", "10/20/2025 11:00:00 AM", true},
		{"missing label", "Ramp-up time", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := FieldAfterLabel(runInfo, tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

// A heading-matched section in flat markup must read its labelled fields
// forward from the heading, not from the top of the shared parent.
func TestFieldAfterLabelHeadingMatch(t *testing.T) {
	doc, err := ParseDocument([]byte(layoutSummaryFlatHTML))
	require.NoError(t, err)

	overall := doc.FindSection(ByPattern(`overall\s*result`))
	require.NotNil(t, overall)

	value, ok := FieldAfterLabel(overall, "Max User Load")
	require.True(t, ok)
	assert.Equal(t, "150", value)
}

func TestFieldAfterLabelNilSection(t *testing.T) {
	value, ok := FieldAfterLabel(nil, "Start time")
	assert.False(t, ok)
	assert.Empty(t, value)
}
