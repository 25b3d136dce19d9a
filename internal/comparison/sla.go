package comparison

import (
	"perfcli/pkg/contracts/domain"
)

// DefaultThreshold is the SLA response-time ceiling, in seconds, used when
// the caller supplies none. Zero and negative thresholds are valid
// degenerate cases: every valid value breaches.
const DefaultThreshold = 1.0

// Direction controls which end of a row's value range counts as best.
type Direction int

const (
	// LowerIsBetter suits response times and error counts.
	LowerIsBetter Direction = iota
	// HigherIsBetter suits throughput metrics.
	HigherIsBetter
)

// Annotate marks each average-time cell of the transaction table as
// within or above the threshold (strictly greater than breaches) and
// ranks each row's cells best/worst with lower-is-better. Values are
// never mutated; flags are attached alongside them. Missing values carry
// no flags and do not count toward compliance.
func Annotate(table domain.TransactionTable, thresholdSeconds float64) domain.AnnotatedTable {
	annotated := domain.AnnotatedTable{
		Reports:   table.Reports,
		Threshold: thresholdSeconds,
		Rows:      make([]domain.AnnotatedRow, 0, len(table.Rows)),
	}

	for _, row := range table.Rows {
		values := make([]domain.Value, len(row.Cells))
		for i, cell := range row.Cells {
			values[i] = cell.AverageTime
		}
		best, worst := RankRow(values, LowerIsBetter)

		cells := make([]domain.AnnotatedCell, len(values))
		for i, v := range values {
			cell := domain.AnnotatedCell{Value: v, Best: best[i], Worst: worst[i]}
			if v.Valid {
				if v.Float > thresholdSeconds {
					cell.Breach = true
					annotated.Compliance.Above++
				} else {
					annotated.Compliance.Within++
				}
			}
			cells[i] = cell
		}
		annotated.Rows = append(annotated.Rows, domain.AnnotatedRow{Name: row.Name, Cells: cells})
	}

	return annotated
}

// RankRow flags the best and worst cells of one row. Ties at the minimum
// or maximum all receive the corresponding flag; a cell is never flagged
// both, so rows where every valid value is equal (or fewer than two valid
// values exist) receive no flags. Missing values are excluded.
func RankRow(values []domain.Value, dir Direction) (best, worst []bool) {
	best = make([]bool, len(values))
	worst = make([]bool, len(values))

	var minV, maxV float64
	valid := 0
	for _, v := range values {
		if !v.Valid {
			continue
		}
		if valid == 0 || v.Float < minV {
			minV = v.Float
		}
		if valid == 0 || v.Float > maxV {
			maxV = v.Float
		}
		valid++
	}
	if valid < 2 || minV == maxV {
		return best, worst
	}

	bestV, worstV := minV, maxV
	if dir == HigherIsBetter {
		bestV, worstV = maxV, minV
	}
	for i, v := range values {
		if !v.Valid {
			continue
		}
		best[i] = v.Float == bestV
		worst[i] = v.Float == worstV
	}
	return best, worst
}
