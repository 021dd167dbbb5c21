// Package dashboard serves the read side of the metrics API and wires
// the ingestion routes.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/ingest"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
)

// PreviousDayData carries the prior calendar day's index values for a
// coin, or is absent when that day has no row.
type PreviousDayData struct {
	OTCIndex       float64 `json:"otc_index"`
	ExplosionIndex float64 `json:"explosion_index"`
}

// Change is a derived percent change between two daily values.
// Percent is nil when the change is undefined (both values zero) or
// unbounded; Infinite marks the unbounded case, with Positive giving
// the sign of the current value.
type Change struct {
	Percent  *float64 `json:"percent,omitempty"`
	Infinite bool     `json:"infinite,omitempty"`
	Positive bool     `json:"positive,omitempty"`
}

// EnrichedMetric is a daily metric joined with the prior calendar
// day's values and the derived changes the UI consumes.
type EnrichedMetric struct {
	*market.DailyMetric
	PreviousDayData *PreviousDayData `json:"previous_day_data"`
	OTCChange       *Change          `json:"otc_change"`
	ExplosionChange *Change          `json:"explosion_change"`
}

// ComputeChange derives the percent change from previous to current.
// Returns nil when previous data does not exist conceptually — callers
// pass values only when a previous row was found.
func ComputeChange(current, previous float64) *Change {
	if previous == 0 {
		if current == 0 {
			// Undefined; no percentage at all.
			return &Change{}
		}
		return &Change{Infinite: true, Positive: current > 0}
	}

	cur := decimal.NewFromFloat(current)
	prev := decimal.NewFromFloat(previous)
	pct, _ := cur.Sub(prev).
		Div(prev).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return &Change{Percent: &pct}
}

// Enrich joins each current-day metric with the previous-day metric of
// the same coin. The previous map must be keyed by coin id; absent
// coins yield a nil PreviousDayData and no change values.
func Enrich(current []*market.DailyMetric, previous map[int64]*market.DailyMetric) []*EnrichedMetric {
	enriched := make([]*EnrichedMetric, len(current))
	for i, metric := range current {
		row := &EnrichedMetric{DailyMetric: metric}
		if prev, ok := previous[metric.CoinID]; ok {
			row.PreviousDayData = &PreviousDayData{
				OTCIndex:       prev.OTCIndex,
				ExplosionIndex: prev.ExplosionIndex,
			}
			row.OTCChange = ComputeChange(metric.OTCIndex, prev.OTCIndex)
			row.ExplosionChange = ComputeChange(metric.ExplosionIndex, prev.ExplosionIndex)
		}
		enriched[i] = row
	}
	return enriched
}

// PreviousCalendarDay returns the date one day before the given
// canonical date. The comparison day is always the calendar previous
// day, never the most recent day with data.
func PreviousCalendarDay(date string) (string, error) {
	t, err := time.Parse(ingest.DateFormat, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(ingest.DateFormat), nil
}
