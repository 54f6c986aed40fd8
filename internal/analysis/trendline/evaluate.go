package trendline

import (
	"math"

	"trendline-overlay/internal/analysis"
	"trendline-overlay/internal/models"
)

// Candidate is a validated support or resistance line through two pivots.
type Candidate struct {
	Type    models.LineType     `json:"type"`
	PivotA  models.PivotPoint   `json:"pivot_a"`
	PivotB  models.PivotPoint   `json:"pivot_b"`
	Slope   float64             `json:"slope"` // price per candle
	Touches int                 `json:"touches"`
	Points  []models.ChartPoint `json:"points"`
}

// PriceAt returns the line price at a series index.
func (c *Candidate) PriceAt(idx int) float64 {
	return c.PivotA.Price + c.Slope*float64(idx-c.PivotA.Index)
}

// Evaluate fits a line through a and b and checks it against every candle from
// a.Index to the end of the series. It reports false when the pivots do not form a
// line, price pierces the line by more than Epsilon, or fewer than two candles
// touch it.
func Evaluate(candles []models.Candle, a, b models.PivotPoint, lineType models.LineType, params Params) (*Candidate, bool) {
	n := len(candles)
	if b.Index <= a.Index || a.Index < 0 || b.Index >= n {
		return nil, false
	}

	slope := (b.Price - a.Price) / float64(b.Index-a.Index)
	expected := func(idx int) float64 {
		return a.Price + slope*float64(idx-a.Index)
	}

	touches := 0
	for idx := a.Index; idx < n; idx++ {
		line := expected(idx)

		var extreme float64
		if lineType == models.LineSupport {
			extreme = candles[idx].Low
			if line > extreme+params.Epsilon {
				return nil, false
			}
		} else {
			extreme = candles[idx].High
			if line < extreme-params.Epsilon {
				return nil, false
			}
		}

		if math.Abs(extreme-line) <= params.TouchTolerance {
			touches++
		}
	}

	if touches < 2 {
		return nil, false
	}

	points := []models.ChartPoint{
		analysis.Point(candles[a.Index].Time, a.Price),
		analysis.Point(candles[b.Index].Time, b.Price),
	}
	if b.Index < n-1 {
		points = append(points, analysis.Point(candles[n-1].Time, expected(n-1)))
	}

	return &Candidate{
		Type:    lineType,
		PivotA:  a,
		PivotB:  b,
		Slope:   slope,
		Touches: touches,
		Points:  points,
	}, true
}
