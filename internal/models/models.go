// Package models provides the value types shared by the overlay engine and its callers.
package models

// Candle represents one OHLCV bar. Time is epoch milliseconds.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// ChartPoint is one vertex of an overlay series.
type ChartPoint struct {
	X int64   `json:"x"` // epoch ms
	Y float64 `json:"y"` // price
}

// PivotKind represents the side of a local extreme.
type PivotKind string

const (
	PivotHigh PivotKind = "high"
	PivotLow  PivotKind = "low"
)

// PivotPoint is a candle that dominates its detection window.
type PivotPoint struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Time  int64     `json:"time"`
	Kind  PivotKind `json:"kind"`
}

// LineType represents which side of price a trend line bounds.
type LineType string

const (
	LineSupport    LineType = "support"
	LineResistance LineType = "resistance"
)

// PivotKind returns the pivot kind a line of this type is drawn through.
func (t LineType) PivotKind() PivotKind {
	if t == LineResistance {
		return PivotHigh
	}
	return PivotLow
}

// Times returns the timestamps of a series, in order.
func Times(candles []Candle) []int64 {
	out := make([]int64, len(candles))
	for i, c := range candles {
		out[i] = c.Time
	}
	return out
}

// Closes returns the closing prices of a series, in order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
