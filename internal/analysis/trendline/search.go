package trendline

import (
	"trendline-overlay/internal/models"
)

// SearchBest evaluates every pair of pivots and returns the best line, or nil.
//
// Pairs are visited most recent first: i from the last pivot down to 1, j from i-1
// down to 0. A candidate replaces the current best only when it has more touches,
// or equal touches and a later second pivot, or the same second pivot and a later
// first pivot. Complete ties keep the earlier visited candidate.
func SearchBest(candles []models.Candle, pivots []models.PivotPoint, lineType models.LineType, params Params) *Candidate {
	var best *Candidate

	for i := len(pivots) - 1; i >= 1; i-- {
		for j := i - 1; j >= 0; j-- {
			cand, ok := Evaluate(candles, pivots[j], pivots[i], lineType, params)
			if !ok {
				continue
			}
			if best == nil || better(cand, best) {
				best = cand
			}
		}
	}

	return best
}

func better(c, best *Candidate) bool {
	if c.Touches != best.Touches {
		return c.Touches > best.Touches
	}
	if c.PivotB.Index != best.PivotB.Index {
		return c.PivotB.Index > best.PivotB.Index
	}
	return c.PivotA.Index > best.PivotA.Index
}

// SelectLine picks the line to report. When both exist the one with the later
// second pivot wins, and support wins ties.
func SelectLine(support, resistance *Candidate) *Candidate {
	switch {
	case support != nil && resistance != nil:
		if support.PivotB.Index >= resistance.PivotB.Index {
			return support
		}
		return resistance
	case support != nil:
		return support
	default:
		return resistance
	}
}

// Result holds every intermediate fact of one search.
type Result struct {
	Candles    int                 `json:"candles"`
	PivotHighs []models.PivotPoint `json:"pivot_highs"`
	PivotLows  []models.PivotPoint `json:"pivot_lows"`
	Support    *Candidate          `json:"support,omitempty"`
	Resistance *Candidate          `json:"resistance,omitempty"`
	Selected   *Candidate          `json:"selected,omitempty"`
	Points     []models.ChartPoint `json:"points"`
}

// Found reports whether a line was detected.
func (r *Result) Found() bool {
	return r.Selected != nil
}

// Engine runs the pivot search with fixed, validated parameters.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	params Params
}

// New creates an engine. Invalid parameters are rejected before any scan.
func New(params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: params}, nil
}

// NewDefault creates an engine with DefaultParams.
func NewDefault() *Engine {
	return &Engine{params: DefaultParams()}
}

func (e *Engine) Name() string {
	return "PivotTrendLine"
}

// Params returns the engine parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Analyze detects pivots, finds the best support and resistance lines and
// selects the one to report. A series shorter than 2*window+2 yields an empty result.
func (e *Engine) Analyze(candles []models.Candle) *Result {
	result := &Result{
		Candles: len(candles),
		Points:  []models.ChartPoint{},
	}
	if e.params.Window <= 0 || len(candles) < e.params.MinCandles() {
		return result
	}

	result.PivotHighs, result.PivotLows = DetectPivots(candles, e.params.Window)
	result.Support = SearchBest(candles, result.PivotLows, models.LineSupport, e.params)
	result.Resistance = SearchBest(candles, result.PivotHighs, models.LineResistance, e.params)
	result.Selected = SelectLine(result.Support, result.Resistance)

	if result.Selected != nil {
		result.Points = append(result.Points, result.Selected.Points...)
	}
	return result
}

// Overlay returns the selected line as 0, 2 or 3 chart points.
func (e *Engine) Overlay(candles []models.Candle) []models.ChartPoint {
	return e.Analyze(candles).Points
}

// Search is a convenience wrapper for a one-off search.
func Search(candles []models.Candle, params Params) []models.ChartPoint {
	return (&Engine{params: params}).Overlay(candles)
}
