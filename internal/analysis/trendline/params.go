// Package trendline detects the best support or resistance line through pivot
// points of a candle series.
package trendline

import (
	"math"

	"github.com/shopspring/decimal"

	"trendline-overlay/internal/errors"
)

// Default tuning values.
const (
	DefaultWindow         = 5
	DefaultEpsilon        = 1e-6
	DefaultTouchTolerance = 10 * DefaultEpsilon
)

// Params holds the tunable parameters of the engine.
type Params struct {
	Window         int     // candles on each side a pivot must dominate
	Epsilon        float64 // allowed containment violation
	TouchTolerance float64 // max distance between line and extreme that counts as a touch
}

// DefaultParams returns window 5, epsilon 1e-6 and touch tolerance 1e-5.
func DefaultParams() Params {
	return Params{
		Window:         DefaultWindow,
		Epsilon:        DefaultEpsilon,
		TouchTolerance: DefaultTouchTolerance,
	}
}

// Validate rejects non-positive or non-finite parameters.
func (p Params) Validate() error {
	if p.Window <= 0 {
		return errors.NewConfigError("window", p.Window, "must be a positive integer")
	}
	if !positiveFinite(p.Epsilon) {
		return errors.NewConfigError("epsilon", p.Epsilon, "must be a positive finite number")
	}
	if !positiveFinite(p.TouchTolerance) {
		return errors.NewConfigError("touch_tolerance", p.TouchTolerance, "must be a positive finite number")
	}
	return nil
}

// TouchToleranceFor returns the touch tolerance derived from epsilon when none is
// configured: ten times epsilon, computed in decimal so 1e-6 yields exactly 1e-5.
func TouchToleranceFor(epsilon float64) float64 {
	if epsilon == DefaultEpsilon {
		return DefaultTouchTolerance
	}
	// Non-finite values are left for Validate to reject.
	if math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		return epsilon
	}
	return decimal.NewFromFloat(epsilon).Mul(decimal.NewFromInt(10)).InexactFloat64()
}

// MinCandles is the shortest series the search will look at.
func (p Params) MinCandles() int {
	return 2*p.Window + 2
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
