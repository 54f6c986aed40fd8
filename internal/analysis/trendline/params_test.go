package trendline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendline-overlay/internal/models"
)

func TestTouchToleranceFor(t *testing.T) {
	assert.Equal(t, DefaultTouchTolerance, TouchToleranceFor(DefaultEpsilon))
	assert.Equal(t, 1e-5, TouchToleranceFor(1e-6))
	assert.Equal(t, 1e-3, TouchToleranceFor(1e-4))
	assert.Equal(t, 3e-6, TouchToleranceFor(3e-7))
	assert.Equal(t, 0.7, TouchToleranceFor(0.07))

	assert.True(t, math.IsNaN(TouchToleranceFor(math.NaN())))
	assert.True(t, math.IsInf(TouchToleranceFor(math.Inf(1)), 1))
}

// A low exactly one touch tolerance above a flat line must count as a touch
// whether the tolerance came from DefaultParams or was derived from epsilon.
func TestEvaluate_DerivedToleranceMatchesDefault(t *testing.T) {
	candles := make([]models.Candle, 12)
	for i := range candles {
		candles[i] = mkCandle(i, 2, 1)
	}
	candles[0] = mkCandle(0, 2, 0)
	candles[5] = mkCandle(5, 2, 0)
	candles[9] = mkCandle(9, 2, 1e-5)

	derived := Params{Window: 2, Epsilon: 1e-6, TouchTolerance: TouchToleranceFor(1e-6)}
	for _, params := range []Params{DefaultParams(), derived} {
		cand, ok := Evaluate(candles, lowPivot(candles, 0), lowPivot(candles, 5), models.LineSupport, params)
		require.True(t, ok)
		assert.Equal(t, 3, cand.Touches)
	}
}
