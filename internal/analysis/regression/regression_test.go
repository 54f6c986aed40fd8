package regression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendline-overlay/internal/models"
)

func closesSeries(closes ...float64) []models.Candle {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Time:  int64(1_700_000_000_000 + i*86_400_000),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return candles
}

func TestFit_PerfectLine(t *testing.T) {
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = 10 + 2*float64(i)
	}

	line, ok := Fit(closesSeries(closes...))
	require.True(t, ok)
	assert.InDelta(t, 2.0, line.Slope, 1e-9)
	assert.InDelta(t, 10.0, line.Intercept, 1e-9)
	assert.Equal(t, 10, line.Samples)
	assert.InDelta(t, 28.0, line.At(9), 1e-9)
}

func TestFit_NoisySeries(t *testing.T) {
	// Closes 1, 3, 2, 4: mean x 1.5, mean y 2.5, slope 0.8, intercept 1.3.
	line, ok := Fit(closesSeries(1, 3, 2, 4))
	require.True(t, ok)
	assert.InDelta(t, 0.8, line.Slope, 1e-9)
	assert.InDelta(t, 1.3, line.Intercept, 1e-9)
}

func TestFit_TooShort(t *testing.T) {
	_, ok := Fit(closesSeries(5))
	assert.False(t, ok)

	_, ok = Fit(nil)
	assert.False(t, ok)
}

func TestStrategy_Overlay(t *testing.T) {
	candles := closesSeries(1, 3, 2, 4)
	points := New().Overlay(candles)

	require.Len(t, points, 2)
	assert.Equal(t, candles[0].Time, points[0].X)
	assert.Equal(t, candles[3].Time, points[1].X)
	assert.Equal(t, 1.3, points[0].Y)
	assert.Equal(t, 3.7, points[1].Y)
}

func TestStrategy_OverlayShortSeries(t *testing.T) {
	points := New().Overlay(closesSeries(5))
	assert.NotNil(t, points)
	assert.Empty(t, points)
}
