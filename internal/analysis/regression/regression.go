// Package regression fits a straight trend line to all closes of a series.
package regression

import (
	"github.com/markcheno/go-talib"

	"trendline-overlay/internal/analysis"
	"trendline-overlay/internal/models"
)

// Line is an ordinary least squares fit of close against candle index.
// Intercept is the fitted close at index 0.
type Line struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	Samples   int     `json:"samples"`
}

// At returns the fitted price at a candle index.
func (l Line) At(idx int) float64 {
	return l.Intercept + l.Slope*float64(idx)
}

// Fit regresses closes on index over the whole series. It reports false when the
// series has fewer than two candles.
func Fit(candles []models.Candle) (Line, bool) {
	n := len(candles)
	if n < 2 {
		return Line{}, false
	}

	closes := models.Closes(candles)
	// A period equal to the series length makes the last output the whole-series fit.
	slope := talib.LinearRegSlope(closes, n)
	intercept := talib.LinearRegIntercept(closes, n)

	return Line{
		Intercept: intercept[n-1],
		Slope:     slope[n-1],
		Samples:   n,
	}, true
}

// Strategy draws the regression line from the first to the last candle.
type Strategy struct{}

// New creates a regression overlay strategy.
func New() *Strategy {
	return &Strategy{}
}

func (s *Strategy) Name() string {
	return "LinearRegression"
}

// Overlay returns two chart points, or none for series shorter than two candles.
func (s *Strategy) Overlay(candles []models.Candle) []models.ChartPoint {
	line, ok := Fit(candles)
	if !ok {
		return []models.ChartPoint{}
	}
	n := len(candles)
	return []models.ChartPoint{
		analysis.Point(candles[0].Time, line.At(0)),
		analysis.Point(candles[n-1].Time, line.At(n-1)),
	}
}
