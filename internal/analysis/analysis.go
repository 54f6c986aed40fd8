// Package analysis defines the overlay strategies that turn a candle series into
// a trend line drawn over the price chart.
package analysis

import (
	"strings"

	"github.com/shopspring/decimal"

	"trendline-overlay/internal/errors"
	"trendline-overlay/internal/models"
)

// OverlayStrategy computes a trend overlay for a candle series.
// Implementations are pure: no I/O, no shared mutable state.
type OverlayStrategy interface {
	Name() string
	Overlay(candles []models.Candle) []models.ChartPoint
}

// Mode selects an overlay strategy.
type Mode string

const (
	// ModePivot draws the best support or resistance line through two pivots.
	ModePivot Mode = "pivot"
	// ModeRegression draws an ordinary least squares fit over all closes.
	ModeRegression Mode = "regression"
)

// Modes lists every supported mode.
var Modes = []Mode{ModePivot, ModeRegression}

// ParseMode parses a mode name. There is no default: an empty or unknown name is an error.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePivot:
		return ModePivot, nil
	case ModeRegression:
		return ModeRegression, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownMode, "mode %q (must be 'pivot' or 'regression')", s)
}

// PricePlaces is the number of decimal places reported in chart points.
const PricePlaces = 6

// RoundPrice rounds v to PricePlaces decimals, half away from zero, on the
// shortest decimal representation of v.
func RoundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(PricePlaces).InexactFloat64()
}

// Point builds a chart point with a rounded price.
func Point(t int64, price float64) models.ChartPoint {
	return models.ChartPoint{X: t, Y: RoundPrice(price)}
}
