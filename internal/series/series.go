// Package series builds validated candle series from raw external data.
//
// All numeric coercion happens here, once, before candles reach an overlay
// strategy. Parsing fails on the first malformed field.
package series

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"trendline-overlay/internal/errors"
	"trendline-overlay/internal/models"
)

// RawCandle is a candle as it arrives from a file or collaborator, before parsing.
type RawCandle struct {
	Time   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// Parse converts raw candles and validates the resulting series.
func Parse(raw []RawCandle) ([]models.Candle, error) {
	candles := make([]models.Candle, 0, len(raw))

	for row, r := range raw {
		ts, err := parseTime(r.Time)
		if err != nil {
			return nil, errors.NewRowError(row, "time", r.Time, err.Error())
		}

		c := models.Candle{Time: ts}
		fields := []struct {
			name string
			raw  string
			dst  *float64
		}{
			{"open", r.Open, &c.Open},
			{"high", r.High, &c.High},
			{"low", r.Low, &c.Low},
			{"close", r.Close, &c.Close},
			{"volume", r.Volume, &c.Volume},
		}
		for _, f := range fields {
			v, err := parsePrice(f.raw)
			if err != nil {
				return nil, errors.NewRowError(row, f.name, f.raw, err.Error())
			}
			*f.dst = v
		}

		candles = append(candles, c)
	}

	if err := Validate(candles); err != nil {
		return nil, err
	}
	return candles, nil
}

// parseTime accepts epoch milliseconds or an RFC3339 timestamp.
func parseTime(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("not epoch milliseconds or RFC3339")
	}
	return t.UnixMilli(), nil
}

func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite")
	}
	return v, nil
}

// Validate checks the series invariants: finite prices, low <= open,close <= high,
// non-negative volume and strictly increasing time.
func Validate(candles []models.Candle) error {
	for i, c := range candles {
		for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.NewRowError(i, "price", v, "not finite")
			}
		}
		if c.Low > c.High {
			return errors.NewRowError(i, "low", c.Low, "above high")
		}
		if c.Open < c.Low || c.Open > c.High {
			return errors.NewRowError(i, "open", c.Open, "outside low-high range")
		}
		if c.Close < c.Low || c.Close > c.High {
			return errors.NewRowError(i, "close", c.Close, "outside low-high range")
		}
		if c.Volume < 0 {
			return errors.NewRowError(i, "volume", c.Volume, "negative")
		}
		if i > 0 && c.Time <= candles[i-1].Time {
			return errors.NewRowError(i, "time", c.Time, "not after previous candle")
		}
	}
	return nil
}
