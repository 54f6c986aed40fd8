package trendline

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trendline-overlay/internal/models"
)

// walkSeries turns a slice of steps into a random-walk candle series.
func walkSeries(steps []float64) []models.Candle {
	candles := make([]models.Candle, len(steps))
	price := 100.0
	for i, step := range steps {
		open := price
		price += step
		if price < 1 {
			price = 1
		}
		high := math.Max(open, price) + math.Abs(step)*0.5 + 0.1
		low := math.Min(open, price) - math.Abs(step)*0.5 - 0.1
		candles[i] = models.Candle{
			Time:   baseTime + int64(i)*60_000,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 1000,
		}
	}
	return candles
}

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	return parameters
}

func stepsGen(n int) gopter.Gen {
	return gen.SliceOfN(n, gen.Float64Range(-3, 3))
}

// Property: series shorter than 2*window+2 never produce a line.
func TestProperty_ShortSeriesEmpty(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("short series yield no points", prop.ForAll(
		func(steps []float64, window int) bool {
			params := DefaultParams()
			params.Window = window
			n := len(steps) % params.MinCandles()
			return len(Search(walkSeries(steps[:n]), params)) == 0
		},
		stepsGen(40),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}

// Property: every pivot strictly dominates its window, and a tie next to it removes it.
func TestProperty_PivotsStrictlyDominate(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("pivots dominate their window", prop.ForAll(
		func(steps []float64, window int) bool {
			candles := walkSeries(steps)
			highs, lows := DetectPivots(candles, window)

			for _, p := range highs {
				for j := p.Index - window; j <= p.Index+window; j++ {
					if j != p.Index && candles[j].High >= p.Price {
						return false
					}
				}
			}
			for _, p := range lows {
				for j := p.Index - window; j <= p.Index+window; j++ {
					if j != p.Index && candles[j].Low <= p.Price {
						return false
					}
				}
			}
			return true
		},
		stepsGen(80),
		gen.IntRange(1, 6),
	))

	properties.Property("a tie inside the window removes the pivot", prop.ForAll(
		func(steps []float64, window int) bool {
			candles := walkSeries(steps)
			highs, _ := DetectPivots(candles, window)

			for _, p := range highs {
				tied := append([]models.Candle(nil), candles...)
				tied[p.Index+1].High = p.Price
				again, _ := DetectPivots(tied, window)
				for _, q := range again {
					if q.Index == p.Index {
						return false
					}
				}
			}
			return true
		},
		stepsGen(80),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}

// Property: a reported line is never pierced beyond epsilon and has at least two touches.
func TestProperty_ReportedLineContainsSeries(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("selected line passes containment replay", prop.ForAll(
		func(steps []float64, window int) bool {
			params := DefaultParams()
			params.Window = window
			candles := walkSeries(steps)

			engine, err := New(params)
			if err != nil {
				return false
			}
			result := engine.Analyze(candles)

			for _, cand := range []*Candidate{result.Support, result.Resistance} {
				if cand == nil {
					continue
				}
				if cand.Touches < 2 || cand.PivotA.Index >= cand.PivotB.Index {
					return false
				}
				for idx := cand.PivotA.Index; idx < len(candles); idx++ {
					line := cand.PriceAt(idx)
					if cand.Type == models.LineSupport && line > candles[idx].Low+params.Epsilon {
						return false
					}
					if cand.Type == models.LineResistance && line < candles[idx].High-params.Epsilon {
						return false
					}
				}
			}

			switch n := len(result.Points); n {
			case 0:
				return result.Selected == nil
			case 2, 3:
				return result.Selected != nil && result.Points[0].X == candles[result.Selected.PivotA.Index].Time
			default:
				return false
			}
		},
		stepsGen(80),
		gen.IntRange(1, 6),
	))

	properties.Property("piercing the selected line rejects it", prop.ForAll(
		func(steps []float64) bool {
			params := DefaultParams()
			params.Window = 2
			candles := walkSeries(steps)

			engine, err := New(params)
			if err != nil {
				return false
			}
			sel := engine.Analyze(candles).Selected
			if sel == nil || sel.PivotB.Index == len(candles)-1 {
				return true
			}

			last := len(candles) - 1
			corrupted := append([]models.Candle(nil), candles...)
			if sel.Type == models.LineSupport {
				corrupted[last].Low = sel.PriceAt(last) - 1
			} else {
				corrupted[last].High = sel.PriceAt(last) + 1
			}

			_, ok := Evaluate(corrupted, sel.PivotA, sel.PivotB, sel.Type, params)
			return !ok
		},
		stepsGen(60),
	))

	properties.TestingRun(t)
}

// Property: identical input produces identical output.
func TestProperty_Deterministic(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("search is repeatable", prop.ForAll(
		func(steps []float64, window int) bool {
			params := DefaultParams()
			params.Window = window
			candles := walkSeries(steps)
			return reflect.DeepEqual(Search(candles, params), Search(candles, params))
		},
		stepsGen(60),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
