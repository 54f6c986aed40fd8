package trendline

import (
	"trendline-overlay/internal/models"
)

// DetectPivots finds pivot highs and pivot lows.
//
// Index i is a pivot high when its high is strictly greater than every other high
// in [i-window, i+window]; pivot lows mirror this on lows. Equal extremes inside the
// window disqualify the index. Only indices in [window, N-1-window) are scanned.
func DetectPivots(candles []models.Candle, window int) (highs, lows []models.PivotPoint) {
	if window <= 0 {
		return nil, nil
	}
	n := len(candles)

	for i := window; i < n-1-window; i++ {
		isHigh, isLow := true, true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if candles[j].High >= candles[i].High {
				isHigh = false
			}
			if candles[j].Low <= candles[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}

		if isHigh {
			highs = append(highs, models.PivotPoint{
				Index: i,
				Price: candles[i].High,
				Time:  candles[i].Time,
				Kind:  models.PivotHigh,
			})
		}
		if isLow {
			lows = append(lows, models.PivotPoint{
				Index: i,
				Price: candles[i].Low,
				Time:  candles[i].Time,
				Kind:  models.PivotLow,
			})
		}
	}

	return highs, lows
}
