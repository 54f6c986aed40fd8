package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatPrice formats a price with at most six decimals and no trailing zeros.
func FormatPrice(price float64) string {
	return humanize.Ftoa(price)
}

// FormatSlope formats a slope in price per candle with an explicit sign.
func FormatSlope(slope float64) string {
	if slope > 0 {
		return "+" + humanize.Ftoa(slope)
	}
	return humanize.Ftoa(slope)
}

// FormatCount formats a count with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatTime formats an epoch-millisecond candle time in UTC.
func FormatTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Microsecond).String()
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// TruncateLeft shortens s to maxLen runes, keeping its tail.
func TruncateLeft(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[len(r)-maxLen:])
	}
	return "..." + string(r[len(r)-maxLen+3:])
}
