package util

import (
	"fmt"
	"time"
)

// FormatNumber abbreviates counts for narrow columns
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatDuration renders spans between trace entries, which range from
// nanoseconds to hours.
func FormatDuration(d time.Duration) string {
	negative := d < 0
	if negative {
		d = -d
	}

	var out string
	switch {
	case d < time.Microsecond:
		out = fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		out = fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		out = fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	case d < time.Minute:
		out = fmt.Sprintf("%.2fs", d.Seconds())
	default:
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		seconds := int(d.Seconds()) % 60
		if hours > 0 {
			out = fmt.Sprintf("%dh %dm", hours, minutes)
		} else {
			out = fmt.Sprintf("%dm %ds", minutes, seconds)
		}
	}

	if negative {
		return "-" + out
	}
	return out
}
