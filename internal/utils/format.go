package utils

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration given in milliseconds.
// Values below 1ms render in microseconds, values below 1s in milliseconds,
// everything else in seconds, always with two decimal places.
// Examples: 0.5 -> "500.00 µs", 45.2 -> "45.20 ms", 1500 -> "1.50 s"
func FormatDuration(ms float64) string {
	switch {
	case ms < 1:
		return fmt.Sprintf("%.2f µs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.2f ms", ms)
	default:
		return fmt.Sprintf("%.2f s", ms/1000)
	}
}

// FormatDurationPtr formats an optional duration, rendering "N/A" when absent.
func FormatDurationPtr(ms *float64) string {
	if ms == nil {
		return "N/A"
	}
	return FormatDuration(*ms)
}

// FormatBytes formats a byte count, scaling through B/KB/MB/GB.
// Examples: 512 -> "512.00 B", 1536 -> "1.50 KB", 3145728 -> "3.00 MB"
func FormatBytes(b float64) string {
	units := []string{"B", "KB", "MB", "GB"}
	i := 0
	for b >= 1024 && i < len(units)-1 {
		b /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", b, units[i])
}

// FormatBytesPtr formats an optional byte count, rendering "N/A" when absent.
func FormatBytesPtr(b *float64) string {
	if b == nil {
		return "N/A"
	}
	return FormatBytes(*b)
}

// FormatTimestamp renders a timestamp as "YYYY-MM-DD HH:MM:SS UTC",
// truncating sub-second precision. A nil timestamp renders "N/A".
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}
