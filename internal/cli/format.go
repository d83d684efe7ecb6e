// Package cli provides formatting and rendering utilities for terminal
// output.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// FormatTokens formats a token count with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.23M", 1234567890 -> "1.2B"
func FormatTokens(n int64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatCost formats a USD cost. Sub-dollar amounts keep four decimals so
// cheap turns don't all render as $0.00.
func FormatCost(usd float64) string {
	if usd >= 1 {
		return fmt.Sprintf("$%.2f", usd)
	}
	return fmt.Sprintf("$%.4f", usd)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// FormatTimestamp renders an ISO-8601 timestamp in local time, minute
// precision. Unparseable values are truncated rather than dropped.
func FormatTimestamp(iso string) string {
	if iso == "" {
		return "—"
	}
	ts, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		if len(iso) > 16 {
			return iso[:16]
		}
		return iso
	}
	return ts.Local().Format("2006-01-02 15:04")
}

// ShortPath abbreviates the home directory to ~ and truncates long paths
// from the left.
func ShortPath(path string, maxLen int) string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" && strings.HasPrefix(path, home) {
		path = "~" + path[len(home):]
	}
	if len(path) > maxLen && maxLen > 1 {
		return "…" + path[len(path)-maxLen+1:]
	}
	return path
}
