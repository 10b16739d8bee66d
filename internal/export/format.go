package export

import (
	"strconv"
	"strings"

	"ratio-analyzer/internal/statement"
)

// FormatValue renders a ratio value for CSV or console output. Missing
// values render as an empty cell so spreadsheets treat them as gaps rather
// than zeros.
func FormatValue(v float64, decimals int) string {
	if statement.IsMissing(v) {
		return ""
	}
	if decimals < 0 {
		decimals = 2
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatLargeValue renders monetary magnitudes (market cap, working capital)
// with thousands grouping and no fractional part.
func FormatLargeValue(v float64) string {
	if statement.IsMissing(v) {
		return ""
	}
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)
	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatPercent renders a unit ratio as a percentage string, e.g. 0.125
// becomes "12.50%".
func FormatPercent(v float64, decimals int) string {
	if statement.IsMissing(v) {
		return ""
	}
	if decimals < 0 {
		decimals = 2
	}
	return strconv.FormatFloat(v*100, 'f', decimals, 64) + "%"
}
