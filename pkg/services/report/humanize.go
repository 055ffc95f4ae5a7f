package report

import (
	"math"
	"strconv"
	"strings"
)

var byteUnits = []string{"B", "kB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// HumanizeBytes renders a byte count with SI (1000-based) units and three
// significant digits, e.g. 1000 -> "1 kB", 1536000 -> "1.54 MB".
func HumanizeBytes(n float64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	unit := 0
	for n >= 1000 && unit < len(byteUnits)-1 {
		n /= 1000
		unit++
	}

	return sign + significant(n, 3) + " " + byteUnits[unit]
}

func significant(v float64, digits int) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', digits, 64), 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// HumanizeURL strips the scheme, a leading "www." and a trailing slash. The
// result is meant for display only.
func HumanizeURL(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "://"); i >= 0 && isScheme(s[:i]) {
		s = s[i+3:]
	} else {
		s = strings.TrimPrefix(s, "//")
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}

func isScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// CeilHundredths rounds v up at the second decimal place so impact is never
// under-reported.
func CeilHundredths(v float64) float64 {
	return math.Ceil(v*100) / 100
}
