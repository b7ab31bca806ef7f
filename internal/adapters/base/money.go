package base

import (
	"strings"
)

// MinorUnits parses a decimal currency amount ("2.50", "2,50", "12")
// into integer minor units. Malformed input yields 0; fee amounts are
// display data, not accounting.
func MinorUnits(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.ReplaceAll(s, ",", ".")

	whole, frac, _ := strings.Cut(s, ".")
	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	default:
		frac = frac[:2]
	}

	total := 0
	for _, c := range whole + frac {
		if c < '0' || c > '9' {
			return 0
		}
		total = total*10 + int(c-'0')
	}
	if negative {
		return -total
	}
	return total
}
