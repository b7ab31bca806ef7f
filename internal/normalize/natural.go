package normalize

import "strings"

// NaturalCompare compares two strings with embedded numbers treated
// numerically, so "Vol. 2" sorts before "Vol. 10". Comparison of the
// non-numeric parts is case-insensitive. Returns -1, 0 or 1.
func NaturalCompare(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			numA, nextI := readNumber(a, i)
			numB, nextJ := readNumber(b, j)
			if numA != numB {
				if numA < numB {
					return -1
				}
				return 1
			}
			i, j = nextI, nextJ
			continue
		}
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// readNumber parses the digit run starting at position i, skipping
// leading zeros so "007" and "7" compare equal.
func readNumber(s string, i int) (uint64, int) {
	var n uint64
	for i < len(s) && isDigit(s[i]) {
		// Saturate instead of overflowing on absurdly long runs.
		if n < 1<<57 {
			n = n*10 + uint64(s[i]-'0')
		}
		i++
	}
	return n, i
}
