package template

import (
	"strconv"
	"strings"
)

// CheckAnswer compares a typed answer against the resolved answer string.
//
// Normalization rules:
//   - Whitespace is trimmed
//   - Equivalent fractions are accepted ("2/4" matches "1/2")
//   - Trailing zeros on decimals are ignored ("3.50" matches "3.5")
//   - Leading zeros on integers are ignored ("007" matches "7")
//   - Anything non-numeric falls back to exact text comparison
func CheckAnswer(given, want string) bool {
	given = strings.TrimSpace(given)
	want = strings.TrimSpace(want)
	if given == "" {
		return false
	}
	if given == want {
		return true
	}
	ng, okG := normalizeNumeric(given)
	nw, okW := normalizeNumeric(want)
	if okG && okW {
		return ng == nw
	}
	return false
}

// normalizeNumeric reduces an integer, decimal, or a/b fraction string to a
// canonical form. Reports false for non-numeric text.
func normalizeNumeric(s string) (string, bool) {
	if num, den, ok := parseFraction(s); ok {
		if den == 0 {
			return "", false
		}
		if den < 0 {
			num = -num
			den = -den
		}
		if g := gcdInt(absInt(num), den); g > 1 {
			num /= g
			den /= g
		}
		if den == 1 {
			return strconv.FormatInt(num, 10), true
		}
		return strconv.FormatInt(num, 10) + "/" + strconv.FormatInt(den, 10), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

func parseFraction(s string) (int64, int64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return num, den, true
}

func gcdInt(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func absInt(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
