package numfmt

import (
	"fmt"
	"math"
	"strconv"
)

// gcd returns the greatest common divisor of a and b.
// Both a and b must be non-negative.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// reduce normalizes the sign onto the numerator and divides out the gcd.
func reduce(num, den int64) (int64, int64) {
	if den < 0 {
		num = -num
		den = -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num /= g
		den /= g
	}
	return num, den
}

// fractionString renders a reduced fraction as plain "n/d" text. A
// denominator of 1 collapses to the bare integer.
func fractionString(num, den int64) string {
	num, den = reduce(num, den)
	if den == 1 {
		return strconv.FormatInt(num, 10)
	}
	return fmt.Sprintf("%d/%d", num, den)
}

// FractionMarkup renders a reduced fraction in \frac markup, keeping the
// sign in front of the markup. Unlike fractionString it never collapses:
// it is used where the author forced fraction rendering.
func FractionMarkup(num, den int64) string {
	num, den = reduce(num, den)
	if num < 0 {
		return fmt.Sprintf(`-\frac{%d}{%d}`, -num, den)
	}
	return fmt.Sprintf(`\frac{%d}{%d}`, num, den)
}

// rationalize approximates v by a fraction using a continued-fraction
// expansion: at most maxTerms terms, denominator capped at maxDen. The
// result is only accepted when it round-trips to v within tol.
func rationalize(v float64, maxTerms int, maxDen int64, tol float64) (int64, int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, 0, false
	}
	neg := v < 0
	x := math.Abs(v)

	var h0, h1 int64 = 1, int64(math.Floor(x))
	var k0, k1 int64 = 0, 1
	frac := x - math.Floor(x)

	for i := 0; i < maxTerms && frac > tol; i++ {
		x = 1 / frac
		a := int64(math.Floor(x))
		h0, h1 = h1, a*h1+h0
		k0, k1 = k1, a*k1+k0
		if k1 > maxDen {
			h1, k1 = h0, k0
			break
		}
		frac = x - math.Floor(x)
	}
	if k1 <= 0 || k1 > maxDen {
		return 0, 0, false
	}
	if math.Abs(math.Abs(v)-float64(h1)/float64(k1)) > tol {
		return 0, 0, false
	}
	if neg {
		h1 = -h1
	}
	return reduceOK(h1, k1)
}

func reduceOK(num, den int64) (int64, int64, bool) {
	num, den = reduce(num, den)
	return num, den, true
}
