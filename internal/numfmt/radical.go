package numfmt

import (
	"fmt"
	"math"
)

const (
	radicandMax    = 100  // largest radicand searched
	radicalCoefDen = 100  // largest coefficient denominator searched
	radicalTol     = 1e-10
)

// asRadical tries to express v as (p/q)*sqrt(m) for a small radicand m and a
// small fraction p/q. It returns the simplified radical markup, factoring
// perfect-square factors of m into the coefficient. A reduced radicand of 1
// means v is plainly rational, which is not this cascade stage's business, so
// that case reports no match.
func asRadical(v float64) (string, bool) {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	for m := int64(2); m <= radicandMax; m++ {
		root := math.Sqrt(float64(m))
		r := v / root
		for q := int64(1); q <= radicalCoefDen; q++ {
			p := int64(math.Round(r * float64(q)))
			if p == 0 {
				continue
			}
			if math.Abs(v-float64(p)/float64(q)*root) > radicalTol {
				continue
			}
			num, den, rad := simplifyRadical(p, q, m)
			if rad == 1 {
				// v is rational; leave it to the fraction stage.
				return "", false
			}
			return radicalMarkup(num, den, rad), true
		}
	}
	return "", false
}

// simplifyRadical pulls perfect-square factors of m out of the radical into
// the coefficient and reduces the coefficient fraction.
func simplifyRadical(num, den, m int64) (int64, int64, int64) {
	for k := int64(10); k >= 2; k-- {
		for m%(k*k) == 0 {
			m /= k * k
			num *= k
		}
	}
	num, den = reduce(num, den)
	return num, den, m
}

// radicalMarkup renders coefficient*sqrt(rad). The coefficient is omitted
// when its magnitude is 1 (keeping a bare minus sign), and rendered in \frac
// markup when it is a non-integer fraction.
func radicalMarkup(num, den, rad int64) string {
	root := fmt.Sprintf(`\sqrt{%d}`, rad)
	if den == 1 {
		switch num {
		case 1:
			return root
		case -1:
			return "-" + root
		default:
			return fmt.Sprintf("%d%s", num, root)
		}
	}
	sign := ""
	if num < 0 {
		sign = "-"
		num = -num
	}
	return fmt.Sprintf(`%s\frac{%d}{%d}%s`, sign, num, den, root)
}
