package numfmt

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestFormat_Integers(t *testing.T) {
	f := New()
	cases := map[float64]string{
		0:     "0",
		5:     "5",
		-17:   "-17",
		1e6:   "1000000",
		623.0: "623",
	}
	for v, want := range cases {
		if got := f.Format(v); got != want {
			t.Errorf("Format(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestFormat_NonFinitePassThrough(t *testing.T) {
	f := New()
	if got := f.Format(math.NaN()); got != "NaN" {
		t.Errorf("Format(NaN) = %q", got)
	}
	if got := f.Format(math.Inf(1)); got != "+Inf" {
		t.Errorf("Format(+Inf) = %q", got)
	}
}

func TestFormatExpr_ExactDivision(t *testing.T) {
	f := New()
	scope := map[string]float64{"a": 3, "b": 4}

	cases := []struct {
		expr string
		val  float64
		want string
	}{
		{"(a)/(b)", 0.75, "3/4"},
		{"a/b", 0.75, "3/4"},
		{"6/8", 0.75, "3/4"},       // gcd reduced
		{"6/3", 2, "2"},            // integer short-circuits first
		{"(a+1)/(b*2)", 0.5, "1/2"},
		{"-6/8", -0.75, "-3/4"},    // sign on numerator
		{"6/-8", -0.75, "-3/4"},
	}
	for _, c := range cases {
		if got := f.FormatExpr(c.val, c.expr, scope); got != c.want {
			t.Errorf("FormatExpr(%v, %q) = %q, want %q", c.val, c.expr, got, c.want)
		}
	}
}

// An expression whose single top-level slash is not its top-level operator
// must never display a fraction that differs from the value.
func TestFormatExpr_RejectsNonDivisionSlash(t *testing.T) {
	f := New()
	cases := []struct {
		expr string
		val  float64
		want string
	}{
		{"5/2*3", 7.5, "15/2"}, // split halves say 5/6; value says otherwise
		{"1+1/2", 1.5, "3/2"},
		{"1/2+1", 1.5, "3/2"},
		{"10/4-1", 1.5, "3/2"},
	}
	for _, c := range cases {
		if got := f.FormatExpr(c.val, c.expr, nil); got != c.want {
			t.Errorf("FormatExpr(%v, %q) = %q, want %q", c.val, c.expr, got, c.want)
		}
	}
}

// Fraction results must be in lowest terms and round-trip to the original
// ratio.
func TestFormat_FractionRoundTrip(t *testing.T) {
	f := New()
	pairs := [][2]int64{{1, 3}, {2, 6}, {7, 12}, {-5, 8}, {10, 4}, {9, 27}, {123, 999}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		got := f.Format(float64(a) / float64(b))
		var n, d int64 = 0, 1
		if strings.Contains(got, "/") {
			parts := strings.SplitN(got, "/", 2)
			n, _ = strconv.ParseInt(parts[0], 10, 64)
			d, _ = strconv.ParseInt(parts[1], 10, 64)
		} else {
			n, _ = strconv.ParseInt(got, 10, 64)
		}
		if d <= 0 {
			t.Errorf("Format(%d/%d) = %q: non-positive denominator", a, b, got)
			continue
		}
		if n*b != a*d {
			t.Errorf("Format(%d/%d) = %q: does not round-trip", a, b, got)
		}
		if g := gcd(abs(n), d); g != 1 {
			t.Errorf("Format(%d/%d) = %q: not in lowest terms", a, b, got)
		}
	}
}

func TestFormat_Radicals(t *testing.T) {
	f := New()
	cases := []struct {
		val  float64
		want string
	}{
		{math.Sqrt(2), `\sqrt{2}`},
		{math.Sqrt(8), `2\sqrt{2}`},
		{math.Sqrt(75), `5\sqrt{3}`},
		{3 * math.Sqrt(5), `3\sqrt{5}`},
		{-math.Sqrt(3), `-\sqrt{3}`},
		{math.Sqrt(3) / 2, `\frac{1}{2}\sqrt{3}`},
		{-2 * math.Sqrt(7), `-2\sqrt{7}`},
	}
	for _, c := range cases {
		if got := f.Format(c.val); got != c.want {
			t.Errorf("Format(%v) = %q, want %q", c.val, got, c.want)
		}
	}
}

// For non-square n, the squared-and-reduced radical must equal n again.
func TestFormat_RadicalProperty(t *testing.T) {
	f := New()
	for n := int64(2); n <= 99; n++ {
		root := math.Sqrt(float64(n))
		if root == math.Trunc(root) {
			continue // perfect square
		}
		got := f.Format(root)
		if !strings.Contains(got, `\sqrt{`) {
			t.Errorf("Format(sqrt(%d)) = %q: expected radical markup", n, got)
			continue
		}
		coef, rad := parseRadical(t, got)
		if back := coef * coef * float64(rad); math.Abs(back-float64(n)) > 1e-9 {
			t.Errorf("Format(sqrt(%d)) = %q: squares back to %v", n, got, back)
		}
	}
}

func parseRadical(t *testing.T, s string) (float64, int64) {
	t.Helper()
	i := strings.Index(s, `\sqrt{`)
	radStr := strings.TrimSuffix(s[i+len(`\sqrt{`):], "}")
	rad, err := strconv.ParseInt(radStr, 10, 64)
	if err != nil {
		t.Fatalf("bad radicand in %q: %v", s, err)
	}
	coefStr := s[:i]
	switch coefStr {
	case "":
		return 1, rad
	case "-":
		return -1, rad
	}
	coef, err := strconv.ParseFloat(coefStr, 64)
	if err != nil {
		t.Fatalf("bad coefficient in %q: %v", s, err)
	}
	return coef, rad
}

func TestFormat_DecimalFallback(t *testing.T) {
	f := New()
	// An 8-digit decimal with trailing zeros trimmed; value chosen to have
	// no small rational or radical form.
	got := f.Format(0.1234567890123)
	if got != "0.12345679" {
		t.Errorf("Format = %q, want %q", got, "0.12345679")
	}
	if got := f.Format(2.5); got != "5/2" {
		// 2.5 has an exact small rational form.
		t.Errorf("Format(2.5) = %q, want 5/2", got)
	}
}

func TestForceFraction(t *testing.T) {
	f := New()
	if got := f.ForceFraction(5); got != `\frac{5}{1}` {
		t.Errorf("ForceFraction(5) = %q", got)
	}
	if got := f.ForceFraction(0.75); got != `\frac{3}{4}` {
		t.Errorf("ForceFraction(0.75) = %q", got)
	}
	if got := f.ForceFraction(-0.5); got != `-\frac{1}{2}` {
		t.Errorf("ForceFraction(-0.5) = %q", got)
	}
}

func TestSplitTopLevelDivision(t *testing.T) {
	if _, _, ok := splitTopLevelDivision("a/b/c"); ok {
		t.Error("two top-level slashes should not split")
	}
	if _, _, ok := splitTopLevelDivision("(a/b)"); ok {
		t.Error("slash inside parens is not top-level")
	}
	n, d, ok := splitTopLevelDivision("(a+1) / (b-2)")
	if !ok || n != "(a+1)" || d != "(b-2)" {
		t.Errorf("split = %q, %q, %v", n, d, ok)
	}
}
