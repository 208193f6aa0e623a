// Package render substitutes resolved variables into question and answer
// text and evaluates inline expressions. The pass order is load-bearing:
// formatted placeholders resolve before plain ones (so options are not
// mistaken for literal text), expressions evaluate after substitution, and
// exponent normalization runs last so it sees the final digits.
package render

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/quizsmith/internal/eval"
	"github.com/abhisek/quizsmith/internal/numfmt"
)

var (
	// {name|opt} / {name|opt1|opt2}
	formattedRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)((?:\|[A-Za-z0-9:.]+)+)\}`)

	// {{expr}} — forced evaluation, no markup-escape check.
	doubleBraceRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

	// {expr} — anything brace-delimited that survived substitution.
	inlineRe = regexp.MustCompile(`\{([^{}]+)\}`)

	// <base>^<digits> with the base directly adjacent; already-braced
	// exponents (^{) never match because { is not a digit.
	exponentRe = regexp.MustCompile(`([0-9A-Za-z\)\]])\^(-?[0-9]+)`)
)

// Renderer resolves placeholder-bearing text against a pair of scopes.
type Renderer struct {
	fmtr *numfmt.Formatter
	log  *zap.Logger
}

// New returns a Renderer formatting inline results with fmtr and logging
// expression diagnostics to log. A nil log disables logging.
func New(fmtr *numfmt.Formatter, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{fmtr: fmtr, log: log}
}

// Render substitutes placeholders and evaluates inline expressions in text.
// Failures never escape: an unknown placeholder or a broken expression stays
// in the output verbatim so it is visibly detectable, and a diagnostic goes
// to the log.
func (r *Renderer) Render(text string, numeric map[string]float64, display map[string]string) string {
	text = r.substituteFormatted(text, numeric, display)
	text = substitutePlain(text, display)
	// Double-brace expressions are consumed before single-brace scanning so
	// the inline pass never half-eats their outer brace pair.
	text = r.evalDoubleBrace(text, numeric)
	text = r.evalInline(text, numeric)
	return normalizeExponents(text)
}

// substituteFormatted handles {name|opt…} placeholders. Unknown variable
// names pass through untouched; a variable whose value is the NaN failure
// sentinel renders its display string (the failure marker) rather than
// NaN text dressed up by the options.
func (r *Renderer) substituteFormatted(text string, numeric map[string]float64, display map[string]string) string {
	return formattedRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := formattedRe.FindStringSubmatch(m)
		name := sub[1]
		v, ok := numeric[name]
		if !ok {
			return m
		}
		if math.IsNaN(v) {
			if d, ok := display[name]; ok {
				return d
			}
			return m
		}
		opts := strings.Split(strings.TrimPrefix(sub[2], "|"), "|")
		return r.applyOptions(v, opts)
	})
}

// applyOptions renders v under the recognized display options. Unrecognized
// options are ignored rather than failing the placeholder.
func (r *Renderer) applyOptions(v float64, opts []string) string {
	var (
		sign, coef, signedCoef, percent, fraction bool

		decimals = -1
	)
	for _, o := range opts {
		switch {
		case o == "sign":
			sign = true
		case o == "coef":
			coef = true
		case o == "signedCoef":
			signedCoef = true
		case o == "percent":
			percent = true
		case o == "fraction":
			fraction = true
		case strings.HasPrefix(o, "decimal:"):
			if n, err := strconv.Atoi(strings.TrimPrefix(o, "decimal:")); err == nil && n >= 0 {
				decimals = n
			}
		}
	}

	if fraction {
		s := r.fmtr.ForceFraction(v)
		if sign && v >= 0 {
			s = "+" + s
		}
		return s
	}

	if percent {
		v *= 100
	}

	base := plainNumber(v, decimals)
	if percent {
		base += "%"
	}

	switch {
	case signedCoef:
		switch {
		case v == 0:
			return ""
		case v == 1:
			return "+"
		case v == -1:
			return "-"
		case v > 0:
			return "+" + base
		default:
			return base
		}
	case coef:
		switch v {
		case 1:
			return ""
		case -1:
			return "-"
		default:
			return base
		}
	case sign:
		if v >= 0 {
			return "+" + base
		}
		return base
	}
	return base
}

// plainNumber stringifies v, honoring a fixed decimal width when requested
// and the value is non-integral.
func plainNumber(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if decimals >= 0 && v != math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// substitutePlain replaces {name} placeholders with display-scope strings.
// Longer names substitute first so shared prefixes cannot corrupt each other
// (x1 before x).
func substitutePlain(text string, display map[string]string) string {
	names := make([]string, 0, len(display))
	for name := range display {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		text = strings.ReplaceAll(text, "{"+name+"}", display[name])
	}
	return text
}

// evalDoubleBrace evaluates {{expr}} unconditionally: the author wants a
// number even if the expression text looks like markup.
func (r *Renderer) evalDoubleBrace(text string, numeric map[string]float64) string {
	return doubleBraceRe.ReplaceAllStringFunc(text, func(m string) string {
		expr := doubleBraceRe.FindStringSubmatch(m)[1]
		v, err := eval.Evaluate(expr, numeric)
		if err != nil {
			r.log.Warn("inline expression failed", zap.String("expr", expr), zap.Error(err))
			return m
		}
		return r.fmtr.FormatExpr(v, expr, numeric)
	})
}

// markupTailRe matches text that ends where a markup argument begins: a
// command like \frac or \sqrt, a closing argument brace, or an exponent
// caret. A brace group in that position is typesetting, not an expression.
var markupTailRe = regexp.MustCompile(`(\\[A-Za-z]+|\}|\^)$`)

// evalInline evaluates remaining {expr} content, unless the content carries
// markup escapes or the group sits in markup-argument position, in which
// case it passes through as literal markup.
func (r *Renderer) evalInline(text string, numeric map[string]float64) string {
	var b strings.Builder
	last := 0
	for _, loc := range inlineRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		expr := text[loc[2]:loc[3]]
		b.WriteString(text[last:start])
		last = end

		if eval.ContainsMarkup(expr) || markupTailRe.MatchString(text[:start]) {
			b.WriteString(text[start:end])
			continue
		}
		v, err := eval.Evaluate(expr, numeric)
		if err != nil {
			r.log.Warn("inline expression failed", zap.String("expr", expr), zap.Error(err))
			b.WriteString(text[start:end])
			continue
		}
		b.WriteString(r.fmtr.FormatExpr(v, expr, numeric))
	}
	b.WriteString(text[last:])
	return b.String()
}

// normalizeExponents rewrites adjacent exponents into brace-delimited form
// for downstream math typesetting: x^12 -> x^{12}, 5^-2 -> 5^{-2}. Purely
// cosmetic; evaluated results are never affected because this runs last.
func normalizeExponents(text string) string {
	return exponentRe.ReplaceAllString(text, "${1}^{${2}}")
}
