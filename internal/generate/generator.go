// Package generate resolves a template's variable constraints into concrete
// values and assembles question instances.
//
// Resolution runs in two passes: independent draws first (literals, ranges,
// enumerations), then formula variables iterated to a fixed point so formulas
// may reference other formulas in any declaration order. Every call works on
// fresh scopes; nothing is shared between calls except the injected random
// source.
package generate

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/quizsmith/internal/eval"
	"github.com/abhisek/quizsmith/internal/numfmt"
	"github.com/abhisek/quizsmith/internal/render"
	"github.com/abhisek/quizsmith/internal/template"
)

const (
	// maxDrawAttempts bounds redraws against an exclusion list before the
	// constraint falls back to its declared default.
	maxDrawAttempts = 50

	// maxFormulaSweeps bounds fixed-point iteration over formula variables.
	maxFormulaSweeps = 20

	// FailureMarker is the display-scope string for a variable whose
	// formula could not be resolved. It is deliberately conspicuous so a
	// human reviewing generated questions can spot broken templates.
	FailureMarker = "?"
)

// DiagKind classifies a generation diagnostic.
type DiagKind int

const (
	// DiagExhaustedConstraint means a Range/Enumerated draw could not
	// satisfy its exclusion list within the attempt bound.
	DiagExhaustedConstraint DiagKind = iota

	// DiagUnresolvedFormula means a formula variable did not resolve
	// within the sweep bound (cyclic or otherwise unsatisfiable).
	DiagUnresolvedFormula
)

func (k DiagKind) String() string {
	switch k {
	case DiagExhaustedConstraint:
		return "exhausted-constraint"
	case DiagUnresolvedFormula:
		return "unresolved-formula"
	default:
		return "unknown"
	}
}

// Diagnostic records a locally-recovered generation problem. Diagnostics
// never abort resolution; the affected variable gets a fallback or sentinel.
type Diagnostic struct {
	Variable string
	Kind     DiagKind
	Reason   string
}

// Resolution is the outcome of resolving one template: the numeric scope
// used for expression evaluation, the parallel display scope used for text
// substitution, and any diagnostics. Both scopes share the template's
// variable key set.
type Resolution struct {
	Numeric map[string]float64
	Display map[string]string
	Diags   []Diagnostic
}

// Generator resolves templates into instances. Construct with New; the
// random source is injected so callers needing determinism can seed it.
type Generator struct {
	rng  *rand.Rand
	fmtr *numfmt.Formatter
	rndr *render.Renderer
	log  *zap.Logger
}

// New returns a Generator drawing from rng and logging diagnostics to log.
// A nil log disables diagnostic logging.
func New(rng *rand.Rand, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	fmtr := numfmt.New()
	return &Generator{
		rng:  rng,
		fmtr: fmtr,
		rndr: render.New(fmtr, log),
		log:  log,
	}
}

// NewSeeded returns a Generator with a rand source seeded from seed.
func NewSeeded(seed int64, log *zap.Logger) *Generator {
	return New(rand.New(rand.NewSource(seed)), log)
}

// WithFormatter replaces the generator's number formatter. The renderer is
// rebuilt so inline expressions format through the same instance.
func (g *Generator) WithFormatter(f *numfmt.Formatter) *Generator {
	g.fmtr = f
	g.rndr = render.New(f, g.log)
	return g
}

// Resolve produces the numeric and display scopes for tpl. Every variable in
// tpl.Variables appears in both scopes afterwards; unresolvable formulas get
// NaN and the failure marker instead of being omitted.
func (g *Generator) Resolve(tpl *template.Template) *Resolution {
	res := &Resolution{
		Numeric: make(map[string]float64, len(tpl.Variables)),
		Display: make(map[string]string, len(tpl.Variables)),
	}

	// Variable names are processed in sorted order: Go map iteration order
	// is random, and draws must be reproducible under a fixed seed.
	names := make([]string, 0, len(tpl.Variables))
	for name := range tpl.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	// Pass 1: independent draws.
	var formulas []string
	for _, name := range names {
		c := tpl.Variables[name]
		if c.Kind == template.KindFormula {
			formulas = append(formulas, name)
			continue
		}
		res.Numeric[name] = g.draw(tpl.ID, name, c, res)
	}

	// Pass 2: formula fixed point. Each sweep retries every unresolved
	// formula; a sweep that resolves nothing new means the remainder is
	// deadlocked (cyclic or referencing unknowns), at which point the
	// leftovers are forced to the failure sentinel.
	unresolved := formulas
	for sweep := 0; sweep < maxFormulaSweeps && len(unresolved) > 0; sweep++ {
		var next []string
		for _, name := range unresolved {
			c := tpl.Variables[name]
			v, err := eval.Evaluate(c.Formula, res.Numeric)
			if err != nil {
				next = append(next, name)
				continue
			}
			res.Numeric[name] = v
		}
		if len(next) == len(unresolved) {
			unresolved = next
			break
		}
		unresolved = next
	}
	for _, name := range unresolved {
		res.Numeric[name] = math.NaN()
		g.diag(res, tpl.ID, Diagnostic{
			Variable: name,
			Kind:     DiagUnresolvedFormula,
			Reason:   "formula did not resolve: " + tpl.Variables[name].Formula,
		})
	}

	// Display scope: formula variables and math-display variables go
	// through the formatter so computed answers render as fractions or
	// radicals; everything else stringifies plainly.
	for _, name := range names {
		c := tpl.Variables[name]
		v := res.Numeric[name]
		switch {
		case math.IsNaN(v) && c.Kind == template.KindFormula:
			res.Display[name] = FailureMarker
		case c.Kind == template.KindFormula:
			res.Display[name] = g.fmtr.FormatExpr(v, c.Formula, res.Numeric)
		case c.DisplayAsMath:
			res.Display[name] = g.fmtr.Format(v)
		default:
			res.Display[name] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return res
}

// draw produces a value for a non-formula constraint, honoring the exclusion
// list with bounded redraws.
func (g *Generator) draw(tplID, name string, c *template.Constraint, res *Resolution) float64 {
	if c.Kind == template.KindLiteral {
		return c.Value
	}
	for attempt := 0; attempt < maxDrawAttempts; attempt++ {
		var v float64
		switch c.Kind {
		case template.KindRange:
			v = float64(c.Min + g.rng.Int63n(c.Max-c.Min+1))
		case template.KindEnumerated:
			v = c.Values[g.rng.Intn(len(c.Values))]
		}
		if !excluded(v, c.Exclude, res.Numeric) {
			return v
		}
	}
	fallback := 0.0
	if c.Default != nil {
		fallback = *c.Default
	}
	g.diag(res, tplID, Diagnostic{
		Variable: name,
		Kind:     DiagExhaustedConstraint,
		Reason:   "exclusion list not satisfiable within " + strconv.Itoa(maxDrawAttempts) + " attempts",
	})
	return fallback
}

// excluded reports whether v matches any exclusion entry. A reference entry
// only excludes when the referenced variable is already resolved and equal.
func excluded(v float64, excl []template.Exclusion, numeric map[string]float64) bool {
	for _, e := range excl {
		if e.IsRef {
			if rv, ok := numeric[e.Ref]; ok && rv == v {
				return true
			}
			continue
		}
		if e.Value == v {
			return true
		}
	}
	return false
}

func (g *Generator) diag(res *Resolution, tplID string, d Diagnostic) {
	res.Diags = append(res.Diags, d)
	g.log.Warn("generation diagnostic",
		zap.String("template", tplID),
		zap.String("variable", d.Variable),
		zap.Stringer("kind", d.Kind),
		zap.String("reason", d.Reason),
	)
}

// Instantiate resolves tpl and renders its question and answer text into an
// immutable Instance. The returned diagnostics describe any locally-recovered
// problems from this resolution.
func (g *Generator) Instantiate(tpl *template.Template) (*template.Instance, []Diagnostic) {
	res := g.Resolve(tpl)
	return &template.Instance{
		ID:         uuid.NewString(),
		TemplateID: tpl.ID,
		Question:   g.rndr.Render(tpl.Question, res.Numeric, res.Display),
		Answer:     g.rndr.Render(tpl.Answer, res.Numeric, res.Display),
		Objective:  tpl.Objective,
		Difficulty: tpl.Difficulty,
		CreatedAt:  time.Now(),
		Numeric:    template.NumericScope(res.Numeric),
		Display:    res.Display,
		Draw:       tpl.Draw,
	}, res.Diags
}
