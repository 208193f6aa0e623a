package generate

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizsmith/internal/template"
)

func rangeC(min, max int64) *template.Constraint {
	return &template.Constraint{Kind: template.KindRange, Min: min, Max: max}
}

func formulaC(expr string) *template.Constraint {
	return &template.Constraint{Kind: template.KindFormula, Formula: expr}
}

func TestResolve_EndToEnd(t *testing.T) {
	tpl := &template.Template{
		ID:       "add-1",
		Question: "Compute {a}+{b}",
		Answer:   "{{a+b}}",
		Variables: map[string]*template.Constraint{
			"a": rangeC(2, 2),
			"b": rangeC(3, 3),
		},
	}
	g := NewSeeded(1, nil)
	inst, diags := g.Instantiate(tpl)

	require.Empty(t, diags)
	require.Equal(t, template.NumericScope{"a": 2, "b": 3}, inst.Numeric)
	assert.Equal(t, "Compute 2+3", inst.Question)
	assert.Equal(t, "5", inst.Answer)
	assert.NotEmpty(t, inst.ID)
	assert.False(t, inst.CreatedAt.IsZero())
}

func TestResolve_FractionAnswer(t *testing.T) {
	tpl := &template.Template{
		ID:       "frac-1",
		Question: "Divide {a} by {b}",
		Answer:   "{(a)/(b)}",
		Variables: map[string]*template.Constraint{
			"a": rangeC(3, 3),
			"b": rangeC(4, 4),
		},
	}
	inst, _ := NewSeeded(1, nil).Instantiate(tpl)
	assert.Equal(t, "3/4", inst.Answer)
}

func TestResolve_DeterministicUnderSeed(t *testing.T) {
	tpl := &template.Template{
		ID: "det-1",
		Variables: map[string]*template.Constraint{
			"a": rangeC(1, 100),
			"b": rangeC(1, 100),
			"c": {Kind: template.KindEnumerated, Values: []float64{2, 4, 8, 16}},
			"d": formulaC("a*b + c"),
		},
	}
	r1 := NewSeeded(42, nil).Resolve(tpl)
	r2 := NewSeeded(42, nil).Resolve(tpl)
	require.Equal(t, r1.Numeric, r2.Numeric)
	require.Equal(t, r1.Display, r2.Display)

	r3 := NewSeeded(43, nil).Resolve(tpl)
	assert.NotEqual(t, r1.Numeric, r3.Numeric, "different seeds should diverge")
}

func TestResolve_FormulaDependencyOrderIrrelevant(t *testing.T) {
	// c depends on b depends on a; declaration order must not matter, and
	// name order here is adversarial (c sorts before its dependency names
	// resolve in a single sweep only if iteration repeats).
	tpl := &template.Template{
		ID: "dep-1",
		Variables: map[string]*template.Constraint{
			"a": formulaC("z + 1"),
			"b": formulaC("a * 2"),
			"z": rangeC(5, 5),
		},
	}
	res := NewSeeded(7, nil).Resolve(tpl)
	require.Empty(t, res.Diags)
	assert.Equal(t, 6.0, res.Numeric["a"])
	assert.Equal(t, 12.0, res.Numeric["b"])
}

func TestResolve_CycleGetsSentinel(t *testing.T) {
	tpl := &template.Template{
		ID:       "cycle-1",
		Question: "c is {c}, d is {d}",
		Answer:   "{c}",
		Variables: map[string]*template.Constraint{
			"c": formulaC("d+1"),
			"d": formulaC("c+1"),
		},
	}
	g := NewSeeded(1, nil)
	res := g.Resolve(tpl)

	assert.True(t, math.IsNaN(res.Numeric["c"]))
	assert.True(t, math.IsNaN(res.Numeric["d"]))
	assert.Equal(t, FailureMarker, res.Display["c"])
	assert.Equal(t, FailureMarker, res.Display["d"])

	var kinds []DiagKind
	for _, d := range res.Diags {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, DiagUnresolvedFormula)

	// The render must carry the visible failure marker, not a blank.
	inst, _ := g.Instantiate(tpl)
	assert.True(t, strings.Contains(inst.Question, FailureMarker))

	// The instance must still marshal: the NaN sentinel encodes as null.
	data, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"c":null`)
	assert.Contains(t, string(data), `"c":"`+FailureMarker+`"`)
}

func TestResolve_BothScopesShareKeySet(t *testing.T) {
	tpl := &template.Template{
		ID: "keys-1",
		Variables: map[string]*template.Constraint{
			"a":   rangeC(1, 5),
			"bad": formulaC("nothere * 2"),
			"lit": {Kind: template.KindLiteral, Value: 9},
		},
	}
	res := NewSeeded(3, nil).Resolve(tpl)
	require.Len(t, res.Numeric, 3)
	require.Len(t, res.Display, 3)
	for name := range tpl.Variables {
		_, okN := res.Numeric[name]
		_, okD := res.Display[name]
		assert.True(t, okN, "numeric scope missing %q", name)
		assert.True(t, okD, "display scope missing %q", name)
	}
}

func TestDraw_ExclusionRedraw(t *testing.T) {
	tpl := &template.Template{
		ID: "excl-1",
		Variables: map[string]*template.Constraint{
			"a": {
				Kind: template.KindRange, Min: 0, Max: 1,
				Exclude: []template.Exclusion{{Value: 0}},
			},
		},
	}
	for seed := int64(0); seed < 20; seed++ {
		res := NewSeeded(seed, nil).Resolve(tpl)
		if res.Numeric["a"] != 1 {
			t.Fatalf("seed %d: drew excluded value, got %v", seed, res.Numeric["a"])
		}
	}
}

func TestDraw_ExhaustedFallsBackToDefault(t *testing.T) {
	def := 99.0
	tpl := &template.Template{
		ID: "excl-2",
		Variables: map[string]*template.Constraint{
			"a": {
				Kind: template.KindRange, Min: 5, Max: 5,
				Exclude: []template.Exclusion{{Value: 5}},
				Default: &def,
			},
		},
	}
	res := NewSeeded(1, nil).Resolve(tpl)
	assert.Equal(t, 99.0, res.Numeric["a"])
	require.Len(t, res.Diags, 1)
	assert.Equal(t, DiagExhaustedConstraint, res.Diags[0].Kind)
	assert.Equal(t, "a", res.Diags[0].Variable)
}

func TestDraw_ExclusionByReference(t *testing.T) {
	// b must never equal a; a resolves first (sorted order).
	tpl := &template.Template{
		ID: "excl-3",
		Variables: map[string]*template.Constraint{
			"a": rangeC(1, 3),
			"b": {
				Kind: template.KindRange, Min: 1, Max: 3,
				Exclude: []template.Exclusion{{Ref: "a", IsRef: true}},
			},
		},
	}
	for seed := int64(0); seed < 50; seed++ {
		res := NewSeeded(seed, nil).Resolve(tpl)
		if res.Numeric["a"] == res.Numeric["b"] {
			t.Fatalf("seed %d: b drew the excluded reference value %v", seed, res.Numeric["a"])
		}
	}
}

func TestResolve_FormulaDisplayUsesFormatter(t *testing.T) {
	tpl := &template.Template{
		ID: "disp-1",
		Variables: map[string]*template.Constraint{
			"a": rangeC(1, 1),
			"b": rangeC(3, 3),
			"q": formulaC("a/b"),
		},
	}
	res := NewSeeded(1, nil).Resolve(tpl)
	assert.Equal(t, "1/3", res.Display["q"], "formula display should render as an exact fraction")
	assert.InDelta(t, 1.0/3.0, res.Numeric["q"], 1e-15)
}

func TestDeriveSeed_Stable(t *testing.T) {
	a := DeriveSeed("s", "tpl", "v1", "salt")
	b := DeriveSeed("s", "tpl", "v1", "salt")
	require.Equal(t, a, b)
	assert.NotEqual(t, a, DeriveSeed("s2", "tpl", "v1", "salt"))
	assert.GreaterOrEqual(t, a, int64(0))
}
