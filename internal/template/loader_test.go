package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTemplate = `{
	"id": "lin-eq-1",
	"question": "Solve {a}x + {b} = 0",
	"answer": "{(-b)/(a)}",
	"objective": "linear-equations",
	"difficulty": "easy",
	"variables": {
		"a": {"min": 1, "max": 9, "exclude": [0]},
		"b": {"min": -9, "max": 9, "exclude": [0, "a"]},
		"k": {"values": [2, 4, 8]},
		"c": {"value": 3.5},
		"s": {"formula": "a + b", "display": "fraction"}
	}
}`

func TestParse_SingleTemplate(t *testing.T) {
	tpls, err := Parse([]byte(sampleTemplate))
	require.NoError(t, err)
	require.Len(t, tpls, 1)

	tpl := tpls[0]
	assert.Equal(t, "lin-eq-1", tpl.ID)
	assert.Equal(t, "Solve {a}x + {b} = 0", tpl.Question)
	assert.Equal(t, "{(-b)/(a)}", tpl.Answer)
	require.Len(t, tpl.Variables, 5)

	a := tpl.Variables["a"]
	require.Equal(t, KindRange, a.Kind)
	assert.Equal(t, int64(1), a.Min)
	assert.Equal(t, int64(9), a.Max)
	require.Len(t, a.Exclude, 1)
	assert.False(t, a.Exclude[0].IsRef)
	assert.Equal(t, 0.0, a.Exclude[0].Value)

	b := tpl.Variables["b"]
	require.Len(t, b.Exclude, 2)
	assert.True(t, b.Exclude[1].IsRef)
	assert.Equal(t, "a", b.Exclude[1].Ref)

	assert.Equal(t, KindEnumerated, tpl.Variables["k"].Kind)
	assert.Equal(t, []float64{2, 4, 8}, tpl.Variables["k"].Values)

	assert.Equal(t, KindLiteral, tpl.Variables["c"].Kind)
	assert.Equal(t, 3.5, tpl.Variables["c"].Value)

	s := tpl.Variables["s"]
	assert.Equal(t, KindFormula, s.Kind)
	assert.Equal(t, "a + b", s.Formula)
	assert.True(t, s.DisplayAsMath)
}

func TestParse_LegacyAnswerAliases(t *testing.T) {
	cases := []struct {
		doc  string
		want string
	}{
		{`{"id":"t","question":"q","answer":"A"}`, "A"},
		// Legacy aliases held bare expressions; they get wrapped so the
		// render pipeline evaluates them.
		{`{"id":"t","question":"q","answerExpression":"a+b"}`, "{{a+b}}"},
		{`{"id":"t","question":"q","answerFormula":"a*b"}`, "{{a*b}}"},
		// An alias that already carries braces is left alone.
		{`{"id":"t","question":"q","answerExpression":"{{a+b}}"}`, "{{a+b}}"},
		{`{"id":"t","question":"q","answerExpression":"{a} and {b}"}`, "{a} and {b}"},
		// answer wins over both legacy aliases, verbatim.
		{`{"id":"t","question":"q","answer":"A","answerExpression":"B","answerFormula":"C"}`, "A"},
		{`{"id":"t","question":"q","answerExpression":"a+b","answerFormula":"a*b"}`, "{{a+b}}"},
	}
	for _, c := range cases {
		tpls, err := Parse([]byte(c.doc))
		require.NoError(t, err, c.doc)
		assert.Equal(t, c.want, tpls[0].Answer, c.doc)
	}
}

func TestParse_SchemaRejections(t *testing.T) {
	bad := []string{
		`{"question":"missing id"}`,
		`{"id":"t"}`,
		`{"id":"t","question":"q","bogus":1}`,
		`{"id":"t","question":"q","variables":{"a":{"display":"nope"}}}`,
		`not json`,
	}
	for _, doc := range bad {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestParse_ConstraintClassification(t *testing.T) {
	// A constraint with no strategy fields fails decode.
	_, err := Parse([]byte(`{"id":"t","question":"q","variables":{"a":{"default":1}}}`))
	assert.Error(t, err)

	// Inverted range bounds fail decode.
	_, err = Parse([]byte(`{"id":"t","question":"q","variables":{"a":{"min":5,"max":1}}}`))
	assert.Error(t, err)

	// A span wider than int64 would overflow the draw arithmetic.
	_, err = Parse([]byte(`{"id":"t","question":"q","variables":{"a":{"min":-9000000000000000000,"max":9000000000000000000}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too wide")
}

func TestParse_FormatVersionGate(t *testing.T) {
	ok := []string{"", "1.0.0", "v1.2.3", "1"}
	for _, v := range ok {
		doc := `{"id":"t","question":"q"`
		if v != "" {
			doc += `,"formatVersion":"` + v + `"`
		}
		doc += `}`
		_, err := Parse([]byte(doc))
		assert.NoError(t, err, "formatVersion %q", v)
	}

	_, err := Parse([]byte(`{"id":"t","question":"q","formatVersion":"2.0.0"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")

	_, err = Parse([]byte(`{"id":"t","question":"q","formatVersion":"banana"}`))
	assert.Error(t, err)
}

func TestParse_BankDocument(t *testing.T) {
	doc := `{"templates":[
		{"id":"t1","question":"q1"},
		{"id":"t2","question":"q2"}
	]}`
	tpls, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, tpls, 2)
	assert.Equal(t, "t1", tpls[0].ID)
	assert.Equal(t, "t2", tpls[1].ID)
}

func TestLoadFile_SampleBank(t *testing.T) {
	tpls, err := LoadFile(filepath.Join("..", "..", "testdata", "arithmetic.json"))
	require.NoError(t, err)
	require.NotEmpty(t, tpls)
	for _, tpl := range tpls {
		assert.Empty(t, Lint(tpl), "template %s", tpl.ID)
	}
}

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("a.json", `{"id":"t1","question":"q1"}`)
	write("b.json", `{"templates":[{"id":"t2","question":"q2"}]}`)
	write("ignored.txt", `not a template`)

	bank, err := LoadBank(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, bank.Len())
	assert.Equal(t, []string{"t1", "t2"}, bank.IDs())

	_, ok := bank.Get("t2")
	assert.True(t, ok)

	write("c.json", `{"id":"t1","question":"duplicate"}`)
	_, err = LoadBank(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template id")
}
