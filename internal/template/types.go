// Package template defines the question-template data model: the immutable
// template loaded from JSON, the closed set of variable constraints, and the
// resolved question instance handed back to callers.
package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// ConstraintKind identifies the variable-generation strategy of a Constraint.
type ConstraintKind int

const (
	// KindLiteral is a fixed numeric value.
	KindLiteral ConstraintKind = iota

	// KindRange draws an integer uniformly from [Min, Max].
	KindRange

	// KindEnumerated picks one of Values uniformly at random.
	KindEnumerated

	// KindFormula computes the value from other variables via an expression.
	KindFormula
)

func (k ConstraintKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRange:
		return "range"
	case KindEnumerated:
		return "enumerated"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Exclusion is one entry of a Range/Enumerated exclusion list: either a
// literal value or a reference to another variable, excluded only when the
// drawn value matches the referenced variable's resolved value.
type Exclusion struct {
	Value float64
	Ref   string
	IsRef bool
}

// Constraint describes how one template variable gets its value. Exactly one
// strategy applies, indicated by Kind; the remaining strategy fields are
// meaningful only for their own kind.
type Constraint struct {
	Kind ConstraintKind

	// Value is the fixed value for KindLiteral.
	Value float64

	// Min and Max are the inclusive integer bounds for KindRange.
	Min, Max int64

	// Values is the candidate list for KindEnumerated.
	Values []float64

	// Formula is the expression for KindFormula, referencing other
	// variables by name.
	Formula string

	// Default is the declared fallback used when an exclusion list cannot
	// be satisfied within the attempt bound. Nil means fall back to 0.
	Default *float64

	// Exclude lists values (or variable references) a draw must avoid.
	Exclude []Exclusion

	// DisplayAsMath forces the display string through the numeric
	// formatter (fractions/radicals) instead of plain stringification.
	DisplayAsMath bool
}

// Template is a static question definition. It is read-only input to the
// pipeline; resolution never mutates it.
type Template struct {
	ID            string
	Question      string
	Answer        string
	Variables     map[string]*Constraint
	Objective     string
	Difficulty    string
	FormatVersion string

	// Draw is an opaque drawing spec preserved for an external graphing
	// collaborator; the pipeline never interprets it.
	Draw json.RawMessage
}

// Instance is one generated question: the template's fields plus resolved
// text, answer, and variable scopes. Instances are immutable after creation
// and are never persisted.
type Instance struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"templateId"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Objective  string    `json:"objective,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`

	// Numeric is the resolved numeric scope; Display the parallel display
	// scope. Both share the template's variable key set.
	Numeric NumericScope      `json:"numeric"`
	Display map[string]string `json:"display"`

	Draw json.RawMessage `json:"draw,omitempty"`
}

// NumericScope is a resolved numeric scope. Unresolved variables carry the
// NaN sentinel, which encoding/json refuses to marshal, so the scope encodes
// itself with non-finite entries as null; the display scope still carries the
// visible failure marker for those variables.
type NumericScope map[string]float64

func (s NumericScope) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	var b bytes.Buffer
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		if v := s[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			b.WriteString("null")
		} else {
			val, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			b.Write(val)
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// constraintJSON is the duck-typed wire form of a Constraint.
type constraintJSON struct {
	Value   *float64          `json:"value,omitempty"`
	Min     *int64            `json:"min,omitempty"`
	Max     *int64            `json:"max,omitempty"`
	Values  []float64         `json:"values,omitempty"`
	Formula string            `json:"formula,omitempty"`
	Default *float64          `json:"default,omitempty"`
	Exclude []json.RawMessage `json:"exclude,omitempty"`
	Display string            `json:"display,omitempty"`
}

// UnmarshalJSON classifies the duck-typed wire form into the closed
// constraint set. Strategy precedence when several field groups are present:
// formula, then values, then min/max, then value.
func (c *Constraint) UnmarshalJSON(data []byte) error {
	var raw constraintJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Formula != "":
		c.Kind = KindFormula
		c.Formula = raw.Formula
	case len(raw.Values) > 0:
		c.Kind = KindEnumerated
		c.Values = raw.Values
	case raw.Min != nil || raw.Max != nil:
		c.Kind = KindRange
		if raw.Min != nil {
			c.Min = *raw.Min
		}
		if raw.Max != nil {
			c.Max = *raw.Max
		}
		if c.Max < c.Min {
			return fmt.Errorf("range constraint: max %d < min %d", c.Max, c.Min)
		}
		// The draw span Max-Min+1 must fit in int64; unsigned subtraction
		// computes the span without overflowing.
		if uint64(c.Max)-uint64(c.Min) >= math.MaxInt64 {
			return fmt.Errorf("range constraint: [%d, %d] is too wide", c.Min, c.Max)
		}
	case raw.Value != nil:
		c.Kind = KindLiteral
		c.Value = *raw.Value
	default:
		return fmt.Errorf("constraint has no value, min/max, values, or formula")
	}

	c.Default = raw.Default
	c.DisplayAsMath = raw.Display == "fraction" || raw.Display == "math" || raw.Display == "radical"

	for _, e := range raw.Exclude {
		var num float64
		if err := json.Unmarshal(e, &num); err == nil {
			c.Exclude = append(c.Exclude, Exclusion{Value: num})
			continue
		}
		var ref string
		if err := json.Unmarshal(e, &ref); err == nil {
			c.Exclude = append(c.Exclude, Exclusion{Ref: ref, IsRef: true})
			continue
		}
		return fmt.Errorf("exclusion entry %s is neither a number nor a variable name", e)
	}
	return nil
}
