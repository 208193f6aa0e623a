package template

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizsmith/internal/eval"
)

// Issue describes one lint finding for a template.
type Issue struct {
	TemplateID string
	Check      string // short identifier of the failing check
	Message    string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.TemplateID, i.Check, i.Message)
}

// Lint runs structural checks on a template: placeholder-bearing fields are
// present, constraint fields are coherent, and every cross-variable reference
// (formula identifiers, exclusion refs) names a declared variable. It does
// not attempt resolution; trial generation is the caller's second pass.
func Lint(tpl *Template) []Issue {
	var issues []Issue
	add := func(check, format string, args ...any) {
		issues = append(issues, Issue{
			TemplateID: tpl.ID,
			Check:      check,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	if tpl.Question == "" {
		add("question", "question text is empty")
	}
	if tpl.Answer == "" {
		add("answer", "answer is empty")
	} else if !strings.Contains(tpl.Answer, "{") {
		add("answer", "answer %q has no placeholder or expression", tpl.Answer)
	}

	for name, c := range tpl.Variables {
		if !eval.IsIdent(name) {
			add("variable-name", "variable %q is not a valid identifier", name)
		}
		switch c.Kind {
		case KindRange:
			if c.Max < c.Min {
				add("range", "variable %q: max %d < min %d", name, c.Max, c.Min)
			}
		case KindEnumerated:
			if len(c.Values) == 0 {
				add("enumerated", "variable %q: empty value list", name)
			}
		case KindFormula:
			for _, dep := range eval.Identifiers(c.Formula) {
				if _, ok := tpl.Variables[dep]; !ok {
					add("formula-ref", "variable %q: formula references undeclared %q", name, dep)
				}
			}
		}
		for _, e := range c.Exclude {
			if e.IsRef {
				if _, ok := tpl.Variables[e.Ref]; !ok {
					add("exclude-ref", "variable %q: exclusion references undeclared %q", name, e.Ref)
				}
			}
		}
		if c.Kind != KindRange && c.Kind != KindEnumerated && len(c.Exclude) > 0 {
			add("exclude", "variable %q: exclusion list on a %s constraint has no effect", name, c.Kind)
		}
	}
	return issues
}
