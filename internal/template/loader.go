package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedFormatMajor is the template format line this build understands.
const SupportedFormatMajor = "v1"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compileSchema compiles the embedded document schema once per process.
func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		defBytes, err := json.Marshal(documentSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://template.json", parsed); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile("schema://template.json")
	})
	return compiledSchema, schemaErr
}

// templateJSON is the wire form of a template, including legacy answer
// aliases.
type templateJSON struct {
	ID               string                 `json:"id"`
	Question         string                 `json:"question"`
	Answer           string                 `json:"answer"`
	AnswerExpression string                 `json:"answerExpression"`
	AnswerFormula    string                 `json:"answerFormula"`
	Variables        map[string]*Constraint `json:"variables"`
	Objective        string                 `json:"objective"`
	Difficulty       string                 `json:"difficulty"`
	FormatVersion    string                 `json:"formatVersion"`
	Draw             json.RawMessage        `json:"draw"`
}

type bankJSON struct {
	Templates []json.RawMessage `json:"templates"`
}

// Parse validates and decodes a template document. A document holds either a
// single template object or {"templates": [...]}.
func Parse(data []byte) ([]*Template, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var bank bankJSON
	if err := json.Unmarshal(data, &bank); err == nil && len(bank.Templates) > 0 {
		out := make([]*Template, 0, len(bank.Templates))
		for _, raw := range bank.Templates {
			tpl, err := decodeTemplate(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, tpl)
		}
		return out, nil
	}

	tpl, err := decodeTemplate(data)
	if err != nil {
		return nil, err
	}
	return []*Template{tpl}, nil
}

func decodeTemplate(data []byte) (*Template, error) {
	var raw templateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}

	tpl := &Template{
		ID:            raw.ID,
		Question:      raw.Question,
		Answer:        resolveAnswerAliases(raw),
		Variables:     raw.Variables,
		Objective:     raw.Objective,
		Difficulty:    raw.Difficulty,
		FormatVersion: raw.FormatVersion,
		Draw:          raw.Draw,
	}
	if tpl.Variables == nil {
		tpl.Variables = map[string]*Constraint{}
	}

	if err := checkFormatVersion(tpl.FormatVersion); err != nil {
		return nil, fmt.Errorf("template %s: %w", tpl.ID, err)
	}
	return tpl, nil
}

// resolveAnswerAliases folds the legacy answerExpression/answerFormula field
// names into the one answer field. First non-empty wins, in the order answer,
// answerExpression, answerFormula. The legacy fields held bare expressions,
// so a brace-free value gets wrapped in {{...}} so the render pipeline
// evaluates it instead of passing it through as literal text.
func resolveAnswerAliases(raw templateJSON) string {
	if raw.Answer != "" {
		return raw.Answer
	}
	for _, s := range []string{raw.AnswerExpression, raw.AnswerFormula} {
		if s == "" {
			continue
		}
		if strings.Contains(s, "{") {
			return s
		}
		return "{{" + s + "}}"
	}
	return ""
}

// checkFormatVersion rejects template documents from a newer format major
// than this build supports. Empty means the v1 line.
func checkFormatVersion(v string) error {
	if v == "" {
		return nil
	}
	vv := v
	if !strings.HasPrefix(vv, "v") {
		vv = "v" + vv
	}
	if !semver.IsValid(vv) {
		return fmt.Errorf("invalid formatVersion %q", v)
	}
	if semver.Compare(semver.Major(vv), SupportedFormatMajor) > 0 {
		return fmt.Errorf("formatVersion %q is newer than supported %s", v, SupportedFormatMajor)
	}
	return nil
}

// Bank is a set of templates keyed by ID.
type Bank struct {
	byID  map[string]*Template
	order []string
}

// Get returns the template with the given ID.
func (b *Bank) Get(id string) (*Template, bool) {
	t, ok := b.byID[id]
	return t, ok
}

// IDs returns all template IDs in load order.
func (b *Bank) IDs() []string {
	return append([]string(nil), b.order...)
}

// Len returns the number of templates in the bank.
func (b *Bank) Len() int { return len(b.byID) }

// LoadFile parses one template document from disk.
func LoadFile(path string) ([]*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tpls, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tpls, nil
}

// LoadBank loads every *.json document under dir into a Bank, rejecting
// duplicate template IDs.
func LoadBank(dir string) (*Bank, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	bank := &Bank{byID: map[string]*Template{}}
	for _, p := range paths {
		tpls, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		for _, t := range tpls {
			if _, dup := bank.byID[t.ID]; dup {
				return nil, fmt.Errorf("%s: duplicate template id %q", p, t.ID)
			}
			bank.byID[t.ID] = t
			bank.order = append(bank.order, t.ID)
		}
	}
	return bank, nil
}
