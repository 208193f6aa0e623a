package template

// documentSchema is the JSON schema a template document must satisfy before
// decoding. It accepts either a single template object or a bank document
// with a "templates" array.
var documentSchema = map[string]any{
	"$defs": map[string]any{
		"exclusion": map[string]any{
			"oneOf": []any{
				map[string]any{"type": "number"},
				map[string]any{"type": "string", "minLength": 1},
			},
		},
		"constraint": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value":   map[string]any{"type": "number"},
				"min":     map[string]any{"type": "integer"},
				"max":     map[string]any{"type": "integer"},
				"values":  map[string]any{"type": "array", "items": map[string]any{"type": "number"}},
				"formula": map[string]any{"type": "string", "minLength": 1},
				"default": map[string]any{"type": "number"},
				"exclude": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/exclusion"}},
				"display": map[string]any{"type": "string", "enum": []any{"fraction", "math", "radical", "plain"}},
			},
			"additionalProperties": false,
		},
		"template": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":       map[string]any{"type": "string", "minLength": 1},
				"question": map[string]any{"type": "string", "minLength": 1},
				// Legacy aliases of "answer"; folded at load time.
				"answer":           map[string]any{"type": "string"},
				"answerExpression": map[string]any{"type": "string"},
				"answerFormula":    map[string]any{"type": "string"},
				"variables": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"$ref": "#/$defs/constraint"},
				},
				"objective":     map[string]any{"type": "string"},
				"difficulty":    map[string]any{"type": "string"},
				"formatVersion": map[string]any{"type": "string"},
				"draw":          map[string]any{"type": "object"},
			},
			"required":             []any{"id", "question"},
			"additionalProperties": false,
		},
	},
	"oneOf": []any{
		map[string]any{"$ref": "#/$defs/template"},
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"templates": map[string]any{
					"type":     "array",
					"items":    map[string]any{"$ref": "#/$defs/template"},
					"minItems": 1,
				},
			},
			"required":             []any{"templates"},
			"additionalProperties": false,
		},
	},
}
