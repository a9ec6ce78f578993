package corpus

// bundleSchema is the JSON schema for a corpus bundle file.
var bundleSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"learning_unit_id": nonEmptyString,
					"activity_type":    nonEmptyString,
					"id":               nonEmptyString,
					"difficulty":       nullableNumber,
					"discrimination":   nullableNumber,
					"context_tag":      map[string]any{"type": "string"},
				},
				"required":             []any{"learning_unit_id", "activity_type", "id"},
				"additionalProperties": false,
			},
		},
		"abilities": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"learner_id":       nonEmptyString,
					"learning_unit_id": nonEmptyString,
					"ability":          map[string]any{"type": "number"},
				},
				"required":             []any{"learner_id", "learning_unit_id", "ability"},
				"additionalProperties": false,
			},
		},
		"events": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"learner_id":             nonEmptyString,
					"learning_unit_id":       nonEmptyString,
					"activity_type":          nonEmptyString,
					"session_id":             nonEmptyString,
					"item_id":                map[string]any{"type": "string"},
					"first_attempt_correct":  map[string]any{"type": "boolean"},
					"second_attempt_correct": map[string]any{"type": []any{"boolean", "null"}},
					"context_tag":            map[string]any{"type": "string"},
				},
				"required":             []any{"learner_id", "learning_unit_id", "activity_type", "session_id", "first_attempt_correct"},
				"additionalProperties": false,
			},
		},
	},
	"additionalProperties": false,
}

var (
	nonEmptyString = map[string]any{"type": "string", "minLength": 1}
	nullableNumber = map[string]any{"type": []any{"number", "null"}}
)
