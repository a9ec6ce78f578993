// Package corpus loads item corpora, ability estimates and response
// history from JSON bundle files into the store.
package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/nextitem/internal/adaptive"
	"github.com/abhisek/nextitem/internal/store"
)

// Bundle is the on-disk import format.
type Bundle struct {
	Items     []ItemRecord    `json:"items"`
	Abilities []AbilityRecord `json:"abilities"`
	Events    []EventRecord   `json:"events"`
}

type ItemRecord struct {
	LearningUnitID string   `json:"learning_unit_id"`
	ActivityType   string   `json:"activity_type"`
	ID             string   `json:"id"`
	Difficulty     *float64 `json:"difficulty,omitempty"`
	Discrimination *float64 `json:"discrimination,omitempty"`
	ContextTag     string   `json:"context_tag,omitempty"`
}

type AbilityRecord struct {
	LearnerID      string  `json:"learner_id"`
	LearningUnitID string  `json:"learning_unit_id"`
	Ability        float64 `json:"ability"`
}

type EventRecord struct {
	LearnerID            string `json:"learner_id"`
	LearningUnitID       string `json:"learning_unit_id"`
	ActivityType         string `json:"activity_type"`
	SessionID            string `json:"session_id"`
	ItemID               string `json:"item_id,omitempty"`
	FirstAttemptCorrect  bool   `json:"first_attempt_correct"`
	SecondAttemptCorrect *bool  `json:"second_attempt_correct,omitempty"`
	ContextTag           string `json:"context_tag,omitempty"`
}

// ValidationError reports a bundle that does not match the schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid corpus bundle: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Parse reads and validates a bundle.
func Parse(r io.Reader) (*Bundle, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile bundle schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, &ValidationError{Err: err}
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, &ValidationError{Err: err}
	}
	return &b, nil
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The compiler expects a parsed JSON value, not Go maps with Go
		// slice types, so round-trip through JSON.
		defBytes, err := json.Marshal(bundleSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://corpus-bundle.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(url)
	})
	return schema, schemaErr
}

// Summary counts what an import wrote.
type Summary struct {
	Corpora   int
	Items     int
	Abilities int
	Events    int
}

// Importer writes bundles into the store.
type Importer struct {
	Items     store.ItemRepo
	Abilities store.AbilityRepo
	Events    store.EventRepo
}

// NewImporter creates an Importer backed by st.
func NewImporter(st *store.Store) *Importer {
	return &Importer{
		Items:     st.ItemRepo(),
		Abilities: st.AbilityRepo(),
		Events:    st.EventRepo(),
	}
}

// Import writes b. Each (learning unit, activity type) corpus in the bundle
// replaces the stored one; abilities are upserted and events appended in
// file order.
func (im *Importer) Import(ctx context.Context, b *Bundle) (Summary, error) {
	var sum Summary

	type key struct{ unit, activity string }
	var order []key
	corpora := make(map[key][]adaptive.Item)
	for _, rec := range b.Items {
		k := key{rec.LearningUnitID, rec.ActivityType}
		if _, ok := corpora[k]; !ok {
			order = append(order, k)
		}
		corpora[k] = append(corpora[k], adaptive.Item{
			ID:             rec.ID,
			Difficulty:     rec.Difficulty,
			Discrimination: rec.Discrimination,
			ContextTag:     rec.ContextTag,
		})
	}
	for _, k := range order {
		if err := im.Items.ReplaceItems(ctx, k.unit, k.activity, corpora[k]); err != nil {
			return sum, fmt.Errorf("import corpus %s/%s: %w", k.unit, k.activity, err)
		}
		sum.Corpora++
		sum.Items += len(corpora[k])
	}

	for _, rec := range b.Abilities {
		if err := im.Abilities.SetAbility(ctx, rec.LearnerID, rec.LearningUnitID, rec.Ability); err != nil {
			return sum, fmt.Errorf("import ability for %s: %w", rec.LearningUnitID, err)
		}
		sum.Abilities++
	}

	for _, rec := range b.Events {
		_, err := im.Events.AppendResponse(ctx, adaptive.ResponseEvent{
			LearnerID:      rec.LearnerID,
			LearningUnitID: rec.LearningUnitID,
			ActivityType:   rec.ActivityType,
			SessionID:      rec.SessionID,
			ItemID:         rec.ItemID,
			Feedback: adaptive.Feedback{
				FirstAttempt:  rec.FirstAttemptCorrect,
				SecondAttempt: rec.SecondAttemptCorrect,
			},
			ContextTag: rec.ContextTag,
		})
		if err != nil {
			return sum, fmt.Errorf("import event: %w", err)
		}
		sum.Events++
	}

	return sum, nil
}
