package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const abilitiesTable = "abilities"

type abilityRepo struct {
	db      *sql.DB
	dialect string
}

// GetAbility returns 0 when no estimate has been recorded.
func (r *abilityRepo) GetAbility(ctx context.Context, learnerID, learningUnitID string) (float64, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select("ability").
		From(b.Table(abilitiesTable)).
		Where(entsql.And(
			entsql.EQ("learner_id", learnerID),
			entsql.EQ("unit_id", learningUnitID),
		)).
		Query()

	var ability float64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&ability)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query ability: %w", err)
	}
	return ability, nil
}

func (r *abilityRepo) SetAbility(ctx context.Context, learnerID, learningUnitID string, ability float64) error {
	b := entsql.Dialect(r.dialect)
	query, args := b.Insert(abilitiesTable).
		Columns("learner_id", "unit_id", "ability", "updated_at").
		Values(learnerID, learningUnitID, ability, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("learner_id", "unit_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save ability: %w", err)
	}
	return nil
}
