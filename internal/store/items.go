package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/nextitem/internal/adaptive"
)

const itemsTable = "items"

type itemRepo struct {
	db      *sql.DB
	dialect string
}

func (r *itemRepo) ListItems(ctx context.Context, learningUnitID, activityType string) ([]adaptive.Item, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select("id", "difficulty", "discrimination", "context_tag").
		From(b.Table(itemsTable)).
		Where(entsql.And(
			entsql.EQ("unit_id", learningUnitID),
			entsql.EQ("activity_type", activityType),
		)).
		OrderBy("pos").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []adaptive.Item
	for rows.Next() {
		var (
			it             adaptive.Item
			difficulty     sql.NullFloat64
			discrimination sql.NullFloat64
		)
		if err := rows.Scan(&it.ID, &difficulty, &discrimination, &it.ContextTag); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Difficulty = nullFloat(difficulty)
		it.Discrimination = nullFloat(discrimination)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *itemRepo) ReplaceItems(ctx context.Context, learningUnitID, activityType string, items []adaptive.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	b := entsql.Dialect(r.dialect)
	query, args := b.Delete(itemsTable).
		Where(entsql.And(
			entsql.EQ("unit_id", learningUnitID),
			entsql.EQ("activity_type", activityType),
		)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	if len(items) > 0 {
		insert := b.Insert(itemsTable).
			Columns("unit_id", "activity_type", "id", "pos", "difficulty", "discrimination", "context_tag")
		for i, it := range items {
			insert.Values(learningUnitID, activityType, it.ID, i,
				floatOrNull(it.Difficulty), floatOrNull(it.Discrimination), it.ContextTag)
		}
		query, args = insert.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit items: %w", err)
	}
	return nil
}

func (r *itemRepo) ListCorpora(ctx context.Context) ([]CorpusKey, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select("unit_id", "activity_type", entsql.Count("*")).
		From(b.Table(itemsTable)).
		GroupBy("unit_id", "activity_type").
		OrderBy("unit_id", "activity_type").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query corpora: %w", err)
	}
	defer rows.Close()

	var keys []CorpusKey
	for rows.Next() {
		var k CorpusKey
		if err := rows.Scan(&k.LearningUnitID, &k.ActivityType, &k.Items); err != nil {
			return nil, fmt.Errorf("scan corpus: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func floatOrNull(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
