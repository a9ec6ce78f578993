package store

import (
	"context"
	"fmt"
	"strings"
)

// migrate creates the tables if they do not exist.
func (s *Store) migrate(ctx context.Context) error {
	ddl := schemaSQLite
	if s.driver == DriverPostgres {
		ddl = schemaPostgres
	}
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	s.log.Debug("schema ready", "driver", string(s.driver))
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS items (
  unit_id TEXT NOT NULL,
  activity_type TEXT NOT NULL,
  id TEXT NOT NULL,
  pos INTEGER NOT NULL,
  difficulty REAL,
  discrimination REAL,
  context_tag TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (unit_id, activity_type, id)
);

CREATE INDEX IF NOT EXISTS items_corpus_pos ON items (unit_id, activity_type, pos);

CREATE TABLE IF NOT EXISTS abilities (
  learner_id TEXT NOT NULL,
  unit_id TEXT NOT NULL,
  ability REAL NOT NULL,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (learner_id, unit_id)
);

CREATE TABLE IF NOT EXISTS response_events (
  seq INTEGER PRIMARY KEY,
  learner_id TEXT NOT NULL,
  unit_id TEXT NOT NULL,
  activity_type TEXT NOT NULL,
  session_id TEXT NOT NULL,
  item_id TEXT,
  first_correct INTEGER NOT NULL,
  second_correct INTEGER,
  context_tag TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS response_events_session
  ON response_events (learner_id, unit_id, activity_type, session_id, seq)
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS items (
  unit_id TEXT NOT NULL,
  activity_type TEXT NOT NULL,
  id TEXT NOT NULL,
  pos INTEGER NOT NULL,
  difficulty DOUBLE PRECISION,
  discrimination DOUBLE PRECISION,
  context_tag TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (unit_id, activity_type, id)
);

CREATE INDEX IF NOT EXISTS items_corpus_pos ON items (unit_id, activity_type, pos);

CREATE TABLE IF NOT EXISTS abilities (
  learner_id TEXT NOT NULL,
  unit_id TEXT NOT NULL,
  ability DOUBLE PRECISION NOT NULL,
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (learner_id, unit_id)
);

CREATE TABLE IF NOT EXISTS response_events (
  seq BIGINT PRIMARY KEY,
  learner_id TEXT NOT NULL,
  unit_id TEXT NOT NULL,
  activity_type TEXT NOT NULL,
  session_id TEXT NOT NULL,
  item_id TEXT,
  first_correct BOOLEAN NOT NULL,
  second_correct BOOLEAN,
  context_tag TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS response_events_session
  ON response_events (learner_id, unit_id, activity_type, session_id, seq)
`
