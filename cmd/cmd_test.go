package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nextitem/internal/adaptive"
	"github.com/abhisek/nextitem/internal/config"
	"github.com/abhisek/nextitem/internal/store"
)

func TestDisplayVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(devel)", "(devel)"},
		{"", "(devel)"},
		{"1.2", "v1.2.0"},
		{"v0.4.1", "v0.4.1"},
		{"v2", "v2.0.0"},
		{"1.0.0+dirty", "v1.0.0"},
		{"not-a-version", "not-a-version"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, displayVersion(tt.in), tt.in)
	}
}

func TestResolveDSN(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	pg := config.DefaultConfig()
	pg.DB.Driver = "postgres"
	pg.DB.DSN = "postgres://localhost/nextitem"
	dsn, err := resolveDSN(pg)
	assert.NoError(t, err)
	assert.Equal(t, "postgres://localhost/nextitem", dsn)

	mem := config.DefaultConfig()
	mem.DB.DSN = "file:x?mode=memory"
	dsn, err = resolveDSN(mem)
	assert.NoError(t, err)
	assert.Equal(t, "file:x?mode=memory", dsn)

	def := config.DefaultConfig()
	dsn, err = resolveDSN(def)
	assert.NoError(t, err)
	assert.Contains(t, dsn, "nextitem.db")
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"select", "record", "import", "ability", "tiers", "simulate", "session", "version"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, c.Name())
		}
	}
}

const cliBundle = `{
  "items": [
    {"learning_unit_id": "fractions", "activity_type": "practice", "id": "f1", "difficulty": -1, "context_tag": "pizza"},
    {"learning_unit_id": "fractions", "activity_type": "practice", "id": "f2", "difficulty": 0, "context_tag": "garden"},
    {"learning_unit_id": "fractions", "activity_type": "practice", "id": "f3", "difficulty": 1, "context_tag": "bus"}
  ],
  "abilities": [
    {"learner_id": "ada", "learning_unit_id": "fractions", "ability": 0.2}
  ]
}`

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCLI_ImportRecordSimulate(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nextitem.db")
	bundlePath := filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(bundlePath, []byte(cliBundle), 0o644))

	base := []string{"--db", dbPath, "--driver", "sqlite", "--log", "prod"}
	unit := []string{"--unit", "fractions", "--learner", "ada", "--activity", "practice"}

	require.NoError(t, execute(t, append(base, "import", bundlePath)...))
	require.NoError(t, execute(t, append(append(base, "record", "--session", "s1", "--item", "f2", "--correct"), unit...)...))

	err := execute(t, append(append(base, "record", "--session", "s1", "--item", "missing"), unit...)...)
	require.Error(t, err)
	assert.ErrorIs(t, err, adaptive.ErrNotFound)

	require.NoError(t, execute(t, append(append(base, "simulate", "--session", "s1", "--steps", "4", "--seed", "7"), unit...)...))

	st, err := store.Open(store.DriverSQLite, dbPath)
	require.NoError(t, err)
	defer st.Close()

	events, err := st.EventRepo().ListRecentEvents(context.Background(), adaptive.HistoryQuery{
		LearnerID:      "ada",
		LearningUnitID: "fractions",
		ActivityType:   "practice",
		SessionID:      "s1",
	})
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, "f2", events[0].ItemID)
	assert.Equal(t, "garden", events[0].ContextTag)
	for _, ev := range events {
		assert.Contains(t, []string{"f1", "f2", "f3"}, ev.ItemID)
	}

	theta, err := st.AbilityRepo().GetAbility(context.Background(), "ada", "fractions")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, theta, 1e-9)
}
