package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/nextitem/internal/adaptive"
	"github.com/abhisek/nextitem/internal/config"
	"github.com/abhisek/nextitem/internal/logger"
	"github.com/abhisek/nextitem/internal/selection"
	"github.com/abhisek/nextitem/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "nextitem",
	Short: "Adaptive next-item selection",
	Long: `nextitem chooses the next assessment item for a learner from an item
corpus, the learner's ability estimate and their response history.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite file path (overrides NEXTITEM_DB_DSN)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite or postgres (overrides NEXTITEM_DB_DRIVER)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides NEXTITEM_CONFIG)")
	rootCmd.PersistentFlags().String("log", "", "Log mode: dev or prod (overrides NEXTITEM_LOG_MODE)")

	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(abilityCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime holds what a command needs once flags and config are resolved.
type runtime struct {
	cfg config.Config
	log *logger.Logger
	st  *store.Store
}

// openRuntime resolves configuration (file, env, then flags), builds the
// logger and opens the store.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	dsn, err := resolveDSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(store.Driver(cfg.DB.Driver), dsn, store.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &runtime{cfg: cfg, log: log, st: st}, nil
}

func (r *runtime) Close() {
	_ = r.st.Close()
	r.log.Sync()
}

// service builds a selection service backed by the store. A nil rng uses a
// time-seeded source.
func (r *runtime) service(rng selection.Rand) *adaptive.Service {
	return adaptive.NewService(adaptive.Options{
		Abilities: r.st.AbilityRepo(),
		Items:     r.st.ItemRepo(),
		History:   r.st.EventRepo(),
		Rand:      rng,
		Logger:    r.log,
		Config:    adaptive.Config{HistoryLimit: r.cfg.Selection.HistoryLimit},
	})
}

func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.DB.Driver = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB.DSN = v
	}
	if v, _ := cmd.Flags().GetString("log"); v != "" {
		cfg.Log.Mode = v
	}
	return cfg, nil
}

// resolveDSN returns the configured DSN. An empty SQLite DSN means the
// default XDG path.
func resolveDSN(cfg config.Config) (string, error) {
	if store.Driver(cfg.DB.Driver) != store.DriverSQLite {
		return cfg.DB.DSN, nil
	}
	if cfg.DB.DSN == "" {
		return store.DefaultDBPath()
	}
	if isFilePath(cfg.DB.DSN) {
		return cfg.DB.DSN, store.EnsureDir(cfg.DB.DSN)
	}
	return cfg.DB.DSN, nil
}

func isFilePath(dsn string) bool {
	return len(dsn) < 5 || dsn[:5] != "file:"
}

// unitFlags registers the flags identifying a learner in a learning unit.
func unitFlags(cmd *cobra.Command) {
	cmd.Flags().String("unit", "", "Learning unit ID (required)")
	cmd.Flags().String("learner", "", "Learner ID (required)")
	cmd.Flags().String("activity", "", "Activity type (required)")
	_ = cmd.MarkFlagRequired("unit")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("activity")
}

func requestFromFlags(cmd *cobra.Command) adaptive.Request {
	unit, _ := cmd.Flags().GetString("unit")
	learner, _ := cmd.Flags().GetString("learner")
	activity, _ := cmd.Flags().GetString("activity")
	return adaptive.Request{
		LearningUnitID: unit,
		LearnerID:      learner,
		ActivityType:   activity,
	}
}
