package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/config"
	"github.com/abhisek/studyplan/internal/engine"
	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/store"
)

// env is what a command needs to run engine operations.
type env struct {
	svc    *engine.Service
	store  *store.Store
	userID int64
}

// Close releases the database.
func (e *env) Close() error {
	return e.store.Close()
}

// openEnv loads configuration, opens the store and builds the engine.
func openEnv(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()

	cfgPath, _ := flags.GetString("config")
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.Changed("daily-cap") {
		n, _ := flags.GetInt("daily-cap")
		cfg.SetDailyCap(n)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--daily-cap: %w", err)
		}
	}
	if v, _ := flags.GetBool("verbose"); v && cfg.LogLevel > slog.LevelInfo {
		cfg.LogLevel = slog.LevelInfo
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithObserver(engine.LogObserver{Logger: logger}),
		engine.WithObserver(engine.RecordObserver{Events: st}),
	}
	if s, _ := flags.GetString("today"); s != "" {
		today, err := plan.ParseDate(s)
		if err != nil {
			st.Close()
			return nil, err
		}
		opts = append(opts, engine.WithClock(fixedClock(today)))
	}

	userID, _ := flags.GetInt64("user")
	return &env{
		svc:    engine.New(st, cfg, opts...),
		store:  st,
		userID: userID,
	}, nil
}

// fixedClock keeps the wall-clock time of day on a fixed date.
func fixedClock(day time.Time) func() time.Time {
	return func() time.Time {
		now := time.Now().UTC()
		return day.Add(now.Sub(plan.Day(now)))
	}
}

func parsePlanID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &plan.ValidationError{Field: "plan", Value: s, Reason: "must be a positive plan id"}
	}
	return id, nil
}

// dateFlag parses an optional YYYY-MM-DD flag. Empty yields the zero time.
func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := plan.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
