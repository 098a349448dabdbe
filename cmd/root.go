package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "studyplan",
	Short:         "Exam study planner",
	Long:          "studyplan builds a day-by-day study schedule toward an exam date and keeps it on track.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Exit codes by error kind.
const (
	exitFailure       = 1
	exitValidation    = 2
	exitNotFound      = 3
	exitPrecondition  = 4
	exitInvalidChange = 5
)

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, errorMessage(err))
	return exitCode(err)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides STUDYPLAN_DB env var)")
	pf.String("config", "", "Path to TOML config file (default $XDG_CONFIG_HOME/studyplan/config.toml)")
	pf.Int64("user", 1, "Owner id of the plans")
	pf.String("today", "", "Override today's date (YYYY-MM-DD)")
	pf.Int("daily-cap", 0, "Maximum sessions per day (overrides config)")
	pf.BoolP("verbose", "v", false, "Log engine events to stderr")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(subjectCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(postponeCmd)
	rootCmd.AddCommand(reinforceCmd)
	rootCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(replanCmd)
	rootCmd.AddCommand(conflictsCmd)
	rootCmd.AddCommand(exclusionsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, plan.ErrValidation):
		return exitValidation
	case errors.Is(err, plan.ErrNotFound):
		return exitNotFound
	case errors.Is(err, plan.ErrPrecondition):
		return exitPrecondition
	case errors.Is(err, plan.ErrInvalidTransition):
		return exitInvalidChange
	}
	return exitFailure
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, plan.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, plan.ErrPrecondition):
		return "Cannot generate: " + err.Error()
	case errors.Is(err, plan.ErrInvalidTransition):
		return "Not allowed: " + err.Error()
	case errors.Is(err, plan.ErrValidation):
		return "Invalid input: " + err.Error()
	}
	return "Error: " + err.Error()
}
