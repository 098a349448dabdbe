// Package config assembles engine configuration from defaults, a TOML file
// and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/scheduler"
	"github.com/abhisek/studyplan/internal/session"
	"github.com/abhisek/studyplan/internal/spacedrep"
)

// Config holds the configuration of every engine component.
type Config struct {
	Scheduler     scheduler.Config
	Reinforcement spacedrep.Config
	Postpone      session.Config
	Replan        progress.Config

	// DBPath overrides the default database location when set.
	DBPath string

	LogLevel slog.Level
}

// DefaultConfig returns a Config with each component's defaults.
func DefaultConfig() Config {
	return Config{
		Scheduler:     scheduler.DefaultConfig(),
		Reinforcement: spacedrep.DefaultConfig(),
		Postpone:      session.DefaultConfig(),
		Replan:        progress.DefaultConfig(),
		LogLevel:      slog.LevelWarn,
	}
}

// Load builds a Config from defaults, the TOML file at path (a missing file
// is not an error) and STUDYPLAN_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		f, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.Apply(f); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// SetDailyCap sets the daily session cap on every component.
func (c *Config) SetDailyCap(n int) {
	c.Scheduler.DailyCap = n
	c.Postpone.DailyCap = n
	c.Replan.DailyCap = n
}

// ApplyEnv overrides fields from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("STUDYPLAN_DAILY_CAP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STUDYPLAN_DAILY_CAP: %w", err)
		}
		c.SetDailyCap(n)
	}
	if v := getenv("STUDYPLAN_LEARNING_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("STUDYPLAN_LEARNING_RATIO: %w", err)
		}
		c.Scheduler.LearningRatio = f
	}
	if v := getenv("STUDYPLAN_REVIEW_OFFSETS"); v != "" {
		offsets, err := parseInts(v)
		if err != nil {
			return fmt.Errorf("STUDYPLAN_REVIEW_OFFSETS: %w", err)
		}
		c.Scheduler.ReviewOffsets = offsets
	}
	if v := getenv("STUDYPLAN_LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("STUDYPLAN_LOG_LEVEL: %w", err)
		}
	}
	if v := getenv("STUDYPLAN_DB"); v != "" {
		c.DBPath = v
	}
	return nil
}

// Validate checks that the combined configuration is usable.
func (c Config) Validate() error {
	s := c.Scheduler
	if s.DailyCap < 1 {
		return fmt.Errorf("daily cap must be at least 1, got %d", s.DailyCap)
	}
	if s.LearningRatio <= 0 || s.LearningRatio > 1 {
		return fmt.Errorf("learning ratio must be in (0, 1], got %v", s.LearningRatio)
	}
	if s.TopicsPerDay < 1 {
		return fmt.Errorf("topics per day must be at least 1, got %d", s.TopicsPerDay)
	}
	if s.MinSessionMinutes < 1 || s.MaxSessionMinutes < s.MinSessionMinutes {
		return fmt.Errorf("session minutes range [%d, %d] is invalid", s.MinSessionMinutes, s.MaxSessionMinutes)
	}
	for _, off := range s.ReviewOffsets {
		if off < 1 {
			return fmt.Errorf("review offsets must be positive, got %d", off)
		}
	}
	r := c.Reinforcement
	if r.PoorBelow > r.ExcellentAbove {
		return fmt.Errorf("poor threshold %v is above excellent threshold %v", r.PoorBelow, r.ExcellentAbove)
	}
	p := c.Replan
	if p.ModerateAbove > p.AggressiveAbove {
		return fmt.Errorf("moderate threshold %d is above aggressive threshold %d", p.ModerateAbove, p.AggressiveAbove)
	}
	if p.CompressedLearningRatio <= 0 || p.CompressedLearningRatio > 1 {
		return fmt.Errorf("compressed learning ratio must be in (0, 1], got %v", p.CompressedLearningRatio)
	}
	if p.GapDays < 1 {
		return fmt.Errorf("gap days must be at least 1, got %d", p.GapDays)
	}
	return nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
