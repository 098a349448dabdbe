package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset keys keep
// their defaults.
type FileConfig struct {
	Schedule      ScheduleFile      `toml:"schedule"`
	Reinforcement ReinforcementFile `toml:"reinforcement"`
	Postpone      PostponeFile      `toml:"postpone"`
	Replan        ReplanFile        `toml:"replan"`
	Storage       StorageFile       `toml:"storage"`
	Log           LogFile           `toml:"log"`
}

// ScheduleFile maps schedule builder settings.
type ScheduleFile struct {
	DailyCap          *int     `toml:"daily-cap"`
	LearningRatio     *float64 `toml:"learning-ratio"`
	ReviewOffsets     []int    `toml:"review-offsets"`
	TopicsPerDay      *int     `toml:"topics-per-day"`
	MinSessionMinutes *int     `toml:"min-session-minutes"`
	MaxSessionMinutes *int     `toml:"max-session-minutes"`
	RehearsalPriority *float64 `toml:"rehearsal-priority"`
}

// ReinforcementFile maps performance thresholds.
type ReinforcementFile struct {
	PoorBelow      *float64 `toml:"poor-below"`
	ExcellentAbove *float64 `toml:"excellent-above"`
}

// PostponeFile maps postponement rules.
type PostponeFile struct {
	PriorityBoost    *float64 `toml:"priority-boost"`
	MaxPostponements *int     `toml:"max-postponements"`
}

// ReplanFile maps strategy thresholds.
type ReplanFile struct {
	AggressiveAbove *int     `toml:"aggressive-above"`
	ModerateAbove   *int     `toml:"moderate-above"`
	CompressedRatio *float64 `toml:"compressed-ratio"`
	ModerateWindow  *float64 `toml:"moderate-window"`
	MinorWindow     *float64 `toml:"minor-window"`
	GapDays         *int     `toml:"gap-days"`
}

// StorageFile maps database settings.
type StorageFile struct {
	DB *string `toml:"db"`
}

// LogFile maps logging settings.
type LogFile struct {
	Level *string `toml:"level"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Apply overlays the set fields of f onto c.
func (c *Config) Apply(f FileConfig) error {
	s := f.Schedule
	if s.DailyCap != nil {
		c.SetDailyCap(*s.DailyCap)
	}
	setFloat(&c.Scheduler.LearningRatio, s.LearningRatio)
	if s.ReviewOffsets != nil {
		c.Scheduler.ReviewOffsets = s.ReviewOffsets
	}
	setInt(&c.Scheduler.TopicsPerDay, s.TopicsPerDay)
	setInt(&c.Scheduler.MinSessionMinutes, s.MinSessionMinutes)
	setInt(&c.Scheduler.MaxSessionMinutes, s.MaxSessionMinutes)
	if s.MinSessionMinutes != nil {
		c.Reinforcement.MinSessionMinutes = *s.MinSessionMinutes
	}
	if s.RehearsalPriority != nil {
		c.Scheduler.RehearsalPriority = *s.RehearsalPriority
		c.Replan.RehearsalPriority = *s.RehearsalPriority
	}

	setFloat(&c.Reinforcement.PoorBelow, f.Reinforcement.PoorBelow)
	setFloat(&c.Reinforcement.ExcellentAbove, f.Reinforcement.ExcellentAbove)

	setFloat(&c.Postpone.PriorityBoost, f.Postpone.PriorityBoost)
	setInt(&c.Postpone.MaxPostponements, f.Postpone.MaxPostponements)

	setInt(&c.Replan.AggressiveAbove, f.Replan.AggressiveAbove)
	setInt(&c.Replan.ModerateAbove, f.Replan.ModerateAbove)
	setFloat(&c.Replan.CompressedLearningRatio, f.Replan.CompressedRatio)
	setFloat(&c.Replan.ModerateWindow, f.Replan.ModerateWindow)
	setFloat(&c.Replan.MinorWindow, f.Replan.MinorWindow)
	setInt(&c.Replan.GapDays, f.Replan.GapDays)

	if f.Storage.DB != nil {
		c.DBPath = *f.Storage.DB
	}
	if f.Log.Level != nil {
		if err := c.LogLevel.UnmarshalText([]byte(*f.Log.Level)); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
