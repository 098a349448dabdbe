package scheduler

import (
	"math"

	"github.com/abhisek/studyplan/internal/plan"
)

// TopicDuration estimates the minutes needed to study a topic for the first
// time: the daily budget split over TopicsPerDay, scaled by difficulty and
// question volume.
func (c Config) TopicDuration(t plan.Topic, p *plan.Plan) int {
	base := p.DailyHours * 60 / float64(c.TopicsPerDay)

	difficulty := t.Difficulty
	if difficulty <= 0 {
		difficulty = c.Defaults.Difficulty
	}
	mult, ok := c.DifficultyMultipliers[difficulty]
	if !ok {
		mult = 1
	}

	questions := t.QuestionCount
	if questions <= 0 {
		questions = c.Defaults.QuestionCount
	}
	qf := math.Min(c.MaxQuestionFactor, float64(questions)/10)

	return c.clampMinutes(int(math.Round(base * mult * qf)))
}

// ReviewDuration derives a review's duration from the original session's.
func (c Config) ReviewDuration(original int) int {
	return c.ScaledDuration(original, c.ReviewDurationFactor)
}

// ScaledDuration scales minutes by factor and floors it at MinSessionMinutes.
func (c Config) ScaledDuration(minutes int, factor float64) int {
	return c.clampMinutes(int(math.Floor(float64(minutes) * factor)))
}

// RehearsalDuration is the full daily budget.
func (c Config) RehearsalDuration(p *plan.Plan) int {
	return c.clampMinutes(int(math.Round(p.DailyHours * 60)))
}

func (c Config) clampMinutes(m int) int {
	if m < c.MinSessionMinutes {
		return c.MinSessionMinutes
	}
	if c.MaxSessionMinutes > 0 && m > c.MaxSessionMinutes {
		return c.MaxSessionMinutes
	}
	return m
}
