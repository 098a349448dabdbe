package scheduler

import (
	"testing"

	"github.com/abhisek/studyplan/internal/plan"
)

func TestTopicDuration(t *testing.T) {
	cfg := DefaultConfig()
	p := &plan.Plan{DailyHours: 4} // 60-minute base

	tests := []struct {
		name  string
		topic plan.Topic
		want  int
	}{
		{"medium, 10 questions", plan.Topic{Difficulty: 2, QuestionCount: 10}, 60},
		{"hard, capped question factor", plan.Topic{Difficulty: 3, QuestionCount: 50}, 156},
		{"easy, 20 questions", plan.Topic{Difficulty: 1, QuestionCount: 20}, 84},
		{"floored at minimum", plan.Topic{Difficulty: 1, QuestionCount: 1}, 15},
		{"unknown difficulty multiplier", plan.Topic{Difficulty: 9, QuestionCount: 10}, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.TopicDuration(tt.topic, p); got != tt.want {
				t.Errorf("TopicDuration() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReviewDuration(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ReviewDuration(60); got != 36 {
		t.Errorf("ReviewDuration(60) = %d, want 36", got)
	}
	if got := cfg.ReviewDuration(20); got != 15 {
		t.Errorf("ReviewDuration(20) = %d, want 15 (floor)", got)
	}
}

func TestRehearsalDuration_FullBudget(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.RehearsalDuration(&plan.Plan{DailyHours: 3}); got != 180 {
		t.Errorf("RehearsalDuration() = %d, want 180", got)
	}
	if got := cfg.RehearsalDuration(&plan.Plan{DailyHours: 12}); got != 480 {
		t.Errorf("RehearsalDuration() = %d, want 480 (cap)", got)
	}
}
