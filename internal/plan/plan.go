// Package plan defines the study-plan domain: plans, subjects, topics and
// the scheduled sessions produced for them.
package plan

import "time"

// Plan is a user's study campaign toward one exam date.
type Plan struct {
	ID               int64
	UserID           int64
	Name             string
	ExamDate         time.Time
	DailyHours       float64
	DaysPerWeek      int // weekday pattern code (1-7)
	QuestionsPerDay  int
	QuestionsPerWeek int
	Postponements    int
	CreatedAt        time.Time
}

// Subject groups topics under a priority weight (higher = more important).
type Subject struct {
	ID     int64
	PlanID int64
	Name   string
	Weight float64
}

// Topic is the smallest schedulable unit of syllabus content.
type Topic struct {
	ID            int64
	PlanID        int64
	SubjectID     int64
	Name          string
	Difficulty    int // 1 easy, 2 medium, 3 hard; 0 means unset
	QuestionCount int // 0 means unset

	// CalculatedPriority is recomputed every time topics are prioritized.
	CalculatedPriority float64 `json:"-"`
}

// Exclusion records a topic a final-stretch schedule left out for lack of
// time.
type Exclusion struct {
	PlanID    int64
	TopicID   int64
	SubjectID int64
	Priority  float64
	Reason    string
	CreatedAt time.Time
}
