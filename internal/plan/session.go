package plan

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies what a scheduled session is for.
type Kind string

const (
	KindNewTopic          Kind = "NewTopic"
	KindReinforcement     Kind = "Reinforcement"
	KindTargetedRehearsal Kind = "TargetedRehearsal"
	KindFullRehearsal     Kind = "FullRehearsal"
)

const reviewPrefix = "Review"

// ReviewKind returns the kind of a spaced review placed offset days after
// first study, e.g. "Review7d".
func ReviewKind(offset int) Kind {
	return Kind(fmt.Sprintf("%s%dd", reviewPrefix, offset))
}

// ReviewOffset reports the day offset encoded in a review kind.
func (k Kind) ReviewOffset() (int, bool) {
	s := string(k)
	if !strings.HasPrefix(s, reviewPrefix) || !strings.HasSuffix(s, "d") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(s, reviewPrefix), "d"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// IsReview reports whether k is a spaced review kind.
func (k Kind) IsReview() bool {
	_, ok := k.ReviewOffset()
	return ok
}

// IsRehearsal reports whether k is a simulated-exam session.
func (k Kind) IsRehearsal() bool {
	return k == KindTargetedRehearsal || k == KindFullRehearsal
}

// Valid reports whether k is a known session kind.
func (k Kind) Valid() bool {
	switch k {
	case KindNewTopic, KindReinforcement, KindTargetedRehearsal, KindFullRehearsal:
		return true
	}
	return k.IsReview()
}

// Status is the completion state of a session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Session is one dated, timed unit of work.
type Session struct {
	ID              string
	PlanID          int64
	TopicID         *int64 // nil for rehearsals
	Subject         string
	Date            time.Time
	Kind            Kind
	Status          Status
	DurationMinutes int
	Priority        float64
	Postponements   int
	PostponeReason  string

	// Completion metrics, set when the session is completed.
	TimeStudiedSeconds int
	QuestionsSolved    int
	QuestionsCorrect   int
	Confidence         int
	DifficultyRating   int
	CompletedAt        time.Time

	// ReviewsScheduled is set once spaced reviews were created from this
	// session's completion.
	ReviewsScheduled bool
}

// IsCompleted reports whether the session has been completed.
func (s *Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// IsOverdue reports whether the session is pending and dated strictly before today.
func (s *Session) IsOverdue(today time.Time) bool {
	return s.Status == StatusPending && s.Date.Before(Day(today))
}

// HasTopic reports whether the session references topicID.
func (s *Session) HasTopic(topicID int64) bool {
	return s.TopicID != nil && *s.TopicID == topicID
}

// TopicRef returns a pointer to a copy of id, for Session.TopicID.
func TopicRef(id int64) *int64 {
	return &id
}
