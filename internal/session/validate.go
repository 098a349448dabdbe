package session

import (
	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/spacedrep"
)

// ValidateCompletion checks completion data reported by a learner: time
// studied between one minute and eight hours, ratings 1-5 when given, and
// no more correct answers than questions solved.
func ValidateCompletion(d spacedrep.Completion) error {
	return plan.ValidateStruct(d)
}

// Request is a postponement request for one session.
type Request struct {
	Reason string `validate:"max=500"`

	// Target is an explicit new date. Empty means the day after the
	// session's current date.
	Target string `validate:"omitempty,datetime=2006-01-02"`
}

// Validate checks the request shape.
func (r Request) Validate() error {
	return plan.ValidateStruct(r)
}
