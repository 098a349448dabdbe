// Package planfile reads study plan definitions (plan, subjects and
// topics) from TOML.
package planfile

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/abhisek/studyplan/internal/plan"
)

// Definition is a plan as written in a plan file.
//
//	name = "Bar exam"
//	exam-date = 2025-06-30
//	daily-hours = 4
//	days-per-week = 5
//
//	[[subjects]]
//	name = "Civil law"
//	weight = 3
//
//	  [[subjects.topics]]
//	  name = "Contracts"
//	  difficulty = 2
//	  questions = 15
type Definition struct {
	Name             string    `toml:"name" validate:"required,max=200"`
	ExamDate         time.Time `toml:"exam-date" validate:"required"`
	DailyHours       float64   `toml:"daily-hours" validate:"gt=0,lte=24"`
	DaysPerWeek      int       `toml:"days-per-week" validate:"min=1,max=7"`
	QuestionsPerDay  int       `toml:"questions-per-day" validate:"min=0"`
	QuestionsPerWeek int       `toml:"questions-per-week" validate:"min=0"`
	Subjects         []Subject `toml:"subjects" validate:"dive"`
}

// Subject is a weighted group of topics.
type Subject struct {
	Name   string  `toml:"name" validate:"required,max=200"`
	Weight float64 `toml:"weight" validate:"omitempty,min=1,max=5"`
	Topics []Topic `toml:"topics" validate:"dive"`
}

// Topic is one schedulable unit. Zero difficulty and questions fall back to
// the scheduler defaults.
type Topic struct {
	Name       string `toml:"name" validate:"required,max=200"`
	Difficulty int    `toml:"difficulty" validate:"omitempty,min=1,max=3"`
	Questions  int    `toml:"questions" validate:"min=0"`
}

// Parse decodes a definition from r. Unknown keys are rejected.
func Parse(r io.Reader) (*Definition, error) {
	var d Definition
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, fmt.Errorf("decode plan file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, &plan.ValidationError{Field: undecoded[0].String(), Reason: "unknown key"}
	}
	return &d, nil
}

// Load reads and decodes the plan file at path.
func Load(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks field ranges and that the exam date is after today.
func (d *Definition) Validate(today time.Time) error {
	if err := plan.ValidateStruct(d); err != nil {
		return err
	}
	if !plan.Day(d.ExamDate).After(plan.Day(today)) {
		return &plan.ValidationError{
			Field:  "exam_date",
			Value:  plan.FormatDate(d.ExamDate),
			Reason: "must be in the future",
		}
	}
	seen := make(map[string]bool, len(d.Subjects))
	for _, s := range d.Subjects {
		if seen[s.Name] {
			return &plan.ValidationError{Field: "subjects", Value: s.Name, Reason: "duplicate subject"}
		}
		seen[s.Name] = true
	}
	return nil
}

// Plan returns the plan row for userID.
func (d *Definition) Plan(userID int64) *plan.Plan {
	return &plan.Plan{
		UserID:           userID,
		Name:             d.Name,
		ExamDate:         plan.Day(d.ExamDate),
		DailyHours:       d.DailyHours,
		DaysPerWeek:      d.DaysPerWeek,
		QuestionsPerDay:  d.QuestionsPerDay,
		QuestionsPerWeek: d.QuestionsPerWeek,
	}
}

// TopicCount returns the number of topics across all subjects.
func (d *Definition) TopicCount() int {
	n := 0
	for _, s := range d.Subjects {
		n += len(s.Topics)
	}
	return n
}
