package scheduler

import (
	"sort"

	"github.com/abhisek/studyplan/internal/plan"
)

// TopicPriority computes difficulty x subject weight x question count, with
// unset inputs replaced by the configured defaults.
func TopicPriority(t plan.Topic, subjectWeight float64, d Defaults) float64 {
	difficulty := t.Difficulty
	if difficulty <= 0 {
		difficulty = d.Difficulty
	}
	if subjectWeight <= 0 {
		subjectWeight = d.SubjectWeight
	}
	questions := t.QuestionCount
	if questions <= 0 {
		questions = d.QuestionCount
	}
	return float64(difficulty) * subjectWeight * float64(questions)
}

// Prioritize returns a copy of topics with CalculatedPriority filled in,
// sorted by descending priority. Ties keep their input order.
func Prioritize(topics []plan.Topic, subjects []plan.Subject, d Defaults) []plan.Topic {
	weights := make(map[int64]float64, len(subjects))
	for _, s := range subjects {
		weights[s.ID] = s.Weight
	}

	out := make([]plan.Topic, len(topics))
	for i, t := range topics {
		t.CalculatedPriority = TopicPriority(t, weights[t.SubjectID], d)
		out[i] = t
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CalculatedPriority > out[j].CalculatedPriority
	})
	return out
}
