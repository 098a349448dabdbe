package spacedrep

import "math"

// Completion carries what a learner reported when finishing a session.
// Zero values mean "not reported".
type Completion struct {
	TimeStudiedSeconds int `validate:"min=60,max=28800"`
	QuestionsSolved    int `validate:"min=0"`
	QuestionsCorrect   int `validate:"min=0,ltefield=QuestionsSolved"`
	ConfidenceRating   int `validate:"omitempty,min=1,max=5"`
	DifficultyRating   int `validate:"omitempty,min=1,max=5"`
}

// PerformanceScore estimates in [0,1] how well a session went, from a 0.5
// baseline:
//   - confidence shifts the score by 0.1 per point away from 3;
//   - finishing faster than expected for the rated difficulty adds up to
//     +0.15, slower subtracts up to -0.15;
//   - question accuracy shifts it by 0.3 per unit away from 70%.
func (c Config) PerformanceScore(d Completion) float64 {
	score := 0.5

	if d.ConfidenceRating > 0 {
		score += float64(d.ConfidenceRating-3) * 0.1
	}

	if d.DifficultyRating > 0 && d.TimeStudiedSeconds > 0 {
		expected := float64(d.DifficultyRating * c.MinutesPerDifficulty * 60)
		ratio := math.Min(2, expected/float64(d.TimeStudiedSeconds))
		score += (ratio - 1) * 0.15
	}

	if d.QuestionsSolved > 0 && d.QuestionsCorrect > 0 {
		accuracy := float64(d.QuestionsCorrect) / float64(d.QuestionsSolved)
		score += (accuracy - 0.7) * 0.3
	}

	return math.Max(0, math.Min(1, score))
}
