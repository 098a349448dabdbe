package scheduler

// Defaults holds the values substituted for unset topic and subject fields.
type Defaults struct {
	Difficulty    int
	SubjectWeight float64
	QuestionCount int
}

// RehearsalMilestone places one rehearsal at a fraction of the calendar.
type RehearsalMilestone struct {
	Fraction float64
	Full     bool // FullRehearsal when true, TargetedRehearsal otherwise
}

// Config holds all schedule-generation tuning.
type Config struct {
	// DailyCap is the maximum number of sessions a plan may hold on one date.
	DailyCap int

	// LearningRatio is the share of the calendar open to NewTopic sessions.
	// The remainder is left for reviews and rehearsals.
	LearningRatio float64

	// ReviewOffsets are the calendar-index offsets of spaced reviews.
	ReviewOffsets []int

	// ReviewPriorityFactor scales a topic's priority for its reviews.
	ReviewPriorityFactor float64

	// ReviewDurationFactor scales a topic's duration for its reviews.
	ReviewDurationFactor float64

	// MinSessionMinutes floors every estimated duration.
	MinSessionMinutes int

	// MaxSessionMinutes caps every estimated duration.
	MaxSessionMinutes int

	// TopicsPerDay is the baseline number of topics the daily budget is split over.
	TopicsPerDay int

	// DifficultyMultipliers maps difficulty (1-3) to a duration multiplier.
	DifficultyMultipliers map[int]float64

	// MaxQuestionFactor caps the question-volume multiplier.
	MaxQuestionFactor float64

	Rehearsals        []RehearsalMilestone
	RehearsalPriority float64

	Defaults Defaults
}

// DefaultConfig returns a Config with the standard allocation rules.
func DefaultConfig() Config {
	return Config{
		DailyCap:             6,
		LearningRatio:        0.7,
		ReviewOffsets:        []int{3, 7, 15, 30},
		ReviewPriorityFactor: 0.8,
		ReviewDurationFactor: 0.6,
		MinSessionMinutes:    15,
		MaxSessionMinutes:    480,
		TopicsPerDay:         4,
		DifficultyMultipliers: map[int]float64{
			1: 0.7,
			2: 1.0,
			3: 1.3,
		},
		MaxQuestionFactor: 2,
		Rehearsals: []RehearsalMilestone{
			{Fraction: 0.30},
			{Fraction: 0.60},
			{Fraction: 0.80, Full: true},
			{Fraction: 0.95, Full: true},
		},
		RehearsalPriority: 100,
		Defaults: Defaults{
			Difficulty:    1,
			SubjectWeight: 1,
			QuestionCount: 1,
		},
	}
}
