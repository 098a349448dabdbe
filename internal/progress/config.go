package progress

// Config holds strategy thresholds and the parameters of each replan
// policy.
type Config struct {
	// AggressiveAbove selects aggressive catch-up when the overdue count is
	// strictly greater.
	AggressiveAbove int

	// ModerateAbove selects moderate adjustment when the overdue count is
	// strictly greater (and not aggressive).
	ModerateAbove int

	// CompressedLearningRatio is the learning window used by the
	// aggressive rebuild, as a fraction of the remaining calendar.
	CompressedLearningRatio float64

	// ModerateWindow and MinorWindow bound how far into the remaining
	// calendar overdue sessions are moved.
	ModerateWindow float64
	MinorWindow    float64

	// ReviewPriorityFactor scales a topic's priority for its review and
	// reinforcement sessions.
	ReviewPriorityFactor float64

	// PostponementWeight is added to a session's priority per postponement
	// when rescoring.
	PostponementWeight float64

	RehearsalPriority float64

	DailyCap int

	// DailyMinutes is the study-time ceiling of a day when a plan has no
	// daily hours set.
	DailyMinutes int

	// GapDays is the longest run of days between sessions that is not
	// reported as a gap.
	GapDays int

	// CriticalFactor marks an overload or gap critical when it exceeds its
	// limit by this factor.
	CriticalFactor float64
}

// DefaultConfig returns the standard replan parameters.
func DefaultConfig() Config {
	return Config{
		AggressiveAbove:         10,
		ModerateAbove:           5,
		CompressedLearningRatio: 0.6,
		ModerateWindow:          0.5,
		MinorWindow:             0.3,
		ReviewPriorityFactor:    0.8,
		PostponementWeight:      10,
		RehearsalPriority:       100,
		DailyCap:                6,
		DailyMinutes:            480,
		GapDays:                 7,
		CriticalFactor:          1.5,
	}
}
