package session

// Config holds the postponement rules.
type Config struct {
	// PriorityBoost is added to a session's priority each time it is postponed.
	PriorityBoost float64

	// MaxPostponements is the count from which a session is flagged as
	// postponed too often.
	MaxPostponements int

	// HighRate and ModerateRate are the plan-level postponement rate
	// thresholds, in percent, for the recommendation text.
	HighRate     float64
	ModerateRate float64

	// DailyCap is the maximum number of sessions on one date.
	DailyCap int
}

// DefaultConfig returns the standard postponement rules.
func DefaultConfig() Config {
	return Config{
		PriorityBoost:    10,
		MaxPostponements: 3,
		HighRate:         30,
		ModerateRate:     15,
		DailyCap:         6,
	}
}
