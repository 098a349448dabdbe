package spacedrep

// Interval is one follow-up review: Days after the original session, with a
// duration equal to DurationFactor times the original duration.
type Interval struct {
	Days           int
	DurationFactor float64
}

// Table is an ordered list of review intervals.
type Table []Interval

// Tier names the interval table selected by a performance score.
type Tier string

const (
	TierPoor      Tier = "poor"
	TierStandard  Tier = "standard"
	TierExcellent Tier = "excellent"
)

// Config holds performance thresholds and the interval tables.
type Config struct {
	// PoorBelow selects the poor table for scores strictly below it.
	PoorBelow float64

	// ExcellentAbove selects the excellent table for scores strictly above it.
	ExcellentAbove float64

	Poor      Table
	Standard  Table
	Excellent Table

	// MinutesPerDifficulty is the expected study time per difficulty point.
	MinutesPerDifficulty int

	// ReviewPriorityFactor scales the original session's priority.
	ReviewPriorityFactor float64

	MinSessionMinutes int
}

// DefaultConfig returns the standard tables: denser reviews after a poor
// session, sparser ones after an excellent one.
func DefaultConfig() Config {
	return Config{
		PoorBelow:      0.6,
		ExcellentAbove: 0.85,
		Poor: Table{
			{Days: 1, DurationFactor: 0.7},
			{Days: 2, DurationFactor: 0.6},
			{Days: 5, DurationFactor: 0.5},
			{Days: 10, DurationFactor: 0.4},
			{Days: 20, DurationFactor: 0.4},
		},
		Standard: Table{
			{Days: 1, DurationFactor: 0.5},
			{Days: 3, DurationFactor: 0.4},
			{Days: 7, DurationFactor: 0.4},
			{Days: 15, DurationFactor: 0.3},
			{Days: 30, DurationFactor: 0.3},
		},
		Excellent: Table{
			{Days: 3, DurationFactor: 0.3},
			{Days: 7, DurationFactor: 0.3},
			{Days: 21, DurationFactor: 0.2},
			{Days: 45, DurationFactor: 0.2},
		},
		MinutesPerDifficulty: 20,
		ReviewPriorityFactor: 0.8,
		MinSessionMinutes:    15,
	}
}

// TierFor maps a performance score to its tier.
func (c Config) TierFor(score float64) Tier {
	switch {
	case score < c.PoorBelow:
		return TierPoor
	case score > c.ExcellentAbove:
		return TierExcellent
	default:
		return TierStandard
	}
}

// TableFor returns the interval table for a tier.
func (c Config) TableFor(t Tier) Table {
	switch t {
	case TierPoor:
		return c.Poor
	case TierExcellent:
		return c.Excellent
	default:
		return c.Standard
	}
}
