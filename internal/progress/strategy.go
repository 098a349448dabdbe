package progress

// Strategy names a replan repair strategy.
type Strategy string

const (
	StrategyAggressive        Strategy = "aggressive_catch_up"
	StrategyModerate          Strategy = "moderate_adjustment"
	StrategyPriorityRebalance Strategy = "priority_rebalance"
	StrategyMinor             Strategy = "minor_optimization"
)

// Options are caller-supplied replan hints.
type Options struct {
	// PriorityChange signals that subject weights or topic attributes
	// changed since the schedule was generated.
	PriorityChange bool
}

// Choose maps an analysis to a strategy:
//
//	overdue > AggressiveAbove                      aggressive catch-up
//	ModerateAbove < overdue <= AggressiveAbove     moderate adjustment
//	otherwise, with a priority change              priority rebalance
//	otherwise                                      minor optimization
func (c Config) Choose(r *Report, opts Options) Strategy {
	n := r.OverdueCount()
	switch {
	case n > c.AggressiveAbove:
		return StrategyAggressive
	case n > c.ModerateAbove:
		return StrategyModerate
	case opts.PriorityChange:
		return StrategyPriorityRebalance
	default:
		return StrategyMinor
	}
}
