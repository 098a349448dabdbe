package progress

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/scheduler"
)

// FilterContext is what a policy filter can see about the plan.
type FilterContext struct {
	Today time.Time

	// Remaining holds topics without a completed NewTopic session.
	Remaining map[int64]bool
}

// Filter selects pending sessions.
type Filter func(s plan.Session, ctx FilterContext) bool

// Policy parameterizes Rebuild. Every strategy is one policy; completed
// sessions are never passed to a filter and never changed.
type Policy struct {
	Strategy Strategy

	// Purge selects pending sessions to delete.
	Purge Filter

	// Relocate selects pending sessions to move into the first Window
	// fraction of the remaining calendar.
	Relocate Filter
	Window   float64

	// Rescore recomputes the priority of every pending session.
	Rescore bool

	// Rebuild re-runs the schedule builder over the remaining topics with
	// the given learning ratio.
	Rebuild       bool
	LearningRatio float64
}

// PolicyFor returns the policy implementing a strategy.
func (c Config) PolicyFor(s Strategy) Policy {
	switch s {
	case StrategyAggressive:
		return Policy{
			Strategy:      s,
			Purge:         purgeForRebuild,
			Rescore:       true,
			Rebuild:       true,
			LearningRatio: c.CompressedLearningRatio,
		}
	case StrategyModerate:
		return Policy{Strategy: s, Relocate: overdue, Window: c.ModerateWindow, Rescore: true}
	case StrategyPriorityRebalance:
		return Policy{Strategy: s, Relocate: overdue, Window: c.MinorWindow, Rescore: true}
	default:
		return Policy{Strategy: StrategyMinor, Relocate: overdue, Window: c.MinorWindow, Rescore: true}
	}
}

func overdue(s plan.Session, ctx FilterContext) bool {
	return s.IsOverdue(ctx.Today)
}

// purgeForRebuild drops overdue sessions plus everything the rebuild will
// regenerate: the future sessions of remaining topics and rehearsals.
func purgeForRebuild(s plan.Session, ctx FilterContext) bool {
	if s.IsOverdue(ctx.Today) {
		return true
	}
	if s.Kind.IsRehearsal() {
		return true
	}
	return s.TopicID != nil && ctx.Remaining[*s.TopicID]
}

// Input is the plan state a replan works on.
type Input struct {
	Plan     *plan.Plan
	Subjects []plan.Subject
	Topics   []plan.Topic
	Sessions []plan.Session
	Today    time.Time
}

// Changes is the set of writes a replan produces.
type Changes struct {
	Strategy Strategy
	Report   *Report

	Deleted []plan.Session
	Updated []plan.Session
	Created []plan.Session

	// Unplaced lists remaining topics the rebuild could not fit.
	Unplaced []plan.Topic

	// Unmoved lists sessions selected for relocation that found no free day.
	Unmoved []plan.Session

	// Schedule is the plan's full session list after the changes.
	Schedule []plan.Session
}

// Empty reports whether the replan changes nothing.
func (c *Changes) Empty() bool {
	return len(c.Deleted) == 0 && len(c.Updated) == 0 && len(c.Created) == 0
}

// Replanner repairs drifting schedules.
type Replanner struct {
	cfg     Config
	builder *scheduler.Builder
}

// NewReplanner creates a Replanner that rebuilds with b.
func NewReplanner(cfg Config, b *scheduler.Builder) *Replanner {
	return &Replanner{cfg: cfg, builder: b}
}

// Config returns the replan parameters.
func (r *Replanner) Config() Config {
	return r.cfg
}

// Replan analyzes the input, chooses a strategy and applies its policy.
func (r *Replanner) Replan(in Input, opts Options) (*Changes, error) {
	report := Analyze(in.Plan, in.Topics, in.Sessions, in.Today)
	pol := r.cfg.PolicyFor(r.cfg.Choose(report, opts))
	return r.Rebuild(in, report, pol)
}

// Rebuild applies pol to the input. It runs, in order: purge, relocate,
// rescore, rebuild. The input slices are not modified.
func (r *Replanner) Rebuild(in Input, report *Report, pol Policy) (*Changes, error) {
	today := plan.Day(in.Today)
	if report == nil {
		report = Analyze(in.Plan, in.Topics, in.Sessions, today)
	}
	ch := &Changes{Strategy: pol.Strategy, Report: report}

	ctx := FilterContext{Today: today, Remaining: make(map[int64]bool)}
	for _, t := range in.Topics {
		if !report.CompletedTopicIDs[t.ID] {
			ctx.Remaining[t.ID] = true
		}
	}

	calendar := scheduler.BuildCalendar(today, in.Plan.ExamDate, in.Plan.DaysPerWeek)
	if pol.Rebuild && len(calendar) == 0 {
		return nil, &plan.PreconditionError{PlanID: in.Plan.ID, Reason: "calendar window too short"}
	}

	var kept []plan.Session
	for _, s := range in.Sessions {
		if !s.IsCompleted() && pol.Purge != nil && pol.Purge(s, ctx) {
			ch.Deleted = append(ch.Deleted, s)
			continue
		}
		kept = append(kept, s)
	}

	changed := make(map[string]bool)
	if pol.Relocate != nil {
		r.relocate(kept, calendar, pol, ctx, changed, ch)
	}
	if pol.Rescore {
		r.rescore(kept, in, changed)
	}
	for _, s := range kept {
		if changed[s.ID] {
			ch.Updated = append(ch.Updated, s)
		}
	}

	if pol.Rebuild {
		var remaining []plan.Topic
		for _, t := range in.Topics {
			if ctx.Remaining[t.ID] {
				remaining = append(remaining, t)
			}
		}
		cfg := r.builder.Config()
		res := r.builder.Build(scheduler.Request{
			Plan:          in.Plan,
			Subjects:      in.Subjects,
			Topics:        scheduler.Prioritize(remaining, in.Subjects, cfg.Defaults),
			Calendar:      calendar,
			Load:          scheduler.DailyLoad(kept),
			Rehearsals:    true,
			LearningRatio: pol.LearningRatio,
		})
		ch.Created = res.Sessions
		ch.Unplaced = res.Unplaced
	}

	ch.Schedule = append(append([]plan.Session(nil), kept...), ch.Created...)
	scheduler.SortSessions(ch.Schedule)
	return ch, nil
}

// relocate moves selected sessions into the first pol.Window of the
// calendar, highest priority first, spreading them over successive days.
// Sessions that find no free day in the window fall back to the rest of
// the calendar, then to Unmoved.
func (r *Replanner) relocate(kept []plan.Session, calendar []time.Time, pol Policy, ctx FilterContext, changed map[string]bool, ch *Changes) {
	var idx []int
	for i, s := range kept {
		if !s.IsCompleted() && pol.Relocate(s, ctx) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return kept[idx[a]].Priority > kept[idx[b]].Priority
	})

	n := len(calendar)
	if n == 0 {
		for _, i := range idx {
			ch.Unmoved = append(ch.Unmoved, kept[i])
		}
		return
	}

	moving := make(map[int]bool, len(idx))
	for _, i := range idx {
		moving[i] = true
	}
	var stay []plan.Session
	for i, s := range kept {
		if !moving[i] {
			stay = append(stay, s)
		}
	}
	daily := scheduler.DailyLoad(stay)
	load := make([]int, n)
	for i, d := range calendar {
		load[i] = daily[d]
	}

	window := max(1, int(math.Floor(float64(n)*pol.Window)))
	pick := func(lo, hi, cursor int) int {
		span := hi - lo
		for k := 0; k < span; k++ {
			j := lo + (cursor-lo+k)%span
			if load[j] < r.cfg.DailyCap {
				return j
			}
		}
		return -1
	}

	cursor := 0
	for _, i := range idx {
		day := pick(0, window, cursor)
		if day >= 0 {
			cursor = (day + 1) % window
		} else if window < n {
			day = pick(window, n, window)
		}
		if day < 0 {
			ch.Unmoved = append(ch.Unmoved, kept[i])
			continue
		}
		load[day]++
		kept[i].Date = calendar[day]
		changed[kept[i].ID] = true
	}
}

// rescore recomputes pending priorities from current topic priorities.
func (r *Replanner) rescore(kept []plan.Session, in Input, changed map[string]bool) {
	defaults := r.builder.Config().Defaults
	priority := make(map[int64]float64, len(in.Topics))
	for _, t := range scheduler.Prioritize(in.Topics, in.Subjects, defaults) {
		priority[t.ID] = t.CalculatedPriority
	}

	for i := range kept {
		s := &kept[i]
		if s.IsCompleted() {
			continue
		}
		var p float64
		switch {
		case s.Kind.IsRehearsal():
			p = r.cfg.RehearsalPriority
		case s.TopicID != nil:
			tp, ok := priority[*s.TopicID]
			if !ok {
				continue
			}
			p = tp
			if s.Kind != plan.KindNewTopic {
				p *= r.cfg.ReviewPriorityFactor
			}
			p += r.cfg.PostponementWeight * float64(s.Postponements)
		default:
			continue
		}
		if math.Abs(p-s.Priority) > 1e-9 {
			s.Priority = p
			changed[s.ID] = true
		}
	}
}
