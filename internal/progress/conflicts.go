package progress

import (
	"sort"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/scheduler"
)

// Severity grades a conflict.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// OverloadedDay is a date holding more sessions than the daily cap or more
// minutes than the plan's daily study time.
type OverloadedDay struct {
	Date     time.Time
	Sessions int
	Minutes  int
	Severity Severity
}

// DuplicateTopic is a topic with more than one NewTopic session.
type DuplicateTopic struct {
	TopicID  int64
	Subject  string
	Sessions []plan.Session
}

// Gap is a stretch without sessions between two session dates.
type Gap struct {
	From     time.Time
	To       time.Time
	Days     int
	Severity Severity
}

// Conflicts is what DetectConflicts found in a schedule.
type Conflicts struct {
	Overloaded []OverloadedDay
	Duplicates []DuplicateTopic
	Gaps       []Gap
}

// Total is the number of conflicts found.
func (c *Conflicts) Total() int {
	return len(c.Overloaded) + len(c.Duplicates) + len(c.Gaps)
}

// Critical reports whether any day is overloaded.
func (c *Conflicts) Critical() bool {
	return len(c.Overloaded) > 0
}

type dayLoad struct {
	sessions int
	minutes  int
}

func loadByDate(sessions []plan.Session) map[time.Time]dayLoad {
	out := make(map[time.Time]dayLoad)
	for _, s := range sessions {
		d := plan.Day(s.Date)
		l := out[d]
		l.sessions++
		l.minutes += s.DurationMinutes
		out[d] = l
	}
	return out
}

// minuteLimit is the plan's daily study time in minutes.
func (c Config) minuteLimit(p *plan.Plan) int {
	if p.DailyHours > 0 {
		return int(p.DailyHours * 60)
	}
	return c.DailyMinutes
}

func (c Config) overloaded(l dayLoad, minuteLimit int) bool {
	return (c.DailyCap > 0 && l.sessions > c.DailyCap) || l.minutes > minuteLimit
}

// DetectConflicts inspects a plan's schedule for overloaded days,
// duplicate first-study sessions and long gaps.
func (c Config) DetectConflicts(p *plan.Plan, sessions []plan.Session) *Conflicts {
	sorted := append([]plan.Session(nil), sessions...)
	scheduler.SortSessions(sorted)
	out := &Conflicts{}

	limit := c.minuteLimit(p)
	load := loadByDate(sorted)
	dates := make([]time.Time, 0, len(load))
	for d := range load {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, d := range dates {
		l := load[d]
		if !c.overloaded(l, limit) {
			continue
		}
		sev := SeverityWarning
		if float64(l.sessions) > float64(c.DailyCap)*c.CriticalFactor ||
			float64(l.minutes) > float64(limit)*c.CriticalFactor {
			sev = SeverityCritical
		}
		out.Overloaded = append(out.Overloaded, OverloadedDay{Date: d, Sessions: l.sessions, Minutes: l.minutes, Severity: sev})
	}

	for i := 1; i < len(dates); i++ {
		days := plan.DaysBetween(dates[i-1], dates[i])
		if days <= c.GapDays {
			continue
		}
		sev := SeverityWarning
		if float64(days) > float64(c.GapDays)*2 {
			sev = SeverityCritical
		}
		out.Gaps = append(out.Gaps, Gap{From: dates[i-1], To: dates[i], Days: days, Severity: sev})
	}

	byTopic := make(map[int64][]plan.Session)
	var order []int64
	for _, s := range sorted {
		if s.Kind != plan.KindNewTopic || s.TopicID == nil {
			continue
		}
		id := *s.TopicID
		if _, ok := byTopic[id]; !ok {
			order = append(order, id)
		}
		byTopic[id] = append(byTopic[id], s)
	}
	for _, id := range order {
		if ss := byTopic[id]; len(ss) > 1 {
			out.Duplicates = append(out.Duplicates, DuplicateTopic{TopicID: id, Subject: ss[0].Subject, Sessions: ss})
		}
	}
	return out
}

// Resolution is the set of writes that resolves a schedule's conflicts.
type Resolution struct {
	Found *Conflicts

	Deleted []plan.Session
	Updated []plan.Session

	// Unresolved lists overloaded dates that are still overloaded.
	Unresolved []time.Time

	// Schedule is the plan's full session list after the changes.
	Schedule []plan.Session
}

// Empty reports whether the resolution changes nothing.
func (r *Resolution) Empty() bool {
	return len(r.Deleted) == 0 && len(r.Updated) == 0
}

// ResolveConflicts removes duplicate NewTopic sessions and moves pending
// reviews off overloaded days. A duplicated topic keeps its completed
// session, or its earliest one when none is completed. Reviews leave an
// overloaded day lowest priority first, each to the first later study day
// with room, no later than the exam. Gaps are only reported.
func (r *Replanner) ResolveConflicts(p *plan.Plan, sessions []plan.Session, today time.Time) *Resolution {
	cfg := r.cfg
	res := &Resolution{Found: cfg.DetectConflicts(p, sessions)}

	deleted := make(map[string]bool)
	for _, dup := range res.Found.Duplicates {
		keep := dup.Sessions[0].ID
		for _, s := range dup.Sessions {
			if s.IsCompleted() {
				keep = s.ID
				break
			}
		}
		for _, s := range dup.Sessions {
			if s.ID != keep && !s.IsCompleted() {
				deleted[s.ID] = true
				res.Deleted = append(res.Deleted, s)
			}
		}
	}

	var work []plan.Session
	for _, s := range sessions {
		if !deleted[s.ID] {
			work = append(work, s)
		}
	}

	limit := cfg.minuteLimit(p)
	load := loadByDate(work)
	moved := make(map[string]bool)
	for _, o := range res.Found.Overloaded {
		if !cfg.overloaded(load[o.Date], limit) {
			continue
		}
		var idx []int
		for i, s := range work {
			if plan.Day(s.Date).Equal(o.Date) && !s.IsCompleted() &&
				(s.Kind.IsReview() || s.Kind == plan.KindReinforcement) {
				idx = append(idx, i)
			}
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return work[idx[a]].Priority < work[idx[b]].Priority
		})

		start := o.Date
		if today.After(start) {
			start = plan.Day(today)
		}
		calendar := scheduler.BuildCalendar(start, p.ExamDate, p.DaysPerWeek)
		for _, i := range idx {
			if !cfg.overloaded(load[o.Date], limit) {
				break
			}
			s := &work[i]
			target, ok := cfg.roomyDay(calendar, load, limit, s.DurationMinutes)
			if !ok {
				break
			}
			from := load[o.Date]
			from.sessions--
			from.minutes -= s.DurationMinutes
			load[o.Date] = from
			to := load[target]
			to.sessions++
			to.minutes += s.DurationMinutes
			load[target] = to
			s.Date = target
			moved[s.ID] = true
		}
		if cfg.overloaded(load[o.Date], limit) {
			res.Unresolved = append(res.Unresolved, o.Date)
		}
	}

	for _, s := range work {
		if moved[s.ID] {
			res.Updated = append(res.Updated, s)
		}
	}
	res.Schedule = work
	scheduler.SortSessions(res.Schedule)
	return res
}

func (c Config) roomyDay(calendar []time.Time, load map[time.Time]dayLoad, minuteLimit, minutes int) (time.Time, bool) {
	for _, d := range calendar {
		l := load[d]
		if c.DailyCap > 0 && l.sessions+1 > c.DailyCap {
			continue
		}
		if l.minutes+minutes > minuteLimit {
			continue
		}
		return d, true
	}
	return time.Time{}, false
}
