package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/google/uuid"
)

// RehearsalSubject labels rehearsal sessions, which span all subjects.
const RehearsalSubject = "All subjects"

// Request describes one allocation run.
type Request struct {
	Plan     *plan.Plan
	Subjects []plan.Subject

	// Topics must already be in priority order (see Prioritize).
	Topics []plan.Topic

	Calendar []time.Time

	// Load counts sessions that already occupy a date and must be respected
	// by the daily cap. Keys are civil dates.
	Load map[time.Time]int

	// Rehearsals enables the rehearsal phase.
	Rehearsals bool

	// LearningRatio overrides Config.LearningRatio when > 0. A compressed
	// rebuild passes a smaller ratio to leave more of a short window for
	// reviews.
	LearningRatio float64
}

// Result is the outcome of one allocation run.
type Result struct {
	Sessions  []plan.Session
	StudyDays int

	// FirstStudy maps each placed topic to its NewTopic day index.
	FirstStudy map[int64]int

	// Slots is the number of NewTopic places the learning window offered.
	Slots int

	// Unplaced lists topics that found no free day in the learning window.
	// Topics arrive in priority order, so these are the lowest-priority ones.
	Unplaced []plan.Topic

	Coverage float64
}

// Builder turns prioritized topics and a calendar into dated sessions.
type Builder struct {
	cfg   Config
	newID func() string
}

// NewBuilder creates a Builder with the given configuration.
func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg, newID: uuid.NewString}
}

// Config returns the builder's configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

type placement struct {
	topic    plan.Topic
	day      int
	duration int
}

// Build runs the three allocation phases: initial learning, spaced reviews
// and rehearsals. The builder never fails; topics that do not fit are
// reported in Result.Unplaced.
func (b *Builder) Build(req Request) *Result {
	n := len(req.Calendar)
	res := &Result{StudyDays: n, FirstStudy: make(map[int64]int)}
	if n == 0 {
		res.Unplaced = append(res.Unplaced, req.Topics...)
		return res
	}

	subjectNames := make(map[int64]string, len(req.Subjects))
	for _, s := range req.Subjects {
		subjectNames[s.ID] = s.Name
	}

	load := make([]int, n)
	for i, d := range req.Calendar {
		load[i] = req.Load[plan.Day(d)]
	}

	// Rehearsal days hold back one slot per milestone so the later phases
	// cannot crowd them out.
	reserved := make([]int, n)
	var milestones []int
	if req.Rehearsals {
		for _, m := range b.cfg.Rehearsals {
			idx := milestoneIndex(m.Fraction, n)
			milestones = append(milestones, idx)
			reserved[idx]++
		}
	}
	free := func(i int) bool {
		return load[i]+reserved[i] < b.cfg.DailyCap
	}

	ratio := req.LearningRatio
	if ratio <= 0 {
		ratio = b.cfg.LearningRatio
	}
	learningDays := int(math.Floor(float64(n) * ratio))
	learningDays = min(max(learningDays, 1), n)
	for j := 0; j < learningDays; j++ {
		res.Slots += max(0, b.cfg.DailyCap-load[j]-reserved[j])
	}

	// Phase 1: one NewTopic per topic on successive days, wrapping inside
	// the learning window.
	var placed []placement
	cursor := 0
	for _, t := range req.Topics {
		day := -1
		for k := 0; k < learningDays; k++ {
			j := (cursor + k) % learningDays
			if free(j) {
				day = j
				break
			}
		}
		if day < 0 {
			res.Unplaced = append(res.Unplaced, t)
			continue
		}
		cursor = (day + 1) % learningDays

		dur := b.cfg.TopicDuration(t, req.Plan)
		res.Sessions = append(res.Sessions, b.session(req.Plan, &t, subjectNames[t.SubjectID],
			req.Calendar[day], plan.KindNewTopic, dur, t.CalculatedPriority))
		load[day]++
		res.FirstStudy[t.ID] = day
		placed = append(placed, placement{topic: t, day: day, duration: dur})
	}

	// Phase 2: reviews at fixed calendar-index offsets from first study.
	for _, p := range placed {
		for _, off := range b.cfg.ReviewOffsets {
			j := p.day + off
			if j >= n || !free(j) {
				continue
			}
			t := p.topic
			res.Sessions = append(res.Sessions, b.session(req.Plan, &t, subjectNames[t.SubjectID],
				req.Calendar[j], plan.ReviewKind(off), b.cfg.ReviewDuration(p.duration),
				t.CalculatedPriority*b.cfg.ReviewPriorityFactor))
			load[j]++
		}
	}

	// Phase 3: rehearsals on their reserved slots.
	for i, idx := range milestones {
		reserved[idx]--
		if load[idx] >= b.cfg.DailyCap {
			continue
		}
		kind := plan.KindTargetedRehearsal
		if b.cfg.Rehearsals[i].Full {
			kind = plan.KindFullRehearsal
		}
		res.Sessions = append(res.Sessions, b.session(req.Plan, nil, RehearsalSubject,
			req.Calendar[idx], kind, b.cfg.RehearsalDuration(req.Plan), b.cfg.RehearsalPriority))
		load[idx]++
	}

	SortSessions(res.Sessions)
	res.Coverage = Coverage(res.Sessions, len(req.Topics))
	return res
}

func (b *Builder) session(p *plan.Plan, t *plan.Topic, subject string, date time.Time,
	kind plan.Kind, duration int, priority float64) plan.Session {
	s := plan.Session{
		ID:              b.newID(),
		PlanID:          p.ID,
		Subject:         subject,
		Date:            plan.Day(date),
		Kind:            kind,
		Status:          plan.StatusPending,
		DurationMinutes: duration,
		Priority:        priority,
	}
	if t != nil {
		s.TopicID = plan.TopicRef(t.ID)
	}
	return s
}

func milestoneIndex(fraction float64, n int) int {
	idx := int(math.Floor(fraction * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// SortSessions orders sessions by date ascending, then priority descending.
func SortSessions(sessions []plan.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.Before(sessions[j].Date)
		}
		return sessions[i].Priority > sessions[j].Priority
	})
}

// Coverage is the fraction of totalTopics that have a NewTopic session.
func Coverage(sessions []plan.Session, totalTopics int) float64 {
	if totalTopics <= 0 {
		return 0
	}
	seen := make(map[int64]bool)
	for _, s := range sessions {
		if s.Kind == plan.KindNewTopic && s.TopicID != nil {
			seen[*s.TopicID] = true
		}
	}
	c := float64(len(seen)) / float64(totalTopics)
	if c > 1 {
		c = 1
	}
	return c
}

// DailyLoad counts sessions per civil date.
func DailyLoad(sessions []plan.Session) map[time.Time]int {
	load := make(map[time.Time]int)
	for _, s := range sessions {
		load[plan.Day(s.Date)]++
	}
	return load
}
