package scheduler

import (
	"time"

	"github.com/abhisek/studyplan/internal/plan"
)

// DefaultPattern is used for unknown weekday pattern codes.
const DefaultPattern = 5

var weekdayPatterns = map[int][]time.Weekday{
	1: {time.Monday},
	2: {time.Monday, time.Thursday},
	3: {time.Monday, time.Wednesday, time.Friday},
	4: {time.Monday, time.Tuesday, time.Thursday, time.Friday},
	5: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
	6: {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	7: {time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
}

// StudyWeekdays returns the weekday set for a days-per-week pattern code.
func StudyWeekdays(pattern int) []time.Weekday {
	if days, ok := weekdayPatterns[pattern]; ok {
		return days
	}
	return weekdayPatterns[DefaultPattern]
}

// IsStudyDay reports whether t falls on a weekday of the pattern.
func IsStudyDay(t time.Time, pattern int) bool {
	wd := t.Weekday()
	for _, d := range StudyWeekdays(pattern) {
		if d == wd {
			return true
		}
	}
	return false
}

// BuildCalendar lists the study dates from tomorrow (inclusive) up to the
// exam date (exclusive) whose weekday is in the pattern.
func BuildCalendar(today, examDate time.Time, pattern int) []time.Time {
	exam := plan.Day(examDate)
	var days []time.Time
	for d := plan.AddDays(today, 1); d.Before(exam); d = d.AddDate(0, 0, 1) {
		if IsStudyDay(d, pattern) {
			days = append(days, d)
		}
	}
	return days
}
