// Package streak derives engagement statistics from activity history.
//
// Everything here is a pure function of its inputs: no clocks, no I/O,
// no shared state. The reference instant is always passed in by the
// caller, which keeps the calculations deterministic and concurrently
// invocable without coordination.
package streak

import (
	"sort"
	"time"
)

// DefaultCalendarWindowDays bounds the trailing calendar aggregation.
const DefaultCalendarWindowDays = 30

// Record is the minimal view of an activity the engine consumes. The
// engine is a leaf: callers map their own activity type onto it.
type Record struct {
	Type       string
	Duration   int
	Calories   *int
	OccurredAt time.Time
}

// Result holds the streak counters for a single user.
// Longest is always >= Current: a non-zero current streak is itself one
// of the maximal runs considered for Longest.
type Result struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// Summary is the per-activity entry shown on the calendar view.
type Summary struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Calories *int   `json:"calories"`
}

// Calendar maps an ISO date (2006-01-02) to the activities logged that
// day, in log order.
type Calendar map[string][]Summary

// dateOf truncates a timestamp to its UTC calendar day (midnight UTC).
// Two instants on the same UTC day always map to the same value.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Dates normalizes activity records into the set of distinct UTC
// calendar days with at least one logged activity.
func Dates(records []Record) map[time.Time]struct{} {
	dates := make(map[time.Time]struct{}, len(records))
	for _, record := range records {
		dates[dateOf(record.OccurredAt)] = struct{}{}
	}
	return dates
}

// Compute calculates the current and longest streak for a date set
// relative to now.
//
// The current streak walks backwards day by day from today. A user who
// has not logged anything yet today gets a one-day grace period: the
// walk restarts from yesterday, so the streak only breaks once a full
// calendar day passes with no entry.
func Compute(dates map[time.Time]struct{}, now time.Time) Result {
	today := dateOf(now)

	current := 0
	cursor := today
	for {
		if _, ok := dates[cursor]; !ok {
			break
		}
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}

	if current == 0 {
		yesterday := today.AddDate(0, 0, -1)
		if _, ok := dates[yesterday]; ok {
			current = 1
			cursor = yesterday.AddDate(0, 0, -1)
			for {
				if _, ok := dates[cursor]; !ok {
					break
				}
				current++
				cursor = cursor.AddDate(0, 0, -1)
			}
		}
	}

	return Result{
		Current: current,
		Longest: longestRun(dates),
	}
}

// longestRun scans the dates in descending order counting maximal runs
// of consecutive days.
func longestRun(dates map[time.Time]struct{}) int {
	if len(dates) == 0 {
		return 0
	}

	sorted := make([]time.Time, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	longest := 0
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Sub(sorted[i]) == 24*time.Hour {
			run++
			continue
		}
		if run > longest {
			longest = run
		}
		run = 1
	}
	if run > longest {
		longest = run
	}
	return longest
}

// BuildCalendar groups activities by UTC calendar day over a trailing
// window of windowDays measured from now. Records older than the window
// are silently excluded; records on the same day all appear under that
// day's key in input order. Unlike the streak date set, no
// deduplication happens here.
func BuildCalendar(records []Record, now time.Time, windowDays int) Calendar {
	cutoff := dateOf(now).AddDate(0, 0, -windowDays)

	calendar := make(Calendar)
	for _, record := range records {
		day := dateOf(record.OccurredAt)
		if day.Before(cutoff) {
			continue
		}
		key := day.Format("2006-01-02")
		calendar[key] = append(calendar[key], Summary{
			Type:     record.Type,
			Duration: record.Duration,
			Calories: record.Calories,
		})
	}
	return calendar
}
