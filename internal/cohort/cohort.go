// Package cohort partitions flat record sequences into ordered display
// buckets: attendance records into weekly cohorts keyed by week start, and
// sections into weekday buckets. Grouping is a pure projection; malformed
// keys are a contract violation of the caller, never an error here.
package cohort

import (
	"sort"
	"time"

	"github.com/csmentors/scheduler-api/internal/models"
)

// WeekKeyLayout is the ISO date layout weekly cohort keys render as.
const WeekKeyLayout = "2006-01-02"

// GroupBy buckets records by key, preserving each record's relative order
// within its bucket as it appeared in the input. Keys come back in
// first-seen order. An empty input yields an empty grouping.
func GroupBy[K comparable, T any](records []T, key func(T) K) (map[K][]T, []K) {
	groups := make(map[K][]T, len(records))
	var keys []K
	for _, rec := range records {
		k := key(rec)
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], rec)
	}
	return groups, keys
}

// Weekly is attendance partitioned into weekly cohorts. Keys are ISO week
// start dates ordered most recent first.
type Weekly struct {
	Keys   []string
	Groups map[string][]models.AttendanceRecord
}

// Weeks groups attendance records by week start. The whole flat sequence is
// reversed before grouping, so the most recently recorded entries surface
// first within each cohort and the first key is the most recent week. The
// reversal is applied to the full input, not per group.
func Weeks(records []models.AttendanceRecord) Weekly {
	reversed := make([]models.AttendanceRecord, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}
	groups, keys := GroupBy(reversed, func(r models.AttendanceRecord) string {
		return r.WeekStart().Format(WeekKeyLayout)
	})
	return Weekly{Keys: keys, Groups: groups}
}

// ByDay is a section listing partitioned by weekday.
type ByDay struct {
	Days   []models.DayOfWeek
	Groups map[models.DayOfWeek][]models.SectionDetail
}

// SectionsByDay groups sections by the weekday of their effective spacetime.
// Days are ordered Monday through Sunday regardless of input order; sections
// within a day sort ascending by start time, ties keeping input order.
func SectionsByDay(sections []models.SectionDetail, now time.Time) ByDay {
	day := func(s models.SectionDetail) models.DayOfWeek {
		return s.Spacetime.Effective(s.Override, now).DayOfWeek
	}
	groups, days := GroupBy(sections, day)

	sort.Slice(days, func(i, j int) bool {
		return models.DayNumber(days[i]) < models.DayNumber(days[j])
	})
	for _, d := range days {
		bucket := groups[d]
		sort.SliceStable(bucket, func(i, j int) bool {
			left := bucket[i].Spacetime.Effective(bucket[i].Override, now).StartTime
			right := bucket[j].Spacetime.Effective(bucket[j].Override, now).StartTime
			return left < right
		})
	}
	return ByDay{Days: days, Groups: groups}
}
