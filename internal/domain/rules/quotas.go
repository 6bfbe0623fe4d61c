package rules

import "time"

const (
	// DefaultDailyLimit applies to members with no explicit or role limit.
	DefaultDailyLimit = 2
)

// DayKey is the calendar-day bucket used for quota accounting. It follows the
// process-local wall clock on purpose: usage resets at local midnight,
// independent of the timezone used for display formatting.
func DayKey(now time.Time) string {
	return now.Format("2006-01-02")
}
