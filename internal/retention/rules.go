package retention

import (
	"time"

	"cloud.google.com/go/civil"
)

// Rule identifies the retention window that kept an archive.
type Rule int

const (
	Daily Rule = iota
	Weekly
	Monthly
	Yearly
)

func (r Rule) String() string {
	switch r {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// Policy holds the width of each retention window.
type Policy struct {
	Days   int
	Weeks  int
	Months int
	Years  int
}

// Retains reports whether date falls in any retention window relative to
// today, and the first rule that matched. Rules are checked daily, weekly,
// monthly then yearly.
func (p Policy) Retains(date, today civil.Date) (Rule, bool) {
	switch {
	case IsDaily(date, p.Days, today):
		return Daily, true
	case IsSunday(date, p.Weeks, today):
		return Weekly, true
	case IsFirstOfMonth(date, p.Months, today):
		return Monthly, true
	case IsFirstOfYear(date, p.Years, today):
		return Yearly, true
	}
	return 0, false
}

// IsDaily reports whether date is on or after today minus n days.
// today itself always matches, whatever n.
func IsDaily(date civil.Date, n int, today civil.Date) bool {
	return !date.Before(today.AddDays(-n))
}

// IsSunday reports whether date is the Sunday starting today's week or one
// of the n-1 weeks before it.
func IsSunday(date civil.Date, n int, today civil.Date) bool {
	sunday := startOfWeek(today)
	for i := 0; i < n; i++ {
		if sunday.AddDays(-7*i) == date {
			return true
		}
	}
	return false
}

// IsFirstOfMonth reports whether date is the first day of today's month or
// of one of the n-1 months before it.
func IsFirstOfMonth(date civil.Date, n int, today civil.Date) bool {
	for i := 0; i < n; i++ {
		first := civil.DateOf(time.Date(today.Year, today.Month-time.Month(i), 1, 0, 0, 0, 0, time.UTC))
		if first == date {
			return true
		}
	}
	return false
}

// IsFirstOfYear reports whether date is January 1 of today's year or of one
// of the n-1 years before it.
func IsFirstOfYear(date civil.Date, n int, today civil.Date) bool {
	for i := 0; i < n; i++ {
		first := civil.Date{Year: today.Year - i, Month: time.January, Day: 1}
		if first == date {
			return true
		}
	}
	return false
}

func startOfWeek(d civil.Date) civil.Date {
	return d.AddDays(-int(d.In(time.UTC).Weekday()))
}
