package revenue

import (
	"fmt"
	"time"

	"github.com/tutorapp/tutorapp/pkg/models/domain"
)

// defaultWindow is how many periods a request without explicit dates covers,
// counting the current one.
var defaultWindow = map[domain.Granularity]int{
	domain.GranularityDay:     30,
	domain.GranularityWeek:    12,
	domain.GranularityMonth:   12,
	domain.GranularityQuarter: 4,
	domain.GranularityYear:    5,
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// PeriodStart truncates t to the first day of its period. Weeks start on
// Monday as in ISO 8601.
func PeriodStart(t time.Time, g domain.Granularity) time.Time {
	day := StartOfDay(t)
	y, m, _ := day.Date()
	loc := day.Location()

	switch g {
	case domain.GranularityDay:
		return day
	case domain.GranularityWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.GranularityQuarter:
		first := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, loc)
	case domain.GranularityYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// PeriodKey labels the period containing t.
func PeriodKey(t time.Time, g domain.Granularity) string {
	start := PeriodStart(t, g)
	switch g {
	case domain.GranularityDay, domain.GranularityWeek:
		return start.Format("2006-01-02")
	case domain.GranularityQuarter:
		return fmt.Sprintf("%d-Q%d", start.Year(), (int(start.Month())-1)/3+1)
	case domain.GranularityYear:
		return start.Format("2006")
	default:
		return start.Format("2006-01")
	}
}

// AddPeriods moves a period start by n periods.
func AddPeriods(start time.Time, g domain.Granularity, n int) time.Time {
	switch g {
	case domain.GranularityDay:
		return start.AddDate(0, 0, n)
	case domain.GranularityWeek:
		return start.AddDate(0, 0, 7*n)
	case domain.GranularityQuarter:
		return start.AddDate(0, 3*n, 0)
	case domain.GranularityYear:
		return start.AddDate(n, 0, 0)
	default:
		return start.AddDate(0, n, 0)
	}
}

// DefaultPeriod returns the window used when a request names no dates: the
// last periods of the granularity up to the end of the current one, so that
// upcoming lessons of the current period show as projected revenue.
func DefaultPeriod(now time.Time, g domain.Granularity) domain.TimePeriod {
	n, ok := defaultWindow[g]
	if !ok {
		n = defaultWindow[domain.GranularityMonth]
	}
	current := PeriodStart(now, g)
	return domain.TimePeriod{
		Start: AddPeriods(current, g, -(n - 1)),
		End:   EndOfDay(AddPeriods(current, g, 1).AddDate(0, 0, -1)),
	}
}

// NormalizePeriod widens p to whole days: start of its first day to the end
// of its last day.
func NormalizePeriod(p domain.TimePeriod) domain.TimePeriod {
	return domain.TimePeriod{Start: StartOfDay(p.Start), End: EndOfDay(p.End)}
}
