package usage

import "time"

const periodKeyLayout = "2006-01"

// Period is a calendar month in UTC, [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

func CurrentPeriod(now time.Time) Period {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

// Key identifies the period, e.g. "2025-03".
func (p Period) Key() string {
	return p.Start.Format(periodKeyLayout)
}
