package booking

import (
	"math"
	"time"
)

// DateLayout is the calendar-date wire format used throughout the core.
const DateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// nightsBetween returns ceil((checkOut - checkIn) in days).
func nightsBetween(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// expandDays lists every calendar day from start to end inclusive. A
// zero-length range (start == end) yields a single day.
func expandDays(start, end string) []string {
	from, err := parseDate(start)
	if err != nil {
		return nil
	}
	to, err := parseDate(end)
	if err != nil || to.Before(from) {
		return nil
	}

	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}
