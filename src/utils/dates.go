package utils

import (
	"fmt"
	"hrc/src/config"
	"time"

	jnow "github.com/jinzhu/now"
)

// CalendarDate strips the clock from t, keeping the calendar day as seen in
// t's location. Dates are stored as UTC midnights.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(config.DATE_FORMAT, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(config.DATE_FORMAT)
}

// DayRange returns the first and last instant of the UTC day containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	n := jnow.With(t.UTC())
	return n.BeginningOfDay().UTC(), n.EndOfDay().UTC()
}
