package schedule

import (
	"strings"
	"time"
)

var weekdayNumbers = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// WeekdayNumber maps an english day name to its number, 0 = Sunday. The
// lookup is case-insensitive. Unrecognized names fall back to Monday so a
// contract with one misspelled day still expands; ok reports whether the
// name was recognized.
func WeekdayNumber(name string) (number int, ok bool) {
	if n, found := weekdayNumbers[strings.ToLower(strings.TrimSpace(name))]; found {
		return n, true
	}
	return weekdayNumbers["monday"], false
}

// NextOccurrenceOnOrAfter returns the smallest date >= date whose weekday
// equals weekday. Month and year rollover is plain calendar arithmetic.
func NextOccurrenceOnOrAfter(date time.Time, weekday int) time.Time {
	delta := (weekday - int(date.Weekday()) + 7) % 7
	return date.AddDate(0, 0, delta)
}
