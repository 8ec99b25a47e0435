// Package calendar holds the payroll-week date arithmetic used for the week-ending preview.
package calendar

import "time"

const DateLayout = "2006-01-02"

// WeekEnding returns the Sunday that closes the payroll week containing d: the next Sunday on or
// after d, or d itself when it is a Sunday. Only the calendar date of d in UTC is considered.
func WeekEnding(d time.Time) time.Time {
	d = d.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}

// WeekEndingString is WeekEnding over YYYY-MM-DD text. Empty input has no preview.
func WeekEndingString(date string) (string, error) {
	if date == "" {
		return "", nil
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return WeekEnding(d).Format(DateLayout), nil
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
