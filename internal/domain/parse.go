package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full or three-letter English weekday names, case-insensitive,
// with an optional plural "s" ("tuesdays").
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidWeekday)
	}
	if w, ok := weekdayNames[s]; ok {
		return w, nil
	}
	if w, ok := weekdayNames[strings.TrimSuffix(s, "s")]; ok {
		return w, nil
	}
	if len(s) >= 3 {
		for name, w := range weekdayNames {
			if strings.HasPrefix(name, s) {
				return w, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// ParseTimeOfDay parses "HH:MM" (24h). "7:00" is accepted.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, err := parseHHMM(s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func parseHHMM(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, errors.New("expected HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, errors.New("invalid hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, errors.New("invalid minute")
	}
	return h, m, nil
}

// ResolveDate turns a user-supplied date word into a calendar date relative to
// today: "today", "tomorrow", a weekday name (the next such day, today
// included) or an ISO YYYY-MM-DD date.
func ResolveDate(s string, today Date) (Date, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return Date{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	case "today":
		return today, nil
	case "tomorrow":
		return today.Tomorrow(), nil
	}
	if w, err := ParseWeekday(s); err == nil {
		return today.AddDays(today.DaysUntilNext(w)), nil
	}
	return ParseISODate(s)
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Year(), t.Month(), nil
}
