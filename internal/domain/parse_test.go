package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"tuesday":  time.Tuesday,
		"Tuesday":  time.Tuesday,
		"TUE":      time.Tuesday,
		"tuesdays": time.Tuesday,
		"thu":      time.Thursday,
		"sun":      time.Sunday,
		" monday ": time.Monday,
	}
	for in, want := range cases {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: want %s, got %s", in, want, got)
		}
	}
	for _, in := range []string{"", "tu", "funday", "2025-06-02"} {
		if _, err := ParseWeekday(in); !errors.Is(err, ErrInvalidWeekday) {
			t.Fatalf("%q: want ErrInvalidWeekday, got %v", in, err)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("7:05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != (TimeOfDay{Hour: 7, Minute: 5}) || got.String() != "07:05" {
		t.Fatalf("unexpected %v", got)
	}
	for _, in := range []string{"24:00", "12:60", "1200", "ab:cd", ""} {
		if _, err := ParseTimeOfDay(in); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("%q: want ErrInvalidTime, got %v", in, err)
		}
	}
}

func TestResolveDate(t *testing.T) {
	today := NewDate(2025, time.June, 2) // Monday
	cases := map[string]Date{
		"today":      today,
		"tomorrow":   NewDate(2025, time.June, 3),
		"monday":     today,
		"wednesday":  NewDate(2025, time.June, 4),
		"sunday":     NewDate(2025, time.June, 8),
		"2025-07-01": NewDate(2025, time.July, 1),
	}
	for in, want := range cases {
		got, err := ResolveDate(in, today)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: want %s, got %s", in, want, got)
		}
	}
	if _, err := ResolveDate("someday", today); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("want ErrInvalidDate, got %v", err)
	}
}

func TestParseYearMonth(t *testing.T) {
	y, m, err := ParseYearMonth("2025-06")
	if err != nil || y != 2025 || m != time.June {
		t.Fatalf("got %d %s %v", y, m, err)
	}
	if _, _, err := ParseYearMonth("June"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("want ErrInvalidDate, got %v", err)
	}
}
