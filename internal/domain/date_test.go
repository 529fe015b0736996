package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDate_AddDaysAcrossMonthAndYear(t *testing.T) {
	cases := []struct {
		from Date
		n    int
		want Date
	}{
		{NewDate(2025, time.January, 31), 1, NewDate(2025, time.February, 1)},
		{NewDate(2024, time.February, 28), 1, NewDate(2024, time.February, 29)},
		{NewDate(2025, time.December, 31), 1, NewDate(2026, time.January, 1)},
		{NewDate(2025, time.March, 1), -1, NewDate(2025, time.February, 28)},
		{NewDate(2025, time.June, 2), 7, NewDate(2025, time.June, 9)},
	}
	for _, c := range cases {
		if got := c.from.AddDays(c.n); got != c.want {
			t.Fatalf("%s + %d: want %s, got %s", c.from, c.n, c.want, got)
		}
	}
}

func TestDate_NewDateNormalizes(t *testing.T) {
	got := NewDate(2025, time.January, 32)
	if want := (Date{Year: 2025, Month: time.February, Day: 1}); got != want {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestDate_DaysUntilNext(t *testing.T) {
	monday := NewDate(2025, time.June, 2)
	if monday.Weekday() != time.Monday {
		t.Fatalf("2025-06-02 should be a Monday, got %s", monday.Weekday())
	}
	if n := monday.DaysUntilNext(time.Monday); n != 0 {
		t.Fatalf("same weekday: want 0, got %d", n)
	}
	if n := monday.DaysUntilNext(time.Tuesday); n != 1 {
		t.Fatalf("tuesday: want 1, got %d", n)
	}
	if n := monday.DaysUntilNext(time.Sunday); n != 6 {
		t.Fatalf("sunday: want 6, got %d", n)
	}
}

func TestDate_CompareAndToday(t *testing.T) {
	a := NewDate(2025, time.June, 2)
	b := NewDate(2025, time.July, 1)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatalf("unexpected compare results")
	}

	ams, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	// 23:30 UTC on the 2nd is already the 3rd in Amsterdam (UTC+2 in summer).
	now := time.Date(2025, time.June, 2, 23, 30, 0, 0, time.UTC)
	if got := Today(now, ams); got != NewDate(2025, time.June, 3) {
		t.Fatalf("want 2025-06-03, got %s", got)
	}
}

func TestDate_FormattingAndJSON(t *testing.T) {
	d := NewDate(2025, time.June, 2)
	if d.String() != "2025-06-02" {
		t.Fatalf("String: got %s", d)
	}
	if d.Human() != "Mon 2 Jun" {
		t.Fatalf("Human: got %s", d.Human())
	}

	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{d})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"d":"2025-06-02"}` {
		t.Fatalf("json: got %s", b)
	}
}

func TestParseISODate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "2025-02-30", "02-06-2025"} {
		if _, err := ParseISODate(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: want ErrInvalidDate, got %v", s, err)
		}
	}
}
