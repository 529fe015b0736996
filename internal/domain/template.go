package domain

import (
	"fmt"
	"time"
)

// Slot is one recurring weekly occurrence of a bootcamp session.
type Slot struct {
	Weekday time.Weekday
	Time    TimeOfDay
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s", s.Weekday, s.Time)
}

// Template is the fixed weekly list of slots. It is built once at start-up and
// cannot be changed afterwards; Slots hands out copies.
type Template struct {
	slots []Slot
}

// NewTemplate validates and freezes the given slots, keeping their order.
func NewTemplate(slots ...Slot) (Template, error) {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
			return Template{}, fmt.Errorf("%w: %d", ErrInvalidWeekday, s.Weekday)
		}
		if !s.Time.Valid() {
			return Template{}, fmt.Errorf("%w: %s", ErrInvalidTime, s.Time)
		}
		out = append(out, s)
	}
	return Template{slots: out}, nil
}

// DefaultTemplate is the bootcamp timetable: Monday to Thursday at 17:00 and an
// extra Tuesday morning session at 07:00.
func DefaultTemplate() Template {
	return Template{slots: []Slot{
		{Weekday: time.Monday, Time: TimeOfDay{Hour: 17}},
		{Weekday: time.Tuesday, Time: TimeOfDay{Hour: 17}},
		{Weekday: time.Wednesday, Time: TimeOfDay{Hour: 17}},
		{Weekday: time.Thursday, Time: TimeOfDay{Hour: 17}},
		{Weekday: time.Tuesday, Time: TimeOfDay{Hour: 7}},
	}}
}

// Slots returns a copy of the template's slots in declaration order.
func (t Template) Slots() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// HasWeekday reports whether any slot falls on w.
func (t Template) HasWeekday(w time.Weekday) bool {
	for _, s := range t.slots {
		if s.Weekday == w {
			return true
		}
	}
	return false
}

// Len returns the number of slots.
func (t Template) Len() int { return len(t.slots) }
