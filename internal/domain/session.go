package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time in 24h local time.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Valid reports whether the hour is in [0,23] and the minute in [0,59].
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Session is one materialized bootcamp occurrence.
type Session struct {
	ID   string `json:"id"`
	Date Date   `json:"date"`
	// Time is nil for sessions created before sessions had a time of day.
	Time         *TimeOfDay `json:"time,omitempty"`
	Participants []string   `json:"participants"`
	// Limit caps the number of participants; nil or <= 0 means unlimited.
	Limit *int `json:"limit,omitempty"`
	// Handle correlates the session with its posted chat message.
	Handle string `json:"handle,omitempty"`
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	out := s
	if s.Time != nil {
		t := *s.Time
		out.Time = &t
	}
	if s.Limit != nil {
		l := *s.Limit
		out.Limit = &l
	}
	out.Participants = append([]string(nil), s.Participants...)
	return out
}

// Matches reports whether s is the occurrence of (date, tod).
func (s Session) Matches(date Date, tod TimeOfDay) bool {
	return s.Date == date && s.Time != nil && *s.Time == tod
}

// Start returns the session's start instant in loc. Sessions without a time of
// day report false.
func (s Session) Start(loc *time.Location) (time.Time, bool) {
	if s.Time == nil {
		return time.Time{}, false
	}
	return s.Date.At(*s.Time, loc), true
}

// HasParticipant reports whether user is on the list.
func (s Session) HasParticipant(user string) bool {
	for _, p := range s.Participants {
		if p == user {
			return true
		}
	}
	return false
}

// Capacity returns the participant limit and whether one is set.
func (s Session) Capacity() (int, bool) {
	if s.Limit == nil || *s.Limit <= 0 {
		return 0, false
	}
	return *s.Limit, true
}

// Full reports whether a limit is set and reached.
func (s Session) Full() bool {
	limit, ok := s.Capacity()
	return ok && len(s.Participants) >= limit
}

// AddParticipant appends user unless already present. It returns whether the
// list changed. Capacity is not checked here.
func (s *Session) AddParticipant(user string) bool {
	if s.HasParticipant(user) {
		return false
	}
	s.Participants = append(s.Participants, user)
	return true
}

// RemoveParticipant drops user, keeping the order of the others. It returns
// whether the list changed.
func (s *Session) RemoveParticipant(user string) bool {
	for i, p := range s.Participants {
		if p == user {
			s.Participants = append(s.Participants[:i:i], s.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// Dedupe removes repeated participants, keeping first appearances.
func (s *Session) Dedupe() {
	seen := make(map[string]struct{}, len(s.Participants))
	out := s.Participants[:0:0]
	for _, p := range s.Participants {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	s.Participants = out
}

// LessSession orders sessions by date, then time of day (untimed first), then id.
func LessSession(a, b Session) bool {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c < 0
	}
	switch {
	case a.Time == nil && b.Time != nil:
		return true
	case a.Time != nil && b.Time == nil:
		return false
	case a.Time != nil && b.Time != nil && *a.Time != *b.Time:
		return a.Time.Minutes() < b.Time.Minutes()
	}
	return a.ID < b.ID
}
