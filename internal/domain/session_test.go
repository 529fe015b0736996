package domain

import (
	"errors"
	"sort"
	"testing"
	"time"
)

func intp(n int) *int { return &n }

func TestSession_AddRemoveKeepsOrder(t *testing.T) {
	s := Session{ID: "s1", Participants: []string{}}
	if !s.AddParticipant("A") || !s.AddParticipant("B") || !s.AddParticipant("C") {
		t.Fatalf("adds should change the list")
	}
	if s.AddParticipant("B") {
		t.Fatalf("second add of B should be a no-op")
	}
	if !s.RemoveParticipant("A") {
		t.Fatalf("remove A should change the list")
	}
	if s.RemoveParticipant("A") {
		t.Fatalf("second remove of A should be a no-op")
	}
	if got := s.Participants; len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Fatalf("want [B C], got %v", got)
	}
}

func TestSession_RemoveDoesNotAliasClone(t *testing.T) {
	s := Session{Participants: []string{"A", "B", "C"}}
	c := s.Clone()
	c.RemoveParticipant("A")
	if s.Participants[0] != "A" {
		t.Fatalf("original was modified: %v", s.Participants)
	}
}

func TestSession_Capacity(t *testing.T) {
	s := Session{Participants: []string{"A", "B"}}
	if s.Full() {
		t.Fatalf("no limit means never full")
	}
	s.Limit = intp(0)
	if _, ok := s.Capacity(); ok || s.Full() {
		t.Fatalf("zero limit means unlimited")
	}
	s.Limit = intp(2)
	if !s.Full() {
		t.Fatalf("2/2 should be full")
	}
}

func TestSession_Dedupe(t *testing.T) {
	s := Session{Participants: []string{"A", "B", "A", "C", "B"}}
	s.Dedupe()
	if got := s.Participants; len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Fatalf("want [A B C], got %v", got)
	}
}

func TestLessSession(t *testing.T) {
	mon := NewDate(2025, time.June, 2)
	tue := mon.Tomorrow()
	seven := TimeOfDay{Hour: 7}
	five := TimeOfDay{Hour: 17}
	list := []Session{
		{ID: "d", Date: tue, Time: &five},
		{ID: "c", Date: tue, Time: &seven},
		{ID: "b", Date: mon, Time: &five},
		{ID: "a", Date: mon},
	}
	sort.Slice(list, func(i, j int) bool { return LessSession(list[i], list[j]) })
	want := "abcd"
	for i, s := range list {
		if s.ID != string(want[i]) {
			t.Fatalf("position %d: want %c, got %s", i, want[i], s.ID)
		}
	}
}

func TestNewTemplate_Validates(t *testing.T) {
	if _, err := NewTemplate(Slot{Weekday: time.Monday, Time: TimeOfDay{Hour: 25}}); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("want ErrInvalidTime, got %v", err)
	}
	if _, err := NewTemplate(Slot{Weekday: 9, Time: TimeOfDay{Hour: 7}}); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("want ErrInvalidWeekday, got %v", err)
	}

	tpl := DefaultTemplate()
	if tpl.Len() != 5 || !tpl.HasWeekday(time.Tuesday) || tpl.HasWeekday(time.Friday) {
		t.Fatalf("unexpected default template %v", tpl.Slots())
	}
	slots := tpl.Slots()
	slots[0].Time.Hour = 3
	if tpl.Slots()[0].Time.Hour != 17 {
		t.Fatalf("Slots must return a copy")
	}
}

func TestLeaderboard_TotalAndFind(t *testing.T) {
	lb := Leaderboard{Entries: []LeaderboardEntry{
		{Rank: 1, Participant: "A", Attendances: 3},
		{Rank: 2, Participant: "B", Attendances: 1},
	}}
	if lb.Total() != 4 {
		t.Fatalf("total: got %d", lb.Total())
	}
	if e, ok := lb.Find("B"); !ok || e.Rank != 2 {
		t.Fatalf("find B: %v %v", e, ok)
	}
	if _, ok := lb.Find("Z"); ok {
		t.Fatalf("Z should not be ranked")
	}
}
