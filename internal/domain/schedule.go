package domain

import "time"

// Schedule is a user's standing opt-in to every session on one weekday.
// A user has at most one; saving a new one replaces the old.
type Schedule struct {
	User    string       `json:"user"`
	Weekday time.Weekday `json:"weekday"`
}

// Leaderboard is the ranked monthly attendance view. It is never stored.
type Leaderboard struct {
	Year    int                `json:"year"`
	Month   time.Month         `json:"month"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry is one participant's monthly attendance.
// Participants with equal counts share a rank (1, 2, 2, 4).
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Participant string `json:"participant"`
	Attendances int    `json:"attendances"`
}

// Total sums attendances over all entries.
func (l Leaderboard) Total() int {
	n := 0
	for _, e := range l.Entries {
		n += e.Attendances
	}
	return n
}

// Find returns the entry for participant, if ranked.
func (l Leaderboard) Find(participant string) (LeaderboardEntry, bool) {
	for _, e := range l.Entries {
		if e.Participant == participant {
			return e, true
		}
	}
	return LeaderboardEntry{}, false
}
