package bootcamp

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// Rank counts, per participant, the sessions in the given month they were on.
// Entries are ordered by attendance descending, then participant id ascending;
// equal attendance shares a rank. A participant listed twice on one session
// counts once for it.
func Rank(sessions []domain.Session, year int, month time.Month) domain.Leaderboard {
	counts := make(map[string]int)
	for _, sess := range sessions {
		if !sess.Date.InMonth(year, month) {
			continue
		}
		seen := make(map[string]struct{}, len(sess.Participants))
		for _, p := range sess.Participants {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			counts[p]++
		}
	}

	entries := make([]domain.LeaderboardEntry, 0, len(counts))
	for p, n := range counts {
		entries = append(entries, domain.LeaderboardEntry{Participant: p, Attendances: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Attendances != entries[j].Attendances {
			return entries[i].Attendances > entries[j].Attendances
		}
		return entries[i].Participant < entries[j].Participant
	})
	for i := range entries {
		if i > 0 && entries[i].Attendances == entries[i-1].Attendances {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return domain.Leaderboard{Year: year, Month: month, Entries: entries}
}

// Leaderboard computes the attendance ranking for a month from all stored
// sessions. It only reads.
func (s *Service) Leaderboard(ctx context.Context, year int, month time.Month) (domain.Leaderboard, error) {
	all, err := s.sessions.LoadSessions(ctx)
	if err != nil {
		return domain.Leaderboard{}, &domain.PersistenceError{Op: "load sessions", Err: err}
	}
	return Rank(all, year, month), nil
}

// Standing returns user's entry in the month's leaderboard; ok is false when
// the user has no attendance that month.
func (s *Service) Standing(ctx context.Context, year int, month time.Month, user string) (domain.LeaderboardEntry, bool, error) {
	lb, err := s.Leaderboard(ctx, year, month)
	if err != nil {
		return domain.LeaderboardEntry{}, false, err
	}
	e, ok := lb.Find(user)
	return e, ok, nil
}

// PostLeaderboard publishes the month's leaderboard through the leaderboard
// presenter.
func (s *Service) PostLeaderboard(ctx context.Context, year int, month time.Month) error {
	lb, err := s.Leaderboard(ctx, year, month)
	if err != nil {
		return err
	}
	if err := s.boards.PresentLeaderboard(ctx, lb); err != nil {
		return err
	}
	s.log.Info("leaderboard posted",
		zap.Int("year", year),
		zap.Stringer("month", month),
		zap.Int("entries", len(lb.Entries)),
	)
	return nil
}

// PostPreviousMonth publishes the leaderboard of the month before now.
func (s *Service) PostPreviousMonth(ctx context.Context) error {
	today := s.Today()
	prev := domain.NewDate(today.Year, today.Month-1, 1)
	return s.PostLeaderboard(ctx, prev.Year, prev.Month)
}
