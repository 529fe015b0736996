package bootcamp

import (
	"context"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// Presenter posts and re-renders sessions in the chat.
type Presenter interface {
	// Present posts a session for the first time and returns the handle of the
	// posted message.
	Present(ctx context.Context, s domain.Session) (string, error)
	// Update re-renders an already posted session. Sessions without a handle
	// are left alone.
	Update(ctx context.Context, s domain.Session) error
}

// LeaderboardPresenter publishes a monthly leaderboard.
type LeaderboardPresenter interface {
	PresentLeaderboard(ctx context.Context, lb domain.Leaderboard) error
}

// NoopPresenter is used when the service runs without a chat transport.
type NoopPresenter struct{}

func (NoopPresenter) Present(context.Context, domain.Session) (string, error) { return "", nil }
func (NoopPresenter) Update(context.Context, domain.Session) error            { return nil }
func (NoopPresenter) PresentLeaderboard(context.Context, domain.Leaderboard) error {
	return nil
}
