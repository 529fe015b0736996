package store

import (
	"context"
	"errors"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// ErrNotFound is returned by lookups of absent keys.
var ErrNotFound = errors.New("store: not found")

// SessionRepo persists sessions. Each call is atomic on its own; there are no
// cross-entity transactions. Callers filter LoadSessions in memory.
type SessionRepo interface {
	LoadSessions(ctx context.Context) ([]domain.Session, error)
	SaveSession(ctx context.Context, s domain.Session) error
	DeleteSession(ctx context.Context, id string) error
}

// ScheduleRepo persists per-user weekday subscriptions keyed by user.
type ScheduleRepo interface {
	LoadSchedules(ctx context.Context) ([]domain.Schedule, error)
	// LoadSchedule returns ErrNotFound when the user has no schedule.
	LoadSchedule(ctx context.Context, user string) (domain.Schedule, error)
	SaveSchedule(ctx context.Context, s domain.Schedule) error
	DeleteSchedule(ctx context.Context, user string) error
}

// Repo is the full storage surface used by the application.
type Repo interface {
	SessionRepo
	ScheduleRepo
	Close() error
}

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Open returns the repository for driver, creating the database at path when
// the driver is file-backed.
func Open(ctx context.Context, driver, path string) (Repo, error) {
	switch driver {
	case DriverSQLite, "":
		repo, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverBolt:
		repo, err := OpenBolt(path)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, errors.New("store: unknown driver " + driver)
	}
}
