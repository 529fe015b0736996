package bootcamp

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// Sessions returns every stored session.
func (s *Service) Sessions(ctx context.Context) ([]domain.Session, error) {
	all, err := s.sessions.LoadSessions(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load sessions", Err: err}
	}
	return all, nil
}

// Session returns one session by id.
func (s *Service) Session(ctx context.Context, id string) (domain.Session, error) {
	return s.loadSession(ctx, id)
}

// PutSession replaces (or creates) the session stored under id. The id in the
// body is ignored and duplicate participants are dropped.
func (s *Service) PutSession(ctx context.Context, id string, sess domain.Session) (domain.Session, error) {
	if id == "" {
		return domain.Session{}, errors.New("session id is required")
	}
	if sess.Date.IsZero() {
		return domain.Session{}, fmt.Errorf("%w: session date is required", domain.ErrInvalidDate)
	}
	if sess.Time != nil && !sess.Time.Valid() {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrInvalidTime, sess.Time)
	}
	sess = sess.Clone()
	sess.ID = id
	if sess.Participants == nil {
		sess.Participants = []string{}
	}
	sess.Dedupe()

	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.saveSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	s.log.Info("session replaced", zap.String("session", id))
	s.update(ctx, sess)
	return sess, nil
}

// DeleteSession removes a session. Unknown ids yield domain.ErrNotFound.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.loadSession(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.DeleteSession(ctx, id); err != nil {
		return &domain.PersistenceError{Op: "delete session " + id, Err: err}
	}
	s.log.Info("session deleted", zap.String("session", id))
	return nil
}

// Schedules lists every subscription.
func (s *Service) Schedules(ctx context.Context) ([]domain.Schedule, error) {
	all, err := s.schedules.LoadSchedules(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "load schedules", Err: err}
	}
	return all, nil
}

// PurgeSchedules deletes every subscription and returns how many were removed.
// It stops at the first failed delete.
func (s *Service) PurgeSchedules(ctx context.Context) (int, error) {
	all, err := s.Schedules(ctx)
	if err != nil {
		return 0, err
	}
	for i, sched := range all {
		if err := s.schedules.DeleteSchedule(ctx, sched.User); err != nil {
			return i, &domain.PersistenceError{Op: "delete schedule " + sched.User, Err: err}
		}
	}
	if len(all) > 0 {
		s.log.Info("schedules purged", zap.Int("count", len(all)))
	}
	return len(all), nil
}
