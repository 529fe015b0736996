package bootcamp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
	"github.com/bitvavo/bootcamp-bot/internal/store"
)

// SessionRef points at a session either by id or by a date word plus an
// optional "HH:MM" time. The zero value means "the next upcoming session".
type SessionRef struct {
	ID   string
	Date string
	Time string
}

// ByID references a session by its id.
func ByID(id string) SessionRef { return SessionRef{ID: id} }

// ByDate references the session on a date word ("today", "tuesday",
// "2025-06-03") and, optionally, a time of day.
func ByDate(date, tod string) SessionRef { return SessionRef{Date: date, Time: tod} }

func (r SessionRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strings.TrimSpace(r.Date + " " + r.Time)
}

// Resolve finds the session ref points at.
//
// With a date, the session on that day with the requested time is chosen; if
// no time is given, the first one that has not started yet, or else the last
// one of the day. Without id or date, the next session that has not started
// yet is chosen.
func (s *Service) Resolve(ctx context.Context, ref SessionRef) (domain.Session, error) {
	if ref.ID != "" {
		return s.loadSession(ctx, ref.ID)
	}

	var (
		tod    domain.TimeOfDay
		hasTOD bool
	)
	if strings.TrimSpace(ref.Time) != "" {
		t, err := domain.ParseTimeOfDay(ref.Time)
		if err != nil {
			return domain.Session{}, err
		}
		tod, hasTOD = t, true
	}

	all, err := s.sessions.LoadSessions(ctx)
	if err != nil {
		return domain.Session{}, &domain.PersistenceError{Op: "load sessions", Err: err}
	}
	now := s.now().In(s.loc)
	today := domain.DateOf(now)

	if strings.TrimSpace(ref.Date) == "" && !hasTOD {
		if sess, ok := nextUpcoming(all, now, today, s.loc); ok {
			return sess, nil
		}
		return domain.Session{}, notFound("no upcoming session")
	}

	date := today
	if strings.TrimSpace(ref.Date) != "" {
		date, err = domain.ResolveDate(ref.Date, today)
		if err != nil {
			return domain.Session{}, err
		}
	}

	var onDate []domain.Session
	for _, sess := range all {
		if sess.Date != date {
			continue
		}
		if hasTOD && (sess.Time == nil || *sess.Time != tod) {
			continue
		}
		onDate = append(onDate, sess)
	}
	if len(onDate) == 0 {
		return domain.Session{}, notFound("no session on %s", date)
	}
	if sess, ok := nextUpcoming(onDate, now, today, s.loc); ok {
		return sess, nil
	}
	return onDate[len(onDate)-1], nil
}

// nextUpcoming returns the first session, in LoadSessions order, that has not
// started yet. Untimed sessions count as upcoming for the whole day.
func nextUpcoming(sessions []domain.Session, now time.Time, today domain.Date, loc *time.Location) (domain.Session, bool) {
	for _, sess := range sessions {
		if start, ok := sess.Start(loc); ok {
			if !start.Before(now) {
				return sess, true
			}
			continue
		}
		if !sess.Date.Before(today) {
			return sess, true
		}
	}
	return domain.Session{}, false
}

// Join adds user to the referenced session. Joining twice is a no-op; joining
// a full session fails with domain.ErrCapacityExceeded and changes nothing.
func (s *Service) Join(ctx context.Context, ref SessionRef, user string) (domain.Session, error) {
	return s.mutate(ctx, "join", ref, user, func(sess *domain.Session) (bool, error) {
		if sess.HasParticipant(user) {
			return false, nil
		}
		if sess.Full() {
			limit, _ := sess.Capacity()
			return false, fmt.Errorf("%w: %d/%d", domain.ErrCapacityExceeded, len(sess.Participants), limit)
		}
		return sess.AddParticipant(user), nil
	})
}

// Quit removes user from the referenced session. Quitting a session the user
// is not on is a no-op.
func (s *Service) Quit(ctx context.Context, ref SessionRef, user string) (domain.Session, error) {
	return s.mutate(ctx, "quit", ref, user, func(sess *domain.Session) (bool, error) {
		return sess.RemoveParticipant(user), nil
	})
}

// mutate runs fn on a fresh copy of the referenced session under that
// session's lock, then persists and re-renders it if fn changed anything.
func (s *Service) mutate(ctx context.Context, op string, ref SessionRef, user string, fn func(*domain.Session) (bool, error)) (domain.Session, error) {
	log := s.log.With(zap.String("op", op), zap.String("user", user), zap.Stringer("ref", ref))

	target, err := s.Resolve(ctx, ref)
	if err != nil {
		s.metrics.MembershipOp(op, resultOf(err))
		return domain.Session{}, err
	}

	unlock := s.locks.Lock(target.ID)
	defer unlock()

	sess, err := s.loadSession(ctx, target.ID)
	if err != nil {
		s.metrics.MembershipOp(op, resultOf(err))
		return domain.Session{}, err
	}

	changed, err := fn(&sess)
	if err != nil {
		s.metrics.MembershipOp(op, resultOf(err))
		log.Info("membership rejected", zap.String("session", sess.ID), zap.Error(err))
		return sess, err
	}
	if !changed {
		s.metrics.MembershipOp(op, "noop")
		return sess, nil
	}

	if err := s.saveSession(ctx, sess); err != nil {
		s.metrics.MembershipOp(op, resultOf(err))
		log.Error("membership save failed", zap.String("session", sess.ID), zap.Error(err))
		return domain.Session{}, err
	}
	s.metrics.MembershipOp(op, "ok")
	log.Info("membership changed",
		zap.String("session", sess.ID),
		zap.Int("participants", len(sess.Participants)),
	)
	s.update(ctx, sess)
	return sess, nil
}

// update re-renders a posted session. The change is already persisted, so a
// failure here is logged and not returned.
func (s *Service) update(ctx context.Context, sess domain.Session) {
	if sess.Handle == "" {
		return
	}
	if err := s.presenter.Update(ctx, sess); err != nil {
		s.log.Warn("session update failed", zap.String("session", sess.ID), zap.Error(err))
	}
}

// Subscribe makes user join every future session on weekday. It replaces any
// previous subscription and does not touch sessions that already exist.
func (s *Service) Subscribe(ctx context.Context, weekday time.Weekday, user string) error {
	if !s.template.HasWeekday(weekday) {
		s.metrics.MembershipOp("subscribe", "not_found")
		return notFound("no sessions on %s", weekday)
	}
	if err := s.schedules.SaveSchedule(ctx, domain.Schedule{User: user, Weekday: weekday}); err != nil {
		s.metrics.MembershipOp("subscribe", "persistence")
		return &domain.PersistenceError{Op: "save schedule " + user, Err: err}
	}
	s.metrics.MembershipOp("subscribe", "ok")
	s.log.Info("schedule saved", zap.String("user", user), zap.Stringer("weekday", weekday))
	return nil
}

// Unsubscribe drops user's subscription to weekday. Users without one, or
// subscribed to another weekday, are left as they are.
func (s *Service) Unsubscribe(ctx context.Context, weekday time.Weekday, user string) error {
	current, err := s.schedules.LoadSchedule(ctx, user)
	if errors.Is(err, store.ErrNotFound) {
		s.metrics.MembershipOp("unsubscribe", "noop")
		return nil
	}
	if err != nil {
		s.metrics.MembershipOp("unsubscribe", "persistence")
		return &domain.PersistenceError{Op: "load schedule " + user, Err: err}
	}
	if current.Weekday != weekday {
		s.metrics.MembershipOp("unsubscribe", "noop")
		return nil
	}
	if err := s.schedules.DeleteSchedule(ctx, user); err != nil {
		s.metrics.MembershipOp("unsubscribe", "persistence")
		return &domain.PersistenceError{Op: "delete schedule " + user, Err: err}
	}
	s.metrics.MembershipOp("unsubscribe", "ok")
	s.log.Info("schedule deleted", zap.String("user", user), zap.Stringer("weekday", weekday))
	return nil
}

// ScheduleOf returns user's subscription, or domain.ErrNotFound.
func (s *Service) ScheduleOf(ctx context.Context, user string) (domain.Schedule, error) {
	sched, err := s.schedules.LoadSchedule(ctx, user)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Schedule{}, notFound("schedule for %s", user)
	}
	if err != nil {
		return domain.Schedule{}, &domain.PersistenceError{Op: "load schedule " + user, Err: err}
	}
	return sched, nil
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, fmt.Sprintf(format, args...))
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "full"
	case domain.IsPersistence(err):
		return "persistence"
	default:
		return "invalid"
	}
}
