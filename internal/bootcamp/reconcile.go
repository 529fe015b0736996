package bootcamp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// Occurrence is a template slot pinned to a calendar date.
type Occurrence struct {
	Slot  domain.Slot
	Date  domain.Date
	Start time.Time
}

// SlotError reports a failure to materialize or present one occurrence.
type SlotError struct {
	Occurrence Occurrence
	Err        error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %s on %s: %v", e.Occurrence.Slot, e.Occurrence.Date, e.Err)
}

func (e *SlotError) Unwrap() error { return e.Err }

// ReconcileReport summarizes one Reconcile call.
type ReconcileReport struct {
	Created []domain.Session
	// Existing counts due occurrences that already had a session.
	Existing int
	Failed   []*SlotError
}

// Due lists the occurrences whose start lies in (now, now+horizon], ordered by
// start. Each slot contributes at most its next occurrence.
func (s *Service) Due(now time.Time) []Occurrence {
	now = now.In(s.loc)
	today := domain.DateOf(now)

	seen := make(map[string]struct{})
	var out []Occurrence
	for _, slot := range s.template.Slots() {
		date := today.AddDays(today.DaysUntilNext(slot.Weekday))
		start := date.At(slot.Time, s.loc)
		if !start.After(now) {
			date = date.AddDays(7)
			start = date.At(slot.Time, s.loc)
		}
		if start.Sub(now) > s.horizon {
			continue
		}
		key := date.String() + " " + slot.Time.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Occurrence{Slot: slot, Date: date, Start: start})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Reconcile makes sure a session exists for every due occurrence. Existing
// sessions are never duplicated or removed, so calling it repeatedly is safe.
// New sessions get the subscribers of their weekday, are saved and then
// presented. A failure on one occurrence does not stop the others; all
// failures are returned joined and listed in the report.
func (s *Service) Reconcile(ctx context.Context, now time.Time) (ReconcileReport, error) {
	s.reconcileMu.Lock()
	defer s.reconcileMu.Unlock()

	var report ReconcileReport
	due := s.Due(now)
	if len(due) == 0 {
		return report, nil
	}

	existing, err := s.sessions.LoadSessions(ctx)
	if err != nil {
		return report, &domain.PersistenceError{Op: "load sessions", Err: err}
	}

	var (
		subs       []domain.Schedule
		subsLoaded bool
		errs       []error
	)
	for _, occ := range due {
		if sess, ok := findOccurrence(existing, occ); ok {
			report.Existing++
			if sess.Handle == "" {
				// Saved earlier but never posted; try again.
				if err := s.present(ctx, sess.ID); err != nil {
					fail := s.slotFailed(occ, err)
					report.Failed = append(report.Failed, fail)
					errs = append(errs, fail)
				}
			}
			continue
		}

		if !subsLoaded {
			subs, err = s.schedules.LoadSchedules(ctx)
			if err != nil {
				// Without subscriptions new sessions would miss their
				// recurring attendees for good.
				errs = append(errs, &domain.PersistenceError{Op: "load schedules", Err: err})
				return report, errors.Join(errs...)
			}
			subsLoaded = true
		}

		sess, err := s.materialize(ctx, occ, subs)
		if sess.ID != "" {
			existing = append(existing, sess)
			report.Created = append(report.Created, sess)
		}
		if err != nil {
			fail := s.slotFailed(occ, err)
			report.Failed = append(report.Failed, fail)
			errs = append(errs, fail)
		}
	}
	return report, errors.Join(errs...)
}

// materialize creates, saves and presents the session for occ. The returned
// session has a non-empty ID whenever it was persisted.
func (s *Service) materialize(ctx context.Context, occ Occurrence, subs []domain.Schedule) (domain.Session, error) {
	tod := occ.Slot.Time
	sess := domain.Session{
		ID:           s.newID(),
		Date:         occ.Date,
		Time:         &tod,
		Participants: []string{},
		Limit:        s.defaultLimit(),
	}
	weekday := occ.Date.Weekday()
	for _, sub := range subs {
		if sub.Weekday == weekday {
			sess.AddParticipant(sub.User)
		}
	}

	unlock := s.locks.Lock(sess.ID)
	defer unlock()

	if err := s.saveSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	s.metrics.SessionCreated()
	s.log.Info("session created",
		zap.String("session", sess.ID),
		zap.Stringer("date", sess.Date),
		zap.Stringer("time", tod),
		zap.Int("subscribers", len(sess.Participants)),
	)

	posted, err := s.presentLocked(ctx, sess)
	if err != nil {
		return sess, err
	}
	return posted, nil
}

// present posts an existing session that has no handle yet.
func (s *Service) present(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.loadSession(ctx, id)
	if err != nil {
		return err
	}
	if sess.Handle != "" {
		return nil
	}
	_, err = s.presentLocked(ctx, sess)
	return err
}

// presentLocked posts sess and stores the returned handle. The caller holds
// the session lock.
func (s *Service) presentLocked(ctx context.Context, sess domain.Session) (domain.Session, error) {
	handle, err := s.presenter.Present(ctx, sess)
	if err != nil {
		return sess, fmt.Errorf("present session %s: %w", sess.ID, err)
	}
	if handle == "" {
		return sess, nil
	}
	sess.Handle = handle
	if err := s.saveSession(ctx, sess); err != nil {
		return sess, err
	}
	return sess, nil
}

func (s *Service) slotFailed(occ Occurrence, err error) *SlotError {
	s.metrics.ReconcileFailed()
	s.log.Error("reconcile slot failed",
		zap.Stringer("slot", occ.Slot),
		zap.Stringer("date", occ.Date),
		zap.Error(err),
	)
	return &SlotError{Occurrence: occ, Err: err}
}

func findOccurrence(sessions []domain.Session, occ Occurrence) (domain.Session, bool) {
	for _, sess := range sessions {
		if sess.Matches(occ.Date, occ.Slot.Time) {
			return sess, true
		}
	}
	return domain.Session{}, false
}
