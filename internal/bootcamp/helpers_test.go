package bootcamp

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
	"github.com/bitvavo/bootcamp-bot/internal/store"
)

var cest = time.FixedZone("CEST", 2*60*60)

// 2025-06-02 is a Monday.
func at(day, hh, mm int) time.Time {
	return time.Date(2025, time.June, day, hh, mm, 0, 0, cest)
}

type recordingPresenter struct {
	mu          sync.Mutex
	presented   []domain.Session
	updated     []domain.Session
	boards      []domain.Leaderboard
	failPresent int
}

func (p *recordingPresenter) Present(_ context.Context, s domain.Session) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failPresent > 0 {
		p.failPresent--
		return "", errors.New("chat unavailable")
	}
	p.presented = append(p.presented, s.Clone())
	return "m" + strconv.Itoa(len(p.presented)), nil
}

func (p *recordingPresenter) Update(_ context.Context, s domain.Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, s.Clone())
	return nil
}

func (p *recordingPresenter) PresentLeaderboard(_ context.Context, lb domain.Leaderboard) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.boards = append(p.boards, lb)
	return nil
}

func (p *recordingPresenter) updates() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updated)
}

// flakyRepo injects failures into a memory repository.
type flakyRepo struct {
	*store.MemoryRepo
	failSave          func(domain.Session) bool
	failLoadSessions  bool
	failLoadSchedules bool
}

var errDisk = errors.New("disk full")

func (r *flakyRepo) SaveSession(ctx context.Context, s domain.Session) error {
	if r.failSave != nil && r.failSave(s) {
		return errDisk
	}
	return r.MemoryRepo.SaveSession(ctx, s)
}

func (r *flakyRepo) LoadSessions(ctx context.Context) ([]domain.Session, error) {
	if r.failLoadSessions {
		return nil, errDisk
	}
	return r.MemoryRepo.LoadSessions(ctx)
}

func (r *flakyRepo) LoadSchedules(ctx context.Context) ([]domain.Schedule, error) {
	if r.failLoadSchedules {
		return nil, errDisk
	}
	return r.MemoryRepo.LoadSchedules(ctx)
}

type fixture struct {
	svc       *Service
	repo      *flakyRepo
	presenter *recordingPresenter
	now       time.Time
}

func newFixture(t *testing.T, now time.Time, limit int) *fixture {
	t.Helper()
	f := &fixture{
		repo:      &flakyRepo{MemoryRepo: store.NewMemory()},
		presenter: &recordingPresenter{},
		now:       now,
	}
	var (
		idMu sync.Mutex
		seq  int
	)
	svc, err := New(Options{
		Sessions:     f.repo,
		Schedules:    f.repo,
		Presenter:    f.presenter,
		Boards:       f.presenter,
		Location:     cest,
		Now:          func() time.Time { return f.now },
		SessionLimit: limit,
		NewID: func() string {
			idMu.Lock()
			defer idMu.Unlock()
			seq++
			return "s" + strconv.Itoa(seq)
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) reconcile(t *testing.T) ReconcileReport {
	t.Helper()
	report, err := f.svc.Reconcile(context.Background(), f.now)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	return report
}

func (f *fixture) sessions(t *testing.T) []domain.Session {
	t.Helper()
	all, err := f.repo.LoadSessions(context.Background())
	if err != nil {
		t.Fatalf("load sessions: %v", err)
	}
	return all
}

func (f *fixture) seed(t *testing.T, sessions ...domain.Session) {
	t.Helper()
	for _, s := range sessions {
		if err := f.repo.MemoryRepo.SaveSession(context.Background(), s); err != nil {
			t.Fatalf("seed %s: %v", s.ID, err)
		}
	}
}

func tod(h, m int) *domain.TimeOfDay {
	return &domain.TimeOfDay{Hour: h, Minute: m}
}

func sameList(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
