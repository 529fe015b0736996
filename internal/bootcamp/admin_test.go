package bootcamp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

func TestPutSession_ReplacesAndDedupes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, at(3, 9, 0), 0)
	f.reconcile(t)
	existing := f.sessions(t)[0]

	body := domain.Session{
		ID:           "ignored",
		Date:         existing.Date,
		Time:         existing.Time,
		Participants: []string{"A", "B", "A"},
		Handle:       existing.Handle,
	}
	got, err := f.svc.PutSession(ctx, existing.ID, body)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if got.ID != existing.ID || !sameList(got.Participants, []string{"A", "B"}) {
		t.Fatalf("unexpected result %+v", got)
	}
	if n := len(f.sessions(t)); n != 1 {
		t.Fatalf("put must replace, got %d sessions", n)
	}
	if f.presenter.updates() != 1 {
		t.Fatalf("posted session should be re-rendered")
	}
}

func TestPutSession_Validates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, at(3, 9, 0), 0)

	if _, err := f.svc.PutSession(ctx, "x", domain.Session{}); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("missing date: want ErrInvalidDate, got %v", err)
	}
	bad := domain.Session{Date: june(3), Time: tod(30, 0)}
	if _, err := f.svc.PutSession(ctx, "x", bad); !errors.Is(err, domain.ErrInvalidTime) {
		t.Fatalf("bad time: want ErrInvalidTime, got %v", err)
	}
	if _, err := f.svc.PutSession(ctx, "", domain.Session{Date: june(3)}); err == nil {
		t.Fatalf("empty id should fail")
	}
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, at(3, 9, 0), 0)
	f.reconcile(t)
	id := f.sessions(t)[0].ID

	if err := f.svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.svc.DeleteSession(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Session(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get deleted: want ErrNotFound, got %v", err)
	}
}

func TestPurgeSchedules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, at(3, 9, 0), 0)
	_ = f.svc.Subscribe(ctx, time.Monday, "u1")
	_ = f.svc.Subscribe(ctx, time.Tuesday, "u2")

	n, err := f.svc.PurgeSchedules(ctx)
	if err != nil || n != 2 {
		t.Fatalf("want 2 purged, got %d %v", n, err)
	}
	all, _ := f.svc.Schedules(ctx)
	if len(all) != 0 {
		t.Fatalf("want no schedules left, got %+v", all)
	}
}

func TestNew_RequiresRepositories(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("want error without repositories")
	}
}
