package store

import (
	"context"
	"sort"
	"sync"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// MemoryRepo is a map-backed Repo. Values are copied in and out so callers
// never share state with the store.
type MemoryRepo struct {
	mu        sync.RWMutex
	sessions  map[string]domain.Session
	schedules map[string]domain.Schedule
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *MemoryRepo {
	return &MemoryRepo{
		sessions:  make(map[string]domain.Session),
		schedules: make(map[string]domain.Schedule),
	}
}

func (r *MemoryRepo) Close() error { return nil }

func (r *MemoryRepo) LoadSessions(ctx context.Context) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]domain.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		res = append(res, s.Clone())
	}
	sort.Slice(res, func(i, j int) bool { return domain.LessSession(res[i], res[j]) })
	return res, nil
}

func (r *MemoryRepo) SaveSession(ctx context.Context, s domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
	return nil
}

func (r *MemoryRepo) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *MemoryRepo) LoadSchedules(ctx context.Context) ([]domain.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]domain.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].User < res[j].User })
	return res, nil
}

func (r *MemoryRepo) LoadSchedule(ctx context.Context, user string) (domain.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return domain.Schedule{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schedules[user]
	if !ok {
		return domain.Schedule{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) SaveSchedule(ctx context.Context, s domain.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules[s.User] = s
	return nil
}

func (r *MemoryRepo) DeleteSchedule(ctx context.Context, user string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schedules, user)
	return nil
}
