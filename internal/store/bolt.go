package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

const (
	sessionBucket  = "sessions"
	scheduleBucket = "schedules"
)

// BoltRepo implements Repo on a BoltDB file, storing JSON values per key.
type BoltRepo struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the BoltDB file at path.
func OpenBolt(path string) (*BoltRepo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	repo := &BoltRepo{db: db}
	if err := repo.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the underlying BoltDB database.
func (r *BoltRepo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *BoltRepo) ensureBuckets() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{sessionBucket, scheduleBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// LoadSessions returns every stored session ordered by date and time.
func (r *BoltRepo) LoadSessions(ctx context.Context) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res []domain.Session
	err := r.db.View(func(tx *bbolt.Tx) error {
		return bucket(tx, sessionBucket).ForEach(func(k, v []byte) error {
			var s domain.Session
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("unmarshal session %s: %w", k, err)
			}
			res = append(res, s)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(res, func(i, j int) bool { return domain.LessSession(res[i], res[j]) })
	return res, nil
}

// SaveSession inserts or replaces a session by id.
func (r *BoltRepo) SaveSession(ctx context.Context, s domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("session id is required")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return bucket(tx, sessionBucket).Put([]byte(s.ID), payload)
	})
}

// DeleteSession removes a session; deleting an absent id is not an error.
func (r *BoltRepo) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return bucket(tx, sessionBucket).Delete([]byte(id))
	})
}

// LoadSchedules returns every subscription ordered by user.
func (r *BoltRepo) LoadSchedules(ctx context.Context) ([]domain.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res []domain.Schedule
	err := r.db.View(func(tx *bbolt.Tx) error {
		// bbolt iterates keys in byte order, which is user order.
		return bucket(tx, scheduleBucket).ForEach(func(k, v []byte) error {
			var s domain.Schedule
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("unmarshal schedule %s: %w", k, err)
			}
			res = append(res, s)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// LoadSchedule returns the user's subscription or ErrNotFound.
func (r *BoltRepo) LoadSchedule(ctx context.Context, user string) (domain.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return domain.Schedule{}, err
	}
	var s domain.Schedule
	err := r.db.View(func(tx *bbolt.Tx) error {
		payload := bucket(tx, scheduleBucket).Get([]byte(user))
		if payload == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(payload, &s); err != nil {
			return fmt.Errorf("unmarshal schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Schedule{}, err
	}
	return s, nil
}

// SaveSchedule creates or overwrites the user's subscription.
func (r *BoltRepo) SaveSchedule(ctx context.Context, s domain.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(s.User) == "" {
		return errors.New("schedule user is required")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return bucket(tx, scheduleBucket).Put([]byte(s.User), payload)
	})
}

// DeleteSchedule removes the user's subscription; absent users are ignored.
func (r *BoltRepo) DeleteSchedule(ctx context.Context, user string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return bucket(tx, scheduleBucket).Delete([]byte(user))
	})
}

// bucket returns a bucket created by ensureBuckets.
func bucket(tx *bbolt.Tx, name string) *bbolt.Bucket {
	return tx.Bucket([]byte(name))
}
