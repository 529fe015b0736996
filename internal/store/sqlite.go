package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// LoadSessions returns every stored session ordered by date and time.
func (r *SQLiteRepo) LoadSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, hour, minute, participants, session_limit, handle
		FROM sessions
		ORDER BY date ASC, hour ASC, minute ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Session
	for rows.Next() {
		var row sessionRow
		if err := rows.Scan(
			&row.ID, &row.Date, &row.Hour, &row.Minute,
			&row.Participants, &row.Limit, &row.Handle,
		); err != nil {
			return nil, err
		}
		s, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode session %s: %w", row.ID, err)
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(res, func(i, j int) bool { return domain.LessSession(res[i], res[j]) })
	return res, nil
}

// SaveSession inserts or replaces a session by id.
func (r *SQLiteRepo) SaveSession(ctx context.Context, s domain.Session) error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	row, err := toSessionRow(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, date, hour, minute, participants, session_limit, handle, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date          = excluded.date,
			hour          = excluded.hour,
			minute        = excluded.minute,
			participants  = excluded.participants,
			session_limit = excluded.session_limit,
			handle        = excluded.handle`,
		row.ID, row.Date, row.Hour, row.Minute, row.Participants, row.Limit, row.Handle,
		time.Now().UTC().Unix(),
	)
	return err
}

// DeleteSession removes a session; deleting an absent id is not an error.
func (r *SQLiteRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// LoadSchedules returns every subscription ordered by user.
func (r *SQLiteRepo) LoadSchedules(ctx context.Context) ([]domain.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, weekday
		FROM schedules
		ORDER BY user_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Schedule
	for rows.Next() {
		var (
			user    string
			weekday int
		)
		if err := rows.Scan(&user, &weekday); err != nil {
			return nil, err
		}
		res = append(res, domain.Schedule{User: user, Weekday: time.Weekday(weekday)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// LoadSchedule returns the user's subscription or ErrNotFound.
func (r *SQLiteRepo) LoadSchedule(ctx context.Context, user string) (domain.Schedule, error) {
	var weekday int
	err := r.db.QueryRowContext(ctx, `
		SELECT weekday FROM schedules WHERE user_id = ?`,
		user,
	).Scan(&weekday)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Schedule{}, ErrNotFound
	}
	if err != nil {
		return domain.Schedule{}, err
	}
	return domain.Schedule{User: user, Weekday: time.Weekday(weekday)}, nil
}

// SaveSchedule creates or overwrites the user's subscription.
func (r *SQLiteRepo) SaveSchedule(ctx context.Context, s domain.Schedule) error {
	if s.User == "" {
		return errors.New("schedule user is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (user_id, weekday, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			weekday = excluded.weekday`,
		s.User, int(s.Weekday), time.Now().UTC().Unix(),
	)
	return err
}

// DeleteSchedule removes the user's subscription; absent users are ignored.
func (r *SQLiteRepo) DeleteSchedule(ctx context.Context, user string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE user_id = ?`, user)
	return err
}
