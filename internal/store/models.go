package store

import (
	"database/sql"
	"encoding/json"

	"github.com/bitvavo/bootcamp-bot/internal/domain"
)

// sessionRow is the flat SQL shape of a session.
type sessionRow struct {
	ID           string
	Date         string
	Hour         sql.NullInt64
	Minute       sql.NullInt64
	Participants string
	Limit        sql.NullInt64
	Handle       sql.NullString
}

func toSessionRow(s domain.Session) (sessionRow, error) {
	participants := s.Participants
	if participants == nil {
		participants = []string{}
	}
	raw, err := json.Marshal(participants)
	if err != nil {
		return sessionRow{}, err
	}
	row := sessionRow{
		ID:           s.ID,
		Date:         s.Date.String(),
		Participants: string(raw),
		Limit:        toNullInt(s.Limit),
		Handle:       sql.NullString{String: s.Handle, Valid: s.Handle != ""},
	}
	if s.Time != nil {
		row.Hour = sql.NullInt64{Int64: int64(s.Time.Hour), Valid: true}
		row.Minute = sql.NullInt64{Int64: int64(s.Time.Minute), Valid: true}
	}
	return row, nil
}

func (r sessionRow) toDomain() (domain.Session, error) {
	date, err := domain.ParseISODate(r.Date)
	if err != nil {
		return domain.Session{}, err
	}
	var participants []string
	if err := json.Unmarshal([]byte(r.Participants), &participants); err != nil {
		return domain.Session{}, err
	}
	s := domain.Session{
		ID:           r.ID,
		Date:         date,
		Participants: participants,
		Limit:        fromNullInt(r.Limit),
		Handle:       r.Handle.String,
	}
	if r.Hour.Valid && r.Minute.Valid {
		s.Time = &domain.TimeOfDay{Hour: int(r.Hour.Int64), Minute: int(r.Minute.Int64)}
	}
	return s, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
