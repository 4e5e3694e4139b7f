package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entry is one journaled API call.
type Entry struct {
	ID            string
	Agent         string
	Method        string
	Path          string
	Status        int
	Kind          string
	Detail        string
	ChallengeCode string
	CreatedAt     time.Time
}

// ErrEntryNotFound is returned when an update targets an unknown entry.
var ErrEntryNotFound = errors.New("journal entry not found")

// Record inserts e and returns its ID. Missing ID and CreatedAt are filled in.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.insertStmt.ExecContext(ctx,
		e.ID, e.Agent, e.Method, e.Path, e.Status, e.Kind, e.Detail,
		nullableString(e.ChallengeCode), e.CreatedAt.UTC())
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// AttachChallenge stores the verification code a call was answered with.
func (s *Store) AttachChallenge(ctx context.Context, id, code string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE requests SET challenge_code = ? WHERE id = ?`, nullableString(code), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.recentStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var code sql.NullString
		if err := rows.Scan(&e.ID, &e.Agent, &e.Method, &e.Path, &e.Status, &e.Kind, &e.Detail, &code, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ChallengeCode = code.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries recorded before olderThan and reports how many
// were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM requests WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
