package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"scalebench/internal/benchmark"
)

// ErrSessionNotFound is returned by LoadSession for unknown ids.
var ErrSessionNotFound = errors.New("session not found")

// sqlStore holds the queries shared by the SQLite and PostgreSQL backends.
// Queries are written with ? placeholders and rebound per dialect.
type sqlStore struct {
	db       *sql.DB
	numbered bool // $1, $2, ... placeholders
}

func (s *sqlStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) migrate(schema []string) error {
	for _, q := range schema {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// SaveSession stores the session row and every sample in one transaction.
func (s *sqlStore) SaveSession(ctx context.Context, sess Session, t *benchmark.Timings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(`INSERT INTO sessions (id, created_at, hostname, cpu_model, logical_cpus, statistic, note) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		sess.ID, sess.CreatedAt.UTC(), sess.Hostname, sess.CPUModel, sess.LogicalCPUs, sess.Statistic, sess.Note)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", sess.ID, err)
	}

	insert := s.rebind(`INSERT INTO measurements (session_id, binary_name, size, processors, repeat_index, seconds) VALUES (?, ?, ?, ?, ?, ?)`)
	for _, k := range t.Keys() {
		sample, _ := t.Get(k)
		seconds := sql.NullFloat64{Float64: sample.Seconds, Valid: !sample.NotApplicable}
		if _, err := tx.ExecContext(ctx, insert, sess.ID, k.Binary, k.Size, k.Processors, k.Repeat, seconds); err != nil {
			return fmt.Errorf("insert %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSession returns a session and its measurements.
func (s *sqlStore) LoadSession(ctx context.Context, id string) (*Session, *benchmark.Timings, error) {
	var sess Session
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, created_at, hostname, cpu_model, logical_cpus, statistic, note FROM sessions WHERE id = ?`), id)
	err := row.Scan(&sess.ID, &sess.CreatedAt, &sess.Hostname, &sess.CPUModel, &sess.LogicalCPUs, &sess.Statistic, &sess.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT binary_name, size, processors, repeat_index, seconds FROM measurements WHERE session_id = ?`), id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	t := benchmark.NewTimings()
	for rows.Next() {
		var k benchmark.Key
		var seconds sql.NullFloat64
		if err := rows.Scan(&k.Binary, &k.Size, &k.Processors, &k.Repeat, &seconds); err != nil {
			return nil, nil, err
		}
		sample := benchmark.NotApplicable()
		if seconds.Valid {
			sample = benchmark.Measured(seconds.Float64)
		}
		if err := t.Record(k, sample); err != nil {
			return nil, nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &sess, t, nil
}

// ListSessions returns the most recent sessions first.
func (s *sqlStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, created_at, hostname, cpu_model, logical_cpus, statistic, note FROM sessions ORDER BY created_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.CreatedAt, &sess.Hostname, &sess.CPUModel, &sess.LogicalCPUs, &sess.Statistic, &sess.Note); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
