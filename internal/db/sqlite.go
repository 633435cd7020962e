package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite реализует Repository поверх локального файла БД.
type SQLite struct {
	db *sql.DB
}

// NewSQLite открывает (при необходимости создаёт) БД по пути path и
// применяет миграции.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// Один писатель за раз, иначе pure-Go драйвер ловит SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if err := Migrate(ctx, sqlDB, DialectSQLite); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &SQLite{db: sqlDB}, nil
}

// Close закрывает БД.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Increment(ctx context.Context, name string, by int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + excluded.value`,
		name, by,
	)
	if err != nil {
		return fmt.Errorf("incrementing counter %q: %w", name, err)
	}
	return nil
}

func (s *SQLite) RaiseMax(ctx context.Context, name string, value int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET value = MAX(counters.value, excluded.value)`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("raising counter %q: %w", name, err)
	}
	return nil
}

func (s *SQLite) Counters(ctx context.Context) (Counters, error) {
	var c Counters
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM counters`)
	if err != nil {
		return c, fmt.Errorf("querying counters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			value int64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return c, fmt.Errorf("scanning counter: %w", err)
		}
		c.set(name, value)
	}
	if err := rows.Err(); err != nil {
		return c, fmt.Errorf("iterating counters: %w", err)
	}
	return c, nil
}

func (s *SQLite) LoadTeam(ctx context.Context) (TeamRecord, bool, error) {
	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM team_state WHERE id = ?`, teamRowID,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TeamRecord{}, false, nil
		}
		return TeamRecord{}, false, fmt.Errorf("querying team state: %w", err)
	}
	rec, err := decodeTeam(state)
	if err != nil {
		return TeamRecord{}, false, err
	}
	return rec, true, nil
}

func (s *SQLite) SaveTeam(ctx context.Context, rec TeamRecord) error {
	state, err := encodeTeam(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO team_state (id, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		teamRowID, state, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving team state: %w", err)
	}
	return nil
}

func (s *SQLite) AppendMatch(ctx context.Context, rec MatchRecord) error {
	v := rec.Values
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO match_history
		 (id, played_at, outcome, prize, reason, team_spirit, fatigue, popularity, strength)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PlayedAt.UTC(), rec.outcome(), rec.Prize, rec.reason(),
		v[0], v[1], v[2], v[3],
	)
	if err != nil {
		return fmt.Errorf("appending match %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLite) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, played_at, outcome, prize, reason, team_spirit, fatigue, popularity, strength
		 FROM match_history ORDER BY played_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying match history: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var (
			rec     MatchRecord
			outcome string
			reason  sql.NullString
		)
		v := &rec.Values
		if err := rows.Scan(&rec.ID, &rec.PlayedAt, &outcome, &rec.Prize, &reason,
			&v[0], &v[1], &v[2], &v[3]); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		var r *string
		if reason.Valid {
			r = &reason.String
		}
		rec.scanMatch(outcome, r)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match history: %w", err)
	}
	return out, nil
}
