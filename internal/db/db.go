package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres реализует Repository поверх пула соединений pgx.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres подключается к PostgreSQL и возвращает репозиторий.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgresFromPool оборачивает готовый пул. Пулом владеет вызывающий,
// пока не вызван Close.
func NewPostgresFromPool(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Close закрывает пул соединений.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Pool возвращает пул pgx для прямых запросов.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) Increment(ctx context.Context, name string, by int64) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO counters (name, value) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + EXCLUDED.value`,
		name, by,
	)
	if err != nil {
		return fmt.Errorf("incrementing counter %q: %w", name, err)
	}
	return nil
}

func (p *Postgres) RaiseMax(ctx context.Context, name string, value int64) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO counters (name, value) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET value = GREATEST(counters.value, EXCLUDED.value)`,
		name, value,
	)
	if err != nil {
		return fmt.Errorf("raising counter %q: %w", name, err)
	}
	return nil
}

func (p *Postgres) Counters(ctx context.Context) (Counters, error) {
	var c Counters
	rows, err := p.pool.Query(ctx, `SELECT name, value FROM counters`)
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

func (p *Postgres) LoadTeam(ctx context.Context) (TeamRecord, bool, error) {
	var state string
	err := p.pool.QueryRow(ctx,
		`SELECT state FROM team_state WHERE id = $1`, teamRowID,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

func (p *Postgres) SaveTeam(ctx context.Context, rec TeamRecord) error {
	state, err := encodeTeam(rec)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO team_state (id, state, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
		teamRowID, state, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving team state: %w", err)
	}
	return nil
}

func (p *Postgres) AppendMatch(ctx context.Context, rec MatchRecord) error {
	v := rec.Values
	_, err := p.pool.Exec(ctx,
		`INSERT INTO match_history
		 (id, played_at, outcome, prize, reason, team_spirit, fatigue, popularity, strength)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.PlayedAt.UTC(), rec.outcome(), rec.Prize, rec.reason(),
		v[0], v[1], v[2], v[3],
	)
	if err != nil {
		return fmt.Errorf("appending match %s: %w", rec.ID, err)
	}
	return nil
}

func (p *Postgres) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, played_at, outcome, prize, reason, team_spirit, fatigue, popularity, strength
		 FROM match_history ORDER BY played_at DESC LIMIT $1`, limit,
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
			reason  *string
		)
		v := &rec.Values
		if err := rows.Scan(&rec.ID, &rec.PlayedAt, &outcome, &rec.Prize, &reason,
			&v[0], &v[1], &v[2], &v[3]); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		rec.scanMatch(outcome, reason)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match history: %w", err)
	}
	return out, nil
}
