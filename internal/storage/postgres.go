package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS saves (
  slot TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresStore keeps saves in a shared Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("storage: postgres mode needs a dsn")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context, slot string) ([]byte, error) {
	slot, err := CleanSlot(slot)
	if err != nil {
		return nil, err
	}
	var payload string
	err = s.pool.QueryRow(ctx, `SELECT payload FROM saves WHERE slot = $1`, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load save %s: %w", slot, err)
	}
	return []byte(payload), nil
}

func (s *PostgresStore) Save(ctx context.Context, slot string, doc []byte) error {
	slot, err := CleanSlot(slot)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO saves(slot, payload, updated_at)
		 VALUES($1, $2, now())
		 ON CONFLICT(slot) DO UPDATE SET
		   payload = EXCLUDED.payload,
		   updated_at = now()`,
		slot, string(doc),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.pool.Query(ctx, `SELECT slot, updated_at FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	out := make([]SlotInfo, 0)
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		info.UpdatedAt = info.UpdatedAt.UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
