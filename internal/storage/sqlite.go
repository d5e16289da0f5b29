package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saves (
  slot TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore keeps saves in a single-file SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database at path. When legacyDir holds JSON saves that are
// not in the database yet they are imported once.
func OpenSQLite(ctx context.Context, path, legacyDir string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create save db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open save db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	s := &SQLiteStore{db: db, logger: logger}
	if legacyDir != "" {
		if err := s.importLegacy(ctx, legacyDir); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("import legacy saves: %w", err)
		}
	}
	return s, nil
}

// importLegacy copies JSON saves from dir into the table, keeping rows that already exist.
func (s *SQLiteStore) importLegacy(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	imported := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}
		slot, err := CleanSlot(strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), "~", "/"))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO saves(slot, payload, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT(slot) DO NOTHING`,
			slot, string(data),
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			imported++
		}
	}
	if imported > 0 {
		s.logger.Info("imported legacy json saves", "count", imported, "dir", dir)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, slot string) ([]byte, error) {
	slot, err := CleanSlot(slot)
	if err != nil {
		return nil, err
	}
	var payload string
	err = s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = ?`, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load save %s: %w", slot, err)
	}
	return []byte(payload), nil
}

func (s *SQLiteStore) Save(ctx context.Context, slot string, doc []byte) error {
	slot, err := CleanSlot(slot)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves(slot, payload, updated_at)
		 VALUES(?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   payload=excluded.payload,
		   updated_at=CURRENT_TIMESTAMP`,
		slot, string(doc),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, updated_at FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	out := make([]SlotInfo, 0)
	for rows.Next() {
		var slot, updated string
		if err := rows.Scan(&slot, &updated); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		info := SlotInfo{Slot: slot}
		if ts, err := time.Parse(time.DateTime, updated); err == nil {
			info.UpdatedAt = ts.UTC()
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
