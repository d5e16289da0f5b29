// Package storage is the save-slot transport: it stores and fetches encoded save documents by
// slot id. It knows nothing about the document schema.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("storage: save slot not found")
	ErrInvalidSlot = errors.New("storage: invalid save slot id")
)

type SlotInfo struct {
	Slot      string    `json:"slot"`
	UpdatedAt time.Time `json:"updated_at"`
}

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

// Store persists save documents by slot. Load returns ErrNotFound for a slot that was never saved.
type Store interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, doc []byte) error
	List(ctx context.Context) ([]SlotInfo, error)
	Close() error
}

// CleanSlot canonicalizes a slot id: lower case, spaces become underscores, and only
// [a-z0-9_-/] survive. Slots are usually "<user>/<slot>".
func CleanSlot(slot string) (string, error) {
	slot = strings.ToLower(strings.TrimSpace(slot))
	var b strings.Builder
	for _, ch := range slot {
		switch {
		case ch >= 'a' && ch <= 'z':
			b.WriteRune(ch)
		case ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '_' || ch == '-' || ch == '/':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "/")
	if out == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return out, nil
}

type Mode string

const (
	ModeSQLite   Mode = "sqlite"
	ModeHybrid   Mode = "hybrid"
	ModeJSON     Mode = "json"
	ModePostgres Mode = "postgres"
	ModeRedis    Mode = "redis"
)

// ParseMode resolves a persistence mode and its aliases. Unknown values map to sqlite with ok=false.
func ParseMode(raw string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "db", "sqlite":
		return ModeSQLite, true
	case "hybrid":
		return ModeHybrid, true
	case "json", "legacy":
		return ModeJSON, true
	case "postgres", "postgresql", "pg":
		return ModePostgres, true
	case "redis":
		return ModeRedis, true
	default:
		return ModeSQLite, false
	}
}

// Options selects and configures a store.
type Options struct {
	Mode        string
	SaveDir     string
	SQLitePath  string
	PostgresDSN string
	RedisAddr   string
}

// Open builds the store for opts.Mode. Hybrid mode degrades to the file store when the database
// cannot be opened.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mode, ok := ParseMode(opts.Mode)
	if !ok {
		logger.Warn("unknown persistence mode, defaulting to sqlite", "mode", opts.Mode)
	}
	logger.Info("persistence mode", "mode", mode)

	switch mode {
	case ModeJSON:
		return NewFileStore(opts.SaveDir)
	case ModeHybrid:
		files, err := NewFileStore(opts.SaveDir)
		if err != nil {
			return nil, err
		}
		db, err := OpenSQLite(ctx, opts.SQLitePath, opts.SaveDir, logger)
		if err != nil {
			logger.Warn("save db unavailable, falling back to json files", "error", err)
			return files, nil
		}
		return NewHybridStore(db, files, logger), nil
	case ModePostgres:
		return OpenPostgres(ctx, opts.PostgresDSN)
	case ModeRedis:
		return OpenRedis(ctx, opts.RedisAddr)
	default:
		return OpenSQLite(ctx, opts.SQLitePath, opts.SaveDir, logger)
	}
}
