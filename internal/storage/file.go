package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps one JSON file per slot in a directory. "/" in a slot id is stored as "~".
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage: file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(slot, "/", "~")+".json")
}

func (s *FileStore) Load(ctx context.Context, slot string) ([]byte, error) {
	slot, err := CleanSlot(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read save %s: %w", slot, err)
	}
	return data, nil
}

// Save writes through a temp file and rename so a crash never leaves half a document.
func (s *FileStore) Save(ctx context.Context, slot string, doc []byte) error {
	slot, err := CleanSlot(slot)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("write save %s: %w", slot, err)
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write save %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write save %s: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write save %s: %w", slot, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]SlotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	out := make([]SlotInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		slot := strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), "~", "/")
		out = append(out, SlotInfo{Slot: slot, UpdatedAt: info.ModTime().UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *FileStore) Close() error { return nil }
