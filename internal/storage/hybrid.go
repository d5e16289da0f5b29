package storage

import (
	"context"
	"errors"
	"log/slog"
	"sort"
)

// HybridStore writes to a primary database and falls back to a file store when the database
// fails. Saves found only in the fallback are copied into the primary on read.
type HybridStore struct {
	primary  Store
	fallback Store
	logger   *slog.Logger
}

func NewHybridStore(primary, fallback Store, logger *slog.Logger) *HybridStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridStore{primary: primary, fallback: fallback, logger: logger}
}

func (s *HybridStore) Load(ctx context.Context, slot string) ([]byte, error) {
	doc, err := s.primary.Load(ctx, slot)
	if err == nil {
		return doc, nil
	}
	if errors.Is(err, ErrInvalidSlot) {
		return nil, err
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.WarnContext(ctx, "save db read failed, trying json fallback", "slot", slot, "error", err)
	}

	legacy, ferr := s.fallback.Load(ctx, slot)
	if ferr != nil {
		if errors.Is(ferr, ErrNotFound) && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, ferr
	}
	if errors.Is(err, ErrNotFound) {
		if perr := s.primary.Save(ctx, slot, legacy); perr != nil {
			s.logger.WarnContext(ctx, "save migration to db failed", "slot", slot, "error", perr)
		}
	}
	return legacy, nil
}

func (s *HybridStore) Save(ctx context.Context, slot string, doc []byte) error {
	err := s.primary.Save(ctx, slot, doc)
	if err == nil || errors.Is(err, ErrInvalidSlot) {
		return err
	}
	s.logger.WarnContext(ctx, "save db write failed, falling back to json", "slot", slot, "error", err)
	return s.fallback.Save(ctx, slot, doc)
}

// List merges both stores, keeping the newest entry per slot.
func (s *HybridStore) List(ctx context.Context) ([]SlotInfo, error) {
	merged := make(map[string]SlotInfo)
	var errs []error
	for _, st := range []Store{s.primary, s.fallback} {
		infos, err := st.List(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, info := range infos {
			if cur, ok := merged[info.Slot]; !ok || info.UpdatedAt.After(cur.UpdatedAt) {
				merged[info.Slot] = info
			}
		}
	}
	if len(errs) == 2 {
		return nil, errors.Join(errs...)
	}
	out := make([]SlotInfo, 0, len(merged))
	for _, info := range merged {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *HybridStore) Close() error {
	return errors.Join(s.primary.Close(), s.fallback.Close())
}
