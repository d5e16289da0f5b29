package savegame

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/btrahan1/Scrapper3000/internal/player"
	"github.com/btrahan1/Scrapper3000/internal/storage"
)

const (
	shutdownFlushTimeout = 5 * time.Second
	retryBaseDelay       = 2 * time.Second
	retryMaxDelay        = time.Minute
)

// Autosaver writes save documents to a store off the gameplay goroutine. Requests for the same slot
// coalesce: only the newest document is written.
type Autosaver struct {
	store  storage.Store
	codec  *Codec
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string][]byte
	wake    chan struct{}

	// retryDelay is the first backoff after a failed write.
	retryDelay time.Duration
}

func NewAutosaver(store storage.Store, codec *Codec, logger *slog.Logger) *Autosaver {
	if codec == nil {
		codec = NewCodec(nil, logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Autosaver{
		store:   store,
		codec:   codec,
		logger:  logger,
		pending:    make(map[string][]byte),
		wake:       make(chan struct{}, 1),
		retryDelay: retryBaseDelay,
	}
}

// Request encodes s on the caller's goroutine and queues it for slot. It never blocks on I/O.
func (a *Autosaver) Request(slot string, s player.Snapshot) {
	slot, err := storage.CleanSlot(slot)
	if err != nil {
		a.logger.Warn("autosave skipped", "error", err)
		return
	}
	doc, err := a.codec.Encode(s)
	if err != nil {
		a.logger.Error("autosave encode failed", "slot", slot, "error", err)
		return
	}

	a.mu.Lock()
	a.pending[slot] = doc
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Pending reports how many slots are waiting to be written.
func (a *Autosaver) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Run writes queued documents until ctx is done, then flushes whatever is left. Failed writes are
// retried with exponential backoff even when no new request arrives.
func (a *Autosaver) Run(ctx context.Context) error {
	retry := time.NewTimer(retryMaxDelay)
	retry.Stop()
	defer retry.Stop()
	delay := a.retryDelay

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
			err := a.Flush(flushCtx)
			cancel()
			if err != nil {
				a.logger.Error("final autosave flush failed", "error", err, "pending", a.Pending())
			}
			return nil
		case <-a.wake:
		case <-retry.C:
		}

		if err := a.Flush(ctx); err != nil && a.Pending() > 0 {
			retry.Reset(delay)
			a.logger.DebugContext(ctx, "autosave retry scheduled", "in", delay, "pending", a.Pending())
			delay = min(delay*2, retryMaxDelay)
			continue
		}
		retry.Stop()
		delay = a.retryDelay
	}
}

// Flush writes every queued document. A failed write stays queued unless a newer document for the
// same slot arrived meanwhile.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	batch := a.pending
	a.pending = make(map[string][]byte, len(batch))
	a.mu.Unlock()

	var errs []error
	for slot, doc := range batch {
		if err := a.store.Save(ctx, slot, doc); err != nil {
			a.logger.WarnContext(ctx, "autosave write failed", "slot", slot, "error", err)
			errs = append(errs, err)
			a.mu.Lock()
			if _, newer := a.pending[slot]; !newer {
				a.pending[slot] = doc
			}
			a.mu.Unlock()
			continue
		}
		a.logger.DebugContext(ctx, "autosaved", "slot", slot, "bytes", len(doc))
	}
	return errors.Join(errs...)
}

// Restore loads slot. A nil snapshot means "no save": the slot is missing, the store failed, or the
// document is not a JSON object. A queued unwritten document wins over the stored one.
func (a *Autosaver) Restore(ctx context.Context, slot string) (*player.Snapshot, Report) {
	clean, err := storage.CleanSlot(slot)
	if err != nil {
		a.logger.WarnContext(ctx, "restore skipped", "error", err)
		return nil, Report{}
	}

	a.mu.Lock()
	doc, queued := a.pending[clean]
	a.mu.Unlock()

	if !queued {
		doc, err = a.store.Load(ctx, clean)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				a.logger.WarnContext(ctx, "save load failed, treating as no save", "slot", clean, "error", err)
			}
			return nil, Report{}
		}
	}

	s, report := a.codec.Decode(doc)
	if report.Malformed {
		return nil, report
	}
	return &s, report
}

// Slots lists the stored slots.
func (a *Autosaver) Slots(ctx context.Context) ([]storage.SlotInfo, error) {
	return a.store.List(ctx)
}
