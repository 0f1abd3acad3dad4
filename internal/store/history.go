package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/edseguy/code-scanner/internal/domain"
	"github.com/edseguy/code-scanner/internal/logger"
)

// HistoryStore owns the ordered scan history, newest first. It is the only
// mutation surface over the in-memory sequence; callers get snapshots.
// The full sequence is persisted as one JSON blob under a single key, and
// every mutation is flushed before it is considered committed.
type HistoryStore struct {
	kv     KV
	key    string
	logger logger.Logger

	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewHistoryStore creates a history store over the given KV backend.
func NewHistoryStore(kv KV, key string, log logger.Logger) *HistoryStore {
	return &HistoryStore{
		kv:     kv,
		key:    key,
		logger: log,
	}
}

// Load reads the durable record and replaces the in-memory sequence.
// An absent or corrupt record yields an empty sequence; corruption is
// logged, never surfaced to the caller.
func (h *HistoryStore) Load(ctx context.Context) []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.kv.Get(ctx, h.key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			h.logger.Warn("failed to load scan history, starting empty",
				logger.Error(err))
		}
		h.entries = nil
		return nil
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		h.logger.Warn("scan history record is corrupt, starting empty",
			logger.Error(err))
		h.entries = nil
		return nil
	}

	h.entries = entries
	return h.snapshotLocked()
}

// Append prepends the entry, persists the full new sequence, and returns
// a snapshot of it. A persist failure is logged and the in-memory sequence
// still reflects the change; durability is degraded, not the session.
func (h *HistoryStore) Append(ctx context.Context, entry domain.HistoryEntry) []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]domain.HistoryEntry{entry}, h.entries...)

	if err := h.persistLocked(ctx); err != nil {
		h.logger.Error("failed to persist scan history",
			logger.String("entry_id", entry.ID),
			logger.Error(err))
	}

	return h.snapshotLocked()
}

// Clear deletes the durable record and resets the in-memory sequence.
func (h *HistoryStore) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.kv.Del(ctx, h.key); err != nil {
		return fmt.Errorf("failed to clear scan history: %w", err)
	}
	h.entries = nil
	return nil
}

// Entries returns a read-only snapshot of the current sequence.
func (h *HistoryStore) Entries() []domain.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.snapshotLocked()
}

// Len returns the number of entries currently held.
func (h *HistoryStore) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.entries)
}

func (h *HistoryStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(h.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal scan history: %w", err)
	}
	if err := h.kv.Set(ctx, h.key, data); err != nil {
		return fmt.Errorf("failed to save scan history: %w", err)
	}
	return nil
}

func (h *HistoryStore) snapshotLocked() []domain.HistoryEntry {
	if len(h.entries) == 0 {
		return nil
	}
	out := make([]domain.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
