package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CacheStore is the keyed TTL cache the engine stores derived state in.
// Satisfied by the Redis client and by the DB-backed cache_entry repo; the
// app wires whichever is configured.
type CacheStore interface {
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Fetch(ctx context.Context, key string) ([]byte, bool, error)
}

// ResetMarker is the soft half of the dual reset design: its presence
// logically clears "seen" state for a scope even when the underlying ledger
// rows could not be deleted.
type ResetMarker struct {
	ResetAt time.Time `json:"reset_at"`
}

func resetMarkerKey(userID uuid.UUID, role, targetKind, recType string) string {
	return fmt.Sprintf("seen_reset:%s:%s:%s:%s", userID, role, targetKind, recType)
}

func writeResetMarker(ctx context.Context, store CacheStore, key string, resetAt time.Time, ttl time.Duration) error {
	payload, err := json.Marshal(ResetMarker{ResetAt: resetAt.UTC()})
	if err != nil {
		return err
	}
	return store.Put(ctx, key, payload, ttl)
}

func readResetMarker(ctx context.Context, store CacheStore, key string) (*ResetMarker, error) {
	payload, ok, err := store.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var m ResetMarker
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
