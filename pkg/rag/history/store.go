package history

import (
	"context"
	"fmt"
	"time"
)

// Turn is one message in a conversation. Turns are immutable once
// recorded; ordering is insertion order within a session.
type Turn struct {
	SessionID string
	Role      string // "user", "assistant" or "system"
	Content   string
	CreatedAt time.Time
}

// CacheEntry is a previously answered query, its embedding and the
// response that was produced for it.
type CacheEntry struct {
	Query      string // enhanced/rewritten query text
	Original   string // raw user text
	Response   string
	Embedding  []float32
	Similarity float64 // populated on lookup hits
}

// Store is the conversation store port: append-only per-session turn
// history plus a semantic cache of answered queries. Windowing is the
// caller's responsibility; GetTurns returns the full history.
type Store interface {
	AppendTurn(ctx context.Context, sessionID, role, content string) error

	// AppendUserTurn records a user turn whose content is the original
	// message; the enhanced (rewritten) text rides along for audit and is
	// not returned by GetTurns.
	AppendUserTurn(ctx context.Context, sessionID, original, enhanced string) error

	GetTurns(ctx context.Context, sessionID string) ([]Turn, error)

	// CacheResponse records an answered query. Best-effort: callers must
	// not fail the overall request on a cache write error.
	CacheResponse(ctx context.Context, entry CacheEntry) error

	// LookupResponse returns the closest cached entry whose embedding
	// similarity meets the threshold, or found=false.
	LookupResponse(ctx context.Context, embedding []float32, threshold float64) (*CacheEntry, bool, error)
}

// StoreError wraps a history read/write failure. Callers treat history
// loss as degraded-but-continuable rather than fatal.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("conversation store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
