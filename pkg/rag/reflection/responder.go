package reflection

import (
	"context"
	"errors"
	"log"

	"catalog-chat-be/pkg/llm"
	"catalog-chat-be/pkg/rag/history"
)

// Responder is the fallback conversational path: persona + session
// history + message, answered with primary/secondary provider failover.
// It holds no state across calls except what lives in the Store.
type Responder struct {
	primary        llm.Provider
	secondary      llm.Provider
	store          history.Store
	persona        string
	cacheThreshold float64
	logger         *log.Logger
}

func NewResponder(
	primary llm.Provider,
	secondary llm.Provider,
	store history.Store,
	persona string,
	cacheThreshold float64,
	logger *log.Logger,
) *Responder {
	return &Responder{
		primary:        primary,
		secondary:      secondary,
		store:          store,
		persona:        persona,
		cacheThreshold: cacheThreshold,
		logger:         logger,
	}
}

// Chat answers enhancedMessage inside the session's conversation and
// records the user turn (original text, enhanced kept for audit) and the
// assistant turn. When cacheResponse is true and an embedding is
// supplied, the semantic cache is consulted first and written after; both
// cache paths are best-effort.
func (r *Responder) Chat(
	ctx context.Context,
	sessionID string,
	enhancedMessage string,
	originalMessage string,
	cacheResponse bool,
	queryEmbedding []float32,
) (string, error) {

	if cacheResponse && len(queryEmbedding) > 0 {
		if entry, found, err := r.store.LookupResponse(ctx, queryEmbedding, r.cacheThreshold); err != nil {
			r.logger.Printf("[WARN] semantic cache lookup failed: %v", err)
		} else if found {
			r.logger.Printf("[CACHE] semantic hit (similarity %.3f) for session %s", entry.Similarity, sessionID)
			r.recordExchange(ctx, sessionID, originalMessage, enhancedMessage, entry.Response)
			return entry.Response, nil
		}
	}

	turns := []llm.Message{{Role: llm.RoleSystem, Content: r.persona}}

	sessionTurns, err := r.store.GetTurns(ctx, sessionID)
	if err != nil {
		// Degraded context: the agent can still answer without history.
		r.logger.Printf("[WARN] history load failed for session %s: %v", sessionID, err)
	} else {
		for _, t := range sessionTurns {
			turns = append(turns, llm.Message{
				Role:    llm.NormalizeRole(t.Role),
				Content: t.Content,
			})
		}
	}

	turns = append(turns, llm.Message{Role: llm.RoleUser, Content: enhancedMessage})

	response, err := r.CompleteWithFailover(ctx, turns)
	if err != nil {
		return "", err
	}

	r.recordExchange(ctx, sessionID, originalMessage, enhancedMessage, response)

	if cacheResponse && len(queryEmbedding) > 0 {
		cacheErr := r.store.CacheResponse(ctx, history.CacheEntry{
			Query:     enhancedMessage,
			Original:  originalMessage,
			Response:  response,
			Embedding: queryEmbedding,
		})
		if cacheErr != nil {
			r.logger.Printf("[WARN] semantic cache write failed: %v", cacheErr)
		}
	}

	return response, nil
}

// RawChat is the stateless one-shot completion path used for
// classification and rewriting: same failover, no history, no
// persistence.
func (r *Responder) RawChat(ctx context.Context, turns []llm.Message) (string, error) {
	return r.CompleteWithFailover(ctx, turns)
}

// CompleteWithFailover tries the primary backend, inspects the typed
// error, and retries the identical turns against the secondary. A double
// failure becomes a CompletionUnavailableError.
func (r *Responder) CompleteWithFailover(ctx context.Context, turns []llm.Message) (string, error) {
	response, primaryErr := r.primary.Chat(ctx, turns)
	if primaryErr == nil {
		return response, nil
	}

	var provErr *llm.ProviderError
	if !errors.As(primaryErr, &provErr) {
		// Non-provider failures (e.g. caller cancellation) are not
		// recoverable by switching backends.
		return "", primaryErr
	}

	r.logger.Printf("[FAILOVER] primary provider %s failed: %v", r.primary.Name(), primaryErr)

	response, secondaryErr := r.secondary.Chat(ctx, turns)
	if secondaryErr == nil {
		return response, nil
	}

	r.logger.Printf("[FAILOVER] secondary provider %s failed: %v", r.secondary.Name(), secondaryErr)

	return "", &llm.CompletionUnavailableError{
		Primary:   primaryErr,
		Secondary: secondaryErr,
	}
}

// recordExchange appends the user/assistant turn pair. Store failures
// degrade the next request's context but never fail this one.
func (r *Responder) recordExchange(ctx context.Context, sessionID, original, enhanced, response string) {
	if err := r.store.AppendUserTurn(ctx, sessionID, original, enhanced); err != nil {
		r.logger.Printf("[WARN] failed to record user turn for session %s: %v", sessionID, err)
	}
	if err := r.store.AppendTurn(ctx, sessionID, string(llm.RoleAssistant), response); err != nil {
		r.logger.Printf("[WARN] failed to record assistant turn for session %s: %v", sessionID, err)
	}
}
