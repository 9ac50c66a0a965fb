package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"catalog-chat-be/pkg/embedding"
	"catalog-chat-be/pkg/llm"
	"catalog-chat-be/pkg/rag/history"
	"catalog-chat-be/pkg/rag/prompt"
	"catalog-chat-be/pkg/rag/retrieval"
)

// FallbackResponder is the responder the agent defers to when a message
// is off-catalog or retrieval comes up empty. Satisfied by
// *reflection.Responder; tests inject fakes.
type FallbackResponder interface {
	Chat(ctx context.Context, sessionID, enhancedMessage, originalMessage string, cacheResponse bool, queryEmbedding []float32) (string, error)
	RawChat(ctx context.Context, turns []llm.Message) (string, error)
	CompleteWithFailover(ctx context.Context, turns []llm.Message) (string, error)
}

// Retriever is the hybrid search port used for grounding.
type Retriever interface {
	HybridSearch(ctx context.Context, embedding []float32, text string, limit int) ([]retrieval.FusedDocument, error)
}

// Config carries the orchestrator's tunables. Defaults are applied by
// NewGuardedAgent.
type Config struct {
	// SimilarityThreshold gates retrieved documents. The retrieval layer
	// reports cosine similarity (higher = more similar), so the filter
	// keeps documents with Similarity >= threshold. If the index is ever
	// switched to a true-distance metric this comparison must be
	// inverted; see the retrieval.Document docs.
	SimilarityThreshold float64

	// MaxHistoryItems bounds the turn window passed to completions.
	MaxHistoryItems int

	// TopK is the retrieval limit for hybrid search.
	TopK int

	// Persona is the system prompt for grounded answers.
	Persona string

	// CallTimeout bounds each individual external call (classification,
	// rewrite, embedding, retrieval, grounded completion).
	CallTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = 0.8
	}
	if c.MaxHistoryItems <= 0 {
		c.MaxHistoryItems = 10
	}
	if c.TopK <= 0 {
		c.TopK = 5
	}
	if c.Persona == "" {
		c.Persona = prompt.DefaultPersona
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 30 * time.Second
	}
}

// Result is the outcome of one invocation. RewrittenQuery is the
// standalone reformulation produced on the product path; it is part of
// the result rather than agent state so concurrent invocations cannot
// observe each other's rewrites.
type Result struct {
	Output         string
	RewrittenQuery string
	Grounded       bool
	SourceIDs      []string
}

// GuardedAgent is the top-level per-invocation state machine:
//
//	Start → Classify → not product-related → Fallback
//	                 → product-related     → Rewrite → Embed → Retrieve → Filter
//	                                          → sufficient   → grounded answer
//	                                          → insufficient → Fallback
//
// The agent is stateless across calls; all persistent state lives in the
// conversation store.
type GuardedAgent struct {
	fallback  FallbackResponder
	retriever Retriever
	embedder  embedding.Provider
	store     history.Store
	cfg       Config
	logger    *log.Logger
}

func NewGuardedAgent(
	fallback FallbackResponder,
	retriever Retriever,
	embedder embedding.Provider,
	store history.Store,
	cfg Config,
	logger *log.Logger,
) *GuardedAgent {
	cfg.applyDefaults()
	return &GuardedAgent{
		fallback:  fallback,
		retriever: retriever,
		embedder:  embedder,
		store:     store,
		cfg:       cfg,
		logger:    logger,
	}
}

// Invoke processes one message for one session and returns the response
// text. Every terminal path that produces a response also records exactly
// one user turn and one assistant turn; the classifier step is stateless
// and unrecorded. The only error that escapes is the double provider
// failure (llm.CompletionUnavailableError) or caller cancellation.
func (a *GuardedAgent) Invoke(ctx context.Context, query string, tags []string, sessionID string) (*Result, error) {
	productRelated, err := a.classify(ctx, query, tags)
	if err != nil {
		return nil, err
	}

	if !productRelated {
		a.logger.Printf("[AGENT] session %s: off-catalog, delegating to fallback", sessionID)
		output, err := a.fallback.Chat(ctx, sessionID, query, query, false, nil)
		if err != nil {
			return nil, err
		}
		return &Result{Output: output}, nil
	}

	turns := a.loadWindow(ctx, sessionID)

	rewritten, err := a.rewrite(ctx, query, turns)
	if err != nil {
		return nil, err
	}

	docs, retrieveErr := a.retrieve(ctx, rewritten)
	if retrieveErr != nil {
		// Retrieval was only needed for grounding; the fallback path
		// depends on the providers and the store, not the index.
		a.logger.Printf("[AGENT] session %s: retrieval failed (%v), delegating to fallback", sessionID, retrieveErr)
		docs = nil
	}

	relevant := a.filterRelevant(docs)
	if len(relevant) == 0 {
		a.logger.Printf("[AGENT] session %s: no context above threshold %.2f, delegating to fallback",
			sessionID, a.cfg.SimilarityThreshold)
		output, err := a.fallback.Chat(ctx, sessionID, query, query, false, nil)
		if err != nil {
			return nil, err
		}
		return &Result{Output: output, RewrittenQuery: rewritten}, nil
	}

	output, err := a.answerGrounded(ctx, sessionID, query, rewritten, turns, relevant)
	if err != nil {
		return nil, err
	}

	sourceIDs := make([]string, len(relevant))
	for i, doc := range relevant {
		sourceIDs[i] = doc.ID
	}

	return &Result{
		Output:         output,
		RewrittenQuery: rewritten,
		Grounded:       true,
		SourceIDs:      sourceIDs,
	}, nil
}

// classify asks the stateless completion path for a strict yes/no.
// Anything that is not exactly "yes" (case-insensitive) counts as "no":
// ambiguous classifier output routes to fallback rather than risking an
// ungrounded product answer.
func (a *GuardedAgent) classify(ctx context.Context, query string, tags []string) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancel()

	answer, err := a.fallback.RawChat(callCtx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt.BuildClassification(query, tags)},
	})
	if err != nil {
		var unavailable *llm.CompletionUnavailableError
		if errors.As(err, &unavailable) {
			return false, err
		}
		// Any other classification failure is treated as "no".
		a.logger.Printf("[AGENT] classification failed, treating as off-catalog: %v", err)
		return false, nil
	}

	return strings.EqualFold(strings.TrimSpace(answer), "yes"), nil
}

// loadWindow fetches the session's history and truncates it to the most
// recent MaxHistoryItems turns. A store failure degrades to an empty
// window instead of aborting.
func (a *GuardedAgent) loadWindow(ctx context.Context, sessionID string) []llm.Message {
	sessionTurns, err := a.store.GetTurns(ctx, sessionID)
	if err != nil {
		a.logger.Printf("[WARN] history load failed for session %s, continuing without context: %v", sessionID, err)
		return nil
	}

	if len(sessionTurns) > a.cfg.MaxHistoryItems {
		sessionTurns = sessionTurns[len(sessionTurns)-a.cfg.MaxHistoryItems:]
	}

	turns := make([]llm.Message, 0, len(sessionTurns))
	for _, t := range sessionTurns {
		turns = append(turns, llm.Message{
			Role:    llm.NormalizeRole(t.Role),
			Content: t.Content,
		})
	}
	return turns
}

// rewrite produces the standalone reformulation of the query. If the
// rewrite call fails short of a double provider failure, the raw query is
// used unchanged.
func (a *GuardedAgent) rewrite(ctx context.Context, query string, turns []llm.Message) (string, error) {
	if len(turns) == 0 {
		return query, nil
	}

	historyLines := make([]string, len(turns))
	for i, t := range turns {
		historyLines[i] = fmt.Sprintf("%s: %s", t.Role, t.Content)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancel()

	rewritten, err := a.fallback.RawChat(callCtx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt.BuildRewrite(query, historyLines)},
	})
	if err != nil {
		var unavailable *llm.CompletionUnavailableError
		if errors.As(err, &unavailable) {
			return "", err
		}
		a.logger.Printf("[AGENT] rewrite failed, using raw query: %v", err)
		return query, nil
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return query, nil
	}
	return rewritten, nil
}

// retrieve embeds the rewritten query and runs hybrid search.
func (a *GuardedAgent) retrieve(ctx context.Context, rewritten string) ([]retrieval.FusedDocument, error) {
	embedCtx, cancelEmbed := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancelEmbed()

	queryEmbedding, err := a.embedder.Generate(embedCtx, rewritten, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	searchCtx, cancelSearch := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancelSearch()

	return a.retriever.HybridSearch(searchCtx, queryEmbedding, rewritten, a.cfg.TopK)
}

// filterRelevant keeps documents whose similarity meets the threshold.
func (a *GuardedAgent) filterRelevant(docs []retrieval.FusedDocument) []retrieval.FusedDocument {
	var relevant []retrieval.FusedDocument
	for _, doc := range docs {
		if doc.Similarity >= a.cfg.SimilarityThreshold {
			relevant = append(relevant, doc)
		}
	}
	return relevant
}

// answerGrounded composes persona + windowed history + grounded context +
// the original query, completes with failover, and records the exchange
// directly (bypassing the fallback responder's persistence so the turn
// pair is not double-recorded).
func (a *GuardedAgent) answerGrounded(
	ctx context.Context,
	sessionID string,
	query string,
	rewritten string,
	turns []llm.Message,
	docs []retrieval.FusedDocument,
) (string, error) {

	messages := make([]llm.Message, 0, len(turns)+3)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: a.cfg.Persona})
	messages = append(messages, turns...)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompt.BuildGroundedContext(docs)})
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: query})

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
	defer cancel()

	response, err := a.fallback.CompleteWithFailover(callCtx, messages)
	if err != nil {
		return "", err
	}

	if err := a.store.AppendUserTurn(ctx, sessionID, query, rewritten); err != nil {
		a.logger.Printf("[WARN] failed to record user turn for session %s: %v", sessionID, err)
	}
	if err := a.store.AppendTurn(ctx, sessionID, string(llm.RoleAssistant), response); err != nil {
		a.logger.Printf("[WARN] failed to record assistant turn for session %s: %v", sessionID, err)
	}

	return response, nil
}
