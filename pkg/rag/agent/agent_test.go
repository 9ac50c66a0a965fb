package agent

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"catalog-chat-be/pkg/llm"
	"catalog-chat-be/pkg/rag/history"
	"catalog-chat-be/pkg/rag/retrieval"
)

// scriptedResponder answers RawChat calls in order: first call is the
// classification, second (if any) the rewrite.
type scriptedResponder struct {
	rawReplies []string
	rawErrs    []error
	rawCalls   int

	chatReply string
	chatErr   error
	chatCalls int

	completeReply string
	completeErr   error
	completeCalls int
	completeTurns []llm.Message
}

func (s *scriptedResponder) Chat(ctx context.Context, sessionID, enhanced, original string, cacheResponse bool, queryEmbedding []float32) (string, error) {
	s.chatCalls++
	return s.chatReply, s.chatErr
}

func (s *scriptedResponder) RawChat(ctx context.Context, turns []llm.Message) (string, error) {
	i := s.rawCalls
	s.rawCalls++
	var err error
	if i < len(s.rawErrs) {
		err = s.rawErrs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(s.rawReplies) {
		return s.rawReplies[i], nil
	}
	return "", errors.New("unscripted RawChat call")
}

func (s *scriptedResponder) CompleteWithFailover(ctx context.Context, turns []llm.Message) (string, error) {
	s.completeCalls++
	s.completeTurns = turns
	return s.completeReply, s.completeErr
}

type fakeRetriever struct {
	docs  []retrieval.FusedDocument
	err   error
	calls int
}

func (f *fakeRetriever) HybridSearch(ctx context.Context, embedding []float32, text string, limit int) ([]retrieval.FusedDocument, error) {
	f.calls++
	return f.docs, f.err
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Generate(ctx context.Context, text, taskType string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type fakeStore struct {
	turns  []history.Turn
	getErr error

	userTurns      []string
	assistantTurns []string
}

func (f *fakeStore) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	if role == "assistant" {
		f.assistantTurns = append(f.assistantTurns, content)
	}
	return nil
}

func (f *fakeStore) AppendUserTurn(ctx context.Context, sessionID, original, enhanced string) error {
	f.userTurns = append(f.userTurns, original)
	return nil
}

func (f *fakeStore) GetTurns(ctx context.Context, sessionID string) ([]history.Turn, error) {
	return f.turns, f.getErr
}

func (f *fakeStore) CacheResponse(ctx context.Context, entry history.CacheEntry) error {
	return nil
}

func (f *fakeStore) LookupResponse(ctx context.Context, embedding []float32, threshold float64) (*history.CacheEntry, bool, error) {
	return nil, false, nil
}

func fusedDoc(id string, similarity float64) retrieval.FusedDocument {
	return retrieval.FusedDocument{
		Document: retrieval.Document{ID: id, Title: "product " + id, Similarity: similarity},
	}
}

func newTestAgent(fallback FallbackResponder, retriever Retriever, embedder *fakeEmbedder, store history.Store) *GuardedAgent {
	return NewGuardedAgent(fallback, retriever, embedder, store, Config{
		SimilarityThreshold: 0.8,
		MaxHistoryItems:     4,
		TopK:                5,
	}, log.New(io.Discard, "", 0))
}

func TestInvokeOffCatalogDelegatesToFallback(t *testing.T) {
	fallback := &scriptedResponder{
		rawReplies: []string{"no"},
		chatReply:  "I can help with products, though!",
	}
	retriever := &fakeRetriever{}
	embedder := &fakeEmbedder{}
	a := newTestAgent(fallback, retriever, embedder, &fakeStore{})

	res, err := a.Invoke(context.Background(), "how is the weather?", []string{"headphones"}, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Grounded {
		t.Error("off-catalog answer must not be grounded")
	}
	if res.Output != "I can help with products, though!" {
		t.Errorf("output = %q", res.Output)
	}
	if fallback.chatCalls != 1 {
		t.Errorf("fallback.Chat calls = %d, want 1", fallback.chatCalls)
	}
	if retriever.calls != 0 || embedder.calls != 0 {
		t.Errorf("retrieval ran on the off-catalog path (%d/%d calls)", retriever.calls, embedder.calls)
	}
}

func TestInvokeClassifierStrictYes(t *testing.T) {
	// Anything other than exactly "yes" (case-insensitive, trimmed)
	// routes off-catalog.
	for _, answer := range []string{"Yes, definitely", "yep", "maybe", "no", "YES!"} {
		fallback := &scriptedResponder{
			rawReplies: []string{answer},
			chatReply:  "fallback",
		}
		a := newTestAgent(fallback, &fakeRetriever{}, &fakeEmbedder{}, &fakeStore{})

		res, err := a.Invoke(context.Background(), "query", nil, "s1")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", answer, err)
		}
		if res.Grounded || fallback.chatCalls != 1 {
			t.Errorf("%q treated as product-related, want off-catalog", answer)
		}
	}

	for _, answer := range []string{"yes", "YES", " Yes "} {
		fallback := &scriptedResponder{
			rawReplies: []string{answer},
			chatReply:  "fallback",
		}
		retriever := &fakeRetriever{docs: []retrieval.FusedDocument{fusedDoc("p1", 0.9)}}
		fallback.completeReply = "grounded answer"
		a := newTestAgent(fallback, retriever, &fakeEmbedder{vector: []float32{0.1}}, &fakeStore{})

		res, err := a.Invoke(context.Background(), "query", nil, "s1")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", answer, err)
		}
		if !res.Grounded {
			t.Errorf("%q not accepted as yes", answer)
		}
	}
}

func TestInvokeGroundedPath(t *testing.T) {
	store := &fakeStore{}
	fallback := &scriptedResponder{
		rawReplies:    []string{"yes"},
		completeReply: "The Pulse 300 has a 40 hour battery.",
	}
	retriever := &fakeRetriever{docs: []retrieval.FusedDocument{
		fusedDoc("p1", 0.93),
		fusedDoc("p2", 0.45), // below threshold, filtered out
	}}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	a := newTestAgent(fallback, retriever, embedder, store)

	res, err := a.Invoke(context.Background(), "battery life of the pulse?", []string{"headphones"}, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Grounded {
		t.Fatal("expected grounded result")
	}
	if len(res.SourceIDs) != 1 || res.SourceIDs[0] != "p1" {
		t.Errorf("sources = %v, want [p1]", res.SourceIDs)
	}
	if fallback.chatCalls != 0 {
		t.Errorf("fallback.Chat called on the grounded path")
	}
	// Exactly one user and one assistant turn recorded.
	if len(store.userTurns) != 1 || len(store.assistantTurns) != 1 {
		t.Errorf("recorded %d user / %d assistant turns, want 1/1", len(store.userTurns), len(store.assistantTurns))
	}
	// Grounded prompt contains persona, context block and original query.
	turns := fallback.completeTurns
	if len(turns) < 3 {
		t.Fatalf("grounded prompt has %d turns", len(turns))
	}
	if turns[0].Role != llm.RoleSystem {
		t.Errorf("first turn role = %s, want system persona", turns[0].Role)
	}
	last := turns[len(turns)-1]
	if last.Role != llm.RoleUser || last.Content != "battery life of the pulse?" {
		t.Errorf("last turn = %+v, want the original user query", last)
	}
	context_ := turns[len(turns)-2]
	if !strings.Contains(context_.Content, "product p1") {
		t.Errorf("grounded context does not mention the retrieved product: %q", context_.Content)
	}
}

func TestInvokeNoRelevantContextFallsBack(t *testing.T) {
	fallback := &scriptedResponder{
		rawReplies: []string{"yes"},
		chatReply:  "Sorry, nothing matching in the catalog.",
	}
	retriever := &fakeRetriever{docs: []retrieval.FusedDocument{
		fusedDoc("p1", 0.5),
		fusedDoc("p2", 0.79),
	}}
	a := newTestAgent(fallback, retriever, &fakeEmbedder{vector: []float32{0.1}}, &fakeStore{})

	res, err := a.Invoke(context.Background(), "quantum blender", nil, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Grounded {
		t.Error("sub-threshold docs must not ground an answer")
	}
	if fallback.chatCalls != 1 {
		t.Errorf("fallback.Chat calls = %d, want 1", fallback.chatCalls)
	}
	if fallback.completeCalls != 0 {
		t.Errorf("grounded completion ran without relevant context")
	}
}

func TestInvokeRewriteUsesHistory(t *testing.T) {
	store := &fakeStore{turns: []history.Turn{
		{Role: "user", Content: "tell me about the Pulse 300"},
		{Role: "assistant", Content: "It is an over-ear wireless headphone."},
	}}
	fallback := &scriptedResponder{
		rawReplies:    []string{"yes", "what is the battery life of the Aurora Pulse 300"},
		completeReply: "40 hours.",
	}
	retriever := &fakeRetriever{docs: []retrieval.FusedDocument{fusedDoc("p1", 0.9)}}
	a := newTestAgent(fallback, retriever, &fakeEmbedder{vector: []float32{0.1}}, store)

	res, err := a.Invoke(context.Background(), "what about its battery?", nil, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RewrittenQuery != "what is the battery life of the Aurora Pulse 300" {
		t.Errorf("rewritten = %q", res.RewrittenQuery)
	}
	if fallback.rawCalls != 2 {
		t.Errorf("raw calls = %d, want classification + rewrite", fallback.rawCalls)
	}
}

func TestInvokeSkipsRewriteWithoutHistory(t *testing.T) {
	fallback := &scriptedResponder{
		rawReplies:    []string{"yes"},
		completeReply: "answer",
	}
	retriever := &fakeRetriever{docs: []retrieval.FusedDocument{fusedDoc("p1", 0.9)}}
	a := newTestAgent(fallback, retriever, &fakeEmbedder{vector: []float32{0.1}}, &fakeStore{})

	res, err := a.Invoke(context.Background(), "pulse 300 battery", nil, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RewrittenQuery != "pulse 300 battery" {
		t.Errorf("rewritten = %q, want the raw query on an empty session", res.RewrittenQuery)
	}
	if fallback.rawCalls != 1 {
		t.Errorf("raw calls = %d, want classification only", fallback.rawCalls)
	}
}

func TestInvokeHistoryWindowTruncation(t *testing.T) {
	var turns []history.Turn
	for i := 0; i < 10; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		turns = append(turns, history.Turn{Role: role, Content: string(rune('a' + i))})
	}
	store := &fakeStore{turns: turns}
	fallback := &scriptedResponder{
		rawReplies:    []string{"yes", "rewritten"},
		completeReply: "answer",
	}
	retriever := &fakeRetriever{docs: []retrieval.FusedDocument{fusedDoc("p1", 0.9)}}
	a := newTestAgent(fallback, retriever, &fakeEmbedder{vector: []float32{0.1}}, store)

	_, err := a.Invoke(context.Background(), "query", nil, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// MaxHistoryItems=4: persona + 4 history turns + context + query.
	if got := len(fallback.completeTurns); got != 7 {
		t.Fatalf("grounded prompt turns = %d, want 7", got)
	}
	// The window keeps the most recent turns.
	if fallback.completeTurns[1].Content != "g" {
		t.Errorf("window start = %q, want the 7th turn", fallback.completeTurns[1].Content)
	}
}

func TestInvokeRetrievalFailureFallsBack(t *testing.T) {
	fallback := &scriptedResponder{
		rawReplies: []string{"yes"},
		chatReply:  "degraded but alive",
	}
	retriever := &fakeRetriever{err: &retrieval.RetrievalError{Op: "vector search", Err: errors.New("pg down")}}
	a := newTestAgent(fallback, retriever, &fakeEmbedder{vector: []float32{0.1}}, &fakeStore{})

	res, err := a.Invoke(context.Background(), "pulse battery", nil, "s1")
	if err != nil {
		t.Fatalf("retrieval failure must not surface: %v", err)
	}
	if res.Output != "degraded but alive" {
		t.Errorf("output = %q", res.Output)
	}
	if res.Grounded {
		t.Error("grounded without retrieval")
	}
}

func TestInvokeEmbeddingFailureFallsBack(t *testing.T) {
	fallback := &scriptedResponder{
		rawReplies: []string{"yes"},
		chatReply:  "fallback answer",
	}
	retriever := &fakeRetriever{}
	embedder := &fakeEmbedder{err: errors.New("embedding service down")}
	a := newTestAgent(fallback, retriever, embedder, &fakeStore{})

	res, err := a.Invoke(context.Background(), "pulse battery", nil, "s1")
	if err != nil {
		t.Fatalf("embedding failure must not surface: %v", err)
	}
	if res.Grounded {
		t.Error("grounded without an embedding")
	}
	if retriever.calls != 0 {
		t.Errorf("search ran without an embedding")
	}
}

func TestInvokeDoubleProviderFailureSurfaces(t *testing.T) {
	unavailable := &llm.CompletionUnavailableError{
		Primary:   errors.New("primary down"),
		Secondary: errors.New("secondary down"),
	}
	fallback := &scriptedResponder{rawErrs: []error{unavailable}}
	a := newTestAgent(fallback, &fakeRetriever{}, &fakeEmbedder{}, &fakeStore{})

	_, err := a.Invoke(context.Background(), "query", nil, "s1")
	var got *llm.CompletionUnavailableError
	if !errors.As(err, &got) {
		t.Fatalf("err = %v, want CompletionUnavailableError to surface", err)
	}
}

func TestInvokeClassifierErrorTreatedAsNo(t *testing.T) {
	fallback := &scriptedResponder{
		rawErrs:   []error{&llm.ProviderError{Provider: "primary", Err: errors.New("timeout")}},
		chatReply: "fallback answer",
	}
	a := newTestAgent(fallback, &fakeRetriever{}, &fakeEmbedder{}, &fakeStore{})

	res, err := a.Invoke(context.Background(), "query", nil, "s1")
	if err != nil {
		t.Fatalf("single classifier failure must degrade, not fail: %v", err)
	}
	if res.Grounded {
		t.Error("grounded after classification failure")
	}
	if fallback.chatCalls != 1 {
		t.Errorf("fallback.Chat calls = %d, want 1", fallback.chatCalls)
	}
}
