package reflection

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"catalog-chat-be/pkg/llm"
	"catalog-chat-be/pkg/rag/history"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Chat(ctx context.Context, turns []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeStore struct {
	turns       []history.Turn
	getErr      error
	appendErr   error
	cached      *history.CacheEntry
	cacheWrites []history.CacheEntry
	lookupErr   error

	appendedUser      []string
	appendedAssistant []string
}

func (f *fakeStore) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if role == "assistant" {
		f.appendedAssistant = append(f.appendedAssistant, content)
	}
	return nil
}

func (f *fakeStore) AppendUserTurn(ctx context.Context, sessionID, original, enhanced string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appendedUser = append(f.appendedUser, original)
	return nil
}

func (f *fakeStore) GetTurns(ctx context.Context, sessionID string) ([]history.Turn, error) {
	return f.turns, f.getErr
}

func (f *fakeStore) CacheResponse(ctx context.Context, entry history.CacheEntry) error {
	f.cacheWrites = append(f.cacheWrites, entry)
	return nil
}

func (f *fakeStore) LookupResponse(ctx context.Context, embedding []float32, threshold float64) (*history.CacheEntry, bool, error) {
	if f.lookupErr != nil {
		return nil, false, f.lookupErr
	}
	if f.cached != nil && f.cached.Similarity >= threshold {
		return f.cached, true, nil
	}
	return nil, false, nil
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func providerFailure(name string) error {
	return &llm.ProviderError{Provider: name, Err: errors.New("upstream 500")}
}

func TestCompleteWithFailoverPrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{name: "primary", reply: "hello"}
	secondary := &fakeProvider{name: "secondary", reply: "backup"}
	r := NewResponder(primary, secondary, &fakeStore{}, "persona", 0.95, discard())

	out, err := r.CompleteWithFailover(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Errorf("out = %q, want primary reply", out)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary called %d times, want 0", secondary.calls)
	}
}

func TestCompleteWithFailoverFallsOver(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: providerFailure("primary")}
	secondary := &fakeProvider{name: "secondary", reply: "backup"}
	r := NewResponder(primary, secondary, &fakeStore{}, "persona", 0.95, discard())

	out, err := r.CompleteWithFailover(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "backup" {
		t.Errorf("out = %q, want secondary reply", out)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestCompleteWithFailoverDoubleFailure(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: providerFailure("primary")}
	secondary := &fakeProvider{name: "secondary", err: providerFailure("secondary")}
	r := NewResponder(primary, secondary, &fakeStore{}, "persona", 0.95, discard())

	_, err := r.CompleteWithFailover(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})

	var unavailable *llm.CompletionUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("error type = %T, want *CompletionUnavailableError", err)
	}
	if unavailable.Primary == nil || unavailable.Secondary == nil {
		t.Errorf("both underlying errors should be preserved: %+v", unavailable)
	}
}

func TestCompleteWithFailoverNonProviderErrorDoesNotFailOver(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: context.Canceled}
	secondary := &fakeProvider{name: "secondary", reply: "backup"}
	r := NewResponder(primary, secondary, &fakeStore{}, "persona", 0.95, discard())

	_, err := r.CompleteWithFailover(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled passed through", err)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary called on a non-provider failure")
	}
}

func TestChatRecordsBothTurns(t *testing.T) {
	store := &fakeStore{}
	primary := &fakeProvider{name: "primary", reply: "sure thing"}
	r := NewResponder(primary, &fakeProvider{name: "secondary"}, store, "persona", 0.95, discard())

	out, err := r.Chat(context.Background(), "s1", "enhanced text", "original text", false, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "sure thing" {
		t.Errorf("out = %q", out)
	}
	if len(store.appendedUser) != 1 || store.appendedUser[0] != "original text" {
		t.Errorf("user turns = %v, want the original message recorded once", store.appendedUser)
	}
	if len(store.appendedAssistant) != 1 || store.appendedAssistant[0] != "sure thing" {
		t.Errorf("assistant turns = %v", store.appendedAssistant)
	}
}

func TestChatHistoryFailureDegrades(t *testing.T) {
	store := &fakeStore{getErr: &history.StoreError{Op: "get turns", Err: errors.New("db down")}}
	primary := &fakeProvider{name: "primary", reply: "still works"}
	r := NewResponder(primary, &fakeProvider{name: "secondary"}, store, "persona", 0.95, discard())

	out, err := r.Chat(context.Background(), "s1", "msg", "msg", false, nil)
	if err != nil {
		t.Fatalf("history failure must not fail the chat: %v", err)
	}
	if out != "still works" {
		t.Errorf("out = %q", out)
	}
}

func TestChatSemanticCacheHitSkipsCompletion(t *testing.T) {
	store := &fakeStore{
		cached: &history.CacheEntry{Response: "cached answer", Similarity: 0.97},
	}
	primary := &fakeProvider{name: "primary", reply: "fresh answer"}
	r := NewResponder(primary, &fakeProvider{name: "secondary"}, store, "persona", 0.95, discard())

	out, err := r.Chat(context.Background(), "s1", "msg", "msg", true, []float32{0.1, 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "cached answer" {
		t.Errorf("out = %q, want the cached response", out)
	}
	if primary.calls != 0 {
		t.Errorf("provider called %d times on a cache hit, want 0", primary.calls)
	}
	// The exchange is still recorded.
	if len(store.appendedUser) != 1 || len(store.appendedAssistant) != 1 {
		t.Errorf("cache hit must still record the turn pair")
	}
}

func TestChatCachesResponseAfterCompletion(t *testing.T) {
	store := &fakeStore{}
	primary := &fakeProvider{name: "primary", reply: "fresh answer"}
	r := NewResponder(primary, &fakeProvider{name: "secondary"}, store, "persona", 0.95, discard())

	_, err := r.Chat(context.Background(), "s1", "enhanced", "original", true, []float32{0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.cacheWrites) != 1 {
		t.Fatalf("cache writes = %d, want 1", len(store.cacheWrites))
	}
	if store.cacheWrites[0].Response != "fresh answer" || store.cacheWrites[0].Query != "enhanced" {
		t.Errorf("cache entry = %+v", store.cacheWrites[0])
	}
}

func TestChatStoreWriteFailureDoesNotFailRequest(t *testing.T) {
	store := &fakeStore{appendErr: &history.StoreError{Op: "append turn", Err: errors.New("db down")}}
	primary := &fakeProvider{name: "primary", reply: "answer"}
	r := NewResponder(primary, &fakeProvider{name: "secondary"}, store, "persona", 0.95, discard())

	out, err := r.Chat(context.Background(), "s1", "msg", "msg", false, nil)
	if err != nil {
		t.Fatalf("store write failure must not fail the chat: %v", err)
	}
	if out != "answer" {
		t.Errorf("out = %q", out)
	}
}
