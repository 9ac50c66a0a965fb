package prompt

import (
	"strings"
	"testing"

	"catalog-chat-be/pkg/rag/retrieval"
)

func TestBuildClassification(t *testing.T) {
	p := BuildClassification("do you sell headphones?", []string{"Aurora", "Headphones", "wireless"})

	if !strings.Contains(p, "do you sell headphones?") {
		t.Error("query missing from prompt")
	}
	if !strings.Contains(p, "Aurora, Headphones, wireless") {
		t.Error("keyword vocabulary missing from prompt")
	}
	if !strings.Contains(p, `"yes" or "no"`) {
		t.Error("prompt must demand a bare yes/no")
	}
}

func TestBuildRewriteIncludesHistoryInOrder(t *testing.T) {
	p := BuildRewrite("what about its battery?", []string{
		"user: tell me about the Pulse 300",
		"assistant: It is an over-ear headphone.",
	})

	first := strings.Index(p, "tell me about the Pulse 300")
	second := strings.Index(p, "It is an over-ear headphone.")
	last := strings.Index(p, "what about its battery?")
	if first == -1 || second == -1 || last == -1 {
		t.Fatalf("prompt missing parts:\n%s", p)
	}
	if !(first < second && second < last) {
		t.Error("history lines out of order")
	}
	if !strings.Contains(p, "Do NOT answer") {
		t.Error("rewrite prompt must forbid answering")
	}
}

func TestBuildGroundedContext(t *testing.T) {
	docs := []retrieval.FusedDocument{
		{Document: retrieval.Document{
			Title:        "Aurora Pulse 300",
			Brand:        "Aurora",
			CategoryTags: []string{"Headphones", "wireless"},
			Price:        179.99,
			Description:  "Over-ear wireless headphones.",
		}},
		{Document: retrieval.Document{Title: "Bare Product"}},
	}

	ctx := BuildGroundedContext(docs)

	for _, want := range []string{
		"--- Product 1 ---",
		"Name: Aurora Pulse 300",
		"Brand: Aurora",
		"Categories: Headphones, wireless",
		"Price: 180",
		"--- Product 2 ---",
		"Name: Bare Product",
	} {
		if !strings.Contains(ctx, want) {
			t.Errorf("missing %q in:\n%s", want, ctx)
		}
	}

	// Empty fields of the second product are omitted entirely.
	second := ctx[strings.Index(ctx, "--- Product 2 ---"):]
	if strings.Contains(second, "Brand:") || strings.Contains(second, "Price:") {
		t.Errorf("empty fields rendered:\n%s", second)
	}
}
