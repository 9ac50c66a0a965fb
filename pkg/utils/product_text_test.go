package utils

import (
	"strings"
	"testing"

	"catalog-chat-be/internal/entity"
)

func TestProductText(t *testing.T) {
	v := &entity.ProductVariant{
		Name:        "Aurora Pulse 300",
		Description: "Over-ear wireless headphones.",
		Price:       179.99,
		Brand:       &entity.Brand{Name: "Aurora"},
		Category:    &entity.Category{Name: "Headphones"},
		Tags:        []entity.Tag{{Name: "wireless"}, {Name: "noise-cancelling"}},
		Specs: map[string]any{
			"battery": "40h",
			"display": map[string]any{"type": "none"},
		},
	}

	text := ProductText(v)

	for _, want := range []string{
		"Product: Aurora Pulse 300",
		"Brand: Aurora",
		"Category: Headphones",
		"Tags: wireless, noise-cancelling",
		"Price: 179.99",
		"Description: Over-ear wireless headphones.",
		"battery: 40h",
		"display type: none",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestProductTextDeterministic(t *testing.T) {
	v := &entity.ProductVariant{
		Name:  "Widget",
		Price: 10,
		Specs: map[string]any{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5},
	}

	first := ProductText(v)
	for i := 0; i < 20; i++ {
		if got := ProductText(v); got != first {
			t.Fatal("ProductText is not deterministic across map iterations")
		}
	}
}

func TestProductTextMinimalVariant(t *testing.T) {
	v := &entity.ProductVariant{Name: "Bare", Price: 5}
	text := ProductText(v)

	if strings.Contains(text, "Brand:") || strings.Contains(text, "Description:") {
		t.Errorf("empty fields must be omitted:\n%s", text)
	}
	if !strings.HasPrefix(text, "Product: Bare") {
		t.Errorf("text = %q", text)
	}
}

func TestFlattenSpecs(t *testing.T) {
	lines := FlattenSpecs(map[string]any{
		"color":   "black",
		"display": map[string]any{"size": "6.1 inch", "type": "OLED"},
		"modes":   []any{"wired", "wireless"},
		"empty":   nil,
	})

	want := []string{
		"color: black",
		"display size: 6.1 inch",
		"display type: OLED",
		"modes: wired, wireless",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSplitText(t *testing.T) {
	short := "short text"
	if got := SplitText(short, 100, 10); len(got) != 1 || got[0] != short {
		t.Errorf("short input = %v", got)
	}

	long := strings.Repeat("abcdefghij", 50) // 500 chars
	chunks := SplitText(long, 200, 50)
	if len(chunks) < 3 {
		t.Fatalf("chunks = %d, want >= 3", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 200 {
			t.Errorf("chunk %d length = %d, exceeds chunk size", i, len(c))
		}
	}
	// Overlap: each chunk after the first starts 150 chars after the
	// previous one.
	if chunks[1][:50] != chunks[0][150:200] {
		t.Error("chunks do not overlap as configured")
	}
}
