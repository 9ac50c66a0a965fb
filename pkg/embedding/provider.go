package embedding

import (
	"context"
	"math"
)

// Task hints passed to providers that distinguish query and document
// embeddings. Providers that don't support the distinction ignore them.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// Provider defines the interface for generating text embeddings.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}

// NormalizeVector scales a vector to unit magnitude. Cosine similarity in
// pgvector assumes normalized vectors, and not every backend returns them
// normalized.
func NormalizeVector(values []float32) []float32 {
	var sum float64
	for _, v := range values {
		sum += float64(v) * float64(v)
	}
	magnitude := math.Sqrt(sum)
	if magnitude == 0 {
		return values
	}

	normalized := make([]float32, len(values))
	for i, v := range values {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
