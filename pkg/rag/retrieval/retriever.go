package retrieval

import (
	"context"
	"fmt"
	"log"
)

// DocumentIndex is the port to the underlying search index. The postgres
// adapter lives in the repository layer; tests inject fakes.
type DocumentIndex interface {
	// QueryByVector returns the nearest documents to the embedding,
	// ordered by descending similarity.
	QueryByVector(ctx context.Context, embedding []float32, limit int) ([]Document, error)

	// QueryByKeywords returns documents lexically matching the text,
	// ordered by descending match rank.
	QueryByKeywords(ctx context.Context, text string, limit int) ([]Document, error)
}

// RetrievalError wraps an index failure. It is never produced for the
// documented empty-input short-circuits.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// HybridRetriever executes vector and keyword search against one index
// and fuses the two ranked lists with RRF.
type HybridRetriever struct {
	index  DocumentIndex
	rrfK   int
	logger *log.Logger
}

func NewHybridRetriever(index DocumentIndex, rrfK int, logger *log.Logger) *HybridRetriever {
	if rrfK <= 0 {
		rrfK = DefaultRRFConstant
	}
	return &HybridRetriever{
		index:  index,
		rrfK:   rrfK,
		logger: logger,
	}
}

// VectorSearch queries the index by nearest neighbors. An empty embedding
// short-circuits to an empty result without touching the index.
func (r *HybridRetriever) VectorSearch(ctx context.Context, embedding []float32, limit int) ([]Document, error) {
	if len(embedding) == 0 {
		return []Document{}, nil
	}

	docs, err := r.index.QueryByVector(ctx, embedding, limit)
	if err != nil {
		return nil, &RetrievalError{Op: "vector search", Err: err}
	}
	return docs, nil
}

// KeywordSearch queries the index by lexical match. Empty text
// short-circuits to an empty result without touching the index.
func (r *HybridRetriever) KeywordSearch(ctx context.Context, text string, limit int) ([]Document, error) {
	if text == "" {
		return []Document{}, nil
	}

	docs, err := r.index.QueryByKeywords(ctx, text, limit)
	if err != nil {
		return nil, &RetrievalError{Op: "keyword search", Err: err}
	}
	return docs, nil
}

// HybridSearch runs both search paths, fuses the ranked lists (vector
// list first, then keyword list) and truncates to limit AFTER fusion.
func (r *HybridRetriever) HybridSearch(ctx context.Context, embedding []float32, text string, limit int) ([]FusedDocument, error) {
	vectorDocs, err := r.VectorSearch(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}

	keywordDocs, err := r.KeywordSearch(ctx, text, limit)
	if err != nil {
		return nil, err
	}

	fused := FuseRanked(r.rrfK, vectorDocs, keywordDocs)
	if len(fused) > limit {
		fused = fused[:limit]
	}

	if r.logger != nil {
		r.logger.Printf("[RETRIEVAL] vector=%d keyword=%d fused=%d (limit %d)",
			len(vectorDocs), len(keywordDocs), len(fused), limit)
	}

	return fused, nil
}
