package retrieval

import (
	"context"
	"math"

	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/repository/unitofwork"
)

// PgIndex is the postgres-backed DocumentIndex over product_embeddings,
// using pgvector for the vector path and full-text search for the
// keyword path.
type PgIndex struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPgIndex(uowFactory unitofwork.RepositoryFactory) *PgIndex {
	return &PgIndex{
		uowFactory: uowFactory,
	}
}

func (p *PgIndex) QueryByVector(ctx context.Context, embedding []float32, limit int) ([]Document, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ProductEmbeddingRepository().SearchSimilarWithScore(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(scored))
	for i, s := range scored {
		docs[i] = toDocument(s.Embedding, s.Similarity)
	}
	return docs, nil
}

func (p *PgIndex) QueryByKeywords(ctx context.Context, text string, limit int) ([]Document, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	ranked, err := uow.ProductEmbeddingRepository().SearchKeywordWithRank(ctx, text, limit)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(ranked))
	for i, r := range ranked {
		// ts_rank is unbounded above; squash it into (0, 1) so keyword
		// hits carry the same higher-is-better polarity as cosine
		// similarity.
		docs[i] = toDocument(r.Embedding, r.Rank/(r.Rank+1))
	}
	return docs, nil
}

func toDocument(e *entity.ProductEmbedding, similarity float64) Document {
	tags := e.Tags
	if e.Category != "" {
		tags = append([]string{e.Category}, tags...)
	}
	if math.IsNaN(similarity) {
		similarity = 0
	}
	return Document{
		ID:           e.VariantId.String(),
		Title:        e.Title,
		Description:  e.Document,
		Price:        e.Price,
		Brand:        e.Brand,
		CategoryTags: tags,
		Similarity:   similarity,
	}
}
