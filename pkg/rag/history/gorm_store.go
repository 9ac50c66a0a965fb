package history

import (
	"context"

	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/repository/specification"
	"catalog-chat-be/internal/repository/unitofwork"
)

// GormStore is the postgres-backed Store. Turn order is the bigserial
// seq column, so concurrent writers within a session still read back in
// insertion order.
type GormStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewGormStore(uowFactory unitofwork.RepositoryFactory) *GormStore {
	return &GormStore{
		uowFactory: uowFactory,
	}
}

func (s *GormStore) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	turn := &entity.ChatTurn{
		SessionId: sessionID,
		Role:      role,
		Content:   content,
	}
	if err := uow.ChatTurnRepository().Create(ctx, turn); err != nil {
		return &StoreError{Op: "append turn", Err: err}
	}
	return nil
}

func (s *GormStore) AppendUserTurn(ctx context.Context, sessionID, original, enhanced string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	turn := &entity.ChatTurn{
		SessionId: sessionID,
		Role:      "user",
		Content:   original,
	}
	if enhanced != "" && enhanced != original {
		turn.EnhancedContent = &enhanced
	}
	if err := uow.ChatTurnRepository().Create(ctx, turn); err != nil {
		return &StoreError{Op: "append user turn", Err: err}
	}
	return nil
}

func (s *GormStore) GetTurns(ctx context.Context, sessionID string) ([]Turn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.ChatTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Field: "seq"},
	)
	if err != nil {
		return nil, &StoreError{Op: "get turns", Err: err}
	}

	turns := make([]Turn, len(rows))
	for i, row := range rows {
		turns[i] = Turn{
			SessionID: row.SessionId,
			Role:      row.Role,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		}
	}
	return turns, nil
}

func (s *GormStore) CacheResponse(ctx context.Context, entry CacheEntry) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	row := &entity.SemanticCacheEntry{
		Query:          entry.Query,
		Original:       entry.Original,
		Response:       entry.Response,
		EmbeddingValue: entry.Embedding,
	}
	if err := uow.SemanticCacheRepository().Create(ctx, row); err != nil {
		return &StoreError{Op: "cache response", Err: err}
	}
	return nil
}

func (s *GormStore) LookupResponse(ctx context.Context, embedding []float32, threshold float64) (*CacheEntry, bool, error) {
	if len(embedding) == 0 {
		return nil, false, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.SemanticCacheRepository().FindNearest(ctx, embedding)
	if err != nil {
		return nil, false, &StoreError{Op: "lookup response", Err: err}
	}
	if scored == nil || scored.Similarity < threshold {
		return nil, false, nil
	}

	return &CacheEntry{
		Query:      scored.Entry.Query,
		Original:   scored.Entry.Original,
		Response:   scored.Entry.Response,
		Embedding:  scored.Entry.EmbeddingValue,
		Similarity: scored.Similarity,
	}, true, nil
}
