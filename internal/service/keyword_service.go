package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"catalog-chat-be/internal/pkg/logger"
	"catalog-chat-be/internal/repository/unitofwork"

	"github.com/redis/go-redis/v9"
)

const (
	keywordCacheKey = "catalog:keywords"
	keywordCacheTTL = 300 * time.Second
)

// IKeywordService supplies the classifier vocabulary: every brand,
// category and tag name in the catalog, deduplicated.
type IKeywordService interface {
	Keywords(ctx context.Context) ([]string, error)
}

type keywordService struct {
	uowFactory unitofwork.RepositoryFactory
	rdb        *redis.Client
	logger     logger.ILogger
}

func NewKeywordService(uowFactory unitofwork.RepositoryFactory, rdb *redis.Client, log logger.ILogger) IKeywordService {
	return &keywordService{
		uowFactory: uowFactory,
		rdb:        rdb,
		logger:     log,
	}
}

func (s *keywordService) Keywords(ctx context.Context) ([]string, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, keywordCacheKey).Result()
		if err == nil {
			var cached []string
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("KeywordService", "Redis lookup failed, falling through to DB", map[string]interface{}{"error": err.Error()})
		}
	}

	keywords, err := s.loadKeywords(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(keywords); err == nil {
			if err := s.rdb.Set(ctx, keywordCacheKey, raw, keywordCacheTTL).Err(); err != nil {
				s.logger.Warn("KeywordService", "Redis cache write failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	return keywords, nil
}

func (s *keywordService) loadKeywords(ctx context.Context) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.CatalogRepository()

	brands, err := repo.BrandNames(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := repo.CategoryNames(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := repo.TagNames(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var keywords []string
	for _, group := range [][]string{brands, categories, tags} {
		for _, name := range group {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keywords = append(keywords, name)
		}
	}
	sort.Strings(keywords)
	return keywords, nil
}
