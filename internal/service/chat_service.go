package service

import (
	"context"
	"time"

	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/pkg/logger"
	"catalog-chat-be/pkg/rag/agent"

	gocache "github.com/patrickmn/go-cache"
)

// IChatService is the conversational entrypoint. SendChat runs one user
// message through the guarded retrieval pipeline and returns the
// assistant reply.
type IChatService interface {
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	LastRewrite(sessionId string) *dto.GetRewriteResponse
}

type chatService struct {
	agent          *agent.GuardedAgent
	keywordService IKeywordService
	rewriteCache   *gocache.Cache
	logger         logger.ILogger
}

func NewChatService(
	guardedAgent *agent.GuardedAgent,
	keywordService IKeywordService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		agent:          guardedAgent,
		keywordService: keywordService,
		// Rewrites are diagnostic only; keep them for an hour.
		rewriteCache: gocache.New(1*time.Hour, 10*time.Minute),
		logger:       log,
	}
}

func (s *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	tags, err := s.keywordService.Keywords(ctx)
	if err != nil {
		// The classifier can still run on an empty vocabulary; losing
		// keywords degrades gating, it does not block the chat.
		s.logger.Warn("ChatService", "Keyword vocabulary unavailable", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		tags = nil
	}

	result, err := s.agent.Invoke(ctx, req.Message, tags, req.SessionId)
	if err != nil {
		return nil, err
	}

	if result.RewrittenQuery != "" && result.RewrittenQuery != req.Message {
		s.rewriteCache.SetDefault(req.SessionId, &dto.GetRewriteResponse{
			SessionId: req.SessionId,
			Original:  req.Message,
			Rewritten: result.RewrittenQuery,
		})
	}

	return &dto.SendChatResponse{
		SessionId: req.SessionId,
		Role:      "assistant",
		Content:   result.Output,
		Grounded:  result.Grounded,
		SourceIds: result.SourceIDs,
		CreatedAt: time.Now(),
	}, nil
}

func (s *chatService) LastRewrite(sessionId string) *dto.GetRewriteResponse {
	if cached, ok := s.rewriteCache.Get(sessionId); ok {
		if rewrite, ok := cached.(*dto.GetRewriteResponse); ok {
			return rewrite
		}
	}
	return nil
}
