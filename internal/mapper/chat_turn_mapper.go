package mapper

import (
	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/model"
)

type ChatTurnMapper struct{}

func NewChatTurnMapper() *ChatTurnMapper {
	return &ChatTurnMapper{}
}

func (m *ChatTurnMapper) ToEntity(e *model.ChatTurn) *entity.ChatTurn {
	if e == nil {
		return nil
	}

	return &entity.ChatTurn{
		Id:              e.Id,
		SessionId:       e.SessionId,
		Role:            e.Role,
		Content:         e.Content,
		EnhancedContent: e.EnhancedContent,
		Seq:             e.Seq,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToModel(e *entity.ChatTurn) *model.ChatTurn {
	if e == nil {
		return nil
	}

	return &model.ChatTurn{
		Id:              e.Id,
		SessionId:       e.SessionId,
		Role:            e.Role,
		Content:         e.Content,
		EnhancedContent: e.EnhancedContent,
		Seq:             e.Seq,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToEntities(turns []*model.ChatTurn) []*entity.ChatTurn {
	entities := make([]*entity.ChatTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
