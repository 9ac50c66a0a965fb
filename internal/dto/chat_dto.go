package dto

import "time"

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"required,max=64"`
	Message   string `json:"message" validate:"required"`
}

type SendChatResponse struct {
	SessionId string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Grounded  bool      `json:"grounded"`
	SourceIds []string  `json:"source_ids,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GetKeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// GetRewriteResponse exposes the last query rewrite observed for a
// session, mainly for debugging retrieval quality.
type GetRewriteResponse struct {
	SessionId string `json:"session_id"`
	Original  string `json:"original"`
	Rewritten string `json:"rewritten"`
}
