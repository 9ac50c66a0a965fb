package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn is one recorded message in a conversation. SessionId is an
// opaque identifier supplied by the client and round-tripped unchanged.
// EnhancedContent carries the rewritten form of a user message for audit
// and is nil on assistant turns.
type ChatTurn struct {
	Id              uuid.UUID
	SessionId       string
	Role            string
	Content         string
	EnhancedContent *string
	Seq             int64
	CreatedAt       time.Time
}
