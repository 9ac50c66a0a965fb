package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionID filters chat turns by their opaque session identifier.
type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByVariantID struct {
	VariantID uuid.UUID
}

func (s ByVariantID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("variant_id = ?", s.VariantID)
}
