package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identifier and timestamps shared by every table.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b Base) PrimaryKey() uuid.UUID { return b.ID }

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// SoftDeleteBase marks rows inactive instead of removing them. The flag is an
// explicit column (not gorm.DeletedAt) because it participates in unique
// indexes, which lets a deleted slot be re-used.
type SoftDeleteBase struct {
	Base
	IsDeleted bool `gorm:"not null;default:false;index" json:"-"`
}
