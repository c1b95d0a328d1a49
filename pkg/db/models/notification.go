package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arcadehq/freegames-backend/pkg/enums"
)

// Notification stores in-app alerts emitted by the trigger sweeps.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Type      enums.NotificationType `gorm:"column:type;not null"`
	Title     string                 `gorm:"column:title;not null"`
	Message   string                 `gorm:"column:message;not null"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
