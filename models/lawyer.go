package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lawyer is a reference entity assignable to cases. Deactivated, never removed.
type Lawyer struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OfficeID string  `gorm:"type:uuid;not null;index" json:"office_id"`
	UserID   *string `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name     string  `gorm:"not null" json:"name"`
	Email    string  `json:"email,omitempty"`
	IsActive bool    `gorm:"not null;default:true;index" json:"is_active"`
}

func (l *Lawyer) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (Lawyer) TableName() string {
	return "lawyers"
}
