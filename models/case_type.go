package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseType classifies cases, e.g. medical negligence or road accident
type CaseType struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OfficeID string `gorm:"type:uuid;not null;index" json:"office_id"`
	Name     string `gorm:"not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true;index" json:"is_active"`
}

func (t *CaseType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (CaseType) TableName() string {
	return "case_types"
}
