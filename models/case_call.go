package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseCall is a logged phone call with the client
type CaseCall struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	CaseID   string    `gorm:"type:uuid;not null;index" json:"case_id"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	CallDate time.Time `json:"call_date"`
}

func (c *CaseCall) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CallDate.IsZero() {
		c.CallDate = time.Now()
	}
	return nil
}

func (CaseCall) TableName() string {
	return "case_calls"
}
