package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task urgency tiers
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

type CaseTask struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID   string     `gorm:"type:uuid;not null;index" json:"case_id"`
	Case     *Case      `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	Text     string     `gorm:"type:text;not null" json:"text"`
	Urgency  string     `gorm:"not null;default:low" json:"urgency"`
	Deadline *time.Time `gorm:"index" json:"deadline,omitempty"`
	Done     bool       `gorm:"not null;default:false;index" json:"done"`
}

func (t *CaseTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Urgency == "" {
		t.Urgency = UrgencyLow
	}
	return nil
}

func (CaseTask) TableName() string {
	return "case_tasks"
}

// IsValidUrgency checks the urgency tier
func IsValidUrgency(u string) bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}
