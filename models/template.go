package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template is a reusable case work plan
type Template struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OfficeID string         `gorm:"type:uuid;not null;index" json:"office_id"`
	Name     string         `gorm:"not null" json:"name"`
	IsActive bool           `gorm:"not null;default:true;index" json:"is_active"`
	Steps    []TemplateStep `gorm:"foreignKey:TemplateID" json:"template_steps"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (Template) TableName() string {
	return "templates"
}

// TemplateStep is one planned step, scheduled relative to the case open date
type TemplateStep struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TemplateID    string `gorm:"type:uuid;not null;index" json:"template_id"`
	StepText      string `gorm:"not null" json:"step_text"`
	DaysFromStart int    `gorm:"not null;default:0" json:"days_from_start"`
	StepOrder     int    `gorm:"not null" json:"step_order"`
}

func (s *TemplateStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (TemplateStep) TableName() string {
	return "template_steps"
}
