package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timeline event types
const (
	EventTypeMedical = "medical"
	EventTypeLegal   = "legal"
)

type TimelineEvent struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID      string      `gorm:"type:uuid;not null;index" json:"case_id"`
	EventType   string      `gorm:"not null;index" json:"event_type"`
	EventDate   time.Time   `gorm:"index" json:"event_date"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	IsTemplate  bool        `gorm:"not null;default:false" json:"is_template"`
	IsPlan      bool        `gorm:"not null;default:false" json:"is_plan"`
	Files       []EventFile `gorm:"foreignKey:EventID" json:"event_files"`
}

func (e *TimelineEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

func (TimelineEvent) TableName() string {
	return "timeline_events"
}

// IsValidEventType checks the timeline type
func IsValidEventType(t string) bool {
	return t == EventTypeMedical || t == EventTypeLegal
}

// EventFile is a file attached to a timeline event
type EventFile struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	EventID  string `gorm:"type:uuid;not null;index" json:"event_id"`
	FileName string `gorm:"not null" json:"file_name"`
	FilePath string `gorm:"not null" json:"-"` // storage key, not exposed
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type,omitempty"`
}

func (f *EventFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

func (EventFile) TableName() string {
	return "event_files"
}
