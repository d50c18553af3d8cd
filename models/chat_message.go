package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat sender roles
const (
	SenderClient = "client"
	SenderLawyer = "lawyer"
)

// ChatMessage is one message in a case conversation. Append only.
type ChatMessage struct {
	ID     string    `gorm:"type:uuid;primarykey" json:"id"`
	CaseID string    `gorm:"type:uuid;not null;index:idx_chat_case_sent" json:"case_id"`
	Sender string    `gorm:"not null" json:"sender"`
	Body   string    `gorm:"column:message;type:text;not null" json:"message"`
	SentAt time.Time `gorm:"not null;index:idx_chat_case_sent" json:"sent_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	return nil
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// IsFromClient reports whether the client authored the message
func (m *ChatMessage) IsFromClient() bool {
	return m.Sender == SenderClient
}

// IsValidSender checks the sender role
func IsValidSender(s string) bool {
	return s == SenderClient || s == SenderLawyer
}
