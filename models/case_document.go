package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conventional document statuses. Any non-empty status is stored as given.
const (
	DocumentStatusNone   = "none"
	DocumentStatusSent   = "sent"
	DocumentStatusSigned = "signed"
)

// DefaultCaseDocuments are seeded on every new case
var DefaultCaseDocuments = []string{
	"Power of attorney",
	"Medical confidentiality waiver",
	"Fee agreement",
}

// CaseDocument is a representation document the client must sign
type CaseDocument struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseID  string `gorm:"type:uuid;not null;index" json:"case_id"`
	DocName string `gorm:"not null" json:"doc_name"`
	Status  string `gorm:"not null;default:none" json:"status"`
}

// BeforeCreate hook to generate UUID
func (d *CaseDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Status == "" {
		d.Status = DocumentStatusNone
	}
	return nil
}

func (CaseDocument) TableName() string {
	return "case_documents"
}
