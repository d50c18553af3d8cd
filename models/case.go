package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusOpen    = "open"
	CaseStatusProcess = "process" // in progress
	CaseStatusClosed  = "closed"
)

// Case represents a client legal matter
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Office relationship (multi-tenant isolation)
	OfficeID string `gorm:"type:uuid;not null;index:idx_case_office_status;uniqueIndex:idx_office_case_num" json:"office_id"`
	Office   Office `gorm:"foreignKey:OfficeID" json:"-"`

	// Case identification
	CaseNum     string `gorm:"not null;uniqueIndex:idx_office_case_num" json:"case_num"`
	Title       string `json:"title"`
	CourtFileNo string `json:"ta_num,omitempty"`

	// Client details
	FirstName  string `gorm:"not null" json:"first_name"`
	LastName   string `json:"last_name"`
	NationalID string `gorm:"index" json:"tz,omitempty"`
	Phone      string `json:"phone,omitempty"`
	HMO        string `json:"hmo,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`

	CaseTypeID *string   `gorm:"type:uuid;index" json:"case_type_id,omitempty"`
	CaseType   *CaseType `gorm:"foreignKey:CaseTypeID" json:"case_type,omitempty"`

	// Status and lifecycle
	Status       string     `gorm:"not null;default:open;index:idx_case_office_status" json:"status"`
	OpenDate     time.Time  `gorm:"not null" json:"open_date"`
	DocsDeadline *time.Time `json:"docs_deadline,omitempty"`

	// Relationships
	Lawyers        []Lawyer        `gorm:"many2many:case_lawyers;" json:"lawyers,omitempty"`
	Documents      []CaseDocument  `gorm:"foreignKey:CaseID" json:"case_documents,omitempty"`
	Tasks          []CaseTask      `gorm:"foreignKey:CaseID" json:"case_tasks,omitempty"`
	Calls          []CaseCall      `gorm:"foreignKey:CaseID" json:"case_calls,omitempty"`
	TimelineEvents []TimelineEvent `gorm:"foreignKey:CaseID" json:"timeline_events,omitempty"`
	ChatMessages   []ChatMessage   `gorm:"foreignKey:CaseID" json:"chat_messages,omitempty"`
}

// BeforeCreate hook to generate UUID and set OpenDate
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.OpenDate.IsZero() {
		c.OpenDate = time.Now()
	}
	if c.Status == "" {
		c.Status = CaseStatusOpen
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// ClientName returns the client's full name
func (c *Case) ClientName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// LawyerNames joins the assigned lawyers' names
func (c *Case) LawyerNames() string {
	names := make([]string, 0, len(c.Lawyers))
	for _, l := range c.Lawyers {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}

// AllDocumentsSigned reports whether every document is signed. A case without documents counts as signed.
func (c *Case) AllDocumentsSigned() bool {
	for _, d := range c.Documents {
		if d.Status != DocumentStatusSigned {
			return false
		}
	}
	return true
}

// DocumentsOverdue reports unsigned documents past the submission deadline
func (c *Case) DocumentsOverdue(today time.Time) bool {
	if c.DocsDeadline == nil || c.AllDocumentsSigned() {
		return false
	}
	return c.DocsDeadline.Before(today)
}

// OpenTaskCount counts tasks not yet done
func (c *Case) OpenTaskCount() int {
	n := 0
	for _, t := range c.Tasks {
		if !t.Done {
			n++
		}
	}
	return n
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusOpen, CaseStatusProcess, CaseStatusClosed:
		return true
	}
	return false
}
