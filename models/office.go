package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Office is the tenant that owns cases, lawyers and reference data
type Office struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name    string `gorm:"not null" json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`

	// Relationships
	Users   []User         `gorm:"foreignKey:OfficeID" json:"-"`
	Members []OfficeMember `gorm:"foreignKey:OfficeID" json:"members,omitempty"`
}

// BeforeCreate hook to generate UUID
func (o *Office) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Office model
func (Office) TableName() string {
	return "offices"
}

// OfficeMember links a lawyer to an office
type OfficeMember struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OfficeID string  `gorm:"type:uuid;not null;uniqueIndex:idx_office_member" json:"office_id"`
	LawyerID string  `gorm:"type:uuid;not null;uniqueIndex:idx_office_member" json:"lawyer_id"`
	Lawyer   *Lawyer `gorm:"foreignKey:LawyerID" json:"lawyer,omitempty"`
}

func (m *OfficeMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (OfficeMember) TableName() string {
	return "office_members"
}
