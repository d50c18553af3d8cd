package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleLawyer = "lawyer"
)

// User is the signed-in profile of an office admin or lawyer
type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string     `gorm:"not null" json:"full_name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	OfficeID    *string    `gorm:"type:uuid;index" json:"office_id"` // Nullable - lawyer may sign up before any office exists
	Role        string     `gorm:"not null;default:lawyer" json:"role"`
	Language    string     `gorm:"size:5" json:"language,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Login lockout
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockoutUntil        *time.Time `json:"-"`

	// Relationships
	Office *Office `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// HasOffice checks if the user has an office assigned
func (u *User) HasOffice() bool {
	return u.OfficeID != nil && *u.OfficeID != ""
}

// IsAdmin reports whether the user manages the office
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLocked reports whether sign-in is temporarily blocked
func (u *User) IsLocked(now time.Time) bool {
	return u.LockoutUntil != nil && now.Before(*u.LockoutUntil)
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
