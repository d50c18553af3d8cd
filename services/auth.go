package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"law_office_app_go/models"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration is the default session duration (7 days)
	DefaultSessionDuration = 7 * 24 * time.Hour
	// MinPasswordLength is enforced on sign-up and when adding lawyers
	MinPasswordLength = 6
	// MaxFailedLogins before the account is locked for LockoutDuration
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
)

// Auth state change events
const (
	AuthEventSignedIn  = "SIGNED_IN"
	AuthEventSignedOut = "SIGNED_OUT"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked, try again later")
	ErrAccountInactive    = errors.New("account has been deactivated")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrOfficeNameRequired = errors.New("office name is required for admin sign-up")
	ErrInvalidRole        = errors.New("invalid role")
)

// dummyHash is compared against when the email is unknown so both paths cost one bcrypt check
var dummyHash string

func init() {
	hash, _ := HashPassword("dummy_password_for_timing_mitigation")
	dummyHash = hash
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword verifies a password against a bcrypt hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// SignUpInput carries the sign-up form
type SignUpInput struct {
	FullName   string
	Email      string
	Password   string
	Role       string
	OfficeName string
}

// SignUp registers a profile. An admin creates a new office, a lawyer joins
// the first existing office (or none if the system has no office yet).
func SignUp(db *gorm.DB, in SignUpInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.FullName)
	if email == "" || name == "" {
		return nil, ErrInvalidCredentials
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	role := in.Role
	if role == "" {
		role = models.RoleLawyer
	}
	if role != models.RoleAdmin && role != models.RoleLawyer {
		return nil, ErrInvalidRole
	}
	officeName := strings.TrimSpace(in.OfficeName)
	if role == models.RoleAdmin && officeName == "" {
		return nil, ErrOfficeNameRequired
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if role == models.RoleAdmin {
			office := &models.Office{Name: officeName, Email: email}
			if err := tx.Create(office).Error; err != nil {
				return fmt.Errorf("failed to create office: %w", err)
			}
			user.OfficeID = &office.ID
		} else {
			var office models.Office
			err := tx.Order("created_at ASC").First(&office).Error
			if err == nil {
				user.OfficeID = &office.ID
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		// Lawyers are also a selectable reference entity of their office
		if role == models.RoleLawyer && user.OfficeID != nil {
			lawyer := &models.Lawyer{OfficeID: *user.OfficeID, UserID: &user.ID, Name: name, Email: email, IsActive: true}
			if err := tx.Create(lawyer).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.OfficeMember{OfficeID: *user.OfficeID, LawyerID: lawyer.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SECURITY] SIGNUP | User: %s | Role: %s", user.ID, role)
	return user, nil
}

// Authenticate checks credentials, applying lockout after repeated failures
func Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := db.Preload("Office").Where("email = ?", email).First(&user).Error; err != nil {
		VerifyPassword(dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	if !VerifyPassword(user.Password, password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= MaxFailedLogins {
			until := now.Add(LockoutDuration)
			user.LockoutUntil = &until
			user.FailedLoginAttempts = 0
			LogSecurityEvent(db, "ACCOUNT_LOCKED", user.ID, "too many failed logins")
		}
		db.Model(&user).Select("failed_login_attempts", "lockout_until").Updates(&user)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	user.FailedLoginAttempts = 0
	user.LockoutUntil = nil
	user.LastLoginAt = &now
	db.Model(&user).Select("failed_login_attempts", "lockout_until", "last_login_at").Updates(&user)

	return &user, nil
}

// CreateSession creates a new session for a user
func CreateSession(db *gorm.DB, userID, officeID string, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if officeID != "" {
		session.OfficeID = &officeID
	}

	if err := db.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	AuthEvents.emit(AuthEventSignedIn, userID)
	return session, nil
}

// ValidateSession validates a session token and returns the session if valid
func ValidateSession(db *gorm.DB, token string) (*models.Session, error) {
	var session models.Session

	err := db.Preload("User.Office").Preload("Office").
		Where("token = ?", token).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		db.Delete(&session)
		return nil, fmt.Errorf("session expired")
	}

	return &session, nil
}

// DeleteSession deletes a session (logout)
func DeleteSession(db *gorm.DB, token string) error {
	var session models.Session
	if err := db.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := db.Delete(&session).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	AuthEvents.emit(AuthEventSignedOut, session.UserID)
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func CleanupExpiredSessions(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d expired sessions", result.RowsAffected)
	}
	return nil
}

// GetProfile returns the user with their office
func GetProfile(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.Preload("Office").First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

// AuthStateListener receives the event name and the affected user id
type AuthStateListener func(event, userID string)

// AuthEventBus fans out sign-in and sign-out events
type AuthEventBus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]AuthStateListener
}

// AuthEvents is the process-wide auth event bus
var AuthEvents = &AuthEventBus{listeners: make(map[int]AuthStateListener)}

// OnAuthStateChange registers cb and returns a func that removes it
func (b *AuthEventBus) OnAuthStateChange(cb AuthStateListener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = cb
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *AuthEventBus) emit(event, userID string) {
	b.mu.RLock()
	cbs := make([]AuthStateListener, 0, len(b.listeners))
	for _, cb := range b.listeners {
		cbs = append(cbs, cb)
	}
	b.mu.RUnlock()

	for _, cb := range cbs {
		cb(event, userID)
	}
}
