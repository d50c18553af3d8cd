package services

import (
	"errors"
	"fmt"
	"law_office_app_go/models"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrOfficeNotFound = errors.New("office not found")
	ErrMemberNotFound = errors.New("lawyer is not a member of this office")
)

// OfficeUpdate holds editable office details. Nil means unchanged.
type OfficeUpdate struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

// MemberSummary is one row of the office members screen
type MemberSummary struct {
	MemberID  string
	Lawyer    models.Lawyer
	CaseCount int64
}

func GetOffice(db *gorm.DB, officeID string) (*models.Office, error) {
	var office models.Office
	if err := db.First(&office, "id = ?", officeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficeNotFound
		}
		return nil, fmt.Errorf("failed to load office: %w", err)
	}
	return &office, nil
}

// UpdateOffice applies the non-nil fields
func UpdateOffice(db *gorm.DB, officeID string, upd OfficeUpdate) (*models.Office, error) {
	office, err := GetOffice(db, officeID)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if upd.Name != nil {
		name := SanitizeText(*upd.Name)
		if name == "" {
			return nil, ErrEmptyField
		}
		fields["name"] = name
	}
	if upd.Address != nil {
		fields["address"] = SanitizeText(*upd.Address)
	}
	if upd.Phone != nil {
		fields["phone"] = strings.TrimSpace(*upd.Phone)
	}
	if upd.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*upd.Email))
	}
	if len(fields) == 0 {
		return office, nil
	}
	if err := db.Model(office).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update office: %w", err)
	}
	return GetOffice(db, officeID)
}

// ListMembers returns the office's lawyers with the number of cases each handles
func ListMembers(db *gorm.DB, officeID string) ([]MemberSummary, error) {
	var members []models.OfficeMember
	err := db.Where("office_id = ?", officeID).Preload("Lawyer").Order("created_at ASC").Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	out := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		if m.Lawyer == nil {
			continue
		}
		var count int64
		err := db.Table("case_lawyers").
			Joins("JOIN cases ON cases.id = case_lawyers.case_id AND cases.deleted_at IS NULL").
			Where("case_lawyers.lawyer_id = ? AND cases.office_id = ?", m.LawyerID, officeID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count member cases: %w", err)
		}
		out = append(out, MemberSummary{MemberID: m.ID, Lawyer: *m.Lawyer, CaseCount: count})
	}
	return out, nil
}

// NewMemberInput carries the add-lawyer form
type NewMemberInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddLawyerToOffice creates the sign-in account, the lawyer and the membership together
func AddLawyerToOffice(db *gorm.DB, officeID string, in NewMemberInput) (*models.Lawyer, *models.User, error) {
	name := SanitizeText(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return nil, nil, ErrEmptyField
	}
	if len(in.Password) < MinPasswordLength {
		return nil, nil, ErrWeakPassword
	}
	if _, err := GetOffice(db, officeID); err != nil {
		return nil, nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{Name: name, Email: email, Password: hash, Role: models.RoleLawyer, OfficeID: &officeID, IsActive: true}
	lawyer := &models.Lawyer{OfficeID: officeID, Name: name, Email: email, IsActive: true}

	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		lawyer.UserID = &user.ID
		if err := tx.Create(lawyer).Error; err != nil {
			return fmt.Errorf("failed to create lawyer: %w", err)
		}
		if err := tx.Create(&models.OfficeMember{OfficeID: officeID, LawyerID: lawyer.ID}).Error; err != nil {
			return fmt.Errorf("failed to link lawyer to office: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return lawyer, user, nil
}

// RemoveLawyerFromOffice deletes the membership only; the lawyer and account remain
func RemoveLawyerFromOffice(db *gorm.DB, officeID, lawyerID string) error {
	res := db.Where("office_id = ? AND lawyer_id = ?", officeID, lawyerID).Delete(&models.OfficeMember{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
