package services

import (
	"errors"
	"fmt"
	"law_office_app_go/models"

	"gorm.io/gorm"
)

var ErrCaseTypeNotFound = errors.New("case type not found")

// ListCaseTypes returns the office's active case types by name
func ListCaseTypes(db *gorm.DB, officeID string) ([]models.CaseType, error) {
	var types []models.CaseType
	err := db.Where("office_id = ? AND is_active = ?", officeID, true).Order("name ASC").Find(&types).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list case types: %w", err)
	}
	return types, nil
}

func CreateCaseType(db *gorm.DB, officeID, name string) (*models.CaseType, error) {
	name = SanitizeText(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	ct := &models.CaseType{OfficeID: officeID, Name: name, IsActive: true}
	if err := db.Create(ct).Error; err != nil {
		return nil, fmt.Errorf("failed to create case type: %w", err)
	}
	return ct, nil
}

// DeactivateCaseType soft deletes; existing cases keep their type
func DeactivateCaseType(db *gorm.DB, officeID, id string) error {
	res := db.Model(&models.CaseType{}).Where("id = ? AND office_id = ?", id, officeID).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate case type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCaseTypeNotFound
	}
	return nil
}
