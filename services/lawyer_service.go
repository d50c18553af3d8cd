package services

import (
	"errors"
	"fmt"
	"law_office_app_go/models"

	"gorm.io/gorm"
)

var ErrLawyerNotFound = errors.New("lawyer not found")

// ListLawyers returns the office's active lawyers by name
func ListLawyers(db *gorm.DB, officeID string) ([]models.Lawyer, error) {
	var lawyers []models.Lawyer
	err := db.Where("office_id = ? AND is_active = ?", officeID, true).Order("name ASC").Find(&lawyers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lawyers: %w", err)
	}
	return lawyers, nil
}

// CreateLawyer adds a lawyer that can be assigned to cases
func CreateLawyer(db *gorm.DB, officeID, name string) (*models.Lawyer, error) {
	name = SanitizeText(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	lawyer := &models.Lawyer{OfficeID: officeID, Name: name, IsActive: true}
	if err := db.Create(lawyer).Error; err != nil {
		return nil, fmt.Errorf("failed to create lawyer: %w", err)
	}
	return lawyer, nil
}

// RenameLawyer changes the lawyer's display name
func RenameLawyer(db *gorm.DB, officeID, lawyerID, name string) (*models.Lawyer, error) {
	name = SanitizeText(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	res := db.Model(&models.Lawyer{}).Where("id = ? AND office_id = ?", lawyerID, officeID).Update("name", name)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to rename lawyer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrLawyerNotFound
	}
	var lawyer models.Lawyer
	if err := db.First(&lawyer, "id = ?", lawyerID).Error; err != nil {
		return nil, fmt.Errorf("failed to load lawyer: %w", err)
	}
	return &lawyer, nil
}

// DeactivateLawyer hides the lawyer from selection; case links stay intact
func DeactivateLawyer(db *gorm.DB, officeID, lawyerID string) error {
	res := db.Model(&models.Lawyer{}).Where("id = ? AND office_id = ?", lawyerID, officeID).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate lawyer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLawyerNotFound
	}
	return nil
}
