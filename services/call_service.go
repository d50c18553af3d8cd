package services

import (
	"errors"
	"fmt"
	"law_office_app_go/models"
	"time"

	"gorm.io/gorm"
)

var ErrCallNotFound = errors.New("call not found")

// ListCalls returns the call log, newest first
func ListCalls(db *gorm.DB, caseID string) ([]models.CaseCall, error) {
	var calls []models.CaseCall
	if err := db.Where("case_id = ?", caseID).Order("call_date DESC").Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	return calls, nil
}

// CreateCall logs a call. A zero date means now.
func CreateCall(db *gorm.DB, caseID, content string, callDate time.Time) (*models.CaseCall, error) {
	content = SanitizeText(content)
	if content == "" {
		return nil, ErrEmptyField
	}
	call := &models.CaseCall{CaseID: caseID, Content: content, CallDate: callDate}
	if err := db.Create(call).Error; err != nil {
		return nil, fmt.Errorf("failed to create call: %w", err)
	}
	return call, nil
}

// UpdateCall rewrites the call summary
func UpdateCall(db *gorm.DB, caseID, callID, content string) (*models.CaseCall, error) {
	content = SanitizeText(content)
	if content == "" {
		return nil, ErrEmptyField
	}
	var call models.CaseCall
	if err := db.Where("id = ? AND case_id = ?", callID, caseID).First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallNotFound
		}
		return nil, fmt.Errorf("failed to load call: %w", err)
	}
	if err := db.Model(&call).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("failed to update call: %w", err)
	}
	return &call, nil
}

// DeleteCall removes a call entry
func DeleteCall(db *gorm.DB, caseID, callID string) error {
	res := db.Where("id = ? AND case_id = ?", callID, caseID).Delete(&models.CaseCall{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete call: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCallNotFound
	}
	return nil
}
