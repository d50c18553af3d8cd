package services

import (
	"errors"
	"fmt"
	"law_office_app_go/models"

	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateNoSteps  = errors.New("template needs at least one step")
)

// StepInput is one step of a template form
type StepInput struct {
	Text string `json:"text"`
	Days int    `json:"days"`
}

func orderedSteps(db *gorm.DB) *gorm.DB {
	return db.Order("step_order ASC")
}

// ListTemplates returns active templates by name with their steps in order
func ListTemplates(db *gorm.DB, officeID string) ([]models.Template, error) {
	var templates []models.Template
	err := db.Where("office_id = ? AND is_active = ?", officeID, true).
		Preload("Steps", orderedSteps).
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func GetTemplate(db *gorm.DB, officeID, id string) (*models.Template, error) {
	var t models.Template
	err := db.Where("id = ? AND office_id = ?", id, officeID).Preload("Steps", orderedSteps).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &t, nil
}

func buildSteps(templateID string, steps []StepInput) ([]models.TemplateStep, error) {
	out := make([]models.TemplateStep, 0, len(steps))
	for _, s := range steps {
		text := SanitizeText(s.Text)
		if text == "" {
			continue
		}
		out = append(out, models.TemplateStep{
			TemplateID:    templateID,
			StepText:      text,
			DaysFromStart: s.Days,
			StepOrder:     len(out) + 1,
		})
	}
	if len(out) == 0 {
		return nil, ErrTemplateNoSteps
	}
	return out, nil
}

// CreateTemplate stores a template with steps numbered from 1
func CreateTemplate(db *gorm.DB, officeID, name string, steps []StepInput) (*models.Template, error) {
	name = SanitizeText(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	t := &models.Template{OfficeID: officeID, Name: name, IsActive: true}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Steps").Create(t).Error; err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		rows, err := buildSteps(t.ID, steps)
		if err != nil {
			return err
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to create template steps: %w", err)
		}
		t.Steps = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTemplate renames the template and replaces all of its steps
func UpdateTemplate(db *gorm.DB, officeID, id, name string, steps []StepInput) (*models.Template, error) {
	name = SanitizeText(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Template{}).Where("id = ? AND office_id = ?", id, officeID).Update("name", name)
		if res.Error != nil {
			return fmt.Errorf("failed to update template: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrTemplateNotFound
		}
		rows, err := buildSteps(id, steps)
		if err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&models.TemplateStep{}).Error; err != nil {
			return fmt.Errorf("failed to clear template steps: %w", err)
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to create template steps: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetTemplate(db, officeID, id)
}

// DeactivateTemplate hides the template from lists
func DeactivateTemplate(db *gorm.DB, officeID, id string) error {
	res := db.Model(&models.Template{}).Where("id = ? AND office_id = ?", id, officeID).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate template: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// ApplyTemplate plans every step as a legal timeline event dated open date + days
func ApplyTemplate(db *gorm.DB, officeID, templateID, caseID string) ([]models.TimelineEvent, error) {
	t, err := GetTemplate(db, officeID, templateID)
	if err != nil {
		return nil, err
	}
	var c models.Case
	if err := db.Where("id = ? AND office_id = ?", caseID, officeID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to load case: %w", err)
	}

	events := make([]models.TimelineEvent, 0, len(t.Steps))
	for _, s := range t.Steps {
		events = append(events, models.TimelineEvent{
			CaseID:     c.ID,
			EventType:  models.EventTypeLegal,
			EventDate:  c.OpenDate.AddDate(0, 0, s.DaysFromStart),
			Title:      s.StepText,
			IsTemplate: true,
			IsPlan:     true,
		})
	}
	if len(events) == 0 {
		return events, nil
	}
	if err := db.Create(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to apply template: %w", err)
	}
	return events, nil
}
