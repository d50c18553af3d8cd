package services

import (
	"errors"
	"fmt"
	"law_office_app_go/models"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrInvalidUrgency = errors.New("invalid urgency")
)

// TaskInput carries a new or edited task
type TaskInput struct {
	Text     string     `json:"text"`
	Urgency  string     `json:"urgency"`
	Deadline *time.Time `json:"deadline"`
}

// ListTasks returns the case's tasks, open ones first
func ListTasks(db *gorm.DB, caseID string) ([]models.CaseTask, error) {
	var tasks []models.CaseTask
	if err := db.Where("case_id = ?", caseID).Order("done ASC, created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListOfficeOpenTasks returns every open task of the office with its case
func ListOfficeOpenTasks(db *gorm.DB, officeID string) ([]models.CaseTask, error) {
	var tasks []models.CaseTask
	err := db.Joins("JOIN cases ON cases.id = case_tasks.case_id AND cases.deleted_at IS NULL").
		Where("cases.office_id = ? AND case_tasks.done = ?", officeID, false).
		Preload("Case").
		Order("case_tasks.deadline ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list office tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask adds a task. Urgency defaults to low.
func CreateTask(db *gorm.DB, caseID string, in TaskInput) (*models.CaseTask, error) {
	text := SanitizeText(in.Text)
	if text == "" {
		return nil, ErrEmptyField
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = models.UrgencyLow
	}
	if !models.IsValidUrgency(urgency) {
		return nil, ErrInvalidUrgency
	}

	task := &models.CaseTask{CaseID: caseID, Text: text, Urgency: urgency, Deadline: in.Deadline}
	if err := db.Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask rewrites text, urgency and deadline
func UpdateTask(db *gorm.DB, caseID, taskID string, in TaskInput) (*models.CaseTask, error) {
	task, err := findTask(db, caseID, taskID)
	if err != nil {
		return nil, err
	}
	text := SanitizeText(in.Text)
	if text == "" {
		return nil, ErrEmptyField
	}
	if in.Urgency != "" && !models.IsValidUrgency(in.Urgency) {
		return nil, ErrInvalidUrgency
	}

	fields := map[string]interface{}{"text": text, "deadline": in.Deadline}
	if in.Urgency != "" {
		fields["urgency"] = in.Urgency
	}
	if err := db.Model(task).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return findTask(db, caseID, taskID)
}

// ToggleTask flips the done flag
func ToggleTask(db *gorm.DB, caseID, taskID string) (*models.CaseTask, error) {
	task, err := findTask(db, caseID, taskID)
	if err != nil {
		return nil, err
	}
	task.Done = !task.Done
	if err := db.Model(task).Update("done", task.Done).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task
func DeleteTask(db *gorm.DB, caseID, taskID string) error {
	res := db.Where("id = ? AND case_id = ?", taskID, caseID).Delete(&models.CaseTask{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func findTask(db *gorm.DB, caseID, taskID string) (*models.CaseTask, error) {
	var task models.CaseTask
	if err := db.Where("id = ? AND case_id = ?", taskID, caseID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return &task, nil
}
