package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"law_office_app_go/models"
	"log"
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("timeline event not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidEventType = errors.New("invalid event type")
	ErrEventDateMissing = errors.New("event date is required")
)

// EventInput carries a timeline event form
type EventInput struct {
	EventType   string    `json:"event_type"`
	EventDate   time.Time `json:"event_date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsTemplate  bool      `json:"is_template"`
	IsPlan      bool      `json:"is_plan"`
}

func (in EventInput) validate() (EventInput, error) {
	if !models.IsValidEventType(in.EventType) {
		return in, ErrInvalidEventType
	}
	if in.EventDate.IsZero() {
		return in, ErrEventDateMissing
	}
	in.Title = SanitizeText(in.Title)
	if in.Title == "" {
		return in, ErrEmptyField
	}
	in.Description = SanitizeRichText(in.Description)
	return in, nil
}

// ListEvents returns the case timeline by date. An empty eventType returns both timelines.
func ListEvents(db *gorm.DB, caseID, eventType string) ([]models.TimelineEvent, error) {
	q := db.Where("case_id = ?", caseID)
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	var events []models.TimelineEvent
	if err := q.Preload("Files").Order("event_date ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list timeline events: %w", err)
	}
	return events, nil
}

// CreateEvent adds an event to the medical or legal timeline
func CreateEvent(db *gorm.DB, caseID string, in EventInput) (*models.TimelineEvent, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	ev := &models.TimelineEvent{
		CaseID:      caseID,
		EventType:   in.EventType,
		EventDate:   in.EventDate,
		Title:       in.Title,
		Description: in.Description,
		IsTemplate:  in.IsTemplate,
		IsPlan:      in.IsPlan,
	}
	if err := db.Create(ev).Error; err != nil {
		return nil, fmt.Errorf("failed to create timeline event: %w", err)
	}
	return ev, nil
}

// UpdateEvent rewrites an event
func UpdateEvent(db *gorm.DB, caseID, eventID string, in EventInput) (*models.TimelineEvent, error) {
	ev, err := findEvent(db, caseID, eventID)
	if err != nil {
		return nil, err
	}
	in, err = in.validate()
	if err != nil {
		return nil, err
	}
	err = db.Model(ev).Updates(map[string]interface{}{
		"event_type":  in.EventType,
		"event_date":  in.EventDate,
		"title":       in.Title,
		"description": in.Description,
		"is_template": in.IsTemplate,
		"is_plan":     in.IsPlan,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update timeline event: %w", err)
	}
	return findEvent(db, caseID, eventID)
}

// DeleteEvent removes the event, its file rows and the stored objects
func DeleteEvent(ctx context.Context, db *gorm.DB, store FileStore, caseID, eventID string) error {
	ev, err := findEvent(db, caseID, eventID)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", ev.ID).Delete(&models.EventFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(ev).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete timeline event: %w", err)
	}

	for _, f := range ev.Files {
		if err := store.Remove(ctx, f.FilePath); err != nil {
			log.Printf("[STORAGE] failed to remove %s: %v", f.FilePath, err)
		}
	}
	return nil
}

// AttachFile uploads r to the store and records it on the event
func AttachFile(ctx context.Context, db *gorm.DB, store FileStore, officeID, caseID, eventID, fileName string, r io.Reader, size int64) (*models.EventFile, error) {
	ev, err := findEvent(db, caseID, eventID)
	if err != nil {
		return nil, err
	}
	name := SanitizeText(filepath.Base(fileName))
	if name == "" || name == "." {
		return nil, ErrEmptyField
	}

	contentType := ContentTypeFor(name)
	obj, err := store.Put(ctx, EventFileKey(officeID, caseID, ev.ID, name), r, contentType, size)
	if err != nil {
		return nil, err
	}

	f := &models.EventFile{EventID: ev.ID, FileName: name, FilePath: obj.Key, FileSize: obj.Size, MimeType: contentType}
	if err := db.Create(f).Error; err != nil {
		if rmErr := store.Remove(ctx, obj.Key); rmErr != nil {
			log.Printf("[STORAGE] failed to clean up %s: %v", obj.Key, rmErr)
		}
		return nil, fmt.Errorf("failed to record file: %w", err)
	}
	return f, nil
}

// GetEventFile loads a file row that belongs to the case
func GetEventFile(db *gorm.DB, caseID, fileID string) (*models.EventFile, error) {
	var f models.EventFile
	err := db.Joins("JOIN timeline_events ON timeline_events.id = event_files.event_id").
		Where("event_files.id = ? AND timeline_events.case_id = ?", fileID, caseID).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return &f, nil
}

// RenameEventFile changes the display name only; the storage key stays
func RenameEventFile(db *gorm.DB, caseID, fileID, name string) (*models.EventFile, error) {
	f, err := GetEventFile(db, caseID, fileID)
	if err != nil {
		return nil, err
	}
	name = SanitizeText(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	if err := db.Model(f).Update("file_name", name).Error; err != nil {
		return nil, fmt.Errorf("failed to rename file: %w", err)
	}
	return f, nil
}

// DeleteEventFile removes the row and the stored object
func DeleteEventFile(ctx context.Context, db *gorm.DB, store FileStore, caseID, fileID string) error {
	f, err := GetEventFile(db, caseID, fileID)
	if err != nil {
		return err
	}
	if err := db.Delete(f).Error; err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if err := store.Remove(ctx, f.FilePath); err != nil {
		log.Printf("[STORAGE] failed to remove %s: %v", f.FilePath, err)
	}
	return nil
}

func findEvent(db *gorm.DB, caseID, eventID string) (*models.TimelineEvent, error) {
	var ev models.TimelineEvent
	if err := db.Preload("Files").Where("id = ? AND case_id = ?", eventID, caseID).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load timeline event: %w", err)
	}
	return &ev, nil
}
