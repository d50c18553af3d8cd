package services

import (
	"errors"
	"fmt"
	"law_office_app_go/models"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyField       = errors.New("value must not be empty")
)

// ListDocuments returns the case's representation documents
func ListDocuments(db *gorm.DB, caseID string) ([]models.CaseDocument, error) {
	var docs []models.CaseDocument
	if err := db.Where("case_id = ?", caseID).Order("created_at ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// CreateDocument adds a document with status none
func CreateDocument(db *gorm.DB, caseID, name string) (*models.CaseDocument, error) {
	name = SanitizeText(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	doc := &models.CaseDocument{CaseID: caseID, DocName: name, Status: models.DocumentStatusNone}
	if err := db.Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

// UpdateDocumentStatus stores any non-empty status
func UpdateDocumentStatus(db *gorm.DB, caseID, docID, status string) (*models.CaseDocument, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrEmptyField
	}
	return updateDocument(db, caseID, docID, "status", status)
}

// RenameDocument changes the document's display name
func RenameDocument(db *gorm.DB, caseID, docID, name string) (*models.CaseDocument, error) {
	name = SanitizeText(name)
	if name == "" {
		return nil, ErrEmptyField
	}
	return updateDocument(db, caseID, docID, "doc_name", name)
}

func updateDocument(db *gorm.DB, caseID, docID, column, value string) (*models.CaseDocument, error) {
	var doc models.CaseDocument
	if err := db.Where("id = ? AND case_id = ?", docID, caseID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := db.Model(&doc).Update(column, value).Error; err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return &doc, nil
}

// DeleteDocument removes a document from the case
func DeleteDocument(db *gorm.DB, caseID, docID string) error {
	res := db.Where("id = ? AND case_id = ?", docID, caseID).Delete(&models.CaseDocument{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
