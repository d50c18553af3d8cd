package services

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size of 10MB")
	ErrFileTypeInvalid = errors.New("file type not allowed. Accepted formats: PDF, DOC, DOCX, TXT, JPG, PNG")
	ErrFileEmpty       = errors.New("file is empty")
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateEventUpload checks a timeline attachment before it is stored
func ValidateEventUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size == 0 {
		return ErrFileEmpty
	}
	if fileHeader.Size > MaxUploadSize {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return ErrFileTypeInvalid
	}
	return nil
}
