package services

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the format of HTML date inputs
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format: expected YYYY-MM-DD")

// ParseDate parses a form date (YYYY-MM-DD)
func ParseDate(dateStr string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

// ParseOptionalDate is ParseDate for fields that may be left blank; blank yields nil
func ParseOptionalDate(dateStr string) (*time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return nil, nil
	}
	parsed, err := ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
