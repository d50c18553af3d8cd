package services

import (
	"errors"
	"fmt"
	"law_office_app_go/models"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	// DefaultFirstCaseNumber is used when the office has no case yet
	DefaultFirstCaseNumber = "55001"
	// DocsDeadlineDays is the default window to collect signed documents
	DocsDeadlineDays = 14
)

var (
	ErrCaseNotFound       = errors.New("case not found")
	ErrInvalidCaseStatus  = errors.New("invalid case status")
	ErrClientNameRequired = errors.New("client first name is required")
	ErrCaseNumberTaken    = errors.New("case number already exists")
)

var nonDigits = regexp.MustCompile(`\D`)

// CaseInput carries the new case form
type CaseInput struct {
	CaseNum      string     `json:"case_num"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	NationalID   string     `json:"tz"`
	Phone        string     `json:"phone"`
	HMO          string     `json:"hmo"`
	Street       string     `json:"street"`
	City         string     `json:"city"`
	CourtFileNo  string     `json:"ta_num"`
	CaseTypeID   string     `json:"case_type_id"`
	OpenDate     *time.Time `json:"open_date"`
	DocsDeadline *time.Time `json:"docs_deadline"`
	LawyerIDs    []string   `json:"lawyer_ids"`
}

// CaseUpdate holds the fields that may change on an existing case. Nil means unchanged.
type CaseUpdate struct {
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	NationalID   *string    `json:"tz"`
	Phone        *string    `json:"phone"`
	HMO          *string    `json:"hmo"`
	Street       *string    `json:"street"`
	City         *string    `json:"city"`
	CourtFileNo  *string    `json:"ta_num"`
	CaseTypeID   *string    `json:"case_type_id"`
	Status       *string    `json:"status"`
	DocsDeadline *time.Time `json:"docs_deadline"`
	LawyerIDs    *[]string  `json:"lawyer_ids"`
}

// ListCases returns the office's cases newest first, with what the lists need
func ListCases(db *gorm.DB, officeID string) ([]models.Case, error) {
	var cases []models.Case
	err := db.Where("office_id = ?", officeID).
		Preload("CaseType").
		Preload("Documents").
		Preload("Tasks").
		Preload("Lawyers").
		Order("created_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// GetCase loads one case of the office with all related entities
func GetCase(db *gorm.DB, officeID, caseID string) (*models.Case, error) {
	var c models.Case
	err := db.Where("id = ? AND office_id = ?", caseID, officeID).
		Preload("CaseType").
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("done ASC, created_at DESC") }).
		Preload("Calls", func(db *gorm.DB) *gorm.DB { return db.Order("call_date DESC") }).
		Preload("TimelineEvents", func(db *gorm.DB) *gorm.DB { return db.Order("event_date ASC") }).
		Preload("TimelineEvents.Files").
		Preload("Lawyers").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to load case: %w", err)
	}
	return &c, nil
}

// CaseBelongsToOffice guards nested resources against cross-office access
func CaseBelongsToOffice(db *gorm.DB, officeID, caseID string) error {
	var count int64
	if err := db.Model(&models.Case{}).Where("id = ? AND office_id = ?", caseID, officeID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check case: %w", err)
	}
	if count == 0 {
		return ErrCaseNotFound
	}
	return nil
}

// NextCaseNumber takes the digits of the office's most recent case number and adds one
func NextCaseNumber(db *gorm.DB, officeID string) (string, error) {
	var last models.Case
	err := db.Unscoped().Where("office_id = ?", officeID).Order("created_at DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultFirstCaseNumber, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query last case number: %w", err)
	}

	n, convErr := strconv.ParseInt(nonDigits.ReplaceAllString(last.CaseNum, ""), 10, 64)
	if convErr != nil {
		return DefaultFirstCaseNumber, nil
	}

	// Skip over numbers taken out of order by manual entry
	for i := 0; i < 100; i++ {
		n++
		candidate := strconv.FormatInt(n, 10)
		var count int64
		if err := db.Unscoped().Model(&models.Case{}).Where("office_id = ? AND case_num = ?", officeID, candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check case number: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to find a free case number after %s", last.CaseNum)
}

// CreateCase opens a case, links its lawyers and seeds the default documents
func CreateCase(db *gorm.DB, officeID string, in CaseInput) (*models.Case, error) {
	firstName := SanitizeText(in.FirstName)
	lastName := SanitizeText(in.LastName)
	if firstName == "" {
		return nil, ErrClientNameRequired
	}

	caseNum := strings.TrimSpace(in.CaseNum)
	if caseNum == "" {
		next, err := NextCaseNumber(db, officeID)
		if err != nil {
			return nil, err
		}
		caseNum = next
	}

	openDate := time.Now()
	if in.OpenDate != nil && !in.OpenDate.IsZero() {
		openDate = *in.OpenDate
	}
	deadline := openDate.AddDate(0, 0, DocsDeadlineDays)
	if in.DocsDeadline != nil && !in.DocsDeadline.IsZero() {
		deadline = *in.DocsDeadline
	}

	c := &models.Case{
		OfficeID:     officeID,
		CaseNum:      caseNum,
		Title:        strings.TrimSpace(firstName + " " + lastName),
		FirstName:    firstName,
		LastName:     lastName,
		NationalID:   strings.TrimSpace(in.NationalID),
		Phone:        strings.TrimSpace(in.Phone),
		HMO:          SanitizeText(in.HMO),
		Street:       SanitizeText(in.Street),
		City:         SanitizeText(in.City),
		CourtFileNo:  strings.TrimSpace(in.CourtFileNo),
		Status:       models.CaseStatusOpen,
		OpenDate:     openDate,
		DocsDeadline: &deadline,
	}
	if in.CaseTypeID != "" {
		c.CaseTypeID = &in.CaseTypeID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.Case{}).Where("office_id = ? AND case_num = ?", officeID, caseNum).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCaseNumberTaken
		}

		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}

		lawyers, err := officeLawyers(tx, officeID, in.LawyerIDs)
		if err != nil {
			return err
		}
		if len(lawyers) > 0 {
			if err := tx.Model(c).Association("Lawyers").Append(lawyers); err != nil {
				return fmt.Errorf("failed to link lawyers: %w", err)
			}
		}

		docs := make([]models.CaseDocument, 0, len(models.DefaultCaseDocuments))
		for _, name := range models.DefaultCaseDocuments {
			docs = append(docs, models.CaseDocument{CaseID: c.ID, DocName: name, Status: models.DocumentStatusNone})
		}
		if err := tx.Create(&docs).Error; err != nil {
			return fmt.Errorf("failed to seed documents: %w", err)
		}
		c.Documents = docs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCase applies the non-nil fields of upd
func UpdateCase(db *gorm.DB, officeID, caseID string, upd CaseUpdate) (*models.Case, error) {
	var c models.Case
	if err := db.Where("id = ? AND office_id = ?", caseID, officeID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to load case: %w", err)
	}

	fields := map[string]interface{}{}
	setText := func(col string, v *string) {
		if v != nil {
			fields[col] = SanitizeText(*v)
		}
	}
	setText("first_name", upd.FirstName)
	setText("last_name", upd.LastName)
	setText("national_id", upd.NationalID)
	setText("phone", upd.Phone)
	setText("hmo", upd.HMO)
	setText("street", upd.Street)
	setText("city", upd.City)
	setText("court_file_no", upd.CourtFileNo)

	if v, ok := fields["first_name"]; ok && v == "" {
		return nil, ErrClientNameRequired
	}
	if upd.FirstName != nil || upd.LastName != nil {
		first, last := c.FirstName, c.LastName
		if upd.FirstName != nil {
			first = fields["first_name"].(string)
		}
		if upd.LastName != nil {
			last = fields["last_name"].(string)
		}
		fields["title"] = strings.TrimSpace(first + " " + last)
	}
	if upd.Status != nil {
		if !models.IsValidCaseStatus(*upd.Status) {
			return nil, ErrInvalidCaseStatus
		}
		fields["status"] = *upd.Status
	}
	if upd.CaseTypeID != nil {
		if *upd.CaseTypeID == "" {
			fields["case_type_id"] = nil
		} else {
			fields["case_type_id"] = *upd.CaseTypeID
		}
	}
	if upd.DocsDeadline != nil {
		fields["docs_deadline"] = *upd.DocsDeadline
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(&c).Updates(fields).Error; err != nil {
				return fmt.Errorf("failed to update case: %w", err)
			}
		}
		if upd.LawyerIDs != nil {
			lawyers, err := officeLawyers(tx, officeID, *upd.LawyerIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&c).Association("Lawyers").Replace(lawyers); err != nil {
				return fmt.Errorf("failed to update lawyers: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetCase(db, officeID, caseID)
}

// officeLawyers resolves ids to lawyers of the office, silently skipping foreign ids
func officeLawyers(tx *gorm.DB, officeID string, ids []string) ([]models.Lawyer, error) {
	if len(ids) == 0 {
		return []models.Lawyer{}, nil
	}
	var lawyers []models.Lawyer
	if err := tx.Where("office_id = ? AND id IN ?", officeID, ids).Find(&lawyers).Error; err != nil {
		return nil, fmt.Errorf("failed to load lawyers: %w", err)
	}
	return lawyers, nil
}
