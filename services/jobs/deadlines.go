package jobs

import (
	"fmt"
	"law_office_app_go/config"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"log"
	"time"

	"gorm.io/gorm"
)

const digestDateLayout = "02/01/2006"

// Digest is what an office has due within the digest window
type Digest struct {
	Tasks     []services.DigestItem
	Documents []services.DigestItem
}

func (d Digest) Empty() bool {
	return len(d.Tasks) == 0 && len(d.Documents) == 0
}

// BuildDigest collects open tasks and unsigned documents of open cases whose
// deadline falls on or before today+days. Overdue items are included.
func BuildDigest(db *gorm.DB, officeID string, today time.Time, days int) (Digest, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	until := today.AddDate(0, 0, days+1)

	var d Digest

	tasks, err := services.ListOfficeOpenTasks(db, officeID)
	if err != nil {
		return d, err
	}
	for _, t := range tasks {
		if t.Deadline == nil || !t.Deadline.Before(until) || t.Case == nil {
			continue
		}
		d.Tasks = append(d.Tasks, services.DigestItem{
			CaseNum:  t.Case.CaseNum,
			Client:   t.Case.ClientName(),
			Text:     t.Text,
			Deadline: t.Deadline.Format(digestDateLayout),
		})
	}

	var cases []models.Case
	err = db.Preload("Documents").
		Where("office_id = ? AND status <> ? AND docs_deadline IS NOT NULL AND docs_deadline < ?", officeID, models.CaseStatusClosed, until).
		Order("docs_deadline ASC").
		Find(&cases).Error
	if err != nil {
		return d, fmt.Errorf("failed to load document deadlines: %w", err)
	}
	for _, c := range cases {
		for _, doc := range c.Documents {
			if doc.Status == models.DocumentStatusSigned {
				continue
			}
			d.Documents = append(d.Documents, services.DigestItem{
				CaseNum:  c.CaseNum,
				Client:   c.ClientName(),
				Text:     doc.DocName,
				Deadline: c.DocsDeadline.Format(digestDateLayout),
			})
		}
	}
	return d, nil
}

// SendDeadlineDigests emails every office admin the office digest. Offices with
// nothing due are skipped.
func SendDeadlineDigests(db *gorm.DB, cfg *config.Config, now time.Time) {
	log.Println("[CRON] Starting deadline digest job...")

	var offices []models.Office
	if err := db.Find(&offices).Error; err != nil {
		log.Printf("[JOB] Error fetching offices for digest: %v", err)
		return
	}

	sent := 0
	for _, office := range offices {
		digest, err := BuildDigest(db, office.ID, now, cfg.DigestDays)
		if err != nil {
			log.Printf("[JOB] Error building digest for office %s: %v", office.ID, err)
			continue
		}
		if digest.Empty() {
			continue
		}

		var admins []models.User
		if err := db.Where("office_id = ? AND role = ? AND is_active = ?", office.ID, models.RoleAdmin, true).Find(&admins).Error; err != nil {
			log.Printf("[JOB] Error fetching admins for office %s: %v", office.ID, err)
			continue
		}
		for _, admin := range admins {
			lang := admin.Language
			if lang == "" {
				lang = cfg.DefaultLanguage
			}
			email := services.BuildDeadlineDigestEmail(admin.Email, services.DeadlineDigestEmailData{
				UserName:   admin.Name,
				OfficeName: office.Name,
				Tasks:      digest.Tasks,
				Documents:  digest.Documents,
				AppURL:     cfg.AppURL + "/app",
			}, lang)
			if err := services.SendEmail(cfg, email); err != nil {
				log.Printf("[JOB] Failed to send digest to %s: %v", admin.Email, err)
				continue
			}
			sent++
		}
	}

	log.Printf("[CRON] Deadline digest job completed, %d emails sent", sent)
}
