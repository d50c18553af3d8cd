package jobs

import (
	"fmt"
	"law_office_app_go/config"
	"law_office_app_go/models"
	"law_office_app_go/services/i18n"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupJobsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:jobs_%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildDigest(t *testing.T) {
	db := setupJobsTestDB(t)
	today := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	office := &models.Office{Name: "Cohen & Co"}
	require.NoError(t, db.Create(office).Error)
	other := &models.Office{Name: "Other"}
	require.NoError(t, db.Create(other).Error)

	open := &models.Case{OfficeID: office.ID, CaseNum: "101", FirstName: "Dana", LastName: "Levi", OpenDate: *day(2026, 1, 1), DocsDeadline: day(2026, 3, 12)}
	require.NoError(t, db.Create(open).Error)
	closed := &models.Case{OfficeID: office.ID, CaseNum: "102", FirstName: "Avi", Status: models.CaseStatusClosed, OpenDate: *day(2026, 1, 1), DocsDeadline: day(2026, 3, 9)}
	require.NoError(t, db.Create(closed).Error)
	foreign := &models.Case{OfficeID: other.ID, CaseNum: "101", FirstName: "Noa", OpenDate: *day(2026, 1, 1), DocsDeadline: day(2026, 3, 11)}
	require.NoError(t, db.Create(foreign).Error)

	require.NoError(t, db.Create(&models.CaseDocument{CaseID: open.ID, DocName: "Power of attorney", Status: models.DocumentStatusSigned}).Error)
	require.NoError(t, db.Create(&models.CaseDocument{CaseID: open.ID, DocName: "Fee agreement", Status: models.DocumentStatusSent}).Error)
	require.NoError(t, db.Create(&models.CaseDocument{CaseID: closed.ID, DocName: "Fee agreement"}).Error)
	require.NoError(t, db.Create(&models.CaseDocument{CaseID: foreign.ID, DocName: "Fee agreement"}).Error)

	require.NoError(t, db.Create(&models.CaseTask{CaseID: open.ID, Text: "overdue", Deadline: day(2026, 3, 1)}).Error)
	require.NoError(t, db.Create(&models.CaseTask{CaseID: open.ID, Text: "edge", Deadline: day(2026, 3, 13)}).Error)
	require.NoError(t, db.Create(&models.CaseTask{CaseID: open.ID, Text: "later", Deadline: day(2026, 3, 14)}).Error)
	require.NoError(t, db.Create(&models.CaseTask{CaseID: open.ID, Text: "no deadline"}).Error)
	require.NoError(t, db.Create(&models.CaseTask{CaseID: foreign.ID, Text: "foreign", Deadline: day(2026, 3, 10)}).Error)
	done := &models.CaseTask{CaseID: open.ID, Text: "done", Deadline: day(2026, 3, 10)}
	require.NoError(t, db.Create(done).Error)
	require.NoError(t, db.Model(done).Update("done", true).Error)

	digest, err := BuildDigest(db, office.ID, today, 3)
	require.NoError(t, err)

	var texts []string
	for _, item := range digest.Tasks {
		texts = append(texts, item.Text)
	}
	assert.Equal(t, []string{"overdue", "edge"}, texts)
	assert.Equal(t, "101", digest.Tasks[0].CaseNum)
	assert.Equal(t, "01/03/2026", digest.Tasks[0].Deadline)

	require.Len(t, digest.Documents, 1)
	assert.Equal(t, "Fee agreement", digest.Documents[0].Text)
	assert.Equal(t, "12/03/2026", digest.Documents[0].Deadline)
	assert.False(t, digest.Empty())

	empty, err := BuildDigest(db, office.ID, today, -20)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
}

func TestSendDeadlineDigests(t *testing.T) {
	require.NoError(t, i18n.Load())
	db := setupJobsTestDB(t)
	cfg := &config.Config{AppURL: "http://test.local", EmailTestMode: true, DefaultLanguage: "en", DigestDays: 3}

	office := &models.Office{Name: "Cohen & Co"}
	require.NoError(t, db.Create(office).Error)
	require.NoError(t, db.Create(&models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin, OfficeID: &office.ID, IsActive: true}).Error)
	c := &models.Case{OfficeID: office.ID, CaseNum: "1", FirstName: "Dana", OpenDate: *day(2026, 1, 1)}
	require.NoError(t, db.Create(c).Error)
	require.NoError(t, db.Create(&models.CaseTask{CaseID: c.ID, Text: "file claim", Deadline: day(2026, 3, 10)}).Error)

	assert.NotPanics(t, func() {
		SendDeadlineDigests(db, cfg, time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))
	})
}

func TestStartScheduler(t *testing.T) {
	db := setupJobsTestDB(t)

	c, err := StartScheduler(db, &config.Config{Timezone: "Asia/Jerusalem", DigestSchedule: "0 7 * * 0-4"})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
	c.Stop()

	c, err = StartScheduler(db, &config.Config{Timezone: "Nowhere/Invalid", DigestSchedule: "off"})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	c.Stop()

	_, err = StartScheduler(db, &config.Config{Timezone: "UTC", DigestSchedule: "not a cron spec"})
	assert.Error(t, err)
}
