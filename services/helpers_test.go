package services

import (
	"fmt"
	"law_office_app_go/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private shared-cache in-memory database so that
// background goroutines (audit logging) see the same schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:mem_%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedOffice(t *testing.T, db *gorm.DB, name string) *models.Office {
	t.Helper()
	office := &models.Office{Name: name}
	require.NoError(t, db.Create(office).Error)
	return office
}

func seedCase(t *testing.T, db *gorm.DB, officeID, caseNum string) *models.Case {
	t.Helper()
	c := &models.Case{
		OfficeID:  officeID,
		CaseNum:   caseNum,
		FirstName: "Dana",
		LastName:  "Levi",
		Title:     "Dana Levi",
		OpenDate:  time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(c).Error)
	return c
}
