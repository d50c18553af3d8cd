package services

import (
	"testing"
	"time"

	"law_office_app_go/models"
	"law_office_app_go/services/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportCases(t *testing.T) {
	require.NoError(t, i18n.Load())

	deadline := time.Date(2026, 1, 24, 0, 0, 0, 0, time.UTC)
	cases := []models.Case{
		{
			CaseNum:      "55001",
			FirstName:    "Dana",
			LastName:     "Levi",
			Status:       models.CaseStatusOpen,
			OpenDate:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			DocsDeadline: &deadline,
			CaseType:     &models.CaseType{Name: "Road accident"},
			Documents:    []models.CaseDocument{{DocName: "Fee agreement", Status: models.DocumentStatusNone}},
			Tasks:        []models.CaseTask{{Text: "Call insurer"}, {Text: "Done", Done: true}},
		},
	}

	buf, err := ExportCases(cases, "en", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(exportColumns))

	row := rows[1]
	assert.Equal(t, "55001", row[0])
	assert.Equal(t, "Dana Levi", row[1])
	assert.Equal(t, "Road accident", row[4])
	assert.Equal(t, "24/01/2026", row[8])
	assert.Equal(t, "1", row[10])
}

func TestExportCases_HebrewIsRightToLeft(t *testing.T) {
	require.NoError(t, i18n.Load())

	buf, err := ExportCases(nil, "he", time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	opts, err := f.GetSheetView(f.GetSheetName(0), 0)
	require.NoError(t, err)
	require.NotNil(t, opts.RightToLeft)
	assert.True(t, *opts.RightToLeft)
}
