package services

import (
	"bytes"
	"fmt"
	"time"

	"law_office_app_go/models"
	"law_office_app_go/services/i18n"

	"github.com/xuri/excelize/v2"
)

const exportDateLayout = "02/01/2006"

var exportColumns = []string{
	"export.headers.case_num",
	"export.headers.client",
	"export.headers.national_id",
	"export.headers.phone",
	"export.headers.case_type",
	"export.headers.status",
	"export.headers.lawyers",
	"export.headers.open_date",
	"export.headers.docs_deadline",
	"export.headers.docs_signed",
	"export.headers.open_tasks",
}

// ExportCases writes the office's cases to a single-sheet workbook
func ExportCases(cases []models.Case, lang string, now time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := i18n.Translate(lang, "export.sheet")
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if i18n.Direction(lang) == "rtl" {
		rtl := true
		f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl})
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	overdueStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "#C00000"}})

	for i, key := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, i18n.Translate(lang, key))
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportColumns))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(sheet, "A", lastCol, 18)

	for i, c := range cases {
		row := i + 2
		caseType := ""
		if c.CaseType != nil {
			caseType = c.CaseType.Name
		}
		deadline := ""
		if c.DocsDeadline != nil {
			deadline = c.DocsDeadline.Format(exportDateLayout)
		}
		signed := i18n.Translate(lang, "common.no")
		if c.AllDocumentsSigned() {
			signed = i18n.Translate(lang, "common.yes")
		}

		values := []interface{}{
			c.CaseNum,
			c.ClientName(),
			c.NationalID,
			c.Phone,
			caseType,
			i18n.Translate(lang, "status."+c.Status),
			c.LawyerNames(),
			c.OpenDate.Format(exportDateLayout),
			deadline,
			signed,
			c.OpenTaskCount(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		if c.DocumentsOverdue(now) {
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), overdueStyle)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
