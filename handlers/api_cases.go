package handlers

import (
	"bytes"
	"fmt"
	"law_office_app_go/db"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"law_office_app_go/templates/views"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// requireCase resolves :id to a case of the current office
func requireCase(c echo.Context) (string, error) {
	caseID := c.Param("id")
	if err := services.CaseBelongsToOffice(db.DB, officeID(c), caseID); err != nil {
		return "", httpError(err)
	}
	return caseID, nil
}

// Dates travel as YYYY-MM-DD; the outer fields shadow the embedded ones
type caseRequest struct {
	services.CaseInput
	OpenDate     string `json:"open_date"`
	DocsDeadline string `json:"docs_deadline"`
}

type caseUpdateRequest struct {
	services.CaseUpdate
	DocsDeadline *string `json:"docs_deadline"`
}

// ListCasesHandler returns the office cases, optionally filtered
func ListCasesHandler(c echo.Context) error {
	cases, err := services.ListCases(db.DB, officeID(c))
	if err != nil {
		return httpError(err)
	}
	search, status := c.QueryParam("search"), c.QueryParam("status")
	if search != "" || status != "" {
		cases = services.FilterCases(cases, search, status, now())
	}
	return c.JSON(http.StatusOK, cases)
}

// GetCaseHandler returns one case with its nested lists
func GetCaseHandler(c echo.Context) error {
	record, err := services.GetCase(db.DB, officeID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionRead, "Case", record.ID, record.CaseNum, "Case viewed", nil, nil)
	return c.JSON(http.StatusOK, record)
}

// CreateCaseHandler opens a case with the default documents
func CreateCaseHandler(c echo.Context) error {
	var req caseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	in := req.CaseInput
	var err error
	if in.OpenDate, err = services.ParseOptionalDate(req.OpenDate); err != nil {
		return httpError(err)
	}
	if in.DocsDeadline, err = services.ParseOptionalDate(req.DocsDeadline); err != nil {
		return httpError(err)
	}
	record, err := services.CreateCase(db.DB, officeID(c), in)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "Case", record.ID, record.CaseNum, "Case created", nil, record)
	return c.JSON(http.StatusCreated, record)
}

// UpdateCaseHandler applies a partial update
func UpdateCaseHandler(c echo.Context) error {
	var req caseUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	upd := req.CaseUpdate
	if req.DocsDeadline != nil {
		deadline, err := services.ParseOptionalDate(*req.DocsDeadline)
		if err != nil {
			return httpError(err)
		}
		upd.DocsDeadline = deadline
	}
	record, err := services.UpdateCase(db.DB, officeID(c), c.Param("id"), upd)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "Case", record.ID, record.CaseNum, "Case updated", nil, upd)
	return c.JSON(http.StatusOK, record)
}

// NextCaseNumberHandler suggests the number for the next case
func NextCaseNumberHandler(c echo.Context) error {
	next, err := services.NextCaseNumber(db.DB, officeID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"case_num": next})
}

// ExportCasesHandler downloads the office cases as a workbook
func ExportCasesHandler(c echo.Context) error {
	cases, err := services.ListCases(db.DB, officeID(c))
	if err != nil {
		return httpError(err)
	}
	t := now()
	buf, err := services.ExportCases(cases, middleware.GetLocale(c), t)
	if err != nil {
		log.Printf("[WARNING] case export failed for office %s: %v", officeID(c), err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export cases")
	}

	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionExport, "Case", "", "", fmt.Sprintf("Exported %d cases", len(cases)), nil, nil)

	filename := fmt.Sprintf("cases-%s.xlsx", t.Format(services.DateLayout))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// CaseBookletHandler prints the case booklet to PDF
func CaseBookletHandler(c echo.Context) error {
	record, err := services.GetCase(db.DB, officeID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	officeName := ""
	if office := middleware.GetCurrentOffice(c); office != nil {
		officeName = office.Name
	}

	ctx := c.Request().Context()
	var html bytes.Buffer
	if err := views.Booklet(officeName, record).Render(ctx, &html); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to render booklet")
	}
	pdf, err := services.GenerateBookletPDF(ctx, html.String(), middleware.GetLocale(c))
	if err != nil {
		log.Printf("[WARNING] booklet generation failed for case %s: %v", record.ID, err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "PDF generation unavailable")
	}

	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionExport, "Case", record.ID, record.CaseNum, "Booklet printed", nil, nil)

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="case-%s.pdf"`, record.CaseNum))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
