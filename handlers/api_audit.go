package handlers

import (
	"law_office_app_go/db"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type auditPage struct {
	Logs     []models.AuditLog `json:"logs"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// OfficeAuditLogsHandler pages through the office audit trail, newest first.
// Filters: user_id, resource_type, action, from, to (YYYY-MM-DD, inclusive), q.
func OfficeAuditLogsHandler(c echo.Context) error {
	filters := services.AuditLogFilters{
		UserID:       c.QueryParam("user_id"),
		ResourceType: c.QueryParam("resource_type"),
		Action:       c.QueryParam("action"),
		SearchQuery:  c.QueryParam("q"),
	}
	if from, err := services.ParseOptionalDate(c.QueryParam("from")); err != nil {
		return httpError(err)
	} else if from != nil {
		filters.DateFrom = *from
	}
	if to, err := services.ParseOptionalDate(c.QueryParam("to")); err != nil {
		return httpError(err)
	} else if to != nil {
		filters.DateTo = to.Add(24*time.Hour - time.Nanosecond)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > services.MaxAuditPageSize {
		pageSize = services.DefaultAuditPageSize
	}

	logs, total, err := services.GetOfficeAuditLogs(db.DB, officeID(c), filters, page, pageSize)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, auditPage{Logs: logs, Total: total, Page: page, PageSize: pageSize})
}

// CaseHistoryHandler returns the audit entries recorded against one case
func CaseHistoryHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	logs, err := services.GetResourceAuditHistory(db.DB, officeID(c), "Case", caseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, logs)
}
