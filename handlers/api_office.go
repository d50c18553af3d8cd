package handlers

import (
	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

type nameRequest struct {
	Name string `json:"name"`
}

// Lawyers

func ListLawyersHandler(c echo.Context) error {
	lawyers, err := services.ListLawyers(db.DB, officeID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lawyers)
}

func CreateLawyerHandler(c echo.Context) error {
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	lawyer, err := services.CreateLawyer(db.DB, officeID(c), req.Name)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "Lawyer", lawyer.ID, lawyer.Name, "Lawyer added", nil, lawyer)
	return c.JSON(http.StatusCreated, lawyer)
}

func UpdateLawyerHandler(c echo.Context) error {
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	lawyer, err := services.RenameLawyer(db.DB, officeID(c), c.Param("id"), req.Name)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "Lawyer", lawyer.ID, lawyer.Name, "Lawyer renamed", nil, req)
	return c.JSON(http.StatusOK, lawyer)
}

// DeleteLawyerHandler deactivates; cases keep their assignment history
func DeleteLawyerHandler(c echo.Context) error {
	id := c.Param("id")
	if err := services.DeactivateLawyer(db.DB, officeID(c), id); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "Lawyer", id, "", "Lawyer deactivated", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// Case types

func ListCaseTypesHandler(c echo.Context) error {
	types, err := services.ListCaseTypes(db.DB, officeID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, types)
}

func CreateCaseTypeHandler(c echo.Context) error {
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	ct, err := services.CreateCaseType(db.DB, officeID(c), req.Name)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "CaseType", ct.ID, ct.Name, "Case type added", nil, ct)
	return c.JSON(http.StatusCreated, ct)
}

func DeleteCaseTypeHandler(c echo.Context) error {
	id := c.Param("id")
	if err := services.DeactivateCaseType(db.DB, officeID(c), id); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "CaseType", id, "", "Case type deactivated", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// Templates

type templateRequest struct {
	Name  string               `json:"name"`
	Steps []services.StepInput `json:"steps"`
}

func ListTemplatesHandler(c echo.Context) error {
	templates, err := services.ListTemplates(db.DB, officeID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, templates)
}

func GetTemplateHandler(c echo.Context) error {
	tmpl, err := services.GetTemplate(db.DB, officeID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tmpl)
}

func CreateTemplateHandler(c echo.Context) error {
	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	tmpl, err := services.CreateTemplate(db.DB, officeID(c), req.Name, req.Steps)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "Template", tmpl.ID, tmpl.Name, "Template created", nil, req)
	return c.JSON(http.StatusCreated, tmpl)
}

// UpdateTemplateHandler replaces the name and the whole step list
func UpdateTemplateHandler(c echo.Context) error {
	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	tmpl, err := services.UpdateTemplate(db.DB, officeID(c), c.Param("id"), req.Name, req.Steps)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "Template", tmpl.ID, tmpl.Name, "Template updated", nil, req)
	return c.JSON(http.StatusOK, tmpl)
}

func DeleteTemplateHandler(c echo.Context) error {
	id := c.Param("id")
	if err := services.DeactivateTemplate(db.DB, officeID(c), id); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "Template", id, "", "Template deactivated", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// ApplyTemplateHandler adds the template steps to a case's legal timeline
func ApplyTemplateHandler(c echo.Context) error {
	var req struct {
		CaseID string `json:"case_id"`
	}
	if err := c.Bind(&req); err != nil || req.CaseID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "case_id is required")
	}
	events, err := services.ApplyTemplate(db.DB, officeID(c), c.Param("id"), req.CaseID)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "TimelineEvent", req.CaseID, "", "Template applied", nil, map[string]interface{}{"template_id": c.Param("id"), "events": len(events)})
	return c.JSON(http.StatusCreated, events)
}

// Office (admin)

func GetOfficeHandler(c echo.Context) error {
	office, err := services.GetOffice(db.DB, officeID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, office)
}

func UpdateOfficeHandler(c echo.Context) error {
	var upd services.OfficeUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	office, err := services.UpdateOffice(db.DB, officeID(c), upd)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "Office", office.ID, office.Name, "Office details updated", nil, upd)
	return c.JSON(http.StatusOK, office)
}

func ListMembersHandler(c echo.Context) error {
	members, err := services.ListMembers(db.DB, officeID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, members)
}

// AddMemberHandler creates a lawyer with a sign-in account and emails the credentials
func AddMemberHandler(c echo.Context) error {
	var in services.NewMemberInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	lawyer, user, err := services.AddLawyerToOffice(db.DB, officeID(c), in)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "OfficeMember", lawyer.ID, lawyer.Name, "Lawyer added to office", nil, map[string]string{"user_id": user.ID, "email": user.Email})

	officeName := ""
	if office := middleware.GetCurrentOffice(c); office != nil {
		officeName = office.Name
	}
	sendLawyerAddedEmail(getConfig(c), lawyer, officeName, in.Password, middleware.GetLocale(c))
	return c.JSON(http.StatusCreated, lawyer)
}

func RemoveMemberHandler(c echo.Context) error {
	lawyerID := c.Param("lawyerID")
	if err := services.RemoveLawyerFromOffice(db.DB, officeID(c), lawyerID); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "OfficeMember", lawyerID, "", "Lawyer removed from office", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

func sendLawyerAddedEmail(cfg *config.Config, lawyer *models.Lawyer, officeName, password, lang string) {
	if lawyer.Email == "" {
		return
	}
	services.SendEmailAsync(cfg, services.BuildLawyerAddedEmail(lawyer.Email, lawyer.Name, officeName, password, cfg.AppURL+"/login", lang))
}
