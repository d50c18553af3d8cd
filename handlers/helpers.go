package handlers

import (
	"errors"
	"law_office_app_go/config"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"law_office_app_go/services/chat"
	"law_office_app_go/services/realtime"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// broker carries chat insert notifications to live sockets
var broker realtime.Broker = realtime.NewLocalBroker()

// InitRealtime installs the broker used by the chat API and the live sockets
func InitRealtime(b realtime.Broker) {
	broker = b
}

func chatService(db *gorm.DB) *services.ChatService {
	return services.NewChatService(db, broker)
}

func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg
	}
	return &config.Config{Environment: "development", EmailTestMode: true}
}

// officeID is set by RequireOffice for every protected route
func officeID(c echo.Context) string {
	if office := middleware.GetCurrentOffice(c); office != nil {
		return office.ID
	}
	return ""
}

func currentUser(c echo.Context) *models.User {
	return middleware.GetCurrentUser(c)
}

var notFoundErrors = []error{
	services.ErrCaseNotFound,
	services.ErrDocumentNotFound,
	services.ErrTaskNotFound,
	services.ErrCallNotFound,
	services.ErrEventNotFound,
	services.ErrFileNotFound,
	services.ErrTemplateNotFound,
	services.ErrOfficeNotFound,
	services.ErrMemberNotFound,
	services.ErrLawyerNotFound,
	services.ErrCaseTypeNotFound,
	services.ErrObjectNotFound,
	gorm.ErrRecordNotFound,
}

var badRequestErrors = []error{
	services.ErrEmptyField,
	services.ErrEmptyMessage,
	services.ErrMessageTooLong,
	services.ErrInvalidSender,
	services.ErrInvalidCaseStatus,
	services.ErrClientNameRequired,
	services.ErrInvalidUrgency,
	services.ErrInvalidEventType,
	services.ErrEventDateMissing,
	services.ErrTemplateNoSteps,
	services.ErrWeakPassword,
	services.ErrInvalidRole,
	services.ErrInvalidDate,
	services.ErrFileTooLarge,
	services.ErrFileTypeInvalid,
	services.ErrFileEmpty,
	chat.ErrEmptyMessage,
	chat.ErrNoCase,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// httpError maps a service error onto the API status codes
func httpError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case isAny(err, notFoundErrors):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrCaseNumberTaken), errors.Is(err, services.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case isAny(err, badRequestErrors):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

// errorKey picks the translated message shown for err
func errorKey(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return "errors.invalid_credentials"
	case errors.Is(err, services.ErrAccountLocked):
		return "errors.account_locked"
	case errors.Is(err, services.ErrAccountInactive):
		return "errors.account_inactive"
	case errors.Is(err, services.ErrEmailTaken):
		return "errors.email_taken"
	case errors.Is(err, services.ErrWeakPassword):
		return "errors.weak_password"
	case errors.Is(err, services.ErrOfficeNameRequired):
		return "errors.office_required"
	case errors.Is(err, services.ErrCaseNumberTaken):
		return "errors.case_number_taken"
	case errors.Is(err, services.ErrFileTooLarge), errors.Is(err, services.ErrFileTypeInvalid), errors.Is(err, services.ErrFileEmpty):
		return "errors.file_invalid"
	case isAny(err, notFoundErrors):
		return "errors.not_found"
	case isAny(err, badRequestErrors):
		return "errors.required"
	default:
		return "errors.save_failed"
	}
}

// auditCtx prefers the context built by the AuditContext middleware
func auditCtx(c echo.Context) services.AuditContext {
	if ctx := middleware.GetAuditContext(c); ctx.UserID != "" {
		return ctx
	}
	return middleware.BuildAuditContext(c)
}

// render writes a full page component with status
func render(c echo.Context, status int, page templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return page.Render(c.Request().Context(), c.Response().Writer)
}
