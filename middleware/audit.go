package middleware

import (
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext is middleware that extracts user info for audit logging
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyAuditContext, BuildAuditContext(c))
			return next(c)
		}
	}
}

// BuildAuditContext describes the actor of the request
func BuildAuditContext(c echo.Context) services.AuditContext {
	ctx := services.AuditContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}

	if user := GetCurrentUser(c); user != nil {
		ctx.UserID = user.ID
		ctx.UserName = user.Name
		ctx.UserRole = user.Role
	}

	if office := GetCurrentOffice(c); office != nil {
		ctx.OfficeID = office.ID
		ctx.OfficeName = office.Name
	}
	return ctx
}

// GetAuditContext retrieves the audit context from the request
func GetAuditContext(c echo.Context) services.AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ctx
	}
	return services.AuditContext{}
}
