package middleware

import (
	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "law_office_session"
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeyOffice is the context key for the user's office
	ContextKeyOffice = "office"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// isAPIRequest reports requests that expect JSON errors instead of redirects
func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

// denyUnauthenticated answers with 401 for API and htmx calls and redirects pages to the login screen
func denyUnauthenticated(c echo.Context, target string) error {
	if isAPIRequest(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", target)
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// RequireAuth is middleware that requires authentication
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil {
				return denyUnauthenticated(c, "/login")
			}

			session, err := services.ValidateSession(db.DB, cookie.Value)
			if err != nil {
				// Invalid or expired session
				ClearSessionCookie(c)
				return denyUnauthenticated(c, "/login")
			}

			if !session.User.IsActive {
				ClearSessionCookie(c)
				return denyUnauthenticated(c, "/login")
			}

			c.Set(ContextKeyUser, &session.User)
			if session.User.Office != nil {
				c.Set(ContextKeyOffice, session.User.Office)
			}
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequireRole is middleware that requires specific roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// RequireOffice ensures the user belongs to an office. A lawyer who signed up
// before any office existed has nothing to work on yet.
func RequireOffice() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			if !user.HasOffice() || GetCurrentOffice(c) == nil {
				if isAPIRequest(c) {
					return echo.NewHTTPError(http.StatusForbidden, "No office assigned")
				}
				return c.Redirect(http.StatusSeeOther, "/login?error=no_office")
			}

			return next(c)
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetCurrentOffice retrieves the current office from context
func GetCurrentOffice(c echo.Context) *models.Office {
	office, ok := c.Get(ContextKeyOffice).(*models.Office)
	if !ok {
		return nil
	}
	return office
}

// GetCurrentSession retrieves the session behind the request
func GetCurrentSession(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

func isProduction(c echo.Context) bool {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg.IsProduction()
	}
	return false
}

// SetSessionCookie stores the session token on the client
func SetSessionCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}
