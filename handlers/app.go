package handlers

import (
	"law_office_app_go/middleware"
	"law_office_app_go/templates/views"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RootHandler sends visitors to the app; RequireAuth on /app handles the rest
func RootHandler(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/app")
}

// AppHandler serves the shell page. Its content arrives over the live socket.
func AppHandler(c echo.Context) error {
	d := views.ShellData{
		User:         currentUser(c),
		Lang:         middleware.GetLocale(c),
		Nonce:        middleware.GetNonce(c.Request().Context()),
		CSRFToken:    middleware.GetCSRFToken(c),
		AssetVersion: middleware.GetCSSVersion(),
	}
	if office := middleware.GetCurrentOffice(c); office != nil {
		d.OfficeName = office.Name
	}
	return render(c, http.StatusOK, views.Shell(d))
}
