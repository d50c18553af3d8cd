package handlers

import (
	"context"
	"law_office_app_go/db"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"law_office_app_go/services/i18n"
	"law_office_app_go/templates/views"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func authData(c echo.Context) views.AuthData {
	return views.AuthData{
		Lang:         middleware.GetLocale(c),
		Nonce:        middleware.GetNonce(c.Request().Context()),
		CSRFToken:    middleware.GetCSRFToken(c),
		AssetVersion: middleware.GetCSSVersion(),
	}
}

// translate renders key in the request language
func translate(c echo.Context, key string) string {
	return translateCtx(c.Request().Context(), key)
}

func translateCtx(ctx context.Context, key string) string {
	return i18n.T(ctx, key)
}

// LoginHandler renders the sign-in page
func LoginHandler(c echo.Context) error {
	d := authData(c)
	if c.QueryParam("error") == "no_office" {
		d.Error = translate(c, "errors.no_office")
	}
	return render(c, http.StatusOK, views.Login(d))
}

// LoginPostHandler checks credentials and starts a session
func LoginPostHandler(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	d := authData(c)
	d.Email = email
	if email == "" || password == "" {
		d.Error = translate(c, "errors.required")
		return render(c, http.StatusUnprocessableEntity, views.Login(d))
	}

	user, err := services.Authenticate(db.DB, email, password)
	if err != nil {
		services.LogSecurityEvent(db.DB, "LOGIN_FAILED", "", "email="+strings.ToLower(email)+" ip="+c.RealIP())
		d.Error = translate(c, errorKey(err))
		return render(c, http.StatusUnauthorized, views.Login(d))
	}

	return startSession(c, user)
}

// startSession creates the session cookie and sends the user into the app
func startSession(c echo.Context, user *models.User) error {
	officeID := ""
	if user.OfficeID != nil {
		officeID = *user.OfficeID
	}
	session, err := services.CreateSession(db.DB, user.ID, officeID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}
	middleware.SetSessionCookie(c, session.Token, session.ExpiresAt)
	if user.Language != "" {
		middleware.SetLanguageCookie(c, user.Language)
	}

	auditContext := services.AuditContext{
		UserID:    user.ID,
		UserName:  user.Name,
		UserRole:  user.Role,
		OfficeID:  officeID,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if user.Office != nil {
		auditContext.OfficeName = user.Office.Name
	}
	services.LogAuditEvent(db.DB, auditContext, models.AuditActionLogin, "User", user.ID, user.Email, "User signed in", nil, nil)

	return c.Redirect(http.StatusSeeOther, "/app")
}

// SignupHandler renders the registration page
func SignupHandler(c echo.Context) error {
	d := authData(c)
	d.Role = models.RoleLawyer
	return render(c, http.StatusOK, views.Signup(d))
}

// SignupPostHandler registers a profile and signs it in
func SignupPostHandler(c echo.Context) error {
	in := services.SignUpInput{
		FullName:   strings.TrimSpace(c.FormValue("full_name")),
		Email:      strings.TrimSpace(c.FormValue("email")),
		Password:   c.FormValue("password"),
		Role:       c.FormValue("role"),
		OfficeName: strings.TrimSpace(c.FormValue("office_name")),
	}

	d := authData(c)
	d.FullName, d.Email, d.Role, d.Office = in.FullName, in.Email, in.Role, in.OfficeName

	if in.FullName == "" || in.Email == "" || in.Password == "" {
		d.Error = translate(c, "errors.required")
		return render(c, http.StatusUnprocessableEntity, views.Signup(d))
	}

	user, err := services.SignUp(db.DB, in)
	if err != nil {
		log.Printf("[SECURITY] SIGNUP_FAILED | Email: %s | Error: %v", strings.ToLower(in.Email), err)
		d.Error = translate(c, errorKey(err))
		return render(c, http.StatusUnprocessableEntity, views.Signup(d))
	}

	profile, err := services.GetProfile(db.DB, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load profile")
	}

	officeName := ""
	if profile.Office != nil {
		officeName = profile.Office.Name
	}
	cfg := getConfig(c)
	services.SendEmailAsync(cfg, services.BuildWelcomeEmail(profile.Email, profile.Name, officeName, cfg.AppURL+"/login", middleware.GetLocale(c)))

	return startSession(c, profile)
}

// LogoutHandler ends the session. Live sockets of the user are redirected through the auth events.
func LogoutHandler(c echo.Context) error {
	if user := currentUser(c); user != nil {
		services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionLogout, "User", user.ID, user.Email, "User signed out", nil, nil)
	}

	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			log.Printf("Error deleting session: %v", err)
		}
	}
	middleware.ClearSessionCookie(c)

	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", "/login")
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// GetCurrentUserHandler returns the signed-in profile with its office
func GetCurrentUserHandler(c echo.Context) error {
	user := currentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	profile, err := services.GetProfile(db.DB, user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
