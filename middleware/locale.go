package middleware

import (
	"law_office_app_go/config"
	"law_office_app_go/services/i18n"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const localeCookieName = "lang"

// Locale middleware handles language detection and persistence.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. The signed-in user's saved language
// 4. Accept-Language header
// 5. The configured default
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := c.QueryParam("lang")
			if lang != "" {
				if !i18n.IsSupported(lang) {
					lang = i18n.DefaultLanguage()
				}
				setLanguageCookie(c, lang, cfg.IsProduction())
			} else if cookie, err := c.Cookie(localeCookieName); err == nil && i18n.IsSupported(cookie.Value) {
				lang = cookie.Value
			}

			if lang == "" {
				if user := GetCurrentUser(c); user != nil && i18n.IsSupported(user.Language) {
					lang = user.Language
				}
			}

			if lang == "" {
				lang = fromAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			}

			c.Set("locale", lang)
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))

			return next(c)
		}
	}
}

// fromAcceptLanguage picks the first supported language of the header, in header order
func fromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		// "iw" is the legacy code for Hebrew
		if base == "iw" {
			base = "he"
		}
		if i18n.IsSupported(base) {
			return base
		}
	}
	return i18n.DefaultLanguage()
}

func setLanguageCookie(c echo.Context, lang string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     localeCookieName,
		Value:    lang,
		Expires:  time.Now().Add(24 * 365 * time.Hour), // 1 year
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetLanguageCookie sets the language cookie
func SetLanguageCookie(c echo.Context, lang string) {
	setLanguageCookie(c, lang, isProduction(c))
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) string {
	if lang, ok := c.Get("locale").(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage()
}
