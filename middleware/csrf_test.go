package middleware

import (
	"law_office_app_go/config"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCSRFToken(t *testing.T) {
	e := echo.New()

	t.Run("TokenExists", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set("csrf", "test-csrf-token")
		assert.Equal(t, "test-csrf-token", GetCSRFToken(c))
	})

	t.Run("TokenMissing", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		assert.Equal(t, "", GetCSRFToken(c))
	})

	t.Run("TokenInvalidType", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set("csrf", 123)
		assert.Equal(t, "", GetCSRFToken(c))
	})
}

func TestCSRF(t *testing.T) {
	e := echo.New()
	mw := CSRF(&config.Config{Environment: "development"})

	var token string
	t.Run("GetIssuesToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := mw(func(c echo.Context) error {
			token = GetCSRFToken(c)
			return c.NoContent(http.StatusOK)
		})(c)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "_csrf="+token)
	})

	t.Run("PostWithoutToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := mw(okHandler)(c)
		assert.Error(t, err)
	})

	t.Run("PostWithFormToken", func(t *testing.T) {
		form := url.Values{"_csrf": {token}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(&http.Cookie{Name: "_csrf", Value: token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := mw(okHandler)(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("PostWithHeaderToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cases", nil)
		req.Header.Set(CSRFHeader, token)
		req.AddCookie(&http.Cookie{Name: "_csrf", Value: token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := mw(okHandler)(c)
		assert.NoError(t, err)
	})
}
