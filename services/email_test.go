package services

import (
	"law_office_app_go/config"
	"law_office_app_go/services/i18n"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmail(t *testing.T) {
	data := WelcomeEmailData{UserName: "Ruth", OfficeName: "Cohen & Co", LoginURL: "http://localhost/login"}

	t.Run("base template", func(t *testing.T) {
		html, text, err := renderEmail("welcome", "en", data)
		require.NoError(t, err)
		assert.Contains(t, html, "Welcome, Ruth")
		assert.Contains(t, html, "Cohen &amp; Co")
		assert.Contains(t, text, "Cohen & Co")
	})

	t.Run("localized template", func(t *testing.T) {
		html, _, err := renderEmail("welcome", "he", data)
		require.NoError(t, err)
		assert.Contains(t, html, `dir="rtl"`)
	})

	t.Run("unknown language falls back to base", func(t *testing.T) {
		html, _, err := renderEmail("welcome", "fr", data)
		require.NoError(t, err)
		assert.Contains(t, html, "Welcome, Ruth")
	})

	t.Run("missing template", func(t *testing.T) {
		_, _, err := renderEmail("nope", "en", data)
		assert.Error(t, err)
	})
}

func TestBuildLawyerAddedEmail(t *testing.T) {
	require.NoError(t, i18n.Load())
	email := BuildLawyerAddedEmail("avi@example.com", "Avi", "Cohen & Co", "tmp-pass", "http://localhost/login", "en")
	assert.Equal(t, []string{"avi@example.com"}, email.To)
	assert.Contains(t, email.TextBody, "tmp-pass")
	assert.NotEmpty(t, email.HTMLBody)
	assert.Equal(t, "You were added to Cohen & Co", email.Subject)
}

func TestSendEmailTestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}
	err := SendEmail(cfg, &Email{To: []string{"a@example.com"}, Subject: "s", TextBody: "b"})
	assert.NoError(t, err)
}

func TestSendEmailWithoutAPIKey(t *testing.T) {
	cfg := &config.Config{EmailTestMode: false}
	err := SendEmail(cfg, &Email{To: []string{"a@example.com"}, Subject: "s", TextBody: "b"})
	assert.ErrorContains(t, err, "RESEND_API_KEY")
}
