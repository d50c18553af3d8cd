package services

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"law_office_app_go/config"
	"law_office_app_go/services/i18n"
	"log"
	"strings"
	texttemplate "text/template"

	"github.com/resend/resend-go/v2"
)

//go:embed emails/*
var emailFS embed.FS

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// renderEmail executes <name>_<lang>.html/.txt, falling back to <name>.html/.txt
func renderEmail(name, lang string, data interface{}) (string, string, error) {
	read := func(ext string) (string, []byte, error) {
		file := fmt.Sprintf("emails/%s_%s%s", name, lang, ext)
		content, err := emailFS.ReadFile(file)
		if err == nil {
			return file, content, nil
		}
		file = "emails/" + name + ext
		content, err = emailFS.ReadFile(file)
		return file, content, err
	}

	file, htmlSrc, err := read(".html")
	if err != nil {
		return "", "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	htmlTmpl, err := htmltemplate.New(file).Parse(string(htmlSrc))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", file, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", file, err)
	}

	file, textSrc, err := read(".txt")
	if err != nil {
		return "", "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	textTmpl, err := texttemplate.New(file).Parse(string(textSrc))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", file, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", file, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

func buildEmail(name, lang, subjectKey, officeName, to string, data interface{}) *Email {
	htmlBody, textBody, err := renderEmail(name, lang, data)
	if err != nil {
		log.Printf("Error loading %s email template for lang %s: %v", name, lang, err)
	}
	return &Email{
		To:       []string{to},
		Subject:  i18n.Translate(lang, subjectKey, map[string]interface{}{"office": officeName}),
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 60)
	log.Printf("\n%s\nEMAIL (test mode, not sent)\nTo: %v\nSubject: %s\n\n%s\n%s",
		separator, email.To, email.Subject, email.TextBody, separator)
}

// SendEmailAsync sends an email in the background
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// WelcomeEmailData feeds the sign-up welcome email
type WelcomeEmailData struct {
	UserName   string
	OfficeName string
	LoginURL   string
}

// BuildWelcomeEmail greets a user who just signed up
func BuildWelcomeEmail(userEmail, userName, officeName, loginURL, lang string) *Email {
	return buildEmail("welcome", lang, "email.subject.welcome", officeName, userEmail, WelcomeEmailData{
		UserName:   userName,
		OfficeName: officeName,
		LoginURL:   loginURL,
	})
}

// LawyerAddedEmailData feeds the email sent when an admin adds a lawyer to the office
type LawyerAddedEmailData struct {
	LawyerName string
	OfficeName string
	Email      string
	Password   string
	LoginURL   string
}

// BuildLawyerAddedEmail carries the new account's initial credentials
func BuildLawyerAddedEmail(lawyerEmail, lawyerName, officeName, password, loginURL, lang string) *Email {
	return buildEmail("lawyer_added", lang, "email.subject.lawyer_added", officeName, lawyerEmail, LawyerAddedEmailData{
		LawyerName: lawyerName,
		OfficeName: officeName,
		Email:      lawyerEmail,
		Password:   password,
		LoginURL:   loginURL,
	})
}

// DigestItem is one line of the deadline digest
type DigestItem struct {
	CaseNum  string
	Client   string
	Text     string
	Deadline string
}

// DeadlineDigestEmailData feeds the daily deadline digest sent to office admins
type DeadlineDigestEmailData struct {
	UserName   string
	OfficeName string
	Tasks      []DigestItem
	Documents  []DigestItem
	AppURL     string
}

// BuildDeadlineDigestEmail lists tasks and document deadlines that are due soon
func BuildDeadlineDigestEmail(to string, data DeadlineDigestEmailData, lang string) *Email {
	return buildEmail("deadline_digest", lang, "email.subject.deadline_digest", data.OfficeName, to, data)
}
