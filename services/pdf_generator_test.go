package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPDFOptions(t *testing.T) {
	opts := DefaultPDFOptions()
	assert.Equal(t, "portrait", opts.PageOrientation)
	assert.Equal(t, "A4", opts.PageSize)
	assert.Equal(t, 54, opts.MarginTop)
}

func TestPaperSize(t *testing.T) {
	w, h := paperSize(PDFOptions{PageSize: "A4"})
	assert.Equal(t, 8.27, w)
	assert.Equal(t, 11.69, h)

	w, h = paperSize(PDFOptions{PageSize: "letter", PageOrientation: "landscape"})
	assert.Equal(t, 11.0, w)
	assert.Equal(t, 8.5, h)
}

func TestWrapHTMLForPDF(t *testing.T) {
	content := "<h1>תיק 55001</h1>"

	html := WrapHTMLForPDF(content, "he")
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `dir="rtl"`)
	assert.Contains(t, html, content)

	assert.Contains(t, WrapHTMLForPDF(content, "en"), `dir="ltr"`)
}

func TestGeneratePDFSmoke(t *testing.T) {
	chromePath := os.Getenv("CHROME_PATH")
	if chromePath == "" {
		t.Skip("Skipping PDF generation test: CHROME_PATH not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pdf, err := GenerateBookletPDF(ctx, "<h1>Hello</h1>", "en")
	if err != nil && os.IsNotExist(err) {
		t.Skipf("Skipping: Chrome not found at %s", chromePath)
	}
	require.NoError(t, err)
	assert.Contains(t, string(pdf[:5]), "%PDF-")
}
