package services

import (
	"context"
	"fmt"
	"os"

	"law_office_app_go/services/i18n"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns the options used for case booklets
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		MarginTop:       54,
		MarginBottom:    54,
		MarginLeft:      54,
		MarginRight:     54,
	}
}

func paperSize(options PDFOptions) (float64, float64) {
	var w, h float64
	switch options.PageSize {
	case "legal":
		w, h = 8.5, 14.0
	case "letter":
		w, h = 8.5, 11.0
	default: // A4
		w, h = 8.27, 11.69
	}
	if options.PageOrientation == "landscape" {
		w, h = h, w
	}
	return w, h
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(ctx context.Context, htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	paperWidth, paperHeight := paperSize(options)

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.Sleep(100),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(float64(options.MarginTop) / 72.0).
				WithMarginBottom(float64(options.MarginBottom) / 72.0).
				WithMarginLeft(float64(options.MarginLeft) / 72.0).
				WithMarginRight(float64(options.MarginRight) / 72.0).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// WrapHTMLForPDF wraps a rendered booklet body in a printable document
func WrapHTMLForPDF(content, lang string) string {
	return `<!DOCTYPE html>
<html lang="` + lang + `" dir="` + i18n.Direction(lang) + `">
<head>
    <meta charset="UTF-8">
    <style>
        body {
            font-family: Arial, "Noto Sans Hebrew", sans-serif;
            font-size: 11pt;
            line-height: 1.5;
            color: #000;
        }
        h1 {
            font-size: 16pt;
            text-align: center;
            margin-bottom: 18pt;
        }
        h2 {
            font-size: 13pt;
            margin-top: 18pt;
            margin-bottom: 8pt;
            border-bottom: 1px solid #999;
        }
        .section { page-break-inside: avoid; }
        .plan { color: #555; font-style: italic; }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 12pt;
        }
        th, td {
            border: 1px solid #000;
            padding: 4pt 6pt;
            text-align: start;
        }
        th {
            background-color: #f0f0f0;
        }
    </style>
</head>
<body>
` + content + `
</body>
</html>`
}

// GenerateBookletPDF wraps a rendered booklet and prints it
func GenerateBookletPDF(ctx context.Context, renderedHTML, lang string) ([]byte, error) {
	return GeneratePDF(ctx, WrapHTMLForPDF(renderedHTML, lang), DefaultPDFOptions())
}
