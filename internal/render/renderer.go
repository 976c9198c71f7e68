package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/quotedesk/internal/config"
	"github.com/joelkehle/quotedesk/internal/quote"
)

const styleCSS = `body{font-family:Georgia,serif;color:#1c1917;font-size:0.9rem;line-height:1.45;}
h1{font-size:1.4rem;margin-bottom:0.2rem;}
h2{font-size:1.15rem;letter-spacing:0.08em;border-bottom:2px solid #1c1917;padding-bottom:0.2rem;}
h3{font-size:0.95rem;text-transform:uppercase;letter-spacing:0.04em;color:#44403c;}
table{width:100%;border-collapse:collapse;font-size:0.85rem;}
th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;text-align:left;}`

// Renderer turns a finalized quotation into a document on disk. With
// format "pdf" it prints through headless Chromium; with "html" it
// writes the page directly, which also serves as the fallback path on
// hosts without a browser.
type Renderer struct {
	outDir     string
	format     string
	company    config.Company
	chromePath string
}

func NewRenderer(outDir, format string, company config.Company) *Renderer {
	return &Renderer{
		outDir:     outDir,
		format:     format,
		company:    company,
		chromePath: detectChromePath(),
	}
}

// Render writes the quotation document and returns its path. Called
// exactly once per finalized session.
func (r *Renderer) Render(ctx context.Context, q *quote.Quotation) (string, error) {
	htmlDoc, err := r.buildHTML(q)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return "", err
	}

	if r.format == "html" {
		path := filepath.Join(r.outDir, q.Filename()+".html")
		if err := os.WriteFile(path, []byte(htmlDoc), 0o644); err != nil {
			return "", err
		}
		return path, nil
	}

	pdf, err := r.printPDF(ctx, htmlDoc)
	if err != nil {
		return "", fmt.Errorf("print pdf: %w", err)
	}
	path := filepath.Join(r.outDir, q.Filename()+".pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (r *Renderer) buildHTML(q *quote.Quotation) (string, error) {
	markdown := BuildMarkdown(q, r.company)

	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>" + q.Number + "</title>" +
		"<style>" + styleCSS + "\n" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		"@media print{ @page{size:A4;margin:12mm;} body{padding:0;} }" +
		"</style></head><body><div class='quote-doc'>" + content.String() + "</div></body></html>", nil
}

func (r *Renderer) printPDF(ctx context.Context, htmlDoc string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
