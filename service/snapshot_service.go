package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"menu-signage/logging"
)

// SnapshotService renders pages of the running server with headless Chrome:
// a PNG of what the kiosk shows and a PDF of the printable menu.
// Implements SnapshotServiceInterface
type SnapshotService struct {
	baseURL    string
	chromePath string
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(baseURL, chromePath string) *SnapshotService {
	return &SnapshotService{baseURL: baseURL, chromePath: chromePath}
}

// Ensure SnapshotService implements SnapshotServiceInterface
var _ SnapshotServiceInterface = (*SnapshotService)(nil)

// CaptureDisplay screenshots the kiosk page at the given viewport
func (s *SnapshotService) CaptureDisplay(ctx context.Context, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tab, closeBrowser := newBrowser(ctx, s.chromePath)
	defer closeBrowser()

	logging.Log.Infof("📸 Capturing display at %dx%d", width, height)

	var ready bool
	var buf []byte
	err := chromedp.Run(tab,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(s.baseURL+"/"),
		chromedp.WaitVisible(".CategorySlot[data-slot='1']", chromedp.ByQuery),
		chromedp.Evaluate(waitForAssets, &ready, awaitPromise),
		chromedp.Sleep(500*time.Millisecond), // first frame arrives over the stream
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display: %w", err)
	}
	return buf, nil
}

// GenerateMenuPDF prints the full menu page to an A4 PDF
func (s *SnapshotService) GenerateMenuPDF(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tab, closeBrowser := newBrowser(ctx, s.chromePath, chromedp.Flag("enable-print-preview", true))
	defer closeBrowser()

	logging.Log.Infof("📄 Generating menu PDF")

	var ready bool
	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return page.Enable().Do(ctx)
		}),
		chromedp.Navigate(s.baseURL+"/menu/print"),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(waitForAssets, &ready, awaitPromise),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf, nil
}
