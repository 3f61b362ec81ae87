package service

import (
	"context"
	"os"

	"github.com/chromedp/chromedp"
)

// detectChromePath returns the configured Chrome path when it exists, then
// the first of the common installation paths. Empty lets chromedp decide.
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// newBrowser starts a headless Chrome bound to ctx. The returned cancel
// closes the tab and the browser.
func newBrowser(ctx context.Context, chromePath string, extra ...chromedp.ExecAllocatorOption) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // required in containers
		chromedp.Flag("hide-scrollbars", true),
	)
	if path := detectChromePath(chromePath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	opts = append(opts, extra...)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	return tabCtx, func() {
		tabCancel()
		allocCancel()
	}
}

// waitForAssets resolves once web fonts and images of the page are loaded.
const waitForAssets = `
	Promise.all([
		document.fonts.ready,
		Promise.all(Array.from(document.querySelectorAll('img')).map(img => new Promise(resolve => {
			if (img.complete) { resolve(); return; }
			const timeout = setTimeout(resolve, 5000);
			img.onload = () => { clearTimeout(timeout); resolve(); };
			img.onerror = () => { clearTimeout(timeout); resolve(); };
		})))
	]).then(() => true)
`
