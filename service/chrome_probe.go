package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"menu-signage/display"
	"menu-signage/logging"
)

const measureTimeout = 10 * time.Second

// ChromeProbe measures slots on the real kiosk page in a headless Chrome.
// The page is opened with ?measure=1 so its own rotation script stays idle;
// each measurement paints the slot markup into the primary slot and compares
// its scroll height to its box.
// Implements display.SizeProbe and display.ViewportAware
type ChromeProbe struct {
	pageURL string

	mu     sync.Mutex
	tab    context.Context
	cancel context.CancelFunc
	width  int
	height int
	loaded bool
}

var (
	_ display.SizeProbe     = (*ChromeProbe)(nil)
	_ display.ViewportAware = (*ChromeProbe)(nil)
)

// NewChromeProbe launches the browser. baseURL is where the kiosk page is
// served; the browser stays up until Close.
func NewChromeProbe(ctx context.Context, baseURL, chromePath string, width, height int) (*ChromeProbe, error) {
	tab, cancel := newBrowser(ctx, chromePath)
	// the first Run starts the browser process
	if err := chromedp.Run(tab); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}
	logging.Log.Infof("✓ Chrome measuring probe started (%dx%d)", width, height)
	return &ChromeProbe{
		pageURL: baseURL + "/?measure=1",
		tab:     tab,
		cancel:  cancel,
		width:   width,
		height:  height,
	}, nil
}

// SetViewport implements display.ViewportAware. The page is reloaded at the
// new size before the next measurement.
func (p *ChromeProbe) SetViewport(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if width == p.width && height == p.height {
		return
	}
	p.width, p.height = width, height
	p.loaded = false
}

// Fits implements display.SizeProbe
func (p *ChromeProbe) Fits(slot *display.Slot) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(p.tab, measureTimeout)
	defer cancel()

	if !p.loaded {
		if err := p.load(ctx); err != nil {
			return false, err
		}
		p.loaded = true
	}

	html, err := json.Marshal(string(slot.HTML))
	if err != nil {
		return false, fmt.Errorf("failed to encode slot markup: %w", err)
	}
	script := fmt.Sprintf(`(function(html) {
		const el = document.querySelector(".CategorySlot[data-slot='%d']");
		if (!el) { return -1; }
		el.style.display = 'block';
		el.style.visibility = 'hidden';
		el.innerHTML = html;
		return el.scrollHeight <= el.clientHeight + 1 ? 1 : 0;
	})(%s)`, slot.Index, html)

	var result int
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &result)); err != nil {
		p.loaded = false
		return false, fmt.Errorf("failed to measure slot %d: %w", slot.Index, err)
	}
	if result < 0 {
		return false, fmt.Errorf("slot %d not found on kiosk page", slot.Index)
	}
	return result == 1, nil
}

func (p *ChromeProbe) load(ctx context.Context) error {
	var ready bool
	err := chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(p.width), int64(p.height)),
		chromedp.Navigate(p.pageURL),
		chromedp.WaitReady(".CategorySlot", chromedp.ByQuery),
		chromedp.Evaluate(waitForAssets, &ready, awaitPromise),
	)
	if err != nil {
		return fmt.Errorf("failed to load kiosk page for measuring: %w", err)
	}
	logging.Log.Debugf("kiosk page loaded for measuring at %dx%d", p.width, p.height)
	return nil
}

// Close stops the browser
func (p *ChromeProbe) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel()
}

func awaitPromise(params *runtime.EvaluateParams) *runtime.EvaluateParams {
	return params.WithAwaitPromise(true)
}
