package controller

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"menu-signage/display"
	"menu-signage/logging"
	"menu-signage/models"
	"menu-signage/web"
)

// DisplaySettingsReader returns the display settings last loaded
type DisplaySettingsReader interface {
	Current() models.DisplaySettings
}

// DisplayEvents receives signals from the kiosk page
type DisplayEvents interface {
	Invalidate()
	Reconnected()
}

const keepAliveInterval = 25 * time.Second

// KioskTokenHeader carries the kiosk token on viewport and font reports
const KioskTokenHeader = "X-Kiosk-Token"

// Largest viewport accepted from the kiosk (8K)
const (
	maxViewportWidth  = 7680
	maxViewportHeight = 4320
)

// DisplayController serves the kiosk page and keeps it in sync with the
// display session: the current frame, a frame stream and the page's
// viewport and font signals.
//
// Every screen shares the one session, so only the kiosk, identified by
// kioskToken, may report the viewport or fonts-ready. Without a token the
// configured viewport stays in force.
type DisplayController struct {
	session    *display.Session
	frames     *display.Broadcaster
	reloads    *display.Broadcaster
	settings   DisplaySettingsReader
	events     DisplayEvents
	kioskToken string
}

// NewDisplayController creates a new DisplayController. frames must be the
// broadcaster the session publishes its renders to.
func NewDisplayController(session *display.Session, frames *display.Broadcaster, settings DisplaySettingsReader, events DisplayEvents, kioskToken string) *DisplayController {
	return &DisplayController{
		session:    session,
		frames:     frames,
		reloads:    display.NewBroadcaster(),
		settings:   settings,
		events:     events,
		kioskToken: kioskToken,
	}
}

func (c *DisplayController) isKiosk(token string) bool {
	if c.kioskToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.kioskToken)) == 1
}

// ReloadPages tells every connected kiosk page to load itself again, so
// header and footer settings apply. Frames on the reload broadcaster carry
// nothing; receiving one is the signal.
func (c *DisplayController) ReloadPages() {
	c.reloads.Publish(display.Frame{})
}

// Page handles GET /. With ?measure=1 the page is rendered without its
// client script, for the measuring browser. With ?kiosk=<token> the page
// reports its viewport and fonts back to the session.
func (c *DisplayController) Page(w http.ResponseWriter, r *http.Request) {
	settings := c.settings.Current()
	q := r.URL.Query()
	page := web.DisplayPage{
		Settings: settings,
		Columns:  settings.Columns,
		Measure:  q.Get("measure") == "1",
	}
	if c.isKiosk(q.Get("kiosk")) {
		page.KioskToken = c.kioskToken
	}

	var buf bytes.Buffer
	if err := web.RenderDisplay(&buf, page); err != nil {
		logging.Log.Errorf("❌ DisplayPage: %v", err)
		http.Error(w, "Failed to render display", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// PrintMenu handles GET /menu/print
func (c *DisplayController) PrintMenu(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := web.RenderPrint(&buf, web.NewPrintPage(c.session.Categories(), time.Now())); err != nil {
		logging.Log.Errorf("❌ PrintMenu: %v", err)
		http.Error(w, "Failed to render menu", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Frame handles GET /display/frame
func (c *DisplayController) Frame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.session.Frame())
}

type viewportRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Viewport handles POST /display/viewport
func (c *DisplayController) Viewport(w http.ResponseWriter, r *http.Request) {
	if !c.isKiosk(r.Header.Get(KioskTokenHeader)) {
		writeJSONError(w, http.StatusForbidden, "viewport is only taken from the kiosk")
		return
	}
	var req viewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeJSONError(w, http.StatusBadRequest, "width and height must be greater than 0")
		return
	}
	if req.Width > maxViewportWidth || req.Height > maxViewportHeight {
		writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("viewport may be at most %dx%d", maxViewportWidth, maxViewportHeight))
		return
	}
	writeJSON(w, http.StatusOK, c.session.Resize(req.Width, req.Height))
}

// Display page event types
const (
	EventFontsReady  = "fonts-ready"
	EventReconnected = "reconnected"
	EventInvalidate  = "invalidate"
)

type eventRequest struct {
	Type string `json:"type"`
}

// Event handles POST /display/events
func (c *DisplayController) Event(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Type {
	case EventFontsReady:
		if !c.isKiosk(r.Header.Get(KioskTokenHeader)) {
			writeJSONError(w, http.StatusForbidden, "fonts-ready is only taken from the kiosk")
			return
		}
		c.session.FontsReady()
	case EventReconnected:
		c.events.Reconnected()
	case EventInvalidate:
		c.events.Invalidate()
	default:
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown event type %q", req.Type))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stream handles GET /display/stream: server-sent "frame" events, and a
// "reload" event when the page itself must be fetched again.
func (c *DisplayController) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	frames, stopFrames := c.frames.Subscribe()
	defer stopFrames()
	reloads, stopReloads := c.reloads.Subscribe()
	defer stopReloads()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	logging.Log.Infof("📺 Display stream opened (%d listeners)", c.frames.Len())
	defer logging.Log.Infof("📺 Display stream closed")

	if err := writeEvent(w, "frame", c.session.Frame()); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := writeEvent(w, "frame", f); err != nil {
				return
			}
		case _, ok := <-reloads:
			if !ok {
				return
			}
			if err := writeEvent(w, "reload", struct{}{}); err != nil {
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
