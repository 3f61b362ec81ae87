package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-signage/display"
	"menu-signage/models"
)

type fakeSettingsReader struct {
	settings models.DisplaySettings
}

func (f fakeSettingsReader) Current() models.DisplaySettings { return f.settings }

type fakeDisplayEvents struct {
	invalidated atomic.Int32
	reconnected atomic.Int32
}

func (f *fakeDisplayEvents) Invalidate()  { f.invalidated.Add(1) }
func (f *fakeDisplayEvents) Reconnected() { f.reconnected.Add(1) }

const testKioskToken = "lobby-screen"

func newDisplayController(t *testing.T) (*DisplayController, *display.Session, *fakeDisplayEvents) {
	t.Helper()
	frames := display.NewBroadcaster()
	session := display.NewSession(display.LineProbe{Lines: 10},
		display.WithColumns(1),
		display.OnRender(frames.Publish),
	)
	session.Load(&models.Catalog{Categories: []models.Category{
		{Title: "Drinks", Items: []models.Item{{Name: "Cola", Price: models.PriceOf(2.5)}}},
		{Title: "Snacks", Items: []models.Item{{Name: "Chips", Price: models.PriceOf(1.75)}}},
	}})
	events := &fakeDisplayEvents{}
	return NewDisplayController(session, frames, fakeSettingsReader{models.DefaultDisplaySettings()}, events, testKioskToken), session, events
}

func TestDisplayPage(t *testing.T) {
	c, _, _ := newDisplayController(t)

	rec := serve(c.Page, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "EventSource")

	assert.NotContains(t, rec.Body.String(), testKioskToken)

	rec = serve(c.Page, http.MethodGet, "/?measure=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "EventSource")
	assert.Contains(t, rec.Body.String(), `data-slot="1"`)
}

func TestDisplayPageForKiosk(t *testing.T) {
	c, _, _ := newDisplayController(t)

	rec := serve(c.Page, http.MethodGet, "/?kiosk="+testKioskToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"`+testKioskToken+`"`)

	rec = serve(c.Page, http.MethodGet, "/?kiosk=guess", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), testKioskToken)
}

func TestDisplayFrame(t *testing.T) {
	c, session, _ := newDisplayController(t)

	rec := serve(c.Frame, http.MethodGet, "/display/frame", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var frame display.Frame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frame))
	assert.Equal(t, session.ID(), frame.SessionID)
	require.NotNil(t, frame.Slot(display.PrimarySlot))
	assert.Equal(t, "Drinks", frame.Slot(display.PrimarySlot).Title)
}

func TestDisplayViewport(t *testing.T) {
	c, session, _ := newDisplayController(t)

	rec := serveAs(c.Viewport, http.MethodPost, "/display/viewport", `{"width":1280,"height":720}`, testKioskToken)
	require.Equal(t, http.StatusOK, rec.Code)
	w, h := session.Viewport()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	tests := []struct {
		name string
		body string
	}{
		{"zero width", `{"width":0,"height":720}`},
		{"too wide", `{"width":100000,"height":720}`},
		{"too tall", `{"width":1280,"height":100000}`},
		{"not json", `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveAs(c.Viewport, http.MethodPost, "/display/viewport", tt.body, testKioskToken)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			w, h := session.Viewport()
			assert.Equal(t, 1280, w)
			assert.Equal(t, 720, h)
		})
	}
}

func TestOtherViewersCannotMoveTheDisplay(t *testing.T) {
	c, session, _ := newDisplayController(t)
	rec := serveAs(c.Viewport, http.MethodPost, "/display/viewport", `{"width":1920,"height":1080}`, testKioskToken)
	require.Equal(t, http.StatusOK, rec.Code)
	session.Tick(time.Now())
	before := session.Frame()

	for _, token := range []string{"", "guess"} {
		rec = serveAs(c.Viewport, http.MethodPost, "/display/viewport", `{"width":390,"height":844}`, token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		rec = serveAs(c.Event, http.MethodPost, "/display/events", `{"type":"fonts-ready"}`, token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	w, h := session.Viewport()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
	after := session.Frame()
	assert.Equal(t, before.Sequence, after.Sequence)
	assert.Equal(t, before.State, after.State)
}

func TestDisplayWithoutKioskTokenKeepsViewport(t *testing.T) {
	frames := display.NewBroadcaster()
	session := display.NewSession(display.LineProbe{Lines: 10}, display.OnRender(frames.Publish))
	c := NewDisplayController(session, frames, fakeSettingsReader{models.DefaultDisplaySettings()}, &fakeDisplayEvents{}, "")

	rec := serveAs(c.Viewport, http.MethodPost, "/display/viewport", `{"width":1280,"height":720}`, "anything")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	w, h := session.Viewport()
	assert.Zero(t, w)
	assert.Zero(t, h)

	rec = serve(c.Page, http.MethodGet, "/?kiosk=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `const kioskToken = "";`)
}

func TestDisplayEvents(t *testing.T) {
	c, session, events := newDisplayController(t)
	session.Tick(time.Now())
	require.Equal(t, 1, session.State().CategoryIndex)

	rec := serveAs(c.Event, http.MethodPost, "/display/events", `{"type":"fonts-ready"}`, testKioskToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, session.State().PagePartIndex)

	rec = serve(c.Event, http.MethodPost, "/display/events", `{"type":"reconnected"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = serve(c.Event, http.MethodPost, "/display/events", `{"type":"invalidate"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.EqualValues(t, 1, events.reconnected.Load())
	assert.EqualValues(t, 1, events.invalidated.Load())

	rec = serve(c.Event, http.MethodPost, "/display/events", `{"type":"explode"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "explode")
}

func TestPrintMenu(t *testing.T) {
	c, _, _ := newDisplayController(t)
	rec := serve(c.PrintMenu, http.MethodGet, "/menu/print", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Drinks")
	assert.Contains(t, rec.Body.String(), "Chips")
}

// readEvent returns the name of the next server-sent event
func readEvent(t *testing.T, sc *bufio.Scanner) string {
	t.Helper()
	var name string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case line == "" && name != "":
			return name
		}
	}
	require.NoError(t, sc.Err())
	t.Fatal("stream ended")
	return ""
}

func TestDisplayStream(t *testing.T) {
	c, session, _ := newDisplayController(t)
	srv := httptest.NewServer(http.HandlerFunc(c.Stream))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	sc := bufio.NewScanner(resp.Body)
	assert.Equal(t, "frame", readEvent(t, sc))

	session.Tick(time.Now())
	assert.Equal(t, "frame", readEvent(t, sc))

	c.ReloadPages()
	assert.Equal(t, "reload", readEvent(t, sc))

	cancel()
	assert.Eventually(t, func() bool { return c.frames.Len() == 0 && c.reloads.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
