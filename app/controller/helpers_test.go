package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingInvalidator struct {
	n atomic.Int32
}

func (c *countingInvalidator) Invalidate() { c.n.Add(1) }

func (c *countingInvalidator) count() int { return int(c.n.Load()) }

// serve runs h against a request built from method, target and an optional
// JSON body.
func serve(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	return serveAs(h, method, target, body, "")
}

// serveAs is serve with the given kiosk token header, when not empty
func serveAs(h http.HandlerFunc, method, target, body, kioskToken string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if kioskToken != "" {
		req.Header.Set(KioskTokenHeader, kioskToken)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
