package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"menu-signage/logging"
)

// Invalidator is told when admin changes make the display stale
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a function to an Invalidator
type InvalidatorFunc func()

// Invalidate implements Invalidator
func (f InvalidatorFunc) Invalidate() { f() }

type noopInvalidator struct{}

func (noopInvalidator) Invalidate() {}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Log.Errorf("❌ Error encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// queryID reads the ?id= parameter. ok is false when it is missing or not a
// positive integer.
func queryID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
