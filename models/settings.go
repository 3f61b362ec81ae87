package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Setting data types stored in signage_settings.data_type
const (
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
	SettingString  = "string"
)

// SettingsResponse is the body of GET /api/settings
type SettingsResponse struct {
	Settings    map[string]any `json:"settings"`
	LastUpdated string         `json:"lastUpdated"`
}

// DisplaySettings is the typed view of the settings the display reads
type DisplaySettings struct {
	Columns          int     `json:"display_columns"`
	RotationInterval int     `json:"rotation_interval"`
	HeaderHeight     int     `json:"header_height"`
	FooterHeight     float64 `json:"footer_height"`
	FooterEnabled    bool    `json:"footer_enabled"`
	FooterText       string  `json:"footer_text"`
	FooterSpeed      int     `json:"footer_speed"`
	FooterContinuous bool    `json:"footer_continuous"`
	LogoSize         int     `json:"logo_size"`
}

// DefaultDisplaySettings mirrors the values the kiosk falls back to
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		Columns:          2,
		RotationInterval: 6000,
		HeaderHeight:     15,
		FooterHeight:     7.8,
		FooterEnabled:    true,
		FooterSpeed:      30,
		FooterContinuous: true,
		LogoSize:         36,
	}
}

// DisplaySettingsFrom reads the typed view out of a settings map. Missing,
// zero or unparseable values keep their defaults.
func DisplaySettingsFrom(m map[string]any) DisplaySettings {
	return DefaultDisplaySettings().Merge(m)
}

// Merge returns s with the values present in m applied over it
func (s DisplaySettings) Merge(m map[string]any) DisplaySettings {
	if n := intSetting(m["display_columns"]); n > 0 {
		s.Columns = n
	}
	if n := intSetting(m["rotation_interval"]); n > 0 {
		s.RotationInterval = n
	}
	if n := intSetting(m["header_height"]); n > 0 {
		s.HeaderHeight = n
	}
	if f := floatSetting(m["footer_height"]); f > 0 {
		s.FooterHeight = f
	}
	if b, ok := m["footer_enabled"].(bool); ok {
		s.FooterEnabled = b
	}
	if n := intSetting(m["footer_speed"]); n > 0 {
		s.FooterSpeed = n
	}
	if b, ok := m["footer_continuous"].(bool); ok {
		s.FooterContinuous = b
	}
	if n := intSetting(m["logo_size"]); n > 0 {
		s.LogoSize = n
	}
	if t, ok := m["footer_text"].(string); ok {
		s.FooterText = strings.TrimSpace(t)
	}
	if !s.FooterEnabled {
		s.FooterHeight = 0
	}
	return s
}

// FooterLines splits the footer text on its "||" delimiter
func (s DisplaySettings) FooterLines() []string {
	if s.FooterText == "" {
		return nil
	}
	var lines []string
	for _, part := range strings.Split(s.FooterText, "||") {
		if part = strings.TrimSpace(part); part != "" {
			lines = append(lines, part)
		}
	}
	return lines
}

// InferSettingType picks the data_type stored for a value written through the API
func InferSettingType(v any) string {
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return SettingNumber
	case bool:
		return SettingBoolean
	case string:
		return SettingString
	default:
		return SettingJSON
	}
}

func intSetting(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		// parseInt semantics: leading digits count
		t = strings.TrimSpace(t)
		end := 0
		for end < len(t) && (t[end] >= '0' && t[end] <= '9' || end == 0 && t[end] == '-') {
			end++
		}
		n, _ := strconv.Atoi(t[:end])
		return n
	}
	return 0
}

func floatSetting(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	}
	return 0
}

// String is used in log lines
func (s DisplaySettings) String() string {
	return fmt.Sprintf("columns=%d rotation=%dms header=%dvh footer=%.1fvh", s.Columns, s.RotationInterval, s.HeaderHeight, s.FooterHeight)
}
