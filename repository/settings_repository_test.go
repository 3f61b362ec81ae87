package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettingValue(t *testing.T) {
	assert.Equal(t, 6000.0, ParseSettingValue("rotation_interval", "6000", "number"))
	assert.Nil(t, ParseSettingValue("rotation_interval", "fast", "number"))
	assert.Equal(t, true, ParseSettingValue("footer_continuous", "TRUE", "boolean"))
	assert.Equal(t, false, ParseSettingValue("footer_continuous", "yes", "boolean"))
	assert.Equal(t, map[string]any{"a": 1.0}, ParseSettingValue("theme", `{"a":1}`, "json"))
	assert.Equal(t, "{broken", ParseSettingValue("theme", "{broken", "json"))
	assert.Equal(t, "Welkom||Tot ziens", ParseSettingValue("footer_text", "Welkom||Tot ziens", "string"))
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		in       any
		value    string
		dataType string
	}{
		{2.0, "2", "number"},
		{7.8, "7.8", "number"},
		{true, "true", "boolean"},
		{"Welkom", "Welkom", "string"},
		{[]any{"a", "b"}, `["a","b"]`, "json"},
	}
	for _, tt := range tests {
		value, dataType, err := FormatSettingValue(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.value, value)
		assert.Equal(t, tt.dataType, dataType)

		assert.Equal(t, tt.in, ParseSettingValue("k", value, dataType))
	}
}
