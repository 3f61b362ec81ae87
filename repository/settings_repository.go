package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"menu-signage/db"
	"menu-signage/logging"
	"menu-signage/models"
)

// SettingsRepository reads and writes signage_settings
type SettingsRepository struct{}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// Ensure SettingsRepository implements SettingsRepositoryInterface
var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)

// GetAll returns the active settings typed by their data_type
func (r *SettingsRepository) GetAll(ctx context.Context) (map[string]any, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT setting_key, setting_value, data_type
		FROM signage_settings
		WHERE active = true`)
	if err != nil {
		logging.Log.Errorf("❌ Error querying settings: %v", err)
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]any)
	for rows.Next() {
		var key, value, dataType string
		if err := rows.Scan(&key, &value, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = ParseSettingValue(key, value, dataType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return settings, nil
}

// Upsert writes every value, storing its inferred data_type
func (r *SettingsRepository) Upsert(ctx context.Context, values map[string]any) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for key, v := range values {
		value, dataType, err := FormatSettingValue(v)
		if err != nil {
			return fmt.Errorf("failed to encode setting %s: %w", key, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO signage_settings (setting_key, setting_value, data_type, active, updated_at)
			VALUES ($1, $2, $3, true, NOW())
			ON CONFLICT (setting_key)
			DO UPDATE SET setting_value = EXCLUDED.setting_value,
			              data_type = EXCLUDED.data_type,
			              active = true,
			              updated_at = NOW()`,
			key, value, dataType)
		if err != nil {
			return fmt.Errorf("failed to upsert setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	logging.Log.Infof("✓ Saved %d settings", len(values))
	return nil
}

// ParseSettingValue converts a stored setting to its typed value. Numbers
// that do not parse become nil; JSON that does not parse stays a string.
func ParseSettingValue(key, value, dataType string) any {
	switch dataType {
	case models.SettingNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			logging.Log.Warnf("⚠️ Setting %s is not a number: %q", key, value)
			return nil
		}
		return f
	case models.SettingBoolean:
		return strings.ToLower(value) == "true"
	case models.SettingJSON:
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			logging.Log.Warnf("⚠️ Failed to parse JSON for %s", key)
			return value
		}
		return v
	default:
		return value
	}
}

// FormatSettingValue is the inverse of ParseSettingValue
func FormatSettingValue(v any) (string, string, error) {
	dataType := models.InferSettingType(v)
	switch t := v.(type) {
	case string:
		return t, dataType, nil
	case bool:
		return strconv.FormatBool(t), dataType, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), dataType, nil
	case int:
		return strconv.Itoa(t), dataType, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", "", err
	}
	return string(b), dataType, nil
}
