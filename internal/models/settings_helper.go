package models

import (
	"fmt"

	"github.com/flowday/flowday/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
// Keys missing from data keep their default value.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingAPIBaseURL:
			settings.APIBaseURL = value
		case constants.SettingDefaultMainTime:
			settings.DefaultMainTime = value
		case constants.SettingPrepOffsetMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.PrepOffsetMin); err != nil {
				return Settings{}, fmt.Errorf("parsing prep_offset_min: %w", err)
			}
		case constants.SettingCacheTTLSec:
			if _, err := fmt.Sscanf(value, "%d", &settings.CacheTTLSec); err != nil {
				return Settings{}, fmt.Errorf("parsing cache_ttl_sec: %w", err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingAPIBaseURL:      settings.APIBaseURL,
		constants.SettingDefaultMainTime: settings.DefaultMainTime,
		constants.SettingPrepOffsetMin:   fmt.Sprintf("%d", settings.PrepOffsetMin),
		constants.SettingCacheTTLSec:     fmt.Sprintf("%d", settings.CacheTTLSec),
		constants.SettingTimezone:        settings.Timezone,
	}
}

// DefaultSettings returns the settings of a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		APIBaseURL:      constants.DefaultAPIBaseURL,
		DefaultMainTime: constants.DefaultMainEventTime,
		PrepOffsetMin:   constants.DefaultPrepOffsetMin,
		CacheTTLSec:     constants.DefaultCacheTTLSec,
		Timezone:        constants.DefaultTimezone,
	}
}

// ApplyDefaultSettings fills empty text settings with their defaults. Numeric
// settings are left alone since zero is a meaningful value for them.
func ApplyDefaultSettings(settings *Settings) {
	if settings.APIBaseURL == "" {
		settings.APIBaseURL = constants.DefaultAPIBaseURL
	}
	if settings.DefaultMainTime == "" {
		settings.DefaultMainTime = constants.DefaultMainEventTime
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}
