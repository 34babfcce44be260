// Package config provides configuration loading for meetsched.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied when neither the config file nor the environment says
// otherwise. The timezone default matches the organizer's home zone.
const (
	DefaultTimezone        = "Asia/Kolkata"
	DefaultCalendarID      = "primary"
	DefaultTokenFile       = "token.json"
	DefaultCredentialsFile = "credentials.json"
	DefaultRecurrenceCount = 5

	DefaultReminderEmailMinutes = 30
	DefaultReminderPopupMinutes = 10
)

// Config holds everything the scheduler needs at runtime.
type Config struct {
	// ClientID and ClientSecret identify the OAuth application. Taken from
	// GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET; credentials.json is the
	// fallback handled by the google package.
	ClientID     string
	ClientSecret string

	// Timezone is the IANA zone meetings are entered in, e.g. "Asia/Kolkata".
	Timezone string `toml:"timezone"`

	// CalendarID is the Google calendar events are created on.
	CalendarID string `toml:"calendar_id"`

	// TokenFile is where the cached OAuth token lives.
	TokenFile string `toml:"token_file"`

	// CredentialsFile is the OAuth client secrets file used when the env
	// vars are not set.
	CredentialsFile string `toml:"credentials_file"`

	// ReminderEmailMinutes and ReminderPopupMinutes override the calendar's
	// default reminders on created events.
	ReminderEmailMinutes int `toml:"reminder_email_minutes"`
	ReminderPopupMinutes int `toml:"reminder_popup_minutes"`

	// RecurrenceCount caps how many occurrences a recurring meeting gets.
	RecurrenceCount int `toml:"recurrence_count"`
}

// Load builds the configuration from an optional TOML file plus environment
// variables. The file path comes from MEETSCHED_CONFIG; a missing file is not
// an error, a present-but-broken one is.
func Load() (*Config, error) {
	cfg := &Config{
		Timezone:             DefaultTimezone,
		CalendarID:           DefaultCalendarID,
		TokenFile:            DefaultTokenFile,
		CredentialsFile:      DefaultCredentialsFile,
		ReminderEmailMinutes: DefaultReminderEmailMinutes,
		ReminderPopupMinutes: DefaultReminderPopupMinutes,
		RecurrenceCount:      DefaultRecurrenceCount,
	}

	if path := os.Getenv("MEETSCHED_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if tz := os.Getenv("MEETSCHED_TIMEZONE"); tz != "" {
		cfg.Timezone = tz
	}
	cfg.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
