package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultHTTPTimeout  = 15 * time.Second
	defaultTimezone     = "America/Sao_Paulo"
	defaultExportSecret = "change-me"
)

type Config struct {
	CacheAPIURL string `toml:"cacheApiUrl"`
	APIURL      string `toml:"apiUrl"`
	AppURL      string `toml:"appUrl"`

	HTTPAddr    string        `toml:"httpAddr"`
	HTTPTimeout time.Duration `toml:"-"`
	Timezone    string        `toml:"timezone"`

	TelegramToken string `toml:"telegramToken"`

	SpreadsheetID            string `toml:"spreadsheetId"`
	GoogleServiceAccountJSON string `toml:"googleServiceAccountJson"`

	ExportSecret string `toml:"exportSecret"`

	// raw TOML value, parsed into HTTPTimeout
	HTTPTimeoutRaw string `toml:"httpTimeout"`

	loc *time.Location
}

// FromEnv builds the configuration from CONFIG_FILE (when set) overlaid
// with environment variables. The VITE_* names used by the web app are
// accepted as fallbacks.
func FromEnv() (Config, error) {
	var c Config

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return c, err
		}
		c = *fc
	}

	override(&c.CacheAPIURL, "CACHE_API_URL", "VITE_CACHE_API_URL")
	override(&c.APIURL, "API_URL", "VITE_API_URL")
	override(&c.AppURL, "APP_URL", "VITE_APP_URL")
	override(&c.HTTPAddr, "HTTP_ADDR")
	override(&c.HTTPTimeoutRaw, "HTTP_TIMEOUT")
	override(&c.Timezone, "TIMEZONE")
	override(&c.TelegramToken, "TELEGRAM_BOT_TOKEN")
	override(&c.SpreadsheetID, "GOOGLE_SHEETS_SPREADSHEET_ID")
	override(&c.GoogleServiceAccountJSON, "GOOGLE_SERVICE_ACCOUNT_JSON")
	override(&c.ExportSecret, "EXPORT_SECRET")

	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

// LoadFile decodes a TOML file. Defaults are applied later by FromEnv.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &c, nil
}

func (c *Config) validate() error {
	c.CacheAPIURL = strings.TrimRight(c.CacheAPIURL, "/")
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	c.AppURL = strings.TrimRight(c.AppURL, "/")

	if c.CacheAPIURL == "" {
		return fmt.Errorf("CACHE_API_URL is empty")
	}
	if c.APIURL == "" {
		return fmt.Errorf("API_URL is empty")
	}

	if c.HTTPAddr == "" {
		c.HTTPAddr = defaultHTTPAddr
	}

	c.HTTPTimeout = defaultHTTPTimeout
	if c.HTTPTimeoutRaw != "" {
		d, err := time.ParseDuration(c.HTTPTimeoutRaw)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid HTTP_TIMEOUT %q", c.HTTPTimeoutRaw)
		}
		c.HTTPTimeout = d
	}

	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.loc = loc

	if (c.SpreadsheetID == "") != (c.GoogleServiceAccountJSON == "") {
		return fmt.Errorf("GOOGLE_SHEETS_SPREADSHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON must be set together")
	}

	if c.ExportSecret == "" {
		c.ExportSecret = defaultExportSecret
	}
	return nil
}

// Location is the zone all calendar-date comparisons are made in.
func (c Config) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func (c Config) SheetsEnabled() bool { return c.SpreadsheetID != "" }

func (c Config) BotEnabled() bool { return c.TelegramToken != "" }

func override(dst *string, keys ...string) {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			*dst = v
			return
		}
	}
	*dst = strings.TrimSpace(*dst)
}
