// Package config provides runtime configuration for the signage server.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file (path in SIGNAGE_CONFIG), then environment variables.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Probe kinds accepted by Display.Probe.
const (
	ProbeChrome = "chrome"
	ProbeLines  = "lines"
)

// Config holds every knob the server reads at startup.
type Config struct {
	Port    string `yaml:"port"`
	BaseURL string `yaml:"base_url"`
	Debug   bool   `yaml:"debug"`

	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Display  DisplayConfig  `yaml:"display"`
	Auth     AuthConfig     `yaml:"auth"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// DatabaseConfig locates the Postgres instance.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// CatalogConfig controls where the display gets its menu from.
type CatalogConfig struct {
	// APIURL is a remote catalog endpoint. Empty means the local database.
	APIURL          string        `yaml:"api_url"`
	FallbackPath    string        `yaml:"fallback_path"`
	SnapshotDBPath  string        `yaml:"snapshot_db_path"`
	InitialTimeout  time.Duration `yaml:"initial_timeout"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// DisplayConfig holds rotation defaults used until settings are loaded.
type DisplayConfig struct {
	Columns          int           `yaml:"columns"`
	RotationInterval time.Duration `yaml:"rotation_interval"`
	FontSettleDelay  time.Duration `yaml:"font_settle_delay"`
	ViewportWidth    int           `yaml:"viewport_width"`
	ViewportHeight   int           `yaml:"viewport_height"`
	Probe            string        `yaml:"probe"`
	ChromePath       string        `yaml:"chrome_path"`
	// SlotLines is the line budget of a slot for the line probe.
	SlotLines int `yaml:"slot_lines"`

	// KioskToken identifies the kiosk browser, the only page allowed to
	// report its viewport. Empty keeps the configured viewport fixed.
	KioskToken string `yaml:"kiosk_token"`
}

// AuthConfig configures admin authentication.
type AuthConfig struct {
	APIKey        string `yaml:"api_key"`
	Auth0Domain   string `yaml:"auth0_domain"`
	Auth0Client   string `yaml:"auth0_client_id"`
	Auth0Audience string `yaml:"auth0_audience"`
}

// AssetsConfig configures logos, caches and the Drive asset folder.
type AssetsConfig struct {
	LogoPath        string `yaml:"logo_path"`
	LogoDir         string `yaml:"logo_dir"`
	CacheDir        string `yaml:"cache_dir"`
	CredentialsPath string `yaml:"credentials_path"`
	DriveFolderID   string `yaml:"drive_folder_id"`
}

// DevelopmentMode reports whether admin endpoints run without credentials.
func (a AuthConfig) DevelopmentMode() bool {
	return a.APIKey == "" && a.Auth0Domain == ""
}

// Audience returns the configured Auth0 audience or the default one.
func (a AuthConfig) Audience() string {
	if a.Auth0Audience == "" {
		return "team-pinas-admin"
	}
	return a.Auth0Audience
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:    "8080",
		BaseURL: "http://localhost:8080",
		Database: DatabaseConfig{
			Port:    "5432",
			SSLMode: "disable",
		},
		Catalog: CatalogConfig{
			FallbackPath:    "assets/products.json",
			SnapshotDBPath:  "cache/catalog.db",
			InitialTimeout:  3 * time.Second,
			RetryDelay:      500 * time.Millisecond,
			RefreshInterval: 5 * time.Minute,
		},
		Display: DisplayConfig{
			Columns:          2,
			RotationInterval: 6 * time.Second,
			FontSettleDelay:  2 * time.Second,
			ViewportWidth:    1920,
			ViewportHeight:   1080,
			Probe:            ProbeChrome,
			SlotLines:        14,
		},
		Assets: AssetsConfig{
			LogoPath: "static/logo/logo.png",
			LogoDir:  "static/logo",
			CacheDir: "cache/images",
		},
	}
}

// Load resolves defaults, the optional YAML file and the environment.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("SIGNAGE_CONFIG"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()
		if err := decode(f, cfg); err != nil {
			return nil, err
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes YAML over the defaults and applies env overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Display.Probe != ProbeChrome && c.Display.Probe != ProbeLines {
		return fmt.Errorf("invalid probe %q: expected %q or %q", c.Display.Probe, ProbeChrome, ProbeLines)
	}
	if c.Display.RotationInterval <= 0 {
		return fmt.Errorf("rotation interval must be positive")
	}
	if c.Catalog.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	return nil
}

// DSN returns the Postgres connection string, preferring DATABASE_URL.
func (d DatabaseConfig) DSN() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode), nil
}

// Addr is the listen address. PORT may carry a leading colon.
func (c *Config) Addr() string {
	return "0.0.0.0:" + strings.TrimPrefix(c.Port, ":")
}

func applyEnvOverrides(c *Config) {
	setString(&c.Port, "PORT")
	setString(&c.BaseURL, "BASE_URL")
	setBool(&c.Debug, "DEBUG")

	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")

	setString(&c.Catalog.APIURL, "CATALOG_API_URL")
	setString(&c.Catalog.FallbackPath, "FALLBACK_CATALOG_PATH")
	setString(&c.Catalog.SnapshotDBPath, "SNAPSHOT_DB_PATH")
	setMillis(&c.Catalog.RefreshInterval, "REFRESH_INTERVAL_MS")

	setInt(&c.Display.Columns, "DISPLAY_COLUMNS")
	setMillis(&c.Display.RotationInterval, "ROTATION_INTERVAL_MS")
	setInt(&c.Display.ViewportWidth, "VIEWPORT_WIDTH")
	setInt(&c.Display.ViewportHeight, "VIEWPORT_HEIGHT")
	setString(&c.Display.KioskToken, "KIOSK_TOKEN")
	setString(&c.Display.Probe, "PROBE")
	setString(&c.Display.ChromePath, "CHROME_PATH")

	setString(&c.Auth.APIKey, "ADMIN_API_KEY")
	setString(&c.Auth.Auth0Domain, "AUTH0_DOMAIN")
	setString(&c.Auth.Auth0Client, "AUTH0_CLIENT_ID")
	setString(&c.Auth.Auth0Audience, "AUTH0_AUDIENCE")

	setString(&c.Assets.LogoPath, "LOGO_PATH")
	setString(&c.Assets.CacheDir, "CACHE_DIR")
	setString(&c.Assets.CredentialsPath, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.Assets.DriveFolderID, "DRIVE_ASSETS_FOLDER_ID")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setMillis(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			*dst = time.Duration(ms) * time.Millisecond
		}
	}
}
