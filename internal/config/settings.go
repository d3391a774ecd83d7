package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Transport constants
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Log format constants
const (
	LogFormatText   = "text"
	LogFormatJSON   = "json"
	LogFormatPretty = "pretty"
)

// EnvPrefix prefixes every environment variable read by LoadSettings.
const EnvPrefix = "OCEANIC_DOCS"

// DocsSettings configures where docs exports come from and how they are kept
type DocsSettings struct {
	DataDir         string        `mapstructure:"data_dir"`
	SourceURL       string        `mapstructure:"source_url"`
	SiteURL         string        `mapstructure:"site_url"`
	RegistryURL     string        `mapstructure:"registry_url"`
	Package         string        `mapstructure:"package"`
	MinVersion      string        `mapstructure:"min_version"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	FetchRate       float64       `mapstructure:"fetch_rate"`
	LockTimeout     time.Duration `mapstructure:"lock_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// StorageSettings configures the SQLite database
type StorageSettings struct {
	Path      string `mapstructure:"path"`
	MaxSnipes int    `mapstructure:"max_snipes"`
}

// LogSettings configures the process logger
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Settings application settings
type Settings struct {
	Transport string          `mapstructure:"transport"`
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	Docs      DocsSettings    `mapstructure:"docs"`
	Storage   StorageSettings `mapstructure:"storage"`
	Log       LogSettings     `mapstructure:"log"`
}

// keys maps every setting to its CLI flag name.
var keys = map[string]string{
	"transport":             "transport",
	"host":                  "host",
	"port":                  "port",
	"docs.data_dir":         "data-dir",
	"docs.source_url":       "source-url",
	"docs.site_url":         "site-url",
	"docs.registry_url":     "registry-url",
	"docs.package":          "package",
	"docs.min_version":      "min-version",
	"docs.fetch_timeout":    "fetch-timeout",
	"docs.fetch_rate":       "fetch-rate",
	"docs.lock_timeout":     "lock-timeout",
	"docs.refresh_interval": "refresh-interval",
	"storage.path":          "storage-path",
	"storage.max_snipes":    "max-snipes",
	"log.level":             "log-level",
	"log.format":            "log-format",
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("transport", TransportStdio)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)

	v.SetDefault("docs.data_dir", defaultDataDir())
	v.SetDefault("docs.source_url", "https://docs.oceanic.ws/v{version}/docs.json")
	v.SetDefault("docs.site_url", "https://docs.oceanic.ws")
	v.SetDefault("docs.registry_url", "https://registry.npmjs.org")
	v.SetDefault("docs.package", "oceanic.js")
	v.SetDefault("docs.min_version", "1.3.0")
	v.SetDefault("docs.fetch_timeout", 60*time.Second)
	v.SetDefault("docs.fetch_rate", 1.0)
	v.SetDefault("docs.lock_timeout", 5*time.Minute)
	v.SetDefault("docs.refresh_interval", 10*time.Minute)

	v.SetDefault("storage.path", "")
	v.SetDefault("storage.max_snipes", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogFormatText)

	// Environment variables, e.g. OCEANIC_DOCS_DOCS_DATA_DIR
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range keys {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		for key, flag := range keys {
			if f := flags.Lookup(flag); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}

	settings.Docs.DataDir = expandHomeDir(settings.Docs.DataDir)
	settings.Storage.Path = expandHomeDir(settings.Storage.Path)
	if settings.Storage.Path == "" {
		settings.Storage.Path = filepath.Join(settings.Docs.DataDir, "bot.db")
	}
	settings.Log.Level = strings.ToLower(strings.TrimSpace(settings.Log.Level))
	settings.Log.Format = strings.ToLower(strings.TrimSpace(settings.Log.Format))

	return &settings, nil
}

// defaultDataDir returns the default data directory
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oceanic-docs"
	}
	return filepath.Join(home, ".oceanic-docs")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// ValidateSettings checks for invalid or incomplete configuration.
func ValidateSettings(s *Settings) error {
	switch s.Transport {
	case TransportStdio, TransportSSE:
		// valid
	default:
		return errors.Newf("transport must be 'stdio' or 'sse', got: %s", s.Transport)
	}

	if err := validateDocsSettings(&s.Docs); err != nil {
		return err
	}

	if s.Storage.Path == "" {
		return errors.New("storage-path cannot be empty")
	}
	if s.Storage.MaxSnipes <= 0 {
		return errors.New("max-snipes must be positive")
	}

	if _, err := ParseLevel(s.Log.Level); err != nil {
		return err
	}
	switch s.Log.Format {
	case LogFormatText, LogFormatJSON, LogFormatPretty:
		// valid
	default:
		return errors.Newf("log-format must be 'text', 'json' or 'pretty', got: %s", s.Log.Format)
	}

	return nil
}

// validateDocsSettings validates the docs configuration
func validateDocsSettings(d *DocsSettings) error {
	if d.DataDir == "" {
		return errors.New("data-dir cannot be empty")
	}
	if !strings.Contains(d.SourceURL, "{version}") {
		return errors.Newf("source-url must contain {version}, got: %s", d.SourceURL)
	}
	if d.SiteURL == "" {
		return errors.New("site-url cannot be empty")
	}
	if d.RegistryURL == "" {
		return errors.New("registry-url cannot be empty")
	}
	if d.Package == "" {
		return errors.New("package cannot be empty")
	}
	if _, err := semver.NewVersion(d.MinVersion); err != nil {
		return errors.Wrapf(err, "min-version %q is not a version", d.MinVersion)
	}
	if d.FetchTimeout <= 0 {
		return errors.New("fetch-timeout must be positive")
	}
	if d.FetchRate < 0 {
		return errors.New("fetch-rate cannot be negative")
	}
	if d.LockTimeout <= 0 {
		return errors.New("lock-timeout must be positive")
	}
	if d.RefreshInterval <= 0 {
		return errors.New("refresh-interval must be positive")
	}
	return nil
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Newf("log-level must be 'debug', 'info', 'warn' or 'error', got: %s", s)
	}
	return level, nil
}
