package config

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
)

// NewLogger builds the process logger described by s. Attributes added to
// a context with slogctx.Append are written with every record logged
// through that context.
func NewLogger(s LogSettings, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(s.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch s.Format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case LogFormatPretty:
		handler = tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.New(slogctx.NewHandler(handler, nil)), nil
}

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: transport", "value", s.Transport)
	if s.Transport == TransportSSE {
		logger.InfoContext(ctx, "Config: host", "value", s.Host)
		logger.InfoContext(ctx, "Config: port", "value", s.Port)
	}

	logger.InfoContext(ctx, "Config: docs.data_dir", "value", s.Docs.DataDir)
	logger.InfoContext(ctx, "Config: docs.source_url", "value", s.Docs.SourceURL)
	logger.InfoContext(ctx, "Config: docs.site_url", "value", s.Docs.SiteURL)
	logger.InfoContext(ctx, "Config: docs.registry_url", "value", s.Docs.RegistryURL)
	logger.InfoContext(ctx, "Config: docs.package", "value", s.Docs.Package)
	logger.InfoContext(ctx, "Config: docs.min_version", "value", s.Docs.MinVersion)
	logger.InfoContext(ctx, "Config: docs.fetch_timeout", "value", s.Docs.FetchTimeout)
	logger.InfoContext(ctx, "Config: docs.fetch_rate", "value", s.Docs.FetchRate)
	logger.InfoContext(ctx, "Config: docs.lock_timeout", "value", s.Docs.LockTimeout)
	logger.InfoContext(ctx, "Config: docs.refresh_interval", "value", s.Docs.RefreshInterval)

	logger.InfoContext(ctx, "Config: storage.path", "value", s.Storage.Path)
	logger.InfoContext(ctx, "Config: storage.max_snipes", "value", s.Storage.MaxSnipes)

	logger.InfoContext(ctx, "Config: log.level", "value", s.Log.Level)
	logger.InfoContext(ctx, "Config: log.format", "value", s.Log.Format)
}

// SettingsLogValue returns a slog.Value for Settings
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("transport", s.Transport),
		slog.String("host", s.Host),
		slog.Int("port", s.Port),
		slog.Group("docs",
			slog.String("data_dir", s.Docs.DataDir),
			slog.String("package", s.Docs.Package),
			slog.String("min_version", s.Docs.MinVersion),
		),
		slog.Group("storage",
			slog.String("path", s.Storage.Path),
			slog.Int("max_snipes", s.Storage.MaxSnipes),
		),
	)
}
