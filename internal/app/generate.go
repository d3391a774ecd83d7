package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/OceanicJS/Bot/internal/config"
	"github.com/OceanicJS/Bot/internal/docs"
	"github.com/OceanicJS/Bot/internal/storage"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
)

// LoadCommandSettings loads and validates settings for a one-shot command
// and installs the configured logger.
func LoadCommandSettings(flags *pflag.FlagSet) (*config.Settings, error) {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load settings")
	}
	if err := validateDocsCommand(settings); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	logger, err := config.NewLogger(settings.Log, os.Stderr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure logging")
	}
	slog.SetDefault(logger)
	return settings, nil
}

// validateDocsCommand checks settings with the transport forced to stdio,
// which one-shot commands never serve.
func validateDocsCommand(settings *config.Settings) error {
	check := *settings
	check.Transport = config.TransportStdio
	return config.ValidateSettings(&check)
}

// GenerateParams configure an offline generation run.
type GenerateParams struct {
	Versions []string
	// Input reads exports from a local file instead of the docs site. It may
	// contain docs.VersionPlaceholder.
	Input string
	Out   io.Writer
}

// Generate builds the docs of every requested version in order, outside of
// the server's generation queue. The shared generation lock keeps it from
// racing a running server. Every version is attempted; failures are
// combined into the returned error.
func Generate(ctx context.Context, settings *config.Settings, params GenerateParams) error {
	if len(params.Versions) == 0 {
		return errors.New("at least one version is required")
	}

	db, err := storage.Open(ctx, settings.Storage.Path)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer func() { _ = db.Close() }()

	store, err := docs.NewFileStore(settings.Docs.DataDir)
	if err != nil {
		return err
	}

	var fetcher docs.Fetcher = docs.NewHTTPFetcher(settings.Docs.SourceURL, settings.Docs.FetchTimeout, settings.Docs.FetchRate)
	if params.Input != "" {
		fetcher = docs.FileFetcher{Path: params.Input}
	}

	generator := docs.NewGenerator(
		fetcher,
		store,
		db,
		docs.NewGenerationLogs(),
		docs.NewGenerationLock(settings.Docs.DataDir, settings.Docs.LockTimeout),
	)

	var errs error
	for _, version := range params.Versions {
		report, err := generator.Generate(ctx, version)
		if report.Message != "" {
			_, _ = fmt.Fprintf(params.Out, "%s (%s, %s)\n", report.Message, humanize.Bytes(uint64(report.Bytes)), report.Duration.Round(time.Millisecond))
		}
		for _, line := range report.Logs {
			_, _ = fmt.Fprintf(params.Out, "  - %s\n", line)
		}
		errs = errors.CombineErrors(errs, err)
	}
	return errs
}

// ListVersions prints the supported versions reported by the registry and
// marks the default one and those already generated.
func ListVersions(ctx context.Context, settings *config.Settings, out io.Writer) error {
	catalog, err := docs.NewCatalog(settings.Docs.RegistryURL, settings.Docs.Package, settings.Docs.MinVersion, settings.Docs.FetchTimeout)
	if err != nil {
		return err
	}
	if err := catalog.Refresh(ctx); err != nil {
		return errors.Wrap(err, "failed to load versions")
	}

	store, err := docs.NewFileStore(settings.Docs.DataDir)
	if err != nil {
		return err
	}
	generated := map[string]bool{}
	for _, v := range store.Manifest().Generated() {
		generated[v] = true
	}

	def := catalog.Default()
	for _, v := range catalog.Versions() {
		var marks []string
		if v == def {
			marks = append(marks, "default")
		}
		if generated[v] {
			marks = append(marks, "generated")
		}
		if len(marks) > 0 {
			_, _ = fmt.Fprintf(out, "%s (%s)\n", v, strings.Join(marks, ", "))
		} else {
			_, _ = fmt.Fprintln(out, v)
		}
	}
	return nil
}
