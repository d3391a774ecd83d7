package docs

import (
	"context"
	"fmt"
	"time"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	slogctx "github.com/veqryn/slog-context"
)

// ReportStore persists generation reports.
type ReportStore interface {
	SaveReport(ctx context.Context, report domain.Report) error
	LatestReport(ctx context.Context, version string) (domain.Report, error)
}

// Generator runs the fetch, ingest and persist pipeline for one version.
type Generator struct {
	fetcher  Fetcher
	store    VersionStore
	reports  ReportStore
	logs     *GenerationLogs
	lock     *GenerationLock
	ingester *Ingester
}

// NewGenerator wires a generator. reports and lock may be nil.
func NewGenerator(fetcher Fetcher, store VersionStore, reports ReportStore, logs *GenerationLogs, lock *GenerationLock) *Generator {
	return &Generator{
		fetcher:  fetcher,
		store:    store,
		reports:  reports,
		logs:     logs,
		lock:     lock,
		ingester: NewIngester(logs),
	}
}

// Stage reports how far the latest ingestion got.
func (g *Generator) Stage() Stage {
	return g.ingester.Stage()
}

// Generate builds and stores the docs of version. When another process
// finished the same version while this one waited for the lock, nothing is
// regenerated and the returned report is not persisted.
func (g *Generator) Generate(ctx context.Context, version string) (domain.Report, error) {
	runID := uuid.NewString()
	ctx = slogctx.Append(ctx, "version", version, "run_id", runID)

	if g.lock != nil {
		release, err := g.lock.Acquire(ctx)
		if err != nil {
			return domain.Report{}, errors.Wrapf(err, "acquire generation lock for %s", version)
		}
		defer func() {
			if err := release(); err != nil {
				slogctx.Warn(ctx, "Failed to release generation lock", "error", err)
			}
		}()
	}

	if g.store.Exists(version) {
		slogctx.Info(ctx, "Docs already generated, skipping")
		return domain.Report{
			ID:        runID,
			Version:   version,
			Success:   true,
			Message:   fmt.Sprintf("Docs for %s were already generated.", version),
			Logs:      []string{},
			CreatedAt: time.Now().UTC(),
		}, nil
	}

	start := time.Now()
	report, err := g.run(ctx, version)
	report.ID = runID
	report.Version = version
	report.Duration = time.Since(start)
	report.CreatedAt = time.Now().UTC()
	report.Logs = g.logs.Take(version)
	if report.Logs == nil {
		report.Logs = []string{}
	}
	if err != nil {
		report.Message = fmt.Sprintf("Generation for %s failed.", version)
	} else {
		report.Success = true
		report.Message = domain.GenerationSummary(version, len(report.Logs))
	}

	slogctx.Info(ctx, report.Message,
		"logs", len(report.Logs),
		"size", humanize.Bytes(uint64(report.Bytes)),
		"took", report.Duration.Round(time.Millisecond))

	if g.reports != nil {
		if saveErr := g.reports.SaveReport(ctx, report); saveErr != nil {
			slogctx.Error(ctx, "Failed to save generation report", "error", saveErr)
		}
	}
	return report, err
}

func (g *Generator) run(ctx context.Context, version string) (domain.Report, error) {
	var report domain.Report

	project, info, err := g.fetcher.Fetch(ctx, version)
	report.Source = info.Source
	report.Bytes = info.Bytes
	if err != nil {
		g.logs.Add(version, fmt.Sprintf("Failed to fetch docs: %v", err))
		return report, errors.Wrapf(err, "fetch docs for %s", version)
	}

	root, err := g.ingester.Ingest(ctx, project, version)
	if err != nil {
		return report, errors.Wrapf(err, "ingest docs for %s", version)
	}

	if err := g.store.Save(version, root); err != nil {
		g.logs.Add(version, fmt.Sprintf("Failed to save docs: %v", err))
		return report, errors.Wrapf(err, "save docs for %s", version)
	}
	g.ingester.MarkPersisted()

	counts := root.Counts()
	slogctx.Debug(ctx, "Docs persisted",
		"classes", counts.Classes,
		"interfaces", counts.Interfaces,
		"events", counts.Events)
	return report, nil
}
