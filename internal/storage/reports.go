package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/cockroachdb/errors"
)

// SaveReport stores a generation report. Saving a report ID twice
// replaces the earlier row.
func (s *DB) SaveReport(ctx context.Context, report domain.Report) error {
	logs := report.Logs
	if logs == nil {
		logs = []string{}
	}
	encoded, err := json.Marshal(logs)
	if err != nil {
		return errors.Wrap(err, "encode report logs")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, version, success, message, logs, source, bytes, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version=excluded.version,
			success=excluded.success,
			message=excluded.message,
			logs=excluded.logs,
			source=excluded.source,
			bytes=excluded.bytes,
			duration_ns=excluded.duration_ns,
			created_at=excluded.created_at
	`, report.ID, report.Version, report.Success, report.Message, string(encoded), report.Source,
		report.Bytes, int64(report.Duration), report.CreatedAt.UnixNano())
	return errors.Wrapf(err, "save report %s", report.ID)
}

// LatestReport returns the newest report of version, or domain.ErrNotFound.
func (s *DB) LatestReport(ctx context.Context, version string) (domain.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, version, success, message, logs, source, bytes, duration_ns, created_at
		FROM reports
		WHERE version = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, version)

	var (
		report   domain.Report
		logs     string
		source   sql.NullString
		duration int64
		created  int64
	)
	err := row.Scan(&report.ID, &report.Version, &report.Success, &report.Message, &logs, &source, &report.Bytes, &duration, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Report{}, errors.Wrapf(domain.ErrNotFound, "no report for %s", version)
	}
	if err != nil {
		return domain.Report{}, errors.Wrapf(err, "load report for %s", version)
	}

	if err := json.Unmarshal([]byte(logs), &report.Logs); err != nil {
		return domain.Report{}, errors.Wrapf(err, "decode logs of report %s", report.ID)
	}
	report.Source = source.String
	report.Duration = time.Duration(duration)
	report.CreatedAt = time.Unix(0, created).UTC()
	return report, nil
}
