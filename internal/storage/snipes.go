package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// DefaultMaxSnipes is how many snipes are kept when no limit is configured.
const DefaultMaxSnipes = 10

// SnipeStore is the recently deleted or edited message cache. Only the
// newest snipes across all channels are kept.
type SnipeStore struct {
	db    *DB
	limit int
}

func NewSnipeStore(db *DB, limit int) *SnipeStore {
	if limit <= 0 {
		limit = DefaultMaxSnipes
	}
	return &SnipeStore{db: db, limit: limit}
}

// Record stores snipe, filling in its ID and timestamp when unset, and
// drops the oldest snipes beyond the limit.
func (s *SnipeStore) Record(ctx context.Context, snipe domain.Snipe) (domain.Snipe, error) {
	if snipe.ID == "" {
		snipe.ID = uuid.NewString()
	}
	if snipe.Timestamp.IsZero() {
		snipe.Timestamp = time.Now()
	}
	snipe.Timestamp = snipe.Timestamp.UTC().Truncate(time.Millisecond)

	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Snipe{}, errors.Wrap(err, "begin snipe transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var old sql.NullString
	if snipe.OldContent != nil {
		old = sql.NullString{String: *snipe.OldContent, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO snipes (id, channel, type, author_id, author_tag, author_avatar, content, old_content, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, snipe.ID, snipe.Channel, string(snipe.Type), snipe.Author.ID, snipe.Author.Tag, snipe.Author.AvatarURL,
		snipe.Content, old, snipe.Timestamp.UnixMilli())
	if err != nil {
		return domain.Snipe{}, errors.Wrapf(err, "save snipe %s", snipe.ID)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM snipes WHERE id NOT IN (
			SELECT id FROM snipes ORDER BY timestamp DESC, rowid DESC LIMIT ?
		)
	`, s.limit)
	if err != nil {
		return domain.Snipe{}, errors.Wrap(err, "prune snipes")
	}

	if err := tx.Commit(); err != nil {
		return domain.Snipe{}, errors.Wrap(err, "commit snipe")
	}
	return snipe, nil
}

// Take removes and returns the newest snipe of a type in channel, or
// domain.ErrNotFound.
func (s *SnipeStore) Take(ctx context.Context, channel string, typ domain.SnipeType) (domain.Snipe, error) {
	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Snipe{}, errors.Wrap(err, "begin snipe transaction")
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, channel, type, author_id, author_tag, author_avatar, content, old_content, timestamp
		FROM snipes
		WHERE channel = ? AND type = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT 1
	`, channel, string(typ))

	var (
		snipe  domain.Snipe
		kind   string
		avatar sql.NullString
		old    sql.NullString
		millis int64
	)
	err = row.Scan(&snipe.ID, &snipe.Channel, &kind, &snipe.Author.ID, &snipe.Author.Tag, &avatar, &snipe.Content, &old, &millis)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snipe{}, errors.WithHint(
			errors.Wrapf(domain.ErrNotFound, "no %s snipe in %s", typ, channel),
			"No snipes found.",
		)
	}
	if err != nil {
		return domain.Snipe{}, errors.Wrap(err, "load snipe")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snipes WHERE id = ?`, snipe.ID); err != nil {
		return domain.Snipe{}, errors.Wrapf(err, "delete snipe %s", snipe.ID)
	}
	if err := tx.Commit(); err != nil {
		return domain.Snipe{}, errors.Wrap(err, "commit snipe")
	}

	snipe.Type = domain.SnipeType(kind)
	snipe.Author.AvatarURL = avatar.String
	if old.Valid {
		snipe.OldContent = &old.String
	}
	snipe.Timestamp = time.UnixMilli(millis).UTC()
	return snipe, nil
}

// Len returns the number of cached snipes.
func (s *SnipeStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snipes`).Scan(&n)
	return n, errors.Wrap(err, "count snipes")
}
