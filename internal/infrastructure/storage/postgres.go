package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"GameNewsBot/internal/domain"
	"GameNewsBot/internal/ports"
)

// Store persists posted history and the reserve queue in Postgres. It is the
// sole arbiter of "has this article been seen": reserve inserts re-check the
// posted table because a candidate may have been published through another
// path between collection and insertion.
//
// Ids are md5 fingerprints; a colliding second article would silently no-op
// on MarkPosted. Accepted as negligible for a 128-bit digest.
type Store struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

var _ ports.NewsStore = (*Store)(nil)

// Open connects, verifies the connection and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, unavailable("ping database", err)
	}

	store := &Store{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}

	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posted_news (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			link       TEXT NOT NULL,
			source     TEXT,
			category   TEXT,
			posted_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS news_reserve (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			link        TEXT NOT NULL,
			image_url   TEXT,
			source      TEXT,
			description TEXT,
			category    TEXT,
			added_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			used        BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return unavailable("init schema", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsPosted reports whether an article with this id was ever delivered.
func (s *Store) IsPosted(ctx context.Context, id string) (bool, error) {
	query, args, err := s.sb.Select("1").
		From("posted_news").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build posted query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("check posted", err)
	}
	return true, nil
}

// MarkPosted records a delivered article. A duplicate id is a no-op so that
// a retried publish confirmation cannot crash the pipeline. Any unused
// reserve entry with the same id is retired in the same transaction: a
// posted id must never stay drawable.
func (s *Store) MarkPosted(ctx context.Context, record domain.ArticleRecord) error {
	query, args, err := s.sb.Insert("posted_news").
		Columns("id", "title", "link", "source", "category").
		Values(record.ID, record.Title, record.Link, record.Source, string(record.Category)).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build posted insert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin mark posted", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return unavailable("mark posted", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE news_reserve SET used = TRUE WHERE id = $1 AND used = FALSE`, record.ID); err != nil {
		return unavailable("retire reserve entry", err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit mark posted", err)
	}
	return nil
}

// AddToReserve inserts candidates that are in neither table and returns the
// number actually inserted.
func (s *Store) AddToReserve(ctx context.Context, records []domain.ArticleRecord) (int, error) {
	inserted := 0
	for _, record := range records {
		posted, err := s.IsPosted(ctx, record.ID)
		if err != nil {
			return inserted, err
		}
		if posted {
			continue
		}

		query, args, err := s.sb.Insert("news_reserve").
			Columns("id", "title", "link", "image_url", "source", "description", "category").
			Values(record.ID, record.Title, record.Link, nullable(record.ImageURL),
				record.Source, nullable(record.Description), string(record.Category)).
			Suffix("ON CONFLICT (id) DO NOTHING").
			ToSql()
		if err != nil {
			return inserted, fmt.Errorf("build reserve insert: %w", err)
		}

		result, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, unavailable("add to reserve", err)
		}
		if rows, err := result.RowsAffected(); err == nil {
			inserted += int(rows)
		}
	}
	return inserted, nil
}

// drawQuery marks the oldest unused entries as used and returns them in
// added order. Select-and-mark is a single statement so no two callers can
// draw the same entry; SKIP LOCKED keeps concurrent draws disjoint.
const drawQuery = `
WITH picked AS (
    SELECT id FROM news_reserve
    WHERE used = FALSE
    ORDER BY added_at
    LIMIT $1
    FOR UPDATE SKIP LOCKED
), marked AS (
    UPDATE news_reserve r SET used = TRUE
    FROM picked
    WHERE r.id = picked.id
    RETURNING r.id, r.title, r.link, r.image_url, r.source, r.description, r.category, r.added_at
)
SELECT id, title, link, image_url, source, description, category, added_at
FROM marked
ORDER BY added_at`

// DrawFromReserve atomically consumes up to n unused entries, oldest first.
func (s *Store) DrawFromReserve(ctx context.Context, n int) ([]domain.ReserveEntry, error) {
	rows, err := s.db.QueryContext(ctx, drawQuery, n)
	if err != nil {
		return nil, unavailable("draw from reserve", err)
	}
	defer rows.Close()

	var entries []domain.ReserveEntry
	for rows.Next() {
		var (
			entry                                   domain.ReserveEntry
			imageURL, source, description, category sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Link, &imageURL,
			&source, &description, &category, &entry.AddedAt); err != nil {
			return nil, unavailable("scan reserve entry", err)
		}
		entry.ImageURL = imageURL.String
		entry.Source = source.String
		entry.Description = description.String
		entry.Category = domain.NormalizeCategory(category.String)
		entry.Used = true
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate reserve entries", err)
	}

	return entries, nil
}

// ReserveCount returns the number of unused reserve entries.
func (s *Store) ReserveCount(ctx context.Context) (int, error) {
	query, args, err := s.sb.Select("COUNT(*)").
		From("news_reserve").
		Where(squirrel.Eq{"used": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build reserve count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, unavailable("count reserve", err)
	}
	return count, nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
