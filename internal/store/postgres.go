package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shorturl-preview/internal/preview"
	"github.com/serroba/shorturl-preview/internal/shortener"
)

const schema = `
CREATE TABLE IF NOT EXISTS short_urls (
	id            BIGSERIAL PRIMARY KEY,
	original_url  TEXT        NOT NULL UNIQUE,
	content_hash  CHAR(32)    NOT NULL,
	random_offset SMALLINT    NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS short_urls_content_hash_idx ON short_urls (content_hash);

CREATE TABLE IF NOT EXISTS url_previews (
	url_id         BIGINT      PRIMARY KEY REFERENCES short_urls (id) ON DELETE CASCADE,
	title          TEXT        NOT NULL DEFAULT '',
	description    TEXT        NOT NULL DEFAULT '',
	canonical_url  TEXT        NOT NULL DEFAULT '',
	image_url      TEXT        NOT NULL DEFAULT '',
	last_refreshed TIMESTAMPTZ NOT NULL
);
`

// PostgresStore is a PostgreSQL implementation of shortener.Repository and
// preview.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables if they do not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schema)

	return err
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Create(ctx context.Context, rec *shortener.Record) error {
	query := `
		INSERT INTO short_urls (original_url, content_hash, random_offset)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := p.pool.QueryRow(ctx, query, rec.OriginalURL, string(rec.ContentHash), rec.RandomOffset).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return shortener.ErrConflict
		}

		return err
	}

	return nil
}

func (p *PostgresStore) FindByHash(ctx context.Context, hash shortener.ContentHash) ([]*shortener.Record, error) {
	query := `
		SELECT id, original_url, content_hash, random_offset, created_at
		FROM short_urls
		WHERE content_hash = $1
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query, string(hash))
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*shortener.Record, error) {
		return scanRecord(row)
	})
}

func (p *PostgresStore) GetByID(ctx context.Context, id int64) (*shortener.Record, error) {
	query := `
		SELECT id, original_url, content_hash, random_offset, created_at
		FROM short_urls
		WHERE id = $1
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresStore) GetByURL(ctx context.Context, originalURL string) (*shortener.Record, error) {
	query := `
		SELECT id, original_url, content_hash, random_offset, created_at
		FROM short_urls
		WHERE original_url = $1
	`

	return p.getOne(ctx, query, originalURL)
}

func (p *PostgresStore) getOne(ctx context.Context, query string, arg any) (*shortener.Record, error) {
	rec, err := scanRecord(p.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return rec, nil
}

func scanRecord(row pgx.Row) (*shortener.Record, error) {
	var (
		rec  shortener.Record
		hash string
	)

	if err := row.Scan(&rec.ID, &rec.OriginalURL, &hash, &rec.RandomOffset, &rec.CreatedAt); err != nil {
		return nil, err
	}

	rec.ContentHash = shortener.ContentHash(hash)

	return &rec, nil
}

func (p *PostgresStore) GetPreview(ctx context.Context, recordID int64) (*preview.Data, error) {
	query := `
		SELECT title, description, canonical_url, image_url, last_refreshed
		FROM url_previews
		WHERE url_id = $1
	`

	var data preview.Data

	err := p.pool.QueryRow(ctx, query, recordID).Scan(
		&data.Title,
		&data.Description,
		&data.CanonicalURL,
		&data.ImageURL,
		&data.LastRefreshed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, preview.ErrNotFound
		}

		return nil, err
	}

	return &data, nil
}

func (p *PostgresStore) SavePreview(ctx context.Context, recordID int64, data *preview.Data) error {
	query := `
		INSERT INTO url_previews (url_id, title, description, canonical_url, image_url, last_refreshed)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			canonical_url = EXCLUDED.canonical_url,
			image_url = EXCLUDED.image_url,
			last_refreshed = EXCLUDED.last_refreshed
	`

	_, err := p.pool.Exec(ctx, query,
		recordID,
		data.Title,
		data.Description,
		data.CanonicalURL,
		data.ImageURL,
		data.LastRefreshed,
	)

	return err
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

var (
	_ shortener.Repository = (*PostgresStore)(nil)
	_ preview.Repository   = (*PostgresStore)(nil)
)
