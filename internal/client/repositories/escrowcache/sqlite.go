package escrowcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/escrowdeck/internal/client/metrics"
	"github.com/dmitrijs2005/escrowdeck/internal/client/migrations"
	"github.com/dmitrijs2005/escrowdeck/internal/client/models"
	"github.com/dmitrijs2005/escrowdeck/internal/dbx"
)

// SqliteRepository persists cache entries in a local sqlite database.
type SqliteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

var _ Repository = (*SqliteRepository)(nil)

// NewSqliteRepository wraps an already-migrated database handle.
func NewSqliteRepository(db dbx.DBTX) *SqliteRepository {
	return &SqliteRepository{db: db, now: time.Now}
}

// Open opens the sqlite database at dsn and applies pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply cache migrations: %w", err)
	}
	return db, nil
}

func (r *SqliteRepository) GetPage(ctx context.Context, key string, maxAge time.Duration) (*models.EscrowPage, bool, error) {
	var payload []byte
	var fetchedAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM escrow_pages WHERE cache_key = ?`, key).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached page: %w", err)
	}

	if r.expired(fetchedAt, maxAge) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}

	var page models.EscrowPage
	if err := json.Unmarshal(payload, &page); err != nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &page, true, nil
}

func (r *SqliteRepository) PutPage(ctx context.Context, key string, page *models.EscrowPage) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal page: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO escrow_pages (cache_key, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, payload, r.now().Unix())
	if err != nil {
		return fmt.Errorf("store cached page: %w", err)
	}
	return nil
}

func (r *SqliteRepository) InvalidatePages(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM escrow_pages`); err != nil {
		return fmt.Errorf("invalidate pages: %w", err)
	}
	return nil
}

func (r *SqliteRepository) GetProof(ctx context.Context, escrowID int64, maxAge time.Duration) (*models.Proof, bool, error) {
	var payload []byte
	var fetchedAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM proofs WHERE escrow_id = ?`, escrowID).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached proof: %w", err)
	}

	if r.expired(fetchedAt, maxAge) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}

	var proof models.Proof
	if err := json.Unmarshal(payload, &proof); err != nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &proof, true, nil
}

func (r *SqliteRepository) PutProof(ctx context.Context, escrowID int64, proof *models.Proof) error {
	payload, err := json.Marshal(proof)
	if err != nil {
		return fmt.Errorf("marshal proof: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO proofs (escrow_id, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(escrow_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		escrowID, payload, r.now().Unix())
	if err != nil {
		return fmt.Errorf("store cached proof: %w", err)
	}
	return nil
}

func (r *SqliteRepository) InvalidateProofs(ctx context.Context, escrowID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM proofs WHERE escrow_id = ?`, escrowID); err != nil {
		return fmt.Errorf("invalidate proof: %w", err)
	}
	return nil
}

func (r *SqliteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM escrow_pages`); err != nil {
		return fmt.Errorf("clear pages: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM proofs`); err != nil {
		return fmt.Errorf("clear proofs: %w", err)
	}
	return nil
}

func (r *SqliteRepository) expired(fetchedAt int64, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return r.now().Sub(time.Unix(fetchedAt, 0)) > maxAge
}
