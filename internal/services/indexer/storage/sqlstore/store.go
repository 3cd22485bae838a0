// Package sqlstore implements storage.Store over database/sql. The sqlite and
// postgres packages open the database, run their migrations and wrap it.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/platform/storage/sqlmigrate"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
)

// Store is a document store over the entities and checkpoints tables.
type Store struct {
	sqlDB   *sql.DB
	dialect sqlmigrate.Dialect
	now     func() time.Time
}

// New wraps an open database. The schema must already be migrated.
func New(sqlDB *sql.DB, dialect sqlmigrate.Dialect) *Store {
	return &Store{sqlDB: sqlDB, dialect: dialect, now: time.Now}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) p(n int) string {
	return s.dialect.Placeholder(n)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// Get returns the entity body or storage.ErrNotFound.
func (s *Store) Get(ctx context.Context, kind storage.Kind, id string) ([]byte, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return getEntity(ctx, s.sqlDB, s.dialect, kind, id)
}

// List returns entities of kind with id greater than afterID.
func (s *Store) List(ctx context.Context, kind storage.Kind, afterID string, limit int) (storage.Page, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page{}, err
	}
	limit = storage.ClampPageSize(limit)

	query := fmt.Sprintf(
		"SELECT id, body FROM entities WHERE kind = %s AND id > %s ORDER BY id LIMIT %s",
		s.p(1), s.p(2), s.p(3),
	)
	rows, err := s.sqlDB.QueryContext(ctx, query, string(kind), afterID, limit+1)
	if err != nil {
		return storage.Page{}, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	page := storage.Page{}
	for rows.Next() {
		var doc storage.Document
		var body string
		if err := rows.Scan(&doc.ID, &body); err != nil {
			return storage.Page{}, fmt.Errorf("scan %s: %w", kind, err)
		}
		doc.Body = []byte(body)
		page.Documents = append(page.Documents, doc)
	}
	if err := rows.Err(); err != nil {
		return storage.Page{}, fmt.Errorf("list %s rows: %w", kind, err)
	}
	if len(page.Documents) > limit {
		page.Documents = page.Documents[:limit]
		page.NextAfterID = page.Documents[limit-1].ID
	}
	return page, nil
}

// Checkpoint returns the named checkpoint or storage.ErrNotFound.
func (s *Store) Checkpoint(ctx context.Context, name string) (storage.Checkpoint, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Checkpoint{}, err
	}
	query := fmt.Sprintf(
		"SELECT block_number, tx_index, log_index, tx_hash, run_id, updated_at FROM checkpoints WHERE name = %s",
		s.p(1),
	)
	var (
		block, txIndex, logIndex, updatedAt int64
		checkpoint                          = storage.Checkpoint{Name: name}
	)
	err := s.sqlDB.QueryRowContext(ctx, query, name).Scan(&block, &txIndex, &logIndex, &checkpoint.TxHash, &checkpoint.RunID, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Checkpoint{}, storage.ErrNotFound
		}
		return storage.Checkpoint{}, fmt.Errorf("get checkpoint %s: %w", name, err)
	}
	checkpoint.Position = domain.Position{Block: uint64(block), TxIndex: uint32(txIndex), LogIndex: uint32(logIndex)}
	checkpoint.UpdatedAt = fromMillis(updatedAt)
	return checkpoint, nil
}

// Atomic runs fn inside one database transaction.
func (s *Store) Atomic(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("atomic function is required")
	}
	sqlTx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "begin transaction", err)
	}
	if err := fn(&tx{store: s, sqlTx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "commit transaction", err)
	}
	return nil
}

type tx struct {
	store *Store
	sqlTx *sql.Tx
}

func (t *tx) Get(ctx context.Context, kind storage.Kind, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return getEntity(ctx, t.sqlTx, t.store.dialect, kind, id)
}

func (t *tx) Put(ctx context.Context, kind storage.Kind, id string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%s id is required", kind)
	}
	query := fmt.Sprintf(`INSERT INTO entities (kind, id, body, updated_at) VALUES (%s, %s, %s, %s)
ON CONFLICT (kind, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		t.store.p(1), t.store.p(2), t.store.p(3), t.store.p(4),
	)
	if _, err := t.sqlTx.ExecContext(ctx, query, string(kind), id, string(body), toMillis(t.store.now())); err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, fmt.Sprintf("upsert %s %s", kind, id), err)
	}
	return nil
}

func (t *tx) Delete(ctx context.Context, kind storage.Kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM entities WHERE kind = %s AND id = %s", t.store.p(1), t.store.p(2))
	if _, err := t.sqlTx.ExecContext(ctx, query, string(kind), id); err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, fmt.Sprintf("delete %s %s", kind, id), err)
	}
	return nil
}

func (t *tx) SaveCheckpoint(ctx context.Context, checkpoint storage.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if checkpoint.Name == "" {
		return fmt.Errorf("checkpoint name is required")
	}
	if checkpoint.UpdatedAt.IsZero() {
		checkpoint.UpdatedAt = t.store.now()
	}
	query := fmt.Sprintf(`INSERT INTO checkpoints (name, block_number, tx_index, log_index, tx_hash, run_id, updated_at)
VALUES (%s, %s, %s, %s, %s, %s, %s)
ON CONFLICT (name) DO UPDATE SET
    block_number = excluded.block_number,
    tx_index = excluded.tx_index,
    log_index = excluded.log_index,
    tx_hash = excluded.tx_hash,
    run_id = excluded.run_id,
    updated_at = excluded.updated_at`,
		t.store.p(1), t.store.p(2), t.store.p(3), t.store.p(4), t.store.p(5), t.store.p(6), t.store.p(7),
	)
	_, err := t.sqlTx.ExecContext(ctx, query,
		checkpoint.Name,
		int64(checkpoint.Position.Block),
		int64(checkpoint.Position.TxIndex),
		int64(checkpoint.Position.LogIndex),
		checkpoint.TxHash,
		checkpoint.RunID,
		toMillis(checkpoint.UpdatedAt),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "save checkpoint", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getEntity(ctx context.Context, q queryRower, dialect sqlmigrate.Dialect, kind storage.Kind, id string) ([]byte, error) {
	query := fmt.Sprintf("SELECT body FROM entities WHERE kind = %s AND id = %s", dialect.Placeholder(1), dialect.Placeholder(2))
	var body string
	if err := q.QueryRowContext(ctx, query, string(kind), id).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, apperrors.Wrap(apperrors.CodeStoreUnavailable, fmt.Sprintf("get %s %s", kind, id), err)
	}
	return []byte(body), nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
