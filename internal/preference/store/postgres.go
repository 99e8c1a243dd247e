package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "tonetags/pkg/domain"
	"tonetags/pkg/platform/sentinel"
)

const (
	findStandardsQuery   = `SELECT stds FROM stds WHERE uid = $1`
	upsertStandardsQuery = `INSERT INTO stds (uid, stds) VALUES ($1, $2)
ON CONFLICT (uid) DO UPDATE SET stds = excluded.stds`
	deleteStandardsQuery = `DELETE FROM stds WHERE uid = $1`
)

// PostgresStore persists preference lists in the stds table. User ids are
// stored as BIGINT by reinterpreting their bits as signed.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed preference store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID) ([]string, error) {
	var standards []string
	err := s.db.QueryRowContext(ctx, findStandardsQuery, userID.Int64()).Scan(pq.Array(&standards))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find standards: %w", err)
	}
	if standards == nil {
		standards = []string{}
	}
	return standards, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, userID id.UserID, standards []string) error {
	if standards == nil {
		standards = []string{}
	}
	if _, err := s.db.ExecContext(ctx, upsertStandardsQuery, userID.Int64(), pq.Array(standards)); err != nil {
		return fmt.Errorf("upsert standards: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID) error {
	if _, err := s.db.ExecContext(ctx, deleteStandardsQuery, userID.Int64()); err != nil {
		return fmt.Errorf("delete standards: %w", err)
	}
	return nil
}
