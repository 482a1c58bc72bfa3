// Package repository provides data persistence implementations for helpers and matches.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/helpmatch/internal/database"
	apperrors "github.com/allisson/helpmatch/internal/errors"
	"github.com/allisson/helpmatch/internal/matching/domain"
)

// PostgreSQLMatchRepository implements match persistence for PostgreSQL.
type PostgreSQLMatchRepository struct {
	db *sql.DB
}

// NewPostgreSQLMatchRepository creates a new PostgreSQL match repository.
func NewPostgreSQLMatchRepository(db *sql.DB) *PostgreSQLMatchRepository {
	return &PostgreSQLMatchRepository{db: db}
}

// GetRequest loads the category and status of a request. With lock set the row is
// locked until the surrounding transaction ends.
func (r *PostgreSQLMatchRepository) GetRequest(ctx context.Context, id int64, lock bool) (*domain.RequestRef, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, category, status FROM help_requests WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var ref domain.RequestRef
	err := querier.QueryRowContext(ctx, query, id).Scan(&ref.ID, &ref.Category, &ref.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get request")
	}
	return &ref, nil
}

// ListAvailableHelpers returns up to limit available helpers for category, oldest first.
func (r *PostgreSQLMatchRepository) ListAvailableHelpers(
	ctx context.Context,
	category string,
	limit int,
) ([]*domain.Helper, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, category, available FROM helpers
			  WHERE category = $1 AND available = TRUE ORDER BY id ASC LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, category, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list helpers")
	}
	defer func() { _ = rows.Close() }()

	return scanHelpers(rows)
}

// CreateMatch inserts a match unless the pair already exists. It reports whether a row
// was inserted.
func (r *PostgreSQLMatchRepository) CreateMatch(ctx context.Context, match *domain.Match) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO matches (request_id, helper_id, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5) ON CONFLICT (request_id, helper_id) DO NOTHING`

	result, err := querier.ExecContext(
		ctx, query, match.RequestID, match.HelperID, match.Status, match.CreatedAt, match.UpdatedAt,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to create match")
	}
	return inserted(result)
}

// MarkOffered sets the match of (requestID, helperID) to offered, creating it if needed.
func (r *PostgreSQLMatchRepository) MarkOffered(ctx context.Context, requestID, helperID int64, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO matches (request_id, helper_id, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $4)
			  ON CONFLICT (request_id, helper_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(ctx, query, requestID, helperID, domain.MatchStatusOffered, at)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark match offered")
	}
	return nil
}

// UpdateRequestStatus moves a request from one status to another. A request in any other
// status is left untouched.
func (r *PostgreSQLMatchRepository) UpdateRequestStatus(
	ctx context.Context,
	id int64,
	from, to string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE help_requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	if _, err := querier.ExecContext(ctx, query, to, at, id, from); err != nil {
		return apperrors.Wrap(err, "failed to update request status")
	}
	return nil
}

// ListMatches returns the matches of a request ordered by helper.
func (r *PostgreSQLMatchRepository) ListMatches(ctx context.Context, requestID int64) ([]*domain.Match, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, request_id, helper_id, status, created_at, updated_at FROM matches
			  WHERE request_id = $1 ORDER BY helper_id ASC`

	rows, err := querier.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list matches")
	}
	defer func() { _ = rows.Close() }()

	return scanMatches(rows)
}

func scanHelpers(rows *sql.Rows) ([]*domain.Helper, error) {
	helpers := make([]*domain.Helper, 0)
	for rows.Next() {
		var h domain.Helper
		if err := rows.Scan(&h.ID, &h.Name, &h.Category, &h.Available); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan helper")
		}
		helpers = append(helpers, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate helpers")
	}
	return helpers, nil
}

func scanMatches(rows *sql.Rows) ([]*domain.Match, error) {
	matches := make([]*domain.Match, 0)
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.RequestID, &m.HelperID, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan match")
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate matches")
	}
	return matches, nil
}

func inserted(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}
