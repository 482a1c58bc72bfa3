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

// MySQLMatchRepository implements match persistence for MySQL.
type MySQLMatchRepository struct {
	db *sql.DB
}

// NewMySQLMatchRepository creates a new MySQL match repository.
func NewMySQLMatchRepository(db *sql.DB) *MySQLMatchRepository {
	return &MySQLMatchRepository{db: db}
}

// GetRequest loads the category and status of a request. With lock set the row is
// locked until the surrounding transaction ends.
func (r *MySQLMatchRepository) GetRequest(ctx context.Context, id int64, lock bool) (*domain.RequestRef, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, category, status FROM help_requests WHERE id = ?`
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
func (r *MySQLMatchRepository) ListAvailableHelpers(
	ctx context.Context,
	category string,
	limit int,
) ([]*domain.Helper, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, category, available FROM helpers
			  WHERE category = ? AND available = TRUE ORDER BY id ASC LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, category, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list helpers")
	}
	defer func() { _ = rows.Close() }()

	return scanHelpers(rows)
}

// CreateMatch inserts a match unless the pair already exists. It reports whether a row
// was inserted.
func (r *MySQLMatchRepository) CreateMatch(ctx context.Context, match *domain.Match) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT IGNORE INTO matches (request_id, helper_id, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx, query, match.RequestID, match.HelperID, match.Status, match.CreatedAt, match.UpdatedAt,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to create match")
	}
	return inserted(result)
}

// MarkOffered sets the match of (requestID, helperID) to offered, creating it if needed.
func (r *MySQLMatchRepository) MarkOffered(ctx context.Context, requestID, helperID int64, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO matches (request_id, helper_id, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE status = VALUES(status), updated_at = VALUES(updated_at)`

	_, err := querier.ExecContext(ctx, query, requestID, helperID, domain.MatchStatusOffered, at, at)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark match offered")
	}
	return nil
}

// UpdateRequestStatus moves a request from one status to another. A request in any other
// status is left untouched.
func (r *MySQLMatchRepository) UpdateRequestStatus(
	ctx context.Context,
	id int64,
	from, to string,
	at time.Time,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE help_requests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

	if _, err := querier.ExecContext(ctx, query, to, at, id, from); err != nil {
		return apperrors.Wrap(err, "failed to update request status")
	}
	return nil
}

// ListMatches returns the matches of a request ordered by helper.
func (r *MySQLMatchRepository) ListMatches(ctx context.Context, requestID int64) ([]*domain.Match, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, request_id, helper_id, status, created_at, updated_at FROM matches
			  WHERE request_id = ? ORDER BY helper_id ASC`

	rows, err := querier.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list matches")
	}
	defer func() { _ = rows.Close() }()

	return scanMatches(rows)
}
