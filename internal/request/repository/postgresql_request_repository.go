// Package repository provides data persistence implementations for help requests and offers.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/allisson/helpmatch/internal/database"
	apperrors "github.com/allisson/helpmatch/internal/errors"
	"github.com/allisson/helpmatch/internal/request/domain"
)

const requestColumns = `id, user_id, title, category, description, urgency, status, created_at, updated_at`

// PostgreSQLRequestRepository implements request persistence for PostgreSQL.
type PostgreSQLRequestRepository struct {
	db *sql.DB
}

// NewPostgreSQLRequestRepository creates a new PostgreSQL request repository.
func NewPostgreSQLRequestRepository(db *sql.DB) *PostgreSQLRequestRepository {
	return &PostgreSQLRequestRepository{db: db}
}

// Create inserts a request and sets its generated ID.
func (r *PostgreSQLRequestRepository) Create(ctx context.Context, req *domain.Request) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO help_requests (user_id, title, category, description, urgency, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		req.UserID,
		req.Title,
		req.Category,
		req.Description,
		req.Urgency,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	).Scan(&req.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create request")
	}
	return nil
}

// GetByID retrieves a request by ID.
func (r *PostgreSQLRequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM help_requests WHERE id = $1`

	req, err := scanRequest(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get request by id")
	}
	return req, nil
}

// List returns requests newest first.
func (r *PostgreSQLRequestRepository) List(ctx context.Context, offset, limit int) ([]*domain.Request, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM help_requests ORDER BY id DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list requests")
	}
	defer func() { _ = rows.Close() }()

	return scanRequests(rows)
}

// CreateOffer inserts an offer and sets its generated ID.
func (r *PostgreSQLRequestRepository) CreateOffer(ctx context.Context, offer *domain.Offer) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO offers (request_id, helper_id, message, created_at)
			  VALUES ($1, $2, $3, $4) RETURNING id`

	err := querier.QueryRowContext(ctx, query, offer.RequestID, offer.HelperID, offer.Message, offer.CreatedAt).
		Scan(&offer.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHelperNotFound
		}
		return apperrors.Wrap(err, "failed to create offer")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var req domain.Request
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.Title,
		&req.Category,
		&req.Description,
		&req.Urgency,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func scanRequests(rows *sql.Rows) ([]*domain.Request, error) {
	requests := make([]*domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan request")
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate requests")
	}
	return requests, nil
}

// isForeignKeyViolation matches both the PostgreSQL and MySQL driver messages.
func isForeignKeyViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}
