package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/helpmatch/internal/database"
	apperrors "github.com/allisson/helpmatch/internal/errors"
	"github.com/allisson/helpmatch/internal/request/domain"
)

// MySQLRequestRepository implements request persistence for MySQL.
type MySQLRequestRepository struct {
	db *sql.DB
}

// NewMySQLRequestRepository creates a new MySQL request repository.
func NewMySQLRequestRepository(db *sql.DB) *MySQLRequestRepository {
	return &MySQLRequestRepository{db: db}
}

// Create inserts a request and sets its generated ID.
func (r *MySQLRequestRepository) Create(ctx context.Context, req *domain.Request) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO help_requests (user_id, title, category, description, urgency, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create request")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read request id")
	}
	req.ID = id
	return nil
}

// GetByID retrieves a request by ID.
func (r *MySQLRequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM help_requests WHERE id = ?`

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
func (r *MySQLRequestRepository) List(ctx context.Context, offset, limit int) ([]*domain.Request, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM help_requests ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list requests")
	}
	defer func() { _ = rows.Close() }()

	return scanRequests(rows)
}

// CreateOffer inserts an offer and sets its generated ID.
func (r *MySQLRequestRepository) CreateOffer(ctx context.Context, offer *domain.Offer) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO offers (request_id, helper_id, message, created_at) VALUES (?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query, offer.RequestID, offer.HelperID, offer.Message, offer.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHelperNotFound
		}
		return apperrors.Wrap(err, "failed to create offer")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read offer id")
	}
	offer.ID = id
	return nil
}
