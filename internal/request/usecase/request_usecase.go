package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/helpmatch/internal/events"
	"github.com/allisson/helpmatch/internal/request/domain"
	appValidation "github.com/allisson/helpmatch/internal/validation"
)

// Queues names the queues the use case publishes to.
type Queues struct {
	RequestCreated string
	OfferCreated   string
}

type requestUseCase struct {
	repo      RequestRepository
	publisher EventPublisher
	queues    Queues
	logger    *slog.Logger
}

// NewRequestUseCase creates a RequestUseCase. The database write and the publish are not
// atomic: a request is created even when its event cannot be delivered.
func NewRequestUseCase(
	repo RequestRepository,
	publisher EventPublisher,
	queues Queues,
	logger *slog.Logger,
) RequestUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &requestUseCase{
		repo:      repo,
		publisher: publisher,
		queues:    queues,
		logger:    logger,
	}
}

func validateCreateRequestInput(input CreateRequestInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.UserID,
			validation.Required.Error("user_id is required"),
			validation.Min(int64(1)).Error("user_id must be positive"),
		),
		validation.Field(&input.Title,
			validation.Required.Error("title is required"),
			appValidation.NotBlank,
			validation.Length(1, 200).Error("title must be between 1 and 200 characters"),
		),
		validation.Field(&input.Category,
			validation.Required.Error("category is required"),
			appValidation.NotBlank,
			validation.Length(1, 64).Error("category must be between 1 and 64 characters"),
		),
		validation.Field(&input.Description,
			validation.Length(0, 2000).Error("description must be at most 2000 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create validates and inserts the request, then publishes request_created.
func (uc *requestUseCase) Create(ctx context.Context, input CreateRequestInput) (*domain.Request, bool, error) {
	if err := validateCreateRequestInput(input); err != nil {
		return nil, false, err
	}

	urgency := appValidation.NormalizeUrgency(input.Urgency)

	now := time.Now().UTC()
	req := &domain.Request{
		UserID:      input.UserID,
		Title:       strings.TrimSpace(input.Title),
		Category:    strings.ToLower(strings.TrimSpace(input.Category)),
		Description: strings.TrimSpace(input.Description),
		Urgency:     urgency,
		Status:      domain.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, false, err
	}

	published := uc.publisher.Publish(ctx, uc.queues.RequestCreated, events.RequestCreated{
		ID:          req.ID,
		UserID:      req.UserID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Urgency:     req.Urgency,
	})
	if !published {
		uc.logger.Warn("request created without event",
			slog.Int64("request_id", req.ID),
			slog.String("queue", uc.queues.RequestCreated),
		)
	}

	return req, published, nil
}

// Get returns a request by ID.
func (uc *requestUseCase) Get(ctx context.Context, id int64) (*domain.Request, error) {
	return uc.repo.GetByID(ctx, id)
}

// List returns a page of requests.
func (uc *requestUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Request, error) {
	return uc.repo.List(ctx, offset, limit)
}

// CreateOffer inserts an offer on an open request, then publishes offer_created.
func (uc *requestUseCase) CreateOffer(ctx context.Context, input CreateOfferInput) (*domain.Offer, bool, error) {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.RequestID, validation.Required, validation.Min(int64(1))),
		validation.Field(&input.HelperID,
			validation.Required.Error("helper_id is required"),
			validation.Min(int64(1)).Error("helper_id must be positive"),
		),
		validation.Field(&input.Message,
			validation.Length(0, 1000).Error("message must be at most 1000 characters"),
		),
	)
	if err != nil {
		return nil, false, appValidation.WrapValidationError(err)
	}

	req, err := uc.repo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, false, err
	}
	if req.Status == domain.StatusClosed {
		return nil, false, domain.ErrRequestClosed
	}

	offer := &domain.Offer{
		RequestID: req.ID,
		HelperID:  input.HelperID,
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.CreateOffer(ctx, offer); err != nil {
		return nil, false, err
	}

	published := uc.publisher.Publish(ctx, uc.queues.OfferCreated, events.OfferCreated{
		ID:        offer.ID,
		RequestID: offer.RequestID,
		HelperID:  offer.HelperID,
		Message:   offer.Message,
	})
	if !published {
		uc.logger.Warn("offer created without event",
			slog.Int64("offer_id", offer.ID),
			slog.String("queue", uc.queues.OfferCreated),
		)
	}

	return offer, published, nil
}
