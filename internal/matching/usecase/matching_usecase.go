package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/helpmatch/internal/database"
	"github.com/allisson/helpmatch/internal/events"
	"github.com/allisson/helpmatch/internal/matching/domain"
)

type matchingUseCase struct {
	txManager   database.TxManager
	repo        MatchRepository
	helperLimit int
	logger      *slog.Logger
}

// NewMatchingUseCase creates a MatchingUseCase selecting at most helperLimit helpers per
// request.
func NewMatchingUseCase(
	txManager database.TxManager,
	repo MatchRepository,
	helperLimit int,
	logger *slog.Logger,
) MatchingUseCase {
	if helperLimit < 1 {
		helperLimit = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &matchingUseCase{
		txManager:   txManager,
		repo:        repo,
		helperLimit: helperLimit,
		logger:      logger,
	}
}

// HandleRequestCreated selects available helpers in the request's category and inserts
// matches for them in one transaction. The stored request is the source of truth; the
// event only carries its ID. A redelivered event inserts nothing new.
func (uc *matchingUseCase) HandleRequestCreated(ctx context.Context, evt events.RequestCreated) (int, error) {
	created := 0

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		req, err := uc.repo.GetRequest(ctx, evt.ID, true)
		if err != nil {
			return err
		}
		if req.Status == domain.RequestStatusClosed {
			uc.logger.Info("skipping closed request", slog.Int64("request_id", req.ID))
			return nil
		}

		helpers, err := uc.repo.ListAvailableHelpers(ctx, req.Category, uc.helperLimit)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, helper := range helpers {
			ok, err := uc.repo.CreateMatch(ctx, &domain.Match{
				RequestID: req.ID,
				HelperID:  helper.ID,
				Status:    domain.MatchStatusPending,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}

		if created == 0 {
			return nil
		}
		return uc.repo.UpdateRequestStatus(
			ctx, req.ID, domain.RequestStatusOpen, domain.RequestStatusMatched, now,
		)
	})
	if err != nil {
		return 0, err
	}

	uc.logger.Info("request matched",
		slog.Int64("request_id", evt.ID),
		slog.String("urgency", evt.Urgency),
		slog.Int("matches", created),
	)
	return created, nil
}

// HandleOfferCreated upserts the (request, helper) match as offered.
func (uc *matchingUseCase) HandleOfferCreated(ctx context.Context, evt events.OfferCreated) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.repo.GetRequest(ctx, evt.RequestID, false); err != nil {
			return err
		}
		return uc.repo.MarkOffered(ctx, evt.RequestID, evt.HelperID, time.Now().UTC())
	})
}

// ListMatches returns the matches of a request.
func (uc *matchingUseCase) ListMatches(ctx context.Context, requestID int64) ([]*domain.Match, error) {
	if _, err := uc.repo.GetRequest(ctx, requestID, false); err != nil {
		return nil, err
	}
	return uc.repo.ListMatches(ctx, requestID)
}
