package usecase

import (
	"context"

	"github.com/allisson/helpmatch/internal/broker"
	apperrors "github.com/allisson/helpmatch/internal/errors"
	"github.com/allisson/helpmatch/internal/events"
)

// RequestCreatedHandler adapts HandleRequestCreated to a broker handler.
func RequestCreatedHandler(uc MatchingUseCase) broker.Handler {
	return func(ctx context.Context, evt events.Event) error {
		e, ok := evt.(events.RequestCreated)
		if !ok {
			return apperrors.Wrapf(events.ErrUnknownEvent, "expected %s, got %s", events.NameRequestCreated, evt.EventName())
		}
		_, err := uc.HandleRequestCreated(ctx, e)
		return err
	}
}

// OfferCreatedHandler adapts HandleOfferCreated to a broker handler.
func OfferCreatedHandler(uc MatchingUseCase) broker.Handler {
	return func(ctx context.Context, evt events.Event) error {
		e, ok := evt.(events.OfferCreated)
		if !ok {
			return apperrors.Wrapf(events.ErrUnknownEvent, "expected %s, got %s", events.NameOfferCreated, evt.EventName())
		}
		return uc.HandleOfferCreated(ctx, e)
	}
}
