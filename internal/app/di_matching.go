package app

import (
	"fmt"

	matchingHTTP "github.com/allisson/helpmatch/internal/matching/http"
	matchingRepository "github.com/allisson/helpmatch/internal/matching/repository"
	matchingUseCase "github.com/allisson/helpmatch/internal/matching/usecase"
)

type matchingComponents struct {
	matchRepository matchingUseCase.MatchRepository
	matchingUseCase matchingUseCase.MatchingUseCase
	matchHandler    *matchingHTTP.MatchHandler
}

// MatchRepository returns the match repository for the configured driver.
func (c *Container) MatchRepository() (matchingUseCase.MatchRepository, error) {
	return resolve(c, "matchRepository", &c.matchRepository, c.initMatchRepository)
}

// MatchingUseCase returns the matching use case driven by the worker.
func (c *Container) MatchingUseCase() (matchingUseCase.MatchingUseCase, error) {
	return resolve(c, "matchingUseCase", &c.matchingUseCase, c.initMatchingUseCase)
}

// MatchHandler returns the match listing HTTP handler.
func (c *Container) MatchHandler() (*matchingHTTP.MatchHandler, error) {
	return resolve(c, "matchHandler", &c.matchHandler, func() (*matchingHTTP.MatchHandler, error) {
		uc, err := c.MatchingUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get matching use case for match handler: %w", err)
		}
		return matchingHTTP.NewMatchHandler(uc, c.Logger()), nil
	})
}

func (c *Container) initMatchRepository() (matchingUseCase.MatchRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for match repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return matchingRepository.NewPostgreSQLMatchRepository(db), nil
	case "mysql":
		return matchingRepository.NewMySQLMatchRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initMatchingUseCase() (matchingUseCase.MatchingUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for matching use case: %w", err)
	}

	repo, err := c.MatchRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get match repository for matching use case: %w", err)
	}

	baseUseCase := matchingUseCase.NewMatchingUseCase(txManager, repo, c.config.MatchingHelperLimit, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for matching use case: %w", err)
		}
		return matchingUseCase.NewMatchingUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
