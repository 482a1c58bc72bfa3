package app

import (
	"fmt"

	requestHTTP "github.com/allisson/helpmatch/internal/request/http"
	requestRepository "github.com/allisson/helpmatch/internal/request/repository"
	requestUseCase "github.com/allisson/helpmatch/internal/request/usecase"
)

type requestComponents struct {
	requestRepository requestUseCase.RequestRepository
	requestUseCase    requestUseCase.RequestUseCase
	requestHandler    *requestHTTP.RequestHandler
}

// RequestRepository returns the help request repository for the configured driver.
func (c *Container) RequestRepository() (requestUseCase.RequestRepository, error) {
	return resolve(c, "requestRepository", &c.requestRepository, c.initRequestRepository)
}

// RequestUseCase returns the help request use case.
func (c *Container) RequestUseCase() (requestUseCase.RequestUseCase, error) {
	return resolve(c, "requestUseCase", &c.requestUseCase, c.initRequestUseCase)
}

// RequestHandler returns the help request HTTP handler.
func (c *Container) RequestHandler() (*requestHTTP.RequestHandler, error) {
	return resolve(c, "requestHandler", &c.requestHandler, func() (*requestHTTP.RequestHandler, error) {
		uc, err := c.RequestUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get request use case for request handler: %w", err)
		}
		return requestHTTP.NewRequestHandler(uc, c.Logger()), nil
	})
}

func (c *Container) initRequestRepository() (requestUseCase.RequestRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for request repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return requestRepository.NewPostgreSQLRequestRepository(db), nil
	case "mysql":
		return requestRepository.NewMySQLRequestRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRequestUseCase() (requestUseCase.RequestUseCase, error) {
	repo, err := c.RequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get request repository for request use case: %w", err)
	}

	publisher, err := c.Publisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher for request use case: %w", err)
	}

	baseUseCase := requestUseCase.NewRequestUseCase(repo, publisher, requestUseCase.Queues{
		RequestCreated: c.config.QueueRequestCreated,
		OfferCreated:   c.config.QueueOfferCreated,
	}, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for request use case: %w", err)
		}
		return requestUseCase.NewRequestUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
