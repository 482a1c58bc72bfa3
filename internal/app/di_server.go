package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/helpmatch/internal/http"
)

type serverComponents struct {
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	devHandler    *http.DevHandler
}

// DevHandler returns the handler for the malformed message injection endpoint.
func (c *Container) DevHandler() (*http.DevHandler, error) {
	return resolve(c, "devHandler", &c.devHandler, func() (*http.DevHandler, error) {
		publisher, err := c.Publisher()
		if err != nil {
			return nil, fmt.Errorf("failed to get publisher for dev handler: %w", err)
		}
		return http.NewDevHandler(publisher, c.Logger()), nil
	})
}

// HTTPServer returns the API server with its routes registered. ctx bounds background
// work started by the router and is only used on the first call.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	return resolve(c, "httpServer", &c.httpServer, func() (*http.Server, error) {
		return c.initHTTPServer(ctx)
	})
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return resolve(c, "metricsServer", &c.metricsServer, func() (*http.MetricsServer, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
		}
		if provider == nil {
			return nil, nil
		}
		return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
	})
}

func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	requestHandler, err := c.RequestHandler()
	if err != nil {
		return nil, err
	}

	matchHandler, err := c.MatchHandler()
	if err != nil {
		return nil, err
	}

	handlers := http.Handlers{Request: requestHandler, Match: matchHandler}
	if c.config.DevEndpointsEnabled {
		if handlers.Dev, err = c.DevHandler(); err != nil {
			return nil, err
		}
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	var meterProvider metric.MeterProvider
	if provider != nil {
		meterProvider = provider.MeterProvider()
	}

	server := http.NewServer(db, c.ConnectionManager(), c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(ctx, c.config, handlers, meterProvider)
	return server, nil
}
