// Package app provides the dependency injection container that assembles the API server
// and the matching worker.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/helpmatch/internal/config"
	"github.com/allisson/helpmatch/internal/database"
	"github.com/allisson/helpmatch/internal/metrics"
)

// Container holds application dependencies. Components are created on first access and
// an initialization error is returned again on every later access.
type Container struct {
	config *config.Config

	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	pipelineMetrics *metrics.PipelineMetrics

	brokerComponents
	requestComponents
	matchingComponents
	serverComponents

	loggerInit sync.Once
	initMu     sync.Mutex
	inits      map[string]*sync.Once
	initErrors map[string]error
	shutdownMu sync.Mutex
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		inits:      make(map[string]*sync.Once),
		initErrors: make(map[string]error),
	}
}

// resolve runs init once for key, storing its value in slot.
func resolve[T any](c *Container, key string, slot *T, init func() (T, error)) (T, error) {
	c.onceFor(key).Do(func() {
		value, err := init()
		if err != nil {
			c.setInitError(key, err)
			return
		}
		*slot = value
	})
	if err := c.initError(key); err != nil {
		var zero T
		return zero, err
	}
	return *slot, nil
}

func (c *Container) onceFor(key string) *sync.Once {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	once, ok := c.inits[key]
	if !ok {
		once = &sync.Once{}
		c.inits[key] = once
	}
	return once
}

func (c *Container) setInitError(key string, err error) {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	c.initErrors[key] = err
}

func (c *Container) initError(key string) error {
	c.initMu.Lock()
	defer c.initMu.Unlock()
	return c.initErrors[key]
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger configured with the log level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	return resolve(c, "db", &c.db, c.initDB)
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	return resolve(c, "txManager", &c.txManager, c.initTxManager)
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return resolve(c, "metricsProvider", &c.metricsProvider, c.initMetricsProvider)
}

// BusinessMetrics returns the use case metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return resolve(c, "businessMetrics", &c.businessMetrics, c.initBusinessMetrics)
}

// PipelineMetrics returns the broker counters, or nil when metrics are disabled.
func (c *Container) PipelineMetrics() (*metrics.PipelineMetrics, error) {
	return resolve(c, "pipelineMetrics", &c.pipelineMetrics, c.initPipelineMetrics)
}

// Shutdown releases every initialized resource: servers first, then the broker connection
// and its consumers, then metrics and the database.
func (c *Container) Shutdown(ctx context.Context) error {
	c.shutdownMu.Lock()
	defer c.shutdownMu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.connectionManager != nil {
		if err := c.connectionManager.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("broker close: %w", err))
		}
	}

	if c.consumer != nil {
		c.consumer.Wait()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initPipelineMetrics() (*metrics.PipelineMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return metrics.NewPipelineMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}
