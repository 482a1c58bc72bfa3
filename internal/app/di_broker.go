package app

import (
	"fmt"

	"github.com/allisson/helpmatch/internal/broker"
	"github.com/allisson/helpmatch/internal/events"
)

type brokerComponents struct {
	connectionManager *broker.ConnectionManager
	topology          *broker.Topology
	registry          *events.Registry
	publisher         *broker.Publisher
	consumer          *broker.Consumer
	replayer          *broker.Replayer
}

// BrokerConfig maps the AMQP settings onto the connection manager configuration.
func (c *Container) BrokerConfig() broker.Config {
	return broker.Config{
		URL:            c.config.AMQPURL,
		InitialDelay:   c.config.AMQPConnectInitialDelay,
		Multiplier:     c.config.AMQPConnectBackoffMultiplier,
		MaxDelay:       c.config.AMQPConnectMaxDelay,
		MaxRetries:     c.config.AMQPConnectMaxRetries,
		ReconnectDelay: c.config.AMQPReconnectDelay,
	}
}

// ConnectionManager returns the broker connection manager. Nothing is dialed until
// Connect is called on it.
func (c *Container) ConnectionManager() *broker.ConnectionManager {
	m, _ := resolve(c, "connectionManager", &c.connectionManager, func() (*broker.ConnectionManager, error) {
		return broker.NewConnectionManager(c.BrokerConfig(), broker.DialAMQP, c.Logger()), nil
	})
	return m
}

// Topology returns the queue topology shared by publisher, consumer and replayer.
func (c *Container) Topology() *broker.Topology {
	t, _ := resolve(c, "topology", &c.topology, func() (*broker.Topology, error) {
		return broker.NewTopology(c.config.AMQPMaxPriority), nil
	})
	return t
}

// EventRegistry returns the registry of known event decoders.
func (c *Container) EventRegistry() *events.Registry {
	r, _ := resolve(c, "registry", &c.registry, func() (*events.Registry, error) {
		return events.NewRegistry(), nil
	})
	return r
}

// Publisher returns the event publisher.
func (c *Container) Publisher() (*broker.Publisher, error) {
	return resolve(c, "publisher", &c.publisher, func() (*broker.Publisher, error) {
		m, err := c.brokerMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics for publisher: %w", err)
		}
		return broker.NewPublisher(c.ConnectionManager(), c.Topology(), m, c.Logger()), nil
	})
}

// Consumer returns the event consumer.
func (c *Container) Consumer() (*broker.Consumer, error) {
	return resolve(c, "consumer", &c.consumer, func() (*broker.Consumer, error) {
		m, err := c.brokerMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics for consumer: %w", err)
		}
		return broker.NewConsumer(c.ConnectionManager(), c.Topology(), c.EventRegistry(), m, c.Logger()), nil
	})
}

// Replayer returns the dead-letter replayer.
func (c *Container) Replayer() (*broker.Replayer, error) {
	return resolve(c, "replayer", &c.replayer, func() (*broker.Replayer, error) {
		publisher, err := c.Publisher()
		if err != nil {
			return nil, fmt.Errorf("failed to get publisher for replayer: %w", err)
		}
		return broker.NewReplayer(c.ConnectionManager(), publisher, c.Logger()), nil
	})
}

func (c *Container) brokerMetrics() (broker.Metrics, error) {
	pipelineMetrics, err := c.PipelineMetrics()
	if err != nil {
		return nil, err
	}
	if pipelineMetrics == nil {
		return broker.NoopMetrics{}, nil
	}
	return pipelineMetrics, nil
}
