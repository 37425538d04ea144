// internal/adapter/bus/nats.go

// Package bus publishes domain events to NATS subjects.
package bus

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher publishes JSON events. Publishing is a no-op when no
// connection is configured.
type Publisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewPublisher creates a publisher over an existing connection. Pass a
// nil connection to disable publishing.
func NewPublisher(conn *nats.Conn, logger *zap.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Enabled reports whether events are actually published
func (p *Publisher) Enabled() bool {
	return p != nil && p.conn != nil
}

// Publish marshals the payload and publishes it to the subject
func (p *Publisher) Publish(subject string, payload interface{}) error {
	if !p.Enabled() {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published event", zap.String("subject", subject))
	return nil
}
