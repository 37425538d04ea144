// internal/domain/alert/service.go

package alert

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an alert does not exist
var ErrNotFound = errors.New("alert not found")

// Store defines the persistence interface for alerts
type Store interface {
	// Save inserts or replaces an alert
	Save(ctx context.Context, a Alert) error

	// Get returns an alert by ID, or ErrNotFound
	Get(ctx context.Context, id string) (Alert, error)

	// ListByUser returns all alerts belonging to a user
	ListByUser(ctx context.Context, userID string) ([]Alert, error)

	// ListActive returns all active alerts
	ListActive(ctx context.Context) ([]Alert, error)

	// Delete removes an alert by ID, or returns ErrNotFound
	Delete(ctx context.Context, id string) error
}

// Service defines the interface for alert management
type Service interface {
	// Start begins the periodic background alert sweep
	Start(ctx context.Context) error

	// Stop gracefully stops the background sweep
	Stop(ctx context.Context) error

	// Create registers a new alert for a user
	Create(ctx context.Context, req CreateRequest) (Alert, error)

	// GetByUser returns all alerts belonging to a user
	GetByUser(ctx context.Context, userID string) ([]Alert, error)

	// Update applies a partial update to an alert
	Update(ctx context.Context, id string, req UpdateRequest) (Alert, error)

	// Delete removes an alert
	Delete(ctx context.Context, id string) error

	// Check evaluates an alert against current trends on demand
	Check(ctx context.Context, id string) (CheckResult, error)

	// RegisterTriggerHandler registers a callback invoked for each alert
	// the background sweep finds triggered
	RegisterTriggerHandler(handler func(Trigger) error)
}
