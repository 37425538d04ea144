// internal/adapter/storage/memory_alert_store.go

package storage

import (
	"context"
	"sync"

	"trendradar/internal/domain/alert"
)

// MemoryAlertStore implements alert.Store with an in-process map.
// Alerts do not survive restarts.
type MemoryAlertStore struct {
	mu     sync.RWMutex
	alerts map[string]alert.Alert
}

// NewMemoryAlertStore creates an empty in-memory alert store
func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{
		alerts: make(map[string]alert.Alert),
	}
}

// Save inserts or replaces an alert
func (s *MemoryAlertStore) Save(ctx context.Context, a alert.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts[a.ID] = a
	return nil
}

// Get returns an alert by ID, or ErrNotFound
func (s *MemoryAlertStore) Get(ctx context.Context, id string) (alert.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return alert.Alert{}, alert.ErrNotFound
	}
	return a, nil
}

// ListByUser returns all alerts belonging to a user
func (s *MemoryAlertStore) ListByUser(ctx context.Context, userID string) ([]alert.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alerts := []alert.Alert{}
	for _, a := range s.alerts {
		if a.UserID == userID {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

// ListActive returns all active alerts
func (s *MemoryAlertStore) ListActive(ctx context.Context) ([]alert.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alerts := []alert.Alert{}
	for _, a := range s.alerts {
		if a.Active {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

// Delete removes an alert by ID, or returns ErrNotFound
func (s *MemoryAlertStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alerts[id]; !ok {
		return alert.ErrNotFound
	}
	delete(s.alerts, id)
	return nil
}
