// internal/service/alert/service.go

// Package alert manages user trend alerts: CRUD over a store,
// on-demand checks against a fresh analysis, and a background sweep
// that matches active alerts with the latest trending products.
package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"trendradar/internal/config"
	alertDomain "trendradar/internal/domain/alert"
	"trendradar/internal/domain/trend"
)

// defaultMinScore is applied when a create request names no threshold
const defaultMinScore = 0.7

// sweepTimeout bounds one pass over all active alerts
const sweepTimeout = time.Minute

// TrendSource provides the product views alerts are evaluated against
type TrendSource interface {
	// AggregateProductTrends runs a fresh analysis for the keywords
	AggregateProductTrends(ctx context.Context, keywords, categories []string, daysBack int) ([]trend.Product, error)

	// LatestProducts returns the most recent background sweep result
	LatestProducts() []trend.Product
}

// Service implements alertDomain.Service
type Service struct {
	store    alertDomain.Store
	trends   TrendSource
	cfg      config.AlertConfig
	validate *validator.Validate
	logger   *zap.Logger

	cron *cron.Cron

	mu       sync.RWMutex
	handlers []func(alertDomain.Trigger) error
}

// New creates an alert service backed by the given store
func New(store alertDomain.Store, trends TrendSource, cfg config.AlertConfig, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		trends:   trends,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
		cron:     cron.New(),
	}
}

// Create registers a new alert. Missing thresholds default to
// defaultMinScore and new alerts start active.
func (s *Service) Create(ctx context.Context, req alertDomain.CreateRequest) (alertDomain.Alert, error) {
	if err := s.validate.Struct(req); err != nil {
		return alertDomain.Alert{}, fmt.Errorf("invalid alert request: %w", err)
	}

	minScore := defaultMinScore
	if req.MinTrendScore != nil {
		minScore = *req.MinTrendScore
	}

	created := alertDomain.Alert{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		Keywords:      req.Keywords,
		Categories:    req.Categories,
		MinTrendScore: minScore,
		Platforms:     req.Platforms,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.Save(ctx, created); err != nil {
		return alertDomain.Alert{}, err
	}

	s.logger.Info("alert created",
		zap.String("alert_id", created.ID),
		zap.String("user_id", created.UserID))
	return created, nil
}

// GetByUser returns all alerts belonging to a user
func (s *Service) GetByUser(ctx context.Context, userID string) ([]alertDomain.Alert, error) {
	return s.store.ListByUser(ctx, userID)
}

// Update applies the non-nil fields of the request to an existing alert
func (s *Service) Update(ctx context.Context, id string, req alertDomain.UpdateRequest) (alertDomain.Alert, error) {
	if err := s.validate.Struct(req); err != nil {
		return alertDomain.Alert{}, fmt.Errorf("invalid alert update: %w", err)
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return alertDomain.Alert{}, err
	}

	if req.Keywords != nil {
		existing.Keywords = *req.Keywords
	}
	if req.Categories != nil {
		existing.Categories = *req.Categories
	}
	if req.MinTrendScore != nil {
		existing.MinTrendScore = *req.MinTrendScore
	}
	if req.Platforms != nil {
		existing.Platforms = *req.Platforms
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := s.store.Save(ctx, existing); err != nil {
		return alertDomain.Alert{}, err
	}
	return existing, nil
}

// Delete removes an alert
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("alert deleted", zap.String("alert_id", id))
	return nil
}

// Check evaluates one alert against a fresh one-day analysis. Matching
// filters on score and platform only; the alert keywords already
// scoped the search itself.
func (s *Service) Check(ctx context.Context, id string) (alertDomain.CheckResult, error) {
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return alertDomain.CheckResult{}, err
	}

	if !stored.Active {
		return alertDomain.CheckResult{
			AlertID: stored.ID,
			Reason:  "Alert is inactive",
		}, nil
	}

	products, err := s.trends.AggregateProductTrends(ctx, stored.Keywords, stored.Categories, 1)
	if err != nil {
		return alertDomain.CheckResult{}, err
	}

	var matching []trend.Product
	for _, product := range products {
		if product.TrendScore < stored.MinTrendScore {
			continue
		}
		if len(stored.Platforms) > 0 && !hasAnyPlatform(product, stored.Platforms) {
			continue
		}
		matching = append(matching, product)
	}
	if len(matching) > 5 {
		matching = matching[:5]
	}

	now := time.Now().UTC()
	result := alertDomain.CheckResult{
		AlertID:          stored.ID,
		Triggered:        len(matching) > 0,
		MatchingProducts: matching,
		CheckedAt:        &now,
	}

	if result.Triggered {
		s.recordTrigger(ctx, stored, now)
	}

	return result, nil
}

// recordTrigger bumps the trigger counters on the stored alert and
// returns the updated copy. A save failure is logged and does not fail
// the check.
func (s *Service) recordTrigger(ctx context.Context, stored alertDomain.Alert, at time.Time) alertDomain.Alert {
	stored.TriggeredCount++
	stored.LastTriggered = &at
	if err := s.store.Save(ctx, stored); err != nil {
		s.logger.Error("failed to record alert trigger",
			zap.String("alert_id", stored.ID),
			zap.Error(err))
	}
	return stored
}

func hasAnyPlatform(product trend.Product, platforms []string) bool {
	for _, platform := range platforms {
		if product.HasPlatform(platform) {
			return true
		}
	}
	return false
}

// RegisterTriggerHandler registers a callback invoked for each alert
// the background sweep finds triggered
func (s *Service) RegisterTriggerHandler(handler func(alertDomain.Trigger) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Service) callTriggerHandlers(trigger alertDomain.Trigger) {
	s.mu.RLock()
	handlers := make([]func(alertDomain.Trigger) error, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(trigger); err != nil {
			s.logger.Error("trigger handler failed",
				zap.String("alert_id", trigger.Alert.ID),
				zap.Error(err))
		}
	}
}

// Start schedules the periodic alert sweep
func (s *Service) Start(ctx context.Context) error {
	spec := "@every " + s.cfg.CheckInterval.String()
	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return fmt.Errorf("failed to schedule alert sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("alert sweeper started", zap.Duration("interval", s.cfg.CheckInterval))
	return nil
}

// Stop stops the sweeper, waiting for an in-flight sweep to finish or
// for the context to expire.
func (s *Service) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.logger.Info("alert sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	s.sweep(ctx)
}

// sweep matches every active alert against the latest trend sweep and
// notifies trigger handlers with up to ten matches per alert. It is a
// no-op until the first trend sweep has produced products.
func (s *Service) sweep(ctx context.Context) {
	products := s.trends.LatestProducts()
	if len(products) == 0 {
		return
	}

	alerts, err := s.store.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active alerts", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	for _, stored := range alerts {
		var matching []trend.Product
		for _, product := range products {
			if stored.Matches(product) {
				matching = append(matching, product)
			}
		}
		if len(matching) == 0 {
			continue
		}
		if len(matching) > 10 {
			matching = matching[:10]
		}

		stored = s.recordTrigger(ctx, stored, now)
		s.callTriggerHandlers(alertDomain.Trigger{
			Alert:            stored,
			MatchingProducts: matching,
			TriggeredAt:      now,
		})

		s.logger.Info("alert triggered",
			zap.String("alert_id", stored.ID),
			zap.String("user_id", stored.UserID),
			zap.Int("matches", len(matching)))
	}
}
