// internal/service/radar/sweeper.go

package radar

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
)

// sweepTimeout bounds one full sweep including persistence and
// dashboard uploads.
const sweepTimeout = 2 * time.Minute

// Start schedules the periodic background sweep
func (s *Service) Start(ctx context.Context) error {
	spec := "@every " + s.cfg.SweepInterval.String()
	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return fmt.Errorf("failed to schedule trend sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("trend sweeper started",
		zap.Duration("interval", s.cfg.SweepInterval),
		zap.Strings("keywords", s.cfg.SweepKeywords))
	return nil
}

// Stop stops the sweeper, waiting for an in-flight sweep to finish or
// for the context to expire.
func (s *Service) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		s.logger.Info("trend sweeper stopped")
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

// sweep re-analyzes the default keywords, publishes detection and
// significant-change events, keeps the latest product view for the
// alert sweeper, and writes snapshots and dashboard reports when those
// sinks are configured.
func (s *Service) sweep(ctx context.Context) {
	products, err := s.AggregateProductTrends(ctx, s.cfg.SweepKeywords, nil, s.cfg.LookbackDays)
	if err != nil {
		s.logger.Error("trend sweep failed", zap.Error(err))
		return
	}

	s.publishDetections(products)
	s.detectChanges(products)

	s.mu.Lock()
	s.latest = products
	s.mu.Unlock()

	s.persistSnapshots(ctx, products)
	s.archiveReports(ctx, products)
}

// publishDetections emits one event per product scoring at or above
// the detection threshold.
func (s *Service) publishDetections(products []trend.Product) {
	if s.publisher == nil {
		return
	}

	for i := range products {
		if products[i].TrendScore < s.cfg.ScoreThreshold {
			continue
		}
		subject := s.cfg.EventsTopic + ".detected"
		if err := s.publisher.Publish(subject, products[i]); err != nil {
			s.logger.Error("failed to publish trend detection",
				zap.String("product_id", products[i].ID),
				zap.Error(err))
		}
	}
}

// detectChanges diffs scores against the previous sweep and notifies
// the registered handlers of moves larger than the configured delta.
// Products without a previous score are skipped.
func (s *Service) detectChanges(products []trend.Product) {
	s.mu.Lock()
	previous := s.lastScores
	next := make(map[string]float64, len(products))
	for i := range products {
		next[products[i].ID] = products[i].TrendScore
	}
	s.lastScores = next
	s.mu.Unlock()

	for i := range products {
		oldScore, seen := previous[products[i].ID]
		if !seen {
			continue
		}
		delta := products[i].TrendScore - oldScore
		if math.Abs(delta) <= s.cfg.SignificantDelta {
			continue
		}
		s.callChangeHandlers(trend.Change{
			ProductID:   products[i].ID,
			ProductName: products[i].Name,
			OldScore:    oldScore,
			NewScore:    products[i].TrendScore,
			Change:      delta,
		})
	}
}

func (s *Service) persistSnapshots(ctx context.Context, products []trend.Product) {
	if s.store == nil || len(products) == 0 {
		return
	}

	capturedAt := time.Now().UTC()
	snapshots := make([]trend.Snapshot, 0, len(products))
	for i := range products {
		snapshots = append(snapshots, trend.Snapshot{
			ProductID:     products[i].ID,
			ProductName:   products[i].Name,
			Category:      products[i].Category,
			TrendScore:    products[i].TrendScore,
			ViralVelocity: products[i].ViralVelocity,
			Status:        products[i].Status,
			Platforms:     products[i].Platforms,
			CapturedAt:    capturedAt,
		})
	}

	if err := s.store.SaveSnapshots(ctx, snapshots); err != nil {
		s.logger.Error("failed to persist trend snapshots", zap.Error(err))
	}
}

// archiveReports uploads one dashboard report per audience, built from
// the products the sweep already scored.
func (s *Service) archiveReports(ctx context.Context, products []trend.Product) {
	if s.archiver == nil || !s.archiver.Enabled() {
		return
	}

	for _, userType := range []trend.UserType{trend.UserTypeMerchant, trend.UserTypeConsumer} {
		report := s.buildReport(products, userType)
		if _, err := s.archiver.SaveReport(ctx, report); err != nil {
			s.logger.Error("failed to archive dashboard report",
				zap.String("user_type", string(userType)),
				zap.Error(err))
		}
	}
}
