// internal/service/radar/service.go

// Package radar aggregates product signals from social and commerce
// platforms into scored trend products and runs the background sweep
// that feeds alerts, score history, and dashboard snapshots.
package radar

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
	"trendradar/internal/observability"
)

// Predictor enriches scored products with model forecasts
type Predictor interface {
	BatchPredict(ctx context.Context, products []trend.Product) []trend.ModelPrediction
}

// Archiver uploads report snapshots for dashboards
type Archiver interface {
	Enabled() bool
	SaveReport(ctx context.Context, report *trend.TrendReport) (string, error)
}

// Publisher emits sweep events to the message bus
type Publisher interface {
	Publish(subject string, payload interface{}) error
}

// Service aggregates platform signals into scored trend products. It
// implements trend.Radar.
type Service struct {
	social    []trend.SocialSource
	sales     []trend.SalesSource
	registry  config.PlatformRegistry
	predictor Predictor
	store     trend.SnapshotStore
	archiver  Archiver
	publisher Publisher
	metrics   *observability.Collector
	cfg       config.TrendConfig
	logger    *zap.Logger

	cron *cron.Cron

	mu         sync.RWMutex
	handlers   []func(trend.Change) error
	latest     []trend.Product
	lastScores map[string]float64
}

// Deps carries the collaborators a Service needs. Store, Archiver, and
// Publisher are optional; the sweep skips the matching sink when one
// is nil.
type Deps struct {
	Social    []trend.SocialSource
	Sales     []trend.SalesSource
	Registry  config.PlatformRegistry
	Predictor Predictor
	Store     trend.SnapshotStore
	Archiver  Archiver
	Publisher Publisher
	Metrics   *observability.Collector
	Config    config.TrendConfig
	Logger    *zap.Logger
}

// New creates a radar service
func New(deps Deps) *Service {
	return &Service{
		social:     deps.Social,
		sales:      deps.Sales,
		registry:   deps.Registry,
		predictor:  deps.Predictor,
		store:      deps.Store,
		archiver:   deps.Archiver,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		cfg:        deps.Config,
		logger:     deps.Logger,
		cron:       cron.New(),
		lastScores: make(map[string]float64),
	}
}

// AggregateProductTrends fetches signals for the keywords from every
// configured platform and merges them into scored products. A dead
// platform contributes nothing; the pass itself does not fail.
func (s *Service) AggregateProductTrends(ctx context.Context, keywords, categories []string, daysBack int) ([]trend.Product, error) {
	started := time.Now()

	if daysBack <= 0 {
		daysBack = s.cfg.LookbackDays
	}

	query := trend.Query{
		Keywords: keywords,
		Hashtags: hashtags(keywords),
	}

	social, sales := s.fetchAll(ctx, query, daysBack)

	now := time.Now().UTC()
	products := mergeSignals(social, sales, now)
	s.scoreProducts(products, now)
	s.enrich(ctx, products)

	s.metrics.RecordTrendAnalysis(ctx, len(products), averageScore(products), time.Since(started))
	s.logger.Info("aggregated trending products",
		zap.Int("products", len(products)),
		zap.Strings("keywords", keywords))

	return products, nil
}

// hashtags derives hashtag terms for hashtag-oriented platforms from
// plain keywords.
func hashtags(keywords []string) []string {
	tags := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		tags = append(tags, "#"+strings.ReplaceAll(keyword, " ", ""))
	}
	return tags
}

// fetchAll runs every connector concurrently and collects results per
// platform. A platform that errors or panics contributes an empty
// result and never fails the join.
func (s *Service) fetchAll(ctx context.Context, query trend.Query, daysBack int) (map[string][]trend.SocialPost, map[string][]trend.SalesRecord) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -daysBack)

	var (
		mu     sync.Mutex
		social = make(map[string][]trend.SocialPost, len(s.social))
		sales  = make(map[string][]trend.SalesRecord, len(s.sales))
	)

	group, groupCtx := errgroup.WithContext(fetchCtx)

	for _, source := range s.social {
		group.Go(func() error {
			posts := s.fetchSocial(groupCtx, source, query)
			if len(posts) == 0 {
				return nil
			}
			mu.Lock()
			social[source.Platform()] = posts
			mu.Unlock()
			return nil
		})
	}

	for _, source := range s.sales {
		group.Go(func() error {
			records := s.fetchSales(groupCtx, source, start, end)
			if len(records) == 0 {
				return nil
			}
			mu.Lock()
			sales[source.Platform()] = records
			mu.Unlock()
			return nil
		})
	}

	// Workers only ever return nil; failures are swallowed above.
	_ = group.Wait()

	return social, sales
}

func (s *Service) fetchSocial(ctx context.Context, source trend.SocialSource, query trend.Query) []trend.SocialPost {
	defer s.recoverFetch(ctx, source.Platform())

	posts, err := source.Fetch(ctx, query)
	if err != nil {
		s.logger.Warn("social fetch failed",
			zap.String("platform", source.Platform()),
			zap.Error(err))
		s.metrics.RecordPlatformFetch(ctx, source.Platform(), 0, false)
		return nil
	}

	s.metrics.RecordPlatformFetch(ctx, source.Platform(), len(posts), true)
	return posts
}

func (s *Service) fetchSales(ctx context.Context, source trend.SalesSource, start, end time.Time) []trend.SalesRecord {
	defer s.recoverFetch(ctx, source.Platform())

	records, err := source.Fetch(ctx, start, end)
	if err != nil {
		s.logger.Warn("sales fetch failed",
			zap.String("platform", source.Platform()),
			zap.Error(err))
		s.metrics.RecordPlatformFetch(ctx, source.Platform(), 0, false)
		return nil
	}

	s.metrics.RecordPlatformFetch(ctx, source.Platform(), len(records), true)
	return records
}

func (s *Service) recoverFetch(ctx context.Context, platform string) {
	if r := recover(); r != nil {
		s.logger.Error("platform fetch panicked",
			zap.String("platform", platform),
			zap.Any("cause", r))
		s.metrics.RecordPlatformFetch(ctx, platform, 0, false)
	}
}

// enrich attaches model predictions to products, matched back by
// product id. Enrichment problems leave products unenriched.
func (s *Service) enrich(ctx context.Context, products []trend.Product) {
	if s.predictor == nil || len(products) == 0 {
		return
	}

	predictions := s.predictor.BatchPredict(ctx, products)
	byID := make(map[string]trend.ModelPrediction, len(predictions))
	for _, prediction := range predictions {
		byID[prediction.ProductID] = prediction
	}

	for i := range products {
		if prediction, ok := byID[products[i].ID]; ok {
			matched := prediction
			products[i].Prediction = &matched
		}
	}
}

// ProductByID re-analyzes using the identifier as the search keyword
// and returns the product whose id matches.
func (s *Service) ProductByID(ctx context.Context, productID string) (*trend.Product, error) {
	products, err := s.AggregateProductTrends(ctx, []string{productID}, nil, s.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == productID {
			return &products[i], nil
		}
	}
	return nil, trend.ErrProductNotFound
}

// ProductHistory returns persisted score snapshots, newest first
func (s *Service) ProductHistory(ctx context.Context, productID string, limit int) ([]trend.Snapshot, error) {
	if s.store == nil {
		return nil, trend.ErrHistoryDisabled
	}
	return s.store.History(ctx, productID, limit)
}

// LatestProducts returns the result of the most recent background
// sweep. The returned slice is shared and must not be mutated.
func (s *Service) LatestProducts() []trend.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// RegisterChangeHandler registers a callback invoked for every
// significant score change found by the background sweep
func (s *Service) RegisterChangeHandler(handler func(trend.Change) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Service) callChangeHandlers(change trend.Change) {
	s.mu.RLock()
	handlers := make([]func(trend.Change) error, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(change); err != nil {
			s.logger.Error("change handler failed",
				zap.String("product_id", change.ProductID),
				zap.Error(err))
		}
	}
}
