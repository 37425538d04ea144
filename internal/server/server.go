// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"trendradar/internal/config"
	alertDomain "trendradar/internal/domain/alert"
	marketDomain "trendradar/internal/domain/market"
	"trendradar/internal/domain/trend"
	"trendradar/internal/observability"
	"trendradar/internal/server/handlers"
)

// Server is the HTTP front end of the trend radar
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates the router and wires every API handler
func NewServer(
	cfg config.Config,
	natsConn *nats.Conn,
	radar trend.Radar,
	alerts alertDomain.Service,
	market marketDomain.Service,
	advisor handlers.Advisor,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Use(rateLimiter(cfg.Server.RateLimitPerMinute))
	router.Use(apiMetrics(metrics))

	router.NotFound(handlers.NotFound)
	router.MethodNotAllowed(handlers.MethodNotAllowed)

	// Create handler dependencies
	trendHandler := handlers.NewTrendHandler(radar, advisor, cfg.Debug, logger)
	alertHandler := handlers.NewAlertHandler(alerts, cfg.Debug, logger)
	marketHandler := handlers.NewMarketHandler(market, cfg.Debug, logger)
	metaHandler := handlers.NewMetaHandler(cfg.AppName, cfg.AppVersion)

	liveSubjects := []string{
		cfg.Trend.EventsTopic + ".>",
		cfg.Alert.EventsTopic + ".>",
	}

	// Routes
	router.Get("/health", metaHandler.Health)

	router.Route(cfg.Server.APIPrefix, func(r chi.Router) {
		r.Get("/info", metaHandler.Info)

		// Trends API
		r.Route("/trends", func(r chi.Router) {
			r.Get("/products", trendHandler.GetTrendingProducts)
			r.Get("/products/{id}", trendHandler.GetProduct)
			r.Get("/predictions/{id}", trendHandler.GetPrediction)
			r.Get("/history/{id}", trendHandler.GetHistory)
			r.Get("/report", trendHandler.GetReport)
			r.Get("/categories", trendHandler.GetCategories)
			r.Post("/agent-query", trendHandler.AgentQuery)

			// Live event feed
			r.Get("/live", handlers.LiveFeedHandler(natsConn, liveSubjects, logger))
		})

		// Alerts API
		r.Route("/alerts", func(r chi.Router) {
			r.Post("/", alertHandler.Create)
			r.Get("/user/{userID}", alertHandler.GetByUser)
			r.Put("/{id}", alertHandler.Update)
			r.Delete("/{id}", alertHandler.Delete)
			r.Get("/{id}/check", alertHandler.Check)
		})

		// Products API
		r.Route("/products", func(r chi.Router) {
			r.Get("/compare/{name}", marketHandler.ComparePrices)
			r.Get("/events", marketHandler.EventRecommendations)
			r.Get("/merchant-insights/{id}", marketHandler.MerchantInsights)
			r.Get("/consumer-insights/{id}", marketHandler.ConsumerInsights)
			r.Get("/compliance-check", marketHandler.ComplianceCheck)
		})
	})

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
