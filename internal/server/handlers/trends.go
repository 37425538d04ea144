// internal/server/handlers/trends.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
	"trendradar/internal/service/insight"
)

// defaultTrendKeywords seed the aggregation when the caller does not
// narrow the search by category.
var defaultTrendKeywords = []string{"trending", "viral", "popular"}

// historyLimit bounds the score history fed into trajectory prompts.
const historyLimit = 30

// Advisor produces model-backed trajectory forecasts and answers
// free-form agent queries.
type Advisor interface {
	PredictTrajectory(ctx context.Context, productID string, history []trend.Snapshot) *trend.TrendPrediction
	QueryAgent(ctx context.Context, sessionID, inputText string) (*insight.AgentResponse, error)
}

// TrendHandler handles trend analysis HTTP requests
type TrendHandler struct {
	radar    trend.Radar
	advisor  Advisor
	validate *validator.Validate
	debug    bool
	logger   *zap.Logger
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(radar trend.Radar, advisor Advisor, debug bool, logger *zap.Logger) *TrendHandler {
	return &TrendHandler{
		radar:    radar,
		advisor:  advisor,
		validate: validator.New(),
		debug:    debug,
		logger:   logger,
	}
}

// GetTrendingProducts returns scored products filtered by the query
// parameters. Categories double as search keywords when provided.
func (h *TrendHandler) GetTrendingProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	minScore, err := parseFloatParam(query.Get("min_score"), 0.5, 0, 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid min_score parameter", err.Error())
		return
	}

	limit, err := parseIntParam(query.Get("limit"), 50, 1, 200)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid limit parameter", err.Error())
		return
	}

	categories := query["categories"]
	platforms := query["platforms"]
	status := query.Get("status")

	keywords := defaultTrendKeywords
	if len(categories) > 0 {
		keywords = categories
	}

	products, err := h.radar.AggregateProductTrends(r.Context(), keywords, categories, 0)
	if err != nil {
		h.logger.Error("failed to aggregate trending products", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch trending products", internalDetail(err, h.debug))
		return
	}

	filtered := make([]trend.Product, 0, len(products))
	for _, product := range products {
		if product.TrendScore < minScore {
			continue
		}
		if len(platforms) > 0 && !hasAnyPlatform(product, platforms) {
			continue
		}
		if status != "" && product.Status != trend.Status(status) {
			continue
		}
		filtered = append(filtered, product)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].TrendScore > filtered[j].TrendScore
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	respondJSON(w, http.StatusOK, filtered)
}

// GetProduct returns one scored product by identifier
func (h *TrendHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	product, err := h.radar.ProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, trend.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		h.logger.Error("failed to fetch product details",
			zap.String("product_id", productID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch product details", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GetPrediction returns a model-backed trajectory forecast for a
// product. Persisted score history feeds the prompt when the snapshot
// store is enabled; the forecast itself never hard-fails.
func (h *TrendHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	history, err := h.radar.ProductHistory(r.Context(), productID, historyLimit)
	if err != nil {
		if !errors.Is(err, trend.ErrHistoryDisabled) {
			h.logger.Warn("failed to load product history",
				zap.String("product_id", productID),
				zap.Error(err))
		}
		history = nil
	}

	prediction := h.advisor.PredictTrajectory(r.Context(), productID, history)
	respondJSON(w, http.StatusOK, prediction)
}

// GetHistory returns persisted score snapshots for a product, newest
// first
func (h *TrendHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	limit, err := parseIntParam(r.URL.Query().Get("limit"), historyLimit, 1, 200)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid limit parameter", err.Error())
		return
	}

	history, err := h.radar.ProductHistory(r.Context(), productID, limit)
	if err != nil {
		if errors.Is(err, trend.ErrHistoryDisabled) {
			respondError(w, http.StatusServiceUnavailable, "Trend history is not enabled", "")
			return
		}
		h.logger.Error("failed to fetch product history",
			zap.String("product_id", productID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch product history", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// GetReport returns a trend report tailored to the requested user type
func (h *TrendHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	userType, err := trend.ParseUserType(query.Get("user_type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user_type parameter", "user_type must be merchant or consumer")
		return
	}

	daysBack, err := parseIntParam(query.Get("days_back"), 7, 1, 30)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid days_back parameter", err.Error())
		return
	}

	report, err := h.radar.GenerateReport(r.Context(), userType, query["categories"], daysBack)
	if err != nil {
		h.logger.Error("failed to generate trend report", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate trend report", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetCategories returns the trending categories summary
func (h *TrendHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.radar.TrendingCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch trending categories", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch trending categories", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

// agentQueryRequest is the body for a free-form agent question
type agentQueryRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	InputText string `json:"input_text" validate:"required"`
}

// AgentQuery passes a free-form question through to the reasoning
// agent. Agent failures surface to the caller.
func (h *TrendHandler) AgentQuery(w http.ResponseWriter, r *http.Request) {
	var req agentQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	response, err := h.advisor.QueryAgent(r.Context(), req.SessionID, req.InputText)
	if err != nil {
		h.logger.Error("agent query failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to query agent", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, response)
}

func hasAnyPlatform(product trend.Product, platforms []string) bool {
	for _, platform := range platforms {
		if product.HasPlatform(platform) {
			return true
		}
	}
	return false
}
