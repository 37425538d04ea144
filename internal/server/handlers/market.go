// internal/server/handlers/market.go

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	marketDomain "trendradar/internal/domain/market"
	"trendradar/internal/domain/trend"
)

// MarketHandler handles shopping guidance HTTP requests
type MarketHandler struct {
	market marketDomain.Service
	debug  bool
	logger *zap.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(market marketDomain.Service, debug bool, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{
		market: market,
		debug:  debug,
		logger: logger,
	}
}

// ComparePrices gathers price quotes for a product across platforms
func (h *MarketHandler) ComparePrices(w http.ResponseWriter, r *http.Request) {
	productName := chi.URLParam(r, "name")
	platforms := r.URL.Query()["platforms"]

	comparison, err := h.market.ComparePrices(r.Context(), productName, platforms)
	if err != nil {
		h.logger.Error("failed to compare product prices",
			zap.String("product", productName),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to compare product prices", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, comparison)
}

// EventRecommendations suggests trending products for upcoming
// shopping events
func (h *MarketHandler) EventRecommendations(w http.ResponseWriter, r *http.Request) {
	daysAhead, err := parseIntParam(r.URL.Query().Get("days_ahead"), 30, 1, 90)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid days_ahead parameter", err.Error())
		return
	}

	recommendations, err := h.market.EventRecommendations(r.Context(), daysAhead)
	if err != nil {
		h.logger.Error("failed to build event recommendations", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch event recommendations", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, recommendations)
}

// MerchantInsights returns seller guidance for a product
func (h *MarketHandler) MerchantInsights(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	insights, err := h.market.MerchantInsights(r.Context(), productID)
	if err != nil {
		if errors.Is(err, trend.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		h.logger.Error("failed to generate merchant insights",
			zap.String("product_id", productID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate merchant insights", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, insights)
}

// ConsumerInsights returns buyer guidance for a product
func (h *MarketHandler) ConsumerInsights(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	insights, err := h.market.ConsumerInsights(r.Context(), productID)
	if err != nil {
		if errors.Is(err, trend.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		h.logger.Error("failed to generate consumer insights",
			zap.String("product_id", productID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate consumer insights", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, insights)
}

// ComplianceCheck verifies a product against platform listing policies
func (h *MarketHandler) ComplianceCheck(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	productName := query.Get("product_name")
	category := query.Get("category")
	if productName == "" || category == "" {
		respondError(w, http.StatusBadRequest, "Missing required parameters", "product_name and category are required")
		return
	}

	report, err := h.market.ComplianceCheck(r.Context(), marketDomain.ComplianceQuery{
		Name:        productName,
		Category:    category,
		Description: query.Get("description"),
	})
	if err != nil {
		h.logger.Error("failed to check product compliance",
			zap.String("product", productName),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to check product compliance", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, report)
}
