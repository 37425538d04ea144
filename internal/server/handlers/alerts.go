// internal/server/handlers/alerts.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	alertDomain "trendradar/internal/domain/alert"
)

// AlertHandler handles alert management HTTP requests
type AlertHandler struct {
	alerts alertDomain.Service
	debug  bool
	logger *zap.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alerts alertDomain.Service, debug bool, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		alerts: alerts,
		debug:  debug,
		logger: logger,
	}
}

// Create registers a new alert for a user
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req alertDomain.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := h.alerts.Create(r.Context(), req)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, "Invalid alert request", err.Error())
			return
		}
		h.logger.Error("failed to create alert", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create alert", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, created)
}

// GetByUser returns all alerts belonging to a user
func (h *AlertHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	alerts, err := h.alerts.GetByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list user alerts",
			zap.String("user_id", userID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch user alerts", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}

// Update applies a partial update to an alert
func (h *AlertHandler) Update(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "id")

	var req alertDomain.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := h.alerts.Update(r.Context(), alertID, req)
	if err != nil {
		switch {
		case errors.Is(err, alertDomain.ErrNotFound):
			respondError(w, http.StatusNotFound, "Alert not found", "")
		case isValidationError(err):
			respondError(w, http.StatusBadRequest, "Invalid alert request", err.Error())
		default:
			h.logger.Error("failed to update alert",
				zap.String("alert_id", alertID),
				zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to update alert", internalDetail(err, h.debug))
		}
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete removes an alert
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "id")

	if err := h.alerts.Delete(r.Context(), alertID); err != nil {
		if errors.Is(err, alertDomain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Alert not found", "")
			return
		}
		h.logger.Error("failed to delete alert",
			zap.String("alert_id", alertID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete alert", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Alert deleted successfully"})
}

// Check evaluates an alert against current trends on demand
func (h *AlertHandler) Check(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "id")

	result, err := h.alerts.Check(r.Context(), alertID)
	if err != nil {
		if errors.Is(err, alertDomain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Alert not found", "")
			return
		}
		h.logger.Error("failed to check alert",
			zap.String("alert_id", alertID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to check alert", internalDetail(err, h.debug))
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
