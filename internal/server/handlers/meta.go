// internal/server/handlers/meta.go

package handlers

import (
	"net/http"
	"time"
)

// MetaHandler serves service identity and liveness endpoints
type MetaHandler struct {
	appName string
	version string
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(appName, version string) *MetaHandler {
	return &MetaHandler{
		appName: appName,
		version: version,
	}
}

// Health reports process liveness
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC(),
	})
}

// Info describes the API surface
func (h *MetaHandler) Info(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":    h.appName,
		"version": h.version,
		"endpoints": map[string]string{
			"trends":   "/api/v1/trends",
			"products": "/api/v1/products",
			"alerts":   "/api/v1/alerts",
		},
	})
}
