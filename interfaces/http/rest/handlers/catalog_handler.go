package handlers

import (
	"net/http"

	"codoc-backend/domain/catalog"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the static snippet library and starter templates
type CatalogHandler struct {
	logger *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{logger: logger}
}

// ListCategories handles GET /api/v1/catalog
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": catalog.Categories(),
	})
}

// ListTemplates handles GET /api/v1/catalog/templates
func (h *CatalogHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"templates": catalog.Templates(),
	})
}

// GetTemplate handles GET /api/v1/catalog/templates/{name}
func (h *CatalogHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	code, ok := catalog.Template(name)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown template: "+name)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"name": name,
		"code": code,
	})
}
