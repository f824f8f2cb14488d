package handlers

import (
	"io"
	"net/http"
	"time"

	"codoc-backend/application/services"
	"codoc-backend/domain/core/valueobjects"
	"codoc-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// RenderHandler builds render URLs and proxies diagram previews from the
// PlantUML server. The proxy sits behind a circuit breaker so a slow or
// down render server cannot pile up requests.
type RenderHandler struct {
	service *services.DocumentService
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewRenderHandler creates a new render handler
func NewRenderHandler(service *services.DocumentService, logger *zap.Logger) *RenderHandler {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "plantuml-render",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("render circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &RenderHandler{
		service: service,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
		logger:  logger,
	}
}

// RenderURL handles GET /api/v1/documents/{shareID}/render-url
func (h *RenderHandler) RenderURL(w http.ResponseWriter, r *http.Request) {
	shareID, err := valueobjects.ParseShareID(chi.URLParam(r, "shareID"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	url, format, err := h.service.RenderURL(r.Context(), shareID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"url":    url,
		"format": format,
	})
}

// Render handles GET /api/v1/documents/{shareID}/render, streaming the
// rendered diagram back to the client
func (h *RenderHandler) Render(w http.ResponseWriter, r *http.Request) {
	shareID, err := valueobjects.ParseShareID(chi.URLParam(r, "shareID"))
	if err != nil {
		respondAppError(w, err)
		return
	}

	url, format, err := h.service.RenderURL(r.Context(), shareID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	result, err := h.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		return h.client.Do(req)
	})
	if err != nil {
		observability.RenderProxyRequests.WithLabelValues("error").Inc()
		h.logger.Error("render proxy failed",
			zap.String("share_id", shareID.String()),
			zap.Error(err),
		)
		respondError(w, http.StatusBadGateway, "render server unavailable")
		return
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()
	observability.RenderProxyRequests.WithLabelValues("success").Inc()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		if format == "png" {
			contentType = "image/png"
		} else {
			contentType = "image/svg+xml"
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}
