// Package rest wires the HTTP API. Document pages resolve under /doc,
// mutations live under /api/v1/documents, and live updates attach at /ws.
package rest

import (
	"net/http"

	"codoc-backend/application/services"
	"codoc-backend/interfaces/http/rest/handlers"
	"codoc-backend/interfaces/http/rest/middleware"
	"codoc-backend/interfaces/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service    *services.DocumentService
	resolver   *services.ShareResolver
	wsServer   *websocket.Server
	logger     *zap.Logger
	enableCORS bool
}

// NewRouter creates a new router instance
func NewRouter(
	service *services.DocumentService,
	resolver *services.ShareResolver,
	wsServer *websocket.Server,
	logger *zap.Logger,
	enableCORS bool,
) *Router {
	return &Router{
		service:    service,
		resolver:   resolver,
		wsServer:   wsServer,
		logger:     logger,
		enableCORS: enableCORS,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health and metrics
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Handle("/metrics", promhttp.Handler())

	// Document page resolution
	documentHandler := handlers.NewDocumentHandler(rt.service, rt.resolver, rt.logger)
	router.Get("/doc", documentHandler.ResolveDocument)
	router.Get("/doc/{shareID}", documentHandler.ResolveDocument)

	// Live updates
	router.Get("/ws/{shareID}", rt.wsServer.HandleWebSocket)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/documents/{shareID}", func(r chi.Router) {
			r.Get("/", documentHandler.GetSnapshot)
			r.Put("/code", documentHandler.UpdateCode)
			r.Post("/regenerate", documentHandler.RegenerateCode)

			r.Post("/nodes", documentHandler.AddNode)
			r.Delete("/nodes/{nodeID}", documentHandler.DeleteNode)
			r.Put("/nodes/{nodeID}/label", documentHandler.UpdateNodeLabel)

			r.Post("/edges", documentHandler.AddEdge)
			r.Delete("/edges/{edgeID}", documentHandler.DeleteEdge)

			r.Post("/link/start", documentHandler.StartLinking)
			r.Post("/link/complete", documentHandler.CompleteLinking)

			renderHandler := handlers.NewRenderHandler(rt.service, rt.logger)
			r.Get("/render-url", renderHandler.RenderURL)
			r.Get("/render", renderHandler.Render)
		})

		r.Route("/catalog", func(r chi.Router) {
			catalogHandler := handlers.NewCatalogHandler(rt.logger)
			r.Get("/", catalogHandler.ListCategories)
			r.Get("/templates", catalogHandler.ListTemplates)
			r.Get("/templates/{name}", catalogHandler.GetTemplate)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
