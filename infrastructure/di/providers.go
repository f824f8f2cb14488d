// Package di wires the application together with google/wire.
package di

import (
	"codoc-backend/application/services"
	"codoc-backend/infrastructure/config"
	"codoc-backend/infrastructure/persistence/memory"
	"codoc-backend/interfaces/http/rest"
	"codoc-backend/interfaces/websocket"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	ConfigWatcher *config.ConfigWatcher
	Logger        *zap.Logger
	Store         *memory.DocumentStore
	Hub           *websocket.Hub
	Broadcaster   *websocket.Broadcaster
	Service       *services.DocumentService
	Resolver      *services.ShareResolver
	WSServer      *websocket.Server
	Router        *rest.Router
}

// ProvideLogger creates the zap logger for the configured environment
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideConfigWatcher creates the dynamic limits watcher
func ProvideConfigWatcher(cfg *config.Config, logger *zap.Logger) (*config.ConfigWatcher, error) {
	return config.NewConfigWatcher(cfg.ConfigFile, logger)
}

// ProvideDocumentStore creates the in-memory document store, reading
// limits from the watcher at document creation time
func ProvideDocumentStore(watcher *config.ConfigWatcher, logger *zap.Logger) *memory.DocumentStore {
	return memory.NewDocumentStore(watcher.GetLimits, logger)
}

// ProvideHub creates the WebSocket hub
func ProvideHub(logger *zap.Logger) *websocket.Hub {
	return websocket.NewHub(logger)
}

// ProvideBroadcaster creates the event broadcaster
func ProvideBroadcaster(hub *websocket.Hub, logger *zap.Logger) *websocket.Broadcaster {
	return websocket.NewBroadcaster(hub, logger)
}

// ProvideLinkingManager creates the linking gesture tracker
func ProvideLinkingManager() *services.LinkingManager {
	return services.NewLinkingManager()
}

// ProvideDocumentService creates the document service
func ProvideDocumentService(
	store *memory.DocumentStore,
	broadcaster *websocket.Broadcaster,
	linking *services.LinkingManager,
	cfg *config.Config,
	logger *zap.Logger,
) *services.DocumentService {
	return services.NewDocumentService(store, broadcaster, linking, cfg.PlantUMLServer, logger)
}

// ProvideShareResolver creates the share id resolver
func ProvideShareResolver(store *memory.DocumentStore) *services.ShareResolver {
	return services.NewShareResolver(store)
}

// ProvideWebSocketServer creates the WebSocket server
func ProvideWebSocketServer(hub *websocket.Hub, service *services.DocumentService, logger *zap.Logger) *websocket.Server {
	return websocket.NewServer(hub, service, nil, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	service *services.DocumentService,
	resolver *services.ShareResolver,
	wsServer *websocket.Server,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(service, resolver, wsServer, logger, cfg.EnableCORS)
}
