package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	domaincfg "codoc-backend/domain/config"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DynamicConfig represents runtime-changeable configuration loaded from YAML
type DynamicConfig struct {
	Limits    Limits          `yaml:"limits"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// Limits holds per-document limits
type Limits struct {
	MaxNodesPerDocument int `yaml:"maxNodesPerDocument"`
	MaxEdgesPerDocument int `yaml:"maxEdgesPerDocument"`
}

// WebSocketConfig holds WebSocket tuning
type WebSocketConfig struct {
	MaxMessageSize  int64 `yaml:"maxMessageSize"`
	SendQueueSize   int   `yaml:"sendQueueSize"`
	PingIntervalSec int   `yaml:"pingIntervalSec"`
}

// DefaultDynamicConfig returns the configuration used when no file is given
func DefaultDynamicConfig() *DynamicConfig {
	defaults := domaincfg.DefaultDomainConfig()
	return &DynamicConfig{
		Limits: Limits{
			MaxNodesPerDocument: defaults.MaxNodesPerDocument,
			MaxEdgesPerDocument: defaults.MaxEdgesPerDocument,
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize:  512 * 1024,
			SendQueueSize:   256,
			PingIntervalSec: 30,
		},
	}
}

// DomainConfig converts the dynamic limits into the domain's config type
func (c *DynamicConfig) DomainConfig() domaincfg.DomainConfig {
	return domaincfg.DomainConfig{
		MaxNodesPerDocument: c.Limits.MaxNodesPerDocument,
		MaxEdgesPerDocument: c.Limits.MaxEdgesPerDocument,
	}
}

// ConfigWatcher watches the YAML limits file for changes and keeps the
// current configuration available to callers. Documents pick limits up at
// creation time only.
type ConfigWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *DynamicConfig
	mu       sync.RWMutex
	onChange []func(*DynamicConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewConfigWatcher creates a watcher over the given YAML file. An empty
// path yields a watcher that only serves defaults.
func NewConfigWatcher(configPath string, logger *zap.Logger) (*ConfigWatcher, error) {
	cw := &ConfigWatcher{
		path:    configPath,
		current: DefaultDynamicConfig(),
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
	if configPath == "" {
		return cw, nil
	}

	loaded, err := loadConfigFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}
	cw.current = loaded

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}
	// Watch the directory too so atomic saves via rename are seen.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}
	cw.watcher = watcher
	return cw, nil
}

// Start begins watching for configuration changes
func (w *ConfigWatcher) Start() {
	if w.watcher == nil {
		return
	}
	go w.watchLoop()
	w.logger.Info("configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching for configuration changes
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *ConfigWatcher) watchLoop() {
	var debounceTimer *time.Timer
	debounceDuration := 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, func() {
					w.handleConfigChange()
				})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *ConfigWatcher) handleConfigChange() {
	newConfig, err := loadConfigFromFile(w.path)
	if err != nil {
		w.logger.Error("failed to reload configuration", zap.Error(err))
		return
	}
	if err := validateConfig(newConfig); err != nil {
		w.logger.Error("invalid configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	oldConfig := w.current
	w.current = newConfig
	handlers := w.onChange
	w.mu.Unlock()

	if oldConfig.Limits != newConfig.Limits {
		w.logger.Info("document limits changed",
			zap.Int("max_nodes", newConfig.Limits.MaxNodesPerDocument),
			zap.Int("max_edges", newConfig.Limits.MaxEdgesPerDocument),
		)
	}

	for _, handler := range handlers {
		go handler(newConfig)
	}
}

func validateConfig(cfg *DynamicConfig) error {
	if cfg.Limits.MaxNodesPerDocument <= 0 {
		return fmt.Errorf("maxNodesPerDocument must be positive")
	}
	if cfg.Limits.MaxEdgesPerDocument <= 0 {
		return fmt.Errorf("maxEdgesPerDocument must be positive")
	}
	if cfg.WebSocket.SendQueueSize <= 0 {
		return fmt.Errorf("sendQueueSize must be positive")
	}
	return nil
}

// OnChange registers a callback for configuration changes
func (w *ConfigWatcher) OnChange(handler func(*DynamicConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// GetCurrent returns the current configuration
func (w *ConfigWatcher) GetCurrent() *DynamicConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// GetLimits returns the current per-document limits
func (w *ConfigWatcher) GetLimits() domaincfg.DomainConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current.DomainConfig()
}

func loadConfigFromFile(path string) (*DynamicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultDynamicConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return cfg, nil
}
