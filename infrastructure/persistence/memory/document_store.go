// Package memory provides the process-local document store. Documents live
// for the lifetime of the server; there is no eviction and no durability.
package memory

import (
	"sync"

	"codoc-backend/domain/config"
	"codoc-backend/domain/core/aggregates"
	"codoc-backend/domain/core/valueobjects"
	"codoc-backend/pkg/observability"

	"go.uber.org/zap"
)

// LimitsProvider returns the per-document limits in effect at creation time.
// The dynamic config watcher supplies updated values without restarting.
type LimitsProvider func() config.DomainConfig

// DocumentStore holds every live document keyed by share id. Creation is
// lazy: the first access under a share id materializes the document.
type DocumentStore struct {
	mu     sync.RWMutex
	docs   map[valueobjects.ShareID]*aggregates.Document
	limits LimitsProvider
	logger *zap.Logger
}

// NewDocumentStore creates an empty store
func NewDocumentStore(limits LimitsProvider, logger *zap.Logger) *DocumentStore {
	if limits == nil {
		limits = config.DefaultDomainConfig
	}
	return &DocumentStore{
		docs:   make(map[valueobjects.ShareID]*aggregates.Document),
		limits: limits,
		logger: logger,
	}
}

// GetOrCreate returns the document for the share id, materializing it with
// the default template on first access. Concurrent callers for the same id
// all receive the same instance.
func (s *DocumentStore) GetOrCreate(shareID valueobjects.ShareID) *aggregates.Document {
	s.mu.RLock()
	doc, ok := s.docs[shareID]
	s.mu.RUnlock()
	if ok {
		return doc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[shareID]; ok {
		return doc
	}

	doc = aggregates.NewDocument(shareID, s.limits())
	s.docs[shareID] = doc
	observability.DocumentsOpen.Inc()
	s.logger.Info("document created",
		zap.String("share_id", shareID.String()),
		zap.String("diagram_type", doc.DiagramType()),
	)
	return doc
}

// Get returns the document if it already exists
func (s *DocumentStore) Get(shareID valueobjects.ShareID) (*aggregates.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[shareID]
	return doc, ok
}

// Len returns the number of live documents
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
