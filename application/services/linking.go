package services

import (
	"sync"

	"codoc-backend/domain/core/valueobjects"
)

// LinkingManager tracks the two-step connect gesture per session. A session
// has at most one pending link source at a time.
type LinkingManager struct {
	mu      sync.Mutex
	pending map[string]valueobjects.NodeID
}

// NewLinkingManager creates an empty linking manager
func NewLinkingManager() *LinkingManager {
	return &LinkingManager{
		pending: make(map[string]valueobjects.NodeID),
	}
}

// Start arms a link from sourceID for the session. Starting again on the
// same source cancels the gesture instead; starting on a different source
// rebinds it. The returned flag reports whether a link is now armed.
func (m *LinkingManager) Start(sessionToken string, sourceID valueobjects.NodeID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.pending[sessionToken]; ok && current.Equals(sourceID) {
		delete(m.pending, sessionToken)
		return false
	}
	m.pending[sessionToken] = sourceID
	return true
}

// Complete consumes the pending source for the session. The gesture is
// cleared whether or not a source was armed.
func (m *LinkingManager) Complete(sessionToken string) (valueobjects.NodeID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	source, ok := m.pending[sessionToken]
	delete(m.pending, sessionToken)
	return source, ok
}

// Cancel drops any pending source for the session
func (m *LinkingManager) Cancel(sessionToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, sessionToken)
}

// Pending reports the armed source for the session, if any
func (m *LinkingManager) Pending(sessionToken string) (valueobjects.NodeID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	source, ok := m.pending[sessionToken]
	return source, ok
}
