package events

import "time"

// Wire-level event types broadcast to connected clients
const (
	EventTypeCodeUpdated      = "CODE_UPDATED"
	EventTypeNodeAdded        = "NODE_ADDED"
	EventTypeNodeRemoved      = "NODE_REMOVED"
	EventTypeNodeLabelUpdated = "NODE_LABEL_UPDATED"
	EventTypeEdgeAdded        = "EDGE_ADDED"
	EventTypeEdgeRemoved      = "EDGE_REMOVED"
	EventTypeUserJoined       = "USER_JOINED"
	EventTypeUserLeft         = "USER_LEFT"
)

func newBase(shareID, eventType string) BaseEvent {
	return BaseEvent{
		AggregateID: shareID,
		EventType:   eventType,
		Timestamp:   time.Now(),
		Version:     1,
	}
}

// CodeUpdated is raised whenever the document's raw source changes, whether
// from a free-text edit or a graph regeneration
type CodeUpdated struct {
	BaseEvent
	ShareID     string `json:"shareId"`
	Code        string `json:"code"`
	DiagramType string `json:"diagramType"`
}

// NewCodeUpdated creates a CodeUpdated event
func NewCodeUpdated(shareID, code, diagramType string) CodeUpdated {
	return CodeUpdated{
		BaseEvent:   newBase(shareID, EventTypeCodeUpdated),
		ShareID:     shareID,
		Code:        code,
		DiagramType: diagramType,
	}
}

// NodeAdded is raised when a visual node is created
type NodeAdded struct {
	BaseEvent
	ShareID string `json:"shareId"`
	NodeID  string `json:"nodeId"`
	Kind    string `json:"kind"`
	Label   string `json:"label"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(shareID, nodeID, kind, label string) NodeAdded {
	return NodeAdded{
		BaseEvent: newBase(shareID, EventTypeNodeAdded),
		ShareID:   shareID,
		NodeID:    nodeID,
		Kind:      kind,
		Label:     label,
	}
}

// NodeRemoved is raised when a node is deleted; RemovedEdgeIDs lists the
// edges cascaded away in the same mutation
type NodeRemoved struct {
	BaseEvent
	ShareID        string   `json:"shareId"`
	NodeID         string   `json:"nodeId"`
	RemovedEdgeIDs []string `json:"removedEdgeIds"`
}

// NewNodeRemoved creates a NodeRemoved event
func NewNodeRemoved(shareID, nodeID string, removedEdgeIDs []string) NodeRemoved {
	return NodeRemoved{
		BaseEvent:      newBase(shareID, EventTypeNodeRemoved),
		ShareID:        shareID,
		NodeID:         nodeID,
		RemovedEdgeIDs: removedEdgeIDs,
	}
}

// NodeLabelUpdated is raised when a node's label changes
type NodeLabelUpdated struct {
	BaseEvent
	ShareID string `json:"shareId"`
	NodeID  string `json:"nodeId"`
	Label   string `json:"label"`
}

// NewNodeLabelUpdated creates a NodeLabelUpdated event
func NewNodeLabelUpdated(shareID, nodeID, label string) NodeLabelUpdated {
	return NodeLabelUpdated{
		BaseEvent: newBase(shareID, EventTypeNodeLabelUpdated),
		ShareID:   shareID,
		NodeID:    nodeID,
		Label:     label,
	}
}

// EdgeAdded is raised when an edge between two live nodes is created
type EdgeAdded struct {
	BaseEvent
	ShareID  string `json:"shareId"`
	EdgeID   string `json:"edgeId"`
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// NewEdgeAdded creates an EdgeAdded event
func NewEdgeAdded(shareID, edgeID, sourceID, targetID string) EdgeAdded {
	return EdgeAdded{
		BaseEvent: newBase(shareID, EventTypeEdgeAdded),
		ShareID:   shareID,
		EdgeID:    edgeID,
		SourceID:  sourceID,
		TargetID:  targetID,
	}
}

// EdgeRemoved is raised when an edge is deleted directly
type EdgeRemoved struct {
	BaseEvent
	ShareID string `json:"shareId"`
	EdgeID  string `json:"edgeId"`
}

// NewEdgeRemoved creates an EdgeRemoved event
func NewEdgeRemoved(shareID, edgeID string) EdgeRemoved {
	return EdgeRemoved{
		BaseEvent: newBase(shareID, EventTypeEdgeRemoved),
		ShareID:   shareID,
		EdgeID:    edgeID,
	}
}

// UserJoined is raised the first time a session joins a document. The session
// token itself is never broadcast.
type UserJoined struct {
	BaseEvent
	ShareID string `json:"shareId"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// NewUserJoined creates a UserJoined event
func NewUserJoined(shareID, name, color string) UserJoined {
	return UserJoined{
		BaseEvent: newBase(shareID, EventTypeUserJoined),
		ShareID:   shareID,
		Name:      name,
		Color:     color,
	}
}

// UserLeft is raised when a session's presence entry is removed
type UserLeft struct {
	BaseEvent
	ShareID string `json:"shareId"`
	Name    string `json:"name"`
}

// NewUserLeft creates a UserLeft event
func NewUserLeft(shareID, name string) UserLeft {
	return UserLeft{
		BaseEvent: newBase(shareID, EventTypeUserLeft),
		ShareID:   shareID,
		Name:      name,
	}
}
