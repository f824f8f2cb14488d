// Package aggregates contains the document aggregate root.
package aggregates

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"codoc-backend/domain/config"
	"codoc-backend/domain/core/entities"
	"codoc-backend/domain/core/valueobjects"
	"codoc-backend/domain/events"
	apperrors "codoc-backend/pkg/errors"
	"codoc-backend/pkg/plantuml"
)

// DefaultCode is the source every new document starts with
const DefaultCode = `@startuml
participant User
participant "Web App" as App
participant "PlantUML Server" as Server

User -> App: Type PlantUML code
activate App
App -> App: Detect diagram type
App -> Server: Send encoded text
activate Server
Server --> App: Return SVG image
deactivate Server
App --> User: Display Diagram
deactivate App
@enduml`

// Edge is a directed connection between two visual nodes
type Edge struct {
	ID        valueobjects.EdgeID
	SourceID  valueobjects.NodeID
	TargetID  valueobjects.NodeID
	CreatedAt time.Time
}

// PresenceEntry is the ephemeral identity of one connected session
type PresenceEntry struct {
	Token    string
	Name     string
	Color    string
	JoinedAt time.Time
}

// NodeView is a read-only snapshot of a visual node
type NodeView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// EdgeView is a read-only snapshot of a visual edge
type EdgeView struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// PresenceView is a read-only snapshot of one presence entry
type PresenceView struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Snapshot is a consistent read of the whole document
type Snapshot struct {
	ShareID     string         `json:"shareId"`
	Code        string         `json:"code"`
	DiagramType string         `json:"diagramType"`
	Nodes       []NodeView     `json:"nodes"`
	Edges       []EdgeView     `json:"edges"`
	Presence    []PresenceView `json:"presence"`
	Version     int            `json:"version"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Document is the aggregate root for one collaborative diagram. It owns the
// raw source, the derived diagram type, the visual node/edge sets and the
// presence entries; external callers interact only through its operations.
//
// All mutations on one document serialize behind its own lock, so edits to
// different documents never contend. The diagram type is recomputed inside
// the same critical section as the code change and is therefore never stale.
type Document struct {
	mu sync.RWMutex

	shareID     valueobjects.ShareID
	code        string
	diagramType string
	nodes       []*entities.Node // insertion order is rendering order
	nodeIndex   map[valueobjects.NodeID]*entities.Node
	edges       []*Edge
	edgeIndex   map[valueobjects.EdgeID]*Edge
	presence    map[string]*PresenceEntry
	cfg         config.DomainConfig
	createdAt   time.Time
	updatedAt   time.Time
	version     int
	events      []events.DomainEvent
}

// NewDocument creates a document for the given share id with the default
// starter source
func NewDocument(shareID valueobjects.ShareID, cfg config.DomainConfig) *Document {
	now := time.Now()
	return &Document{
		shareID:     shareID,
		code:        DefaultCode,
		diagramType: plantuml.Classify(DefaultCode),
		nodeIndex:   make(map[valueobjects.NodeID]*entities.Node),
		edgeIndex:   make(map[valueobjects.EdgeID]*Edge),
		presence:    make(map[string]*PresenceEntry),
		cfg:         cfg,
		createdAt:   now,
		updatedAt:   now,
		version:     1,
	}
}

// ShareID returns the document's share id
func (d *Document) ShareID() valueobjects.ShareID {
	return d.shareID
}

// Code returns the current raw source
func (d *Document) Code() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.code
}

// DiagramType returns the classifier's label for the current source
func (d *Document) DiagramType() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.diagramType
}

// Version returns the mutation counter
func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// CreatedAt returns when the document was created
func (d *Document) CreatedAt() time.Time {
	return d.createdAt
}

// SetCode replaces the raw source atomically and recomputes the diagram type
// in the same step. Free-text edits never re-derive the visual graph.
func (d *Document) SetCode(code string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.code = code
	d.diagramType = plantuml.Classify(code)
	d.touch()
	d.record(events.NewCodeUpdated(d.shareID.String(), code, d.diagramType))
}

// AddNode creates a node of the given kind with a generated id and the
// kind-derived default label, appended in insertion order
func (d *Document) AddNode(kind entities.NodeKind) (NodeView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.nodes) >= d.cfg.MaxNodesPerDocument {
		return NodeView{}, apperrors.NewValidation(
			fmt.Sprintf("maximum nodes reached: %d", d.cfg.MaxNodesPerDocument))
	}

	node := entities.NewNode(kind)
	d.nodes = append(d.nodes, node)
	d.nodeIndex[node.ID()] = node
	d.touch()
	d.record(events.NewNodeAdded(d.shareID.String(), node.ID().String(), string(kind), node.Label()))

	return nodeView(node), nil
}

// DeleteNode removes the node and, atomically, every edge touching it.
// Absent ids are a benign no-op.
func (d *Document) DeleteNode(nodeID valueobjects.NodeID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.nodeIndex[nodeID]; !exists {
		return
	}

	var removedEdges []string
	kept := d.edges[:0]
	for _, edge := range d.edges {
		if edge.SourceID.Equals(nodeID) || edge.TargetID.Equals(nodeID) {
			delete(d.edgeIndex, edge.ID)
			removedEdges = append(removedEdges, edge.ID.String())
			continue
		}
		kept = append(kept, edge)
	}
	d.edges = kept

	for i, node := range d.nodes {
		if node.ID().Equals(nodeID) {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			break
		}
	}
	delete(d.nodeIndex, nodeID)

	d.touch()
	d.record(events.NewNodeRemoved(d.shareID.String(), nodeID.String(), removedEdges))
}

// UpdateNodeLabel replaces the node's label in place. Absent ids are a
// benign no-op.
func (d *Document) UpdateNodeLabel(nodeID valueobjects.NodeID, label string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	node, exists := d.nodeIndex[nodeID]
	if !exists {
		return
	}
	node.SetLabel(label)
	d.touch()
	d.record(events.NewNodeLabelUpdated(d.shareID.String(), nodeID.String(), label))
}

// AddEdge connects two live nodes. Both endpoints must exist at creation
// time; self-loops are permitted at this level (the linking gesture cancels
// them before they get here).
func (d *Document) AddEdge(sourceID, targetID valueobjects.NodeID) (EdgeView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.nodeIndex[sourceID]; !exists {
		return EdgeView{}, apperrors.NewInvalidReference("source node does not exist: " + sourceID.String())
	}
	if _, exists := d.nodeIndex[targetID]; !exists {
		return EdgeView{}, apperrors.NewInvalidReference("target node does not exist: " + targetID.String())
	}
	if len(d.edges) >= d.cfg.MaxEdgesPerDocument {
		return EdgeView{}, apperrors.NewValidation(
			fmt.Sprintf("maximum edges reached: %d", d.cfg.MaxEdgesPerDocument))
	}

	edge := &Edge{
		ID:        valueobjects.NewEdgeID(),
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}
	d.edges = append(d.edges, edge)
	d.edgeIndex[edge.ID] = edge
	d.touch()
	d.record(events.NewEdgeAdded(d.shareID.String(), edge.ID.String(), sourceID.String(), targetID.String()))

	return edgeView(edge), nil
}

// DeleteEdge removes the edge. Absent ids are a benign no-op.
func (d *Document) DeleteEdge(edgeID valueobjects.EdgeID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.edgeIndex[edgeID]; !exists {
		return
	}
	for i, edge := range d.edges {
		if edge.ID == edgeID {
			d.edges = append(d.edges[:i], d.edges[i+1:]...)
			break
		}
	}
	delete(d.edgeIndex, edgeID)
	d.touch()
	d.record(events.NewEdgeRemoved(d.shareID.String(), edgeID.String()))
}

// RegenerateCode deterministically rebuilds the raw source from the visual
// graph: one declaration line per node in insertion order, then one relation
// line per edge in insertion order. This is the only direction of text/graph
// synchronization; free-text edits never flow back into the graph.
func (d *Document) RegenerateCode() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines := []string{"@startuml"}
	for _, node := range d.nodes {
		label := strings.ReplaceAll(node.Label(), `"`, "")
		lines = append(lines, fmt.Sprintf("%s \"%s\" as %s",
			node.Kind().DeclarationKeyword(), label, node.ID()))
	}
	lines = append(lines, "")
	for _, edge := range d.edges {
		lines = append(lines, fmt.Sprintf("%s --> %s", edge.SourceID, edge.TargetID))
	}
	lines = append(lines, "@enduml")

	d.code = strings.Join(lines, "\n")
	d.diagramType = plantuml.Classify(d.code)
	d.touch()
	d.record(events.NewCodeUpdated(d.shareID.String(), d.code, d.diagramType))

	return d.code
}

// Join registers a session's presence. It is idempotent: a second join with
// the same token keeps the original entry untouched and reports created=false.
func (d *Document) Join(token, name, color string) (PresenceView, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, exists := d.presence[token]; exists {
		return PresenceView{Name: entry.Name, Color: entry.Color}, false
	}

	entry := &PresenceEntry{
		Token:    token,
		Name:     name,
		Color:    color,
		JoinedAt: time.Now(),
	}
	d.presence[token] = entry
	d.record(events.NewUserJoined(d.shareID.String(), name, color))

	return PresenceView{Name: name, Color: color}, true
}

// Leave removes a session's presence entry, reporting whether one existed
func (d *Document) Leave(token string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, exists := d.presence[token]
	if !exists {
		return false
	}
	delete(d.presence, token)
	d.record(events.NewUserLeft(d.shareID.String(), entry.Name))
	return true
}

// Nodes returns the visual nodes in insertion order
func (d *Document) Nodes() []NodeView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nodeViews()
}

// Edges returns the visual edges in insertion order
func (d *Document) Edges() []EdgeView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.edgeViews()
}

// HasNode reports whether the node id is live in this document
func (d *Document) HasNode(nodeID valueobjects.NodeID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, exists := d.nodeIndex[nodeID]
	return exists
}

// Presence returns the active presence entries ordered by join time
func (d *Document) Presence() []PresenceView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.presenceViews()
}

// GetSnapshot returns a consistent view of the whole document: no partially
// applied mutation is ever observable.
func (d *Document) GetSnapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return Snapshot{
		ShareID:     d.shareID.String(),
		Code:        d.code,
		DiagramType: d.diagramType,
		Nodes:       d.nodeViews(),
		Edges:       d.edgeViews(),
		Presence:    d.presenceViews(),
		Version:     d.version,
		UpdatedAt:   d.updatedAt,
	}
}

// GetUncommittedEvents returns the events recorded since the last commit
func (d *Document) GetUncommittedEvents() []events.DomainEvent {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]events.DomainEvent, len(d.events))
	copy(out, d.events)
	return out
}

// MarkEventsAsCommitted clears the recorded events
func (d *Document) MarkEventsAsCommitted() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = nil
}

// DrainEvents atomically returns and clears the recorded events
func (d *Document) DrainEvents() []events.DomainEvent {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := d.events
	d.events = nil
	return out
}

// Validate checks the aggregate invariants: no edge may reference a node
// that is not live, and the indexes must agree with the ordered sets.
func (d *Document) Validate() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, edge := range d.edges {
		if _, exists := d.nodeIndex[edge.SourceID]; !exists {
			return apperrors.NewValidation("edge references non-existent source node")
		}
		if _, exists := d.nodeIndex[edge.TargetID]; !exists {
			return apperrors.NewValidation("edge references non-existent target node")
		}
	}
	if len(d.nodes) != len(d.nodeIndex) {
		return apperrors.NewValidation("node index out of sync")
	}
	if len(d.edges) != len(d.edgeIndex) {
		return apperrors.NewValidation("edge index out of sync")
	}
	return nil
}

// Internal helpers. Callers must hold the appropriate lock.

func (d *Document) touch() {
	d.updatedAt = time.Now()
	d.version++
}

func (d *Document) record(event events.DomainEvent) {
	d.events = append(d.events, event)
}

func (d *Document) nodeViews() []NodeView {
	out := make([]NodeView, 0, len(d.nodes))
	for _, node := range d.nodes {
		out = append(out, nodeView(node))
	}
	return out
}

func (d *Document) edgeViews() []EdgeView {
	out := make([]EdgeView, 0, len(d.edges))
	for _, edge := range d.edges {
		out = append(out, edgeView(edge))
	}
	return out
}

func (d *Document) presenceViews() []PresenceView {
	entries := make([]*PresenceEntry, 0, len(d.presence))
	for _, entry := range d.presence {
		entries = append(entries, entry)
	}
	// Stable ordering for clients: oldest joiner first.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].JoinedAt.Before(entries[j].JoinedAt)
	})
	out := make([]PresenceView, 0, len(entries))
	for _, entry := range entries {
		out = append(out, PresenceView{Name: entry.Name, Color: entry.Color})
	}
	return out
}

func nodeView(node *entities.Node) NodeView {
	return NodeView{
		ID:    node.ID().String(),
		Kind:  string(node.Kind()),
		Label: node.Label(),
	}
}

func edgeView(edge *Edge) EdgeView {
	return EdgeView{
		ID:       edge.ID.String(),
		SourceID: edge.SourceID.String(),
		TargetID: edge.TargetID.String(),
	}
}
