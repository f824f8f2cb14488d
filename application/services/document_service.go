// Package services implements the application operations exposed over HTTP
// and WebSocket. Services own cross-document concerns (event fan-out,
// linking gestures, presence identity) and delegate document state changes
// to the aggregate.
package services

import (
	"context"

	"codoc-backend/domain/core/aggregates"
	"codoc-backend/domain/core/entities"
	"codoc-backend/domain/core/valueobjects"
	"codoc-backend/domain/events"
	apperrors "codoc-backend/pkg/errors"
	"codoc-backend/pkg/observability"
	"codoc-backend/pkg/plantuml"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EventPublisher fans a domain event out to every client connected to the
// document. The WebSocket broadcaster implements this.
type EventPublisher interface {
	Publish(shareID string, event events.DomainEvent)
}

// DocumentStore is the subset of the in-memory store the service needs
type DocumentStore interface {
	GetOrCreate(shareID valueobjects.ShareID) *aggregates.Document
}

// DocumentService coordinates all document operations. Mutations run under
// the aggregate's own lock; the service drains the recorded events afterward
// and publishes them outside that lock.
type DocumentService struct {
	store          DocumentStore
	publisher      EventPublisher
	linking        *LinkingManager
	plantUMLServer string
	logger         *zap.Logger
	tracer         trace.Tracer
}

// NewDocumentService creates the document service
func NewDocumentService(store DocumentStore, publisher EventPublisher, linking *LinkingManager, plantUMLServer string, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		store:          store,
		publisher:      publisher,
		linking:        linking,
		plantUMLServer: plantUMLServer,
		logger:         logger,
		tracer:         observability.Tracer("document-service"),
	}
}

// Snapshot returns the full current state of the document, creating it on
// first access
func (s *DocumentService) Snapshot(ctx context.Context, shareID valueobjects.ShareID) aggregates.Snapshot {
	_, span := s.tracer.Start(ctx, "DocumentService.Snapshot",
		trace.WithAttributes(attribute.String("share.id", shareID.String())))
	defer span.End()

	return s.store.GetOrCreate(shareID).GetSnapshot()
}

// UpdateCode replaces the document source with a free-text edit
func (s *DocumentService) UpdateCode(ctx context.Context, shareID valueobjects.ShareID, code string) aggregates.Snapshot {
	_, span := s.tracer.Start(ctx, "DocumentService.UpdateCode",
		trace.WithAttributes(attribute.String("share.id", shareID.String())))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	doc.SetCode(code)
	s.publishEvents(doc)
	observability.RecordOperation("update_code", nil)
	return doc.GetSnapshot()
}

// AddNode creates a node of the given kind
func (s *DocumentService) AddNode(ctx context.Context, shareID valueobjects.ShareID, kind string) (aggregates.NodeView, error) {
	_, span := s.tracer.Start(ctx, "DocumentService.AddNode",
		trace.WithAttributes(
			attribute.String("share.id", shareID.String()),
			attribute.String("node.kind", kind),
		))
	defer span.End()

	nodeKind, err := entities.ParseNodeKind(kind)
	if err != nil {
		observability.RecordOperation("add_node", err)
		return aggregates.NodeView{}, err
	}

	doc := s.store.GetOrCreate(shareID)
	view, err := doc.AddNode(nodeKind)
	if err != nil {
		span.RecordError(err)
		observability.RecordOperation("add_node", err)
		return aggregates.NodeView{}, err
	}
	s.publishEvents(doc)
	observability.RecordOperation("add_node", nil)
	return view, nil
}

// DeleteNode removes a node and its incident edges. Deleting an absent node
// is a no-op.
func (s *DocumentService) DeleteNode(ctx context.Context, shareID valueobjects.ShareID, nodeID valueobjects.NodeID) {
	_, span := s.tracer.Start(ctx, "DocumentService.DeleteNode",
		trace.WithAttributes(
			attribute.String("share.id", shareID.String()),
			attribute.String("node.id", nodeID.String()),
		))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	doc.DeleteNode(nodeID)
	s.publishEvents(doc)
	observability.RecordOperation("delete_node", nil)
}

// UpdateNodeLabel renames a node. Absent nodes are ignored.
func (s *DocumentService) UpdateNodeLabel(ctx context.Context, shareID valueobjects.ShareID, nodeID valueobjects.NodeID, label string) {
	_, span := s.tracer.Start(ctx, "DocumentService.UpdateNodeLabel",
		trace.WithAttributes(
			attribute.String("share.id", shareID.String()),
			attribute.String("node.id", nodeID.String()),
		))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	doc.UpdateNodeLabel(nodeID, label)
	s.publishEvents(doc)
	observability.RecordOperation("update_node_label", nil)
}

// AddEdge connects two live nodes
func (s *DocumentService) AddEdge(ctx context.Context, shareID valueobjects.ShareID, sourceID, targetID valueobjects.NodeID) (aggregates.EdgeView, error) {
	_, span := s.tracer.Start(ctx, "DocumentService.AddEdge",
		trace.WithAttributes(attribute.String("share.id", shareID.String())))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	view, err := doc.AddEdge(sourceID, targetID)
	if err != nil {
		span.RecordError(err)
		observability.RecordOperation("add_edge", err)
		return aggregates.EdgeView{}, err
	}
	s.publishEvents(doc)
	observability.RecordOperation("add_edge", nil)
	return view, nil
}

// DeleteEdge removes an edge. Deleting an absent edge is a no-op.
func (s *DocumentService) DeleteEdge(ctx context.Context, shareID valueobjects.ShareID, edgeID valueobjects.EdgeID) {
	_, span := s.tracer.Start(ctx, "DocumentService.DeleteEdge",
		trace.WithAttributes(attribute.String("share.id", shareID.String())))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	doc.DeleteEdge(edgeID)
	s.publishEvents(doc)
	observability.RecordOperation("delete_edge", nil)
}

// RegenerateCode rebuilds the document source from the visual graph
func (s *DocumentService) RegenerateCode(ctx context.Context, shareID valueobjects.ShareID) string {
	_, span := s.tracer.Start(ctx, "DocumentService.RegenerateCode",
		trace.WithAttributes(attribute.String("share.id", shareID.String())))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	code := doc.RegenerateCode()
	s.publishEvents(doc)
	observability.RecordOperation("regenerate_code", nil)
	return code
}

// StartLinking arms or cancels the connect gesture for the session. The
// returned flag reports whether a link is now pending.
func (s *DocumentService) StartLinking(ctx context.Context, shareID valueobjects.ShareID, sessionToken string, sourceID valueobjects.NodeID) (bool, error) {
	_, span := s.tracer.Start(ctx, "DocumentService.StartLinking",
		trace.WithAttributes(
			attribute.String("share.id", shareID.String()),
			attribute.String("node.id", sourceID.String()),
		))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	if !doc.HasNode(sourceID) {
		err := apperrors.NewInvalidReference("link source does not exist: " + sourceID.String())
		observability.RecordOperation("start_linking", err)
		return false, err
	}
	armed := s.linking.Start(sessionToken, sourceID)
	observability.RecordOperation("start_linking", nil)
	return armed, nil
}

// CompleteLinking finishes the connect gesture against targetID. Gestures
// with no armed source, a vanished source, or the source as its own target
// resolve to no edge without error. The gesture is always consumed.
func (s *DocumentService) CompleteLinking(ctx context.Context, shareID valueobjects.ShareID, sessionToken string, targetID valueobjects.NodeID) (aggregates.EdgeView, bool, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.CompleteLinking",
		trace.WithAttributes(
			attribute.String("share.id", shareID.String()),
			attribute.String("node.id", targetID.String()),
		))
	defer span.End()

	sourceID, ok := s.linking.Complete(sessionToken)
	if !ok {
		return aggregates.EdgeView{}, false, nil
	}
	if sourceID.Equals(targetID) {
		return aggregates.EdgeView{}, false, nil
	}

	edge, err := s.AddEdge(ctx, shareID, sourceID, targetID)
	if err != nil {
		if apperrors.IsInvalidReference(err) {
			// The source or target was deleted mid-gesture. The gesture
			// simply dissolves.
			return aggregates.EdgeView{}, false, nil
		}
		return aggregates.EdgeView{}, false, err
	}
	return edge, true, nil
}

// Join registers a session's presence and hands back its identity. Joining
// twice with the same token returns the original identity.
func (s *DocumentService) Join(ctx context.Context, shareID valueobjects.ShareID, sessionToken string) aggregates.PresenceView {
	_, span := s.tracer.Start(ctx, "DocumentService.Join",
		trace.WithAttributes(attribute.String("share.id", shareID.String())))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	view, created := doc.Join(sessionToken, RandomDisplayName(), RandomColor())
	if created {
		s.publishEvents(doc)
	}
	observability.RecordOperation("join", nil)
	return view
}

// Leave removes the session's presence entry and cancels any pending
// linking gesture it had open
func (s *DocumentService) Leave(ctx context.Context, shareID valueobjects.ShareID, sessionToken string) {
	_, span := s.tracer.Start(ctx, "DocumentService.Leave",
		trace.WithAttributes(attribute.String("share.id", shareID.String())))
	defer span.End()

	s.linking.Cancel(sessionToken)
	doc := s.store.GetOrCreate(shareID)
	if doc.Leave(sessionToken) {
		s.publishEvents(doc)
	}
	observability.RecordOperation("leave", nil)
}

// RenderURL builds the render server URL for the document's current source,
// choosing the output format by content
func (s *DocumentService) RenderURL(ctx context.Context, shareID valueobjects.ShareID) (string, string, error) {
	_, span := s.tracer.Start(ctx, "DocumentService.RenderURL",
		trace.WithAttributes(attribute.String("share.id", shareID.String())))
	defer span.End()

	doc := s.store.GetOrCreate(shareID)
	code := doc.Code()
	format := plantuml.PreferredFormat(code)
	url, err := plantuml.RenderURL(code, format, s.plantUMLServer)
	if err != nil {
		span.RecordError(err)
		observability.RecordOperation("render_url", err)
		return "", "", err
	}
	observability.RecordOperation("render_url", nil)
	return url, format, nil
}

// publishEvents drains the aggregate's recorded events and fans them out.
// Publishing happens outside the aggregate lock.
func (s *DocumentService) publishEvents(doc *aggregates.Document) {
	if s.publisher == nil {
		doc.DrainEvents()
		return
	}
	for _, event := range doc.DrainEvents() {
		s.publisher.Publish(event.GetAggregateID(), event)
	}
}
