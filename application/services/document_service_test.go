package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"codoc-backend/domain/config"
	"codoc-backend/domain/core/aggregates"
	"codoc-backend/domain/core/valueobjects"
	"codoc-backend/domain/events"
	apperrors "codoc-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu      sync.Mutex
	docs    map[valueobjects.ShareID]*aggregates.Document
	created int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[valueobjects.ShareID]*aggregates.Document)}
}

func (s *fakeStore) GetOrCreate(shareID valueobjects.ShareID) *aggregates.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[shareID]; ok {
		return doc
	}
	doc := aggregates.NewDocument(shareID, config.DefaultDomainConfig())
	s.docs[shareID] = doc
	s.created++
	return doc
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *capturingPublisher) Publish(shareID string, event events.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.GetEventType()
	}
	return out
}

func newTestService() (*DocumentService, *capturingPublisher) {
	publisher := &capturingPublisher{}
	svc := NewDocumentService(newFakeStore(), publisher, NewLinkingManager(),
		"https://www.plantuml.com/plantuml", zap.NewNop())
	return svc, publisher
}

func TestDocumentService_UpdateCode(t *testing.T) {
	svc, publisher := newTestService()
	shareID := valueobjects.ShareID("abc123defg")

	snap := svc.UpdateCode(context.Background(), shareID, "class Foo {}")

	assert.Equal(t, "class Foo {}", snap.Code)
	assert.Equal(t, "Class", snap.DiagramType)
	assert.Contains(t, publisher.types(), events.EventTypeCodeUpdated)
}

func TestDocumentService_AddNode(t *testing.T) {
	svc, publisher := newTestService()
	shareID := valueobjects.ShareID("abc123defg")

	node, err := svc.AddNode(context.Background(), shareID, "actor")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(node.ID, "actor_"))
	assert.Equal(t, "Actor", node.Label)
	assert.Contains(t, publisher.types(), events.EventTypeNodeAdded)
}

func TestDocumentService_AddNode_UnknownKind(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddNode(context.Background(), valueobjects.ShareID("abc123defg"), "spaceship")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDocumentService_DeleteNode_PublishesCascade(t *testing.T) {
	svc, publisher := newTestService()
	shareID := valueobjects.ShareID("abc123defg")
	ctx := context.Background()

	a, err := svc.AddNode(ctx, shareID, "actor")
	require.NoError(t, err)
	b, err := svc.AddNode(ctx, shareID, "database")
	require.NoError(t, err)
	_, err = svc.AddEdge(ctx, shareID, valueobjects.NodeID(a.ID), valueobjects.NodeID(b.ID))
	require.NoError(t, err)

	svc.DeleteNode(ctx, shareID, valueobjects.NodeID(a.ID))

	types := publisher.types()
	assert.Contains(t, types, events.EventTypeNodeRemoved)
	snap := svc.Snapshot(ctx, shareID)
	assert.Len(t, snap.Nodes, 1)
	assert.Empty(t, snap.Edges)
}

func TestDocumentService_LinkingRoundTrip(t *testing.T) {
	svc, publisher := newTestService()
	shareID := valueobjects.ShareID("abc123defg")
	ctx := context.Background()

	a, err := svc.AddNode(ctx, shareID, "class")
	require.NoError(t, err)
	b, err := svc.AddNode(ctx, shareID, "class")
	require.NoError(t, err)

	armed, err := svc.StartLinking(ctx, shareID, "sess-1", valueobjects.NodeID(a.ID))
	require.NoError(t, err)
	assert.True(t, armed)

	edge, created, err := svc.CompleteLinking(ctx, shareID, "sess-1", valueobjects.NodeID(b.ID))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, a.ID, edge.SourceID)
	assert.Equal(t, b.ID, edge.TargetID)
	assert.Contains(t, publisher.types(), events.EventTypeEdgeAdded)
}

func TestDocumentService_LinkingSelfTargetDissolves(t *testing.T) {
	svc, _ := newTestService()
	shareID := valueobjects.ShareID("abc123defg")
	ctx := context.Background()

	a, err := svc.AddNode(ctx, shareID, "class")
	require.NoError(t, err)

	_, err = svc.StartLinking(ctx, shareID, "sess-1", valueobjects.NodeID(a.ID))
	require.NoError(t, err)

	_, created, err := svc.CompleteLinking(ctx, shareID, "sess-1", valueobjects.NodeID(a.ID))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, svc.Snapshot(ctx, shareID).Edges)
}

func TestDocumentService_LinkingSourceDeletedMidGesture(t *testing.T) {
	svc, _ := newTestService()
	shareID := valueobjects.ShareID("abc123defg")
	ctx := context.Background()

	a, err := svc.AddNode(ctx, shareID, "class")
	require.NoError(t, err)
	b, err := svc.AddNode(ctx, shareID, "class")
	require.NoError(t, err)

	_, err = svc.StartLinking(ctx, shareID, "sess-1", valueobjects.NodeID(a.ID))
	require.NoError(t, err)
	svc.DeleteNode(ctx, shareID, valueobjects.NodeID(a.ID))

	_, created, err := svc.CompleteLinking(ctx, shareID, "sess-1", valueobjects.NodeID(b.ID))
	require.NoError(t, err)
	assert.False(t, created)
}

func TestDocumentService_StartLinking_UnknownSource(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.StartLinking(context.Background(), valueobjects.ShareID("abc123defg"),
		"sess-1", valueobjects.NodeID("actor_missing"))
	assert.True(t, apperrors.IsInvalidReference(err))
}

func TestDocumentService_JoinAndLeave(t *testing.T) {
	svc, publisher := newTestService()
	shareID := valueobjects.ShareID("abc123defg")
	ctx := context.Background()

	identity := svc.Join(ctx, shareID, "sess-1")
	assert.NotEmpty(t, identity.Name)
	assert.True(t, strings.HasPrefix(identity.Color, "bg-"))

	// Rejoining with the same token keeps the identity stable.
	again := svc.Join(ctx, shareID, "sess-1")
	assert.Equal(t, identity, again)

	svc.Leave(ctx, shareID, "sess-1")
	assert.Empty(t, svc.Snapshot(ctx, shareID).Presence)

	types := publisher.types()
	assert.Contains(t, types, events.EventTypeUserJoined)
	assert.Contains(t, types, events.EventTypeUserLeft)
}

func TestDocumentService_LeaveCancelsPendingLink(t *testing.T) {
	svc, _ := newTestService()
	shareID := valueobjects.ShareID("abc123defg")
	ctx := context.Background()

	a, err := svc.AddNode(ctx, shareID, "class")
	require.NoError(t, err)
	b, err := svc.AddNode(ctx, shareID, "class")
	require.NoError(t, err)

	_, err = svc.StartLinking(ctx, shareID, "sess-1", valueobjects.NodeID(a.ID))
	require.NoError(t, err)
	svc.Leave(ctx, shareID, "sess-1")

	_, created, err := svc.CompleteLinking(ctx, shareID, "sess-1", valueobjects.NodeID(b.ID))
	require.NoError(t, err)
	assert.False(t, created)
}

func TestDocumentService_RenderURL(t *testing.T) {
	svc, _ := newTestService()
	shareID := valueobjects.ShareID("abc123defg")

	url, format, err := svc.RenderURL(context.Background(), shareID)
	require.NoError(t, err)

	assert.Equal(t, "svg", format)
	assert.True(t, strings.HasPrefix(url, "https://www.plantuml.com/plantuml/svg/"))
}

func TestDocumentService_RenderURL_DitaaUsesPNG(t *testing.T) {
	svc, _ := newTestService()
	shareID := valueobjects.ShareID("abc123defg")
	ctx := context.Background()

	svc.UpdateCode(ctx, shareID, "@startditaa\n+---+\n@endditaa")

	_, format, err := svc.RenderURL(ctx, shareID)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestRandomIdentity(t *testing.T) {
	name := RandomDisplayName()
	parts := strings.Split(name, " ")
	require.Len(t, parts, 2)

	color := RandomColor()
	assert.True(t, strings.HasPrefix(color, "bg-"))
	assert.True(t, strings.HasSuffix(color, "-500"))
}
