package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codoc-backend/application/services"
	"codoc-backend/domain/config"
	"codoc-backend/infrastructure/persistence/memory"
	"codoc-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewDocumentStore(config.DefaultDomainConfig, logger)
	service := services.NewDocumentService(store, nil, services.NewLinkingManager(),
		"https://www.plantuml.com/plantuml", logger)
	resolver := services.NewShareResolver(store)
	documentHandler := NewDocumentHandler(service, resolver, logger)
	renderHandler := NewRenderHandler(service, logger)
	catalogHandler := NewCatalogHandler(logger)

	router := chi.NewRouter()
	router.Use(middleware.Logger(logger))
	router.Get("/doc", documentHandler.ResolveDocument)
	router.Get("/doc/{shareID}", documentHandler.ResolveDocument)
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
			r.Get("/render-url", renderHandler.RenderURL)
		})
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCategories)
			r.Get("/templates/{name}", catalogHandler.GetTemplate)
		})
	})
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestResolveDocument_EmptyRedirectsThenBinds(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/doc", "")
	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/doc/"))

	rec = doRequest(t, router, http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, "Sequence", payload["diagramType"])
	assert.NotEmpty(t, payload["code"])
}

func TestResolveDocument_UnderscoreRedirect(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/doc/team_design_doc", "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/doc/team-design-doc", rec.Header().Get("Location"))
}

func TestUpdateCode(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPut, "/api/v1/documents/abc123defg/code",
		`{"code":"class Foo {}"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "Class", payload["diagramType"])
}

func TestNodeAndEdgeLifecycle(t *testing.T) {
	router := newTestRouter(t)
	base := "/api/v1/documents/abc123defg"

	rec := doRequest(t, router, http.MethodPost, base+"/nodes", `{"kind":"actor"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	actor := decodeBody(t, rec)
	actorID := actor["id"].(string)
	assert.True(t, strings.HasPrefix(actorID, "actor_"))
	assert.Equal(t, "Actor", actor["label"])

	rec = doRequest(t, router, http.MethodPost, base+"/nodes", `{"kind":"database"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	dbID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, router, http.MethodPost, base+"/edges",
		`{"sourceId":"`+actorID+`","targetId":"`+dbID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	edgeID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, router, http.MethodPut, base+"/nodes/"+actorID+"/label",
		`{"label":"Operator"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, base+"/regenerate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	code := decodeBody(t, rec)["code"].(string)
	assert.Contains(t, code, `actor "Operator" as `+actorID)
	assert.Contains(t, code, actorID+" --> "+dbID)

	// Cascade: deleting the actor also removes the edge.
	rec = doRequest(t, router, http.MethodDelete, base+"/nodes/"+actorID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, base+"/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decodeBody(t, rec)
	assert.Len(t, snapshot["nodes"], 1)
	assert.Empty(t, snapshot["edges"])

	// Deleting the already-cascaded edge is a no-op.
	rec = doRequest(t, router, http.MethodDelete, base+"/edges/"+edgeID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddNode_InvalidKind(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/documents/abc123defg/nodes",
		`{"kind":"spaceship"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddEdge_DeadEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/documents/abc123defg/edges",
		`{"sourceId":"actor_missing","targetId":"actor_gone"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLinkingEndpoints(t *testing.T) {
	router := newTestRouter(t)
	base := "/api/v1/documents/abc123defg"

	rec := doRequest(t, router, http.MethodPost, base+"/nodes", `{"kind":"class"}`)
	sourceID := decodeBody(t, rec)["id"].(string)
	rec = doRequest(t, router, http.MethodPost, base+"/nodes", `{"kind":"class"}`)
	targetID := decodeBody(t, rec)["id"].(string)

	rec = doRequest(t, router, http.MethodPost, base+"/link/start",
		`{"sessionToken":"sess-1","nodeId":"`+sourceID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["pending"])

	rec = doRequest(t, router, http.MethodPost, base+"/link/complete",
		`{"sessionToken":"sess-1","nodeId":"`+targetID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	payload := decodeBody(t, rec)
	assert.Equal(t, true, payload["created"])

	// Completing again without an armed source creates nothing.
	rec = doRequest(t, router, http.MethodPost, base+"/link/complete",
		`{"sessionToken":"sess-1","nodeId":"`+targetID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["created"])
}

func TestRenderURLEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/documents/abc123defg/render-url", "")
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "svg", payload["format"])
	assert.True(t, strings.HasPrefix(payload["url"].(string),
		"https://www.plantuml.com/plantuml/svg/"))
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/catalog/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.NotEmpty(t, payload["categories"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/catalog/templates/Class", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["code"], "class Car")

	rec = doRequest(t, router, http.MethodGet, "/api/v1/catalog/templates/Nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
