package handlers

import (
	"encoding/json"
	"net/http"

	"codoc-backend/application/services"
	"codoc-backend/domain/core/valueobjects"
	"codoc-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	service  *services.DocumentService
	resolver *services.ShareResolver
	logger   *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(service *services.DocumentService, resolver *services.ShareResolver, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:  service,
		resolver: resolver,
		logger:   logger,
	}
}

// UpdateCodeRequest is the body for replacing the document source
type UpdateCodeRequest struct {
	Code string `json:"code"`
}

// AddNodeRequest is the body for creating a visual node
type AddNodeRequest struct {
	Kind string `json:"kind" validate:"required,oneof=class interface actor component usecase database state generic"`
}

// UpdateLabelRequest is the body for renaming a node
type UpdateLabelRequest struct {
	Label string `json:"label" validate:"required,max=200"`
}

// AddEdgeRequest is the body for connecting two nodes directly
type AddEdgeRequest struct {
	SourceID string `json:"sourceId" validate:"required"`
	TargetID string `json:"targetId" validate:"required"`
}

// LinkRequest is the body for the two-step connect gesture
type LinkRequest struct {
	SessionToken string `json:"sessionToken" validate:"required"`
	NodeID       string `json:"nodeId" validate:"required"`
}

// ResolveDocument handles GET /doc and GET /doc/{shareID}. Fresh and
// non-canonical ids answer with a redirect to the canonical path; canonical
// ids bind the document and return its snapshot.
func (h *DocumentHandler) ResolveDocument(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "shareID")

	res, err := h.resolver.Resolve(rawID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusFound)
		return
	}

	respondJSON(w, http.StatusOK, h.service.Snapshot(r.Context(), res.ShareID))
}

// GetSnapshot handles GET /api/v1/documents/{shareID}
func (h *DocumentHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.service.Snapshot(r.Context(), shareID))
}

// UpdateCode handles PUT /api/v1/documents/{shareID}/code
func (h *DocumentHandler) UpdateCode(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}

	var req UpdateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	snap := h.service.UpdateCode(r.Context(), shareID, req.Code)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"code":        snap.Code,
		"diagramType": snap.DiagramType,
	})
}

// AddNode handles POST /api/v1/documents/{shareID}/nodes
func (h *DocumentHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}

	var req AddNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	node, err := h.service.AddNode(r.Context(), shareID, req.Kind)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, node)
}

// DeleteNode handles DELETE /api/v1/documents/{shareID}/nodes/{nodeID}
func (h *DocumentHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	if nodeID == "" {
		respondError(w, http.StatusBadRequest, "Node ID is required")
		return
	}

	h.service.DeleteNode(r.Context(), shareID, valueobjects.NodeID(nodeID))
	respondJSON(w, http.StatusOK, map[string]string{"id": nodeID})
}

// UpdateNodeLabel handles PUT /api/v1/documents/{shareID}/nodes/{nodeID}/label
func (h *DocumentHandler) UpdateNodeLabel(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}
	nodeID := chi.URLParam(r, "nodeID")

	var req UpdateLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	h.service.UpdateNodeLabel(r.Context(), shareID, valueobjects.NodeID(nodeID), req.Label)
	respondJSON(w, http.StatusOK, map[string]string{"id": nodeID, "label": req.Label})
}

// AddEdge handles POST /api/v1/documents/{shareID}/edges
func (h *DocumentHandler) AddEdge(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}

	var req AddEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	edge, err := h.service.AddEdge(r.Context(), shareID,
		valueobjects.NodeID(req.SourceID), valueobjects.NodeID(req.TargetID))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, edge)
}

// DeleteEdge handles DELETE /api/v1/documents/{shareID}/edges/{edgeID}
func (h *DocumentHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}
	edgeID := chi.URLParam(r, "edgeID")
	if edgeID == "" {
		respondError(w, http.StatusBadRequest, "Edge ID is required")
		return
	}

	h.service.DeleteEdge(r.Context(), shareID, valueobjects.EdgeID(edgeID))
	respondJSON(w, http.StatusOK, map[string]string{"id": edgeID})
}

// RegenerateCode handles POST /api/v1/documents/{shareID}/regenerate
func (h *DocumentHandler) RegenerateCode(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}

	code := h.service.RegenerateCode(r.Context(), shareID)
	respondJSON(w, http.StatusOK, map[string]string{"code": code})
}

// StartLinking handles POST /api/v1/documents/{shareID}/link/start
func (h *DocumentHandler) StartLinking(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}

	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	armed, err := h.service.StartLinking(r.Context(), shareID, req.SessionToken, valueobjects.NodeID(req.NodeID))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"pending": armed})
}

// CompleteLinking handles POST /api/v1/documents/{shareID}/link/complete
func (h *DocumentHandler) CompleteLinking(w http.ResponseWriter, r *http.Request) {
	shareID, ok := h.shareID(w, r)
	if !ok {
		return
	}

	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	edge, created, err := h.service.CompleteLinking(r.Context(), shareID, req.SessionToken, valueobjects.NodeID(req.NodeID))
	if err != nil {
		respondAppError(w, err)
		return
	}
	if !created {
		respondJSON(w, http.StatusOK, map[string]interface{}{"created": false})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"created": true, "edge": edge})
}

func (h *DocumentHandler) shareID(w http.ResponseWriter, r *http.Request) (valueobjects.ShareID, bool) {
	shareID, err := valueobjects.ParseShareID(chi.URLParam(r, "shareID"))
	if err != nil {
		respondAppError(w, err)
		return "", false
	}
	return shareID, true
}
