// Package handlers implements the REST endpoints for documents, rendering
// and the snippet catalog.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "codoc-backend/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

// respondAppError maps the error taxonomy onto HTTP status codes
func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case apperrors.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case apperrors.IsInvalidReference(err):
		respondError(w, http.StatusConflict, err.Error())
	case apperrors.IsEncoding(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
