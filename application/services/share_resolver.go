package services

import (
	"strings"

	"codoc-backend/domain/core/valueobjects"
	apperrors "codoc-backend/pkg/errors"
)

// Resolution is the outcome of resolving a document path. Redirect carries
// the canonical path to send the client to instead; when it is empty the
// share id is bound and ShareID is valid.
type Resolution struct {
	ShareID  valueobjects.ShareID
	Redirect string
}

// ShareResolver maps request paths to documents. Fresh ids and normalized
// ids are answered with a redirect before any document is materialized, so
// only canonical ids ever reach the store.
type ShareResolver struct {
	store DocumentStore
}

// NewShareResolver creates the resolver
func NewShareResolver(store DocumentStore) *ShareResolver {
	return &ShareResolver{store: store}
}

// Resolve handles the share id from a /doc/{shareID} path segment.
// An empty id redirects to a freshly minted one. An id containing
// underscores redirects to its hyphenated form. Anything else binds a
// document, creating it on first access.
func (r *ShareResolver) Resolve(rawID string) (Resolution, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		fresh := valueobjects.NewShareID()
		return Resolution{Redirect: "/doc/" + fresh.String()}, nil
	}

	normalized, changed := valueobjects.NormalizeShareID(rawID)
	if changed {
		return Resolution{Redirect: "/doc/" + normalized.String()}, nil
	}

	shareID, err := valueobjects.ParseShareID(rawID)
	if err != nil {
		return Resolution{}, apperrors.NewValidation("invalid share id: " + rawID)
	}

	r.store.GetOrCreate(shareID)
	return Resolution{ShareID: shareID}, nil
}
