package services

import (
	"strings"
	"testing"

	"codoc-backend/domain/core/valueobjects"
	apperrors "codoc-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareResolver_EmptyIDRedirectsToFreshID(t *testing.T) {
	store := newFakeStore()
	resolver := NewShareResolver(store)

	res, err := resolver.Resolve("")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(res.Redirect, "/doc/"))
	id := strings.TrimPrefix(res.Redirect, "/doc/")
	assert.Len(t, id, valueobjects.ShareIDLength)
	// A redirect never materializes a document.
	assert.Equal(t, 0, store.created)
}

func TestShareResolver_UnderscoreRedirectsToHyphen(t *testing.T) {
	store := newFakeStore()
	resolver := NewShareResolver(store)

	res, err := resolver.Resolve("my_shared_doc")
	require.NoError(t, err)

	assert.Equal(t, "/doc/my-shared-doc", res.Redirect)
	assert.Equal(t, 0, store.created)
}

func TestShareResolver_CanonicalIDBinds(t *testing.T) {
	store := newFakeStore()
	resolver := NewShareResolver(store)

	res, err := resolver.Resolve("my-shared-doc")
	require.NoError(t, err)

	assert.Empty(t, res.Redirect)
	assert.Equal(t, valueobjects.ShareID("my-shared-doc"), res.ShareID)
	assert.Equal(t, 1, store.created)
}

func TestShareResolver_RedirectThenBind(t *testing.T) {
	store := newFakeStore()
	resolver := NewShareResolver(store)

	res, err := resolver.Resolve("abc_123")
	require.NoError(t, err)
	require.Equal(t, "/doc/abc-123", res.Redirect)

	res, err = resolver.Resolve("abc-123")
	require.NoError(t, err)
	assert.Equal(t, valueobjects.ShareID("abc-123"), res.ShareID)
}

func TestShareResolver_InvalidCharacters(t *testing.T) {
	resolver := NewShareResolver(newFakeStore())

	_, err := resolver.Resolve("Not Valid!")
	assert.True(t, apperrors.IsValidation(err))
}
