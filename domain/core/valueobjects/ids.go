// Package valueobjects holds the identifier types shared across the domain.
package valueobjects

import (
	"math/rand"
	"strings"

	apperrors "codoc-backend/pkg/errors"
)

// tokenAlphabet is the character class for generated ids: lowercase letters
// and digits, matching the wire format clients already rely on.
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const (
	// ShareIDLength is the fixed length of generated share ids.
	ShareIDLength = 10
	// shortTokenLength is the random suffix length for node and edge ids.
	shortTokenLength = 6
)

// randomToken returns n characters drawn from tokenAlphabet.
func randomToken(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(tokenAlphabet[rand.Intn(len(tokenAlphabet))])
	}
	return sb.String()
}

// NodeID identifies a visual node within a document
type NodeID string

// NewNodeID generates a node id of the form "<kind>_<token>". The token space
// is large enough that collisions within one document are negligible; ids are
// never reused.
func NewNodeID(kind string) NodeID {
	return NodeID(kind + "_" + randomToken(shortTokenLength))
}

// String returns the string representation
func (id NodeID) String() string {
	return string(id)
}

// Equals compares two node ids
func (id NodeID) Equals(other NodeID) bool {
	return id == other
}

// IsZero reports whether the id is empty
func (id NodeID) IsZero() bool {
	return id == ""
}

// EdgeID identifies a visual edge within a document
type EdgeID string

// NewEdgeID generates a fresh random edge id
func NewEdgeID() EdgeID {
	return EdgeID(randomToken(shortTokenLength))
}

// String returns the string representation
func (id EdgeID) String() string {
	return string(id)
}

// ShareID identifies one collaborative document instance
type ShareID string

// NewShareID generates a fresh share id of the fixed length and alphabet
func NewShareID() ShareID {
	return ShareID(randomToken(ShareIDLength))
}

// NormalizeShareID canonicalizes an inbound share id: any '_' separator is
// replaced by '-'. It reports whether the id was changed, in which case the
// caller must redirect rather than bind.
func NormalizeShareID(raw string) (ShareID, bool) {
	normalized := strings.ReplaceAll(raw, "_", "-")
	return ShareID(normalized), normalized != raw
}

// ParseShareID validates an already-canonical share id
func ParseShareID(raw string) (ShareID, error) {
	if raw == "" {
		return "", apperrors.NewValidation("share id cannot be empty")
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '-' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			continue
		}
		return "", apperrors.NewValidation("share id contains invalid characters")
	}
	return ShareID(raw), nil
}

// String returns the string representation
func (id ShareID) String() string {
	return string(id)
}
