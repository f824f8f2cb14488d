// Package entities contains the visual building blocks owned by the document
// aggregate.
package entities

import (
	"codoc-backend/domain/core/valueobjects"
	apperrors "codoc-backend/pkg/errors"
)

// NodeKind enumerates the visual node palette
type NodeKind string

const (
	KindClass     NodeKind = "class"
	KindInterface NodeKind = "interface"
	KindActor     NodeKind = "actor"
	KindComponent NodeKind = "component"
	KindUsecase   NodeKind = "usecase"
	KindDatabase  NodeKind = "database"
	KindState     NodeKind = "state"
	KindGeneric   NodeKind = "generic"
)

// nodeKinds is the closed set of accepted kinds
var nodeKinds = map[NodeKind]bool{
	KindClass:     true,
	KindInterface: true,
	KindActor:     true,
	KindComponent: true,
	KindUsecase:   true,
	KindDatabase:  true,
	KindState:     true,
	KindGeneric:   true,
}

// ParseNodeKind validates a caller-supplied kind string
func ParseNodeKind(raw string) (NodeKind, error) {
	kind := NodeKind(raw)
	if !nodeKinds[kind] {
		return "", apperrors.NewValidation("unknown node kind: " + raw)
	}
	return kind, nil
}

// DeclarationKeyword returns the PlantUML keyword used to declare a node of
// this kind. Generic nodes render as rectangles.
func (k NodeKind) DeclarationKeyword() string {
	if k == KindGeneric {
		return "rectangle"
	}
	return string(k)
}

// DefaultLabel returns the label a freshly created node starts with
func (k NodeKind) DefaultLabel() string {
	s := string(k)
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// Node is a visual node on the diagram canvas. Its identity is stable for the
// document's lifetime; only the label is mutable.
type Node struct {
	id    valueobjects.NodeID
	kind  NodeKind
	label string
}

// NewNode creates a node of the given kind with a generated id and the
// kind-derived default label
func NewNode(kind NodeKind) *Node {
	return &Node{
		id:    valueobjects.NewNodeID(string(kind)),
		kind:  kind,
		label: kind.DefaultLabel(),
	}
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Kind returns the node's kind
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Label returns the node's current label
func (n *Node) Label() string {
	return n.label
}

// SetLabel replaces the node's label in place
func (n *Node) SetLabel(label string) {
	n.label = label
}
