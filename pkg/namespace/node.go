// Package namespace models the hierarchical job namespace: a tree of folders
// and jobs addressed by slash-separated full names. The root container has an
// empty full name and is addressed externally by the RootToken sentinel.
package namespace

import (
	"time"

	"github.com/google/uuid"
)

// RootToken is the external sentinel for the namespace root. Matching is
// case-insensitive; the empty string also resolves to root.
const RootToken = "jenkins"

// Kind classifies a node as a movable leaf or a container.
type Kind int

const (
	// KindJob is a leaf item carrying a config document and build history
	KindJob Kind = iota
	// KindFolder is a container capable of holding jobs and sub-folders
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindJob:
		return "job"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// Build is one entry in a job's execution history. History is keyed by the
// item's ID, so it follows the item across relocations.
type Build struct {
	Number  int
	Status  string
	Started time.Time
}

// Node is a single namespace entry. Nodes are created and mutated only
// through a Tree, which keeps the parent reference and the parent's child
// index in agreement.
type Node struct {
	id       string
	name     string
	kind     Kind
	config   string
	parent   *Node
	children []*Node
}

func newNode(id, name string, kind Kind, config string) *Node {
	if id == "" {
		id = uuid.NewString()
	}
	return &Node{id: id, name: name, kind: kind, config: config}
}

// ID returns the stable identifier of the node. It never changes, in
// particular not when the node is relocated.
func (n *Node) ID() string { return n.id }

// Name returns the node's short name, unique within its container.
func (n *Node) Name() string { return n.name }

// Kind returns whether the node is a job or a folder.
func (n *Node) Kind() Kind { return n.kind }

// Config returns the job's canonical XML config document. Empty for folders
// and for jobs created without one.
func (n *Node) Config() string { return n.config }

// Parent returns the owning container, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// IsFolder reports whether the node can contain other nodes.
func (n *Node) IsFolder() bool { return n.kind == KindFolder }

// IsRoot reports whether the node is the namespace root.
func (n *Node) IsRoot() bool { return n.parent == nil && n.name == "" }

// FullName returns the slash-separated path from the root, which itself has
// the empty full name.
func (n *Node) FullName() string {
	if n.parent == nil || n.parent.IsRoot() {
		return n.name
	}
	return n.parent.FullName() + "/" + n.name
}

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the direct child with the given short name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Contains reports whether other is a proper descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other.Parent(); p != nil; p = p.Parent() {
		if p == n {
			return true
		}
	}
	return false
}
