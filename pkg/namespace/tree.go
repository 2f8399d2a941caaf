package namespace

import (
	"strings"

	"github.com/davidmrtn/jobtree/pkg/errors"
)

// Tree is the in-memory namespace implementation. It is the single mutation
// point for the node graph: every structural change goes through it, keeping
// each node's parent reference and its parent's child list in agreement.
//
// Tree is not safe for concurrent use. A command invocation owns its tree for
// the duration of the run; persistent stores wrap a Tree and serialize writes
// themselves.
type Tree struct {
	root   *Node
	builds map[string][]Build
}

// NewTree creates an empty namespace.
func NewTree() *Tree {
	return &Tree{
		root:   newNode("", "", KindFolder, ""),
		builds: make(map[string][]Build),
	}
}

// Root returns the root container.
func (t *Tree) Root() *Node { return t.root }

// Lookup resolves a full name to a node. The empty name resolves to the
// root; unknown paths resolve to nil.
func (t *Tree) Lookup(fullName string) *Node {
	fullName = strings.Trim(fullName, "/")
	if fullName == "" {
		return t.root
	}

	current := t.root
	for _, segment := range strings.Split(fullName, "/") {
		if segment == "" {
			continue
		}
		current = current.Child(segment)
		if current == nil {
			return nil
		}
	}
	return current
}

// Folders returns every container, root first, in depth-first insertion order.
func (t *Tree) Folders() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.IsFolder() {
			out = append(out, n)
			for _, c := range n.children {
				walk(c)
			}
		}
	}
	walk(t.root)
	return out
}

// CreateFolder creates a folder under parent (nil means root).
func (t *Tree) CreateFolder(parent *Node, name string) (*Node, error) {
	return t.attach(parent, newNode("", name, KindFolder, ""))
}

// CreateJob creates a job under parent (nil means root). A non-empty config
// must be a well-formed XML document; it is stored in canonical form.
func (t *Tree) CreateJob(parent *Node, name, config string) (*Node, error) {
	if config != "" {
		canonical, err := CanonicalizeConfig(config)
		if err != nil {
			return nil, err
		}
		config = canonical
	}
	return t.attach(parent, newNode("", name, KindJob, config))
}

// Restore re-attaches a node with a known identity under parent. Used by
// persistent stores when loading a namespace from disk.
func (t *Tree) Restore(parent *Node, id, name string, kind Kind, config string) (*Node, error) {
	return t.attach(parent, newNode(id, name, kind, config))
}

func (t *Tree) attach(parent *Node, n *Node) (*Node, error) {
	if parent == nil {
		parent = t.root
	}
	if !parent.IsFolder() {
		return nil, errors.Newf(errors.ErrNotAFolder, "'%s' is not a folder", parent.FullName())
	}
	if n.name == "" || strings.Contains(n.name, "/") {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid item name %q", n.name)
	}
	if parent.Child(n.name) != nil {
		return nil, errors.Newf(errors.ErrNameTaken, "an item named '%s' already exists in '%s'", n.name, displayName(parent))
	}

	n.parent = parent
	parent.children = append(parent.children, n)
	return n, nil
}

// Move relocates item into dest. The node keeps its identity and its whole
// subtree; only the ownership edge changes.
func (t *Tree) Move(item *Node, dest *Node) (*Node, error) {
	if item.IsRoot() {
		return nil, errors.New(errors.ErrInvalidInput, "the root cannot be moved")
	}
	if dest == nil || !dest.IsFolder() {
		return nil, errors.New(errors.ErrNotAFolder, "move destination is not a folder")
	}
	if item == dest || item.Contains(dest) {
		return nil, errors.Newf(errors.ErrMove, "cannot move '%s' into its own subtree", item.FullName())
	}
	if dest.Child(item.name) != nil {
		return nil, errors.Newf(errors.ErrNameTaken, "an item named '%s' already exists in '%s'", item.name, displayName(dest))
	}

	old := item.parent
	for i, c := range old.children {
		if c == item {
			old.children = append(old.children[:i], old.children[i+1:]...)
			break
		}
	}
	item.parent = dest
	dest.children = append(dest.children, item)
	return item, nil
}

// RecordBuild appends a build to the item's history.
func (t *Tree) RecordBuild(item *Node, b Build) error {
	if item.IsFolder() {
		return errors.Newf(errors.ErrInvalidInput, "'%s' is a folder and has no builds", item.FullName())
	}
	t.builds[item.ID()] = append(t.builds[item.ID()], b)
	return nil
}

// Builds returns the item's history in recording order.
func (t *Tree) Builds(item *Node) ([]Build, error) {
	builds := t.builds[item.ID()]
	out := make([]Build, len(builds))
	copy(out, builds)
	return out, nil
}

// displayName renders a container name for messages, using the root token
// for the root container.
func displayName(n *Node) string {
	if n.IsRoot() {
		return RootToken
	}
	return n.FullName()
}

// EnsureFolderPath walks a slash-separated path left to right, reusing each
// existing folder and creating the missing ones. It fails if any segment is
// occupied by something that is not a folder.
func EnsureFolderPath(svc Service, path string) (*Node, error) {
	var parent *Node
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}

		toCheck := segment
		if parent != nil {
			toCheck = parent.FullName() + "/" + segment
		}

		current := svc.Lookup(toCheck)
		if current == nil {
			created, err := svc.CreateFolder(parent, segment)
			if err != nil {
				return nil, err
			}
			current = created
		} else if !current.IsFolder() {
			return nil, errors.Newf(errors.ErrNotAFolder,
				"Error trying to create the destination folder. '%s' is not a folder. Aborting", current.FullName())
		}

		parent = current
	}

	if parent == nil {
		return svc.Root(), nil
	}
	return parent, nil
}
