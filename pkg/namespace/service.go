package namespace

// Service is the narrow view of the namespace the relocation machinery
// consumes: lookups, folder enumeration, folder creation and the move
// mutation itself.
type Service interface {
	// Root returns the root container.
	Root() *Node

	// Lookup resolves a full name to a node, or nil if nothing exists at
	// that path. The empty full name resolves to the root.
	Lookup(fullName string) *Node

	// Folders returns every container in the namespace, root first, in
	// depth-first insertion order.
	Folders() []*Node

	// CreateFolder creates a folder under parent (nil means root).
	CreateFolder(parent *Node, name string) (*Node, error)

	// Move relocates item into dest and returns the moved item. The item
	// keeps its identity; only its ownership changes.
	Move(item *Node, dest *Node) (*Node, error)
}

// Store is the full namespace surface used by the CLI commands: everything
// the relocation core needs plus job creation and build history.
type Store interface {
	Service

	// CreateJob creates a job under parent (nil means root) with an
	// optional XML config document.
	CreateJob(parent *Node, name, config string) (*Node, error)

	// RecordBuild appends a build to the item's history.
	RecordBuild(item *Node, b Build) error

	// Builds returns the item's history in recording order.
	Builds(item *Node) ([]Build, error)
}
