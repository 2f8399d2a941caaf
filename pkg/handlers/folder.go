package handlers

import (
	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/davidmrtn/jobtree/pkg/relocate"
)

// FolderHandler moves folders together with their subtrees. Destinations
// exclude the folder itself and everything below it, so a move can never
// create a cycle.
type FolderHandler struct {
	ns    namespace.Service
	authz auth.Authorizer
}

// NewFolder creates the folder handler.
func NewFolder(ns namespace.Service, authz auth.Authorizer) *FolderHandler {
	return &FolderHandler{ns: ns, authz: authz}
}

func (h *FolderHandler) Name() string { return "folder" }

func (h *FolderHandler) Applicability(item *namespace.Node) relocate.HandlingMode {
	if item.IsFolder() && !item.IsRoot() {
		return relocate.ModeHandle
	}
	return relocate.ModeSkip
}

func (h *FolderHandler) Destinations(item *namespace.Node) []*namespace.Node {
	var out []*namespace.Node
	for _, folder := range h.ns.Folders() {
		if folder == item || item.Contains(folder) {
			continue
		}
		if h.authz.Has(auth.PermCreate, folder.FullName()) {
			out = append(out, folder)
		}
	}
	return out
}

func (h *FolderHandler) Handle(item, dest *namespace.Node, rest []relocate.Handler) (*namespace.Node, error) {
	return h.ns.Move(item, dest)
}
