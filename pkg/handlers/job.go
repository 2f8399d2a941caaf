package handlers

import (
	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/davidmrtn/jobtree/pkg/relocate"
)

// JobHandler moves leaf jobs. Any folder the caller may create items in —
// the root included — is a valid destination.
type JobHandler struct {
	ns    namespace.Service
	authz auth.Authorizer
}

// NewJob creates the job handler.
func NewJob(ns namespace.Service, authz auth.Authorizer) *JobHandler {
	return &JobHandler{ns: ns, authz: authz}
}

func (h *JobHandler) Name() string { return "job" }

func (h *JobHandler) Applicability(item *namespace.Node) relocate.HandlingMode {
	if item.Kind() == namespace.KindJob {
		return relocate.ModeHandle
	}
	return relocate.ModeSkip
}

func (h *JobHandler) Destinations(item *namespace.Node) []*namespace.Node {
	var out []*namespace.Node
	for _, folder := range h.ns.Folders() {
		if h.authz.Has(auth.PermCreate, folder.FullName()) {
			out = append(out, folder)
		}
	}
	return out
}

func (h *JobHandler) Handle(item, dest *namespace.Node, rest []relocate.Handler) (*namespace.Node, error) {
	return h.ns.Move(item, dest)
}
