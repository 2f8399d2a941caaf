package handlers

import (
	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/davidmrtn/jobtree/pkg/registry"
	"github.com/davidmrtn/jobtree/pkg/relocate"
)

// DefaultRegistry wires the built-in handlers in priority order: audit
// first, then the job and folder movers. The registry's registration order
// is the chain order.
func DefaultRegistry(ns namespace.Service, authz auth.Authorizer) registry.Registry[relocate.Handler] {
	reg := registry.New[relocate.Handler]()
	registry.MustRegister[relocate.Handler](reg, "audit", NewAudit())
	registry.MustRegister[relocate.Handler](reg, "job", NewJob(ns, authz))
	registry.MustRegister[relocate.Handler](reg, "folder", NewFolder(ns, authz))
	return reg
}

// Default returns the built-in handler chain in priority order.
func Default(ns namespace.Service, authz auth.Authorizer) []relocate.Handler {
	return DefaultRegistry(ns, authz).Items()
}
