// Package handlers provides the built-in relocation handlers, registered in
// priority order by DefaultRegistry.
package handlers

import (
	"github.com/rs/zerolog"

	"github.com/davidmrtn/jobtree/pkg/logging"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/davidmrtn/jobtree/pkg/relocate"
)

// AuditHandler records every relocation attempt and delegates the actual
// move to the rest of the chain. It sits first so it sees the item before
// any handler mutates it.
type AuditHandler struct {
	log zerolog.Logger
}

// NewAudit creates the audit handler.
func NewAudit() *AuditHandler {
	return &AuditHandler{log: logging.GetLogger("handlers.audit")}
}

func (h *AuditHandler) Name() string { return "audit" }

// Applicability is always delegate: the audit handler never moves anything
// itself and never excludes itself from a chain.
func (h *AuditHandler) Applicability(item *namespace.Node) relocate.HandlingMode {
	return relocate.ModeDelegate
}

// Destinations contributes nothing; delegate-mode handlers have no say in
// destination resolution.
func (h *AuditHandler) Destinations(item *namespace.Node) []*namespace.Node {
	return nil
}

// Handle logs the attempt and hands the move to the remaining chain.
func (h *AuditHandler) Handle(item, dest *namespace.Node, rest []relocate.Handler) (*namespace.Node, error) {
	h.log.Info().
		Str("item", item.FullName()).
		Str("kind", item.Kind().String()).
		Str("dest", dest.FullName()).
		Msg("Relocating item")

	moved, err := relocate.Continue(item, dest, rest)
	if err != nil {
		h.log.Warn().Err(err).Str("item", item.Name()).Msg("Relocation failed")
		return nil, err
	}
	return moved, nil
}
