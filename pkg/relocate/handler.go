// Package relocate implements the move machinery: an ordered chain of
// handlers that decide whether an item can be moved, where it may go, and
// which of them performs the move.
package relocate

import (
	"github.com/davidmrtn/jobtree/pkg/errors"
	"github.com/davidmrtn/jobtree/pkg/namespace"
)

// HandlingMode classifies a handler's relationship to an item.
type HandlingMode int

const (
	// ModeSkip excludes the handler from the item's chain entirely.
	ModeSkip HandlingMode = iota
	// ModeHandle means the handler knows how to move the item and
	// contributes valid destinations for it.
	ModeHandle
	// ModeDelegate keeps the handler in the chain without contributing
	// destinations; at move time it passes the item down the chain.
	ModeDelegate
)

func (m HandlingMode) String() string {
	switch m {
	case ModeSkip:
		return "skip"
	case ModeHandle:
		return "handle"
	case ModeDelegate:
		return "delegate"
	default:
		return "unknown"
	}
}

// Handler is a relocation policy for some class of items. Handlers are
// stateless; they are composed into an ordered chain per item, earlier
// registrations first.
type Handler interface {
	// Name identifies the handler in the registry and in logs.
	Name() string

	// Applicability classifies the handler's relationship to the item.
	// It must be side-effect free and consistent for a given item.
	Applicability(item *namespace.Node) HandlingMode

	// Destinations returns the containers this handler considers legal
	// move targets for the item under the caller's permissions. The
	// item's current container may be included; callers treat a move to
	// it as a no-op.
	Destinations(item *namespace.Node) []*namespace.Node

	// Handle either moves the item into dest and returns the moved item,
	// or hands the move to the remaining chain via Continue.
	Handle(item *namespace.Node, dest *namespace.Node, rest []Handler) (*namespace.Node, error)
}

// Continue passes the move to the remainder of the chain. An exhausted chain
// is a defined failure: a chain where every handler delegates means nobody
// actually performed the move.
func Continue(item *namespace.Node, dest *namespace.Node, rest []Handler) (*namespace.Node, error) {
	if len(rest) == 0 {
		return nil, errors.Newf(errors.ErrChainExhausted,
			"handler chain exhausted: no handler performed the move of '%s'", item.FullName())
	}
	return rest[0].Handle(item, dest, rest[1:])
}
