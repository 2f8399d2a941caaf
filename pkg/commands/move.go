// Package commands implements the jobtree operations behind the CLI verbs.
// Each command is a function taking an options struct; collaborators (store,
// authorizer, handlers) are injected by the caller.
package commands

import (
	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/errors"
	"github.com/davidmrtn/jobtree/pkg/handlers"
	"github.com/davidmrtn/jobtree/pkg/logging"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/davidmrtn/jobtree/pkg/relocate"
)

// MoveOptions defines the options for the Move command.
type MoveOptions struct {
	// Store is the namespace to operate on.
	Store namespace.Store
	// Auth decides what the acting user may do.
	Auth auth.Authorizer
	// Handlers overrides the relocation chain. Empty means the default set.
	Handlers []relocate.Handler
	// Folder is the destination path, or the root token.
	Folder string
	// Items are the full names of the items to move, in input order.
	Items []string
	// Create allows auto-creating a missing destination (admins only).
	Create bool
}

// Move relocates the named items into the destination folder. Unresolvable
// item names are a command-line binding error, not a validation outcome.
func Move(opts MoveOptions) (*relocate.Result, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Move").Str("folder", opts.Folder).
		Strs("items", opts.Items).Bool("create", opts.Create).Msg("Executing command")

	items := make([]*namespace.Node, 0, len(opts.Items))
	for _, name := range opts.Items {
		item := opts.Store.Lookup(name)
		if item == nil || item.IsRoot() {
			return nil, errors.Newf(errors.ErrNotFound, "no such item '%s'", name)
		}
		items = append(items, item)
	}

	chain := opts.Handlers
	if len(chain) == 0 {
		chain = handlers.Default(opts.Store, opts.Auth)
	}

	mover := relocate.NewMover(opts.Store, opts.Auth, chain)
	result := mover.Run(relocate.Request{
		Folder: opts.Folder,
		Items:  items,
		Create: opts.Create,
	})

	log.Info().Str("command", "Move").Str("status", string(result.Status)).
		Int("outputs", len(result.Outputs)).Msg("Command finished")
	return result, nil
}
