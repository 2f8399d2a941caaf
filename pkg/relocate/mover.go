package relocate

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/errors"
	"github.com/davidmrtn/jobtree/pkg/logging"
	"github.com/davidmrtn/jobtree/pkg/namespace"
)

// Messages rendered into command results.
const (
	msgAdminOnly       = "Only administrator users can use the '-create' option."
	msgValidationError = "Error validating inputs"
	msgFinished        = "Command finished"
	msgNoDestination   = "Destination folder does not exist"
	msgNoPermission    = "You don't have permissions to move this element"
	msgNoHandler       = "No known way to handle the item"
)

// Mover runs move commands against a namespace through an ordered handler
// set. All collaborators are injected; a Mover holds no per-command state.
type Mover struct {
	ns       namespace.Service
	authz    auth.Authorizer
	handlers []Handler
	log      zerolog.Logger
}

// NewMover creates a Mover. The handler slice order defines chain priority.
func NewMover(ns namespace.Service, authz auth.Authorizer, handlers []Handler) *Mover {
	return &Mover{
		ns:       ns,
		authz:    authz,
		handlers: handlers,
		log:      logging.GetLogger("relocate"),
	}
}

// Request is one move command: a destination path, the items to move, and
// whether a missing destination may be created.
type Request struct {
	// Folder is the destination path, or the root token.
	Folder string
	// Items are the items to move, in input order.
	Items []*namespace.Node
	// Create allows auto-creation of a missing destination path.
	// Administrators only.
	Create bool
}

// Run validates the request and, if every check passes, moves the items.
// Every outcome is encoded in the Result; Run itself does not fail.
func (m *Mover) Run(req Request) *Result {
	if req.Create {
		// Auto-creating folders is for administrators only, checked once
		// before any validation or creation happens.
		if err := m.authz.CheckAdmin(); err != nil {
			m.log.Warn().Str("user", m.authz.User()).Msg("Non-admin requested -create")
			return failure(msgAdminOnly, nil, CodeError)
		}
	}

	validations, destination, err := m.validate(req)
	if err != nil {
		m.log.Error().Err(err).Str("folder", req.Folder).Msg("Error running move command")
		return failure(errMessage(err), nil, CodeError)
	}
	if len(validations) > 0 {
		return failure(msgValidationError, validations, CodeValidation)
	}

	outputs := m.execute(req.Items, destination, req.Folder)
	return success(msgFinished, outputs)
}

// validate accumulates every validation problem instead of failing fast: the
// destination's existence, each item's relocate permission, and each item's
// destination validity. The first item whose destination resolves fixes the
// container used for the whole command.
func (m *Mover) validate(req Request) ([]Output, *namespace.Node, error) {
	var validations []Output

	if !strings.EqualFold(req.Folder, namespace.RootToken) && m.ns.Lookup(req.Folder) == nil {
		if req.Create {
			if _, err := namespace.EnsureFolderPath(m.ns, req.Folder); err != nil {
				return nil, nil, err
			}
		} else {
			validations = append(validations, Output{req.Folder, msgNoDestination})
		}
	}

	// The destination path may come with or without a leading separator;
	// the root token normalizes to the root's empty full name.
	target := req.Folder
	if strings.EqualFold(target, namespace.RootToken) {
		target = ""
	}

	var destination *namespace.Node
	for _, item := range req.Items {
		if !m.authz.Has(auth.PermRelocate, item.FullName()) {
			validations = append(validations, Output{item.FullName(), msgNoPermission})
		}

		var dest *namespace.Node
		for _, candidate := range ValidDestinations(item, m.handlers) {
			full := candidate.FullName()
			if full == target || "/"+full == target {
				dest = candidate
				break
			}
		}

		if dest == nil {
			validations = append(validations, Output{
				item.FullName(),
				fmt.Sprintf("%s is not a valid destination for this element", req.Folder),
			})
		} else if destination == nil {
			// The destination is the same for all items; the first
			// successful resolution fixes it for the command.
			destination = dest
		}
	}

	return validations, destination, nil
}

// execute moves each item independently: a failure for one item never stops
// the rest of the batch.
func (m *Mover) execute(items []*namespace.Node, destination *namespace.Node, folder string) []Output {
	outputs := make([]Output, 0, len(items))

	for _, item := range items {
		itemName := item.FullName()

		if destination == item.Parent() {
			outputs = append(outputs, Output{
				itemName,
				fmt.Sprintf("The item is already in the '%s' folder. Skipping", folder),
			})
			continue
		}

		chain := BuildChain(item, m.handlers)
		if len(chain) == 0 {
			outputs = append(outputs, Output{itemName, msgNoHandler})
			continue
		}

		moved, err := chain[0].Handle(item, destination, chain[1:])
		if err != nil {
			m.log.Warn().Err(err).Str("item", itemName).Msg("Move failed")
			outputs = append(outputs, Output{
				itemName,
				fmt.Sprintf("Failed trying to move the item: %s", errMessage(err)),
			})
			continue
		}

		m.log.Info().Str("item", itemName).Str("to", moved.FullName()).Msg("Item moved")
		outputs = append(outputs, Output{
			itemName,
			fmt.Sprintf("Successfully moved to '%s'. Check '%s'", folder, moved.FullName()),
		})
	}

	return outputs
}

// errMessage extracts the human-readable part of an error, dropping the
// error-code prefix of coded errors.
func errMessage(err error) string {
	var coded *errors.CodedError
	if stderrors.As(err, &coded) && coded.Wrapped == nil {
		return coded.Message
	}
	return err.Error()
}
