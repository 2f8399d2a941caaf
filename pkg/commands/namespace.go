package commands

import (
	"io"
	"strings"

	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/errors"
	"github.com/davidmrtn/jobtree/pkg/handlers"
	"github.com/davidmrtn/jobtree/pkg/logging"
	"github.com/davidmrtn/jobtree/pkg/namespace"
	"github.com/davidmrtn/jobtree/pkg/relocate"
)

// CreateFolderOptions defines the options for the CreateFolder command.
type CreateFolderOptions struct {
	Store namespace.Store
	Auth  auth.Authorizer
	// Path is the folder path to create; missing segments are created.
	Path string
}

// CreateFolder creates a folder path, reusing existing segments.
func CreateFolder(opts CreateFolderOptions) (*namespace.Node, error) {
	path := strings.Trim(opts.Path, "/")
	if path == "" {
		return nil, errors.New(errors.ErrInvalidInput, "folder path must not be empty")
	}
	if !opts.Auth.Has(auth.PermCreate, path) {
		return nil, errors.Newf(errors.ErrPermission, "user '%s' may not create '%s'", opts.Auth.User(), path)
	}
	return namespace.EnsureFolderPath(opts.Store, path)
}

// AddJobOptions defines the options for the AddJob command.
type AddJobOptions struct {
	Store namespace.Store
	Auth  auth.Authorizer
	// Path is the job's full name; its parent folder must already exist.
	Path string
	// Config is an optional XML config document for the job.
	Config string
}

// AddJob creates a job inside an existing folder.
func AddJob(opts AddJobOptions) (*namespace.Node, error) {
	path := strings.Trim(opts.Path, "/")
	if path == "" {
		return nil, errors.New(errors.ErrInvalidInput, "job path must not be empty")
	}
	if !opts.Auth.Has(auth.PermCreate, path) {
		return nil, errors.Newf(errors.ErrPermission, "user '%s' may not create '%s'", opts.Auth.User(), path)
	}

	parentPath, name := splitPath(path)
	parent := opts.Store.Lookup(parentPath)
	if parent == nil {
		return nil, errors.Newf(errors.ErrNotFound, "no such folder '%s'", parentPath)
	}
	return opts.Store.CreateJob(parent, name, opts.Config)
}

func splitPath(path string) (string, string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// ImportOptions defines the options for the Import command.
type ImportOptions struct {
	Store namespace.Store
	Auth  auth.Authorizer
	// Seed is the YAML seed document.
	Seed io.Reader
}

// Import seeds the namespace from a YAML document. Administrators only.
func Import(opts ImportOptions) error {
	if err := opts.Auth.CheckAdmin(); err != nil {
		return err
	}

	seed, err := namespace.LoadSeed(opts.Seed)
	if err != nil {
		return err
	}
	if err := seed.Apply(opts.Store); err != nil {
		return err
	}

	log := logging.GetLogger("commands")
	log.Info().Int("items", len(seed.Items)).Msg("Namespace seeded")
	return nil
}

// HistoryOptions defines the options for the History command.
type HistoryOptions struct {
	Store namespace.Store
	// Item is the job's full name.
	Item string
}

// History returns a job's build history.
func History(opts HistoryOptions) ([]namespace.Build, error) {
	item := opts.Store.Lookup(opts.Item)
	if item == nil || item.IsRoot() {
		return nil, errors.Newf(errors.ErrNotFound, "no such item '%s'", opts.Item)
	}
	return opts.Store.Builds(item)
}

// DestinationsOptions defines the options for the Destinations command.
type DestinationsOptions struct {
	Store namespace.Store
	Auth  auth.Authorizer
	// Item is the full name of the item to inspect.
	Item string
}

// Destinations returns the containers the handler chain would accept as move
// targets for the item, in resolution order.
func Destinations(opts DestinationsOptions) ([]*namespace.Node, error) {
	item := opts.Store.Lookup(opts.Item)
	if item == nil || item.IsRoot() {
		return nil, errors.Newf(errors.ErrNotFound, "no such item '%s'", opts.Item)
	}
	chain := handlers.Default(opts.Store, opts.Auth)
	return relocate.ValidDestinations(item, chain), nil
}
