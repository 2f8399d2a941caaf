// Package sqlitestore persists a namespace in an embedded SQLite database.
// The whole tree is loaded into memory at open time; mutations are applied to
// the in-memory tree first and written through to the database.
package sqlitestore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/davidmrtn/jobtree/pkg/errors"
	"github.com/davidmrtn/jobtree/pkg/logging"
	"github.com/davidmrtn/jobtree/pkg/namespace"
)

// Store is a namespace.Store backed by SQLite.
type Store struct {
	db   *sql.DB
	tree *namespace.Tree
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id        TEXT PRIMARY KEY,
		parent_id TEXT REFERENCES items(id),
		name      TEXT NOT NULL,
		kind      TEXT NOT NULL,
		config    TEXT NOT NULL DEFAULT '',
		UNIQUE(parent_id, name)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);`,
	`CREATE TABLE IF NOT EXISTS builds (
		item_id TEXT NOT NULL REFERENCES items(id),
		number  INTEGER NOT NULL,
		status  TEXT NOT NULL,
		started INTEGER NOT NULL,
		PRIMARY KEY (item_id, number)
	);`,
}

// Open opens (creating if necessary) the database at path and loads the
// namespace into memory. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, errors.ErrStoreOpen, "failed to create database directory")
		}
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreOpen, "failed to open database")
	}
	// modernc sqlite serializes access per connection; a single connection
	// avoids table-lock errors from concurrent write attempts.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, errors.ErrStoreOpen, "failed to initialize schema")
		}
	}

	s := &Store{db: db, tree: namespace.NewTree()}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}

	log := logging.GetLogger("sqlitestore")
	log.Debug().Str("path", path).Msg("Store opened")
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type itemRow struct {
	id       string
	parentID sql.NullString
	name     string
	kind     string
	config   string
}

// load rebuilds the in-memory tree from the items table. Rows are attached
// parents-first; rowid order preserves the original sibling order.
func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT id, parent_id, name, kind, config FROM items ORDER BY rowid`)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreRead, "failed to read items")
	}
	defer rows.Close()

	var pending []itemRow
	for rows.Next() {
		var r itemRow
		if err := rows.Scan(&r.id, &r.parentID, &r.name, &r.kind, &r.config); err != nil {
			return errors.Wrap(err, errors.ErrStoreRead, "failed to scan item")
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, errors.ErrStoreRead, "failed to read items")
	}

	byID := map[string]*namespace.Node{}
	for len(pending) > 0 {
		progressed := false
		var remaining []itemRow
		for _, r := range pending {
			var parent *namespace.Node
			if r.parentID.Valid {
				p, ok := byID[r.parentID.String]
				if !ok {
					remaining = append(remaining, r)
					continue
				}
				parent = p
			}

			kind := namespace.KindJob
			if r.kind == namespace.KindFolder.String() {
				kind = namespace.KindFolder
			}
			node, err := s.tree.Restore(parent, r.id, r.name, kind, r.config)
			if err != nil {
				return errors.Wrapf(err, errors.ErrStoreRead, "failed to restore item '%s'", r.name)
			}
			byID[r.id] = node
			progressed = true
		}
		if !progressed {
			return errors.Newf(errors.ErrStoreRead, "%d orphaned items in store", len(remaining))
		}
		pending = remaining
	}
	return nil
}

func parentID(n *namespace.Node) sql.NullString {
	if n == nil || n.IsRoot() {
		return sql.NullString{}
	}
	return sql.NullString{String: n.ID(), Valid: true}
}

// Root implements namespace.Service.
func (s *Store) Root() *namespace.Node { return s.tree.Root() }

// Lookup implements namespace.Service.
func (s *Store) Lookup(fullName string) *namespace.Node { return s.tree.Lookup(fullName) }

// Folders implements namespace.Service.
func (s *Store) Folders() []*namespace.Node { return s.tree.Folders() }

// CreateFolder creates a folder and persists it.
func (s *Store) CreateFolder(parent *namespace.Node, name string) (*namespace.Node, error) {
	node, err := s.tree.CreateFolder(parent, name)
	if err != nil {
		return nil, err
	}
	return s.persistNew(node)
}

// CreateJob creates a job and persists it.
func (s *Store) CreateJob(parent *namespace.Node, name, config string) (*namespace.Node, error) {
	node, err := s.tree.CreateJob(parent, name, config)
	if err != nil {
		return nil, err
	}
	return s.persistNew(node)
}

func (s *Store) persistNew(node *namespace.Node) (*namespace.Node, error) {
	_, err := s.db.Exec(
		`INSERT INTO items (id, parent_id, name, kind, config) VALUES (?, ?, ?, ?, ?)`,
		node.ID(), parentID(node.Parent()), node.Name(), node.Kind().String(), node.Config(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreWrite, "failed to persist '%s'", node.FullName())
	}
	return node, nil
}

// Move relocates item into dest and persists the new ownership edge.
func (s *Store) Move(item *namespace.Node, dest *namespace.Node) (*namespace.Node, error) {
	old := item.Parent()
	moved, err := s.tree.Move(item, dest)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(`UPDATE items SET parent_id = ? WHERE id = ?`, parentID(dest), item.ID()); err != nil {
		// Undo the in-memory move so tree and database stay in agreement.
		if _, undoErr := s.tree.Move(item, old); undoErr != nil {
			log := logging.GetLogger("sqlitestore")
			log.Error().Err(undoErr).
				Str("item", item.Name()).Msg("Failed to undo in-memory move after write failure")
		}
		return nil, errors.Wrapf(err, errors.ErrStoreWrite, "failed to persist move of '%s'", item.Name())
	}
	return moved, nil
}

// RecordBuild appends a build to the item's history. History rows reference
// the item's ID, so moving the item leaves its history untouched.
func (s *Store) RecordBuild(item *namespace.Node, b namespace.Build) error {
	if item.IsFolder() {
		return errors.Newf(errors.ErrInvalidInput, "'%s' is a folder and has no builds", item.FullName())
	}
	started := b.Started
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO builds (item_id, number, status, started) VALUES (?, ?, ?, ?)`,
		item.ID(), b.Number, b.Status, started.Unix(),
	)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to record build #%d of '%s'", b.Number, item.FullName())
	}
	return nil
}

// Builds returns the item's history in build-number order.
func (s *Store) Builds(item *namespace.Node) ([]namespace.Build, error) {
	rows, err := s.db.Query(
		`SELECT number, status, started FROM builds WHERE item_id = ? ORDER BY number`, item.ID(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreRead, "failed to read builds of '%s'", item.FullName())
	}
	defer rows.Close()

	var builds []namespace.Build
	for rows.Next() {
		var b namespace.Build
		var started int64
		if err := rows.Scan(&b.Number, &b.Status, &started); err != nil {
			return nil, errors.Wrap(err, errors.ErrStoreRead, "failed to scan build")
		}
		b.Started = time.Unix(started, 0)
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreRead, "failed to read builds")
	}
	return builds, nil
}
