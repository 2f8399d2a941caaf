// Package config loads the jobtree configuration: the acting user, the
// database location, and the permission policy.
//
// The file lives at $XDG_CONFIG_HOME/jobtree/config.toml (override with
// JOBTREE_CONFIG). JOBTREE_USER and JOBTREE_DB override individual fields.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/davidmrtn/jobtree/pkg/auth"
	"github.com/davidmrtn/jobtree/pkg/errors"
)

// Environment variable names
const (
	EnvConfig = "JOBTREE_CONFIG"
	EnvUser   = "JOBTREE_USER"
	EnvDB     = "JOBTREE_DB"
)

// Grant is the on-disk form of an auth.Grant.
type Grant struct {
	User        string   `toml:"user"`
	Permissions []string `toml:"permissions"`
	Path        string   `toml:"path"`
}

// Config is the parsed configuration file.
type Config struct {
	// User is the acting principal. Empty means $JOBTREE_USER, then $USER.
	User string `toml:"user"`

	// DB is the SQLite database path. Empty means the XDG data directory.
	DB string `toml:"db"`

	// Admins hold every permission everywhere.
	Admins []string `toml:"admins"`

	// Grants give non-admin users scoped permissions.
	Grants []Grant `toml:"grants"`
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, "jobtree", "config.toml")
}

// Load reads the configuration file and applies environment overrides.
//
// A missing file is not an error: jobtree falls back to single-user mode,
// where the acting user is an administrator of their own namespace.
func Load() (*Config, error) {
	return loadFrom(DefaultPath())
}

func loadFrom(path string) (*Config, error) {
	var cfg Config
	missing := false

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		missing = true
	case err != nil:
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config file %s", path)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path)
		}
	}

	if u := os.Getenv(EnvUser); u != "" {
		cfg.User = u
	}
	if cfg.User == "" {
		cfg.User = os.Getenv("USER")
	}
	if cfg.User == "" {
		cfg.User = "anonymous"
	}

	if db := os.Getenv(EnvDB); db != "" {
		cfg.DB = db
	}

	// Single-user mode: without a config file there is nobody to delegate
	// to, so the acting user administers their own namespace.
	if missing && len(cfg.Admins) == 0 {
		cfg.Admins = []string{cfg.User}
	}

	return &cfg, nil
}

// DBPath returns the database location, defaulting to the XDG data dir.
func (c *Config) DBPath() string {
	if c.DB != "" {
		return c.DB
	}
	return filepath.Join(xdg.DataHome, "jobtree", "jobtree.db")
}

// Authorizer builds the permission policy for the acting user.
func (c *Config) Authorizer() *auth.Policy {
	grants := make([]auth.Grant, 0, len(c.Grants))
	for _, g := range c.Grants {
		perms := make([]auth.Permission, 0, len(g.Permissions))
		for _, p := range g.Permissions {
			perms = append(perms, auth.Permission(p))
		}
		grants = append(grants, auth.Grant{User: g.User, Permissions: perms, Path: g.Path})
	}
	return auth.NewPolicy(c.User, c.Admins, grants)
}
