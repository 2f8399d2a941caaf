// Package auth decides what the acting principal may do to namespace paths.
package auth

import (
	"strings"

	"github.com/davidmrtn/jobtree/pkg/errors"
)

// Permission names an operation class on a namespace path.
type Permission string

const (
	// PermRelocate allows moving an item out of its container
	PermRelocate Permission = "relocate"
	// PermCreate allows creating items inside a container
	PermCreate Permission = "create"
	// PermAdminister is the highest level; it implies every other permission
	PermAdminister Permission = "administer"
)

// Authorizer answers permission checks for the acting principal.
type Authorizer interface {
	// User returns the acting principal's name.
	User() string

	// Has reports whether the principal holds perm on the given full name.
	// The empty full name is the namespace root.
	Has(perm Permission, fullName string) bool

	// CheckAdmin fails with a permission error unless the principal is an
	// administrator.
	CheckAdmin() error
}

// Grant gives a user a set of permissions on a path and everything below it.
// An empty or "*" path covers the whole namespace; a "*" user covers every
// principal.
type Grant struct {
	User        string
	Permissions []Permission
	Path        string
}

func (g Grant) covers(user string, perm Permission, fullName string) bool {
	if g.User != "*" && g.User != user {
		return false
	}
	if !g.matchesPath(fullName) {
		return false
	}
	for _, p := range g.Permissions {
		if p == perm || p == PermAdminister {
			return true
		}
	}
	return false
}

func (g Grant) matchesPath(fullName string) bool {
	if g.Path == "" || g.Path == "*" {
		return true
	}
	path := strings.Trim(g.Path, "/")
	fullName = strings.Trim(fullName, "/")
	return fullName == path || strings.HasPrefix(fullName, path+"/")
}

// Policy is a static Authorizer built from configuration: a list of
// administrators plus per-path grants.
type Policy struct {
	user   string
	admins map[string]bool
	grants []Grant
}

// NewPolicy creates a Policy for the acting user.
func NewPolicy(user string, admins []string, grants []Grant) *Policy {
	adminSet := make(map[string]bool, len(admins))
	for _, a := range admins {
		adminSet[a] = true
	}
	return &Policy{user: user, admins: adminSet, grants: grants}
}

// User returns the acting principal's name.
func (p *Policy) User() string { return p.user }

// Has reports whether the acting user holds perm on fullName.
func (p *Policy) Has(perm Permission, fullName string) bool {
	if p.admins[p.user] {
		return true
	}
	for _, g := range p.grants {
		if g.covers(p.user, perm, fullName) {
			return true
		}
	}
	return false
}

// CheckAdmin fails unless the acting user is an administrator: listed in the
// admins set, or holding an administer grant over the whole namespace. A
// path-scoped administer grant implies every permission below its path but
// does not confer namespace-wide administration.
func (p *Policy) CheckAdmin() error {
	if p.admins[p.user] {
		return nil
	}
	for _, g := range p.grants {
		if (g.Path == "" || g.Path == "*") && g.covers(p.user, PermAdminister, "") {
			return nil
		}
	}
	return errors.Newf(errors.ErrPermission, "user '%s' does not have administer permission", p.user)
}
