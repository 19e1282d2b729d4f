package services

import (
	"context"
	"fmt"

	"github.com/planora/server/internal/models"
	"github.com/planora/server/internal/repository"
)

// AccessLevel is the access a caller is asking for
type AccessLevel int

const (
	AccessRead AccessLevel = iota
	AccessWrite
)

func (l AccessLevel) String() string {
	if l == AccessWrite {
		return "write"
	}
	return "read"
}

// Decision is the outcome of an access resolution
type Decision struct {
	Allowed bool
	Reason  string
}

// AccessResolver is the single place access to a collection is decided.
// Tasks and notes resolve through their ancestor collection with the same
// actor and level; they hold no permission state of their own.
//
// Resolve implements direct-access semantics: the actor is presenting a
// specific collection reference (id or token), so link-sharing counts.
// Listing queries must NOT go through Resolve per collection: they compose
// the listing predicate in the repository layer, which excludes collections
// that are merely link-shareable.
type AccessResolver struct {
	grantRepo repository.SharedGrantRepo
}

// NewAccessResolver creates a new AccessResolver
func NewAccessResolver(grantRepo repository.SharedGrantRepo) *AccessResolver {
	return &AccessResolver{grantRepo: grantRepo}
}

// Resolve decides whether actor may perform level-access on the collection.
// First match wins:
//
//  1. inactive collection: deny, no grant can resurrect a soft delete
//  2. owner: allow everything
//  3. explicit grant: edit allows read+write, view allows read
//  4. link-shareable: the link permission applies
//  5. deny
func (r *AccessResolver) Resolve(ctx context.Context, actorID string, c *models.Collection, level AccessLevel) (Decision, error) {
	if c == nil || !c.Active {
		return Decision{Allowed: false, Reason: "collection not visible"}, nil
	}

	if c.OwnerID == actorID {
		return Decision{Allowed: true, Reason: "owner"}, nil
	}

	grant, err := r.grantRepo.Get(ctx, c.ID, actorID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to look up grant: %w", err)
	}
	if grant != nil {
		if permissionAllows(grant.Permission, level) {
			return Decision{Allowed: true, Reason: "explicit grant: " + string(grant.Permission)}, nil
		}
		return Decision{Allowed: false, Reason: "grant permission insufficient for " + level.String()}, nil
	}

	if c.IsLinkShareable {
		if permissionAllows(c.SharePermission, level) {
			return Decision{Allowed: true, Reason: "link share: " + string(c.SharePermission)}, nil
		}
		return Decision{Allowed: false, Reason: "link permission insufficient for " + level.String()}, nil
	}

	return Decision{Allowed: false, Reason: "no grant"}, nil
}

// CanRead is a convenience wrapper for read-level resolution
func (r *AccessResolver) CanRead(ctx context.Context, actorID string, c *models.Collection) (bool, error) {
	d, err := r.Resolve(ctx, actorID, c, AccessRead)
	if err != nil {
		return false, err
	}
	return d.Allowed, nil
}

// CanWrite is a convenience wrapper for write-level resolution
func (r *AccessResolver) CanWrite(ctx context.Context, actorID string, c *models.Collection) (bool, error) {
	d, err := r.Resolve(ctx, actorID, c, AccessWrite)
	if err != nil {
		return false, err
	}
	return d.Allowed, nil
}

func permissionAllows(p models.Permission, level AccessLevel) bool {
	switch level {
	case AccessWrite:
		return p == models.PermissionEdit
	default:
		return p == models.PermissionView || p == models.PermissionEdit
	}
}
