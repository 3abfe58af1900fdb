// Package authz holds the authorization policy as pure predicates over plain
// data. The predicates never touch storage or transport; services load the
// acting user and the target resource first, then ask the policy, then
// translate a false answer into a Forbidden error. Resource existence is
// always established before a predicate runs, so a missing resource surfaces
// as NotFound rather than Forbidden.
package authz

import "github.com/google/uuid"

// Role names. Membership is many-to-many with users; the policy only ever
// inspects names.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Actor is the acting user as the policy sees it: identity, role memberships
// and the soft-delete flag. Build one from a loaded user record.
type Actor struct {
	ID     uuid.UUID
	Roles  []string
	Active bool
}

// HasRole reports whether the actor holds the named role.
func (a Actor) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// CanModerateUsers reports whether the actor may list all users, grant or
// revoke the admin role, and activate or deactivate any user.
func CanModerateUsers(actor Actor) bool {
	return actor.Active && actor.IsAdmin()
}

// CanEditPost reports whether the actor may edit the post owned by authorID.
// Admins may edit any post; everyone else only their own. A nil authorID
// means the original author was removed, leaving moderation to admins.
func CanEditPost(actor Actor, authorID *uuid.UUID) bool {
	return isAdminOrOwner(actor, authorID)
}

// CanDeletePost reports whether the actor may delete the post owned by authorID.
func CanDeletePost(actor Actor, authorID *uuid.UUID) bool {
	return isAdminOrOwner(actor, authorID)
}

// CanEditComment reports whether the actor may edit the comment owned by
// authorID. Edits are owner-or-admin, same as deletes.
func CanEditComment(actor Actor, authorID *uuid.UUID) bool {
	return isAdminOrOwner(actor, authorID)
}

// CanDeleteComment reports whether the actor may delete the comment owned by
// authorID.
func CanDeleteComment(actor Actor, authorID *uuid.UUID) bool {
	return isAdminOrOwner(actor, authorID)
}

// CanCreateContent reports whether the actor may create posts and comments.
// Any active authenticated user qualifies.
func CanCreateContent(actor Actor) bool {
	return actor.Active && actor.ID != uuid.Nil
}

// CanEditOwnProfile reports whether the actor may change their own name,
// username or email. A deactivated account keeps a valid token until it
// expires, so the flag has to be checked here too.
func CanEditOwnProfile(actor Actor) bool {
	return actor.Active && actor.ID != uuid.Nil
}

// CanManageCategories reports whether the actor may create categories.
func CanManageCategories(actor Actor) bool {
	return actor.Active && actor.IsAdmin()
}

// CanToggleLike reports whether the actor may like or unlike a post or
// comment. Any active authenticated user qualifies; there is no ownership
// constraint, a user may like their own content.
func CanToggleLike(actor Actor) bool {
	return actor.Active && actor.ID != uuid.Nil
}

func isAdminOrOwner(actor Actor, authorID *uuid.UUID) bool {
	if !actor.Active || actor.ID == uuid.Nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return authorID != nil && *authorID == actor.ID
}
