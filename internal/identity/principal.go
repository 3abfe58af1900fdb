// Package identity carries the authenticated caller's principal through the
// request. The principal is an opaque name that may be either a username or
// an email address; resolution to a concrete user record happens in the users
// service, never here.
package identity

// Principal identifies the authenticated caller. The zero value is the
// anonymous principal.
type Principal struct {
	Name string // username or email, as presented by the token subject
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

// IsAnonymous reports whether the request carries no authenticated caller.
func (p Principal) IsAnonymous() bool {
	return p.Name == ""
}

// Matches reports whether the principal refers to the user identified by the
// given username and email. The principal name is ambiguous between the two
// unique fields, so either match counts. Anonymous principals match nobody.
func (p Principal) Matches(username, email string) bool {
	if p.IsAnonymous() {
		return false
	}
	return p.Name == username || p.Name == email
}
