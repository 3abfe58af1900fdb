package domain

import (
	"errors"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/authz"
)

var (
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidUsername  = errors.New("invalid username format")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrUsernameTooLong  = errors.New("username must not exceed 30 characters")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyPassword    = errors.New("password hash cannot be empty")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// User is a registered account. Username and email are each globally unique.
// Deactivation is a soft delete: the row stays, Active flips to false, and
// the user's posts and comments keep their author reference.
type User struct {
	ID           uuid.UUID
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Active       bool
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates an active user with the default USER role.
func NewUser(name, username, email, passwordHash string) (*User, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, ErrEmptyPassword
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		Roles:        []string{authz.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// HasRole reports whether the user holds the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.HasRole(authz.RoleAdmin)
}

// GrantRole adds a role membership. Granting a role the user already holds is
// a no-op; the role set semantics are union, not exactly-once transitions.
func (u *User) GrantRole(name string) {
	if u.HasRole(name) {
		return
	}
	u.Roles = append(u.Roles, name)
	u.UpdatedAt = time.Now()
}

// RevokeRole removes a role membership. Revoking an absent role is a no-op.
func (u *User) RevokeRole(name string) {
	for i, r := range u.Roles {
		if r == name {
			u.Roles = append(u.Roles[:i], u.Roles[i+1:]...)
			u.UpdatedAt = time.Now()
			return
		}
	}
}

// Deactivate soft-deletes the user. Idempotent.
func (u *User) Deactivate() {
	if !u.Active {
		return
	}
	u.Active = false
	u.UpdatedAt = time.Now()
}

// Activate reinstates a deactivated user. Idempotent.
func (u *User) Activate() {
	if u.Active {
		return
	}
	u.Active = true
	u.UpdatedAt = time.Now()
}

// Authz projects the user into the plain actor shape the policy predicates
// consume.
func (u *User) Authz() authz.Actor {
	return authz.Actor{
		ID:     u.ID,
		Roles:  u.Roles,
		Active: u.Active,
	}
}

// ValidateUsername checks the username format shared by registration and
// profile updates.
func ValidateUsername(username string) error {
	if utf8.RuneCountInString(username) < 3 {
		return ErrUsernameTooShort
	}
	if utf8.RuneCountInString(username) > 30 {
		return ErrUsernameTooLong
	}
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
