package domain_test

import (
	"errors"
	"testing"

	"github.com/harborblog/backend/internal/authz"
	"github.com/harborblog/backend/internal/users/domain"
)

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := domain.NewUser("John Doe", "johndoe", "john@example.com", "$2a$10$hash")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	return u
}

func TestNewUser(t *testing.T) {
	u := newTestUser(t)

	if !u.Active {
		t.Error("new users start active")
	}
	if !u.HasRole(authz.RoleUser) {
		t.Error("new users get the default USER role")
	}
	if u.IsAdmin() {
		t.Error("new users are not admins")
	}
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		username string
		email    string
		hash     string
		wantErr  error
	}{
		{"empty name", "", "johndoe", "john@example.com", "h", domain.ErrInvalidName},
		{"short username", "John", "jo", "john@example.com", "h", domain.ErrUsernameTooShort},
		{"long username", "John", "johndoejohndoejohndoejohndoe123", "john@example.com", "h", domain.ErrUsernameTooLong},
		{"bad username chars", "John", "john doe!", "john@example.com", "h", domain.ErrInvalidUsername},
		{"bad email", "John", "johndoe", "not-an-email", "h", domain.ErrInvalidEmail},
		{"empty hash", "John", "johndoe", "john@example.com", "", domain.ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewUser(tt.userName, tt.username, tt.email, tt.hash)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewUser() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGrantRoleIsIdempotent(t *testing.T) {
	u := newTestUser(t)

	u.GrantRole(authz.RoleAdmin)
	if !u.IsAdmin() {
		t.Fatal("expected admin after grant")
	}
	before := len(u.Roles)

	u.GrantRole(authz.RoleAdmin)
	if len(u.Roles) != before {
		t.Errorf("second grant changed role count: %d -> %d", before, len(u.Roles))
	}
}

func TestRevokeRole(t *testing.T) {
	u := newTestUser(t)
	u.GrantRole(authz.RoleAdmin)

	u.RevokeRole(authz.RoleAdmin)
	if u.IsAdmin() {
		t.Error("expected admin role gone")
	}

	// Revoking an absent role is a no-op.
	before := len(u.Roles)
	u.RevokeRole(authz.RoleAdmin)
	if len(u.Roles) != before {
		t.Error("revoking absent role changed role set")
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	u := newTestUser(t)

	u.Deactivate()
	if u.Active {
		t.Fatal("expected inactive")
	}

	u.Deactivate()
	if u.Active {
		t.Error("second deactivate flipped state")
	}

	u.Activate()
	if !u.Active {
		t.Error("expected active after reinstate")
	}
	u.Activate()
	if !u.Active {
		t.Error("second activate flipped state")
	}
}

func TestAuthzProjection(t *testing.T) {
	u := newTestUser(t)
	u.GrantRole(authz.RoleAdmin)

	actor := u.Authz()
	if actor.ID != u.ID {
		t.Error("actor ID mismatch")
	}
	if !actor.IsAdmin() {
		t.Error("actor should carry the admin role")
	}
	if !actor.Active {
		t.Error("actor should be active")
	}

	u.Deactivate()
	if u.Authz().Active {
		t.Error("actor should reflect deactivation")
	}
}
