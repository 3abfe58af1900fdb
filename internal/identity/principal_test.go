package identity_test

import (
	"context"
	"testing"

	"github.com/harborblog/backend/internal/identity"
)

func TestIsAnonymous(t *testing.T) {
	if !identity.Anonymous.IsAnonymous() {
		t.Error("zero principal should be anonymous")
	}
	if (identity.Principal{Name: "johndoe"}).IsAnonymous() {
		t.Error("named principal should not be anonymous")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		principal identity.Principal
		username  string
		email     string
		want      bool
	}{
		{
			name:      "matches by username",
			principal: identity.Principal{Name: "johndoe"},
			username:  "johndoe",
			email:     "john@example.com",
			want:      true,
		},
		{
			name:      "matches by email",
			principal: identity.Principal{Name: "john@example.com"},
			username:  "johndoe",
			email:     "john@example.com",
			want:      true,
		},
		{
			name:      "no match on a different user",
			principal: identity.Principal{Name: "janedoe"},
			username:  "johndoe",
			email:     "john@example.com",
			want:      false,
		},
		{
			name:      "anonymous matches nobody",
			principal: identity.Anonymous,
			username:  "",
			email:     "",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.Matches(tt.username, tt.email); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	p, ok := identity.FromContext(ctx)
	if ok {
		t.Error("empty context should report no principal")
	}
	if !p.IsAnonymous() {
		t.Error("empty context should yield the anonymous principal")
	}

	ctx = identity.WithPrincipal(ctx, identity.Principal{Name: "johndoe"})
	p, ok = identity.FromContext(ctx)
	if !ok {
		t.Error("expected principal in context")
	}
	if p.Name != "johndoe" {
		t.Errorf("principal name = %q, want johndoe", p.Name)
	}
}
