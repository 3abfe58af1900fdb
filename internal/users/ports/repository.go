package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/users/domain"
)

// Canonical repository errors. Implementations translate their storage
// errors (e.g. pgx.ErrNoRows) to these.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
)

// UserRepository defines the persistence interface for users and their role
// memberships.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error

	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// FindByUsernameOrEmail resolves a principal name that may be either of
	// the two unique fields.
	FindByUsernameOrEmail(ctx context.Context, principal string) (*domain.User, error)

	// Update persists name, username, email and updated_at.
	Update(ctx context.Context, user *domain.User) error

	List(ctx context.Context, page pagination.Request) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SetActive flips only the active flag. Idempotent by construction.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// AddRole and RemoveRole adjust role membership with set semantics:
	// adding a held role or removing an absent one succeeds unchanged.
	// Both return ErrRoleNotFound when the named role does not exist.
	AddRole(ctx context.Context, userID uuid.UUID, role string) error
	RemoveRole(ctx context.Context, userID uuid.UUID, role string) error
}
