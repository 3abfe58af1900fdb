package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/authz"
	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/apperror"
	"github.com/harborblog/backend/internal/platform/eventbus"
	"github.com/harborblog/backend/internal/platform/events"
	"github.com/harborblog/backend/internal/platform/logger"
	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/users/domain"
	"github.com/harborblog/backend/internal/users/ports"
)

// UserService resolves acting identities and handles profile and admin
// moderation operations. Every mutating call follows the same shape: resolve
// the actor, load the target (NotFound), ask the policy (Forbidden), mutate,
// project the result.
type UserService struct {
	repo     ports.UserRepository
	eventBus *eventbus.Bus
	logger   logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo ports.UserRepository, eventBus *eventbus.Bus, logger logger.Logger) *UserService {
	return &UserService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Profile is the caller's own view of their account.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	IsAdmin  bool      `json:"isAdmin"`
}

// PublicProfile is another user's view of an account. Email stays private.
type PublicProfile struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
}

// AdminUserView is the moderation view of an account.
type AdminUserView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Active   bool      `json:"active"`
	Roles    []string  `json:"roles"`
}

// ResolveActor resolves the authenticated principal to a user record. The
// principal name is ambiguous between username and email; either match wins.
func (s *UserService) ResolveActor(ctx context.Context, principal identity.Principal) (*domain.User, error) {
	if principal.IsAnonymous() {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, principal.Name)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error(ctx, "failed to resolve actor", "error", err, "principal", principal.Name)
		return nil, s.storageFailure(err, "failed to resolve user")
	}
	return user, nil
}

// GetProfile returns the caller's own profile.
func (s *UserService) GetProfile(ctx context.Context, principal identity.Principal) (*Profile, error) {
	user, err := s.ResolveActor(ctx, principal)
	if err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

// UpdateProfileParams contains the fields of a profile update. Empty fields
// are left unchanged.
type UpdateProfileParams struct {
	Name     string
	Username string
	Email    string
}

// UpdateProfile updates the caller's own name, username and email. Changing
// username or email re-checks uniqueness and fails with a field conflict.
func (s *UserService) UpdateProfile(ctx context.Context, principal identity.Principal, params UpdateProfileParams) (*Profile, error) {
	user, err := s.ResolveActor(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditOwnProfile(user.Authz()) {
		return nil, ErrUserDeactivated
	}

	if params.Name != "" {
		user.Name = params.Name
	}

	if params.Username != "" && params.Username != user.Username {
		if err := domain.ValidateUsername(params.Username); err != nil {
			return nil, ErrInvalidUserData.WithDetails(err.Error())
		}
		taken, err := s.repo.ExistsByUsername(ctx, params.Username)
		if err != nil {
			s.logger.Error(ctx, "failed to check username availability", "error", err)
			return nil, s.storageFailure(err, "failed to update profile")
		}
		if taken {
			return nil, ErrUsernameTaken.WithDetails("username")
		}
		user.Username = params.Username
	}

	if params.Email != "" && params.Email != user.Email {
		if err := domain.ValidateEmail(params.Email); err != nil {
			return nil, ErrInvalidEmail
		}
		taken, err := s.repo.ExistsByEmail(ctx, params.Email)
		if err != nil {
			s.logger.Error(ctx, "failed to check email availability", "error", err)
			return nil, s.storageFailure(err, "failed to update profile")
		}
		if taken {
			return nil, ErrEmailTaken.WithDetails("email")
		}
		user.Email = params.Email
	}

	user.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error(ctx, "failed to update profile", "error", err, "userID", user.ID)
		return nil, s.storageFailure(err, "failed to update profile")
	}

	return profileOf(user), nil
}

// GetPublicProfile returns the public view of any user.
func (s *UserService) GetPublicProfile(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	user, err := s.getUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
	}, nil
}

// ListUsers returns all accounts for moderation. Admin only.
func (s *UserService) ListUsers(ctx context.Context, principal identity.Principal, page pagination.Request) ([]*AdminUserView, pagination.Meta, error) {
	actor, err := s.ResolveActor(ctx, principal)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if !authz.CanModerateUsers(actor.Authz()) {
		return nil, pagination.Meta{}, ErrPermissionDenied
	}

	users, err := s.repo.List(ctx, page)
	if err != nil {
		s.logger.Error(ctx, "failed to list users", "error", err)
		return nil, pagination.Meta{}, s.storageFailure(err, "failed to list users")
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to count users", "error", err)
		return nil, pagination.Meta{}, s.storageFailure(err, "failed to list users")
	}

	views := make([]*AdminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, &AdminUserView{
			ID:       u.ID,
			Name:     u.Name,
			Username: u.Username,
			Email:    u.Email,
			Active:   u.Active,
			Roles:    u.Roles,
		})
	}
	return views, pagination.NewMeta(page, total), nil
}

// GrantAdmin grants the ADMIN role to the target user. Idempotent: granting
// a role the user already holds succeeds unchanged.
func (s *UserService) GrantAdmin(ctx context.Context, principal identity.Principal, userID uuid.UUID) error {
	return s.moderateRoles(ctx, principal, userID, func(ctx context.Context) error {
		return s.repo.AddRole(ctx, userID, authz.RoleAdmin)
	})
}

// RevokeAdmin removes the ADMIN role from the target user. Idempotent.
func (s *UserService) RevokeAdmin(ctx context.Context, principal identity.Principal, userID uuid.UUID) error {
	return s.moderateRoles(ctx, principal, userID, func(ctx context.Context) error {
		return s.repo.RemoveRole(ctx, userID, authz.RoleAdmin)
	})
}

// ActivateUser reinstates a deactivated account. Idempotent.
func (s *UserService) ActivateUser(ctx context.Context, principal identity.Principal, userID uuid.UUID) error {
	_, err := s.moderationTarget(ctx, principal, userID)
	if err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, userID, true); err != nil {
		s.logger.Error(ctx, "failed to activate user", "error", err, "userID", userID)
		return s.storageFailure(err, "failed to activate user")
	}
	return nil
}

// DeactivateUser soft-deletes an account: the row stays so the user's posts
// and comments keep their author reference. Idempotent.
func (s *UserService) DeactivateUser(ctx context.Context, principal identity.Principal, userID uuid.UUID) error {
	actor, err := s.moderationTarget(ctx, principal, userID)
	if err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, userID, false); err != nil {
		s.logger.Error(ctx, "failed to deactivate user", "error", err, "userID", userID)
		return s.storageFailure(err, "failed to deactivate user")
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.UserDeactivatedTopic,
		Payload: events.UserDeactivatedEvent{
			UserID:     userID,
			ActorID:    actor.ID,
			OccurredAt: time.Now(),
		},
	})
	return nil
}

// moderationTarget loads the target user and checks moderation permission,
// existence first so a missing user is NotFound, never Forbidden.
func (s *UserService) moderationTarget(ctx context.Context, principal identity.Principal, userID uuid.UUID) (*domain.User, error) {
	actor, err := s.ResolveActor(ctx, principal)
	if err != nil {
		return nil, err
	}

	if _, err := s.getUserByID(ctx, userID); err != nil {
		return nil, err
	}

	if !authz.CanModerateUsers(actor.Authz()) {
		return nil, ErrPermissionDenied
	}
	return actor, nil
}

func (s *UserService) moderateRoles(ctx context.Context, principal identity.Principal, userID uuid.UUID, mutate func(context.Context) error) error {
	if _, err := s.moderationTarget(ctx, principal, userID); err != nil {
		return err
	}

	if err := mutate(ctx); err != nil {
		if errors.Is(err, ports.ErrRoleNotFound) {
			return ErrRoleNotFound
		}
		s.logger.Error(ctx, "failed to change role membership", "error", err, "userID", userID)
		return s.storageFailure(err, "failed to change role membership")
	}
	return nil
}

// UserExists reports whether an account row exists for the given ID,
// regardless of its active flag. Content modules use it to 404 on listings
// scoped to an unknown author.
func (s *UserService) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return false, nil
		}
		return false, s.storageFailure(err, "failed to retrieve user")
	}
	return true, nil
}

func (s *UserService) getUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error(ctx, "failed to find user", "error", err, "userID", id)
		return nil, s.storageFailure(err, "failed to retrieve user")
	}
	return user, nil
}

func (s *UserService) storageFailure(inner error, msg string) *apperror.AppError {
	return apperror.Wrap(
		inner,
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		msg,
		http.StatusInternalServerError,
	)
}

func profileOf(user *domain.User) *Profile {
	return &Profile{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin(),
	}
}
