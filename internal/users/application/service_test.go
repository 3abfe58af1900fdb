package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborblog/backend/internal/authz"
	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/eventbus"
	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/users/application"
	"github.com/harborblog/backend/internal/users/domain"
	"github.com/harborblog/backend/internal/users/ports"
)

// fakeUserRepo is an in-memory ports.UserRepository for service tests.
type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
	roles map[string]bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[uuid.UUID]*domain.User),
		roles: map[string]bool{authz.RoleAdmin: true, authz.RoleUser: true},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ports.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByUsernameOrEmail(ctx context.Context, principal string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == principal || u.Email == principal {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ports.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	stored, ok := f.users[user.ID]
	if !ok {
		return ports.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Username = user.Username
	stored.Email = user.Email
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, page pagination.Request) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(f.users), nil
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return ports.ErrUserNotFound
	}
	u.Active = active
	return nil
}

func (f *fakeUserRepo) AddRole(ctx context.Context, userID uuid.UUID, role string) error {
	if !f.roles[role] {
		return ports.ErrRoleNotFound
	}
	u, ok := f.users[userID]
	if !ok {
		return ports.ErrUserNotFound
	}
	u.GrantRole(role)
	return nil
}

func (f *fakeUserRepo) RemoveRole(ctx context.Context, userID uuid.UUID, role string) error {
	if !f.roles[role] {
		return ports.ErrRoleNotFound
	}
	u, ok := f.users[userID]
	if !ok {
		return ports.ErrUserNotFound
	}
	u.RevokeRole(role)
	return nil
}

type silentLogger struct{}

func (silentLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (silentLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (silentLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (silentLogger) Error(ctx context.Context, msg string, args ...any) {}

func seedUser(t *testing.T, repo *fakeUserRepo, username string, admin bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := domain.NewUser("Test "+username, username, username+"@example.com", string(hash))
	require.NoError(t, err)
	if admin {
		u.GrantRole(authz.RoleAdmin)
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func newServices(repo *fakeUserRepo) (*application.UserService, *application.AuthService) {
	log := silentLogger{}
	bus := eventbus.NewBus(log)
	users := application.NewUserService(repo, bus, log)
	tokens := application.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), "harborblog", time.Hour)
	auth := application.NewAuthService(repo, tokens, log)
	return users, auth
}

func principal(name string) identity.Principal {
	return identity.Principal{Name: name}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "johndoe", false)
	_, auth := newServices(repo)

	_, err := auth.Register(context.Background(), application.RegisterParams{
		Name:     "Impostor",
		Username: "johndoe",
		Email:    "other@example.com",
		Password: "secret123",
	})

	require.ErrorIs(t, err, application.ErrUsernameTaken)
	assert.Equal(t, 1, len(repo.users), "no row may be created on conflict")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "johndoe", false)
	_, auth := newServices(repo)

	_, err := auth.Register(context.Background(), application.RegisterParams{
		Name:     "Impostor",
		Username: "someoneelse",
		Email:    "johndoe@example.com",
		Password: "secret123",
	})

	require.ErrorIs(t, err, application.ErrEmailTaken)
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	repo := newFakeUserRepo()
	_, auth := newServices(repo)

	_, err := auth.Register(context.Background(), application.RegisterParams{
		Name:     "John Doe",
		Username: "johndoe",
		Email:    "not-an-email",
		Password: "secret123",
	})

	require.ErrorIs(t, err, application.ErrInvalidEmail)
	assert.Empty(t, repo.users)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "johndoe", false)
	_, auth := newServices(repo)

	for _, name := range []string{"johndoe", "johndoe@example.com"} {
		resp, err := auth.Login(context.Background(), name, "secret123")
		require.NoError(t, err, "login as %s", name)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.True(t, resp.ExpiresAt.After(time.Now()))
	}
}

func TestLoginFailures(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "johndoe", false)
	_, auth := newServices(repo)

	_, err := auth.Login(context.Background(), "johndoe", "wrong")
	require.ErrorIs(t, err, application.ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), "nobody", "secret123")
	require.ErrorIs(t, err, application.ErrInvalidCredentials, "unknown user looks like bad credentials")

	require.NoError(t, repo.SetActive(context.Background(), u.ID, false))
	_, err = auth.Login(context.Background(), "johndoe", "secret123")
	require.ErrorIs(t, err, application.ErrUserDeactivated)
}

func TestResolveActorByEitherField(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "johndoe", false)
	users, _ := newServices(repo)

	for _, name := range []string{"johndoe", "johndoe@example.com"} {
		actor, err := users.ResolveActor(context.Background(), principal(name))
		require.NoError(t, err)
		assert.Equal(t, u.ID, actor.ID)
	}

	_, err := users.ResolveActor(context.Background(), identity.Anonymous)
	require.ErrorIs(t, err, application.ErrUnauthenticated)
}

func TestGrantAdminIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", true)
	target := seedUser(t, repo, "johndoe", false)
	users, _ := newServices(repo)

	require.NoError(t, users.GrantAdmin(context.Background(), principal("admin"), target.ID))
	require.NoError(t, users.GrantAdmin(context.Background(), principal("admin"), target.ID))

	stored := repo.users[target.ID]
	count := 0
	for _, r := range stored.Roles {
		if r == authz.RoleAdmin {
			count++
		}
	}
	assert.Equal(t, 1, count, "double grant must not duplicate the role")

	require.NoError(t, users.RevokeAdmin(context.Background(), principal("admin"), target.ID))
	assert.False(t, repo.users[target.ID].IsAdmin())
	require.NoError(t, users.RevokeAdmin(context.Background(), principal("admin"), target.ID))
}

func TestDeactivateUserIsIdempotentSoftDelete(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", true)
	target := seedUser(t, repo, "johndoe", false)
	users, _ := newServices(repo)

	require.NoError(t, users.DeactivateUser(context.Background(), principal("admin"), target.ID))
	assert.False(t, repo.users[target.ID].Active)

	require.NoError(t, users.DeactivateUser(context.Background(), principal("admin"), target.ID))
	assert.False(t, repo.users[target.ID].Active)

	_, stillThere := repo.users[target.ID]
	assert.True(t, stillThere, "soft delete keeps the row")

	require.NoError(t, users.ActivateUser(context.Background(), principal("admin"), target.ID))
	assert.True(t, repo.users[target.ID].Active)
}

func TestUpdateProfileRejectsDeactivatedActor(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "johndoe", false)
	users, _ := newServices(repo)

	// The bearer token outlives the account; a deactivated actor must not
	// keep mutating their profile with it.
	require.NoError(t, repo.SetActive(context.Background(), u.ID, false))

	_, err := users.UpdateProfile(context.Background(), principal("johndoe"), application.UpdateProfileParams{
		Username: "squatter",
	})
	require.ErrorIs(t, err, application.ErrUserDeactivated)
	assert.Equal(t, "johndoe", repo.users[u.ID].Username, "rejected update must not mutate the row")
}

func TestModerationRequiresAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "plain", false)
	target := seedUser(t, repo, "johndoe", false)
	users, _ := newServices(repo)

	err := users.GrantAdmin(context.Background(), principal("plain"), target.ID)
	require.ErrorIs(t, err, application.ErrPermissionDenied)

	_, _, err = users.ListUsers(context.Background(), principal("plain"), pagination.Request{PageSize: 10})
	require.ErrorIs(t, err, application.ErrPermissionDenied)
}

func TestMissingTargetBeatsPermission(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "plain", false)
	users, _ := newServices(repo)

	// Even a caller who would be denied sees NotFound for an absent target:
	// existence is checked before permission.
	err := users.DeactivateUser(context.Background(), principal("plain"), uuid.New())
	require.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestUpdateProfileConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "johndoe", false)
	seedUser(t, repo, "janedoe", false)
	users, _ := newServices(repo)

	_, err := users.UpdateProfile(context.Background(), principal("johndoe"), application.UpdateProfileParams{
		Username: "janedoe",
	})
	require.ErrorIs(t, err, application.ErrUsernameTaken)

	_, err = users.UpdateProfile(context.Background(), principal("johndoe"), application.UpdateProfileParams{
		Email: "janedoe@example.com",
	})
	require.ErrorIs(t, err, application.ErrEmailTaken)

	_, err = users.UpdateProfile(context.Background(), principal("johndoe"), application.UpdateProfileParams{
		Email: "not-an-email",
	})
	require.ErrorIs(t, err, application.ErrInvalidEmail)

	profile, err := users.UpdateProfile(context.Background(), principal("johndoe"), application.UpdateProfileParams{
		Name:     "John D.",
		Username: "johnny",
	})
	require.NoError(t, err)
	assert.Equal(t, "John D.", profile.Name)
	assert.Equal(t, "johnny", profile.Username)
}

func TestPublicProfileOmitsEmail(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "johndoe", false)
	users, _ := newServices(repo)

	pub, err := users.GetPublicProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", pub.Username)

	_, err = users.GetPublicProfile(context.Background(), uuid.New())
	require.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestListUsersAsAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "admin", true)
	seedUser(t, repo, "johndoe", false)
	users, _ := newServices(repo)

	views, meta, err := users.ListUsers(context.Background(), principal("admin"), pagination.Request{PageNo: 0, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, 2, meta.TotalElements)
	assert.True(t, meta.Last)
}
