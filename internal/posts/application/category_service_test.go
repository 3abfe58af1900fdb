package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/posts/application"
)

func newCategoryService(f *fixture) *application.CategoryService {
	return application.NewCategoryService(f.cats, f.dir, nopLogger{})
}

func TestCreateCategoryRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	svc := newCategoryService(f)

	_, err := svc.CreateCategory(context.Background(), identity.Principal{Name: "author"}, "News", "")
	require.ErrorIs(t, err, application.ErrPermissionDenied)

	view, err := svc.CreateCategory(context.Background(), identity.Principal{Name: "admin"}, "News", "current events")
	require.NoError(t, err)
	assert.Equal(t, "News", view.Name)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	f := newFixture(t)
	svc := newCategoryService(f)

	// "Tech" is seeded by the fixture.
	_, err := svc.CreateCategory(context.Background(), identity.Principal{Name: "admin"}, "Tech", "")
	require.ErrorIs(t, err, application.ErrCategoryNameTaken)
}

func TestGetAndListCategories(t *testing.T) {
	f := newFixture(t)
	svc := newCategoryService(f)

	view, err := svc.GetCategory(context.Background(), f.category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tech", view.Name)

	_, err = svc.GetCategory(context.Background(), uuid.New())
	require.ErrorIs(t, err, application.ErrCategoryNotFound)

	all, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
