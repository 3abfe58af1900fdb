package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/authz"
	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/logger"
	"github.com/harborblog/backend/internal/posts/domain"
	"github.com/harborblog/backend/internal/posts/ports"
)

// CategoryService manages the post taxonomy. Creation is admin-only;
// reads are public.
type CategoryService struct {
	categories ports.CategoryRepository
	users      UserDirectory
	logger     logger.Logger
}

func NewCategoryService(categories ports.CategoryRepository, users UserDirectory, logger logger.Logger) *CategoryService {
	return &CategoryService{categories: categories, users: users, logger: logger}
}

type CategoryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (s *CategoryService) CreateCategory(ctx context.Context, principal identity.Principal, name, description string) (*CategoryView, error) {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageCategories(actor.Authz()) {
		return nil, ErrPermissionDenied
	}

	taken, err := s.categories.ExistsByName(ctx, name)
	if err != nil {
		return nil, storageFailure(err, "failed to check category name")
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	category, err := domain.NewCategory(name, description)
	if err != nil {
		return nil, ErrInvalidPostData.WithDetails(err.Error())
	}
	if err := s.categories.Create(ctx, category); err != nil {
		s.logger.Error(ctx, "failed to create category", "error", err, "name", name)
		return nil, storageFailure(err, "failed to create category")
	}
	return categoryView(category), nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryView, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, storageFailure(err, "failed to retrieve category")
	}
	return categoryView(category), nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*CategoryView, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to list categories")
	}
	views := make([]*CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, categoryView(c))
	}
	return views, nil
}

func categoryView(c *domain.Category) *CategoryView {
	return &CategoryView{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}
