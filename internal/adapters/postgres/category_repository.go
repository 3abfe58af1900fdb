package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborblog/backend/internal/platform/postgres"
	"github.com/harborblog/backend/internal/posts/domain"
	"github.com/harborblog/backend/internal/posts/ports"
)

// CategoryRepository implements ports.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	postgres.BaseRepository
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(db *pgxpool.Pool) ports.CategoryRepository {
	return &CategoryRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query, args, err := r.SB.
		Insert("categories").
		Columns("id", "name", "description", "created_at").
		Values(
			pgtype.UUID{Bytes: category.ID, Valid: true},
			category.Name,
			category.Description,
			pgtype.Timestamptz{Time: category.CreatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("CategoryRepository.Create: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("CategoryRepository.Create: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query, args, err := r.SB.
		Select("id", "name", "description", "created_at").
		From("categories").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.FindByID: build query: %w", err)
	}

	category, err := scanCategory(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("CategoryRepository.FindByID: %w", err)
	}
	return category, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query, args, err := r.SB.
		Select("id", "name", "description", "created_at").
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.List: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.List: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("CategoryRepository.List: scan: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query, args, err := r.SB.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("categories").
		Where(sq.Eq{"name": name}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("CategoryRepository.ExistsByName: build query: %w", err)
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("CategoryRepository.ExistsByName: %w", err)
	}
	return exists, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	var id pgtype.UUID
	var createdAt pgtype.Timestamptz

	if err := row.Scan(&id, &category.Name, &category.Description, &createdAt); err != nil {
		return nil, err
	}
	category.ID = uuid.UUID(id.Bytes)
	category.CreatedAt = createdAt.Time
	return &category, nil
}
