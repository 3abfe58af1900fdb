package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/posts/domain"
)

// Repository errors - these are the canonical errors that repository
// implementations should return. The PostgreSQL implementation will
// translate pgx.ErrNoRows to these errors.
var (
	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = errors.New("post not found")

	// ErrCategoryNotFound is returned when a category cannot be found
	ErrCategoryNotFound = errors.New("category not found")
)

// Liker identifies a user who liked a resource. Both fields are carried
// because the viewer token may name a user by username or by email.
type Liker struct {
	Username string
	Email    string
}

// PostDetail is the read model for a single post. Author flags are live
// values joined from the users table at read time, never stored on the
// post itself.
type PostDetail struct {
	Post domain.Post

	AuthorUsername string
	AuthorIsAdmin  bool
	AuthorIsActive bool

	CategoryName string

	Likers []Liker
	Media  []domain.Media
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// Create saves a new post to the database
	Create(ctx context.Context, post *domain.Post) error

	// AddMedia attaches a stored file to a post
	AddMedia(ctx context.Context, media *domain.Media) error

	// FindByID retrieves a post with its author flags, likers and media
	FindByID(ctx context.Context, id uuid.UUID) (*PostDetail, error)

	// Update modifies an existing post
	Update(ctx context.Context, post *domain.Post) error

	// Delete removes a post; comments, likes and media rows cascade
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves post details matching the filter, paged and sorted
	List(ctx context.Context, filter ListFilter, page pagination.Request) ([]*PostDetail, error)

	// Count returns the total number of posts matching the filter
	Count(ctx context.Context, filter ListFilter) (int, error)

	// HasLiked reports whether the user currently likes the post
	HasLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	// AddLike records a like; duplicate inserts are a no-op
	AddLike(ctx context.Context, postID, userID uuid.UUID) error

	// RemoveLike withdraws a like; absent rows are a no-op
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) error

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) PostRepository
}

// ListFilter narrows List and Count. Nil fields mean "all".
type ListFilter struct {
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}
