package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harborblog/backend/internal/comments/domain"
	"github.com/harborblog/backend/internal/platform/pagination"
)

var (
	// ErrCommentNotFound is returned when a comment cannot be found
	ErrCommentNotFound = errors.New("comment not found")
)

// Liker identifies a user who liked a comment.
type Liker struct {
	Username string
	Email    string
}

// CommentDetail is the read model for a comment: the comment row plus the
// live author flags and the current likers.
type CommentDetail struct {
	Comment domain.Comment

	AuthorUsername string
	AuthorIsAdmin  bool
	AuthorIsActive bool

	Likers []Liker
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error

	FindByID(ctx context.Context, id uuid.UUID) (*CommentDetail, error)

	Update(ctx context.Context, comment *domain.Comment) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListByPost retrieves the comments on a post, paged and sorted
	ListByPost(ctx context.Context, postID uuid.UUID, page pagination.Request) ([]*CommentDetail, error)

	CountByPost(ctx context.Context, postID uuid.UUID) (int, error)

	HasLiked(ctx context.Context, commentID, userID uuid.UUID) (bool, error)

	AddLike(ctx context.Context, commentID, userID uuid.UUID) error

	RemoveLike(ctx context.Context, commentID, userID uuid.UUID) error

	// WithTx returns a repository bound to the given transaction
	WithTx(tx pgx.Tx) CommentRepository
}
