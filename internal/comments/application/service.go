package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/harborblog/backend/internal/authz"
	"github.com/harborblog/backend/internal/comments/domain"
	"github.com/harborblog/backend/internal/comments/ports"
	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/apperror"
	"github.com/harborblog/backend/internal/platform/logger"
	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/platform/postgres"
	usersdomain "github.com/harborblog/backend/internal/users/domain"
)

// UserDirectory resolves an authenticated principal to a user account.
type UserDirectory interface {
	ResolveActor(ctx context.Context, principal identity.Principal) (*usersdomain.User, error)
}

// PostDirectory answers post existence questions; comments always hang off
// an existing post.
type PostDirectory interface {
	PostExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CommentService implements comment CRUD and like toggling.
type CommentService struct {
	comments  ports.CommentRepository
	posts     PostDirectory
	users     UserDirectory
	txManager postgres.TransactionManager
	sanitizer *bluemonday.Policy
	logger    logger.Logger
}

func NewCommentService(
	comments ports.CommentRepository,
	posts PostDirectory,
	users UserDirectory,
	txManager postgres.TransactionManager,
	sanitizer *bluemonday.Policy,
	logger logger.Logger,
) *CommentService {
	return &CommentService{
		comments:  comments,
		posts:     posts,
		users:     users,
		txManager: txManager,
		sanitizer: sanitizer,
		logger:    logger,
	}
}

// CreateComment attaches a comment to a post, snapshotting the actor's
// name and email at creation time.
func (s *CommentService) CreateComment(ctx context.Context, principal identity.Principal, postID uuid.UUID, body string) (*CommentView, error) {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return nil, err
	}

	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	if !authz.CanCreateContent(actor.Authz()) {
		return nil, ErrPermissionDenied
	}

	comment, err := domain.NewComment(postID, actor.ID, actor.Name, actor.Email, s.sanitizer.Sanitize(body))
	if err != nil {
		return nil, translateDomainError(err)
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error(ctx, "failed to create comment", "error", err, "postID", postID)
		return nil, storageFailure(err, "failed to create comment")
	}
	return s.projectByID(ctx, comment.ID, principal)
}

// GetComment returns one comment, verifying it belongs to the addressed post.
func (s *CommentService) GetComment(ctx context.Context, postID, commentID uuid.UUID, viewer identity.Principal) (*CommentView, error) {
	detail, err := s.getDetail(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	return ProjectComment(detail, viewer), nil
}

// ListByPost returns one page of a post's comments.
func (s *CommentService) ListByPost(ctx context.Context, postID uuid.UUID, viewer identity.Principal, page pagination.Request) ([]*CommentView, pagination.Meta, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, pagination.Meta{}, err
	}

	details, err := s.comments.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, pagination.Meta{}, storageFailure(err, "failed to list comments")
	}
	total, err := s.comments.CountByPost(ctx, postID)
	if err != nil {
		return nil, pagination.Meta{}, storageFailure(err, "failed to count comments")
	}

	views := make([]*CommentView, 0, len(details))
	for _, d := range details {
		views = append(views, ProjectComment(d, viewer))
	}
	return views, pagination.NewMeta(page, total), nil
}

// UpdateComment edits a comment body. Owner or admin only; the author
// snapshot is never rewritten.
func (s *CommentService) UpdateComment(ctx context.Context, principal identity.Principal, postID, commentID uuid.UUID, body string) (*CommentView, error) {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return nil, err
	}

	detail, err := s.getDetail(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditComment(actor.Authz(), detail.Comment.AuthorID) {
		return nil, ErrPermissionDenied
	}

	comment := detail.Comment
	if err := comment.EditBody(s.sanitizer.Sanitize(body)); err != nil {
		return nil, translateDomainError(err)
	}
	if err := s.comments.Update(ctx, &comment); err != nil {
		return nil, storageFailure(err, "failed to update comment")
	}
	return s.projectByID(ctx, commentID, principal)
}

// DeleteComment removes a comment. Owner or admin only.
func (s *CommentService) DeleteComment(ctx context.Context, principal identity.Principal, postID, commentID uuid.UUID) error {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return err
	}

	detail, err := s.getDetail(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteComment(actor.Authz(), detail.Comment.AuthorID) {
		return ErrPermissionDenied
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return storageFailure(err, "failed to delete comment")
	}
	return nil
}

// ToggleCommentLike flips the actor's like on a comment, read-then-write
// in one transaction.
func (s *CommentService) ToggleCommentLike(ctx context.Context, principal identity.Principal, commentID uuid.UUID) error {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return err
	}

	if _, err := s.findDetail(ctx, commentID); err != nil {
		return err
	}
	if !authz.CanToggleLike(actor.Authz()) {
		return ErrPermissionDenied
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return storageFailure(err, "failed to begin transaction")
	}
	txRepo := s.comments.WithTx(tx.Tx())

	liked, err := txRepo.HasLiked(ctx, commentID, actor.ID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return storageFailure(err, "failed to read like state")
	}
	if liked {
		err = txRepo.RemoveLike(ctx, commentID, actor.ID)
	} else {
		err = txRepo.AddLike(ctx, commentID, actor.ID)
	}
	if err != nil {
		_ = tx.Rollback(ctx)
		return storageFailure(err, "failed to toggle like")
	}
	if err := tx.Commit(ctx); err != nil {
		return storageFailure(err, "failed to commit like toggle")
	}
	return nil
}

// getDetail loads a comment and enforces the belongs-to-post check.
func (s *CommentService) getDetail(ctx context.Context, postID, commentID uuid.UUID) (*ports.CommentDetail, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	detail, err := s.findDetail(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if detail.Comment.PostID != postID {
		return nil, ErrCommentMismatch
	}
	return detail, nil
}

func (s *CommentService) findDetail(ctx context.Context, commentID uuid.UUID) (*ports.CommentDetail, error) {
	detail, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, ports.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Error(ctx, "failed to find comment", "error", err, "commentID", commentID)
		return nil, storageFailure(err, "failed to retrieve comment")
	}
	return detail, nil
}

func (s *CommentService) projectByID(ctx context.Context, commentID uuid.UUID, viewer identity.Principal) (*CommentView, error) {
	detail, err := s.findDetail(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return ProjectComment(detail, viewer), nil
}

func (s *CommentService) requirePost(ctx context.Context, postID uuid.UUID) error {
	exists, err := s.posts.PostExists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}
	return nil
}

func translateDomainError(err error) error {
	if errors.Is(err, domain.ErrBodyTooShort) {
		return ErrCommentTooShort
	}
	return ErrInvalidCommentData.WithDetails(err.Error())
}

func storageFailure(inner error, msg string) *apperror.AppError {
	return apperror.Wrap(
		inner,
		apperror.CodeInternalError,
		apperror.BusinessCodeGeneral,
		msg,
		http.StatusInternalServerError,
	)
}
