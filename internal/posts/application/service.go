package application

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/harborblog/backend/internal/authz"
	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/apperror"
	"github.com/harborblog/backend/internal/platform/eventbus"
	"github.com/harborblog/backend/internal/platform/events"
	"github.com/harborblog/backend/internal/platform/logger"
	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/platform/postgres"
	"github.com/harborblog/backend/internal/posts/domain"
	"github.com/harborblog/backend/internal/posts/ports"
	usersdomain "github.com/harborblog/backend/internal/users/domain"
)

// UserDirectory is the slice of the users module the posts service needs:
// resolving an authenticated principal to an account, and answering
// existence questions for author-scoped listings.
type UserDirectory interface {
	ResolveActor(ctx context.Context, principal identity.Principal) (*usersdomain.User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PostService implements post CRUD, listings and like toggling.
type PostService struct {
	posts      ports.PostRepository
	categories ports.CategoryRepository
	files      ports.FileStore
	users      UserDirectory
	txManager  postgres.TransactionManager
	sanitizer  *bluemonday.Policy
	eventBus   *eventbus.Bus
	logger     logger.Logger
}

func NewPostService(
	posts ports.PostRepository,
	categories ports.CategoryRepository,
	files ports.FileStore,
	users UserDirectory,
	txManager postgres.TransactionManager,
	sanitizer *bluemonday.Policy,
	eventBus *eventbus.Bus,
	logger logger.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		files:      files,
		users:      users,
		txManager:  txManager,
		sanitizer:  sanitizer,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// FileUpload is an uploaded media file as received by the boundary.
type FileUpload struct {
	Name string
	Data []byte
}

type CreatePostParams struct {
	Title       string
	Description string
	Content     string
	CategoryID  uuid.UUID
	Files       []FileUpload
}

// CreatePost stores a post and its media inside one transaction. Media
// bytes are written to the file store first; if any later step fails the
// transaction rolls back and the already-written files are removed, so
// neither the database nor the disk keeps partial results.
func (s *PostService) CreatePost(ctx context.Context, principal identity.Principal, params CreatePostParams) (*PostView, error) {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return nil, err
	}
	if !authz.CanCreateContent(actor.Authz()) {
		return nil, ErrPermissionDenied
	}

	category, err := s.getCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}

	// Reject empty uploads before any write happens.
	for _, f := range params.Files {
		if len(f.Data) == 0 {
			return nil, ErrEmptyUpload
		}
	}

	post, err := domain.NewPost(
		params.Title,
		params.Description,
		s.sanitizer.Sanitize(params.Content),
		category.ID,
		actor.ID,
	)
	if err != nil {
		return nil, ErrInvalidPostData.WithDetails(err.Error())
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to begin transaction")
	}

	var savedFiles []string
	cleanup := func() {
		_ = tx.Rollback(ctx)
		for _, url := range savedFiles {
			if rmErr := s.files.Remove(url); rmErr != nil {
				s.logger.Warn(ctx, "failed to remove orphaned media file", "error", rmErr, "fileURL", url)
			}
		}
	}

	txRepo := s.posts.WithTx(tx.Tx())
	if err := txRepo.Create(ctx, post); err != nil {
		cleanup()
		return nil, storageFailure(err, "failed to create post")
	}

	for _, f := range params.Files {
		url, err := s.files.Save(f.Data, f.Name)
		if err != nil {
			cleanup()
			return nil, storageFailure(err, "failed to store media file")
		}
		savedFiles = append(savedFiles, url)

		if err := txRepo.AddMedia(ctx, domain.NewMedia(post.ID, url)); err != nil {
			cleanup()
			return nil, storageFailure(err, "failed to record media")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		cleanup()
		return nil, storageFailure(err, "failed to commit post")
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.PostCreatedTopic,
		Payload: events.PostCreatedEvent{
			PostID:     post.ID,
			ActorID:    actor.ID,
			Title:      post.Title,
			OccurredAt: time.Now(),
		},
	})

	detail, err := s.getDetail(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return ProjectPost(detail, principal), nil
}

// GetPost returns the viewer-relative projection of a post.
func (s *PostService) GetPost(ctx context.Context, id uuid.UUID, viewer identity.Principal) (*PostView, error) {
	detail, err := s.getDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return ProjectPost(detail, viewer), nil
}

// ListPosts returns one page of projected posts plus page metadata.
func (s *PostService) ListPosts(ctx context.Context, viewer identity.Principal, page pagination.Request) ([]*PostView, pagination.Meta, error) {
	return s.list(ctx, ports.ListFilter{}, viewer, page)
}

// ListByCategory returns the posts in a category, 404 when the category
// does not exist.
func (s *PostService) ListByCategory(ctx context.Context, categoryID uuid.UUID, viewer identity.Principal, page pagination.Request) ([]*PostView, pagination.Meta, error) {
	if _, err := s.getCategory(ctx, categoryID); err != nil {
		return nil, pagination.Meta{}, err
	}
	return s.list(ctx, ports.ListFilter{CategoryID: &categoryID}, viewer, page)
}

// ListByAuthor returns the posts by a user, 404 when the user does not
// exist. Deactivated authors still have listable posts.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uuid.UUID, viewer identity.Principal, page pagination.Request) ([]*PostView, pagination.Meta, error) {
	exists, err := s.users.UserExists(ctx, authorID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if !exists {
		return nil, pagination.Meta{}, apperror.New(
			apperror.CodeNotFound,
			apperror.BusinessCodeUserNotFound,
			"user not found",
			http.StatusNotFound,
		)
	}
	return s.list(ctx, ports.ListFilter{AuthorID: &authorID}, viewer, page)
}

type UpdatePostParams struct {
	Title       string
	Description string
	Content     string
	CategoryID  uuid.UUID
}

// UpdatePost edits a post after the ownership check. Existence is
// established before the permission check so strangers probing for posts
// see the same NotFound an honest client would.
func (s *PostService) UpdatePost(ctx context.Context, principal identity.Principal, id uuid.UUID, params UpdatePostParams) (*PostView, error) {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return nil, err
	}

	detail, err := s.getDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditPost(actor.Authz(), detail.Post.AuthorID) {
		return nil, ErrPermissionDenied
	}

	category, err := s.getCategory(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}

	post := detail.Post
	if err := post.Edit(
		params.Title,
		params.Description,
		s.sanitizer.Sanitize(params.Content),
		category.ID,
	); err != nil {
		return nil, ErrInvalidPostData.WithDetails(err.Error())
	}

	if err := s.posts.Update(ctx, &post); err != nil {
		return nil, storageFailure(err, "failed to update post")
	}

	updated, err := s.getDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return ProjectPost(updated, principal), nil
}

// DeletePost removes a post. Comments, likes and media rows cascade in the
// database; the media files on disk are removed by the cleanup subscriber
// listening on the deleted topic.
func (s *PostService) DeletePost(ctx context.Context, principal identity.Principal, id uuid.UUID) error {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return err
	}

	detail, err := s.getDetail(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanDeletePost(actor.Authz(), detail.Post.AuthorID) {
		return ErrPermissionDenied
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return storageFailure(err, "failed to delete post")
	}

	fileURLs := make([]string, 0, len(detail.Media))
	for _, m := range detail.Media {
		fileURLs = append(fileURLs, m.FileURL)
	}
	s.eventBus.Publish(ctx, eventbus.Event{
		Topic: events.PostDeletedTopic,
		Payload: events.PostDeletedEvent{
			PostID:     id,
			ActorID:    actor.ID,
			FileURLs:   fileURLs,
			OccurredAt: time.Now(),
		},
	})
	return nil
}

// TogglePostLike flips the actor's like on a post. The membership read and
// the insert or delete run in one transaction; concurrent toggles resolve
// last-writer-wins.
func (s *PostService) TogglePostLike(ctx context.Context, principal identity.Principal, postID uuid.UUID) error {
	actor, err := s.users.ResolveActor(ctx, principal)
	if err != nil {
		return err
	}

	if _, err := s.getDetail(ctx, postID); err != nil {
		return err
	}
	if !authz.CanToggleLike(actor.Authz()) {
		return ErrPermissionDenied
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return storageFailure(err, "failed to begin transaction")
	}
	txRepo := s.posts.WithTx(tx.Tx())

	liked, err := txRepo.HasLiked(ctx, postID, actor.ID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return storageFailure(err, "failed to read like state")
	}
	if liked {
		err = txRepo.RemoveLike(ctx, postID, actor.ID)
	} else {
		err = txRepo.AddLike(ctx, postID, actor.ID)
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

// PostExists reports whether a post row exists. The comments module uses
// it to 404 before touching comment storage.
func (s *PostService) PostExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return false, nil
		}
		return false, storageFailure(err, "failed to retrieve post")
	}
	return true, nil
}

func (s *PostService) list(ctx context.Context, filter ports.ListFilter, viewer identity.Principal, page pagination.Request) ([]*PostView, pagination.Meta, error) {
	details, err := s.posts.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, storageFailure(err, "failed to list posts")
	}
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, storageFailure(err, "failed to count posts")
	}

	views := make([]*PostView, 0, len(details))
	for _, d := range details {
		views = append(views, ProjectPost(d, viewer))
	}
	return views, pagination.NewMeta(page, total), nil
}

func (s *PostService) getDetail(ctx context.Context, id uuid.UUID) (*ports.PostDetail, error) {
	detail, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error(ctx, "failed to find post", "error", err, "postID", id)
		return nil, storageFailure(err, "failed to retrieve post")
	}
	return detail, nil
}

func (s *PostService) getCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, storageFailure(err, "failed to retrieve category")
	}
	return category, nil
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
