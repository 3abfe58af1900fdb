package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborblog/backend/internal/authz"
	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/eventbus"
	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/platform/postgres"
	"github.com/harborblog/backend/internal/posts/application"
	"github.com/harborblog/backend/internal/posts/domain"
	"github.com/harborblog/backend/internal/posts/ports"
	usersdomain "github.com/harborblog/backend/internal/users/domain"
)

// ---- fakes ----------------------------------------------------------------

type fakePostRepo struct {
	posts    map[uuid.UUID]*domain.Post
	media    map[uuid.UUID][]domain.Media
	likes    map[uuid.UUID]map[uuid.UUID]bool
	userInfo map[uuid.UUID]ports.Liker

	failAddMedia bool
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:    make(map[uuid.UUID]*domain.Post),
		media:    make(map[uuid.UUID][]domain.Media),
		likes:    make(map[uuid.UUID]map[uuid.UUID]bool),
		userInfo: make(map[uuid.UUID]ports.Liker),
	}
}

func (f *fakePostRepo) Create(ctx context.Context, post *domain.Post) error {
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) AddMedia(ctx context.Context, media *domain.Media) error {
	if f.failAddMedia {
		return errors.New("disk full")
	}
	f.media[media.PostID] = append(f.media[media.PostID], *media)
	return nil
}

func (f *fakePostRepo) FindByID(ctx context.Context, id uuid.UUID) (*ports.PostDetail, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, ports.ErrPostNotFound
	}
	detail := &ports.PostDetail{Post: *post, Media: f.media[id]}
	if post.AuthorID != nil {
		if info, ok := f.userInfo[*post.AuthorID]; ok {
			detail.AuthorUsername = info.Username
			detail.AuthorIsActive = true
		}
	}
	for userID := range f.likes[id] {
		detail.Likers = append(detail.Likers, f.userInfo[userID])
	}
	return detail, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *domain.Post) error {
	if _, ok := f.posts[post.ID]; !ok {
		return ports.ErrPostNotFound
	}
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.posts, id)
	delete(f.media, id)
	delete(f.likes, id)
	return nil
}

func (f *fakePostRepo) List(ctx context.Context, filter ports.ListFilter, page pagination.Request) ([]*ports.PostDetail, error) {
	var out []*ports.PostDetail
	for id, p := range f.posts {
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.AuthorID != nil && (p.AuthorID == nil || *p.AuthorID != *filter.AuthorID) {
			continue
		}
		detail, _ := f.FindByID(ctx, id)
		out = append(out, detail)
	}
	return out, nil
}

func (f *fakePostRepo) Count(ctx context.Context, filter ports.ListFilter) (int, error) {
	details, _ := f.List(ctx, filter, pagination.Request{})
	return len(details), nil
}

func (f *fakePostRepo) HasLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return f.likes[postID][userID], nil
}

func (f *fakePostRepo) AddLike(ctx context.Context, postID, userID uuid.UUID) error {
	if f.likes[postID] == nil {
		f.likes[postID] = make(map[uuid.UUID]bool)
	}
	f.likes[postID][userID] = true
	return nil
}

func (f *fakePostRepo) RemoveLike(ctx context.Context, postID, userID uuid.UUID) error {
	delete(f.likes[postID], userID)
	return nil
}

func (f *fakePostRepo) WithTx(tx pgx.Tx) ports.PostRepository { return f }

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*domain.Category
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, c := range f.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type fakeFileStore struct {
	saved    map[string][]byte
	removed  []string
	failSave bool
	seq      int
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{saved: make(map[string][]byte)}
}

func (f *fakeFileStore) Save(data []byte, originalName string) (string, error) {
	if f.failSave {
		return "", errors.New("disk full")
	}
	f.seq++
	name := fmt.Sprintf("file-%d", f.seq)
	f.saved[name] = data
	return name, nil
}

func (f *fakeFileStore) Remove(relativeURL string) error {
	delete(f.saved, relativeURL)
	f.removed = append(f.removed, relativeURL)
	return nil
}

type fakeDirectory struct {
	byName map[string]*usersdomain.User
}

func (f *fakeDirectory) ResolveActor(ctx context.Context, principal identity.Principal) (*usersdomain.User, error) {
	if u, ok := f.byName[principal.Name]; ok {
		return u, nil
	}
	return nil, errors.New("unauthenticated")
}

func (f *fakeDirectory) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, u := range f.byName {
		if u.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rolledBack = true; return nil }
func (t *fakeTx) Tx() pgx.Tx                         { return nil }

type fakeTxManager struct {
	last *fakeTx
}

func (m *fakeTxManager) BeginTx(ctx context.Context) (postgres.Transaction, error) {
	m.last = &fakeTx{}
	return m.last, nil
}

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}

// ---- fixture --------------------------------------------------------------

type fixture struct {
	repo    *fakePostRepo
	cats    *fakeCategoryRepo
	files   *fakeFileStore
	dir     *fakeDirectory
	tx      *fakeTxManager
	bus     *eventbus.Bus
	service *application.PostService

	category *domain.Category
	author   *usersdomain.User
	admin    *usersdomain.User
	stranger *usersdomain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:  newFakePostRepo(),
		cats:  &fakeCategoryRepo{categories: make(map[uuid.UUID]*domain.Category)},
		files: newFakeFileStore(),
		tx:    &fakeTxManager{},
		bus:   eventbus.NewBus(nopLogger{}),
	}

	cat, err := domain.NewCategory("Tech", "tech posts")
	require.NoError(t, err)
	f.category = cat
	f.cats.categories[cat.ID] = cat

	f.author = fixtureUser(t, "author", false)
	f.admin = fixtureUser(t, "admin", true)
	f.stranger = fixtureUser(t, "stranger", false)
	f.dir = &fakeDirectory{byName: map[string]*usersdomain.User{
		"author":   f.author,
		"admin":    f.admin,
		"stranger": f.stranger,
	}}
	for _, u := range f.dir.byName {
		f.repo.userInfo[u.ID] = ports.Liker{Username: u.Username, Email: u.Email}
	}

	f.service = application.NewPostService(
		f.repo, f.cats, f.files, f.dir, f.tx,
		bluemonday.UGCPolicy(), f.bus, nopLogger{},
	)
	return f
}

func fixtureUser(t *testing.T, username string, admin bool) *usersdomain.User {
	t.Helper()
	u, err := usersdomain.NewUser("Test "+username, username, username+"@example.com", "hash")
	require.NoError(t, err)
	if admin {
		u.GrantRole(authz.RoleAdmin)
	}
	return u
}

func (f *fixture) createPost(t *testing.T, files ...application.FileUpload) *application.PostView {
	t.Helper()
	view, err := f.service.CreatePost(context.Background(), identity.Principal{Name: "author"}, application.CreatePostParams{
		Title:       "Profiling Go services",
		Description: "pprof in production",
		Content:     "<p>body</p>",
		CategoryID:  f.category.ID,
		Files:       files,
	})
	require.NoError(t, err)
	return view
}

// ---- tests ----------------------------------------------------------------

func TestCreatePostStoresMediaInOneTransaction(t *testing.T) {
	f := newFixture(t)

	view := f.createPost(t,
		application.FileUpload{Name: "a.png", Data: []byte{1}},
		application.FileUpload{Name: "b.png", Data: []byte{2}},
	)

	assert.Len(t, view.MediaURLs, 2)
	assert.Equal(t, 0, view.LikeCount)
	assert.True(t, f.tx.last.committed)
	assert.Len(t, f.files.saved, 2)
}

func TestCreatePostRejectsEmptyUploadBeforeAnyWrite(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreatePost(context.Background(), identity.Principal{Name: "author"}, application.CreatePostParams{
		Title:       "T",
		Description: "D",
		Content:     "C",
		CategoryID:  f.category.ID,
		Files: []application.FileUpload{
			{Name: "ok.png", Data: []byte{1}},
			{Name: "empty.png", Data: nil},
		},
	})

	require.ErrorIs(t, err, application.ErrEmptyUpload)
	assert.Nil(t, f.tx.last, "no transaction may begin for a rejected upload")
	assert.Empty(t, f.files.saved, "no file may be written for a rejected upload")
}

func TestCreatePostUnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreatePost(context.Background(), identity.Principal{Name: "author"}, application.CreatePostParams{
		Title:       "T",
		Description: "D",
		Content:     "C",
		CategoryID:  uuid.New(),
	})
	require.ErrorIs(t, err, application.ErrCategoryNotFound)
}

func TestCreatePostRollsBackWhenMediaInsertFails(t *testing.T) {
	f := newFixture(t)
	f.repo.failAddMedia = true

	_, err := f.service.CreatePost(context.Background(), identity.Principal{Name: "author"}, application.CreatePostParams{
		Title:       "T",
		Description: "D",
		Content:     "C",
		CategoryID:  f.category.ID,
		Files:       []application.FileUpload{{Name: "a.png", Data: []byte{1}}},
	})

	require.Error(t, err)
	assert.True(t, f.tx.last.rolledBack)
	assert.Empty(t, f.files.saved, "stored files are removed on rollback")
	assert.Len(t, f.files.removed, 1)
}

func TestDeletePostAuthorization(t *testing.T) {
	f := newFixture(t)
	view := f.createPost(t)

	err := f.service.DeletePost(context.Background(), identity.Principal{Name: "stranger"}, view.ID)
	require.ErrorIs(t, err, application.ErrPermissionDenied)

	require.NoError(t, f.service.DeletePost(context.Background(), identity.Principal{Name: "admin"}, view.ID))

	_, err = f.service.GetPost(context.Background(), view.ID, identity.Anonymous)
	require.ErrorIs(t, err, application.ErrPostNotFound)

	err = f.service.DeletePost(context.Background(), identity.Principal{Name: "admin"}, view.ID)
	require.ErrorIs(t, err, application.ErrPostNotFound, "second delete sees NotFound")
}

func TestDeletePostCleansUpMediaFiles(t *testing.T) {
	f := newFixture(t)
	cleanup := application.NewMediaCleanup(f.files, nopLogger{})
	cleanup.Register(f.bus)

	view := f.createPost(t, application.FileUpload{Name: "a.png", Data: []byte{1}})
	require.Len(t, f.files.saved, 1)

	require.NoError(t, f.service.DeletePost(context.Background(), identity.Principal{Name: "author"}, view.ID))

	assert.Eventually(t, func() bool {
		return len(f.files.removed) == 1
	}, time.Second, 10*time.Millisecond, "cleanup subscriber removes the file")
}

func TestTogglePostLikeIsItsOwnInverse(t *testing.T) {
	f := newFixture(t)
	view := f.createPost(t)
	viewer := identity.Principal{Name: "stranger"}

	require.NoError(t, f.service.TogglePostLike(context.Background(), viewer, view.ID))
	got, err := f.service.GetPost(context.Background(), view.ID, viewer)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
	assert.True(t, got.LikedByViewer)

	require.NoError(t, f.service.TogglePostLike(context.Background(), viewer, view.ID))
	got, err = f.service.GetPost(context.Background(), view.ID, viewer)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikeCount)
	assert.False(t, got.LikedByViewer)
}

func TestTogglePostLikeUnknownPost(t *testing.T) {
	f := newFixture(t)
	err := f.service.TogglePostLike(context.Background(), identity.Principal{Name: "author"}, uuid.New())
	require.ErrorIs(t, err, application.ErrPostNotFound)
}

func TestUpdatePostOwnership(t *testing.T) {
	f := newFixture(t)
	view := f.createPost(t)
	params := application.UpdatePostParams{
		Title:       "Edited",
		Description: "still about pprof",
		Content:     "new body",
		CategoryID:  f.category.ID,
	}

	_, err := f.service.UpdatePost(context.Background(), identity.Principal{Name: "stranger"}, view.ID, params)
	require.ErrorIs(t, err, application.ErrPermissionDenied)

	updated, err := f.service.UpdatePost(context.Background(), identity.Principal{Name: "author"}, view.ID, params)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)

	updated, err = f.service.UpdatePost(context.Background(), identity.Principal{Name: "admin"}, view.ID, params)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
}

func TestListByCategoryAndAuthor(t *testing.T) {
	f := newFixture(t)
	f.createPost(t)

	views, meta, err := f.service.ListByCategory(context.Background(), f.category.ID, identity.Anonymous, pagination.Request{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, 1, meta.TotalElements)

	_, _, err = f.service.ListByCategory(context.Background(), uuid.New(), identity.Anonymous, pagination.Request{PageSize: 10})
	require.ErrorIs(t, err, application.ErrCategoryNotFound)

	views, _, err = f.service.ListByAuthor(context.Background(), f.author.ID, identity.Anonymous, pagination.Request{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, _, err = f.service.ListByAuthor(context.Background(), uuid.New(), identity.Anonymous, pagination.Request{PageSize: 10})
	require.Error(t, err)
}

func TestContentIsSanitized(t *testing.T) {
	f := newFixture(t)
	view, err := f.service.CreatePost(context.Background(), identity.Principal{Name: "author"}, application.CreatePostParams{
		Title:       "XSS",
		Description: "scripts must not survive",
		Content:     `<p>hello</p><script>alert(1)</script>`,
		CategoryID:  f.category.ID,
	})
	require.NoError(t, err)
	assert.NotContains(t, view.Content, "<script>")
	assert.Contains(t, view.Content, "<p>hello</p>")
}
