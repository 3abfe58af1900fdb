package application_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/posts/application"
	"github.com/harborblog/backend/internal/posts/domain"
	"github.com/harborblog/backend/internal/posts/ports"
)

func sampleDetail() *ports.PostDetail {
	authorID := uuid.New()
	return &ports.PostDetail{
		Post: domain.Post{
			ID:          uuid.New(),
			Title:       "Profiling Go services",
			Description: "pprof in production",
			Content:     "<p>body</p>",
			CategoryID:  uuid.New(),
			AuthorID:    &authorID,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
		AuthorUsername: "johndoe",
		AuthorIsAdmin:  false,
		AuthorIsActive: true,
		CategoryName:   "Tech",
		Likers: []ports.Liker{
			{Username: "alice", Email: "alice@example.com"},
			{Username: "bob", Email: "bob@example.com"},
		},
		Media: []domain.Media{
			{ID: uuid.New(), FileURL: "a.png"},
		},
	}
}

func TestProjectPostLikeCount(t *testing.T) {
	view := application.ProjectPost(sampleDetail(), identity.Anonymous)
	assert.Equal(t, 2, view.LikeCount)
	assert.False(t, view.LikedByViewer, "anonymous viewers never see likedByViewer")
	assert.Equal(t, []string{"a.png"}, view.MediaURLs)
}

func TestProjectPostLikedByViewer(t *testing.T) {
	detail := sampleDetail()

	cases := []struct {
		name      string
		principal string
		want      bool
	}{
		{"matched by username", "alice", true},
		{"matched by email", "bob@example.com", true},
		{"not a liker", "charlie", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := application.ProjectPost(detail, identity.Principal{Name: tc.principal})
			assert.Equal(t, tc.want, view.LikedByViewer)
		})
	}
}

func TestProjectPostCarriesLiveAuthorFlags(t *testing.T) {
	detail := sampleDetail()
	detail.AuthorIsAdmin = true
	detail.AuthorIsActive = false

	view := application.ProjectPost(detail, identity.Anonymous)
	assert.True(t, view.AuthorIsAdmin)
	assert.False(t, view.AuthorIsActive)
	assert.Equal(t, "johndoe", view.AuthorUsername)
}
