package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/posts/ports"
)

// PostView is the viewer-relative read DTO for a post. LikeCount,
// LikedByViewer and the author flags are computed at projection time and
// never persisted, so role changes and deactivations show up on the next
// read without touching post rows.
type PostView struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Content        string     `json:"content"`
	CategoryID     uuid.UUID  `json:"categoryId"`
	CategoryName   string     `json:"categoryName"`
	AuthorID       *uuid.UUID `json:"authorId,omitempty"`
	AuthorUsername string     `json:"authorUsername,omitempty"`
	AuthorIsAdmin  bool       `json:"authorIsAdmin"`
	AuthorIsActive bool       `json:"authorIsActive"`
	LikeCount      int        `json:"likeCount"`
	LikedByViewer  bool       `json:"likedByViewer"`
	MediaURLs      []string   `json:"mediaUrls"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ProjectPost builds the viewer-relative view of a post detail.
// An anonymous viewer never sees likedByViewer true.
func ProjectPost(detail *ports.PostDetail, viewer identity.Principal) *PostView {
	mediaURLs := make([]string, 0, len(detail.Media))
	for _, m := range detail.Media {
		mediaURLs = append(mediaURLs, m.FileURL)
	}

	return &PostView{
		ID:             detail.Post.ID,
		Title:          detail.Post.Title,
		Description:    detail.Post.Description,
		Content:        detail.Post.Content,
		CategoryID:     detail.Post.CategoryID,
		CategoryName:   detail.CategoryName,
		AuthorID:       detail.Post.AuthorID,
		AuthorUsername: detail.AuthorUsername,
		AuthorIsAdmin:  detail.AuthorIsAdmin,
		AuthorIsActive: detail.AuthorIsActive,
		LikeCount:      len(detail.Likers),
		LikedByViewer:  likedBy(detail.Likers, viewer),
		MediaURLs:      mediaURLs,
		CreatedAt:      detail.Post.CreatedAt,
		UpdatedAt:      detail.Post.UpdatedAt,
	}
}

// likedBy matches the viewer against the likers by username or email,
// since a bearer token subject may carry either.
func likedBy(likers []ports.Liker, viewer identity.Principal) bool {
	if viewer.IsAnonymous() {
		return false
	}
	for _, l := range likers {
		if viewer.Matches(l.Username, l.Email) {
			return true
		}
	}
	return false
}
