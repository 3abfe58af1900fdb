package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/comments/ports"
	"github.com/harborblog/backend/internal/identity"
)

// CommentView is the viewer-relative read DTO for a comment. Name and
// Email come from the creation-time snapshot; the author flags are live.
type CommentView struct {
	ID             uuid.UUID  `json:"id"`
	PostID         uuid.UUID  `json:"postId"`
	AuthorID       *uuid.UUID `json:"authorId,omitempty"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Body           string     `json:"body"`
	AuthorIsAdmin  bool       `json:"authorIsAdmin"`
	AuthorIsActive bool       `json:"authorIsActive"`
	LikeCount      int        `json:"likeCount"`
	LikedByViewer  bool       `json:"likedByViewer"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ProjectComment builds the viewer-relative view of a comment detail.
func ProjectComment(detail *ports.CommentDetail, viewer identity.Principal) *CommentView {
	return &CommentView{
		ID:             detail.Comment.ID,
		PostID:         detail.Comment.PostID,
		AuthorID:       detail.Comment.AuthorID,
		Name:           detail.Comment.Name,
		Email:          detail.Comment.Email,
		Body:           detail.Comment.Body,
		AuthorIsAdmin:  detail.AuthorIsAdmin,
		AuthorIsActive: detail.AuthorIsActive,
		LikeCount:      len(detail.Likers),
		LikedByViewer:  likedBy(detail.Likers, viewer),
		CreatedAt:      detail.Comment.CreatedAt,
		UpdatedAt:      detail.Comment.UpdatedAt,
	}
}

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
