package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title must not exceed 200 characters")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description must not exceed 500 characters")
	ErrContentRequired     = errors.New("content is required")
	ErrCategoryRequired    = errors.New("category is required")
)

const (
	titleMaxLen       = 200
	descriptionMaxLen = 500
)

// Post is the core content entity. AuthorID is a pointer because the
// author row may be hard-deleted by operators while the post survives;
// projection treats a nil author as unknown rather than failing.
type Post struct {
	ID          uuid.UUID
	Title       string
	Description string
	Content     string
	CategoryID  uuid.UUID
	AuthorID    *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPost validates and assembles a post. The caller runs the content
// through the HTML sanitizer before constructing the post.
func NewPost(title, description, content string, categoryID uuid.UUID, authorID uuid.UUID) (*Post, error) {
	if err := validateFields(title, description, content, categoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	author := authorID
	return &Post{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Content:     content,
		CategoryID:  categoryID,
		AuthorID:    &author,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Edit replaces the mutable fields after validating them. A rejected
// edit leaves the post untouched.
func (p *Post) Edit(title, description, content string, categoryID uuid.UUID) error {
	if err := validateFields(title, description, content, categoryID); err != nil {
		return err
	}
	p.Title = strings.TrimSpace(title)
	p.Description = strings.TrimSpace(description)
	p.Content = content
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	return nil
}

func validateFields(title, description, content string, categoryID uuid.UUID) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	switch {
	case title == "":
		return ErrTitleRequired
	case utf8.RuneCountInString(title) > titleMaxLen:
		return ErrTitleTooLong
	case description == "":
		return ErrDescriptionRequired
	case utf8.RuneCountInString(description) > descriptionMaxLen:
		return ErrDescriptionTooLong
	case strings.TrimSpace(content) == "":
		return ErrContentRequired
	case categoryID == uuid.Nil:
		return ErrCategoryRequired
	}
	return nil
}
