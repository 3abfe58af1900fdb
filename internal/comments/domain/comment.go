package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrBodyTooShort = errors.New("comment body must be at least 2 characters")
	ErrBodyTooLong  = errors.New("comment body must not exceed 2000 characters")
)

const (
	bodyMinLen = 2
	bodyMaxLen = 2000
)

// Comment belongs to exactly one post. Name and Email are snapshots of the
// author taken at creation time, so a later profile change or account
// removal does not rewrite comment history. AuthorID stays the live link
// used for ownership checks.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AuthorID  *uuid.UUID
	Name      string
	Email     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewComment validates the body and snapshots the author's display fields.
func NewComment(postID uuid.UUID, authorID uuid.UUID, name, email, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if err := validateBody(body); err != nil {
		return nil, err
	}
	now := time.Now()
	author := authorID
	return &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  &author,
		Name:      name,
		Email:     email,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EditBody replaces the body after validating it. The author snapshot
// never changes on edit.
func (c *Comment) EditBody(body string) error {
	body = strings.TrimSpace(body)
	if err := validateBody(body); err != nil {
		return err
	}
	c.Body = body
	c.UpdatedAt = time.Now()
	return nil
}

func validateBody(body string) error {
	// Length limits count characters, not bytes, so a single multibyte
	// rune is still one character.
	n := utf8.RuneCountInString(body)
	if n < bodyMinLen {
		return ErrBodyTooShort
	}
	if n > bodyMaxLen {
		return ErrBodyTooLong
	}
	return nil
}
