package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewCommentBodyLengthBoundary(t *testing.T) {
	postID := uuid.New()
	authorID := uuid.New()

	if _, err := NewComment(postID, authorID, "John", "john@example.com", "x"); err != ErrBodyTooShort {
		t.Errorf("1-char body: got %v, want ErrBodyTooShort", err)
	}
	if _, err := NewComment(postID, authorID, "John", "john@example.com", " x "); err != ErrBodyTooShort {
		t.Errorf("1 char after trimming: got %v, want ErrBodyTooShort", err)
	}
	// A single multibyte rune is still one character, not two bytes.
	if _, err := NewComment(postID, authorID, "John", "john@example.com", "é"); err != ErrBodyTooShort {
		t.Errorf("1-rune multibyte body: got %v, want ErrBodyTooShort", err)
	}
	if _, err := NewComment(postID, authorID, "John", "john@example.com", "éé"); err != nil {
		t.Errorf("2-rune multibyte body must be accepted: %v", err)
	}

	c, err := NewComment(postID, authorID, "John", "john@example.com", "ok")
	if err != nil {
		t.Fatalf("2-char body must be accepted: %v", err)
	}
	if c.Body != "ok" {
		t.Errorf("body = %q", c.Body)
	}
	if c.Name != "John" || c.Email != "john@example.com" {
		t.Error("author snapshot not recorded")
	}

	if _, err := NewComment(postID, authorID, "John", "john@example.com", strings.Repeat("x", 2001)); err != ErrBodyTooLong {
		t.Errorf("over-long body: got %v, want ErrBodyTooLong", err)
	}
	if _, err := NewComment(postID, authorID, "John", "john@example.com", strings.Repeat("é", 2000)); err != nil {
		t.Errorf("2000 multibyte runes must be accepted: %v", err)
	}
}

func TestEditBodyKeepsSnapshot(t *testing.T) {
	c, err := NewComment(uuid.New(), uuid.New(), "John", "john@example.com", "original")
	if err != nil {
		t.Fatal(err)
	}

	if err := c.EditBody("x"); err != ErrBodyTooShort {
		t.Errorf("got %v, want ErrBodyTooShort", err)
	}
	if c.Body != "original" {
		t.Error("rejected edit must not mutate the comment")
	}

	if err := c.EditBody("updated"); err != nil {
		t.Fatal(err)
	}
	if c.Body != "updated" {
		t.Errorf("body = %q", c.Body)
	}
	if c.Name != "John" {
		t.Error("snapshot must survive edits")
	}
}
