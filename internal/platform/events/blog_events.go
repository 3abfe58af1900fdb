package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/platform/eventbus"
)

// Topics for blog lifecycle events
const (
	PostCreatedTopic     eventbus.Topic = "posts.created"
	PostDeletedTopic     eventbus.Topic = "posts.deleted"
	UserDeactivatedTopic eventbus.Topic = "users.deactivated"
)

// PostCreatedEvent is published after a post (and its media) has been committed.
type PostCreatedEvent struct {
	PostID     uuid.UUID
	ActorID    uuid.UUID
	Title      string
	OccurredAt time.Time
}

// PostDeletedEvent is published after a post has been removed. FileURLs lists
// the media files that belonged to the post; the database rows are already
// gone via cascade, the files on disk are cleaned up by a subscriber.
type PostDeletedEvent struct {
	PostID     uuid.UUID
	ActorID    uuid.UUID
	FileURLs   []string
	OccurredAt time.Time
}

// UserDeactivatedEvent is published when an admin soft-deletes a user.
type UserDeactivatedEvent struct {
	UserID     uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}
