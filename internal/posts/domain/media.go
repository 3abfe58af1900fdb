package domain

import (
	"time"

	"github.com/google/uuid"
)

// Media is a stored file attached to a post. FileURL is relative to the
// upload root so the storage directory can move without a migration.
type Media struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	FileURL   string
	CreatedAt time.Time
}

func NewMedia(postID uuid.UUID, fileURL string) *Media {
	return &Media{
		ID:        uuid.New(),
		PostID:    postID,
		FileURL:   fileURL,
		CreatedAt: time.Now(),
	}
}
