package application

import (
	"context"
	"fmt"

	"github.com/harborblog/backend/internal/platform/eventbus"
	"github.com/harborblog/backend/internal/platform/events"
	"github.com/harborblog/backend/internal/platform/logger"
	"github.com/harborblog/backend/internal/posts/ports"
)

// MediaCleanup removes media files from disk after their post is deleted.
// The database rows are already gone via cascade by the time the event
// fires, so a failed removal only leaks a file, never breaks a request.
type MediaCleanup struct {
	files  ports.FileStore
	logger logger.Logger
}

func NewMediaCleanup(files ports.FileStore, logger logger.Logger) *MediaCleanup {
	return &MediaCleanup{files: files, logger: logger}
}

// Register subscribes the cleanup handler to the post-deleted topic.
func (c *MediaCleanup) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.PostDeletedTopic, c.handlePostDeleted)
}

func (c *MediaCleanup) handlePostDeleted(ctx context.Context, event eventbus.Event) error {
	payload, ok := event.Payload.(events.PostDeletedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type %T on topic %s", event.Payload, event.Topic)
	}
	for _, url := range payload.FileURLs {
		if err := c.files.Remove(url); err != nil {
			c.logger.Warn(ctx, "failed to remove media file for deleted post",
				"error", err, "postID", payload.PostID, "fileURL", url)
		}
	}
	return nil
}
