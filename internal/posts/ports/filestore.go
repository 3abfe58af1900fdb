package ports

// FileStore abstracts where uploaded media bytes live. The disk-backed
// implementation is in platform/filestore.
type FileStore interface {
	// Save persists the bytes under a generated name and returns the
	// public URL to store alongside the post.
	Save(data []byte, originalName string) (string, error)

	// Remove deletes a previously saved file; a missing file is not an error.
	Remove(relativeURL string) error
}
