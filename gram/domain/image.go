package domain

import (
	"context"
	"time"
)

// Image is the media attached to a post. The database row carries the original
// and stored filenames; the bytes live on disk under the configured image
// directory. An image holds a weak back-reference to its post and is destroyed
// with it.
type Image struct {
	ID         int64
	PostID     int64
	Name       string
	StoredName string
	Content    []byte
	CreatedAt  time.Time
}

type ImageRepository interface {
	// SaveImage persists the image record and writes its bytes to disk.
	SaveImage(ctx context.Context, img *Image) error

	// FindByPostID retrieves the image attached to a post, with its bytes
	// loaded from disk.
	FindByPostID(ctx context.Context, postID int64) (*Image, error)

	// DeleteImage removes the image record and its file on disk.
	DeleteImage(ctx context.Context, img *Image) error
}
