package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"instacat/gram/domain"
	"instacat/shared/db"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImageService attaches media to posts. Uploading is owner-scoped the same way
// post reads are; fetching is not, since anyone who can see a post can see its
// image.
type ImageService struct {
	db     *sql.DB
	posts  domain.PostRepository
	users  domain.UserRepository
	images domain.ImageRepository
}

func NewImageService(sqlDB *sql.DB, posts domain.PostRepository, users domain.UserRepository, images domain.ImageRepository) *ImageService {
	return &ImageService{
		db:     sqlDB,
		posts:  posts,
		users:  users,
		images: images,
	}
}

// UploadToPost stores content as the image of username's post, replacing any
// image the post already had. The stored filename is freshly generated so
// uploads can never collide on disk.
func (s *ImageService) UploadToPost(ctx context.Context, postID int64, username, name string, content []byte) (*domain.Image, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var img *domain.Image

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		post, err := s.posts.FindByIDAndUser(txCtx, postID, user)
		if err != nil {
			if errors.Is(err, domain.ErrPostNotFound) {
				return fmt.Errorf("%w: id %d for username %s", domain.ErrPostNotFound, postID, username)
			}
			return err
		}

		existing, err := s.images.FindByPostID(txCtx, post.ID)
		if err != nil && !errors.Is(err, domain.ErrImageNotFound) {
			return err
		}
		if existing != nil {
			if err := s.images.DeleteImage(txCtx, existing); err != nil {
				return err
			}
		}

		img = &domain.Image{
			PostID:     post.ID,
			Name:       name,
			StoredName: uuid.NewString() + filepath.Ext(name),
			Content:    content,
		}

		return s.images.SaveImage(txCtx, img)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("postID", postID).Str("username", username).Msg("Uploaded image to post")
	return img, nil
}

// GetForPost returns the image attached to the post, bytes included.
func (s *ImageService) GetForPost(ctx context.Context, postID int64) (*domain.Image, error) {
	return s.images.FindByPostID(ctx, postID)
}
