package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"instacat/gram/domain"
	"instacat/shared/db"

	"github.com/rs/zerolog/log"
)

// PostService carries the post lifecycle: listing, owner-scoped reads, like
// toggling, creation, and deletion with its image cascade. It holds no state
// of its own; everything lives in the repositories.
type PostService struct {
	db     *sql.DB
	posts  domain.PostRepository
	users  domain.UserRepository
	images domain.ImageRepository
}

func NewPostService(sqlDB *sql.DB, posts domain.PostRepository, users domain.UserRepository, images domain.ImageRepository) *PostService {
	return &PostService{
		db:     sqlDB,
		posts:  posts,
		users:  users,
		images: images,
	}
}

// ListAllPosts returns every post, ascending by creation time.
func (s *PostService) ListAllPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.posts.FindAllOrderByCreatedAt(ctx)
}

// GetPost returns the post with the given id owned by username. A post owned
// by someone else is reported as not found; ownership is enforced entirely by
// the (id, owner) lookup.
func (s *PostService) GetPost(ctx context.Context, postID int64, username string) (*domain.Post, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.FindByIDAndUser(ctx, postID, user)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, fmt.Errorf("%w: id %d for username %s", domain.ErrPostNotFound, postID, username)
		}
		return nil, err
	}

	return post, nil
}

// ListPostsForUser returns username's own posts, newest first.
func (s *PostService) ListPostsForUser(ctx context.Context, username string) ([]*domain.Post, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.posts.FindByUserOrderByCreatedAtDesc(ctx, user)
}

// ToggleLike flips whether username has liked the post. There is no ownership
// check here: any authenticated user may like any post. The membership test,
// the counter change, and the save run in one transaction so the like count
// and the liked-users set cannot drift apart.
func (s *PostService) ToggleLike(ctx context.Context, postID int64, username string) (*domain.Post, error) {
	var updated *domain.Post

	err := db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		post, err := s.posts.FindByID(txCtx, postID)
		if err != nil {
			return err
		}

		if post.LikedBy(username) {
			post.Likes--
			post.LikedUsers = removeUsername(post.LikedUsers, username)
		} else {
			post.Likes++
			post.LikedUsers = append(post.LikedUsers, username)
		}

		updated, err = s.posts.Save(txCtx, post)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeletePost deletes username's post and any image attached to it. Ownership
// is enforced by the same (id, owner) lookup as GetPost. Image and post are
// removed in a single transaction, image first, so a failure partway through
// cannot leave an orphaned image record behind.
func (s *PostService) DeletePost(ctx context.Context, postID int64, username string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	err = db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		post, err := s.posts.FindByIDAndUser(txCtx, postID, user)
		if err != nil {
			if errors.Is(err, domain.ErrPostNotFound) {
				return fmt.Errorf("%w: id %d for username %s", domain.ErrPostNotFound, postID, username)
			}
			return err
		}

		img, err := s.images.FindByPostID(txCtx, post.ID)
		if err != nil && !errors.Is(err, domain.ErrImageNotFound) {
			return err
		}

		if img != nil {
			if err := s.images.DeleteImage(txCtx, img); err != nil {
				return err
			}
		}

		return s.posts.Delete(txCtx, post)
	})
	if err != nil {
		return err
	}

	log.Info().Int64("postID", postID).Str("username", username).Msg("Deleted post")
	return nil
}

// CreatePost creates a new post owned by username with a zero like count and
// an empty liked-users set. The store assigns the id and creation timestamp.
// Field validation happens at the transport edge, not here.
func (s *PostService) CreatePost(ctx context.Context, title, caption, location, username string) (*domain.Post, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		UserID:     user.ID,
		Username:   user.Username,
		Title:      title,
		Caption:    caption,
		Location:   location,
		Likes:      0,
		LikedUsers: make([]string, 0),
	}

	log.Info().Str("username", user.Username).Msg("Creating new post")
	return s.posts.Save(ctx, post)
}

func removeUsername(usernames []string, username string) []string {
	out := usernames[:0]
	for _, u := range usernames {
		if u != username {
			out = append(out, u)
		}
	}
	return out
}
