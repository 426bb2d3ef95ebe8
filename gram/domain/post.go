package domain

import (
	"context"
	"time"
)

// Post is a user's published entry. The liked-users set is the authoritative
// record of who liked the post; Likes carries the same information as a counter
// and is only ever mutated together with the set.
type Post struct {
	ID         int64
	UserID     int64
	Username   string
	Title      string
	Caption    string
	Location   string
	Likes      int
	LikedUsers []string
	CreatedAt  time.Time
}

// LikedBy reports whether username is in the liked-users set.
func (p *Post) LikedBy(username string) bool {
	for _, u := range p.LikedUsers {
		if u == username {
			return true
		}
	}
	return false
}

type PostRepository interface {
	// FindAllOrderByCreatedAt returns every post, ascending by creation time.
	FindAllOrderByCreatedAt(ctx context.Context) ([]*Post, error)

	// FindByUserOrderByCreatedAtDesc returns the user's posts, newest first.
	FindByUserOrderByCreatedAtDesc(ctx context.Context, user *User) ([]*Post, error)

	// FindByIDAndUser looks a post up by (id, owner). A post owned by someone
	// else is indistinguishable from a missing one.
	FindByIDAndUser(ctx context.Context, id int64, user *User) (*Post, error)

	// FindByID looks a post up by id alone, regardless of owner.
	FindByID(ctx context.Context, id int64) (*Post, error)

	// Save inserts the post when it has no ID yet, assigning its ID and
	// creation timestamp, and otherwise updates its mutable fields and
	// liked-users set. Returns the persisted post.
	Save(ctx context.Context, p *Post) (*Post, error)

	Delete(ctx context.Context, p *Post) error
}
