package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"instacat/gram/domain"
	"instacat/shared/db"
)

var _ domain.PostRepository = (*SQLitePostRepository)(nil)

// SQLitePostRepository implements domain.PostRepository using SQL database (SQLite)
type SQLitePostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLitePostRepository from a standard sql.DB
func NewPostRepository(sqlDB *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{
		db: sqlDB,
	}
}

const selectPostColumns = `
	SELECT p.id, p.user_id, u.username, p.title, p.caption, p.location, p.likes, p.created_at
	FROM posts p
	JOIN users u ON u.id = p.user_id
`

const findAllPostsQuery = selectPostColumns + `
	ORDER BY p.created_at ASC, p.id ASC
`

// FindAllOrderByCreatedAt retrieves every post, ascending by creation time
func (r *SQLitePostRepository) FindAllOrderByCreatedAt(ctx context.Context) ([]*domain.Post, error) {
	return r.queryPosts(ctx, findAllPostsQuery)
}

const findPostsByUserQuery = selectPostColumns + `
	WHERE p.user_id = ?
	ORDER BY p.created_at DESC, p.id DESC
`

// FindByUserOrderByCreatedAtDesc retrieves the user's posts, newest first
func (r *SQLitePostRepository) FindByUserOrderByCreatedAtDesc(ctx context.Context, user *domain.User) ([]*domain.Post, error) {
	if user == nil {
		return nil, fmt.Errorf("user cannot be nil")
	}
	return r.queryPosts(ctx, findPostsByUserQuery, user.ID)
}

const findPostByIDAndUserQuery = selectPostColumns + `
	WHERE p.id = ? AND p.user_id = ?
`

// FindByIDAndUser looks a post up by (id, owner). A post owned by a different
// user yields domain.ErrPostNotFound, exactly like a missing one.
func (r *SQLitePostRepository) FindByIDAndUser(ctx context.Context, id int64, user *domain.User) (*domain.Post, error) {
	if user == nil {
		return nil, fmt.Errorf("user cannot be nil")
	}
	return r.queryPost(ctx, findPostByIDAndUserQuery, id, user.ID)
}

const findPostByIDQuery = selectPostColumns + `
	WHERE p.id = ?
`

// FindByID looks a post up by id alone, regardless of owner
func (r *SQLitePostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	return r.queryPost(ctx, findPostByIDQuery, id)
}

const insertPostQuery = `
	INSERT INTO posts (user_id, title, caption, location, likes, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
`

const updatePostQuery = `
	UPDATE posts
	SET title = ?, caption = ?, location = ?, likes = ?
	WHERE id = ?
`

const deletePostLikesQuery = `
	DELETE FROM post_likes WHERE post_id = ?
`

const insertPostLikeQuery = `
	INSERT INTO post_likes (post_id, username, created_at) VALUES (?, ?, ?)
`

// Save inserts the post when it has no ID yet, otherwise updates its mutable
// fields. The liked-users set is rewritten alongside the counter so the two
// cannot drift within a single save.
func (r *SQLitePostRepository) Save(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if p == nil {
		return nil, fmt.Errorf("post cannot be nil")
	}

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		now := time.Now().UTC()

		if p.ID == 0 {
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}

			res, err := executor.ExecContext(txCtx, insertPostQuery,
				p.UserID,
				p.Title,
				p.Caption,
				p.Location,
				p.Likes,
				p.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert post: %w", err)
			}

			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read inserted post id: %w", err)
			}
			p.ID = id
		} else {
			_, err := executor.ExecContext(txCtx, updatePostQuery,
				p.Title,
				p.Caption,
				p.Location,
				p.Likes,
				p.ID,
			)
			if err != nil {
				return fmt.Errorf("failed to update post: %w", err)
			}
		}

		if _, err := executor.ExecContext(txCtx, deletePostLikesQuery, p.ID); err != nil {
			return fmt.Errorf("failed to clear liked users: %w", err)
		}
		for _, username := range p.LikedUsers {
			if _, err := executor.ExecContext(txCtx, insertPostLikeQuery, p.ID, username, now); err != nil {
				return fmt.Errorf("failed to save liked user %q: %w", username, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

const deletePostQuery = `
	DELETE FROM posts WHERE id = ?
`

// Delete removes the post. Its liked-users rows go with it via the
// post_likes foreign key cascade.
func (r *SQLitePostRepository) Delete(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}

	executor := db.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, deletePostQuery, p.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

const findLikedUsersQuery = `
	SELECT username FROM post_likes WHERE post_id = ? ORDER BY username ASC
`

func (r *SQLitePostRepository) loadLikedUsers(ctx context.Context, postID int64) ([]string, error) {
	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, findLikedUsersQuery, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load liked users: %w", err)
	}
	defer rows.Close()

	usernames := make([]string, 0)
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan liked user row: %w", err)
		}
		usernames = append(usernames, username)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liked user rows: %w", err)
	}

	return usernames, nil
}

func (r *SQLitePostRepository) queryPost(ctx context.Context, query string, args ...any) (*domain.Post, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row postRow
	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&row.ID,
		&row.UserID,
		&row.Username,
		&row.Title,
		&row.Caption,
		&row.Location,
		&row.Likes,
		&row.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.ErrPostNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post := row.toDomain()
	post.LikedUsers, err = r.loadLikedUsers(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *SQLitePostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	executor := db.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		var row postRow
		err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Username,
			&row.Title,
			&row.Caption,
			&row.Location,
			&row.Likes,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	for _, post := range posts {
		post.LikedUsers, err = r.loadLikedUsers(ctx, post.ID)
		if err != nil {
			return nil, err
		}
	}

	return posts, nil
}

// postRow is a private struct used to scan database rows
type postRow struct {
	ID        int64
	UserID    int64
	Username  string
	Title     string
	Caption   string
	Location  string
	Likes     int
	CreatedAt sql.NullTime
}

// toDomain converts a postRow to a domain.Post, handling the nullable time
func (pr *postRow) toDomain() *domain.Post {
	post := &domain.Post{
		ID:         pr.ID,
		UserID:     pr.UserID,
		Username:   pr.Username,
		Title:      pr.Title,
		Caption:    pr.Caption,
		Location:   pr.Location,
		Likes:      pr.Likes,
		LikedUsers: make([]string, 0),
	}

	if pr.CreatedAt.Valid {
		post.CreatedAt = pr.CreatedAt.Time
	}

	return post
}
