package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"instacat/gram/domain"
	"instacat/shared/db"
)

var _ domain.ImageRepository = (*SQLiteImageRepository)(nil)

// SQLiteImageRepository implements domain.ImageRepository using SQL database
// (SQLite). Image bytes are kept on disk under imageDir; the database row
// carries the filenames.
type SQLiteImageRepository struct {
	db       *sql.DB
	imageDir string
}

// NewImageRepository creates a new SQLiteImageRepository from a standard
// sql.DB and the directory image files are stored under
func NewImageRepository(sqlDB *sql.DB, imageDir string) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db:       sqlDB,
		imageDir: imageDir,
	}
}

const insertImageQuery = `
	INSERT INTO images (post_id, name, stored_name, created_at)
	VALUES (?, ?, ?, ?)
`

// SaveImage saves an image to both filesystem and database within a transaction
func (r *SQLiteImageRepository) SaveImage(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	if img.StoredName == "" {
		return fmt.Errorf("image stored name cannot be empty")
	}

	// Run filesystem and database operations in a transaction
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		if img.CreatedAt.IsZero() {
			img.CreatedAt = time.Now().UTC()
		}

		executor := db.GetExecutor(txCtx, r.db)
		res, err := executor.ExecContext(txCtx, insertImageQuery,
			img.PostID,
			img.Name,
			img.StoredName,
			img.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert image record: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted image id: %w", err)
		}
		img.ID = id

		// Then write to filesystem - if this fails, transaction rolls back
		if err := os.MkdirAll(r.imageDir, 0755); err != nil {
			return fmt.Errorf("failed to create image directory: %w", err)
		}

		localPath := filepath.Join(r.imageDir, img.StoredName)
		if err := os.WriteFile(localPath, img.Content, 0644); err != nil {
			return fmt.Errorf("failed to write image file: %w", err)
		}

		return nil
	})
}

const findImageByPostIDQuery = `
	SELECT id, post_id, name, stored_name, created_at
	FROM images
	WHERE post_id = ?
`

// FindByPostID retrieves the image attached to a post, loading its bytes from disk
func (r *SQLiteImageRepository) FindByPostID(ctx context.Context, postID int64) (*domain.Image, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row imageRow
	err := executor.QueryRowContext(ctx, findImageByPostIDQuery, postID).Scan(
		&row.ID,
		&row.PostID,
		&row.Name,
		&row.StoredName,
		&row.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: post %d", domain.ErrImageNotFound, postID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	img := row.toDomain()

	localPath := filepath.Join(r.imageDir, img.StoredName)
	content, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	img.Content = content

	return img, nil
}

const deleteImageQuery = `
	DELETE FROM images WHERE id = ?
`

// DeleteImage removes an image from both filesystem and database within a transaction
func (r *SQLiteImageRepository) DeleteImage(ctx context.Context, img *domain.Image) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}

	// Run database and filesystem operations in a transaction
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		if _, err := executor.ExecContext(txCtx, deleteImageQuery, img.ID); err != nil {
			return fmt.Errorf("failed to delete image record: %w", err)
		}

		// Then remove from filesystem - a missing file is not an error
		localPath := filepath.Join(r.imageDir, img.StoredName)
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove image file: %w", err)
		}

		return nil
	})
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	ID         int64
	PostID     int64
	Name       string
	StoredName string
	CreatedAt  sql.NullTime
}

// toDomain converts an imageRow to a domain.Image, handling the nullable time
func (ir *imageRow) toDomain() *domain.Image {
	img := &domain.Image{
		ID:         ir.ID,
		PostID:     ir.PostID,
		Name:       ir.Name,
		StoredName: ir.StoredName,
	}

	if ir.CreatedAt.Valid {
		img.CreatedAt = ir.CreatedAt.Time
	}

	return img
}
