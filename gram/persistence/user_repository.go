package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"instacat/gram/domain"
	"instacat/shared/db"
)

var _ domain.UserRepository = (*SQLiteUserRepository)(nil)

// SQLiteUserRepository implements domain.UserRepository using SQL database (SQLite)
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLiteUserRepository from a standard sql.DB
func NewUserRepository(sqlDB *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{
		db: sqlDB,
	}
}

const findUserByUsernameQuery = `
	SELECT id, username, email, name, password_hash, created_at
	FROM users
	WHERE username = ?
`

// FindByUsername retrieves a single user by username
func (r *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	executor := db.GetExecutor(ctx, r.db)

	var row userRow
	err := executor.QueryRowContext(ctx, findUserByUsernameQuery, username).Scan(
		&row.ID,
		&row.Username,
		&row.Email,
		&row.Name,
		&row.PasswordHash,
		&row.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return row.toDomain(), nil
}

const insertUserQuery = `
	INSERT INTO users (username, email, name, password_hash, created_at)
	VALUES (?, ?, ?, ?, ?)
`

// Create inserts the user, assigning its ID and creation timestamp
func (r *SQLiteUserRepository) Create(ctx context.Context, u *domain.User) error {
	if u == nil {
		return fmt.Errorf("user cannot be nil")
	}

	if u.Username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, insertUserQuery,
		u.Username,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted user id: %w", err)
	}
	u.ID = id

	return nil
}

// userRow is a private struct used to scan database rows
type userRow struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    sql.NullTime
}

// toDomain converts a userRow to a domain.User, handling the nullable time
func (ur *userRow) toDomain() *domain.User {
	user := &domain.User{
		ID:           ur.ID,
		Username:     ur.Username,
		Email:        ur.Email,
		Name:         ur.Name,
		PasswordHash: ur.PasswordHash,
	}

	if ur.CreatedAt.Valid {
		user.CreatedAt = ur.CreatedAt.Time
	}

	return user
}
