package domain

import "errors"

var (
	// ErrUserNotFound indicates a username lookup yielded nothing.
	ErrUserNotFound = errors.New("user not found")

	// ErrPostNotFound indicates a post lookup yielded nothing, including the
	// case where the post exists but belongs to a different user.
	ErrPostNotFound = errors.New("post not found")

	// ErrImageNotFound indicates the post has no image attached.
	ErrImageNotFound = errors.New("image not found")
)
