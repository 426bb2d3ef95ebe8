package application

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"instacat/gram/domain"
)

func TestImageService_UploadAndGet(t *testing.T) {
	env := setupServices(t)
	env.createUser(t, "bob")

	post, err := env.posts.CreatePost(context.Background(), "Cat", "cute", "home", "bob")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	content := []byte("fake jpeg bytes")
	img, err := env.images.UploadToPost(context.Background(), post.ID, "bob", "cat.jpg", content)
	if err != nil {
		t.Fatalf("UploadToPost failed: %v", err)
	}

	if img.ID == 0 {
		t.Error("UploadToPost should assign an ID")
	}
	if img.Name != "cat.jpg" {
		t.Errorf("Name = %v, want cat.jpg", img.Name)
	}
	if img.StoredName == "" || img.StoredName == "cat.jpg" {
		t.Errorf("StoredName = %v, want a generated filename", img.StoredName)
	}

	retrieved, err := env.images.GetForPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetForPost failed: %v", err)
	}
	if !bytes.Equal(retrieved.Content, content) {
		t.Error("retrieved content does not match uploaded content")
	}
}

func TestImageService_Upload_OwnerScoped(t *testing.T) {
	env := setupServices(t)
	env.createUser(t, "bob")
	env.createUser(t, "alice")

	post, err := env.posts.CreatePost(context.Background(), "Cat", "cute", "home", "bob")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	_, err = env.images.UploadToPost(context.Background(), post.ID, "alice", "cat.jpg", []byte("bytes"))
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("UploadToPost for non-owner error = %v, want ErrPostNotFound", err)
	}
}

func TestImageService_Upload_ReplacesExisting(t *testing.T) {
	env := setupServices(t)
	env.createUser(t, "bob")

	post, err := env.posts.CreatePost(context.Background(), "Cat", "cute", "home", "bob")
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if _, err := env.images.UploadToPost(context.Background(), post.ID, "bob", "old.jpg", []byte("old")); err != nil {
		t.Fatalf("first UploadToPost failed: %v", err)
	}

	newContent := []byte("new")
	if _, err := env.images.UploadToPost(context.Background(), post.ID, "bob", "new.jpg", newContent); err != nil {
		t.Fatalf("second UploadToPost failed: %v", err)
	}

	retrieved, err := env.images.GetForPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetForPost failed: %v", err)
	}

	if retrieved.Name != "new.jpg" {
		t.Errorf("Name = %v, want new.jpg", retrieved.Name)
	}
	if !bytes.Equal(retrieved.Content, newContent) {
		t.Error("retrieved content should be the replacement upload")
	}
}

func TestImageService_GetForPost_NotFound(t *testing.T) {
	env := setupServices(t)

	_, err := env.images.GetForPost(context.Background(), 42)
	if !errors.Is(err, domain.ErrImageNotFound) {
		t.Errorf("GetForPost error = %v, want ErrImageNotFound", err)
	}
}
