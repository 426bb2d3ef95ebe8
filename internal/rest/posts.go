package rest

import (
	"net/http"

	"instacat/api"
	"instacat/gram/application"
	"instacat/gram/domain"
	"instacat/internal/middleware"

	"github.com/gin-gonic/gin"
)

type PostsApi struct {
	posts *application.PostService
}

// ListAll returns every post, oldest first.
func (a *PostsApi) ListAll(c *gin.Context) {
	posts, err := a.posts.ListAllPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}

// ListOwn returns the authenticated user's posts, newest first.
func (a *PostsApi) ListOwn(c *gin.Context) {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	posts, err := a.posts.ListPostsForUser(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponses(posts))
}

// Get returns one of the authenticated user's posts by id.
func (a *PostsApi) Get(c *gin.Context) {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := a.posts.GetPost(c.Request.Context(), postID, username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}

// Create makes a new post owned by the authenticated user.
func (a *PostsApi) Create(c *gin.Context) {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req api.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := a.posts.CreatePost(c.Request.Context(), req.Title, req.Caption, req.Location, username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(post))
}

// ToggleLike flips the authenticated user's like on any post.
func (a *PostsApi) ToggleLike(c *gin.Context) {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := a.posts.ToggleLike(c.Request.Context(), postID, username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete removes one of the authenticated user's posts and its image.
func (a *PostsApi) Delete(c *gin.Context) {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := a.posts.DeletePost(c.Request.Context(), postID, username); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toPostResponse(p *domain.Post) api.PostResponse {
	likedUsers := p.LikedUsers
	if likedUsers == nil {
		likedUsers = make([]string, 0)
	}

	return api.PostResponse{
		ID:         p.ID,
		Username:   p.Username,
		Title:      p.Title,
		Caption:    p.Caption,
		Location:   p.Location,
		Likes:      p.Likes,
		LikedUsers: likedUsers,
		CreatedAt:  p.CreatedAt,
	}
}

func toPostResponses(posts []*domain.Post) []api.PostResponse {
	out := make([]api.PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}
