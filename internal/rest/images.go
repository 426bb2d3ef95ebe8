package rest

import (
	"io"
	"net/http"

	"instacat/api"
	"instacat/gram/application"
	"instacat/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ImagesApi struct {
	images *application.ImageService
}

// Upload attaches a multipart "file" to one of the authenticated user's
// posts, replacing any image the post already had.
func (a *ImagesApi) Upload(c *gin.Context) {
	username, ok := middleware.UsernameFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	img, err := a.images.UploadToPost(c.Request.Context(), postID, username, fileHeader.Filename, content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.ImageResponse{
		ID:     img.ID,
		PostID: img.PostID,
		Name:   img.Name,
	})
}

// Get serves the bytes of the image attached to a post.
func (a *ImagesApi) Get(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	img, err := a.images.GetForPost(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(img.Content), img.Content)
}
