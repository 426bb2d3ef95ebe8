package rest

import (
	"instacat/gram/application"
	"instacat/internal/auth"
	"instacat/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewApi registers every route on the engine. Auth endpoints are public;
// everything else requires a bearer token.
func NewApi(router *gin.Engine, postSvc *application.PostService, imageSvc *application.ImageService, authSvc *auth.Service, secret []byte) {
	authApi := &AuthApi{auth: authSvc}
	authV1 := router.Group("api/auth")
	{
		authV1.POST("/register", authApi.Register)
		authV1.POST("/login", authApi.Login)
	}

	postsApi := &PostsApi{posts: postSvc}
	postsV1 := router.Group("api/posts", middleware.RequireAuth(secret))
	{
		postsV1.GET("/", postsApi.ListAll)
		postsV1.GET("/:postId", postsApi.Get)
		postsV1.POST("/", postsApi.Create)
		postsV1.POST("/:postId/like", postsApi.ToggleLike)
		postsV1.DELETE("/:postId", postsApi.Delete)
	}

	userV1 := router.Group("api/user", middleware.RequireAuth(secret))
	{
		userV1.GET("/posts", postsApi.ListOwn)
	}

	imagesApi := &ImagesApi{images: imageSvc}
	imagesV1 := router.Group("api/images", middleware.RequireAuth(secret))
	{
		imagesV1.POST("/post/:postId", imagesApi.Upload)
		imagesV1.GET("/post/:postId", imagesApi.Get)
	}
}
