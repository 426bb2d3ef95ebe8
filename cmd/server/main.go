package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"instacat/gram/application"
	"instacat/gram/persistence"
	"instacat/internal/auth"
	"instacat/internal/middleware"
	"instacat/internal/rest"
	"instacat/shared/db/sqlite"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

type config struct {
	addr          string
	imageDir      string
	jwtSecret     string
	tokenLifetime time.Duration
}

func loadConfig() config {
	lifetimeHours, err := strconv.Atoi(getenv("TOKEN_LIFETIME_HOURS", "24"))
	if err != nil {
		lifetimeHours = 24
	}

	return config{
		addr:          getenv("ADDR", ":8080"),
		imageDir:      getenv("IMAGE_DIR", "./images"),
		jwtSecret:     os.Getenv("JWT_SECRET"),
		tokenLifetime: time.Duration(lifetimeHours) * time.Hour,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	cfg := loadConfig()
	if cfg.jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig())
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	sqlDB := database.DB()
	postRepo := persistence.NewPostRepository(sqlDB)
	userRepo := persistence.NewUserRepository(sqlDB)
	imageRepo := persistence.NewImageRepository(sqlDB, cfg.imageDir)

	secret := []byte(cfg.jwtSecret)
	postService := application.NewPostService(sqlDB, postRepo, userRepo, imageRepo)
	imageService := application.NewImageService(sqlDB, postRepo, userRepo, imageRepo)
	authService := auth.NewService(userRepo, secret, cfg.tokenLifetime)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, postService, imageService, authService, secret)

	srv := &http.Server{
		Addr:    cfg.addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
