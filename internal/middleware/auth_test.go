package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"instacat/internal/auth"

	"github.com/gin-gonic/gin"
)

func setupAuthRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/whoami", RequireAuth(secret), func(c *gin.Context) {
		username, _ := UsernameFrom(c)
		c.String(http.StatusOK, username)
	})
	return router
}

func TestRequireAuth_ValidToken(t *testing.T) {
	secret := []byte("test-secret")
	router := setupAuthRouter(secret)

	token, err := auth.MintToken(secret, "bob", time.Hour)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "bob" {
		t.Errorf("body = %q, want bob", w.Body.String())
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router := setupAuthRouter([]byte("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := setupAuthRouter([]byte("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	router := setupAuthRouter([]byte("test-secret"))

	token, err := auth.MintToken([]byte("other-secret"), "bob", time.Hour)
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
