package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasr/sensores-dashboard/internal/auth"
)

func setupTestMiddleware() (*AuthMiddleware, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret-key", 1*time.Hour)
	return NewAuthMiddleware(jwtService), jwtService
}

func TestAuthMiddleware_Required_ValidToken(t *testing.T) {
	middleware, jwtService := setupTestMiddleware()

	token, err := jwtService.GenerateAccessToken("user-1", "test@example.com")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlerCalled := false
	var capturedUserID, capturedEmail string

	router.GET("/protected", middleware.Required(), func(c *gin.Context) {
		handlerCalled = true
		capturedUserID, _ = GetUserID(c)
		capturedEmail, _ = GetUserEmail(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", capturedUserID)
	assert.Equal(t, "test@example.com", capturedEmail)
}

func TestAuthMiddleware_Required_NoToken(t *testing.T) {
	middleware, _ := setupTestMiddleware()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlerCalled := false
	router.GET("/protected", middleware.Required(), func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestAuthMiddleware_Required_ExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 1*time.Millisecond)
	middleware := NewAuthMiddleware(jwtService)

	token, err := jwtService.GenerateAccessToken("user-1", "expired@example.com")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlerCalled := false
	router.GET("/protected", middleware.Required(), func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")
}

func TestAuthMiddleware_Required_MalformedAuthHeader(t *testing.T) {
	middleware, _ := setupTestMiddleware()

	tests := []struct {
		name   string
		header string
	}{
		{"missing Bearer prefix", "some-token"},
		{"wrong prefix", "Basic some-token"},
		{"empty token", "Bearer "},
		{"only Bearer", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()

			handlerCalled := false
			router.GET("/protected", middleware.Required(), func(c *gin.Context) {
				handlerCalled = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tt.header)

			router.ServeHTTP(w, req)

			assert.False(t, handlerCalled)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_Optional_InvalidToken(t *testing.T) {
	middleware, _ := setupTestMiddleware()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlerCalled := false
	var authenticated bool

	router.GET("/optional", middleware.Optional(), func(c *gin.Context) {
		handlerCalled = true
		_, err := GetUserID(c)
		authenticated = err == nil
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, authenticated)
}

func TestAuthMiddleware_Optional_NoToken(t *testing.T) {
	middleware, _ := setupTestMiddleware()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlerCalled := false
	router.GET("/optional", middleware.Optional(), func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/optional", nil)

	router.ServeHTTP(w, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUserID_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetUserID(c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "user not authenticated")
}

func TestMustGetUserID_Panics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Panics(t, func() {
		MustGetUserID(c)
	})
}
