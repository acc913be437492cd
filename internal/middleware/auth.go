package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sebasr/sensores-dashboard/internal/auth"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey ContextKey = "user_id"

	// UserEmailKey is the context key for the authenticated user's email
	UserEmailKey ContextKey = "user_email"
)

// AuthMiddleware provides authentication middleware
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Required returns a middleware that requires a valid JWT token.
// Returns 401 Unauthorized if the token is missing or invalid.
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.extractAndValidateToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": err.Error(),
			})
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(UserEmailKey), claims.Email)

		c.Next()
	}
}

// Optional returns a middleware that extracts user info if a valid token is
// present and continues regardless of authentication status.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.extractAndValidateToken(c)
		if err == nil && claims != nil {
			c.Set(string(UserIDKey), claims.UserID)
			c.Set(string(UserEmailKey), claims.Email)
		}

		c.Next()
	}
}

// extractAndValidateToken extracts the JWT token from the request and validates it
func (m *AuthMiddleware) extractAndValidateToken(c *gin.Context) (*auth.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("invalid authorization header format")
	}

	tokenString := parts[1]
	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return m.jwtService.ValidateToken(tokenString)
}

// GetUserID retrieves the authenticated user's ID from the context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(string(UserIDKey))
	if !exists {
		return "", errors.New("user not authenticated")
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", errors.New("invalid user ID format")
	}

	return id, nil
}

// GetUserEmail retrieves the authenticated user's email from the context
func GetUserEmail(c *gin.Context) (string, error) {
	email, exists := c.Get(string(UserEmailKey))
	if !exists {
		return "", errors.New("user not authenticated")
	}

	emailStr, ok := email.(string)
	if !ok {
		return "", errors.New("invalid email format")
	}

	return emailStr, nil
}

// MustGetUserID retrieves the user ID from context, panics if not found.
// Use this only in handlers protected by Required() middleware.
func MustGetUserID(c *gin.Context) string {
	userID, err := GetUserID(c)
	if err != nil {
		panic("user ID not found in context - ensure Required() middleware is applied")
	}
	return userID
}
