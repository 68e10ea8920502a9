package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// identityKey is the gin context key the verified claims are stored under.
const identityKey = "auth.identity"

// CurrentUser returns the verified identity attached by the middleware.
func CurrentUser(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// UserID returns the authenticated user's id, or "" when unauthenticated.
func UserID(c *gin.Context) string {
	claims, ok := CurrentUser(c)
	if !ok {
		return ""
	}
	return claims.ID
}

// Require rejects requests without a valid bearer token.
func Require(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			abort(c, verifyStatus(err), verifyMessage(err))
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// Optional attaches an identity when a valid bearer token is present but
// lets the request proceed unauthenticated otherwise.
func Optional(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := BearerToken(c); ok {
			if claims, err := tokens.Verify(token); err == nil {
				c.Set(identityKey, claims)
			}
		}
		c.Next()
	}
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func verifyStatus(err error) int {
	if errors.Is(err, ErrNoSecret) {
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}

func verifyMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoSecret):
		return "Server configuration error"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token expired"
	default:
		return "Invalid token"
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
