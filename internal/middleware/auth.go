package middleware

import (
	"errors"
	"strings"

	"github.com/aicody-snippets/core/internal/pkg/jwt"
	"github.com/aicody-snippets/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ContextKeyUserID = "user_id"

// Auth returns a middleware that enforces JWT authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := validateToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, uid)
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid token is present, but does not
// block the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, err := validateToken(extractToken(c)); err == nil {
			c.Set(ContextKeyUserID, uid)
		}
		c.Next()
	}
}

// validateToken parses the JWT and returns the authenticated user's
// ObjectID. The uid claim must be a well-formed ObjectID; anything else is
// treated as an invalid token.
func validateToken(rawToken string) (primitive.ObjectID, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return primitive.NilObjectID, errors.New("token is required")
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		return primitive.NilObjectID, err
	}
	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, errors.New("malformed user id in token")
	}
	return uid, nil
}

// CurrentUserID extracts the authenticated user ID from context.
// Returns NilObjectID for anonymous requests.
func CurrentUserID(c *gin.Context) primitive.ObjectID {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(primitive.ObjectID)
	return id
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return !CurrentUserID(c).IsZero()
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
