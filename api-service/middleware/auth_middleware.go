package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-backend/api-service/store"
	"marketplace-backend/shared/database"
	"marketplace-backend/shared/utils/auth"
	"marketplace-backend/shared/utils/cache"
)

const sessionContextKey = "session"

// SessionFromContext returns the request's resolved session. Anonymous when
// no middleware ran or no token was presented.
func SessionFromContext(c *gin.Context) auth.Session {
	if value, exists := c.Get(sessionContextKey); exists {
		if sess, ok := value.(auth.Session); ok {
			return sess
		}
	}
	return auth.Anonymous()
}

// ResolveSession resolves an optional bearer token into a session. It never
// rejects: anonymous and invalid-token requests proceed with an anonymous
// session so read paths can mask instead of refuse. Resolved users are
// served from the Redis cache when possible.
func ResolveSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := auth.ValidateJWT(tokenString)
		if err != nil {
			c.Next()
			return
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		if cm := cache.GetCacheManager(); cm != nil {
			if user, ok := cm.GetSessionUser(userID); ok {
				if user.IsActive() {
					c.Set(sessionContextKey, auth.Session{User: user})
				}
				c.Next()
				return
			}
		}

		user, err := store.ReadOneUser(c.Request.Context(), database.GetDB(), userID)
		if err != nil {
			c.Next()
			return
		}
		if cm := cache.GetCacheManager(); cm != nil {
			cm.SetSessionUser(user)
		}
		// Deactivated users authenticate as nobody.
		if user.IsActive() {
			c.Set(sessionContextKey, auth.Session{User: user})
		}
		c.Next()
	}
}

// RequireSession aborts anonymous requests. Used on endpoints with no
// meaningful anonymous shape.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFromContext(c).IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"permissions": []string{"You must be signed in to perform this action."},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}
	return tokenParts[1]
}
