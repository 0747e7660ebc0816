package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"studyforge/internal/api/errors"
	"studyforge/internal/app/auth"
)

const userContextKey = "auth_user"

// Authenticate resolves the caller through the configured provider and
// stores the user on the request context.
func Authenticate(provider auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := provider.Authenticate(c.Request)
		if err != nil {
			HandleError(c, errors.NewUnauthorizedError("Authentication required"))
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Authenticate.
func CurrentUser(c *gin.Context) auth.User {
	if v, exists := c.Get(userContextKey); exists {
		if user, ok := v.(auth.User); ok {
			return user
		}
	}
	return auth.User{}
}

// RequireInternalSecret gates worker callback endpoints behind a shared
// secret header. With no secret configured, the endpoints are disabled.
func RequireInternalSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			HandleError(c, errors.NewForbiddenError("Internal endpoints are disabled"))
			return
		}
		provided := c.GetHeader("X-Internal-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			HandleError(c, errors.NewForbiddenError("Invalid internal secret"))
			return
		}
		c.Next()
	}
}
