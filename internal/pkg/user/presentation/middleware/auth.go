package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"

	apperrors "youchat/pkg/errors"
)

const userKey = "authenticated_user"

// RequireAuth rejects requests without a valid bearer credential and stores
// the resolved user on the gin context for downstream handlers.
func RequireAuth(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == c.GetHeader("Authorization") {
			raw = ""
		}
		user, err := authenticator.Authenticate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
				"code":  string(apperrors.CodeOf(err)),
			})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser retrieves the user stored by RequireAuth.
func CurrentUser(c *gin.Context) *state.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*state.User)
	return u
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin access required",
				"code":  string(apperrors.CodePermissionDenied),
			})
			return
		}
		c.Next()
	}
}
