package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChristianMadoz/libreM/auth"
	"github.com/ChristianMadoz/libreM/store"
)

// RequireSession gates every protected route. It pulls the credential
// from the session cookie or the bearer header, resolves it against the
// store, and aborts with 401 on any auth failure. The dangling-session
// case (session without user) is a 404, it signals store inconsistency
// rather than a bad credential.
func RequireSession(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c)

		identity, err := auth.ResolveIdentity(c.Request.Context(), s, token)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotAuthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			case errors.Is(err, store.ErrInvalidSession):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			case errors.Is(err, store.ErrSessionExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			case errors.Is(err, store.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			}
			c.Abort()
			return
		}

		auth.SetIdentity(c, identity)
		c.Next()
	}
}
