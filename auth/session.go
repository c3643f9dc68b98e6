package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ChristianMadoz/libreM/config"
	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_token"

// identityKey is where the middleware parks the resolved identity in
// the gin context.
const identityKey = "identity"

// SetIdentity stores a resolved identity on the request context.
func SetIdentity(c *gin.Context, identity *Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the identity resolved for this request. Only
// valid behind the session middleware.
func IdentityFrom(c *gin.Context) *Identity {
	v, _ := c.Get(identityKey)
	identity, _ := v.(*Identity)
	return identity
}

// Identity is the normalized result of a successful session resolution.
type Identity struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   *string   `json:"picture"`
	Favorites []string  `json:"favorites"`
	GoogleID  *string   `json:"google_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenFromRequest extracts the session token: cookie first, then the
// Authorization bearer header. Nothing else is accepted; generic
// credential helpers are bypassed on purpose, they break cookie auth.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// ResolveIdentity validates a session token against the store and loads
// the owning user. An expired session is deleted on the way out as
// best-effort cleanup; the rejection does not depend on that delete.
func ResolveIdentity(ctx context.Context, s store.Store, token string) (*Identity, error) {
	if token == "" {
		return nil, store.ErrNotAuthenticated
	}

	session, err := s.SessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.ExpiresAt.UTC().Before(time.Now().UTC()) {
		_ = s.DeleteSession(ctx, token) // best effort
		return nil, store.ErrSessionExpired
	}

	user, err := s.UserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	favorites, err := s.FavoriteIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Identity{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		Favorites: favorites,
		GoogleID:  user.GoogleID,
		CreatedAt: user.CreatedAt,
	}, nil
}

// IssueSession stores a new session for the user and removes any prior
// ones, keeping a single active session per user.
func IssueSession(ctx context.Context, s store.Store, userID, token string, expiryDays int) (*models.Session, error) {
	if err := s.DeleteUserSessions(ctx, userID); err != nil {
		return nil, err
	}
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(time.Duration(expiryDays) * 24 * time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// NewUserID mints ids in the user_<12 hex> shape.
func NewUserID() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewSessionToken mints an opaque token for password-based sessions.
func NewSessionToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SetSessionCookie writes the httponly session cookie with flags driven
// by the environment (Secure + SameSite=None in production).
func SetSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	c.SetSameSite(sameSite(cfg))
	c.SetCookie(SessionCookie, token, cfg.SessionMaxAge(), "/", "", cfg.CookieSecure(), true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(sameSite(cfg))
	c.SetCookie(SessionCookie, "", -1, "/", "", cfg.CookieSecure(), true)
}

func sameSite(cfg *config.Config) http.SameSite {
	if cfg.CookieSameSite() == "none" {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
