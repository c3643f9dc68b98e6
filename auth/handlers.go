package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChristianMadoz/libreM/config"
	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

type googleAuthRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	UserID    string   `json:"user_id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Picture   *string  `json:"picture"`
	Favorites []string `json:"favorites"`
}

// GoogleAuthHandler exchanges a provider session id for a verified
// identity, upserts the user by email, and issues the session using
// the token minted by the provider.
func GoogleAuthHandler(s store.Store, client *IdentityClient, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req googleAuthRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
			return
		}

		payload, err := client.ExchangeSessionID(c.Request.Context(), req.SessionID)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, store.ErrIdentityUnreachable) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		var picture *string
		if payload.Picture != "" {
			picture = &payload.Picture
		}

		user, err := s.UserByEmail(ctx, payload.Email)
		switch {
		case err == nil:
			// Repeat login: refresh profile data from the provider.
			googleID := payload.ID
			if err := s.UpdateUserProfile(ctx, user.ID, payload.Name, picture, &googleID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
				return
			}
			user.Name = payload.Name
			user.Picture = picture
		case errors.Is(err, store.ErrUserNotFound):
			googleID := payload.ID
			user = &models.User{
				ID:        NewUserID(),
				GoogleID:  &googleID,
				Email:     payload.Email,
				Name:      payload.Name,
				Picture:   picture,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.CreateUser(ctx, user); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
				return
			}
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		if _, err := IssueSession(ctx, s, user.ID, payload.SessionToken, cfg.SessionExpiryDays); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
		SetSessionCookie(c, cfg, payload.SessionToken)

		favorites, err := s.FavoriteIDs(ctx, user.ID)
		if err != nil {
			favorites = []string{}
		}

		log.Printf("✅ Google login for %s", user.ID)
		c.JSON(http.StatusOK, gin.H{
			"user": userResponse{
				UserID:    user.ID,
				Email:     user.Email,
				Name:      user.Name,
				Picture:   user.Picture,
				Favorites: favorites,
			},
			"token": payload.SessionToken,
		})
	}
}

// RegisterHandler creates a password-based account. Email is validated
// before any row is written; duplicate emails get a specific error and
// never create a second user.
func RegisterHandler(s store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password, and name are required"})
			return
		}
		if err := ValidateEmail(req.Email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
			return
		}

		ctx := c.Request.Context()
		if _, err := s.UserByEmail(ctx, req.Email); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		} else if !errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		user := &models.User{
			ID:           NewUserID(),
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: &hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}

		token := NewSessionToken()
		if _, err := IssueSession(ctx, s, user.ID, token, cfg.SessionExpiryDays); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
		SetSessionCookie(c, cfg, token)

		log.Printf("✅ Registered new user %s", user.ID)
		c.JSON(http.StatusOK, gin.H{
			"user": userResponse{
				UserID:    user.ID,
				Email:     user.Email,
				Name:      user.Name,
				Favorites: []string{},
			},
			"token": token,
		})
	}
}

// LoginHandler signs a password account in. Failures are uniform so the
// response never reveals whether the email exists.
func LoginHandler(s store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		ctx := c.Request.Context()
		user, err := s.UserByEmail(ctx, req.Email)
		if err != nil || user.PasswordHash == nil || !CheckPassword(*user.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		token := NewSessionToken()
		if _, err := IssueSession(ctx, s, user.ID, token, cfg.SessionExpiryDays); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
		SetSessionCookie(c, cfg, token)

		favorites, err := s.FavoriteIDs(ctx, user.ID)
		if err != nil {
			favorites = []string{}
		}

		c.JSON(http.StatusOK, gin.H{
			"user": userResponse{
				UserID:    user.ID,
				Email:     user.Email,
				Name:      user.Name,
				Picture:   user.Picture,
				Favorites: favorites,
			},
			"token": token,
		})
	}
}

// MeHandler returns the identity already resolved by the middleware.
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)
		c.JSON(http.StatusOK, identity)
	}
}

// LogoutHandler deletes the presented session, if any. Logging out
// without a session is a documented no-op.
func LogoutHandler(s store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := TokenFromRequest(c); token != "" {
			if err := s.DeleteSession(c.Request.Context(), token); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete session"})
				return
			}
			ClearSessionCookie(c, cfg)
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DeleteAccountHandler removes the authenticated user and everything it
// owns (sessions, favorites, cart, orders) in one transaction.
func DeleteAccountHandler(s store.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFrom(c)

		if err := s.DeleteUser(c.Request.Context(), identity.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
			return
		}
		ClearSessionCookie(c, cfg)

		log.Printf("🗑️ Deleted account %s", identity.UserID)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
