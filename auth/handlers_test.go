package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChristianMadoz/libreM/config"
	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

func testConfig() *config.Config {
	return &config.Config{Environment: "development", SessionExpiryDays: 7}
}

func postJSON(t *testing.T, handler gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(path, handler)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterHappyPath(t *testing.T) {
	s := store.NewMemoryStore()
	w := postJSON(t, RegisterHandler(s, testConfig()), "/register", gin.H{
		"email": "ana@example.com", "password": "secret12", "name": "Ana",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User  userResponse `json:"user"`
		Token string       `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^user_[0-9a-f]{12}$`, resp.User.UserID)
	assert.NotEmpty(t, resp.Token)

	// the issued token resolves
	identity, err := ResolveIdentity(context.Background(), s, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", identity.Email)

	// the hash is stored, never the password
	user, err := s.UserByID(context.Background(), resp.User.UserID)
	require.NoError(t, err)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "secret12", *user.PasswordHash)
	assert.True(t, CheckPassword(*user.PasswordHash, "secret12"))
}

func TestRegisterInvalidEmailCreatesNothing(t *testing.T) {
	s := store.NewMemoryStore()
	for _, email := range []string{"not-an-email", "a b@x.com", "a@b", "@x.com"} {
		w := postJSON(t, RegisterHandler(s, testConfig()), "/register", gin.H{
			"email": email, "password": "secret12", "name": "Ana",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "email %q", email)
		assert.Contains(t, w.Body.String(), "Invalid email format")

		_, err := s.UserByEmail(context.Background(), email)
		assert.ErrorIs(t, err, store.ErrUserNotFound, "email %q", email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := store.NewMemoryStore()
	body := gin.H{"email": "ana@example.com", "password": "secret12", "name": "Ana"}

	w := postJSON(t, RegisterHandler(s, testConfig()), "/register", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, RegisterHandler(s, testConfig()), "/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}

func TestLogin(t *testing.T) {
	s := store.NewMemoryStore()
	w := postJSON(t, RegisterHandler(s, testConfig()), "/register", gin.H{
		"email": "ana@example.com", "password": "secret12", "name": "Ana",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// wrong password and unknown email fail identically
	w = postJSON(t, LoginHandler(s, testConfig()), "/login", gin.H{"email": "ana@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	w = postJSON(t, LoginHandler(s, testConfig()), "/login", gin.H{"email": "ghost@example.com", "password": "secret12"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")

	w = postJSON(t, LoginHandler(s, testConfig()), "/login", gin.H{"email": "ana@example.com", "password": "secret12"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	_, err := ResolveIdentity(context.Background(), s, resp.Token)
	assert.NoError(t, err)
}

func TestLoginRejectsGoogleOnlyAccount(t *testing.T) {
	s := store.NewMemoryStore()
	googleID := "g-1"
	user := models.User{ID: NewUserID(), GoogleID: &googleID, Email: "ana@example.com", Name: "Ana", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateUser(context.Background(), &user))

	w := postJSON(t, LoginHandler(s, testConfig()), "/login", gin.H{"email": "ana@example.com", "password": "anything"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGoogleAuthUpsertsByEmail(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"g-1","email":"ana@example.com","name":"Ana G","picture":"p.jpg","session_token":"provider-tok"}`))
	}))
	defer provider.Close()
	client := &IdentityClient{httpClient: provider.Client(), endpoint: provider.URL}

	s := store.NewMemoryStore()
	handler := GoogleAuthHandler(s, client, testConfig())

	w := postJSON(t, handler, "/auth/google", gin.H{"session_id": "sess-1"})
	require.Equal(t, http.StatusOK, w.Code)

	user, err := s.UserByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-1", *user.GoogleID)

	identity, err := ResolveIdentity(context.Background(), s, "provider-tok")
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)

	// second login reuses the row instead of creating another user
	w = postJSON(t, handler, "/auth/google", gin.H{"session_id": "sess-2"})
	require.Equal(t, http.StatusOK, w.Code)
	again, err := s.UserByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestGoogleAuthProviderRejection(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer provider.Close()
	client := &IdentityClient{httpClient: provider.Client(), endpoint: provider.URL}

	s := store.NewMemoryStore()
	w := postJSON(t, GoogleAuthHandler(s, client, testConfig()), "/auth/google", gin.H{"session_id": "bad"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestLogoutWithoutSessionIsNoOp(t *testing.T) {
	s := store.NewMemoryStore()
	w := postJSON(t, LogoutHandler(s, testConfig()), "/logout", gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "true")
}

func TestLogoutDeletesSession(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	user := models.User{ID: "user_1", Email: "u@example.com", Name: "U", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateUser(ctx, &user))
	_, err := IssueSession(ctx, s, "user_1", "tok", 7)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/logout", LogoutHandler(s, testConfig()))
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = ResolveIdentity(ctx, s, "tok")
	assert.ErrorIs(t, err, store.ErrInvalidSession)
}
