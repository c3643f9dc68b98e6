package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChristianMadoz/libreM/store"
)

func TestExchangeSessionIDSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sess-123", r.Header.Get("X-Session-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"g-1","email":"ana@example.com","name":"Ana","picture":"p.jpg","session_token":"provider-tok"}`))
	}))
	defer srv.Close()

	client := &IdentityClient{httpClient: srv.Client(), endpoint: srv.URL}
	payload, err := client.ExchangeSessionID(context.Background(), "sess-123")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", payload.Email)
	assert.Equal(t, "provider-tok", payload.SessionToken)
}

func TestExchangeSessionIDRejectedByProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := &IdentityClient{httpClient: srv.Client(), endpoint: srv.URL}
	_, err := client.ExchangeSessionID(context.Background(), "bad")
	assert.ErrorIs(t, err, store.ErrIdentityExchange)
}

func TestExchangeSessionIDMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := &IdentityClient{httpClient: srv.Client(), endpoint: srv.URL}
	_, err := client.ExchangeSessionID(context.Background(), "sess")
	assert.ErrorIs(t, err, store.ErrIdentityExchange)
}

func TestExchangeSessionIDProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := &IdentityClient{httpClient: &http.Client{Timeout: time.Second}, endpoint: srv.URL}
	_, err := client.ExchangeSessionID(context.Background(), "sess")
	assert.ErrorIs(t, err, store.ErrIdentityUnreachable)
}
