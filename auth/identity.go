package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ChristianMadoz/libreM/store"
)

// identityEndpoint is fixed on purpose. The provider's security
// contract assumes this exact URL; it must never be parameterized,
// redirected or substituted with a fallback.
const identityEndpoint = "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"

const exchangeTimeout = 10 * time.Second

// IdentityPayload is the verified identity returned by the provider in
// exchange for a short-lived session id.
type IdentityPayload struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// IdentityClient exchanges provider session ids for identity payloads.
type IdentityClient struct {
	httpClient *http.Client
	endpoint   string
}

func NewIdentityClient() *IdentityClient {
	return &IdentityClient{
		httpClient: &http.Client{Timeout: exchangeTimeout},
		endpoint:   identityEndpoint,
	}
}

// ExchangeSessionID calls the provider with the short-lived session id
// and returns the verified identity plus a session token. A non-200
// response is ErrIdentityExchange; a transport failure or timeout is
// ErrIdentityUnreachable.
func (c *IdentityClient) ExchangeSessionID(ctx context.Context, sessionID string) (*IdentityPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrIdentityUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %d", store.ErrIdentityExchange, resp.StatusCode)
	}

	var payload IdentityPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrIdentityExchange, err)
	}
	return &payload, nil
}
