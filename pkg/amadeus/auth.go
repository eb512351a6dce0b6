package amadeus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"skysearch/internal/flight"
)

const tokenPath = "/v1/security/oauth2/token"

// tokenBuffer invalidates cached tokens this long before their reported
// expiry, so a token is never presented when upstream is about to reject
// it as stale.
const tokenBuffer = 60 * time.Second

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// tokenManager caches the bearer credential from the client-credentials
// exchange. Concurrent refreshes are tolerated rather than suppressed;
// the last writer wins, which is harmless since every fresh token is valid.
type tokenManager struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	buffer       time.Duration
	now          func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func newTokenManager(httpClient *http.Client, baseURL, clientID, clientSecret string) *tokenManager {
	return &tokenManager{
		httpClient:   httpClient,
		tokenURL:     baseURL + tokenPath,
		clientID:     clientID,
		clientSecret: clientSecret,
		buffer:       tokenBuffer,
		now:          time.Now,
	}
}

// Token returns the cached bearer token, refreshing it when inside the
// buffer window. Safe to call before every upstream request.
func (m *tokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.token != "" && !m.now().After(m.expiry.Add(-m.buffer)) {
		token := m.token
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	return m.refresh(ctx)
}

func (m *tokenManager) refresh(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.clientID)
	form.Set("client_secret", m.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", flight.NewAuthError(0, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", flight.NewAuthError(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", flight.NewAuthError(resp.StatusCode, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return "", flight.NewAuthError(resp.StatusCode, upstreamDetail(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", flight.NewAuthError(resp.StatusCode, "malformed token response")
	}

	m.mu.Lock()
	m.token = tr.AccessToken
	m.expiry = m.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	m.mu.Unlock()

	return tr.AccessToken, nil
}
