package github

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/perf2issue/perf2issue/internal/config"
)

// AppAuth mints GitHub App installation tokens: a short-lived RS256 app JWT
// is exchanged for an installation access token on each run.
type AppAuth struct {
	appID          string
	installationID string
	key            *rsa.PrivateKey
	baseURL        string
	httpClient     *http.Client
	now            func() time.Time
}

// NewAppAuth builds an AppAuth from the configured credential trio. The
// private key may be inline PEM or a path to a PEM file.
func NewAppAuth(cfg *config.Config) (*AppAuth, error) {
	pem := cfg.GitHubAppPrivateKey
	if !strings.Contains(pem, "PRIVATE KEY") {
		data, err := os.ReadFile(pem)
		if err != nil {
			return nil, fmt.Errorf("failed to read GitHub App private key file: %w", err)
		}
		pem = string(data)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("failed to parse GitHub App private key: %w", err)
	}

	return &AppAuth{
		appID:          cfg.GitHubAppID,
		installationID: cfg.GitHubAppInstallationID,
		key:            key,
		baseURL:        cfg.GitHubAPIURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}, nil
}

// Token exchanges a freshly signed app JWT for an installation token.
func (a *AppAuth) Token(ctx context.Context) (string, error) {
	appJWT, err := a.signAppJWT()
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/app/installations/%s/access_tokens", a.baseURL, a.installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+appJWT)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("installation token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read installation token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("installation token request returned status %d: %s",
			resp.StatusCode, platformMessage(body))
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse installation token response: %w", err)
	}
	if payload.Token == "" {
		return "", fmt.Errorf("installation token response contained no token")
	}
	return payload.Token, nil
}

// signAppJWT builds the app JWT per the platform's requirements: issued-at
// backdated 60s against clock drift, expiry well under the 10 minute cap.
func (a *AppAuth) signAppJWT() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-60 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign app JWT: %w", err)
	}
	return signed, nil
}
