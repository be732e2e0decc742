// services/google_auth.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Google's public ID-token verification endpoint. It checks the
// signature and expiry; audience is checked here against our client ID.
const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// The three auth outcomes the admin UI distinguishes: "log in" vs
// "log in again" vs "contact an admin".
var (
	ErrNoToken       = errors.New("no token provided")
	ErrInvalidToken  = errors.New("invalid token")
	ErrNotAuthorized = errors.New("not authorized")
)

// Identity is derived from a verified token per request, never stored.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthGate verifies Google ID tokens and checks the holder against the
// static admin allow-list. It guards every mutating admin action.
type AuthGate struct {
	clientID     string
	adminEmails  map[string]bool
	tokenInfoURL string
	client       *http.Client
}

func NewAuthGate(clientID string, adminEmails []string) *AuthGate {
	allowed := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowed[email] = true
		}
	}
	return &AuthGate{
		clientID:     clientID,
		adminEmails:  allowed,
		tokenInfoURL: defaultTokenInfoURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// SetTokenInfoURL overrides the verification endpoint. Used by tests.
func (g *AuthGate) SetTokenInfoURL(u string) {
	g.tokenInfoURL = u
}

type tokenInfoResponse struct {
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// VerifyToken validates the token signature, expiry and audience via
// the identity provider and returns the holder's identity.
func (g *AuthGate) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	endpoint := g.tokenInfoURL + "?id_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building verification request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	// The endpoint answers 4xx for bad, expired or forged tokens.
	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, ErrInvalidToken
	}

	if info.Aud != g.clientID {
		return nil, ErrInvalidToken
	}
	if info.Email == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// IsAdmin checks the allow-list, case-insensitively.
func (g *AuthGate) IsAdmin(email string) bool {
	return g.adminEmails[strings.ToLower(email)]
}

// VerifyAdmin accepts only tokens whose holder is on the allow-list.
func (g *AuthGate) VerifyAdmin(ctx context.Context, token string) (*Identity, error) {
	identity, err := g.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !g.IsAdmin(identity.Email) {
		return nil, ErrNotAuthorized
	}
	return identity, nil
}
