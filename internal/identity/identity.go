package identity

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2/clientcredentials"
)

// Profile is the subject profile as reported by the identity provider.
type Profile struct {
	SubjectID string
	Name      string
	Email     string
	Phone     string
	Avatar    string
}

// Provider verifies bearer session tokens and resolves subject profiles.
// Implemented against the hosted identity service; faked in tests.
type Provider interface {
	Verify(ctx context.Context, token string) (string, error)
	Fetch(ctx context.Context, subjectID string) (*Profile, error)
}

type Config struct {
	PublicKeyPEM string // instance public key for session-token verification
	APIBase      string // management API base URL
	TokenURL     string // optional OAuth2 token endpoint for API access
	ClientID     string
	ClientSecret string
}

// Client talks to the external identity provider. Session tokens are RS256
// JWTs verified locally against the instance public key; profile lookups go
// to the provider's user API.
type Client struct {
	publicKey *rsa.PublicKey
	apiBase   string
	http      *http.Client
	apiSecret string
}

func New(cfg Config) (*Client, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("identity: parse public key: %w", err)
	}

	c := &Client{
		publicKey: key,
		apiBase:   strings.TrimRight(cfg.APIBase, "/"),
		http:      &http.Client{Timeout: 10 * time.Second},
		apiSecret: cfg.ClientSecret,
	}

	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		c.http = cc.Client(context.Background())
		c.apiSecret = ""
	}

	return c, nil
}

// Verify checks the session token signature and expiry and returns the
// stable subject identifier.
func (c *Client) Verify(ctx context.Context, token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.publicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("identity: invalid session token")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("identity: token has no subject")
	}
	return claims.Subject, nil
}

// providerUser mirrors the user object shape of the provider's API.
type providerUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PhoneNumbers []struct {
		PhoneNumber string `json:"phone_number"`
	} `json:"phone_numbers"`
}

// Fetch loads the subject's profile from the provider's user API.
func (c *Client) Fetch(ctx context.Context, subjectID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/"+subjectID, nil)
	if err != nil {
		return nil, err
	}
	if c.apiSecret != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiSecret)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity: fetch user: status %d", resp.StatusCode)
	}

	var pu providerUser
	if err := json.NewDecoder(resp.Body).Decode(&pu); err != nil {
		return nil, fmt.Errorf("identity: decode user: %w", err)
	}

	p := &Profile{
		SubjectID: subjectID,
		Name:      strings.TrimSpace(pu.FirstName + " " + pu.LastName),
		Avatar:    pu.ImageURL,
	}
	if p.Name == "" {
		p.Name = pu.Username
	}
	if p.Name == "" {
		p.Name = "User"
	}
	if len(pu.EmailAddresses) > 0 {
		p.Email = pu.EmailAddresses[0].EmailAddress
	}
	if len(pu.PhoneNumbers) > 0 {
		p.Phone = pu.PhoneNumbers[0].PhoneNumber
	}
	return p, nil
}
