package sheets

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const (
	SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

	// Tokens JWT do Google valem 1h; renovamos 5 min antes.
	TokenLifetime = time.Hour
	RefreshBefore = 5 * time.Minute
)

// Credentials é a capacidade de autenticação usada pelo Client.
type Credentials interface {
	Authenticate(ctx context.Context) error
	IsStale(now time.Time) bool
	CurrentToken() string
	Invalidate()
}

type AuthState int

const (
	StateUnauthenticated AuthState = iota
	StateAuthenticated
	StateReauthenticating
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateReauthenticating:
		return "reauthenticating"
	default:
		return "unauthenticated"
	}
}

type ServiceAccountCredentials struct {
	mu        sync.Mutex
	conf      *jwt.Config
	state     AuthState
	token     string
	expiresAt time.Time

	// HTTPClient é usado na troca do JWT pelo access token. Nil = http.DefaultClient.
	HTTPClient *http.Client
	Now        func() time.Time
}

// NewServiceAccountCredentials lê o JSON da service account (client_email, private_key).
func NewServiceAccountCredentials(keyJSON []byte) (*ServiceAccountCredentials, error) {
	if len(keyJSON) == 0 {
		return nil, errors.New("google service account key not found")
	}

	conf, err := google.JWTConfigFromJSON(keyJSON, SpreadsheetsScope)
	if err != nil {
		return nil, err
	}

	return &ServiceAccountCredentials{
		conf: conf,
		Now:  time.Now,
	}, nil
}

// Authenticate sempre busca um token novo.
func (c *ServiceAccountCredentials) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateAuthenticated {
		c.state = StateReauthenticating
	}

	if c.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	}

	now := c.Now()
	tok, err := c.conf.TokenSource(ctx).Token()
	if err != nil {
		c.state = StateUnauthenticated
		c.token = ""
		return &AuthError{Err: err}
	}

	c.token = tok.AccessToken
	c.expiresAt = now.Add(TokenLifetime)
	c.state = StateAuthenticated
	return nil
}

func (c *ServiceAccountCredentials) IsStale(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAuthenticated {
		return true
	}
	return !now.Before(c.expiresAt.Add(-RefreshBefore))
}

func (c *ServiceAccountCredentials) CurrentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *ServiceAccountCredentials) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateUnauthenticated
}

func (c *ServiceAccountCredentials) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ServiceAccountCredentials) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

func (c *ServiceAccountCredentials) ClientEmail() string {
	return c.conf.Email
}
