// Package identity wraps the Firebase Identity Toolkit REST endpoint for
// email/password sign-in. The Admin SDK deliberately has no password
// verification, so the backend proxies the same endpoint a web client would
// call, keyed by the project's web API key.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// Provider error kinds, mapped from the upstream error message codes.
var (
	// ErrInvalidCredentials covers wrong password, unknown email, and the
	// newer combined INVALID_LOGIN_CREDENTIALS code.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrTooManyAttempts is the provider's sign-in rate limit.
	ErrTooManyAttempts = errors.New("identity: too many attempts")
)

// Session is a successful password sign-in.
type Session struct {
	UID          string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// Client calls the Identity Toolkit sign-in endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewClient creates a sign-in client for the given web API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
	}
}

// NewClientWithEndpoint is NewClient with an explicit endpoint, for tests.
func NewClientWithEndpoint(apiKey, endpoint string) *Client {
	c := NewClient(apiKey)
	c.endpoint = endpoint
	return c
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignInWithPassword verifies the credentials against the provider. Invalid
// credentials and rate limiting come back as the sentinel kinds above with the
// upstream message attached; anything else is a transport/unknown failure.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sign-in response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err != nil || apiErr.Error.Message == "" {
			return nil, fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
		}
		return nil, mapAPIError(apiErr.Error.Message)
	}

	var session Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	return &session, nil
}

func mapAPIError(message string) error {
	// Messages can carry a suffix, e.g. "TOO_MANY_ATTEMPTS_TRY_LATER : ...".
	code := message
	if i := strings.IndexAny(message, " :"); i > 0 {
		code = message[:i]
	}
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, message)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return fmt.Errorf("%w: %s", ErrTooManyAttempts, message)
	}
	return fmt.Errorf("sign-in rejected: %s", message)
}
