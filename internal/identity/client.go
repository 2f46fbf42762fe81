// Package identity wraps the hosted identity provider's REST API.
// Provider error codes are mapped to short localized messages; nothing
// here is allowed to surface as a crash.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ekoseoglu/takip/internal/i18n"
)

const (
	defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTimeout = 15 * time.Second
)

// Handle is the provider's view of an authenticated user.
type Handle struct {
	UID         string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

// ProviderError carries the provider's error code. Message localizes it.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %s", e.Code)
}

// messageKeys maps known provider codes to message table keys. Unknown
// codes fall through to the generic message.
var messageKeys = map[string]string{
	"INVALID_LOGIN_CREDENTIALS":   "auth.invalid-credential",
	"INVALID_PASSWORD":            "auth.invalid-credential",
	"EMAIL_NOT_FOUND":             "auth.invalid-credential",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "auth.too-many-requests",
	"EMAIL_EXISTS":                "auth.email-already-in-use",
	"WEAK_PASSWORD":               "auth.weak-password",
	"INVALID_EMAIL":               "auth.invalid-email",
}

// Message returns the localized user-facing message for the error code.
func (e *ProviderError) Message(lang i18n.Lang) string {
	key, ok := messageKeys[e.Code]
	if !ok {
		key = "auth.generic"
	}
	return i18n.T(lang, key)
}

// Client calls the identity provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an identity client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// SignUp registers a new account and returns its handle.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (Handle, error) {
	return c.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"displayName":       displayName,
		"returnSecureToken": true,
	})
}

// SignIn authenticates an existing account.
func (c *Client) SignIn(ctx context.Context, email, password string) (Handle, error) {
	return c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SendPasswordReset asks the provider to email a reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	_, err := c.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	})
	return err
}

func (c *Client) post(ctx context.Context, endpoint string, payload map[string]any) (Handle, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Handle{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Handle{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Handle{}, fmt.Errorf("calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var pe struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&pe); err != nil || pe.Error.Message == "" {
			return Handle{}, &ProviderError{Code: fmt.Sprintf("HTTP_%d", resp.StatusCode)}
		}
		// Codes may carry a suffix, e.g. "WEAK_PASSWORD : ...".
		code, _, _ := strings.Cut(pe.Error.Message, " ")
		return Handle{}, &ProviderError{Code: code}
	}

	var h Handle
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Handle{}, fmt.Errorf("decoding response: %w", err)
	}
	return h, nil
}
