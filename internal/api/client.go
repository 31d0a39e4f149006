// Package api implements the typed gateway to the inventory tracker's
// REST surface. Every authenticated call carries the stored bearer
// credential; a 401 is handled here, once, by clearing the credential and
// returning common.ErrAuthExpired so call sites short-circuit.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/larder-dev/larder/internal/common"
)

// Credentials supplies and revokes the bearer token. *session.Store
// satisfies it.
type Credentials interface {
	Token() (string, error)
	Clear() error
}

// Client talks to the tracker backend.
type Client struct {
	creds      Credentials
	httpClient *http.Client
	baseURL    string
}

// New creates a gateway client for the given server URL.
func New(baseURL string, creds Credentials) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// errorBody is the backend's error envelope. FastAPI-style backends put
// the message under "detail".
type errorBody struct {
	Detail string `json:"detail"`
}

// do performs an authenticated JSON request. A nil out discards the
// response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.creds.Token()
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("failed to encode request body: %w", marshalErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		slog.Info("Credential rejected by server, clearing it", "path", path)
		if clearErr := c.creds.Clear(); clearErr != nil {
			slog.Warn("Failed to clear rejected credential", "error", clearErr)
		}
		return common.ErrAuthExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &common.RequestError{
			Status: resp.StatusCode,
			Detail: readDetail(resp.Body),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

// readDetail extracts the server's detail string from an error response,
// if it sent one.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return ""
	}
	return eb.Detail
}

// tokenResponse is the login endpoint's reply.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges a username and password for a bearer token. It is the
// one unauthenticated call; the token is returned, not stored, so the
// caller decides where it lives.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", common.NewUserError("incorrect username or password", common.ErrAuthExpired)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &common.RequestError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("login response carried no token")
	}

	return tr.AccessToken, nil
}
