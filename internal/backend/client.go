// Package backend is the typed HTTP client for the procurement REST
// backend: send request, get typed JSON or a typed error. The backend's
// business rules live behind these endpoints; this side only knows the
// request and response shapes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/odprema/internal/dispatch"
	"github.com/erazemk/odprema/internal/model"
)

// TokenSource supplies the bearer token for authenticated requests.
// Implementations may refresh behind the scenes.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the procurement backend. A nil token source makes an
// unauthenticated client, which is enough for Login and Refresh.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

// NewClient creates a client for the backend at baseURL. The token
// source is injected here so no ambient auth state exists anywhere.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
	}
}

// WithTokenSource returns a copy of the client bound to a different
// token source, sharing the underlying HTTP client.
func (c *Client) WithTokenSource(tokens TokenSource) *Client {
	return &Client{base: c.base, http: c.http, tokens: tokens}
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
}

// do sends one request and decodes the JSON response into out (if
// non-nil). Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("getting token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observeRequest(path, "error")
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observeRequest(path, "error")
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
	observeRequest(path, "ok")

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// LoginResult carries the token pair issued by the backend.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Refresh exchanges a refresh token for a fresh token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ItemsForDispatch fetches the purchase order's line items and item
// details for the given workflow phase.
func (c *Client) ItemsForDispatch(ctx context.Context, poID int64, phase string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	query := url.Values{"phase": {phase}}
	path := "/items-for-dispatch/" + strconv.FormatInt(poID, 10)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &po); err != nil {
		return nil, err
	}
	return &po, nil
}

// SearchLocations looks up locations by name. The scope selects the
// namespace: "store" for store locations, "site" for site/POP ones.
func (c *Client) SearchLocations(ctx context.Context, scope, query string) ([]model.Ref, error) {
	var refs []model.Ref
	q := url.Values{"query": {query}, "scope": {scope}}
	if err := c.do(ctx, http.MethodGet, "/locations/search", q, nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// SearchUsers looks up custodian candidates by name.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]model.Ref, error) {
	var refs []model.Ref
	q := url.Values{"query": {query}}
	if err := c.do(ctx, http.MethodGet, "/users/search", q, nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// Submit posts the serialized dispatch. No retries: on failure the
// caller's registry is untouched and the user retries manually.
func (c *Client) Submit(ctx context.Context, body *dispatch.RequestBody) error {
	return c.do(ctx, http.MethodPost, "/dispatch", nil, body, nil)
}
