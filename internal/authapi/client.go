package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"brk-portal/internal/models"
)

const (
	PathMe          = "/auth/me"
	PathLogout      = "/auth/logout"
	PathRefresh     = "/auth/refresh-token"
	PathPreRegister = "/vip-preregister"
)

var ErrSessionExpired = errors.New("sessão expirada, faça login novamente")

type StatusError struct {
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s: status %d: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("api %s: status %d", e.Path, e.Code)
}

// Client talks to the primary API with a cookie session. Every request
// carries the jar's cookies; see Do for the refresh rule.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// Do sends a credentialed request. A 401 on anything but the refresh
// endpoint triggers one refresh and, if that works, exactly one retry of
// the original request whose response is returned whatever its status.
// A failed refresh returns ErrSessionExpired.
//
// Concurrent callers that hit 401 together each refresh on their own.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, fmt.Errorf("api %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusUnauthorized || path == PathRefresh {
		return resp, nil
	}
	discard(resp)

	if err := c.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrSessionExpired, err)
	}

	resp, err = c.send(ctx, method, path, body)
	if err != nil {
		return nil, fmt.Errorf("api %s retry: %w", path, err)
	}
	return resp, nil
}

// Refresh asks the API for a new session cookie.
func (c *Client) Refresh(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, PathRefresh, nil)
	if err != nil {
		return fmt.Errorf("api %s: %w", PathRefresh, err)
	}
	defer discard(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(PathRefresh, resp)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}

	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer discard(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api %s: decode: %w", path, err)
	}
	return nil
}

// Me returns the logged-in user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, PathMe, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, PathLogout, nil, nil)
}

// PreRegister posts the lead as-is to the VIP pre-registration endpoint.
func (c *Client) PreRegister(ctx context.Context, lead models.Lead) (*models.PreRegisterResponse, error) {
	var out models.PreRegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, PathPreRegister, lead, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func statusError(path string, resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Message == "" {
		payload.Message = strings.TrimSpace(string(raw))
	}
	return &StatusError{Path: path, Code: resp.StatusCode, Message: payload.Message}
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
