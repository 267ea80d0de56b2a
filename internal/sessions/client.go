// Package sessions is a thin client for the companion workout backend: auth,
// workout session CRUD and per-session sets. Responses are normalized into one
// fixed shape at this boundary so callers never see backend field variants.
package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the backend over HTTP JSON. No request is retried.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL (no trailing slash needed).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL is shown on the health page so users can see which backend is in use.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request. The bearer token is attached only when non-empty,
// since some backend flows accept anonymous use. out may be nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBytes))}
	}
	if out == nil || len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

/* ─── Auth ───────────────────────────────────────────────────────────── */

// Credentials is the signup and login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a backend account. POST /auth/register.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	return c.do(ctx, http.MethodPost, "/auth/register", "", creds, nil)
}

// Login exchanges credentials for an access token. POST /auth/login.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", creds, &result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("login response had no access_token")
	}
	return result.AccessToken, nil
}

// Health returns the backend's reported status. GET /health.
func (c *Client) Health(ctx context.Context) (string, error) {
	var result struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", "", nil, &result); err != nil {
		return "", err
	}
	return result.Status, nil
}

/* ─── Sessions ───────────────────────────────────────────────────────── */

// ListSessions returns every session visible to token. GET /workouts/sessions.
func (c *Client) ListSessions(ctx context.Context, token string) ([]Session, error) {
	var raw []wireSession
	if err := c.do(ctx, http.MethodGet, "/workouts/sessions", token, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.normalize())
	}
	return out, nil
}

// CreateSession starts a session with a free-text note. POST /workouts/sessions.
func (c *Client) CreateSession(ctx context.Context, note, token string) (Session, error) {
	var raw wireSession
	body := map[string]string{"note": note}
	if err := c.do(ctx, http.MethodPost, "/workouts/sessions", token, body, &raw); err != nil {
		return Session{}, err
	}
	return raw.normalize(), nil
}

// SessionUpdate changes a session's note or name. Nil fields are sent as absent.
type SessionUpdate struct {
	Note *string `json:"note,omitempty"`
	Name *string `json:"name,omitempty"`
}

// UpdateSession edits note/name. PUT /workouts/sessions/:id. Backends that
// echo the session back have it normalized; otherwise the zero Session and
// ok=false are returned.
func (c *Client) UpdateSession(ctx context.Context, id int64, upd SessionUpdate, token string) (s Session, ok bool, err error) {
	var raw *wireSession
	if err := c.do(ctx, http.MethodPut, "/workouts/sessions/"+strconv.FormatInt(id, 10), token, upd, &raw); err != nil {
		return Session{}, false, err
	}
	if raw == nil {
		return Session{}, false, nil
	}
	return raw.normalize(), true, nil
}

// DeleteSession removes a session and its sets. DELETE /workouts/sessions/:id.
func (c *Client) DeleteSession(ctx context.Context, id int64, token string) error {
	return c.do(ctx, http.MethodDelete, "/workouts/sessions/"+strconv.FormatInt(id, 10), token, nil, nil)
}

// AddSet records one exercise performance. POST /workouts/sessions/:id/sets.
func (c *Client) AddSet(ctx context.Context, sessionID int64, in SetInput, token string) (Set, error) {
	in.Exercise = strings.TrimSpace(in.Exercise)
	if err := in.Validate(); err != nil {
		return Set{}, err
	}
	var raw wireSet
	path := "/workouts/sessions/" + strconv.FormatInt(sessionID, 10) + "/sets"
	if err := c.do(ctx, http.MethodPost, path, token, in, &raw); err != nil {
		return Set{}, err
	}
	set := raw.normalize()
	if set.SessionID == 0 {
		set.SessionID = sessionID
	}
	return set, nil
}

// DeleteSet removes one set. DELETE /workouts/sets/:id.
func (c *Client) DeleteSet(ctx context.Context, setID int64, token string) error {
	return c.do(ctx, http.MethodDelete, "/workouts/sets/"+strconv.FormatInt(setID, 10), token, nil, nil)
}
