// Package client is the Go SDK for the library service. It mirrors the web
// frontend's session behavior: the token rides along on every call, a 401
// from any endpoint tears the session down, and startup reconciles persisted
// state with the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rbse-library/library-service/internal/models"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to the library service API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session

	// OnUnauthorized runs after any 401 clears the session, the SDK analog
	// of the frontend's redirect to the login page.
	OnUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithStorage(storage Storage) Option {
	return func(c *Client) { c.session = newSession(storage) }
}

func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.OnUnauthorized = fn }
}

// NewClient creates a client for the given base URL, e.g.
// "https://library.school.edu/api/v1".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    newSession(NewMemoryStorage()),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session.fetcher = c
	return c
}

// Session exposes the client's session state.
func (c *Client) Session() *Session {
	return c.session
}

// ===== AUTH =====

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.session.SetAuth(resp.Token, resp.User)
	return resp.User, nil
}

func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.session.SetAuth(resp.Token, resp.User)
	return resp.User, nil
}

// Logout tells the server, then clears locally regardless of the outcome.
func (c *Client) Logout(ctx context.Context) {
	_ = c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.session.Clear()
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", models.ForgotPasswordRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*models.User, error) {
	var resp models.AuthResponse
	path := "/auth/reset-password/" + url.PathEscape(token)
	if err := c.do(ctx, http.MethodPost, path, models.ResetPasswordRequest{Password: newPassword}, &resp); err != nil {
		return nil, err
	}
	c.session.SetAuth(resp.Token, resp.User)
	return resp.User, nil
}

func (c *Client) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPut, "/auth/update-password", models.UpdatePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, &resp)
	if err != nil {
		return err
	}
	c.session.SetAuth(resp.Token, resp.User)
	return nil
}

// ===== RESOURCES =====

// ResourceList is a page of catalogue entries.
type ResourceList struct {
	Resources  []*models.Resource `json:"resources"`
	Pagination models.Pagination  `json:"pagination"`
}

func (c *Client) ListResources(ctx context.Context, query url.Values) (*ResourceList, error) {
	path := "/digital-resources"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var list ResourceList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetResource(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource
	if err := c.do(ctx, http.MethodGet, "/digital-resources/"+url.PathEscape(id), nil, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

// AccessResource records an access and returns the content location.
func (c *Client) AccessResource(ctx context.Context, id string, duration int) (*models.AccessResponse, error) {
	var access models.AccessResponse
	path := "/digital-resources/" + url.PathEscape(id) + "/access"
	if err := c.do(ctx, http.MethodPost, path, models.AccessRequest{Duration: duration}, &access); err != nil {
		return nil, err
	}
	return &access, nil
}

// ===== BOOKMARKS =====

// BookmarkList is a page of the user's bookmarks.
type BookmarkList struct {
	Bookmarks  []*models.Bookmark `json:"bookmarks"`
	Pagination models.Pagination  `json:"pagination"`
}

func (c *Client) ListBookmarks(ctx context.Context) (*BookmarkList, error) {
	var list BookmarkList
	if err := c.do(ctx, http.MethodGet, "/bookmarks", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) CreateBookmark(ctx context.Context, resourceID, notes string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := c.do(ctx, http.MethodPost, "/bookmarks", models.BookmarkCreateRequest{
		ResourceID: resourceID,
		Notes:      notes,
	}, &bookmark)
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (c *Client) UpdateBookmark(ctx context.Context, id, notes string) (*models.Bookmark, error) {
	var bookmark models.Bookmark
	err := c.do(ctx, http.MethodPut, "/bookmarks/"+url.PathEscape(id), models.BookmarkUpdateRequest{
		Notes: notes,
	}, &bookmark)
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookmarks/"+url.PathEscape(id), nil, nil)
}

// ===== TRANSPORT =====

type successEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do runs one API call. Every 401 tears the session down and fires the
// OnUnauthorized hook so call sites never special-case expiry.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
	}

	if resp.StatusCode >= 400 {
		var envelope errorEnvelope
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	var envelope successEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
