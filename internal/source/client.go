package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hongminglow/lendsqr-admin/internal/models"
)

// maxBodyBytes bounds how much of the upstream document is read.
const maxBodyBytes = 16 << 20

// ErrNotArray indicates the upstream document decoded to something other than a JSON array.
var ErrNotArray = errors.New("invalid data format: expected array")

// ErrUserNotFound indicates no record in the list carries the requested identifier.
var ErrUserNotFound = errors.New("user not found")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// Fetcher yields the full upstream user list.
type Fetcher interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// Client reads the user list from a static, remotely hosted JSON document.
type Client struct {
	url         string
	http        *http.Client
	checkStatus bool
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithoutStatusCheck makes the client decode the body whatever the status code.
func WithoutStatusCheck() Option {
	return func(c *Client) {
		c.checkStatus = false
	}
}

// NewClient creates a client for the document at url.
func NewClient(url string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:         url,
		http:        &http.Client{Timeout: timeout},
		checkStatus: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the upstream document location.
func (c *Client) URL() string {
	return c.url
}

// FetchUsers issues a single GET and decodes the array. It never retries.
func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	defer resp.Body.Close()

	if c.checkStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return decodeUsers(body)
}

func decodeUsers(body []byte) ([]models.User, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("decode users: invalid JSON")
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	users := make([]models.User, 0)
	if err := json.Unmarshal(trimmed, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// FindByID fetches the list and returns the record whose identifier is id.
func FindByID(ctx context.Context, f Fetcher, id string) (models.User, error) {
	users, err := f.FetchUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}
