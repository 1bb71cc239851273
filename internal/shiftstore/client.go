// Package shiftstore is the HTTP client for the shift REST API. It is a thin
// wrapper: no retries, no caching; a single failed call surfaces immediately
// to the caller.
package shiftstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vigilia/patrol-ops/internal/domain"
)

// HTTPError is any non-2xx response. Body carries the response body verbatim
// so it can be shown to the user unchanged.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("shift store: status %d: %s", e.StatusCode, e.Body)
}

const maxErrorBody = 4 << 10

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken attaches the session token obtained at login to every subsequent
// request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Create persists a new shift record and returns it with the id assigned by
// the store.
func (c *Client) Create(ctx context.Context, payload *domain.ShiftRecord) (*domain.ShiftRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/shifts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	created := &domain.ShiftRecord{}
	if err := c.do(req, created); err != nil {
		return nil, err
	}

	return created, nil
}

// Delete removes a persisted record by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/api/shifts/%d", c.baseURL, id), nil)
	if err != nil {
		return err
	}

	return c.do(req, nil)
}

// List fetches the records matching the filter.
func (c *Client) List(ctx context.Context, filter domain.ShiftFilter) ([]*domain.ShiftRecord, error) {
	query := url.Values{}
	if !filter.StartDate.IsZero() {
		query.Set("startDate", filter.StartDate.Format(time.RFC3339))
	}
	if !filter.EndDate.IsZero() {
		query.Set("endDate", filter.EndDate.Format(time.RFC3339))
	}
	if filter.UserID != 0 {
		query.Set("userId", strconv.FormatInt(filter.UserID, 10))
	}

	endpoint := c.baseURL + "/api/shifts"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	records := []*domain.ShiftRecord{}
	if err := c.do(req, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// ListUsersByRole fetches the roster used to populate the person selector.
func (c *Client) ListUsersByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/by-role/"+url.PathEscape(string(role)), nil)
	if err != nil {
		return nil, err
	}

	users := []*domain.User{}
	if err := c.do(req, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (c *Client) do(req *http.Request, v any) error {
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: "__patrol_ops_token", Value: c.token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if v == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
