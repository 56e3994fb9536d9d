// Package api implements a thin HTTP client for the messagely backend.
// It mirrors the server's JSON contract and keeps the bearer token obtained
// at login for subsequent authenticated calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable indicates the server could not be reached at all
// (connection refused, DNS failure, timeout).
var ErrUnavailable = errors.New("server unavailable")

// APIError is returned when the server answered with a non-2xx status.
// Message carries the "error" field of the response body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken stores the bearer token sent with every subsequent request.
// An empty token clears authentication.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

type Profile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type UserDetail struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       *time.Time `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
	FromUser     *Profile   `json:"from_user"`
	ToUser       *Profile   `json:"to_user"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// do performs one JSON round trip. A nil in sends no body; a nil out
// discards the response body. Transport failures map to ErrUnavailable,
// non-2xx statuses to *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Buffer
	if in != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(in); err != nil {
			return err
		}
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return &APIError{Status: resp.StatusCode, Message: eb.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login authenticates and stores the returned token on the client.
// The password slice is not retained.
func (c *Client) Login(ctx context.Context, username string, password []byte) error {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: string(password)}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func (c *Client) Users(ctx context.Context) ([]Profile, error) {
	var resp struct {
		Users []Profile `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) User(ctx context.Context, username string) (*UserDetail, error) {
	var resp struct {
		User UserDetail `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) MessagesTo(ctx context.Context, username string) ([]Message, error) {
	return c.listMessages(ctx, "/users/"+username+"/to")
}

func (c *Client) MessagesFrom(ctx context.Context, username string) ([]Message, error) {
	return c.listMessages(ctx, "/users/"+username+"/from")
}

func (c *Client) listMessages(ctx context.Context, path string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) Message(ctx context.Context, id int64) (*Message, error) {
	var resp struct {
		Message Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/messages/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

func (c *Client) Send(ctx context.Context, toUsername, body string) (*Message, error) {
	in := struct {
		ToUsername string `json:"to_username"`
		Body       string `json:"body"`
	}{ToUsername: toUsername, Body: body}

	var resp struct {
		Message Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

func (c *Client) MarkRead(ctx context.Context, id int64) (*Message, error) {
	var resp struct {
		Message Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/%d/read", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

// Ping probes server reachability via the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
