// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

// Package authapi is the HTTP client for the remote authentication
// service. It does exactly one request per call: no retries, no
// timeouts beyond the injected http.Client's own. Callers wanting
// bounded latency or retry impose them via context or a wrapper.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Error codes surfaced by the client.
const (
	// CodeRequestRejected is a non-2xx response; the error message is
	// the server's own, verbatim.
	CodeRequestRejected = "AUTH_REQUEST_REJECTED"
	// CodeTransportFailed is a network or connection failure.
	CodeTransportFailed = "AUTH_TRANSPORT_FAILED"
	// CodeBadResponse is a 2xx response whose body did not decode.
	CodeBadResponse = "AUTH_BAD_RESPONSE"
)

// Remote endpoint paths.
const (
	registerPath = "/api/auth/register"
	loginPath    = "/api/auth/login"
	mePath       = "/api/auth/me"
	refreshPath  = "/api/auth/refresh"
	logoutPath   = "/api/auth/logout"
)

// User is the server-confirmed profile subset the launcher uses.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// LoginResponse is the token pair and profile returned by a login.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// RefreshResponse carries the replacement access token. Refresh is nil
// when the server did not rotate the refresh token.
type RefreshResponse struct {
	Access  string  `json:"access"`
	Refresh *string `json:"refresh"`
}

// Client is the remote surface the session manager drives.
type Client interface {
	Register(ctx context.Context, username, password, email string) error
	Login(ctx context.Context, username, password, device string) (*LoginResponse, error)
	Me(ctx context.Context, accessToken string) (*User, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// HTTPClient implements Client against a base URL.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the service at baseURL. A nil
// httpClient falls back to http.DefaultClient.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Register creates a new remote account.
func (c *HTTPClient) Register(ctx context.Context, username, password, email string) error {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	if email != "" {
		body["email"] = email
	}
	return c.do(ctx, http.MethodPost, registerPath, "", body, nil)
}

// Login exchanges credentials for a token pair. device identifies this
// installation to the server.
func (c *HTTPClient) Login(ctx context.Context, username, password, device string) (*LoginResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
		"device":   device,
	}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me probes the "who am I" endpoint with the given access token.
func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, mePath, accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	body := map[string]string{"refresh": refreshToken}
	var out RefreshResponse
	if err := c.do(ctx, http.MethodPost, refreshPath, "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates a refresh token server-side.
func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	return c.do(ctx, http.MethodPost, logoutPath, "", body, nil)
}

// errorBody is the shape of non-2xx response payloads.
type errorBody struct {
	Error string `json:"error"`
}

func (c *HTTPClient) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return oops.Code(CodeBadResponse).With("path", path).Wrap(err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return oops.Code(CodeTransportFailed).With("path", path).Wrap(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return oops.Code(CodeTransportFailed).With("path", path).Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var payload errorBody
		if derr := json.NewDecoder(resp.Body).Decode(&payload); derr == nil && payload.Error != "" {
			msg = payload.Error
		}
		return oops.Code(CodeRequestRejected).
			With("path", path).
			With("status", resp.StatusCode).
			Errorf("%s", msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return oops.Code(CodeBadResponse).With("path", path).Wrap(err)
		}
	}
	return nil
}

// IsRequestRejected reports whether err is a non-2xx rejection from the
// auth service.
func IsRequestRejected(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	return ok && oopsErr.Code() == CodeRequestRejected
}

// IsTransportFailure reports whether err is a network-level failure,
// the only kind worth retrying.
func IsTransportFailure(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	return ok && oopsErr.Code() == CodeTransportFailed
}
