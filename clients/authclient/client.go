// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wso2/course-app-client/clients/requests"
	"github.com/wso2/course-app-client/middleware/logger"
	"github.com/wso2/course-app-client/models"
)

const (
	DefaultRefreshPath    = "/auth/refresh-token"
	DefaultRefreshTimeout = 15 * time.Second
	DefaultExpiryBuffer   = 30 * time.Second

	bearerPrefix = "Bearer "
)

// CredentialStore is the subset of the credential store the client needs.
type CredentialStore interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetRefreshToken(ctx context.Context) (string, error)
	SaveTokens(ctx context.Context, accessToken, refreshToken string) error
	Clear(ctx context.Context) error
}

// SessionExpiredFunc is called after stored credentials are cleared because
// the session could not be renewed. cause is ErrUnauthenticated or wraps ErrRefreshFailed.
type SessionExpiredFunc func(ctx context.Context, cause error)

// Config holds the settings of an authenticated Client.
type Config struct {
	// BaseURL is prefixed to request URLs that are not absolute.
	BaseURL string
	// RefreshPath is the refresh endpoint, relative to BaseURL.
	RefreshPath string
	Store       CredentialStore
	// HTTPClient defaults to a RetryableHTTPClient.
	HTTPClient     requests.HttpClient
	RefreshTimeout time.Duration
	// ProactiveRefresh refreshes before sending when the access token is a JWT
	// that expires within ExpiryBuffer.
	ProactiveRefresh bool
	ExpiryBuffer     time.Duration
	OnSessionExpired SessionExpiredFunc
}

// Client attaches the stored access token to outgoing requests and recovers
// from expired tokens: on a 401 it refreshes once, shared by all concurrent
// callers, and replays the rejected request with the new token.
type Client struct {
	baseURL          string
	refreshURL       string
	store            CredentialStore
	httpClient       requests.HttpClient
	gate             *refreshGate
	proactiveRefresh bool
	expiryBuffer     time.Duration
	onSessionExpired SessionExpiredFunc
	now              func() time.Time
}

var _ requests.Sender = (*Client)(nil)

// NewClient creates an authenticated client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("auth client config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	refreshPath := cfg.RefreshPath
	if refreshPath == "" {
		refreshPath = DefaultRefreshPath
	}
	refreshTimeout := cfg.RefreshTimeout
	if refreshTimeout <= 0 {
		refreshTimeout = DefaultRefreshTimeout
	}
	expiryBuffer := cfg.ExpiryBuffer
	if expiryBuffer <= 0 {
		expiryBuffer = DefaultExpiryBuffer
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = requests.NewRetryableHTTPClient(&http.Client{})
	}

	c := &Client{
		baseURL:          strings.TrimSuffix(cfg.BaseURL, "/"),
		store:            cfg.Store,
		httpClient:       httpClient,
		gate:             newRefreshGate(refreshTimeout),
		proactiveRefresh: cfg.ProactiveRefresh,
		expiryBuffer:     expiryBuffer,
		onSessionExpired: cfg.OnSessionExpired,
		now:              time.Now,
	}
	c.refreshURL = c.ResolveURL(refreshPath)
	return c, nil
}

// ResolveURL prefixes path with the base URL unless it is already absolute.
func (c *Client) ResolveURL(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// Send sends req with the stored access token as a Bearer credential, unless
// the caller already set an Authorization header. A relative req.URL is
// resolved against the base URL in place.
//
// Responses other than 401 are returned as received. On a 401 the token is
// refreshed and the request replayed exactly once; the replay result is final.
func (c *Client) Send(ctx context.Context, req *requests.HttpRequest) *requests.Result {
	req.URL = c.ResolveURL(req.URL)
	log := logger.GetLogger(ctx).With(
		slog.String("request", req.Name),
		slog.String("requestId", req.RequestID()),
	)

	// the refresh endpoint is never intercepted, so its own 401 cannot recurse
	if c.isRefreshRequest(req) {
		return requests.SendRequest(ctx, c.httpClient, req)
	}

	seenGen := c.gate.Generation()
	token := c.readAccessToken(ctx)

	if c.proactiveRefresh && token != "" && expiresWithin(token, c.expiryBuffer, c.now()) {
		log.Debug("access token about to expire, refreshing before send")
		fresh, err := c.gate.Do(ctx, seenGen, c.refresh, c.currentAccessToken)
		if err != nil {
			return requests.NewErrorResult(err)
		}
		return c.sendReplay(ctx, log, req, fresh)
	}

	result := c.sendWithToken(ctx, req, token)
	if result.Err() != nil || result.StatusCode() != http.StatusUnauthorized {
		return result
	}

	log.Info("access token rejected, refreshing")
	fresh, err := c.gate.Do(ctx, seenGen, c.refresh, c.currentAccessToken)
	if err != nil {
		log.Warn("token refresh did not succeed", slog.String("error", err.Error()))
		return result.WithError(err)
	}
	return c.sendReplay(ctx, log, req, fresh)
}

// sendReplay sends req with token, replacing any Authorization header. A 401
// here is terminal.
func (c *Client) sendReplay(ctx context.Context, log *slog.Logger, req *requests.HttpRequest, token string) *requests.Result {
	result := requests.SendWithHeader(ctx, c.httpClient, req, requests.HeaderAuthorization, bearerPrefix+token)
	if result.Err() == nil && result.StatusCode() == http.StatusUnauthorized {
		log.Warn("request rejected with refreshed token")
		return result.WithError(fmt.Errorf("%w: %s", ErrReplayUnauthorized, req.Name))
	}
	return result
}

func (c *Client) sendWithToken(ctx context.Context, req *requests.HttpRequest, token string) *requests.Result {
	if token == "" || hasHeader(req, requests.HeaderAuthorization) {
		return requests.SendRequest(ctx, c.httpClient, req)
	}
	return requests.SendWithHeader(ctx, c.httpClient, req, requests.HeaderAuthorization, bearerPrefix+token)
}

// readAccessToken treats a store read failure as an absent token.
func (c *Client) readAccessToken(ctx context.Context) string {
	token, err := c.store.GetAccessToken(ctx)
	if err != nil {
		logger.GetLogger(ctx).Warn("failed to read access token", slog.String("error", err.Error()))
		return ""
	}
	return token
}

// currentAccessToken is used when a refresh already finished after the
// caller's request went out.
func (c *Client) currentAccessToken(ctx context.Context) (string, error) {
	token := c.readAccessToken(ctx)
	if token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}

// refresh runs inside the gate. Any failure clears the stored credentials.
func (c *Client) refresh(ctx context.Context) (string, error) {
	log := logger.GetLogger(ctx)

	refreshToken, err := c.store.GetRefreshToken(ctx)
	if err != nil {
		log.Warn("failed to read refresh token", slog.String("error", err.Error()))
		refreshToken = ""
	}
	if refreshToken == "" {
		c.expireSession(ctx, ErrUnauthenticated)
		return "", ErrUnauthenticated
	}

	pair, err := c.requestTokens(ctx, refreshToken)
	if err == nil {
		if pair.RefreshToken == "" {
			pair.RefreshToken = refreshToken
		}
		if saveErr := c.store.SaveTokens(ctx, pair.AccessToken, pair.RefreshToken); saveErr != nil {
			err = fmt.Errorf("failed to store refreshed tokens: %w", saveErr)
		}
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		c.expireSession(ctx, err)
		return "", err
	}

	attrs := []any{}
	if exp, ok := tokenExpiry(pair.AccessToken); ok {
		attrs = append(attrs, slog.Time("expiresAt", exp))
	}
	log.Info("access token refreshed", attrs...)
	return pair.AccessToken, nil
}

// requestTokens calls the refresh endpoint directly on the transport.
func (c *Client) requestTokens(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	req := &requests.HttpRequest{
		Name:   "auth.refreshToken",
		URL:    c.refreshURL,
		Method: http.MethodPost,
	}
	if err := req.SetJSON(models.RefreshTokenRequest{Token: refreshToken}); err != nil {
		return models.TokenPair{}, err
	}

	result := requests.SendRequest(ctx, c.httpClient, req)
	if result.Err() != nil {
		return models.TokenPair{}, result.Err()
	}
	if status := result.StatusCode(); status < 200 || status >= 300 {
		return models.TokenPair{}, &requests.HttpError{StatusCode: status, Body: string(result.Body())}
	}

	var resp models.RefreshTokenResponse
	if err := json.Unmarshal(result.Body(), &resp); err != nil {
		return models.TokenPair{}, fmt.Errorf("malformed refresh response: %w", err)
	}
	if resp.Data.AccessToken == "" {
		return models.TokenPair{}, errors.New("refresh response has no access token")
	}
	return resp.Data, nil
}

func (c *Client) expireSession(ctx context.Context, cause error) {
	log := logger.GetLogger(ctx)
	if err := c.store.Clear(ctx); err != nil {
		log.Error("failed to clear credentials", slog.String("error", err.Error()))
	}
	log.Info("session expired, credentials cleared", slog.String("reason", cause.Error()))
	if c.onSessionExpired != nil {
		c.onSessionExpired(ctx, cause)
	}
}

func (c *Client) isRefreshRequest(req *requests.HttpRequest) bool {
	target, _, _ := strings.Cut(req.URL, "?")
	return target == c.refreshURL
}

func hasHeader(req *requests.HttpRequest, key string) bool {
	for k, v := range req.Headers {
		if v != "" && strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
