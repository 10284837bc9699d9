// Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
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

package requests

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// RetryableHTTPClient wraps an http.Client with transient-failure retries.
// It implements HttpClient so it can be handed to SendRequest and the authenticated client.
type RetryableHTTPClient struct {
	client *http.Client
	config RequestRetryConfig
}

// Compile-time check that RetryableHTTPClient implements HttpClient
var _ HttpClient = (*RetryableHTTPClient)(nil)

// NewRetryableHTTPClient creates a new RetryableHTTPClient.
// Config is optional - defaults will be used if not provided.
func NewRetryableHTTPClient(client *http.Client, config ...RequestRetryConfig) *RetryableHTTPClient {
	if client == nil {
		client = &http.Client{}
	}
	var cfg RequestRetryConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	return &RetryableHTTPClient{
		client: client,
		config: cfg,
	}
}

// Do executes the HTTP request with retry logic.
func (c *RetryableHTTPClient) Do(req *http.Request) (*http.Response, error) {
	cfg := c.config.getRetryConfig(req.Method)
	log := slog.Default().With(
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	resp, err := c.newRetryClient(cfg, log).Do(retryReq)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("context cancelled or timed out: %w", ctxErr)
		}
		return nil, err
	}
	return resp, nil
}

func (c *RetryableHTTPClient) newRetryClient(cfg RequestRetryConfig, log *slog.Logger) *retryablehttp.Client {
	// http.Client.Timeout bounds each attempt including the body read
	attemptClient := *c.client
	if attemptClient.Timeout == 0 || attemptClient.Timeout > cfg.AttemptTimeout {
		attemptClient.Timeout = cfg.AttemptTimeout
	}
	maxAttempts := cfg.RetryAttemptsMax + 1

	return &retryablehttp.Client{
		HTTPClient:   &attemptClient,
		Logger:       nil,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
		RetryMax:     cfg.RetryAttemptsMax,
		CheckRetry: func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			if err != nil {
				return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
			}
			return cfg.RetryOnStatus(resp.StatusCode), nil
		},
		Backoff: func(min, max time.Duration, attemptNum int, _ *http.Response) time.Duration {
			return calculateBackoff(min, max, attemptNum+1)
		},
		RequestLogHook: func(_ retryablehttp.Logger, _ *http.Request, attempt int) {
			if attempt > 0 {
				log.Debug("retrying HTTP request",
					slog.Int("attempt", attempt+1),
					slog.Int("maxAttempts", maxAttempts))
			}
		},
		// Hand back the last response or error instead of a generic "giving up" error
		ErrorHandler: func(resp *http.Response, err error, numTries int) (*http.Response, error) {
			if numTries > 1 {
				attrs := []any{slog.Int("attempts", numTries)}
				if resp != nil {
					attrs = append(attrs, slog.Int("status", resp.StatusCode))
				}
				if err != nil {
					attrs = append(attrs, slog.String("error", err.Error()))
				}
				log.Warn("HTTP request still failing after all attempts", attrs...)
			}
			if err != nil {
				return resp, fmt.Errorf("request failed after %d attempts: %w", numTries, err)
			}
			return resp, nil
		},
	}
}

// calculateBackoff returns an exponential backoff duration with jitter, capped by max.
// Uses "equal jitter" strategy: base/2 + random(0, base/2), giving a range of [base/2, base].
func calculateBackoff(min, max time.Duration, attempt int) time.Duration {
	// Calculate base exponential backoff: 2^(attempt-1) * min
	base := min * time.Duration(1<<uint(attempt-1))
	if base > max || base <= 0 {
		base = max
	}
	halfBase := base / 2
	if halfBase <= 0 {
		return base
	}
	return halfBase + time.Duration(rand.Int64N(int64(halfBase)))
}
