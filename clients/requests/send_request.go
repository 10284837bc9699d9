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
	"io"
	"log/slog"
	"net/http"

	"github.com/wso2/course-app-client/middleware/logger"
)

// HttpClient interface for making HTTP requests.
// Use RetryableHTTPClient for retry support.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Compile-time check that http.Client implements HttpClient
var _ HttpClient = (*http.Client)(nil)

// Sender sends an HttpRequest and returns a Result. The authenticated client
// implements it on top of SendRequest.
type Sender interface {
	Send(ctx context.Context, req *HttpRequest) *Result
}

// SendRequest builds and sends an HTTP request, returning a Result for response handling.
func SendRequest(ctx context.Context, client HttpClient, req *HttpRequest) *Result {
	log := logger.GetLogger(ctx).With(
		slog.String("request", req.Name),
		slog.String("requestId", req.RequestID()),
	)

	httpReq, err := req.buildHttpRequest(ctx)
	if err != nil {
		return &Result{err: fmt.Errorf("failed to build http request: %w", err)}
	}
	return send(log, client, httpReq)
}

// SendWithHeader sends the request with one header forced to value, ignoring
// the caller supplied value for that header.
func SendWithHeader(ctx context.Context, client HttpClient, req *HttpRequest, key, value string) *Result {
	log := logger.GetLogger(ctx).With(
		slog.String("request", req.Name),
		slog.String("requestId", req.RequestID()),
	)

	httpReq, err := req.buildHttpRequest(ctx)
	if err != nil {
		return &Result{err: fmt.Errorf("failed to build http request: %w", err)}
	}
	if value == "" {
		httpReq.Header.Del(key)
	} else {
		httpReq.Header.Set(key, value)
	}
	return send(log, client, httpReq)
}

func send(log *slog.Logger, client HttpClient, httpReq *http.Request) *Result {
	resp, err := client.Do(httpReq)
	if err != nil {
		return &Result{err: fmt.Errorf("request failed: %w", err)}
	}

	// Read response body and close immediately to avoid resource leaks
	respBody, err := io.ReadAll(resp.Body)
	closeErr := resp.Body.Close()
	if closeErr != nil {
		log.Warn("failed to close response body", slog.String("error", closeErr.Error()))
	}
	if err != nil {
		return &Result{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	log.Debug("request completed", slog.Int("status", resp.StatusCode))
	return &Result{response: resp, responseBody: respBody}
}

// Result holds the response from SendRequest.
type Result struct {
	responseBody []byte
	response     *http.Response
	err          error
}

// NewErrorResult returns a Result carrying only err.
func NewErrorResult(err error) *Result {
	return &Result{err: err}
}

// WithError returns a copy of r that keeps the response but reports err.
func (r *Result) WithError(err error) *Result {
	return &Result{response: r.response, responseBody: r.responseBody, err: err}
}

// Err returns the transport or processing error, if any.
func (r *Result) Err() error {
	return r.err
}

// StatusCode returns the response status, or 0 when no response was received.
func (r *Result) StatusCode() int {
	if r.response == nil {
		return 0
	}
	return r.response.StatusCode
}

// Body returns the buffered response body.
func (r *Result) Body() []byte {
	return r.responseBody
}

// GetHeader returns the value of a response header.
func (r *Result) GetHeader(key string) string {
	if r.err != nil || r.response == nil {
		return ""
	}
	return r.response.Header.Get(key)
}
