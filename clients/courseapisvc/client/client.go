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

// Package client provides the course backend API client.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/wso2/course-app-client/clients/requests"
	"github.com/wso2/course-app-client/middleware/logger"
	"github.com/wso2/course-app-client/models"
	"github.com/wso2/course-app-client/utils"
)

// Config contains configuration for the course API client
type Config struct {
	BaseURL string
	// HTTPClient sends the public auth endpoints, which carry no credentials
	HTTPClient requests.HttpClient
	// AuthClient sends every endpoint that needs the signed-in user
	AuthClient requests.Sender
}

// CourseAPIClient defines the interface for course backend operations
type CourseAPIClient interface {
	// Auth Operations
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (string, error)
	SendOTP(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error)

	// User Operations
	GetCurrentUser(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, userID models.UserID, req models.UpdateProfileRequest) (*models.User, error)
	SendChangePasswordOTP(ctx context.Context, email string) (string, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error)
	SendChangeEmailOTP(ctx context.Context, email string) (string, error)
	ChangeEmail(ctx context.Context, req models.ChangeEmailRequest) (string, error)

	// Send passes an arbitrary request through the authenticated client
	Send(ctx context.Context, req *requests.HttpRequest) *requests.Result
}

type courseAPIClient struct {
	baseURL    string
	httpClient requests.HttpClient
	authClient requests.Sender
}

// NewCourseAPIClient creates a new course API client
func NewCourseAPIClient(cfg *Config) (CourseAPIClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.HTTPClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if cfg.AuthClient == nil {
		return nil, fmt.Errorf("auth client is required")
	}
	return &courseAPIClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		authClient: cfg.AuthClient,
	}, nil
}

// Login exchanges email and password for a token pair and the user profile
func (c *courseAPIClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	logger.GetLogger(ctx).Debug("Logging in via course API", "email", req.Email)

	var resp models.LoginResponse
	if _, err := c.doPublic(ctx, "auth.login", "/auth/login", req, &resp,
		ErrorContext{UnauthorizedErr: utils.ErrLoginRejected}); err != nil {
		return nil, err
	}
	if !resp.Token.IsComplete() {
		return nil, fmt.Errorf("%w: login response is missing tokens", utils.ErrUnexpectedResponse)
	}
	return &resp, nil
}

// Register creates an account; the backend then sends an OTP to the email
func (c *courseAPIClient) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	return c.doPublic(ctx, "auth.register", "/auth/register", req, nil,
		ErrorContext{ConflictErr: utils.ErrConflict})
}

func (c *courseAPIClient) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (string, error) {
	return c.doPublic(ctx, "auth.verifyOtp", "/auth/verify-otp", req, nil, ErrorContext{})
}

func (c *courseAPIClient) SendOTP(ctx context.Context, email string) (string, error) {
	return c.doPublic(ctx, "auth.sendOtp", "/auth/send-otp", models.EmailRequest{Email: email}, nil, ErrorContext{})
}

func (c *courseAPIClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error) {
	return c.doPublic(ctx, "auth.resetPassword", "/auth/reset-password", req, nil, ErrorContext{})
}

// GetCurrentUser fetches the profile of the signed-in user
func (c *courseAPIClient) GetCurrentUser(ctx context.Context) (*models.User, error) {
	req := &requests.HttpRequest{
		Name:   "users.me",
		URL:    c.baseURL + "/users/me",
		Method: http.MethodGet,
	}
	var user models.User
	if _, err := c.doAuthenticated(ctx, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile sends the editable fields as a JSON "user" part and, when
// AvatarPath is set, the image as an "avatar" part
func (c *courseAPIClient) UpdateProfile(ctx context.Context, userID models.UserID, req models.UpdateProfileRequest) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", utils.ErrInvalidInput)
	}
	logger.GetLogger(ctx).Debug("Updating profile via course API", "userId", string(userID))

	userPart, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	var files []requests.FilePart
	if req.AvatarPath != "" {
		avatar, err := avatarPart(req.AvatarPath)
		if err != nil {
			return nil, err
		}
		files = append(files, avatar)
	}

	httpReq := &requests.HttpRequest{
		Name:   "users.update",
		URL:    c.baseURL + "/users/" + url.PathEscape(string(userID)),
		Method: http.MethodPut,
	}
	if err := httpReq.SetMultipart(map[string]string{"user": string(userPart)}, files); err != nil {
		return nil, fmt.Errorf("failed to build profile update: %w", err)
	}

	var user models.User
	if _, err := c.doAuthenticated(ctx, httpReq, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *courseAPIClient) SendChangePasswordOTP(ctx context.Context, email string) (string, error) {
	return c.postAuthenticated(ctx, "auth.sendChangePasswordOtp", "/auth/send-change-password-otp", models.EmailRequest{Email: email})
}

func (c *courseAPIClient) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error) {
	return c.postAuthenticated(ctx, "auth.changePassword", "/auth/change-password", req)
}

func (c *courseAPIClient) SendChangeEmailOTP(ctx context.Context, email string) (string, error) {
	return c.postAuthenticated(ctx, "auth.sendChangeEmailOtp", "/auth/send-change-email-otp", models.EmailRequest{Email: email})
}

func (c *courseAPIClient) ChangeEmail(ctx context.Context, req models.ChangeEmailRequest) (string, error) {
	return c.postAuthenticated(ctx, "auth.changeEmail", "/auth/change-email", req)
}

func (c *courseAPIClient) Send(ctx context.Context, req *requests.HttpRequest) *requests.Result {
	return c.authClient.Send(ctx, req)
}

func (c *courseAPIClient) doPublic(ctx context.Context, name, path string, body, data any, errCtx ErrorContext) (string, error) {
	req := &requests.HttpRequest{
		Name:   name,
		URL:    c.baseURL + path,
		Method: http.MethodPost,
	}
	if err := req.SetJSON(body); err != nil {
		return "", fmt.Errorf("failed to encode %s request: %w", name, err)
	}
	return handleResult(ctx, req, requests.SendRequest(ctx, c.httpClient, req), data, errCtx)
}

func (c *courseAPIClient) postAuthenticated(ctx context.Context, name, path string, body any) (string, error) {
	req := &requests.HttpRequest{
		Name:   name,
		URL:    c.baseURL + path,
		Method: http.MethodPost,
	}
	if err := req.SetJSON(body); err != nil {
		return "", fmt.Errorf("failed to encode %s request: %w", name, err)
	}
	return c.doAuthenticated(ctx, req, nil)
}

func (c *courseAPIClient) doAuthenticated(ctx context.Context, req *requests.HttpRequest, data any) (string, error) {
	return handleResult(ctx, req, c.authClient.Send(ctx, req), data, ErrorContext{})
}

func handleResult(ctx context.Context, req *requests.HttpRequest, result *requests.Result, data any, errCtx ErrorContext) (string, error) {
	if err := result.Err(); err != nil {
		return "", fmt.Errorf("%s failed: %w", req.Name, err)
	}
	if status := result.StatusCode(); status < 200 || status >= 300 {
		err := handleErrorResponse(status, result.Body(), errCtx)
		logger.GetLogger(ctx).Debug("course API returned an error",
			slog.String("request", req.Name),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		return "", err
	}
	return decodeEnvelope(result.Body(), data)
}
