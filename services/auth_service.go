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

package services

import (
	"context"
	"fmt"
	"log/slog"

	courseclient "github.com/wso2/course-app-client/clients/courseapisvc/client"
	"github.com/wso2/course-app-client/models"
)

// AuthService defines the sign-in lifecycle of the app user
type AuthService interface {
	// Login signs in and persists the token pair and the user profile
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	SendOTP(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error)
	// Logout drops every stored credential and the cached user
	Logout(ctx context.Context) error
	// IsSignedIn reports whether a refresh token is stored
	IsSignedIn(ctx context.Context) (bool, error)
}

type authService struct {
	client courseclient.CourseAPIClient
	store  SessionStore
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(client courseclient.CourseAPIClient, store SessionStore, logger *slog.Logger) AuthService {
	return &authService{
		client: client,
		store:  store,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	s.logger.Info("Signing in", "email", email)

	resp, err := s.client.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveTokens(ctx, resp.Token.AccessToken, resp.Token.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}
	if err := s.store.SaveUser(ctx, &resp.User); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	s.logger.Info("Signed in", "userId", string(resp.User.ID))
	return &resp.User, nil
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	s.logger.Info("Registering account", "email", req.Email)
	return s.client.Register(ctx, req)
}

func (s *authService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	return s.client.VerifyOTP(ctx, models.VerifyOTPRequest{Email: email, OTP: otp})
}

func (s *authService) SendOTP(ctx context.Context, email string) (string, error) {
	return s.client.SendOTP(ctx, email)
}

func (s *authService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error) {
	return s.client.ResetPassword(ctx, req)
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	s.logger.Info("Signed out")
	return nil
}

func (s *authService) IsSignedIn(ctx context.Context) (bool, error) {
	refreshToken, err := s.store.GetRefreshToken(ctx)
	if err != nil {
		return false, err
	}
	return refreshToken != "", nil
}
