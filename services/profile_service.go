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
	"github.com/wso2/course-app-client/utils"
)

// ProfileService defines operations on the signed-in user's profile.
// Email based operations use the email of the cached user.
type ProfileService interface {
	// FetchProfile loads the profile from the backend and caches it
	FetchProfile(ctx context.Context) (*models.User, error)
	// CurrentUser returns the cached profile without a network call
	CurrentUser(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error)
	SendChangePasswordOTP(ctx context.Context) (string, error)
	ChangePassword(ctx context.Context, otp, oldPassword, newPassword string) (string, error)
	SendChangeEmailOTP(ctx context.Context) (string, error)
	ChangeEmail(ctx context.Context, otp, newEmail string) (string, error)
}

type profileService struct {
	client courseclient.CourseAPIClient
	store  SessionStore
	logger *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(client courseclient.CourseAPIClient, store SessionStore, logger *slog.Logger) ProfileService {
	return &profileService{
		client: client,
		store:  store,
		logger: logger,
	}
}

func (s *profileService) FetchProfile(ctx context.Context) (*models.User, error) {
	user, err := s.client.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to cache user: %w", err)
	}
	return user, nil
}

func (s *profileService) CurrentUser(ctx context.Context) (*models.User, error) {
	user, err := s.store.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrNoCachedUser
	}
	return user, nil
}

// knownUser returns the cached user, fetching it when the cache is empty
func (s *profileService) knownUser(ctx context.Context) (*models.User, error) {
	user, err := s.CurrentUser(ctx)
	if err == nil {
		return user, nil
	}
	s.logger.Debug("No cached user, fetching profile", "reason", err.Error())
	return s.FetchProfile(ctx)
}

// UpdateProfile merges the returned profile into the cached one so fields the
// backend omits are kept
func (s *profileService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.knownUser(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.client.UpdateProfile(ctx, user.ID, req)
	if err != nil {
		return nil, err
	}
	user.Merge(updated)
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to cache user: %w", err)
	}
	s.logger.Info("Profile updated", "userId", string(user.ID))
	return user, nil
}

func (s *profileService) SendChangePasswordOTP(ctx context.Context) (string, error) {
	user, err := s.knownUser(ctx)
	if err != nil {
		return "", err
	}
	return s.client.SendChangePasswordOTP(ctx, user.Email)
}

func (s *profileService) ChangePassword(ctx context.Context, otp, oldPassword, newPassword string) (string, error) {
	user, err := s.knownUser(ctx)
	if err != nil {
		return "", err
	}
	return s.client.ChangePassword(ctx, models.ChangePasswordRequest{
		Email:       user.Email,
		OTP:         otp,
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
}

// SendChangeEmailOTP sends the OTP to the current email
func (s *profileService) SendChangeEmailOTP(ctx context.Context) (string, error) {
	user, err := s.knownUser(ctx)
	if err != nil {
		return "", err
	}
	return s.client.SendChangeEmailOTP(ctx, user.Email)
}

func (s *profileService) ChangeEmail(ctx context.Context, otp, newEmail string) (string, error) {
	user, err := s.knownUser(ctx)
	if err != nil {
		return "", err
	}
	if newEmail == "" || newEmail == user.Email {
		return "", fmt.Errorf("%w: new email must differ from the current one", utils.ErrInvalidInput)
	}

	msg, err := s.client.ChangeEmail(ctx, models.ChangeEmailRequest{OldEmail: user.Email, OTP: otp, NewEmail: newEmail})
	if err != nil {
		return "", err
	}
	user.Email = newEmail
	if err := s.store.SaveUser(ctx, user); err != nil {
		return "", fmt.Errorf("failed to cache user: %w", err)
	}
	return msg, nil
}
