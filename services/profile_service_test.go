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
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/course-app-client/credentials"
	"github.com/wso2/course-app-client/models"
	"github.com/wso2/course-app-client/utils"
)

func storeWithUser(t *testing.T, user *models.User) *credentials.MemoryStore {
	t.Helper()
	store := credentials.NewMemoryStore()
	require.NoError(t, store.SaveTokens(context.Background(), "A1", "R1"))
	if user != nil {
		require.NoError(t, store.SaveUser(context.Background(), user))
	}
	return store
}

func TestProfileService(t *testing.T) {
	ctx := context.Background()

	t.Run("CurrentUser without cache", func(t *testing.T) {
		svc := NewProfileService(&fakeCourseClient{}, storeWithUser(t, nil), slog.Default())
		_, err := svc.CurrentUser(ctx)
		assert.ErrorIs(t, err, utils.ErrNoCachedUser)
	})

	t.Run("FetchProfile caches the user", func(t *testing.T) {
		store := storeWithUser(t, nil)
		client := &fakeCourseClient{
			GetCurrentUserFunc: func(ctx context.Context) (*models.User, error) {
				return &models.User{ID: "7", Email: "an@example.com"}, nil
			},
		}
		svc := NewProfileService(client, store, slog.Default())

		_, err := svc.FetchProfile(ctx)
		require.NoError(t, err)

		cached, err := svc.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.UserID("7"), cached.ID)
	})

	t.Run("UpdateProfile merges into the cached user", func(t *testing.T) {
		store := storeWithUser(t, &models.User{ID: "7", Email: "an@example.com", Name: "An", PhoneNumber: "0123"})
		var gotID models.UserID
		client := &fakeCourseClient{
			UpdateProfileFunc: func(ctx context.Context, userID models.UserID, req models.UpdateProfileRequest) (*models.User, error) {
				gotID = userID
				return &models.User{ID: userID, Name: req.Name, Gender: req.Gender}, nil
			},
		}
		svc := NewProfileService(client, store, slog.Default())

		user, err := svc.UpdateProfile(ctx, models.UpdateProfileRequest{Name: "Binh", Gender: "male"})
		require.NoError(t, err)

		assert.Equal(t, models.UserID("7"), gotID)
		assert.Equal(t, "Binh", user.Name)
		assert.Equal(t, "0123", user.PhoneNumber)
		assert.Equal(t, "an@example.com", user.Email)

		cached, _ := store.GetUser(ctx)
		assert.Equal(t, "Binh", cached.Name)
	})

	t.Run("UpdateProfile fetches the user when nothing is cached", func(t *testing.T) {
		client := &fakeCourseClient{
			GetCurrentUserFunc: func(ctx context.Context) (*models.User, error) {
				return &models.User{ID: "9", Email: "an@example.com"}, nil
			},
			UpdateProfileFunc: func(ctx context.Context, userID models.UserID, req models.UpdateProfileRequest) (*models.User, error) {
				return &models.User{ID: userID, Name: req.Name}, nil
			},
		}
		svc := NewProfileService(client, storeWithUser(t, nil), slog.Default())

		user, err := svc.UpdateProfile(ctx, models.UpdateProfileRequest{Name: "Binh"})
		require.NoError(t, err)
		assert.Equal(t, models.UserID("9"), user.ID)
		assert.Equal(t, []string{"GetCurrentUser", "UpdateProfile"}, client.Calls())
	})

	t.Run("Change password uses the cached email", func(t *testing.T) {
		var otpEmail string
		var changeReq models.ChangePasswordRequest
		client := &fakeCourseClient{
			SendChangePasswordOTPFunc: func(ctx context.Context, email string) (string, error) {
				otpEmail = email
				return "sent", nil
			},
			ChangePasswordFunc: func(ctx context.Context, req models.ChangePasswordRequest) (string, error) {
				changeReq = req
				return "changed", nil
			},
		}
		svc := NewProfileService(client, storeWithUser(t, &models.User{ID: "7", Email: "an@example.com"}), slog.Default())

		_, err := svc.SendChangePasswordOTP(ctx)
		require.NoError(t, err)
		msg, err := svc.ChangePassword(ctx, "111111", "old", "new")
		require.NoError(t, err)

		assert.Equal(t, "changed", msg)
		assert.Equal(t, "an@example.com", otpEmail)
		assert.Equal(t, models.ChangePasswordRequest{Email: "an@example.com", OTP: "111111", OldPassword: "old", NewPassword: "new"}, changeReq)
	})

	t.Run("Change email updates the cached email", func(t *testing.T) {
		store := storeWithUser(t, &models.User{ID: "7", Email: "an@example.com"})
		var changeReq models.ChangeEmailRequest
		client := &fakeCourseClient{
			SendChangeEmailOTPFunc: func(ctx context.Context, email string) (string, error) {
				return "sent to " + email, nil
			},
			ChangeEmailFunc: func(ctx context.Context, req models.ChangeEmailRequest) (string, error) {
				changeReq = req
				return "changed", nil
			},
		}
		svc := NewProfileService(client, store, slog.Default())

		msg, err := svc.SendChangeEmailOTP(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sent to an@example.com", msg)

		_, err = svc.ChangeEmail(ctx, "222222", "binh@example.com")
		require.NoError(t, err)
		assert.Equal(t, "an@example.com", changeReq.OldEmail)

		cached, _ := store.GetUser(ctx)
		assert.Equal(t, "binh@example.com", cached.Email)
	})

	t.Run("Change email rejects the current address", func(t *testing.T) {
		client := &fakeCourseClient{}
		svc := NewProfileService(client, storeWithUser(t, &models.User{ID: "7", Email: "an@example.com"}), slog.Default())

		_, err := svc.ChangeEmail(ctx, "222222", "an@example.com")
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
		assert.Empty(t, client.Calls())
	})
}
