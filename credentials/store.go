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

// Package credentials persists the access/refresh credential pair and the
// cached user record behind a small key-value style interface.
package credentials

import (
	"context"
	"fmt"

	"github.com/wso2/course-app-client/models"
	"github.com/wso2/course-app-client/utils"
)

// Store persists credentials for the signed in user.
//
// Reads of an absent entry return the zero value and a nil error. Writes are
// atomic: SaveTokens never leaves a partial pair behind.
type Store interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetRefreshToken(ctx context.Context) (string, error)
	// SaveTokens stores both credentials; either being empty is rejected.
	SaveTokens(ctx context.Context, accessToken, refreshToken string) error
	SaveUser(ctx context.Context, user *models.User) error
	// GetUser returns nil when no user is cached.
	GetUser(ctx context.Context) (*models.User, error)
	// Clear removes tokens and the cached user. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	Close() error
}

func validatePair(accessToken, refreshToken string) error {
	pair := models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}
	if !pair.IsComplete() {
		return fmt.Errorf("%w: access and refresh tokens are both required", utils.ErrInvalidCredentials)
	}
	return nil
}
