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

package wiring

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wso2/course-app-client/clients/authclient"
	courseclient "github.com/wso2/course-app-client/clients/courseapisvc/client"
	"github.com/wso2/course-app-client/clients/requests"
	"github.com/wso2/course-app-client/config"
	"github.com/wso2/course-app-client/credentials"
	"github.com/wso2/course-app-client/db"
	"github.com/wso2/course-app-client/middleware/logger"
	"github.com/wso2/course-app-client/services"
	"github.com/wso2/course-app-client/utils"
)

// AppParams contains all wired application dependencies
type AppParams struct {
	Logger *slog.Logger

	// Credential store
	Store credentials.Store

	// Clients
	AuthClient      *authclient.Client
	CourseAPIClient courseclient.CourseAPIClient

	// Services
	AuthService    services.AuthService
	ProfileService services.ProfileService
}

func ProvideConfigFromPtr(config *config.Config) config.Config {
	return *config
}

// ProvideLogger provides the configured slog.Logger instance
func ProvideLogger() *slog.Logger {
	return slog.Default()
}

// ProvideHTTPClient creates the retrying transport shared by every client
func ProvideHTTPClient(cfg config.Config) requests.HttpClient {
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	return requests.NewRetryableHTTPClient(&http.Client{Timeout: timeout}, requests.RequestRetryConfig{
		RetryWaitMin:     time.Duration(cfg.HTTPRetry.WaitMinMilliseconds) * time.Millisecond,
		RetryWaitMax:     time.Duration(cfg.HTTPRetry.WaitMaxMilliseconds) * time.Millisecond,
		RetryAttemptsMax: cfg.HTTPRetry.AttemptsMax,
		AttemptTimeout:   timeout,
	})
}

// ProvideStoreConfig maps the environment configuration onto the store factory settings
func ProvideStoreConfig(cfg config.Config) (credentials.Config, error) {
	cs := cfg.CredentialStore
	var key []byte
	if cs.EncryptionKey != "" {
		var err error
		if key, err = utils.ParseEncryptionKey(cs.EncryptionKey); err != nil {
			return credentials.Config{}, fmt.Errorf("CREDENTIAL_ENCRYPTION_KEY: %w", err)
		}
	}
	opts := db.Options{
		SlowThreshold: time.Duration(cs.DbConfigs.SlowThresholdMilliseconds) * time.Millisecond,
		LogQueries:    cs.DbConfigs.LogQueries,
	}
	if cs.DbConfigs.MaxOpenCount != nil {
		opts.MaxOpenConns = int(*cs.DbConfigs.MaxOpenCount)
	}
	if cs.DbConfigs.MaxIdleCount != nil {
		opts.MaxIdleConns = int(*cs.DbConfigs.MaxIdleCount)
	}
	return credentials.Config{
		Type:       credentials.StoreType(cs.Type),
		SQLitePath: cs.SQLitePath,
		Postgres: db.PostgresConfig{
			Host:     cs.POSTGRESQL.Host,
			Port:     cs.POSTGRESQL.Port,
			User:     cs.POSTGRESQL.User,
			Password: cs.POSTGRESQL.Password,
			DBName:   cs.POSTGRESQL.DBName,
			SSLMode:  cs.POSTGRESQL.SSLMode,
		},
		Redis: credentials.RedisConfig{
			Addr:      cs.Redis.Addr,
			Password:  cs.Redis.Password,
			DB:        cs.Redis.DB,
			KeyPrefix: cs.Redis.KeyPrefix,
		},
		DBOptions:     opts,
		EncryptionKey: key,
	}, nil
}

// ProvideCredentialStore opens the store; the cleanup closes it
func ProvideCredentialStore(ctx context.Context, cfg credentials.Config) (credentials.Store, func(), error) {
	store, err := credentials.NewStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close credential store", "error", err)
		}
	}
	return store, cleanup, nil
}

func ProvideSessionStore(store credentials.Store) services.SessionStore {
	return store
}

// ProvideSessionExpiredHook reports sessions that ended because the refresh token was rejected or missing
func ProvideSessionExpiredHook() authclient.SessionExpiredFunc {
	return func(ctx context.Context, cause error) {
		logger.GetLogger(ctx).Warn("Session expired, sign in again", "reason", cause.Error())
	}
}

// ProvideAuthClient creates the authenticated client that renews expired access tokens
func ProvideAuthClient(cfg config.Config, store credentials.Store, httpClient requests.HttpClient,
	onSessionExpired authclient.SessionExpiredFunc) (*authclient.Client, error) {
	return authclient.NewClient(&authclient.Config{
		BaseURL:          cfg.API.BaseURL,
		RefreshPath:      cfg.API.RefreshTokenPath,
		Store:            store,
		HTTPClient:       httpClient,
		RefreshTimeout:   time.Duration(cfg.API.RefreshTimeoutSeconds) * time.Second,
		ProactiveRefresh: cfg.API.ProactiveRefreshEnabled,
		ExpiryBuffer:     time.Duration(cfg.API.TokenExpiryBufferSeconds) * time.Second,
		OnSessionExpired: onSessionExpired,
	})
}

// ProvideCourseAPIClient creates the course backend client
func ProvideCourseAPIClient(cfg config.Config, httpClient requests.HttpClient, authClient *authclient.Client) (courseclient.CourseAPIClient, error) {
	return courseclient.NewCourseAPIClient(&courseclient.Config{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: httpClient,
		AuthClient: authClient,
	})
}
