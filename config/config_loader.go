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

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"

	"github.com/joho/godotenv"

	"github.com/wso2/course-app-client/utils"
)

var config *Config

func GetConfig() *Config {
	return config
}

func init() {
	loadEnvs()
}

func loadEnvs() {
	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath != "" {
		err := godotenv.Load(envFilePath)
		if err != nil {
			panic(err)
		}
	}

	r := &configReader{}
	config = readConfig(r)
	r.logAndExitIfErrorsFound()

	slog.Info("configReader: configs loaded")
}

func readConfig(r *configReader) *Config {
	cfg := &Config{}
	cfg.PackageVersion = r.readOptionalString("APP_VERSION", Version)
	cfg.AutoMaxProcsEnabled = r.readOptionalBool("AUTO_MAX_PROCS_ENABLED", true)

	// Logging configuration
	cfg.LogLevel = r.readOptionalString("LOG_LEVEL", "INFO")

	cfg.API = APIConfig{
		BaseURL:                  r.readOptionalString("API_BASE_URL", "http://localhost:8888/api/v1"),
		TimeoutSeconds:           int(r.readOptionalInt64("API_TIMEOUT_SECONDS", 10)),
		RefreshTokenPath:         r.readOptionalString("REFRESH_TOKEN_PATH", "/auth/refresh-token"),
		RefreshTimeoutSeconds:    int(r.readOptionalInt64("REFRESH_TIMEOUT_SECONDS", 15)),
		ProactiveRefreshEnabled:  r.readOptionalBool("PROACTIVE_REFRESH_ENABLED", false),
		TokenExpiryBufferSeconds: int(r.readOptionalInt64("TOKEN_EXPIRY_BUFFER_SECONDS", 30)),
	}

	cfg.HTTPRetry = HTTPRetryConfig{
		AttemptsMax:         int(r.readOptionalInt64("HTTP_RETRY_ATTEMPTS_MAX", 3)),
		WaitMinMilliseconds: r.readOptionalInt64("HTTP_RETRY_WAIT_MIN_MS", 500),
		WaitMaxMilliseconds: r.readOptionalInt64("HTTP_RETRY_WAIT_MAX_MS", 5000),
	}

	cfg.CredentialStore = CredentialStoreConfig{
		Type:       r.readOptionalString("CREDENTIAL_STORE_TYPE", "sqlite"),
		SQLitePath: r.readOptionalString("SQLITE_PATH", "data/credentials.db"),
		// Values are base64 encoded after sealing, so the key itself is also base64
		EncryptionKey: r.readOptionalString("CREDENTIAL_ENCRYPTION_KEY", ""),
		DbConfigs: DbConfigs{
			SlowThresholdMilliseconds: r.readOptionalInt64("GORM_SLOW_THRESHOLD_MILLISECONDS", 200),
			LogQueries:                r.readOptionalBool("GORM_LOG_QUERIES", false),
			MaxIdleCount:              r.readNullableInt64("DB_MAX_IDLE_COUNT"),
			MaxOpenCount:              r.readNullableInt64("DB_MAX_OPEN_COUNT"),
		},
	}

	// read database configs only when postgres is selected
	if cfg.CredentialStore.Type == "postgres" {
		cfg.CredentialStore.POSTGRESQL = POSTGRESQL{
			Host:     r.readRequiredString("DB_HOST"),
			Port:     int(r.readOptionalInt64("DB_PORT", 5432)),
			User:     r.readRequiredString("DB_USER"),
			Password: r.readRequiredString("DB_PASSWORD"),
			DBName:   r.readRequiredString("DB_NAME"),
			SSLMode:  r.readOptionalString("DB_SSL_MODE", "disable"),
		}
	}

	cfg.CredentialStore.Redis = RedisConfig{
		Addr:      r.readOptionalString("REDIS_ADDR", "localhost:6379"),
		Password:  r.readOptionalString("REDIS_PASSWORD", ""),
		DB:        int(r.readOptionalInt64("REDIS_DB", 0)),
		KeyPrefix: r.readOptionalString("REDIS_KEY_PREFIX", "course-app:"),
	}

	validateAPIConfigs(cfg, r)
	validateCredentialStoreConfigs(cfg, r)
	return cfg
}

func validateAPIConfigs(cfg *Config, r *configReader) {
	if u, err := url.Parse(cfg.API.BaseURL); err != nil || !u.IsAbs() {
		r.errors = append(r.errors, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.API.BaseURL))
	}
	if cfg.API.TimeoutSeconds <= 0 {
		r.errors = append(r.errors, fmt.Errorf("API_TIMEOUT_SECONDS must be greater than 0, got %d", cfg.API.TimeoutSeconds))
	}
	if cfg.API.RefreshTimeoutSeconds <= 0 {
		r.errors = append(r.errors, fmt.Errorf("REFRESH_TIMEOUT_SECONDS must be greater than 0, got %d", cfg.API.RefreshTimeoutSeconds))
	}
	if cfg.API.TokenExpiryBufferSeconds < 0 {
		r.errors = append(r.errors, fmt.Errorf("TOKEN_EXPIRY_BUFFER_SECONDS must not be negative, got %d", cfg.API.TokenExpiryBufferSeconds))
	}
	if cfg.HTTPRetry.WaitMinMilliseconds > cfg.HTTPRetry.WaitMaxMilliseconds {
		r.errors = append(r.errors, fmt.Errorf("HTTP_RETRY_WAIT_MIN_MS (%d) must be <= HTTP_RETRY_WAIT_MAX_MS (%d)",
			cfg.HTTPRetry.WaitMinMilliseconds, cfg.HTTPRetry.WaitMaxMilliseconds))
	}
}

func validateCredentialStoreConfigs(cfg *Config, r *configReader) {
	storeTypes := []string{"memory", "sqlite", "postgres", "redis"}
	if !slices.Contains(storeTypes, cfg.CredentialStore.Type) {
		r.errors = append(r.errors, fmt.Errorf("CREDENTIAL_STORE_TYPE must be one of %v, got %q", storeTypes, cfg.CredentialStore.Type))
	}
	if cfg.CredentialStore.Type == "sqlite" && cfg.CredentialStore.SQLitePath == "" {
		r.errors = append(r.errors, fmt.Errorf("SQLITE_PATH must be non-empty"))
	}
	if key := cfg.CredentialStore.EncryptionKey; key != "" {
		if _, err := utils.ParseEncryptionKey(key); err != nil {
			r.errors = append(r.errors, fmt.Errorf("CREDENTIAL_ENCRYPTION_KEY: %w", err))
		}
	}
	if cfg.CredentialStore.Type == "memory" {
		slog.Warn("CREDENTIAL_STORE_TYPE is memory; sessions will not survive a restart")
	}
}
