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

// Version is set at build time through ldflags
var Version = "dev"

// Config holds all configuration for the application
type Config struct {
	PackageVersion      string
	AutoMaxProcsEnabled bool
	LogLevel            string

	// Course API and session handling
	API APIConfig

	// Transient failure retries of the HTTP transport
	HTTPRetry HTTPRetryConfig

	// Where access/refresh tokens and the cached user are persisted
	CredentialStore CredentialStoreConfig
}

// APIConfig holds the course backend settings
type APIConfig struct {
	// BaseURL is prefixed to every relative request path
	BaseURL               string
	TimeoutSeconds        int
	RefreshTokenPath      string
	RefreshTimeoutSeconds int
	// ProactiveRefreshEnabled refreshes JWT access tokens that expire within TokenExpiryBufferSeconds before sending
	ProactiveRefreshEnabled  bool
	TokenExpiryBufferSeconds int
}

type HTTPRetryConfig struct {
	AttemptsMax         int
	WaitMinMilliseconds int64
	WaitMaxMilliseconds int64
}

// CredentialStoreConfig selects the credential store backend
type CredentialStoreConfig struct {
	// Type is one of memory, sqlite, postgres, redis
	Type       string
	SQLitePath string
	POSTGRESQL POSTGRESQL
	Redis      RedisConfig
	DbConfigs  DbConfigs
	// EncryptionKey is a base64 AES-256 key; values are stored in plaintext when empty
	EncryptionKey string
}

type POSTGRESQL struct {
	Host     string
	Port     int
	User     string
	Password string `json:"-"`
	DBName   string
	SSLMode  string
}

type DbConfigs struct {
	SlowThresholdMilliseconds int64
	LogQueries                bool
	MaxIdleCount              *int64
	MaxOpenCount              *int64
}

type RedisConfig struct {
	Addr      string
	Password  string `json:"-"`
	DB        int
	KeyPrefix string
}
