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

package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/wso2/course-app-client/db"
	dbmigrations "github.com/wso2/course-app-client/db_migrations"
	"github.com/wso2/course-app-client/utils"
)

// StoreType selects the credential store backend
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypeSQLite   StoreType = "sqlite"
	StoreTypePostgres StoreType = "postgres"
	StoreTypeRedis    StoreType = "redis"
)

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr      string
	Password  string `json:"-"`
	DB        int
	KeyPrefix string
}

// Config selects and configures a backend
type Config struct {
	Type       StoreType
	SQLitePath string
	Postgres   db.PostgresConfig
	Redis      RedisConfig
	DBOptions  db.Options
	// EncryptionKey seals values in the persistent backends when set
	EncryptionKey []byte `json:"-"`
}

// NewStore opens the configured backend, running schema migrations for SQL backends
func NewStore(ctx context.Context, cfg Config) (Store, error) {
	slog.Debug("credentials: opening store", "type", string(cfg.Type))

	switch cfg.Type {
	case StoreTypeMemory:
		return NewMemoryStore(), nil
	case StoreTypeSQLite:
		gdb, err := db.OpenSQLite(cfg.SQLitePath, cfg.DBOptions)
		if err != nil {
			return nil, err
		}
		return newMigratedSQLStore(gdb, WithEncryptionKey(cfg.EncryptionKey))
	case StoreTypePostgres:
		gdb, err := db.OpenPostgres(cfg.Postgres, cfg.DBOptions)
		if err != nil {
			return nil, err
		}
		return newMigratedSQLStore(gdb, WithEncryptionKey(cfg.EncryptionKey))
	case StoreTypeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedisStore(client, cfg.Redis.KeyPrefix, WithEncryptionKey(cfg.EncryptionKey)), nil
	default:
		return nil, fmt.Errorf("%w: %q", utils.ErrUnsupportedStoreType, cfg.Type)
	}
}

func newMigratedSQLStore(gdb *gorm.DB, opts ...StoreOption) (Store, error) {
	store := NewSQLStore(gdb, opts...)
	if err := dbmigrations.Migrate(gdb); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
