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

// Package db opens the GORM connections used by the SQL credential store.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresConfig holds the connection settings for a postgres backed store
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string `json:"-"`
	DBName   string
	SSLMode  string
}

// Options tune the GORM session and the sql.DB pool
type Options struct {
	SlowThreshold time.Duration
	LogQueries    bool
	MaxOpenConns  int
	MaxIdleConns  int
	// Logger receives GORM's query and slow query logs; slog.Default() when nil
	Logger *slog.Logger
}

func gormConfig(opts Options) *gorm.Config {
	level := logger.Warn
	if opts.LogQueries {
		level = logger.Info
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	// bound values are credentials, so only placeholders are logged
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: logger.NewSlogLogger(log.With("component", "gorm"), logger.Config{
			SlowThreshold:             opts.SlowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}),
	}
}

func applyPool(gdb *gorm.DB, opts Options) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	return nil
}

// OpenSQLite opens (creating if needed) a sqlite database file
func OpenSQLite(path string, opts Options) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}
	gdb, err := gorm.Open(sqlite.Open(path), gormConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// sqlite allows a single writer
	opts.MaxOpenConns = 1
	if err := applyPool(gdb, opts); err != nil {
		return nil, err
	}
	return gdb, nil
}

// OpenPostgres connects to postgres through the pgx stdlib driver
func OpenPostgres(cfg PostgresConfig, opts Options) (*gorm.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)
	pgxCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres configuration: %w", err)
	}
	sqlDB := stdlib.OpenDB(*pgxCfg)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(opts))
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if err := applyPool(gdb, opts); err != nil {
		return nil, err
	}
	return gdb, nil
}
