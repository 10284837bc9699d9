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
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wso2/course-app-client/models"
)

// SQLStore keeps credentials as key/value rows through GORM. It backs the
// CLI's on-disk sqlite store and the shared postgres store.
type SQLStore struct {
	db     *gorm.DB
	cipher valueCipher
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a store on a migrated database
func NewSQLStore(db *gorm.DB, opts ...StoreOption) *SQLStore {
	return &SQLStore{db: db, cipher: newValueCipher(opts)}
}

func (s *SQLStore) get(ctx context.Context, key string) (string, error) {
	var row models.StoredCredential
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return s.cipher.open(row.Value)
}

func (s *SQLStore) upsert(tx *gorm.DB, key, value string) error {
	sealed, err := s.cipher.seal(value)
	if err != nil {
		return err
	}
	row := models.StoredCredential{Key: key, Value: sealed, UpdatedAt: time.Now()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLStore) GetAccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, models.AccessTokenKey)
}

func (s *SQLStore) GetRefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, models.RefreshTokenKey)
}

func (s *SQLStore) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	if err := validatePair(accessToken, refreshToken); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.upsert(tx, models.AccessTokenKey, accessToken); err != nil {
			return err
		}
		return s.upsert(tx, models.RefreshTokenKey, refreshToken)
	})
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

func (s *SQLStore) SaveUser(ctx context.Context, user *models.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	if err := s.upsert(s.db.WithContext(ctx), models.UserInfoKey, data); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *SQLStore) GetUser(ctx context.Context) (*models.User, error) {
	raw, err := s.get(ctx, models.UserInfoKey)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

func (s *SQLStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Where("key IN ?", models.CredentialKeys).
		Delete(&models.StoredCredential{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
