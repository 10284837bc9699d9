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

	"github.com/redis/go-redis/v9"

	"github.com/wso2/course-app-client/models"
)

// RedisStore keeps credentials in Redis under a key prefix, so several
// clients can share one Redis by using different prefixes.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	cipher valueCipher
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing Redis client
func NewRedisStore(client redis.UniversalClient, prefix string, opts ...StoreOption) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, cipher: newValueCipher(opts)}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStore) get(ctx context.Context, name string) (string, error) {
	value, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return s.cipher.open(value)
}

func (s *RedisStore) GetAccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, models.AccessTokenKey)
}

func (s *RedisStore) GetRefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, models.RefreshTokenKey)
}

func (s *RedisStore) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	if err := validatePair(accessToken, refreshToken); err != nil {
		return err
	}
	sealedAccess, err := s.cipher.seal(accessToken)
	if err != nil {
		return err
	}
	sealedRefresh, err := s.cipher.seal(refreshToken)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(models.AccessTokenKey), sealedAccess, 0)
		pipe.Set(ctx, s.key(models.RefreshTokenKey), sealedRefresh, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveUser(ctx context.Context, user *models.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	sealed, err := s.cipher.seal(data)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(models.UserInfoKey), sealed, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *RedisStore) GetUser(ctx context.Context) (*models.User, error) {
	raw, err := s.get(ctx, models.UserInfoKey)
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(models.CredentialKeys))
	for _, name := range models.CredentialKeys {
		keys = append(keys, s.key(name))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
