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
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wso2/course-app-client/models"
	"github.com/wso2/course-app-client/utils"
)

// MemoryStore keeps credentials in process memory. Used by tests and by
// short lived tools that must not touch disk.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (s *MemoryStore) get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key]
}

func (s *MemoryStore) GetAccessToken(_ context.Context) (string, error) {
	return s.get(models.AccessTokenKey), nil
}

func (s *MemoryStore) GetRefreshToken(_ context.Context) (string, error) {
	return s.get(models.RefreshTokenKey), nil
}

func (s *MemoryStore) SaveTokens(_ context.Context, accessToken, refreshToken string) error {
	if err := validatePair(accessToken, refreshToken); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[models.AccessTokenKey] = accessToken
	s.entries[models.RefreshTokenKey] = refreshToken
	return nil
}

func (s *MemoryStore) SaveUser(_ context.Context, user *models.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[models.UserInfoKey] = data
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context) (*models.User, error) {
	return decodeUser(s.get(models.UserInfoKey))
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range models.CredentialKeys {
		delete(s.entries, key)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func encodeUser(user *models.User) (string, error) {
	if user == nil {
		return "", fmt.Errorf("%w: user is required", utils.ErrInvalidInput)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("failed to encode user: %w", err)
	}
	return string(data), nil
}

// decodeUser treats an empty or JSON null entry as no cached user
func decodeUser(raw string) (*models.User, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode cached user: %w", err)
	}
	return &user, nil
}
