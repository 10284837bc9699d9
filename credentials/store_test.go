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
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/course-app-client/models"
	"github.com/wso2/course-app-client/utils"
)

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			store, err := NewStore(context.Background(), Config{
				Type:       StoreTypeSQLite,
				SQLitePath: filepath.Join(t.TempDir(), "credentials.db"),
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
		"redis": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			store := NewRedisStore(rdb, "course-app:")
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
		"sqlite-encrypted": func(t *testing.T) Store {
			store, err := NewStore(context.Background(), Config{
				Type:          StoreTypeSQLite,
				SQLitePath:    filepath.Join(t.TempDir(), "credentials.db"),
				EncryptionKey: testKey(t),
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
		"redis-encrypted": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			store := NewRedisStore(rdb, "course-app:", WithEncryptionKey(testKey(t)))
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}
}

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := utils.GenerateEncryptionKey()
	require.NoError(t, err)
	return key
}

func TestStoreContract(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("Empty store reads as absent", func(t *testing.T) {
				store := newStore(t)
				access, err := store.GetAccessToken(ctx)
				require.NoError(t, err)
				assert.Empty(t, access)

				refresh, err := store.GetRefreshToken(ctx)
				require.NoError(t, err)
				assert.Empty(t, refresh)

				user, err := store.GetUser(ctx)
				require.NoError(t, err)
				assert.Nil(t, user)
			})

			t.Run("Save overwrites the pair", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.SaveTokens(ctx, "a1", "r1"))
				require.NoError(t, store.SaveTokens(ctx, "a2", "r2"))

				access, err := store.GetAccessToken(ctx)
				require.NoError(t, err)
				refresh, err := store.GetRefreshToken(ctx)
				require.NoError(t, err)
				assert.Equal(t, "a2", access)
				assert.Equal(t, "r2", refresh)
			})

			t.Run("Partial pair is rejected and leaves the store untouched", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.SaveTokens(ctx, "a1", "r1"))

				err := store.SaveTokens(ctx, "a2", "")
				assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

				access, _ := store.GetAccessToken(ctx)
				refresh, _ := store.GetRefreshToken(ctx)
				assert.Equal(t, "a1", access)
				assert.Equal(t, "r1", refresh)
			})

			t.Run("User is cached and returned", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.SaveUser(ctx, &models.User{ID: "7", Email: "an@example.com", Name: "An"}))

				user, err := store.GetUser(ctx)
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, models.UserID("7"), user.ID)
				assert.Equal(t, "an@example.com", user.Email)
			})

			t.Run("Nil user is rejected and keeps the cached one", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.SaveUser(ctx, &models.User{ID: "7"}))

				assert.ErrorIs(t, store.SaveUser(ctx, nil), utils.ErrInvalidInput)

				user, err := store.GetUser(ctx)
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, models.UserID("7"), user.ID)
			})

			t.Run("Clear removes everything and is idempotent", func(t *testing.T) {
				store := newStore(t)
				require.NoError(t, store.SaveTokens(ctx, "a1", "r1"))
				require.NoError(t, store.SaveUser(ctx, &models.User{ID: "7"}))

				require.NoError(t, store.Clear(ctx))
				require.NoError(t, store.Clear(ctx))

				access, _ := store.GetAccessToken(ctx)
				refresh, _ := store.GetRefreshToken(ctx)
				user, _ := store.GetUser(ctx)
				assert.Empty(t, access)
				assert.Empty(t, refresh)
				assert.Nil(t, user)
			})
		})
	}
}

func TestNewStore(t *testing.T) {
	t.Run("Rejects unknown backends", func(t *testing.T) {
		_, err := NewStore(context.Background(), Config{Type: "keychain"})
		assert.ErrorIs(t, err, utils.ErrUnsupportedStoreType)
	})

	t.Run("Connects to redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := NewStore(context.Background(), Config{
			Type:  StoreTypeRedis,
			Redis: RedisConfig{Addr: mr.Addr(), KeyPrefix: "x:"},
		})
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.SaveTokens(context.Background(), "a", "r"))
		value, err := mr.Get("x:accessToken")
		require.NoError(t, err)
		assert.Equal(t, "a", value)
	})

	t.Run("Reopening a sqlite file keeps credentials", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.db")
		cfg := Config{Type: StoreTypeSQLite, SQLitePath: path}

		first, err := NewStore(context.Background(), cfg)
		require.NoError(t, err)
		require.NoError(t, first.SaveTokens(context.Background(), "a", "r"))
		require.NoError(t, first.Close())

		second, err := NewStore(context.Background(), cfg)
		require.NoError(t, err)
		defer second.Close()
		access, err := second.GetAccessToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a", access)
	})
	t.Run("Encrypted redis values are not stored in plaintext", func(t *testing.T) {
		mr := miniredis.RunT(t)
		key := testKey(t)
		store, err := NewStore(context.Background(), Config{
			Type:          StoreTypeRedis,
			Redis:         RedisConfig{Addr: mr.Addr(), KeyPrefix: "x:"},
			EncryptionKey: key,
		})
		require.NoError(t, err)
		defer store.Close()

		ctx := context.Background()
		require.NoError(t, store.SaveTokens(ctx, "A1", "R1"))
		raw, err := mr.Get("x:refreshToken")
		require.NoError(t, err)
		assert.NotEqual(t, "R1", raw)

		plain, err := utils.DecryptValue(raw, key)
		require.NoError(t, err)
		assert.Equal(t, "R1", plain)
	})

	t.Run("Reading with another key fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "creds.db")
		ctx := context.Background()

		first, err := NewStore(ctx, Config{Type: StoreTypeSQLite, SQLitePath: path, EncryptionKey: testKey(t)})
		require.NoError(t, err)
		require.NoError(t, first.SaveTokens(ctx, "A1", "R1"))
		require.NoError(t, first.Close())

		second, err := NewStore(ctx, Config{Type: StoreTypeSQLite, SQLitePath: path, EncryptionKey: testKey(t)})
		require.NoError(t, err)
		defer second.Close()
		_, err = second.GetAccessToken(ctx)
		assert.ErrorIs(t, err, utils.ErrInvalidCiphertext)
	})
	t.Run("A stored JSON null reads as no cached user", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "x:")
		defer store.Close()
		require.NoError(t, mr.Set("x:"+models.UserInfoKey, "null"))

		user, err := store.GetUser(context.Background())
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}
