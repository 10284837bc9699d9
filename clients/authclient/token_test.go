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

package authclient

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestExpiresWithin(t *testing.T) {
	now := time.Now()

	t.Run("Token expiring inside the buffer", func(t *testing.T) {
		assert.True(t, expiresWithin(signedToken(t, now.Add(10*time.Second)), 30*time.Second, now))
	})

	t.Run("Token valid beyond the buffer", func(t *testing.T) {
		assert.False(t, expiresWithin(signedToken(t, now.Add(time.Hour)), 30*time.Second, now))
	})

	t.Run("Already expired token", func(t *testing.T) {
		assert.True(t, expiresWithin(signedToken(t, now.Add(-time.Minute)), 30*time.Second, now))
	})

	t.Run("Opaque token is never considered expiring", func(t *testing.T) {
		assert.False(t, expiresWithin("A1", 30*time.Second, now))
	})
}
