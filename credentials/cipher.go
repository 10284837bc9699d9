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
	"fmt"

	"github.com/wso2/course-app-client/utils"
)

// StoreOption configures a persistent store
type StoreOption func(*valueCipher)

// WithEncryptionKey makes the store seal every value with AES-256-GCM.
// A nil key keeps values in plaintext.
func WithEncryptionKey(key []byte) StoreOption {
	return func(c *valueCipher) {
		c.key = key
	}
}

type valueCipher struct {
	key []byte
}

func newValueCipher(opts []StoreOption) valueCipher {
	var c valueCipher
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c valueCipher) seal(value string) (string, error) {
	if len(c.key) == 0 {
		return value, nil
	}
	sealed, err := utils.EncryptValue(value, c.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt credential: %w", err)
	}
	return sealed, nil
}

func (c valueCipher) open(value string) (string, error) {
	if len(c.key) == 0 || value == "" {
		return value, nil
	}
	plain, err := utils.DecryptValue(value, c.key)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return plain, nil
}
