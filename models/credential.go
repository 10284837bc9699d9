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

package models

import "time"

// Credential keys, shared by every credential store backend
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
	UserInfoKey     = "userInfo"
)

// CredentialKeys lists every key removed by a clear.
var CredentialKeys = []string{AccessTokenKey, RefreshTokenKey, UserInfoKey}

// StoredCredential is the database model for one persisted credential entry
type StoredCredential struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (StoredCredential) TableName() string {
	return "credentials"
}
