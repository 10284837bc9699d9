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

// TokenPair is the access/refresh credential pair issued by the auth endpoints.
// Both values are present or both are absent.
type TokenPair struct {
	// AccessToken is the short lived bearer credential
	AccessToken string `json:"accessToken"`
	// RefreshToken is exchanged for a new access token
	RefreshToken string `json:"refreshToken,omitempty"`
}

// IsComplete reports whether both credentials are set.
func (p TokenPair) IsComplete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// RefreshTokenRequest is the body of POST /auth/refresh-token
type RefreshTokenRequest struct {
	Token string `json:"token"`
}

// RefreshTokenResponse is the only accepted refresh response shape:
// {"data": {"accessToken": "...", "refreshToken": "..."}}
type RefreshTokenResponse struct {
	Status  int       `json:"status,omitempty"`
	Message string    `json:"message,omitempty"`
	Data    TokenPair `json:"data"`
}
