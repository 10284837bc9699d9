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

import "errors"

var (
	// ErrUnauthenticated means no refresh token is stored; the user must sign in again.
	ErrUnauthenticated = errors.New("unauthenticated: no refresh token available")
	// ErrRefreshFailed wraps every failure of the refresh call itself.
	ErrRefreshFailed = errors.New("access token refresh failed")
	// ErrReplayUnauthorized is returned when a request replayed with a refreshed
	// token is rejected again. It never starts another refresh.
	ErrReplayUnauthorized = errors.New("request rejected after token refresh")
)
