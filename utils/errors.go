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

package utils

import "errors"

var (
	// Request errors
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input")

	// Authorization errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailNotVerified   = errors.New("user email is not verified")
	ErrInvalidCredentials = errors.New("invalid credential pair")
	ErrLoginRejected      = errors.New("incorrect email or password")

	// Resource errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Server errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnexpectedResponse = errors.New("unexpected response")

	// Credential store errors
	ErrUnsupportedStoreType = errors.New("unsupported credential store type")
	ErrNoCachedUser         = errors.New("no cached user")
)
