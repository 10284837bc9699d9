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

package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wso2/course-app-client/utils"
)

// emailNotVerifiedMessage is how the backend rejects a login for an account
// that has not completed OTP verification.
const emailNotVerifiedMessage = "User email is not verified"

// ErrorContext holds context for API error handling.
type ErrorContext struct {
	UnauthorizedErr error
	NotFoundErr     error
	ConflictErr     error
}

// apiErrorResponse represents the standard API error response structure.
type apiErrorResponse struct {
	Error   *string `json:"error,omitempty"`
	Message *string `json:"message,omitempty"`
	Success *bool   `json:"success,omitempty"`
}

// envelope is the body of every course API response.
type envelope struct {
	Status  int             `json:"status,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// handleErrorResponse converts HTTP status codes and response body to domain errors.
func handleErrorResponse(statusCode int, body []byte, ctx ErrorContext) error {
	errMsg := parseErrorMessage(body)
	if errMsg == emailNotVerifiedMessage {
		return fmt.Errorf("%w: %s", utils.ErrEmailNotVerified, errMsg)
	}

	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", utils.ErrBadRequest, errMsg)
	case http.StatusUnauthorized:
		if ctx.UnauthorizedErr != nil {
			return fmt.Errorf("%w: %s", ctx.UnauthorizedErr, errMsg)
		}
		return fmt.Errorf("%w: %s", utils.ErrUnauthorized, errMsg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", utils.ErrForbidden, errMsg)
	case http.StatusNotFound:
		if ctx.NotFoundErr != nil {
			return fmt.Errorf("%w: %s", ctx.NotFoundErr, errMsg)
		}
		return fmt.Errorf("%w: %s", utils.ErrNotFound, errMsg)
	case http.StatusConflict:
		if ctx.ConflictErr != nil {
			return fmt.Errorf("%w: %s", ctx.ConflictErr, errMsg)
		}
		return fmt.Errorf("%w: %s", utils.ErrConflict, errMsg)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", utils.ErrServiceUnavailable, errMsg)
	default:
		return fmt.Errorf("unexpected status code %d: %s", statusCode, errMsg)
	}
}

// parseErrorMessage extracts error message from API response body.
func parseErrorMessage(body []byte) string {
	if len(body) == 0 {
		return "unknown error"
	}

	var errResp apiErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		if len(body) > 200 {
			return string(body[:200]) + "..."
		}
		return string(body)
	}

	if errResp.Message != nil && *errResp.Message != "" {
		return *errResp.Message
	}
	if errResp.Error != nil && *errResp.Error != "" {
		return *errResp.Error
	}
	return "unknown error"
}

// decodeEnvelope unwraps a 2xx body. A body flagged success=false is an error
// even though the status was 2xx. data may be nil when only the message matters.
func decodeEnvelope(body []byte, data any) (string, error) {
	if len(body) == 0 {
		if data != nil {
			return "", fmt.Errorf("%w: empty response body", utils.ErrUnexpectedResponse)
		}
		return "", nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrUnexpectedResponse, err)
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == emailNotVerifiedMessage {
			return msg, fmt.Errorf("%w: %s", utils.ErrEmailNotVerified, msg)
		}
		if msg == "" {
			msg = "unknown error"
		}
		return msg, fmt.Errorf("%w: %s", utils.ErrBadRequest, msg)
	}

	if data != nil {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return "", fmt.Errorf("%w: response has no data", utils.ErrUnexpectedResponse)
		}
		if err := json.Unmarshal(env.Data, data); err != nil {
			return "", fmt.Errorf("%w: %w", utils.ErrUnexpectedResponse, err)
		}
	}
	return env.Message, nil
}
