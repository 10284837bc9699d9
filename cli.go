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

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"

	"github.com/wso2/course-app-client/clients/requests"
	"github.com/wso2/course-app-client/middleware/logger"
	"github.com/wso2/course-app-client/models"
	"github.com/wso2/course-app-client/utils"
	"github.com/wso2/course-app-client/wiring"
)

type cliOptions struct {
	cmd         string
	email       string
	password    string
	name        string
	gender      string
	otp         string
	oldPassword string
	newPassword string
	newEmail    string
	avatar      string
	method      string
	path        string
	dataFile    string
}

func registerFlags(fs *flag.FlagSet) *cliOptions {
	o := &cliOptions{}
	fs.StringVar(&o.cmd, "cmd", "me", "command: login, register, verify-otp, send-otp, reset-password, me, whoami, status, "+
		"update-profile, change-password-otp, change-password, change-email-otp, change-email, logout, request, keygen")
	fs.StringVar(&o.email, "email", "", "account email")
	fs.StringVar(&o.password, "password", "", "account password")
	fs.StringVar(&o.name, "name", "", "display name")
	fs.StringVar(&o.gender, "gender", "", "gender")
	fs.StringVar(&o.otp, "otp", "", "one time password received by email")
	fs.StringVar(&o.oldPassword, "old-password", "", "current password")
	fs.StringVar(&o.newPassword, "new-password", "", "new password")
	fs.StringVar(&o.newEmail, "new-email", "", "new email address")
	fs.StringVar(&o.avatar, "avatar", "", "path of an avatar image to upload")
	fs.StringVar(&o.method, "method", http.MethodGet, "HTTP method for -cmd request")
	fs.StringVar(&o.path, "path", "", "API path for -cmd request, relative to API_BASE_URL")
	fs.StringVar(&o.dataFile, "data", "", "JSON or YAML file sent as the body of -cmd request")
	return o
}

type messageOutput struct {
	Message string `json:"message"`
}

type statusOutput struct {
	SignedIn bool `json:"signedIn"`
}

// keyOutput is a value for CREDENTIAL_ENCRYPTION_KEY
type keyOutput struct {
	Key string `json:"key"`
}

type requestOutput struct {
	Status      int             `json:"status"`
	ContentType string          `json:"contentType,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
	Text        string          `json:"text,omitempty"`
}

// runCommand executes one CLI command and returns the value to print
func runCommand(ctx context.Context, deps *wiring.AppParams, o *cliOptions) (any, error) {
	ctx = logger.WithAttrs(logger.WithLogger(ctx, deps.Logger), "cmd", o.cmd, "invocationId", uuid.NewString())
	auth := deps.AuthService
	profile := deps.ProfileService

	switch o.cmd {
	case "login":
		if err := requireFlags(o.email, "-email", o.password, "-password"); err != nil {
			return nil, err
		}
		return auth.Login(ctx, o.email, o.password)
	case "register":
		if err := requireFlags(o.name, "-name", o.email, "-email", o.password, "-password"); err != nil {
			return nil, err
		}
		return message(auth.Register(ctx, models.RegisterRequest{Name: o.name, Email: o.email, Password: o.password, Gender: o.gender}))
	case "verify-otp":
		if err := requireFlags(o.email, "-email", o.otp, "-otp"); err != nil {
			return nil, err
		}
		return message(auth.VerifyOTP(ctx, o.email, o.otp))
	case "send-otp":
		if err := requireFlags(o.email, "-email"); err != nil {
			return nil, err
		}
		return message(auth.SendOTP(ctx, o.email))
	case "reset-password":
		if err := requireFlags(o.email, "-email", o.otp, "-otp", o.newPassword, "-new-password"); err != nil {
			return nil, err
		}
		return message(auth.ResetPassword(ctx, models.ResetPasswordRequest{Email: o.email, OTP: o.otp, NewPassword: o.newPassword}))
	case "me":
		return profile.FetchProfile(ctx)
	case "whoami":
		return profile.CurrentUser(ctx)
	case "status":
		signedIn, err := auth.IsSignedIn(ctx)
		if err != nil {
			return nil, err
		}
		return statusOutput{SignedIn: signedIn}, nil
	case "update-profile":
		if err := requireFlags(o.name, "-name"); err != nil {
			return nil, err
		}
		return profile.UpdateProfile(ctx, models.UpdateProfileRequest{Name: o.name, Gender: o.gender, AvatarPath: o.avatar})
	case "change-password-otp":
		return message(profile.SendChangePasswordOTP(ctx))
	case "change-password":
		if err := requireFlags(o.otp, "-otp", o.oldPassword, "-old-password", o.newPassword, "-new-password"); err != nil {
			return nil, err
		}
		return message(profile.ChangePassword(ctx, o.otp, o.oldPassword, o.newPassword))
	case "change-email-otp":
		return message(profile.SendChangeEmailOTP(ctx))
	case "change-email":
		if err := requireFlags(o.otp, "-otp", o.newEmail, "-new-email"); err != nil {
			return nil, err
		}
		return message(profile.ChangeEmail(ctx, o.otp, o.newEmail))
	case "logout":
		if err := auth.Logout(ctx); err != nil {
			return nil, err
		}
		return messageOutput{Message: "signed out"}, nil
	case "request":
		return sendRaw(ctx, deps, o)
	case "keygen":
		key, err := utils.GenerateEncryptionKey()
		if err != nil {
			return nil, err
		}
		return keyOutput{Key: base64.StdEncoding.EncodeToString(key)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown command %q", utils.ErrInvalidInput, o.cmd)
	}
}

// sendRaw sends an arbitrary request through the authenticated client
func sendRaw(ctx context.Context, deps *wiring.AppParams, o *cliOptions) (*requestOutput, error) {
	if err := requireFlags(o.path, "-path"); err != nil {
		return nil, err
	}
	req := &requests.HttpRequest{
		Name:   "cli.request",
		URL:    o.path,
		Method: strings.ToUpper(o.method),
	}
	if o.dataFile != "" {
		body, err := loadRequestData(o.dataFile)
		if err != nil {
			return nil, err
		}
		req.SetRawBody(body, requests.ContentTypeJSON)
	}

	result := deps.CourseAPIClient.Send(ctx, req)
	if err := result.Err(); err != nil {
		return nil, err
	}
	out := &requestOutput{
		Status:      result.StatusCode(),
		ContentType: result.GetHeader(requests.HeaderContentType),
	}
	if body := result.Body(); json.Valid(body) {
		out.Body = body
	} else {
		out.Text = string(body)
	}
	return out, nil
}

// loadRequestData reads a JSON or YAML file and returns it as JSON
func loadRequestData(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request data: %w", err)
	}
	body, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: request data is neither JSON nor YAML: %w", utils.ErrInvalidInput, err)
	}
	return body, nil
}

// requireFlags checks value/flag pairs and reports every missing flag
func requireFlags(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i] == "" {
			missing = append(missing, pairs[i+1])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", utils.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func message(msg string, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return messageOutput{Message: msg}, nil
}

func writeOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
