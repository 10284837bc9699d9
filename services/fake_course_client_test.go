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

package services

import (
	"context"
	"sync"

	courseclient "github.com/wso2/course-app-client/clients/courseapisvc/client"
	"github.com/wso2/course-app-client/clients/requests"
	"github.com/wso2/course-app-client/models"
)

var _ courseclient.CourseAPIClient = (*fakeCourseClient)(nil)

// fakeCourseClient routes every call to an optional function field and
// records the method names it saw.
type fakeCourseClient struct {
	mu    sync.Mutex
	calls []string

	LoginFunc                 func(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	GetCurrentUserFunc        func(ctx context.Context) (*models.User, error)
	UpdateProfileFunc         func(ctx context.Context, userID models.UserID, req models.UpdateProfileRequest) (*models.User, error)
	ChangePasswordFunc        func(ctx context.Context, req models.ChangePasswordRequest) (string, error)
	ChangeEmailFunc           func(ctx context.Context, req models.ChangeEmailRequest) (string, error)
	SendChangePasswordOTPFunc func(ctx context.Context, email string) (string, error)
	SendChangeEmailOTPFunc    func(ctx context.Context, email string) (string, error)
}

func (f *fakeCourseClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeCourseClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCourseClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.record("Login")
	return f.LoginFunc(ctx, req)
}

func (f *fakeCourseClient) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	f.record("Register")
	return "registered", nil
}

func (f *fakeCourseClient) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (string, error) {
	f.record("VerifyOTP")
	return "verified", nil
}

func (f *fakeCourseClient) SendOTP(ctx context.Context, email string) (string, error) {
	f.record("SendOTP")
	return "sent", nil
}

func (f *fakeCourseClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (string, error) {
	f.record("ResetPassword")
	return "reset", nil
}

func (f *fakeCourseClient) GetCurrentUser(ctx context.Context) (*models.User, error) {
	f.record("GetCurrentUser")
	return f.GetCurrentUserFunc(ctx)
}

func (f *fakeCourseClient) UpdateProfile(ctx context.Context, userID models.UserID, req models.UpdateProfileRequest) (*models.User, error) {
	f.record("UpdateProfile")
	return f.UpdateProfileFunc(ctx, userID, req)
}

func (f *fakeCourseClient) SendChangePasswordOTP(ctx context.Context, email string) (string, error) {
	f.record("SendChangePasswordOTP")
	return f.SendChangePasswordOTPFunc(ctx, email)
}

func (f *fakeCourseClient) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error) {
	f.record("ChangePassword")
	return f.ChangePasswordFunc(ctx, req)
}

func (f *fakeCourseClient) SendChangeEmailOTP(ctx context.Context, email string) (string, error) {
	f.record("SendChangeEmailOTP")
	return f.SendChangeEmailOTPFunc(ctx, email)
}

func (f *fakeCourseClient) ChangeEmail(ctx context.Context, req models.ChangeEmailRequest) (string, error) {
	f.record("ChangeEmail")
	return f.ChangeEmailFunc(ctx, req)
}

func (f *fakeCourseClient) Send(ctx context.Context, req *requests.HttpRequest) *requests.Result {
	f.record("Send")
	return requests.NewErrorResult(nil)
}
