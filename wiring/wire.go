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

//go:build wireinject
// +build wireinject

package wiring

import (
	"context"

	"github.com/google/wire"

	"github.com/wso2/course-app-client/config"
	"github.com/wso2/course-app-client/services"
)

var configProviderSet = wire.NewSet(
	ProvideConfigFromPtr,
	ProvideStoreConfig,
)

var storeProviderSet = wire.NewSet(
	ProvideCredentialStore,
	ProvideSessionStore,
)

var clientProviderSet = wire.NewSet(
	ProvideHTTPClient,
	ProvideSessionExpiredHook,
	ProvideAuthClient,
	ProvideCourseAPIClient,
)

var serviceProviderSet = wire.NewSet(
	services.NewAuthService,
	services.NewProfileService,
)

var loggerProviderSet = wire.NewSet(
	ProvideLogger,
)

func InitializeAppParams(ctx context.Context, cfg *config.Config) (*AppParams, func(), error) {
	wire.Build(
		configProviderSet,
		storeProviderSet,
		clientProviderSet,
		loggerProviderSet,
		serviceProviderSet,
		wire.Struct(new(AppParams), "*"),
	)
	return &AppParams{}, nil, nil
}
