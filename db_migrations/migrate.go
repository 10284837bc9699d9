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

package dbmigrations

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

type migration struct {
	ID       int
	Migrate  func(db *gorm.DB) error
	Rollback func(db *gorm.DB) error
}

// migrations are applied in ID order
var migrations = []migration{
	migration001,
	migration002,
}

// Migrate brings the credential schema up to date
func Migrate(db *gorm.DB) error {
	steps := make([]*gormigrate.Migration, 0, len(migrations))
	for _, m := range migrations {
		steps = append(steps, &gormigrate.Migration{
			ID:       fmt.Sprintf("%03d", m.ID),
			Migrate:  m.Migrate,
			Rollback: m.Rollback,
		})
	}
	m := gormigrate.New(db, &gormigrate.Options{
		TableName:                 "schema_migrations",
		IDColumnName:              "id",
		IDColumnSize:              16,
		UseTransaction:            false,
		ValidateUnknownMigrations: true,
	}, steps)
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate credential schema: %w", err)
	}
	slog.Debug("credential schema migrated", "latest", strconv.Itoa(migrations[len(migrations)-1].ID))
	return nil
}
