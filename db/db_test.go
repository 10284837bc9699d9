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

package db

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestOpenSQLite(t *testing.T) {
	t.Run("Logs queries as JSON without bound values", func(t *testing.T) {
		var buf bytes.Buffer
		opts := Options{
			LogQueries: true,
			Logger:     slog.New(slog.NewJSONHandler(&buf, nil)),
		}
		gdb, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "creds.db"), opts)
		require.NoError(t, err)
		t.Cleanup(func() {
			sqlDB, _ := gdb.DB()
			_ = sqlDB.Close()
		})

		require.NoError(t, gdb.Exec("CREATE TABLE kv (v TEXT)").Error)
		require.NoError(t, gdb.Exec("INSERT INTO kv (v) VALUES (?)", "refresh-R1").Error)

		lines := decodeLines(t, &buf)
		require.NotEmpty(t, lines)
		for _, entry := range lines {
			assert.Equal(t, "gorm", entry["component"])
			assert.Equal(t, "SQL executed", entry["msg"])
		}
		assert.NotContains(t, buf.String(), "refresh-R1")
	})

	t.Run("Stays quiet unless queries are slow or fail", func(t *testing.T) {
		var buf bytes.Buffer
		gdb, err := OpenSQLite(filepath.Join(t.TempDir(), "creds.db"), Options{
			Logger: slog.New(slog.NewJSONHandler(&buf, nil)),
		})
		require.NoError(t, err)
		t.Cleanup(func() {
			sqlDB, _ := gdb.DB()
			_ = sqlDB.Close()
		})

		require.NoError(t, gdb.Exec("CREATE TABLE kv (v TEXT)").Error)
		assert.Empty(t, buf.String())

		require.Error(t, gdb.Exec("SELECT * FROM missing").Error)
		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "ERROR", lines[0]["level"])
	})
}
