// Copyright 2023 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqle_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	sqle "github.com/src-d/go-prepared-sql"
	"github.com/src-d/go-prepared-sql/sql"
)

func TestLoadConfig(t *testing.T) {
	require := require.New(t)

	cfg, err := sqle.LoadConfig("testdata/config.yaml")
	require.NoError(err)
	require.Equal("warn", cfg.LogLevel)
	require.Equal(sql.PrepareError, cfg.PreparePolicy)
	require.Equal(64, cfg.ParseCacheSize)
	require.Equal("shop", cfg.CurrentDatabase)

	dbs, err := cfg.Databases()
	require.NoError(err)
	require.Len(dbs, 1)
	require.Equal("shop", dbs[0].Name())
	require.Equal([]string{"orders", "person"}, dbs[0].TableNames())

	person := dbs[0].Tables()["person"]
	require.Equal(sql.Schema{
		{Name: "id", Type: sql.Int32, Source: "person"},
		{Name: "first_name", Type: sql.Text, Nullable: true, Source: "person"},
		{Name: "salary", Type: sql.Float64, Nullable: true, Source: "person"},
	}, person.Schema())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := sqle.LoadConfig("testdata/nope.yaml")
	require.Error(t, err)
}

func TestParseConfigDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := sqle.ParseConfig([]byte("debug_analyzer: true\n"))
	require.NoError(err)
	require.True(cfg.DebugAnalyzer)
	require.Equal(sql.PrepareOverwrite, cfg.PreparePolicy)
	require.Equal(sqle.DefaultParseCacheSize, cfg.ParseCacheSize)
	require.Empty(cfg.Catalog)
}

func TestParseConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"unknown key", "prepare_polcy: error\n"},
		{"invalid policy", "prepare_policy: ignore\n"},
		{"invalid log level", "log_level: loud\n"},
		{"negative cache size", "parse_cache_size: -1\n"},
		{"unknown column type", "catalog:\n- name: db\n  tables:\n  - name: t\n    columns:\n    - {name: a, type: BLOB}\n"},
		{"database without name", "catalog:\n- tables: []\n"},
		{"table without name", "catalog:\n- name: db\n  tables:\n  - columns: []\n"},
		{"duplicated table", "catalog:\n- name: db\n  tables:\n  - name: t\n  - name: T\n"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sqle.ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	require := require.New(t)
	level := logrus.GetLevel()
	defer logrus.SetLevel(level)

	cfg, err := sqle.LoadConfig("testdata/config.yaml")
	require.NoError(err)

	e, err := sqle.NewFromConfig(cfg)
	require.NoError(err)
	require.Equal(logrus.WarnLevel, logrus.GetLevel())

	ctx := e.NewContext(context.Background())
	require.Equal("shop", ctx.CurrentDatabase())
	require.Equal(sql.PrepareError, ctx.PreparedStatements().Policy())

	stmt, err := e.Prepare(ctx, "PREPARE q AS SELECT id FROM orders WHERE amount > $1 AND person_id = $2")
	require.NoError(err)
	require.Equal(sql.Decimal, stmt.Slots()[0].Type)
	require.Equal(sql.Int32, stmt.Slots()[1].Type)

	_, err = e.Prepare(ctx, "PREPARE q AS SELECT id FROM orders")
	require.True(sql.ErrPreparedStatementExists.Is(err), "unexpected error: %s", err)
}

func TestConfigureLogging(t *testing.T) {
	require := require.New(t)
	level := logrus.GetLevel()
	defer logrus.SetLevel(level)

	require.NoError(sqle.ConfigureLogging("debug"))
	require.Equal(logrus.DebugLevel, logrus.GetLevel())

	require.NoError(sqle.ConfigureLogging(""))
	require.Equal(logrus.DebugLevel, logrus.GetLevel())

	require.Error(sqle.ConfigureLogging("loud"))
}
