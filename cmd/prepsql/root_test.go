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

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-prepared-sql/sql"
)

func runRoot(args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootExecute(t *testing.T) {
	require := require.New(t)

	out, err := runRoot(
		"--config", "testdata/catalog.yaml",
		"-e", "PREPARE q AS SELECT id FROM person WHERE age > $1",
		"-e", "EXPLAIN EXECUTE q(40 + 2)",
	)
	require.NoError(err)
	require.Contains(out, "OK: Statement prepared\n")
	require.Contains(out, "Execute: q params=[42]\n")
	require.Contains(out, "Filter((person.age > 42))")
}

func TestRootPreparePolicyFlag(t *testing.T) {
	require := require.New(t)

	_, err := runRoot(
		"--config", "testdata/catalog.yaml",
		"--prepare-policy", "error",
		"-e", "PREPARE q AS SELECT id FROM person",
		"-e", "PREPARE q AS SELECT age FROM person",
	)
	require.Error(err)
	require.True(sql.ErrPreparedStatementExists.Is(err), "unexpected error: %s", err)

	_, err = runRoot("--prepare-policy", "sometimes", "-e", "PREPARE q AS SELECT 1")
	require.Error(err)
}

func TestRootExecuteNotImplemented(t *testing.T) {
	_, err := runRoot(
		"--config", "testdata/catalog.yaml",
		"-e", "PREPARE q AS SELECT id FROM person WHERE age > $1",
		"-e", "EXECUTE q(1)",
	)
	require.Error(t, err)
	require.True(t, sql.ErrNotImplemented.Is(err), "unexpected error: %s", err)
}

func TestRootMissingConfig(t *testing.T) {
	_, err := runRoot("--config", "testdata/nope.yaml", "-e", "PREPARE q AS SELECT 1")
	require.Error(t, err)
}
