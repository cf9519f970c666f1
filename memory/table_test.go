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

package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-prepared-sql/sql"
)

func TestTable(t *testing.T) {
	require := require.New(t)

	schema := sql.Schema{
		{Name: "id", Type: sql.Int32},
		{Name: "name", Type: sql.Text, Nullable: true},
		{Name: "other", Type: sql.Text, Source: "elsewhere"},
	}
	table := NewTable("person", schema)

	require.Equal("person", table.Name())
	require.Len(table.Schema(), 3)
	require.Equal("person", table.Schema()[0].Source)
	require.Equal("person", table.Schema()[1].Source)
	require.Equal("elsewhere", table.Schema()[2].Source)
	require.Equal("", schema[0].Source, "the given schema is not modified")

	require.Equal("person(id INT NOT NULL, name TEXT, other TEXT NOT NULL)", table.String())
}
