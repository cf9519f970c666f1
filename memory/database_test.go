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

func TestDatabase_Name(t *testing.T) {
	require := require.New(t)
	db := NewDatabase("test")
	require.Equal("test", db.Name())
}

func TestDatabase_AddTable(t *testing.T) {
	require := require.New(t)
	db := NewDatabase("test")
	tables := db.Tables()
	require.Equal(0, len(tables))

	err := db.CreateTable("test_table", nil)
	require.NoError(err)

	tables = db.Tables()
	require.Equal(1, len(tables))
	tt, ok := tables["test_table"]
	require.True(ok)
	require.NotNil(tt)

	err = db.CreateTable("TEST_TABLE", nil)
	require.Error(err)
	require.True(sql.ErrTableAlreadyExists.Is(err))
}

func TestDatabase_DropTable(t *testing.T) {
	require := require.New(t)
	db := NewDatabase("test")
	db.AddTable("b", NewTable("b", nil))
	db.AddTable("a", NewTable("a", nil))
	require.Equal([]string{"a", "b"}, db.TableNames())

	require.NoError(db.DropTable("a"))
	require.Equal([]string{"b"}, db.TableNames())

	err := db.DropTable("a")
	require.True(sql.ErrTableNotFound.Is(err))
}

func TestDatabase_Catalog(t *testing.T) {
	require := require.New(t)
	db := NewDatabase("mydb")
	db.AddTable("person", NewTable("person", sql.Schema{
		{Name: "id", Type: sql.Int32},
	}))

	catalog := sql.NewCatalog()
	catalog.AddDatabase(db)

	table, err := catalog.Table("MYDB", "Person")
	require.NoError(err)
	require.Equal("person", table.Name())
}
