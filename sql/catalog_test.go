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

package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testTable struct {
	name   string
	schema Schema
}

func (t *testTable) Name() string   { return t.name }
func (t *testTable) String() string { return t.name }
func (t *testTable) Schema() Schema { return t.schema }

type testDatabase struct {
	name   string
	tables map[string]Table
}

func (d *testDatabase) Name() string              { return d.name }
func (d *testDatabase) Tables() map[string]Table { return d.tables }

func TestCatalogDatabase(t *testing.T) {
	require := require.New(t)

	c := NewCatalog()
	_, err := c.Database("mydb")
	require.True(ErrDatabaseNotFound.Is(err))

	db := &testDatabase{name: "MyDB"}
	c.AddDatabase(db)
	found, err := c.Database("mydb")
	require.NoError(err)
	require.Same(db, found)

	replacement := &testDatabase{name: "mydb"}
	c.AddDatabase(replacement)
	require.Len(c.AllDatabases(), 1)
	found, err = c.Database("MYDB")
	require.NoError(err)
	require.Same(replacement, found)
}

func TestCatalogTable(t *testing.T) {
	require := require.New(t)

	person := &testTable{name: "Person"}
	c := NewCatalog()
	c.AddDatabase(&testDatabase{name: "mydb", tables: map[string]Table{"Person": person}})

	found, err := c.Table("mydb", "Person")
	require.NoError(err)
	require.Same(person, found)

	found, err = c.Table("mydb", "person")
	require.NoError(err)
	require.Same(person, found)

	_, err = c.Table("mydb", "pets")
	require.True(ErrTableNotFound.Is(err))

	_, err = c.Table("other", "person")
	require.True(ErrDatabaseNotFound.Is(err))
}

func TestFunctionRegistry(t *testing.T) {
	require := require.New(t)

	r := NewFunctionRegistry()
	r.Register(
		Function0{Name: "Zero", Fn: func() Expression { return nil }},
		Function1{Name: "one", Fn: func(Expression) Expression { return nil }},
		Function2{Name: "two", Fn: func(_, _ Expression) Expression { return nil }},
		FunctionN{Name: "many", Fn: func(...Expression) (Expression, error) { return nil, nil }},
	)
	require.Equal([]string{"many", "one", "two", "zero"}, r.FunctionNames())

	fn, err := r.Function("ZERO")
	require.NoError(err)
	require.Equal("Zero", fn.FunctionName())

	_, err = r.Function("nope")
	require.True(ErrFunctionNotFound.Is(err))

	one, err := r.Function("one")
	require.NoError(err)
	_, err = one.NewInstance(nil)
	require.True(ErrInvalidArgumentNumber.Is(err))

	two, err := r.Function("two")
	require.NoError(err)
	_, err = two.NewInstance(make([]Expression, 3))
	require.True(ErrInvalidArgumentNumber.Is(err))
	_, err = two.NewInstance(make([]Expression, 2))
	require.NoError(err)
}
