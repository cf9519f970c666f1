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

package prepare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-prepared-sql/memory"
	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/analyzer"
	"github.com/src-d/go-prepared-sql/sql/expression/function"
	"github.com/src-d/go-prepared-sql/sql/parse"
	"github.com/src-d/go-prepared-sql/sql/plan"
)

func newTestAnalyzer() *analyzer.Analyzer {
	db := memory.NewDatabase("mydb")
	db.AddTable("person", memory.NewTable("person", sql.Schema{
		{Name: "id", Type: sql.Int32},
		{Name: "first_name", Type: sql.Text, Nullable: true},
		{Name: "last_name", Type: sql.Text, Nullable: true},
		{Name: "age", Type: sql.Int32, Nullable: true},
		{Name: "salary", Type: sql.Float64, Nullable: true},
	}))
	db.AddTable("orders", memory.NewTable("orders", sql.Schema{
		{Name: "id", Type: sql.Int64},
		{Name: "person_id", Type: sql.Int32},
		{Name: "amount", Type: sql.Decimal, Nullable: true},
	}))

	catalog := sql.NewCatalog()
	catalog.AddDatabase(db)
	catalog.Register(function.Defaults...)
	return analyzer.NewDefault(catalog)
}

func newTestContext() *sql.Context {
	session := sql.NewBaseSession()
	session.SetCurrentDatabase("mydb")
	return sql.NewContext(context.Background(), sql.WithSession(session))
}

func compileQuery(t *testing.T, query string) (*sql.PreparedStatement, error) {
	t.Helper()
	ctx := newTestContext()

	node, err := parse.Parse(ctx, query)
	require.NoError(t, err)
	p, ok := node.(*plan.PrepareQuery)
	require.True(t, ok, "%s is not a PREPARE", query)

	return Compile(ctx, newTestAnalyzer(), p)
}

func parseArgs(t *testing.T, execute string) []sql.Expression {
	t.Helper()
	node, err := parse.Parse(newTestContext(), execute)
	require.NoError(t, err)
	e, ok := node.(*plan.ExecuteQuery)
	require.True(t, ok, "%s is not an EXECUTE", execute)
	return e.Args
}

func slotTypes(stmt *sql.PreparedStatement) []sql.Type {
	var types []sql.Type
	for _, s := range stmt.Slots() {
		types = append(types, s.Type)
	}
	return types
}
