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

package analyzer

import (
	"strings"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/plan"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

func resolveTables(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("resolve_tables")
	defer span.Finish()

	return transform.Node(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		t, ok := n.(*plan.UnresolvedTable)
		if !ok {
			return n, transform.SameTree, nil
		}

		if t.Database == "" && strings.EqualFold(t.Name(), plan.DualTableName) {
			return plan.NewResolvedDualTable(), transform.NewTree, nil
		}

		rt, err := a.findTable(ctx, t.Database, t.Name())
		if err != nil {
			return nil, transform.SameTree, err
		}

		a.Log("table resolved: %q", rt.Name())

		return plan.NewResolvedTable(rt), transform.NewTree, nil
	})
}

// findTable looks for the table in the given database, or in the current
// database of the session when none is given. Without a current database
// the table name must be unique in the catalog.
func (a *Analyzer) findTable(ctx *sql.Context, db, name string) (sql.Table, error) {
	if db == "" {
		db = ctx.CurrentDatabase()
	}

	if db != "" {
		return a.Catalog.Table(db, name)
	}

	var found []sql.Table
	for _, d := range a.Catalog.AllDatabases() {
		if t, err := a.Catalog.Table(d.Name(), name); err == nil {
			found = append(found, t)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, sql.ErrTableNotFound.New(name)
	default:
		return nil, ErrInAnalysis.New("table " + name + " is present in more than one database, qualify it")
	}
}
