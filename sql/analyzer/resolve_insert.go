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

// resolveInsert gives the VALUES of an INSERT the schema of the columns they
// are inserted into.
func resolveInsert(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	return transform.Node(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		insert, ok := n.(*plan.InsertInto)
		if !ok || !insert.Destination().Resolved() {
			return n, transform.SameTree, nil
		}

		values, ok := insert.Source().(*plan.Values)
		if !ok || len(values.Target) > 0 {
			return n, transform.SameTree, nil
		}

		target, err := insertTarget(insert)
		if err != nil {
			return nil, transform.SameTree, err
		}

		for _, tuple := range values.ExpressionTuples {
			if len(tuple) != len(target) {
				return nil, transform.SameTree, sql.ErrInsertIntoMismatchValueCount.New()
			}
		}

		return plan.NewInsertInto(insert.Destination(), values.WithTarget(target), insert.ColumnNames), transform.NewTree, nil
	})
}

func insertTarget(insert *plan.InsertInto) (sql.Schema, error) {
	schema := insert.Destination().Schema()
	if len(insert.ColumnNames) == 0 {
		return schema, nil
	}

	target := make(sql.Schema, len(insert.ColumnNames))
	for i, name := range insert.ColumnNames {
		var col *sql.Column
		for _, c := range schema {
			if strings.EqualFold(c.Name, name) {
				col = c
				break
			}
		}

		if col == nil {
			return nil, sql.ErrTableColumnNotFound.New(tableName(insert.Destination()), name)
		}
		target[i] = col
	}

	return target, nil
}

func tableName(n sql.Node) string {
	if nameable, ok := n.(sql.Nameable); ok {
		return nameable.Name()
	}
	return n.String()
}
