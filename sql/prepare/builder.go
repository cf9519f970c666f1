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
	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/plan"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// applySlotTypes returns a copy of the plan with every placeholder typed
// with the type of its slot.
func applySlotTypes(n sql.Node, slots []sql.ParameterSlot) (sql.Node, error) {
	types := make(map[int]sql.Type, len(slots))
	for _, s := range slots {
		types[s.Ordinal] = s.Type
	}

	typed, _, err := transform.NodeExprs(n, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
		p, ok := e.(*expression.Placeholder)
		if !ok {
			return e, transform.SameTree, nil
		}

		t, ok := types[p.Ordinal]
		if !ok || p.Type() == t {
			return e, transform.SameTree, nil
		}
		return p.WithType(t), transform.NewTree, nil
	})
	return typed, err
}

// newTemplate wraps a typed and validated plan into a prepared statement.
func newTemplate(name, query string, n sql.Node, slots []sql.ParameterSlot) (*sql.PreparedStatement, error) {
	fp, err := fingerprint(n)
	if err != nil {
		return nil, err
	}
	return sql.NewPreparedStatement(name, query, slots, n, fp), nil
}

// fingerprint hashes the schema of every table the plan reads or writes.
func fingerprint(n sql.Node) (uint64, error) {
	var tables []sql.Table
	transform.Inspect(n, func(node sql.Node) bool {
		if rt, ok := node.(*plan.ResolvedTable); ok && !plan.IsDualTable(rt) {
			tables = append(tables, rt.Table)
		}
		return true
	})
	return sql.SchemaFingerprint(tables...)
}
