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

package plan

import (
	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// ApplyBindings replaces all Placeholder expressions in the given sql.Node
// with their corresponding sql.Expression entries in the provided bindings
// map, keyed by ordinal. If a binding for a placeholder is not found in the
// map, no error is returned and the placeholder is left in place. The given
// node is never modified.
func ApplyBindings(n sql.Node, bindings map[int]sql.Expression) (sql.Node, error) {
	n, _, err := transform.NodeExprs(n, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
		p, ok := e.(*expression.Placeholder)
		if !ok {
			return e, transform.SameTree, nil
		}

		val, found := bindings[p.Ordinal]
		if !found {
			return e, transform.SameTree, nil
		}
		return val, transform.NewTree, nil
	})
	return n, err
}

// Placeholders returns every placeholder in the plan, in traversal order.
// The same ordinal may appear several times.
func Placeholders(n sql.Node) []*expression.Placeholder {
	var result []*expression.Placeholder
	transform.InspectExpressions(n, func(e sql.Expression) bool {
		if p, ok := e.(*expression.Placeholder); ok {
			result = append(result, p)
		}
		return true
	})
	return result
}

// HasPlaceholders returns whether there is any placeholder in the plan.
func HasPlaceholders(n sql.Node) bool {
	return len(Placeholders(n)) > 0
}
