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
	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// ResolveArgument resolves a standalone expression, such as an argument of
// EXECUTE, against an empty scope. Functions are resolved with the catalog;
// any column reference fails because there is no table to read it from.
func (a *Analyzer) ResolveArgument(ctx *sql.Context, e sql.Expression) (sql.Expression, error) {
	span, _ := ctx.Span("resolve_argument")
	defer span.Finish()

	resolved, _, err := transform.Expr(e, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
		switch e := e.(type) {
		case *expression.UnresolvedColumn:
			_, err := resolveColumn(nil, e)
			return nil, transform.SameTree, err
		case *expression.Star:
			return nil, transform.SameTree, ErrInAnalysis.New("* is only allowed in the select list")
		case *expression.UnresolvedFunction:
			return a.resolveFunction(e)
		default:
			return e, transform.SameTree, nil
		}
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}
