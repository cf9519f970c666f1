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

func resolveFunctions(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("resolve_functions")
	defer span.Finish()

	return transform.NodeExprs(n, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
		return a.resolveFunction(e)
	})
}

func (a *Analyzer) resolveFunction(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
	uf, ok := e.(*expression.UnresolvedFunction)
	if !ok {
		return e, transform.SameTree, nil
	}

	n := uf.Name()
	f, err := a.Catalog.Function(n)
	if err != nil {
		return nil, transform.SameTree, err
	}

	rf, err := f.NewInstance(uf.Arguments)
	if err != nil {
		return nil, transform.SameTree, err
	}

	a.Log("resolved function %q", n)

	return rf, transform.NewTree, nil
}
