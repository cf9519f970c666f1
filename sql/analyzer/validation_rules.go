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
	"github.com/src-d/go-prepared-sql/sql/plan"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

func validateIsResolved(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("validate_is_resolved")
	defer span.Finish()

	if n.Resolved() {
		return n, transform.SameTree, nil
	}

	var err error
	transform.InspectExpressions(n, func(e sql.Expression) bool {
		if err != nil {
			return false
		}

		switch e := e.(type) {
		case *expression.UnresolvedColumn:
			err = sql.ErrColumnNotFound.New(e.String())
		case *expression.UnresolvedFunction:
			err = sql.ErrFunctionNotFound.New(e.Name())
		case *expression.Star:
			err = ErrInAnalysis.New("* is only allowed in the select list")
		}
		return err == nil
	})

	if err == nil {
		err = ErrInAnalysis.New("plan is not resolved")
	}

	return nil, transform.SameTree, err
}

func validateInsert(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	insert, ok := n.(*plan.InsertInto)
	if !ok {
		return n, transform.SameTree, nil
	}

	if _, ok := insert.Destination().(*plan.ResolvedTable); !ok || plan.IsDualTable(insert.Destination()) {
		return nil, transform.SameTree, ErrInAnalysis.New("can only insert into a table")
	}

	target, err := insertTarget(insert)
	if err != nil {
		return nil, transform.SameTree, err
	}

	if len(insert.Source().Schema()) != len(target) {
		return nil, transform.SameTree, sql.ErrInsertIntoMismatchValueCount.New()
	}

	return n, transform.SameTree, nil
}
