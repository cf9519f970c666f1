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
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/plan"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// reorderSort moves a Sort below the Project it sorts when none of its
// fields refer to a projected alias, so the sort fields can reference
// columns that are not projected.
func reorderSort(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	return transform.Node(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		s, ok := n.(*plan.Sort)
		if !ok {
			return n, transform.SameTree, nil
		}

		p, ok := s.Child.(*plan.Project)
		if !ok {
			return n, transform.SameTree, nil
		}

		aliases := make(map[string]struct{})
		for _, e := range p.Projections {
			if alias, ok := e.(*expression.Alias); ok {
				aliases[strings.ToLower(alias.Name())] = struct{}{}
			}
		}

		for _, f := range s.SortFields {
			var usesAlias bool
			transform.InspectUp(f.Column, func(e sql.Expression) bool {
				if uc, ok := e.(*expression.UnresolvedColumn); ok && uc.Table() == "" {
					if _, ok := aliases[strings.ToLower(uc.Name())]; ok {
						usesAlias = true
					}
				}
				return !usesAlias
			})

			if usesAlias {
				return n, transform.SameTree, nil
			}
		}

		a.Log("moving sort below projection")
		return plan.NewProject(p.Projections, plan.NewSort(s.SortFields, p.Child)), transform.NewTree, nil
	})
}

func resolveStar(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("resolve_star")
	defer span.Finish()

	return transform.Node(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		p, ok := n.(*plan.Project)
		if !ok || !p.Child.Resolved() {
			return n, transform.SameTree, nil
		}

		var hasStar bool
		for _, e := range p.Projections {
			if _, ok := e.(*expression.Star); ok {
				hasStar = true
			}
		}

		if !hasStar {
			return n, transform.SameTree, nil
		}

		expressions, err := expandStars(p.Projections, p.Child.Schema())
		if err != nil {
			return nil, transform.SameTree, err
		}

		return plan.NewProject(expressions, p.Child), transform.NewTree, nil
	})
}

func expandStars(exprs []sql.Expression, schema sql.Schema) ([]sql.Expression, error) {
	var expressions []sql.Expression
	for _, e := range exprs {
		if s, ok := e.(*expression.Star); ok {
			var exprs []sql.Expression
			for i, col := range schema {
				if s.Table == "" || strings.EqualFold(s.Table, col.Source) {
					exprs = append(exprs, expression.NewGetFieldWithTable(
						i, col.Type, col.Source, col.Name, col.Nullable,
					))
				}
			}

			if len(exprs) == 0 && s.Table != "" {
				return nil, sql.ErrTableNotFound.New(s.Table)
			}

			expressions = append(expressions, exprs...)
		} else {
			expressions = append(expressions, e)
		}
	}

	return expressions, nil
}

func resolveColumns(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, transform.TreeIdentity, error) {
	span, ctx := ctx.Span("resolve_columns")
	defer span.Finish()

	return transform.Node(n, func(n sql.Node) (sql.Node, transform.TreeIdentity, error) {
		if n.Resolved() {
			return n, transform.SameTree, nil
		}

		if _, ok := n.(sql.Expressioner); !ok {
			return n, transform.SameTree, nil
		}

		var schema sql.Schema
		for _, child := range n.Children() {
			if !child.Resolved() {
				return n, transform.SameTree, nil
			}
			schema = append(schema, child.Schema()...)
		}

		return transform.OneNodeExpressions(n, func(e sql.Expression) (sql.Expression, transform.TreeIdentity, error) {
			uc, ok := e.(*expression.UnresolvedColumn)
			if !ok {
				return e, transform.SameTree, nil
			}

			gf, err := resolveColumn(schema, uc)
			if err != nil {
				return nil, transform.SameTree, err
			}

			a.Log("column resolved to %q.%q", gf.Table(), gf.Name())
			return gf, transform.NewTree, nil
		})
	})
}

// resolveColumn finds the column in the given schema and returns the field
// reading it. The schema may be empty, in which case no column resolves.
func resolveColumn(schema sql.Schema, uc *expression.UnresolvedColumn) (*expression.GetField, error) {
	var idx = -1
	var sources []string
	for i, col := range schema {
		if !strings.EqualFold(col.Name, uc.Name()) {
			continue
		}

		if uc.Table() != "" && !strings.EqualFold(col.Source, uc.Table()) {
			continue
		}

		idx = i
		sources = append(sources, col.Source)
	}

	switch {
	case len(sources) > 1:
		return nil, sql.ErrAmbiguousColumnName.New(uc.Name(), strings.Join(sources, ", "))
	case idx < 0 && uc.Table() != "" && schemaHasSource(schema, uc.Table()):
		return nil, sql.ErrTableColumnNotFound.New(uc.Table(), uc.Name())
	case idx < 0:
		return nil, sql.ErrColumnNotFound.New(uc.String())
	}

	col := schema[idx]
	return expression.NewGetFieldWithTable(idx, col.Type, col.Source, col.Name, col.Nullable), nil
}

func schemaHasSource(schema sql.Schema, source string) bool {
	for _, col := range schema {
		if strings.EqualFold(col.Source, source) {
			return true
		}
	}
	return false
}
