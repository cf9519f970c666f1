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
	"sort"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// PathStep is an expression above a placeholder, along with the index of
// the child of Expr the placeholder descends from.
type PathStep struct {
	Expr  sql.Expression
	Index int
}

// Occurrence is a single appearance of a placeholder in a plan.
type Occurrence struct {
	Placeholder *expression.Placeholder
	// Node is the plan node owning the expression.
	Node sql.Node
	// ExprIndex is the index of the top level expression in
	// Node.Expressions() the placeholder belongs to.
	ExprIndex int
	// Path holds the ancestors of the placeholder, nearest first.
	Path []PathStep
}

// Parent returns the expression the placeholder is a direct child of.
func (o Occurrence) Parent() (PathStep, bool) {
	if len(o.Path) == 0 {
		return PathStep{}, false
	}
	return o.Path[0], true
}

// Scan is the result of scanning a plan for placeholders.
type Scan struct {
	// Ordinals are the distinct ordinals referenced, sorted.
	Ordinals    []int
	Occurrences map[int][]Occurrence
}

// ScanPlaceholders collects every placeholder of the plan. The ordinals
// must be dense, starting at 1; a gap is reported as a parameter count
// mismatch of the named statement.
func ScanPlaceholders(name string, n sql.Node) (*Scan, error) {
	scan := &Scan{Occurrences: make(map[int][]Occurrence)}

	transform.Inspect(n, func(node sql.Node) bool {
		exprs, ok := node.(sql.Expressioner)
		if !ok {
			return true
		}

		for i, e := range exprs.Expressions() {
			scanExpression(scan, node, i, e, nil)
		}
		return true
	})

	for ord := range scan.Occurrences {
		scan.Ordinals = append(scan.Ordinals, ord)
	}
	sort.Ints(scan.Ordinals)

	for i, ord := range scan.Ordinals {
		if ord != i+1 {
			return nil, sql.ErrParameterCountMismatch.Wrap(
				sql.ErrParameterOrdinalGap.New(ord, i+1),
				name,
			)
		}
	}

	return scan, nil
}

func scanExpression(scan *Scan, node sql.Node, idx int, e sql.Expression, path []PathStep) {
	if p, ok := e.(*expression.Placeholder); ok {
		nearest := make([]PathStep, len(path))
		for i := range path {
			nearest[i] = path[len(path)-1-i]
		}

		scan.Occurrences[p.Ordinal] = append(scan.Occurrences[p.Ordinal], Occurrence{
			Placeholder: p,
			Node:        node,
			ExprIndex:   idx,
			Path:        nearest,
		})
		return
	}

	for i, child := range e.Children() {
		scanExpression(scan, node, idx, child, append(path[:len(path):len(path)], PathStep{e, i}))
	}
}
