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

package transform

import (
	"github.com/src-d/go-prepared-sql/sql"
)

// Inspect performs a pre-order traversal of the sql.Node tree;
// First, it does f(node) and if cont = true, then Inspect is recursively called on node's children.
func Inspect(node sql.Node, f func(sql.Node) bool) (cont bool) {
	if !f(node) {
		return false
	}

	for _, child := range node.Children() {
		if !Inspect(child, f) {
			return false
		}
	}
	return true
}

// InspectUp performs a pre-order traversal of the expression tree, calling f
// on every expression. The traversal of a subtree stops when f returns
// false.
func InspectUp(e sql.Expression, f func(sql.Expression) bool) {
	if !f(e) {
		return
	}
	for _, child := range e.Children() {
		InspectUp(child, f)
	}
}

// InspectExpressions traverses the plan and calls f on every expression it
// finds, descending into the children of each expression while f returns
// true.
func InspectExpressions(node sql.Node, f func(sql.Expression) bool) {
	InspectExpressionsWithNode(node, func(_ sql.Node, e sql.Expression) bool {
		return f(e)
	})
}

// InspectExpressionsWithNode traverses the plan and calls f on every
// expression it finds along with the node owning it.
func InspectExpressionsWithNode(node sql.Node, f func(sql.Node, sql.Expression) bool) {
	Inspect(node, func(n sql.Node) bool {
		if e, ok := n.(sql.Expressioner); ok {
			for _, expr := range e.Expressions() {
				InspectUp(expr, func(e sql.Expression) bool {
					return f(n, e)
				})
			}
		}
		return true
	})
}
