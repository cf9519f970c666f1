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
)

// Limit is a node that only allows up to N rows to be retrieved.
type Limit struct {
	UnaryNode
	Limit sql.Expression
}

var _ sql.Expressioner = (*Limit)(nil)
var _ sql.ExpectedTyper = (*Limit)(nil)

// NewLimit creates a new Limit node with the given size.
func NewLimit(size sql.Expression, child sql.Node) *Limit {
	return &Limit{
		UnaryNode: UnaryNode{Child: child},
		Limit:     size,
	}
}

// Resolved implements the Resolvable interface.
func (l *Limit) Resolved() bool {
	return l.UnaryNode.Child.Resolved() && l.Limit.Resolved()
}

// Expressions implements the Expressioner interface.
func (l *Limit) Expressions() []sql.Expression {
	return []sql.Expression{l.Limit}
}

// WithExpressions implements the Expressioner interface.
func (l *Limit) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidExpressionNumber.New(l, len(exprs), 1)
	}
	return NewLimit(exprs[0], l.Child), nil
}

// ExpectedType implements the ExpectedTyper interface.
func (l *Limit) ExpectedType(i int) (sql.Type, bool) {
	return sql.Int64, i == 0
}

// WithChildren implements the Node interface.
func (l *Limit) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 1)
	}

	return NewLimit(l.Limit, children[0]), nil
}

func (l Limit) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Limit(%s)", l.Limit)
	_ = pr.WriteChildren(l.Child.String())
	return pr.String()
}

// Offset is a node that skips the first N rows.
type Offset struct {
	UnaryNode
	Offset sql.Expression
}

var _ sql.Expressioner = (*Offset)(nil)
var _ sql.ExpectedTyper = (*Offset)(nil)

// NewOffset creates a new Offset node.
func NewOffset(n sql.Expression, child sql.Node) *Offset {
	return &Offset{
		UnaryNode: UnaryNode{Child: child},
		Offset:    n,
	}
}

// Resolved implements the Resolvable interface.
func (o *Offset) Resolved() bool {
	return o.Child.Resolved() && o.Offset.Resolved()
}

// Expressions implements the Expressioner interface.
func (o *Offset) Expressions() []sql.Expression {
	return []sql.Expression{o.Offset}
}

// WithExpressions implements the Expressioner interface.
func (o *Offset) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	if len(exprs) != 1 {
		return nil, sql.ErrInvalidExpressionNumber.New(o, len(exprs), 1)
	}
	return NewOffset(exprs[0], o.Child), nil
}

// ExpectedType implements the ExpectedTyper interface.
func (o *Offset) ExpectedType(i int) (sql.Type, bool) {
	return sql.Int64, i == 0
}

// WithChildren implements the Node interface.
func (o *Offset) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(o, len(children), 1)
	}
	return NewOffset(o.Offset, children[0]), nil
}

func (o Offset) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Offset(%s)", o.Offset)
	_ = pr.WriteChildren(o.Child.String())
	return pr.String()
}
