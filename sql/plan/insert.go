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
	"fmt"
	"strings"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// Values represents a set of tuples of expressions.
type Values struct {
	ExpressionTuples [][]sql.Expression
	// Target is the schema the values are inserted into, if any.
	Target sql.Schema
}

var _ sql.Expressioner = (*Values)(nil)
var _ sql.ExpectedTyper = (*Values)(nil)

// NewValues creates a Values node with the given tuples.
func NewValues(tuples [][]sql.Expression) *Values {
	return &Values{ExpressionTuples: tuples}
}

// WithTarget returns a copy of the node that inserts into the given schema.
func (p *Values) WithTarget(target sql.Schema) *Values {
	return &Values{ExpressionTuples: p.ExpressionTuples, Target: target}
}

// Schema implements the Node interface.
func (p *Values) Schema() sql.Schema {
	if len(p.Target) > 0 {
		return p.Target
	}

	if len(p.ExpressionTuples) == 0 {
		return nil
	}

	exprs := p.ExpressionTuples[0]
	s := make(sql.Schema, len(exprs))
	for i, e := range exprs {
		s[i] = transform.ExpressionToColumn(e)
	}

	return s
}

// Children implements the Node interface.
func (p *Values) Children() []sql.Node {
	return nil
}

// Resolved implements the Resolvable interface.
func (p *Values) Resolved() bool {
	for _, et := range p.ExpressionTuples {
		if !expressionsResolved(et...) {
			return false
		}
	}

	return true
}

func (p *Values) String() string {
	var sb strings.Builder
	sb.WriteString("Values(")
	for i, tuple := range p.ExpressionTuples {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "(%s)", joinExpressions(tuple))
	}
	sb.WriteString(")")
	return sb.String()
}

// Expressions implements the Expressioner interface.
func (p *Values) Expressions() []sql.Expression {
	var exprs []sql.Expression
	for _, tuple := range p.ExpressionTuples {
		exprs = append(exprs, tuple...)
	}
	return exprs
}

// ExpectedType implements the ExpectedTyper interface. The i-th expression
// is expected to have the type of the column it is inserted into.
func (p *Values) ExpectedType(i int) (sql.Type, bool) {
	width := len(p.Target)
	if width == 0 || i < 0 {
		return nil, false
	}
	return p.Target[i%width].Type, true
}

// WithChildren implements the Node interface.
func (p *Values) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}

	return p, nil
}

// WithExpressions implements the Expressioner interface.
func (p *Values) WithExpressions(exprs ...sql.Expression) (sql.Node, error) {
	var expected int
	for _, t := range p.ExpressionTuples {
		expected += len(t)
	}

	if len(exprs) != expected {
		return nil, sql.ErrInvalidExpressionNumber.New(p, len(exprs), expected)
	}

	var offset int
	var tuples = make([][]sql.Expression, len(p.ExpressionTuples))
	for i, t := range p.ExpressionTuples {
		tuples[i] = exprs[offset : offset+len(t)]
		offset += len(t)
	}

	return &Values{ExpressionTuples: tuples, Target: p.Target}, nil
}

// InsertInto is a node describing the insertion into some table.
type InsertInto struct {
	BinaryNode
	ColumnNames []string
}

// NewInsertInto creates an InsertInto node.
func NewInsertInto(dst, src sql.Node, cols []string) *InsertInto {
	return &InsertInto{
		BinaryNode:  BinaryNode{Left: dst, Right: src},
		ColumnNames: cols,
	}
}

// Destination returns the node the rows are inserted into.
func (p *InsertInto) Destination() sql.Node { return p.Left }

// Source returns the node producing the inserted rows.
func (p *InsertInto) Source() sql.Node { return p.Right }

// Schema implements the Node interface.
func (p *InsertInto) Schema() sql.Schema {
	return sql.OkResultSchema
}

// WithChildren implements the Node interface.
func (p *InsertInto) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 2)
	}

	return NewInsertInto(children[0], children[1], p.ColumnNames), nil
}

func (p InsertInto) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Insert(%s)", strings.Join(p.ColumnNames, ", "))
	_ = pr.WriteChildren(p.Left.String(), p.Right.String())
	return pr.String()
}
