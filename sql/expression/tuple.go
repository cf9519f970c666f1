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

package expression

import (
	"fmt"
	"strings"

	"github.com/src-d/go-prepared-sql/sql"
)

// Tuple is a fixed-size collection of expressions.
// A tuple of size 1 is treated as the expression itself.
type Tuple []sql.Expression

// NewTuple creates a new Tuple expression.
func NewTuple(exprs ...sql.Expression) Tuple {
	return Tuple(exprs)
}

// Eval implements the Expression interface.
func (t Tuple) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	if len(t) == 1 {
		return t[0].Eval(ctx, row)
	}

	var result = make([]interface{}, len(t))
	for i, e := range t {
		v, err := e.Eval(ctx, row)
		if err != nil {
			return nil, err
		}

		result[i] = v
	}

	return result, nil
}

// IsNullable implements the Expression interface.
func (t Tuple) IsNullable() bool {
	if len(t) == 1 {
		return t[0].IsNullable()
	}

	return false
}

func (t Tuple) String() string {
	var exprs = make([]string, len(t))
	for i, e := range t {
		exprs[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(exprs, ", "))
}

// Resolved implements the Expression interface.
func (t Tuple) Resolved() bool {
	for _, e := range t {
		if !e.Resolved() {
			return false
		}
	}

	return true
}

// Type implements the Expression interface.
func (t Tuple) Type() sql.Type {
	if len(t) == 1 {
		return t[0].Type()
	}

	return sql.Unknown
}

// Children implements the Expression interface.
func (t Tuple) Children() []sql.Expression {
	return t
}

// WithChildren implements the Expression interface.
func (t Tuple) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != len(t) {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), len(t))
	}
	return NewTuple(children...), nil
}

// InTuple is an expression that checks an expression is inside a list of
// expressions.
type InTuple struct {
	BinaryExpression
	negated bool
}

// NewInTuple creates an InTuple expression.
func NewInTuple(left sql.Expression, right Tuple) *InTuple {
	return &InTuple{BinaryExpression: BinaryExpression{left, right}}
}

// NewNotInTuple creates a negated InTuple expression.
func NewNotInTuple(left sql.Expression, right Tuple) *InTuple {
	return &InTuple{BinaryExpression{left, right}, true}
}

// Negated returns whether this is a NOT IN expression.
func (in *InTuple) Negated() bool { return in.negated }

// Type implements the Expression interface.
func (*InTuple) Type() sql.Type {
	return sql.Boolean
}

// Eval implements the Expression interface.
func (in *InTuple) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	left, err := in.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, nil
	}

	right, ok := in.Right.(Tuple)
	if !ok {
		return nil, sql.ErrInvalidType.New(fmt.Sprintf("%T", in.Right))
	}

	typ := TypeOf(in.Left)
	for _, el := range right {
		typ = ComparisonType(typ, TypeOf(el))
	}
	if !sql.IsConcrete(typ) {
		typ = sql.ValueType(left)
	}

	var sawNull bool
	for _, el := range right {
		v, err := el.Eval(ctx, row)
		if err != nil {
			return nil, err
		}
		if v == nil {
			sawNull = true
			continue
		}

		cmp, err := typ.Compare(left, v)
		if err != nil {
			return nil, err
		}
		if cmp == 0 {
			return !in.negated, nil
		}
	}

	if sawNull {
		return nil, nil
	}
	return in.negated, nil
}

// WithChildren implements the Expression interface.
func (in *InTuple) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(in, len(children), 2)
	}
	right, ok := children[1].(Tuple)
	if !ok {
		right = NewTuple(children[1])
	}
	return &InTuple{BinaryExpression{children[0], right}, in.negated}, nil
}

func (in *InTuple) String() string {
	if in.negated {
		return fmt.Sprintf("(%s NOT IN %s)", in.Left, in.Right)
	}
	return fmt.Sprintf("(%s IN %s)", in.Left, in.Right)
}

// Between checks a value is between two given values.
type Between struct {
	Val   sql.Expression
	Lower sql.Expression
	Upper sql.Expression
}

// NewBetween creates a new Between expression.
func NewBetween(val, lower, upper sql.Expression) *Between {
	return &Between{val, lower, upper}
}

func (b *Between) String() string {
	return fmt.Sprintf("(%s BETWEEN %s AND %s)", b.Val, b.Lower, b.Upper)
}

// Children implements the Expression interface.
func (b *Between) Children() []sql.Expression {
	return []sql.Expression{b.Val, b.Lower, b.Upper}
}

// Type implements the Expression interface.
func (*Between) Type() sql.Type { return sql.Boolean }

// IsNullable implements the Expression interface.
func (b *Between) IsNullable() bool {
	return b.Val.IsNullable() || b.Lower.IsNullable() || b.Upper.IsNullable()
}

// Resolved implements the Expression interface.
func (b *Between) Resolved() bool {
	return b.Val.Resolved() && b.Lower.Resolved() && b.Upper.Resolved()
}

// Eval implements the Expression interface.
func (b *Between) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lower, err := NewComparison(GreaterOrEqualOp, b.Val, b.Lower).Eval(ctx, row)
	if err != nil || lower == nil {
		return nil, err
	}
	upper, err := NewComparison(LessOrEqualOp, b.Val, b.Upper).Eval(ctx, row)
	if err != nil || upper == nil {
		return nil, err
	}
	return lower.(bool) && upper.(bool), nil
}

// WithChildren implements the Expression interface.
func (b *Between) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 3 {
		return nil, sql.ErrInvalidChildrenNumber.New(b, len(children), 3)
	}
	return NewBetween(children[0], children[1], children[2]), nil
}
