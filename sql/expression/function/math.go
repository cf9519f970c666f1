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

package function

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
)

// AbsVal is a function that takes the absolute value of a number
type AbsVal struct {
	*UnaryFunc
}

var _ sql.FunctionExpression = (*AbsVal)(nil)

// NewAbsVal creates a new AbsVal expression.
func NewAbsVal(e sql.Expression) sql.Expression {
	return &AbsVal{NewUnaryFunc(e, "abs", sql.Float64, sql.Float64)}
}

// Type implements the Expression interface. Integer and decimal arguments
// keep their type.
func (t *AbsVal) Type() sql.Type {
	typ := expression.TypeOf(t.Child)
	if sql.IsNumber(typ) {
		return typ
	}
	return sql.Float64
}

// Eval implements the Expression interface.
func (t *AbsVal) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	val, err := t.Child.Eval(ctx, row)
	if err != nil || val == nil {
		return nil, err
	}

	switch x := val.(type) {
	case int64:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case int32:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case decimal.Decimal:
		return x.Abs(), nil
	}

	f, err := sql.Float64.Convert(val)
	if err != nil {
		return nil, err
	}
	return math.Abs(f.(float64)), nil
}

// WithChildren implements the Expression interface.
func (t *AbsVal) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 1)
	}
	return NewAbsVal(children[0]), nil
}

// Sqrt is a function that returns the square value of the number provided.
type Sqrt struct {
	*UnaryFunc
}

var _ sql.FunctionExpression = (*Sqrt)(nil)

// NewSqrt creates a new Sqrt expression.
func NewSqrt(e sql.Expression) sql.Expression {
	return &Sqrt{NewUnaryFunc(e, "sqrt", sql.Float64, sql.Float64)}
}

// Eval implements the Expression interface.
func (s *Sqrt) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := s.EvalChild(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}
	return math.Sqrt(v.(float64)), nil
}

// WithChildren implements the Expression interface.
func (s *Sqrt) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 1)
	}
	return NewSqrt(children[0]), nil
}

// Power is a function that returns value of X raised to the power of Y.
type Power struct {
	*NaryFunc
}

var _ sql.FunctionExpression = (*Power)(nil)

// NewPower creates a new Power expression.
func NewPower(e1, e2 sql.Expression) sql.Expression {
	return &Power{&NaryFunc{
		Name:     "power",
		Args:     []sql.Expression{e1, e2},
		ArgTypes: []sql.Type{sql.Float64, sql.Float64},
		RetType:  sql.Float64,
	}}
}

// Eval implements the Expression interface.
func (p *Power) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	args, ok, err := p.EvalArgs(ctx, row)
	if err != nil || !ok {
		return nil, err
	}
	return math.Pow(args[0].(float64), args[1].(float64)), nil
}

// WithChildren implements the Expression interface.
func (p *Power) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 2)
	}
	return NewPower(children[0], children[1]), nil
}

// ScalarUDF is a user defined function over DOUBLE values with an exact
// signature.
type ScalarUDF struct {
	*UnaryFunc
	fn func(float64) float64
}

var _ sql.FunctionExpression = (*ScalarUDF)(nil)

// NewScalarUDF returns the constructor of a DOUBLE -> DOUBLE function.
func NewScalarUDF(name string, fn func(float64) float64) func(sql.Expression) sql.Expression {
	return func(e sql.Expression) sql.Expression {
		return &ScalarUDF{NewUnaryFunc(e, name, sql.Float64, sql.Float64), fn}
	}
}

// Eval implements the Expression interface.
func (f *ScalarUDF) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := f.EvalChild(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}
	return f.fn(v.(float64)), nil
}

// WithChildren implements the Expression interface.
func (f *ScalarUDF) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(f, len(children), 1)
	}
	return &ScalarUDF{NewUnaryFunc(children[0], f.Name, sql.Float64, sql.Float64), f.fn}, nil
}
