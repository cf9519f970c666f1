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
	"math"

	"github.com/shopspring/decimal"

	"github.com/src-d/go-prepared-sql/sql"
)

// Arithmetic operators.
const (
	PlusOp   = "+"
	MinusOp  = "-"
	MultOp   = "*"
	DivOp    = "/"
	IntDivOp = "div"
	ModOp    = "%"
)

// Arithmetic expressions (+, -, *, /, div, %).
type Arithmetic struct {
	BinaryExpression
	Op string
}

// NewArithmetic creates a new Arithmetic sql.Expression.
func NewArithmetic(left, right sql.Expression, op string) *Arithmetic {
	return &Arithmetic{BinaryExpression{Left: left, Right: right}, op}
}

// NewPlus creates a new Arithmetic + sql.Expression.
func NewPlus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, PlusOp)
}

// NewMinus creates a new Arithmetic - sql.Expression.
func NewMinus(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, MinusOp)
}

// NewMult creates a new Arithmetic * sql.Expression.
func NewMult(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, MultOp)
}

// NewDiv creates a new Arithmetic / sql.Expression.
func NewDiv(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, DivOp)
}

// NewIntDiv creates a new Arithmetic div sql.Expression.
func NewIntDiv(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, IntDivOp)
}

// NewMod creates a new Arithmetic % sql.Expression.
func NewMod(left, right sql.Expression) *Arithmetic {
	return NewArithmetic(left, right, ModOp)
}

func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right)
}

// Type returns the greatest type for given operation. An operand of
// unknown type, such as an untyped placeholder, takes the type of the other
// operand.
func (a *Arithmetic) Type() sql.Type {
	l, r := TypeOf(a.Left), TypeOf(a.Right)
	if sql.IsUnknown(l) {
		l = r
	}
	if sql.IsUnknown(r) {
		r = l
	}
	if sql.IsUnknown(l) {
		return sql.Unknown
	}

	switch {
	case a.Op == IntDivOp:
		return sql.Int64
	case sql.IsDecimal(l) || sql.IsDecimal(r):
		return sql.Decimal
	case sql.IsInteger(l) && sql.IsInteger(r):
		if a.Op == DivOp {
			return sql.Float64
		}
		return sql.Int64
	default:
		return sql.Float64
	}
}

// WithChildren implements the Expression interface.
func (a *Arithmetic) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), 2)
	}
	return NewArithmetic(children[0], children[1], a.Op), nil
}

// Eval implements the Expression interface.
func (a *Arithmetic) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	lval, rval, err := a.evalLeftRight(ctx, row)
	if err != nil {
		return nil, err
	}

	if lval == nil || rval == nil {
		return nil, nil
	}

	typ := a.Type()
	if !sql.IsConcrete(typ) {
		typ = sql.Float64
	}

	switch typ {
	case sql.Decimal:
		l, err := sql.Decimal.Convert(lval)
		if err != nil {
			return nil, err
		}
		r, err := sql.Decimal.Convert(rval)
		if err != nil {
			return nil, err
		}
		return a.decimalOp(l.(decimal.Decimal), r.(decimal.Decimal))
	case sql.Float64:
		l, err := sql.Float64.Convert(lval)
		if err != nil {
			return nil, err
		}
		r, err := sql.Float64.Convert(rval)
		if err != nil {
			return nil, err
		}
		return a.floatOp(l.(float64), r.(float64))
	default:
		if a.Op == IntDivOp && (sql.IsFloat(TypeOf(a.Left)) || sql.IsFloat(TypeOf(a.Right))) {
			l, err := sql.Float64.Convert(lval)
			if err != nil {
				return nil, err
			}
			r, err := sql.Float64.Convert(rval)
			if err != nil {
				return nil, err
			}
			if r.(float64) == 0 {
				return nil, sql.ErrDivisionByZero.New()
			}
			return int64(l.(float64) / r.(float64)), nil
		}

		l, err := sql.Int64.Convert(lval)
		if err != nil {
			return nil, err
		}
		r, err := sql.Int64.Convert(rval)
		if err != nil {
			return nil, err
		}
		v, err := a.intOp(l.(int64), r.(int64))
		if err != nil {
			return nil, err
		}
		return typ.Convert(v)
	}
}

func (a *Arithmetic) evalLeftRight(ctx *sql.Context, row sql.Row) (interface{}, interface{}, error) {
	lval, err := a.Left.Eval(ctx, row)
	if err != nil {
		return nil, nil, err
	}

	rval, err := a.Right.Eval(ctx, row)
	if err != nil {
		return nil, nil, err
	}

	return lval, rval, nil
}

func (a *Arithmetic) intOp(l, r int64) (int64, error) {
	switch a.Op {
	case PlusOp:
		return l + r, nil
	case MinusOp:
		return l - r, nil
	case MultOp:
		return l * r, nil
	case IntDivOp:
		if r == 0 {
			return 0, sql.ErrDivisionByZero.New()
		}
		return l / r, nil
	case ModOp:
		if r == 0 {
			return 0, sql.ErrDivisionByZero.New()
		}
		return l % r, nil
	}
	return 0, sql.ErrInvalidType.New(a.Op)
}

func (a *Arithmetic) floatOp(l, r float64) (float64, error) {
	switch a.Op {
	case PlusOp:
		return l + r, nil
	case MinusOp:
		return l - r, nil
	case MultOp:
		return l * r, nil
	case DivOp:
		if r == 0 {
			return 0, sql.ErrDivisionByZero.New()
		}
		return l / r, nil
	case ModOp:
		if r == 0 {
			return 0, sql.ErrDivisionByZero.New()
		}
		return math.Mod(l, r), nil
	}
	return 0, sql.ErrInvalidType.New(a.Op)
}

func (a *Arithmetic) decimalOp(l, r decimal.Decimal) (decimal.Decimal, error) {
	switch a.Op {
	case PlusOp:
		return l.Add(r), nil
	case MinusOp:
		return l.Sub(r), nil
	case MultOp:
		return l.Mul(r), nil
	case DivOp:
		if r.IsZero() {
			return decimal.Zero, sql.ErrDivisionByZero.New()
		}
		return l.Div(r), nil
	case ModOp:
		if r.IsZero() {
			return decimal.Zero, sql.ErrDivisionByZero.New()
		}
		return l.Mod(r), nil
	}
	return decimal.Zero, sql.ErrInvalidType.New(a.Op)
}

// UnaryMinus is an unary minus operator.
type UnaryMinus struct {
	UnaryExpression
}

// NewUnaryMinus creates a new UnaryMinus expression node.
func NewUnaryMinus(child sql.Expression) *UnaryMinus {
	return &UnaryMinus{UnaryExpression{Child: child}}
}

// Eval implements the sql.Expression interface.
func (e *UnaryMinus) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	child, err := e.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	if child == nil {
		return nil, nil
	}

	switch n := child.(type) {
	case float64:
		return -n, nil
	case float32:
		return -n, nil
	case int64:
		return -n, nil
	case int32:
		return -n, nil
	case int:
		return -n, nil
	case decimal.Decimal:
		return n.Neg(), nil
	}

	f, err := sql.Float64.Convert(child)
	if err != nil {
		return nil, err
	}
	return -f.(float64), nil
}

// Type implements the sql.Expression interface.
func (e *UnaryMinus) Type() sql.Type {
	typ := TypeOf(e.Child)
	if sql.IsUnknown(typ) || sql.IsNumber(typ) {
		return typ
	}
	return sql.Float64
}

func (e *UnaryMinus) String() string {
	return fmt.Sprintf("-%s", e.Child)
}

// WithChildren implements the Expression interface.
func (e *UnaryMinus) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1)
	}
	return NewUnaryMinus(children[0]), nil
}
