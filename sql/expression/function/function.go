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
	"fmt"
	"strings"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
)

// UnaryFunc is the base of the functions taking a single argument of a
// known type.
type UnaryFunc struct {
	expression.UnaryExpression
	// Name is the name of the function
	Name string
	// The type returned by the function
	RetType sql.Type
	// The type expected for the argument
	ArgType sql.Type
}

// NewUnaryFunc returns a UnaryFunc applied to arg.
func NewUnaryFunc(arg sql.Expression, name string, argType, retType sql.Type) *UnaryFunc {
	return &UnaryFunc{
		UnaryExpression: expression.UnaryExpression{Child: arg},
		Name:            name,
		RetType:         retType,
		ArgType:         argType,
	}
}

// FunctionName implements sql.FunctionExpression
func (uf *UnaryFunc) FunctionName() string {
	return uf.Name
}

// ExpectedType implements sql.ExpectedTyper.
func (uf *UnaryFunc) ExpectedType(i int) (sql.Type, bool) {
	if i != 0 || uf.ArgType == nil {
		return nil, false
	}
	return uf.ArgType, true
}

// EvalChild evaluates the argument and converts it to the argument type.
func (uf *UnaryFunc) EvalChild(ctx *sql.Context, row sql.Row) (interface{}, error) {
	val, err := uf.Child.Eval(ctx, row)
	if err != nil || val == nil {
		return nil, err
	}

	if uf.ArgType == nil {
		return val, nil
	}
	return uf.ArgType.Convert(val)
}

// String implements the fmt.Stringer interface.
func (uf *UnaryFunc) String() string {
	return fmt.Sprintf("%s(%s)", strings.ToUpper(uf.Name), uf.Child.String())
}

// Type implements the Expression interface.
func (uf *UnaryFunc) Type() sql.Type {
	return uf.RetType
}

// NaryFunc is the base of the functions taking several arguments.
type NaryFunc struct {
	Name     string
	Args     []sql.Expression
	ArgTypes []sql.Type
	// Variadic repeats the last argument type for any further argument.
	Variadic bool
	RetType  sql.Type
}

// FunctionName implements sql.FunctionExpression
func (nf *NaryFunc) FunctionName() string {
	return nf.Name
}

// ExpectedType implements sql.ExpectedTyper.
func (nf *NaryFunc) ExpectedType(i int) (sql.Type, bool) {
	switch {
	case i < 0:
		return nil, false
	case i < len(nf.ArgTypes):
		return nf.ArgTypes[i], true
	case nf.Variadic && len(nf.ArgTypes) > 0:
		return nf.ArgTypes[len(nf.ArgTypes)-1], true
	}
	return nil, false
}

// Children implements the Expression interface.
func (nf *NaryFunc) Children() []sql.Expression {
	return nf.Args
}

// Resolved implements the Expression interface.
func (nf *NaryFunc) Resolved() bool {
	for _, arg := range nf.Args {
		if !arg.Resolved() {
			return false
		}
	}
	return true
}

// IsNullable implements the Expression interface.
func (nf *NaryFunc) IsNullable() bool {
	for _, arg := range nf.Args {
		if arg.IsNullable() {
			return true
		}
	}
	return false
}

// Type implements the Expression interface.
func (nf *NaryFunc) Type() sql.Type {
	return nf.RetType
}

// EvalArgs evaluates every argument converting it to its argument type.
// ok is false when any of the arguments is NULL.
func (nf *NaryFunc) EvalArgs(ctx *sql.Context, row sql.Row) (args []interface{}, ok bool, err error) {
	args = make([]interface{}, len(nf.Args))
	for i, arg := range nf.Args {
		v, err := arg.Eval(ctx, row)
		if err != nil {
			return nil, false, err
		}
		if v == nil {
			return nil, false, nil
		}

		if t, ok := nf.ExpectedType(i); ok {
			v, err = t.Convert(v)
			if err != nil {
				return nil, false, err
			}
		}
		args[i] = v
	}
	return args, true, nil
}

func (nf *NaryFunc) String() string {
	args := make([]string, len(nf.Args))
	for i, arg := range nf.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(nf.Name), strings.Join(args, ", "))
}
