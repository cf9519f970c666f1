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
	"github.com/src-d/go-prepared-sql/sql"
)

// IsNull is an expression that checks if an expression is null.
type IsNull struct {
	UnaryExpression
}

// NewIsNull creates a new IsNull expression.
func NewIsNull(child sql.Expression) *IsNull {
	return &IsNull{UnaryExpression{child}}
}

// Type implements the Expression interface.
func (e *IsNull) Type() sql.Type {
	return sql.Boolean
}

// IsNullable implements the Expression interface.
func (e *IsNull) IsNullable() bool {
	return false
}

// Eval implements the Expression interface.
func (e *IsNull) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := e.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	return v == nil, nil
}

func (e *IsNull) String() string {
	return e.Child.String() + " IS NULL"
}

// WithChildren implements the Expression interface.
func (e *IsNull) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1)
	}
	return NewIsNull(children[0]), nil
}

// IsTrue is an expression that checks if an expression is true or false.
type IsTrue struct {
	UnaryExpression
	invert bool
}

// NewIsTrue creates a new IsTrue expression.
func NewIsTrue(child sql.Expression) *IsTrue {
	return &IsTrue{UnaryExpression: UnaryExpression{child}}
}

// NewIsFalse creates a new IsTrue expression with its boolean sense inverted.
func NewIsFalse(child sql.Expression) *IsTrue {
	return &IsTrue{UnaryExpression{child}, true}
}

// Type implements the Expression interface.
func (*IsTrue) Type() sql.Type {
	return sql.Boolean
}

// IsNullable implements the Expression interface.
func (*IsTrue) IsNullable() bool {
	return false
}

// Eval implements the Expression interface.
func (e *IsTrue) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := evalBool(ctx, e.Child, row)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return false, nil
	}

	if e.invert {
		return !v.(bool), nil
	}
	return v.(bool), nil
}

func (e *IsTrue) String() string {
	if e.invert {
		return e.Child.String() + " IS FALSE"
	}
	return e.Child.String() + " IS TRUE"
}

// WithChildren implements the Expression interface.
func (e *IsTrue) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1)
	}
	return &IsTrue{UnaryExpression{children[0]}, e.invert}, nil
}

// NullTest returns the name of the null or truth test operator if e is one.
func NullTest(e sql.Expression) (string, bool) {
	switch e := e.(type) {
	case *IsNull:
		return "IS NULL", true
	case *IsTrue:
		if e.invert {
			return "IS FALSE", true
		}
		return "IS TRUE", true
	}
	return "", false
}
