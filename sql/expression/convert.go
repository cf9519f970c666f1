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

	"github.com/src-d/go-prepared-sql/sql"
)

// Convert represent a CAST(x AS T) or CONVERT(x, T) operation that casts x
// expression to type T.
type Convert struct {
	UnaryExpression
	castToType sql.Type
}

// NewConvert creates a new Convert expression.
func NewConvert(expr sql.Expression, castToType sql.Type) *Convert {
	return &Convert{
		UnaryExpression: UnaryExpression{Child: expr},
		castToType:      castToType,
	}
}

// Type implements the Expression interface.
func (c *Convert) Type() sql.Type {
	return c.castToType
}

// IsNullable implements the Expression interface.
func (c *Convert) IsNullable() bool {
	return c.Child.IsNullable()
}

func (c *Convert) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", c.Child, c.castToType)
}

// WithChildren implements the Expression interface.
func (c *Convert) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 1)
	}
	return NewConvert(children[0], c.castToType), nil
}

// Eval implements the Expression interface.
func (c *Convert) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	val, err := c.Child.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	if val == nil {
		return nil, nil
	}

	return sql.Coerce(val, c.castToType)
}
