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
	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// Fold evaluates a constant expression into a literal. Expressions reading
// columns, unresolved ones and placeholders are not constant.
func Fold(ctx *sql.Context, e sql.Expression) (*expression.Literal, error) {
	if lit, ok := e.(*expression.Literal); ok {
		return lit, nil
	}

	if err := checkConstant(e); err != nil {
		return nil, err
	}

	v, err := e.Eval(ctx, nil)
	if err != nil {
		return nil, err
	}

	typ := expression.TypeOf(e)
	if !sql.IsConcrete(typ) || v == nil {
		typ = sql.ValueType(v)
	}
	return expression.NewLiteral(v, typ), nil
}

func checkConstant(e sql.Expression) error {
	var offending sql.Expression
	transform.InspectUp(e, func(e sql.Expression) bool {
		if offending != nil {
			return false
		}

		switch e.(type) {
		case *expression.GetField,
			*expression.UnresolvedColumn,
			*expression.UnresolvedFunction,
			*expression.Placeholder,
			*expression.Star:
			offending = e
			return false
		}
		return true
	})

	if offending != nil {
		return sql.ErrNotConstant.New(offending)
	}
	return nil
}
