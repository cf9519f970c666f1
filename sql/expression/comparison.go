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
	"regexp"
	"strings"

	"github.com/src-d/go-prepared-sql/sql"
)

// Comparison operators.
const (
	EqualsOp         = "="
	NotEqualsOp      = "!="
	LessThanOp       = "<"
	LessOrEqualOp    = "<="
	GreaterThanOp    = ">"
	GreaterOrEqualOp = ">="
	NullSafeEqualsOp = "<=>"
	LikeOp           = "LIKE"
	NotLikeOp        = "NOT LIKE"
	RegexpOp         = "REGEXP"
	NotRegexpOp      = "NOT REGEXP"
)

// Comparison is an expression that compares an expression against another.
type Comparison struct {
	BinaryExpression
	op string
}

// NewComparison creates a new comparison between two expressions with the
// given operator.
func NewComparison(op string, left, right sql.Expression) *Comparison {
	return &Comparison{BinaryExpression{left, right}, op}
}

// NewEquals returns a new Equals expression.
func NewEquals(left, right sql.Expression) *Comparison {
	return NewComparison(EqualsOp, left, right)
}

// NewNotEquals returns a new NotEquals expression.
func NewNotEquals(left, right sql.Expression) *Comparison {
	return NewComparison(NotEqualsOp, left, right)
}

// NewLessThan creates a new LessThan expression.
func NewLessThan(left, right sql.Expression) *Comparison {
	return NewComparison(LessThanOp, left, right)
}

// NewGreaterThan creates a new GreaterThan expression.
func NewGreaterThan(left, right sql.Expression) *Comparison {
	return NewComparison(GreaterThanOp, left, right)
}

// NewLike creates a new LIKE expression.
func NewLike(left, right sql.Expression) *Comparison {
	return NewComparison(LikeOp, left, right)
}

// Operator returns the comparison operator.
func (c *Comparison) Operator() string { return c.op }

// Type implements the Expression interface.
func (*Comparison) Type() sql.Type {
	return sql.Boolean
}

// CompareType returns the type both sides are converted to before they are
// compared.
func (c *Comparison) CompareType() sql.Type {
	return ComparisonType(TypeOf(c.Left), TypeOf(c.Right))
}

// ComparisonType returns the type values of the types l and r are compared
// as.
func ComparisonType(l, r sql.Type) sql.Type {
	switch {
	case sql.IsUnknown(l) || l == sql.Null:
		return r
	case sql.IsUnknown(r) || r == sql.Null:
		return l
	case l == r:
		return l
	case sql.IsNumber(l) && sql.IsNumber(r):
		if sql.IsDecimal(l) || sql.IsDecimal(r) {
			return sql.Decimal
		}
		if sql.IsFloat(l) || sql.IsFloat(r) {
			return sql.Float64
		}
		return sql.Int64
	case sql.IsBoolean(l) || sql.IsBoolean(r):
		return sql.Int64
	default:
		return sql.Float64
	}
}

// Eval implements the Expression interface.
func (c *Comparison) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	left, err := c.Left.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	right, err := c.Right.Eval(ctx, row)
	if err != nil {
		return nil, err
	}

	if c.op == NullSafeEqualsOp {
		if left == nil || right == nil {
			return left == nil && right == nil, nil
		}
	} else if left == nil || right == nil {
		return nil, nil
	}

	switch c.op {
	case LikeOp, NotLikeOp, RegexpOp, NotRegexpOp:
		return c.match(left, right)
	}

	typ := c.CompareType()
	if !sql.IsConcrete(typ) {
		typ = sql.ValueType(left)
	}

	cmp, err := typ.Compare(left, right)
	if err != nil {
		return nil, err
	}

	switch c.op {
	case EqualsOp, NullSafeEqualsOp:
		return cmp == 0, nil
	case NotEqualsOp:
		return cmp != 0, nil
	case LessThanOp:
		return cmp < 0, nil
	case LessOrEqualOp:
		return cmp <= 0, nil
	case GreaterThanOp:
		return cmp > 0, nil
	case GreaterOrEqualOp:
		return cmp >= 0, nil
	}

	return nil, sql.ErrInvalidType.New(c.op)
}

func (c *Comparison) match(left, right interface{}) (interface{}, error) {
	l, err := sql.Text.Convert(left)
	if err != nil {
		return nil, err
	}
	r, err := sql.Text.Convert(right)
	if err != nil {
		return nil, err
	}

	pattern := r.(string)
	if c.op == LikeOp || c.op == NotLikeOp {
		pattern = likeToRegexp(pattern)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	matched := re.MatchString(l.(string))
	if c.op == NotLikeOp || c.op == NotRegexpOp {
		return !matched, nil
	}
	return matched, nil
}

func likeToRegexp(like string) string {
	var sb strings.Builder
	sb.WriteString("(?s)^")
	escaped := false
	for _, r := range like {
		switch {
		case escaped:
			sb.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			sb.WriteString(".*")
		case r == '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return sb.String()
}

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left, c.op, c.Right)
}

// WithChildren implements the Expression interface.
func (c *Comparison) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(c, len(children), 2)
	}
	return NewComparison(c.op, children[0], children[1]), nil
}
