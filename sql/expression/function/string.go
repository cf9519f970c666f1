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
	"strings"
	"unicode/utf8"

	"github.com/src-d/go-prepared-sql/sql"
)

// Lower is a function that returns the lowercase of the text provided.
type Lower struct {
	*UnaryFunc
}

var _ sql.FunctionExpression = (*Lower)(nil)

// NewLower creates a new Lower expression.
func NewLower(e sql.Expression) sql.Expression {
	return &Lower{NewUnaryFunc(e, "lower", sql.Text, sql.Text)}
}

// Eval implements the Expression interface.
func (l *Lower) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := l.EvalChild(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}
	return strings.ToLower(v.(string)), nil
}

// WithChildren implements the Expression interface.
func (l *Lower) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 1)
	}
	return NewLower(children[0]), nil
}

// Upper is a function that returns the UPPERCASE of the text provided.
type Upper struct {
	*UnaryFunc
}

var _ sql.FunctionExpression = (*Upper)(nil)

// NewUpper creates a new Upper expression.
func NewUpper(e sql.Expression) sql.Expression {
	return &Upper{NewUnaryFunc(e, "upper", sql.Text, sql.Text)}
}

// Eval implements the Expression interface.
func (u *Upper) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := u.EvalChild(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}
	return strings.ToUpper(v.(string)), nil
}

// WithChildren implements the Expression interface.
func (u *Upper) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(u, len(children), 1)
	}
	return NewUpper(children[0]), nil
}

// Length returns the number of characters of a text.
type Length struct {
	*UnaryFunc
}

var _ sql.FunctionExpression = (*Length)(nil)

// NewLength returns a new LENGTH function.
func NewLength(e sql.Expression) sql.Expression {
	return &Length{NewUnaryFunc(e, "length", sql.Text, sql.Int64)}
}

// Eval implements the sql.Expression interface.
func (l *Length) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	v, err := l.EvalChild(ctx, row)
	if err != nil || v == nil {
		return nil, err
	}
	return int64(utf8.RuneCountInString(v.(string))), nil
}

// WithChildren implements the Expression interface.
func (l *Length) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(l, len(children), 1)
	}
	return NewLength(children[0]), nil
}

// Concat joins several strings together.
type Concat struct {
	*NaryFunc
}

var _ sql.FunctionExpression = (*Concat)(nil)

// NewConcat creates a new Concat UDF.
func NewConcat(args ...sql.Expression) (sql.Expression, error) {
	if len(args) == 0 {
		return nil, sql.ErrInvalidArgumentNumber.New("concat", "1 or more", 0)
	}

	return &Concat{&NaryFunc{
		Name:     "concat",
		Args:     args,
		ArgTypes: []sql.Type{sql.Text},
		Variadic: true,
		RetType:  sql.Text,
	}}, nil
}

// Eval implements the Expression interface.
func (c *Concat) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	args, ok, err := c.EvalArgs(ctx, row)
	if err != nil || !ok {
		return nil, err
	}

	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(arg.(string))
	}
	return sb.String(), nil
}

// WithChildren implements the Expression interface.
func (c *Concat) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	return NewConcat(children...)
}

// Substring is a function to return a part of a string.
// This function behaves as the homonym MySQL function.
// Since Go strings are UTF8, this function does not return a direct sub
// string str[start:start+length], instead returns the substring of rune
// s[start:start+length].
type Substring struct {
	*NaryFunc
}

var _ sql.FunctionExpression = (*Substring)(nil)

// NewSubstring creates a new substring UDF.
func NewSubstring(args ...sql.Expression) (sql.Expression, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, sql.ErrInvalidArgumentNumber.New("substring", "2 or 3", len(args))
	}

	return &Substring{&NaryFunc{
		Name:     "substring",
		Args:     args,
		ArgTypes: []sql.Type{sql.Text, sql.Int64, sql.Int64},
		RetType:  sql.Text,
	}}, nil
}

// Eval implements the Expression interface.
func (s *Substring) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	args, ok, err := s.EvalArgs(ctx, row)
	if err != nil || !ok {
		return nil, err
	}

	text := []rune(args[0].(string))
	start := args[1].(int64)
	size := int64(len(text))

	length := size
	if len(args) == 3 {
		length = args[2].(int64)
	}

	if start == 0 || start > size || start < -size || length <= 0 {
		return "", nil
	}

	if start < 0 {
		start = size + start
	} else {
		start--
	}

	end := start + length
	if end > size {
		end = size
	}

	return string(text[start:end]), nil
}

// WithChildren implements the Expression interface.
func (s *Substring) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	return NewSubstring(children...)
}

// LPad left pads a string with another string up to the given length in
// runes. Strings longer than the length are truncated.
type LPad struct {
	*NaryFunc
}

var _ sql.FunctionExpression = (*LPad)(nil)

// NewLPad creates a new lpad function.
func NewLPad(args ...sql.Expression) (sql.Expression, error) {
	if len(args) != 3 {
		return nil, sql.ErrInvalidArgumentNumber.New("lpad", "3", len(args))
	}

	return &LPad{&NaryFunc{
		Name:     "lpad",
		Args:     args,
		ArgTypes: []sql.Type{sql.Text, sql.Int64, sql.Text},
		RetType:  sql.Text,
	}}, nil
}

// Eval implements the Expression interface.
func (p *LPad) Eval(ctx *sql.Context, row sql.Row) (interface{}, error) {
	args, ok, err := p.EvalArgs(ctx, row)
	if err != nil || !ok {
		return nil, err
	}

	text := []rune(args[0].(string))
	length := args[1].(int64)
	pad := []rune(args[2].(string))

	if length <= 0 {
		return "", nil
	}
	if int64(len(text)) >= length {
		return string(text[:length]), nil
	}
	if len(pad) == 0 {
		return "", nil
	}

	missing := int(length) - len(text)
	padding := make([]rune, 0, missing)
	for len(padding) < missing {
		padding = append(padding, pad...)
	}

	return string(padding[:missing]) + string(text), nil
}

// WithChildren implements the Expression interface.
func (p *LPad) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	return NewLPad(children...)
}
