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

// Placeholder is a positional parameter ($1, $2, ...) of a prepared
// statement. Placeholders are replaced by literals before a plan is run, so
// evaluating one is an error.
type Placeholder struct {
	Ordinal int
	typ     sql.Type
}

var _ sql.Expression = (*Placeholder)(nil)

// NewPlaceholder creates a placeholder with the given 1-based ordinal and an
// unknown type.
func NewPlaceholder(ordinal int) *Placeholder {
	return &Placeholder{Ordinal: ordinal, typ: sql.Unknown}
}

// WithType returns a copy of the placeholder with the given type.
func (p *Placeholder) WithType(t sql.Type) *Placeholder {
	return &Placeholder{Ordinal: p.Ordinal, typ: t}
}

// Typed returns whether the placeholder was given a concrete type.
func (p *Placeholder) Typed() bool {
	return sql.IsConcrete(p.typ)
}

// Resolved implements the Expression interface.
func (p *Placeholder) Resolved() bool {
	return true
}

func (p *Placeholder) String() string {
	return fmt.Sprintf("$%d", p.Ordinal)
}

// Type implements the Expression interface.
func (p *Placeholder) Type() sql.Type {
	return p.typ
}

// IsNullable implements the Expression interface.
func (p *Placeholder) IsNullable() bool {
	return true
}

// Eval implements the Expression interface.
func (p *Placeholder) Eval(*sql.Context, sql.Row) (interface{}, error) {
	return nil, sql.ErrUnboundPlaceholder.New(p.Ordinal)
}

// Children implements the Expression interface.
func (p *Placeholder) Children() []sql.Expression {
	return nil
}

// WithChildren implements the Expression interface.
func (p *Placeholder) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}
	return p, nil
}
