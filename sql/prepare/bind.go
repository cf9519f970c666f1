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
	"fmt"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/analyzer"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/plan"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// BoundPlan is a prepared statement with all of its parameters replaced by
// the values of an EXECUTE.
type BoundPlan struct {
	Name string
	// Params are the coerced arguments, in ordinal order.
	Params []*expression.Literal
	// Plan has no placeholders left.
	Plan sql.Node
}

func (b *BoundPlan) String() string {
	params := make([]string, len(b.Params))
	for i, p := range b.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("Execute: %s params=[%s]", b.Name, strings.Join(params, ", "))
}

// Rows renders the bound plan as the rows of an EXPLAIN, one line each.
func (b *BoundPlan) Rows() []sql.Row {
	rows := []sql.Row{sql.NewRow(b.String())}
	for _, line := range strings.Split(b.Plan.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, sql.NewRow(line))
	}
	return rows
}

// Bind resolves, folds and coerces the given arguments and substitutes them
// for the placeholders of a copy of the statement plan. The statement is
// never modified.
func Bind(
	ctx *sql.Context,
	a *analyzer.Analyzer,
	stmt *sql.PreparedStatement,
	args []sql.Expression,
) (*BoundPlan, error) {
	span, ctx := ctx.Span("bind", opentracing.Tags{
		"statement": stmt.Name(),
		"args":      len(args),
	})
	defer span.Finish()

	slots := stmt.Slots()
	if len(args) != len(slots) {
		return nil, sql.ErrParameterCountMismatch.Wrap(
			sql.ErrArgumentCountMismatch.New(len(slots), len(args)),
			stmt.Name(),
		)
	}

	counts := rowCountOrdinals(stmt.Plan())
	params := make([]*expression.Literal, len(slots))
	bindings := make(map[int]sql.Expression, len(slots))
	for i, arg := range args {
		lit, err := bindArgument(ctx, a, arg, slots[i])
		if err != nil {
			return nil, err
		}

		if counts[slots[i].Ordinal] {
			if err := checkRowCount(lit); err != nil {
				return nil, err
			}
		}
		params[i] = lit
		bindings[slots[i].Ordinal] = lit
	}

	bound, err := plan.ApplyBindings(stmt.Plan(), bindings)
	if err != nil {
		return nil, err
	}

	if ps := plan.Placeholders(bound); len(ps) > 0 {
		return nil, sql.ErrUnboundPlaceholder.New(ps[0].Ordinal)
	}

	ctx.Logger().WithFields(logrus.Fields{
		"statement": stmt.Name(),
		"params":    len(params),
	}).Debug("statement bound")

	return &BoundPlan{Name: stmt.Name(), Params: params, Plan: bound}, nil
}

func bindArgument(
	ctx *sql.Context,
	a *analyzer.Analyzer,
	arg sql.Expression,
	slot sql.ParameterSlot,
) (*expression.Literal, error) {
	resolved, err := a.ResolveArgument(ctx, arg)
	if err != nil {
		return nil, err
	}

	lit, err := Fold(ctx, resolved)
	if err != nil {
		return nil, err
	}

	v, err := sql.Coerce(lit.Value(), slot.Type)
	if err != nil {
		return nil, err
	}
	return expression.NewLiteral(v, slot.Type), nil
}

// rowCountOrdinals returns the ordinals of the placeholders used as the
// row count of a LIMIT or OFFSET.
func rowCountOrdinals(n sql.Node) map[int]bool {
	result := make(map[int]bool)
	transform.Inspect(n, func(n sql.Node) bool {
		var e sql.Expression
		switch n := n.(type) {
		case *plan.Limit:
			e = n.Limit
		case *plan.Offset:
			e = n.Offset
		}

		if p, ok := e.(*expression.Placeholder); ok {
			result[p.Ordinal] = true
		}
		return true
	})
	return result
}

func checkRowCount(lit *expression.Literal) error {
	var n int64
	switch v := lit.Value().(type) {
	case int64:
		n = v
	case int32:
		n = int64(v)
	}

	if n < 0 {
		return sql.ErrTypeCoercion.New(n, lit.Type(), "a non negative row count")
	}
	return nil
}
