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

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
)

// unresolvedSlot is a parameter whose type is still unknown.
type unresolvedSlot struct {
	ordinal     int
	declared    sql.Type
	occurrences []Occurrence
}

func newUnresolvedSlots(declared []sql.Type, scan *Scan) []unresolvedSlot {
	slots := make([]unresolvedSlot, len(scan.Ordinals))
	for i, ord := range scan.Ordinals {
		slots[i] = unresolvedSlot{ordinal: ord, occurrences: scan.Occurrences[ord]}
		if ord <= len(declared) {
			slots[i].declared = declared[ord-1]
		}
	}
	return slots
}

// InferParameterTypes resolves the type of every parameter of the named
// statement. A declared type always wins over the type of the context; a
// nil declared list means the statement declared no types at all.
func InferParameterTypes(name string, declared []sql.Type, scan *Scan) ([]sql.ParameterSlot, error) {
	for _, ord := range scan.Ordinals {
		for _, occ := range scan.Occurrences[ord] {
			if op, ok := nullTestOperator(occ); ok {
				return nil, sql.ErrUnsupportedParameterPosition.New(ord, op)
			}
		}
	}

	if declared != nil && len(declared) != len(scan.Ordinals) {
		return nil, sql.ErrParameterCountMismatch.Wrap(
			sql.ErrDeclaredParameterCount.New(len(declared), len(scan.Ordinals)),
			name,
		)
	}

	unresolved := newUnresolvedSlots(declared, scan)
	result := make([]sql.ParameterSlot, len(unresolved))
	for i, u := range unresolved {
		slot, err := u.resolve()
		if err != nil {
			return nil, err
		}
		result[i] = slot
	}

	return result, nil
}

func (u unresolvedSlot) resolve() (sql.ParameterSlot, error) {
	slot := sql.ParameterSlot{Ordinal: u.ordinal, Declared: u.declared}

	inferred, err := u.infer()
	if u.declared != nil {
		if err == nil {
			slot.Inferred = inferred
		}
		slot.Type = u.declared
		return slot, nil
	}

	if err != nil {
		return slot, err
	}
	if inferred == nil {
		return slot, sql.ErrUnresolvableParameterType.New(
			u.ordinal,
			"no type was declared and it can not be inferred from its usage",
		)
	}

	slot.Inferred = inferred
	slot.Type = inferred
	return slot, nil
}

// infer returns the type every occurrence agrees on, nil if none of them
// gives one.
func (u unresolvedSlot) infer() (sql.Type, error) {
	var result sql.Type
	var first Occurrence
	for _, occ := range u.occurrences {
		t, ok := inferOccurrence(occ)
		if !ok {
			continue
		}

		if result == nil {
			result, first = t, occ
			continue
		}

		if t != result {
			return nil, sql.ErrUnresolvableParameterType.New(
				u.ordinal,
				fmt.Sprintf(
					"conflicting types %s in %s and %s in %s",
					result, describe(first), t, describe(occ),
				),
			)
		}
	}
	return result, nil
}

func describe(o Occurrence) string {
	if p, ok := o.Parent(); ok {
		return p.Expr.String()
	}
	return o.Node.String()
}

// nullTestOperator returns the null or truth test the placeholder is an
// operand of, if any. Negations and casts keep the operand nullable, so
// they are skipped.
func nullTestOperator(o Occurrence) (string, bool) {
	i := 0
	for ; i < len(o.Path); i++ {
		switch o.Path[i].Expr.(type) {
		case *expression.UnaryMinus, *expression.Convert:
			continue
		}
		break
	}
	if i >= len(o.Path) {
		return "", false
	}

	op, ok := expression.NullTest(o.Path[i].Expr)
	if !ok {
		return "", false
	}

	if i+1 < len(o.Path) {
		if _, negated := o.Path[i+1].Expr.(*expression.Not); negated {
			op = strings.Replace(op, "IS ", "IS NOT ", 1)
		}
	}
	return op, true
}

// inferOccurrence walks up from the placeholder until some expression or
// the owning node tells which type it must have.
func inferOccurrence(o Occurrence) (sql.Type, bool) {
	for i, step := range o.Path {
		switch e := step.Expr.(type) {
		case *expression.Comparison:
			if t := siblingType(e.Left, e.Right, step.Index); sql.IsConcrete(t) {
				return t, true
			}
			if isPatternMatch(e.Operator()) {
				return sql.Text, true
			}
			return nil, false
		case *expression.Arithmetic:
			if t := siblingType(e.Left, e.Right, step.Index); sql.IsConcrete(t) {
				return t, true
			}
		case *expression.UnaryMinus, *expression.Alias:
		case expression.Tuple:
			if i+1 < len(o.Path) {
				if in, ok := o.Path[i+1].Expr.(*expression.InTuple); ok && o.Path[i+1].Index == 1 {
					return concrete(expression.TypeOf(in.Left), true)
				}
			}
			return nil, false
		case *expression.InTuple:
			if step.Index == 0 {
				if tuple, ok := e.Right.(expression.Tuple); ok {
					return firstConcrete(tuple...)
				}
			}
			return nil, false
		case *expression.Between:
			if step.Index == 0 {
				return firstConcrete(e.Lower, e.Upper)
			}
			return firstConcrete(e.Val, e.Lower, e.Upper)
		case *expression.Convert:
			return nil, false
		case *expression.And, *expression.Or, *expression.Not:
			return sql.Boolean, true
		case sql.ExpectedTyper:
			return concrete(e.ExpectedType(step.Index))
		default:
			return nil, false
		}
	}

	if et, ok := o.Node.(sql.ExpectedTyper); ok {
		return concrete(et.ExpectedType(o.ExprIndex))
	}
	return nil, false
}

func isPatternMatch(op string) bool {
	switch op {
	case expression.LikeOp, expression.NotLikeOp, expression.RegexpOp, expression.NotRegexpOp:
		return true
	}
	return false
}

func siblingType(left, right sql.Expression, idx int) sql.Type {
	if idx == 0 {
		return expression.TypeOf(right)
	}
	return expression.TypeOf(left)
}

func firstConcrete(exprs ...sql.Expression) (sql.Type, bool) {
	for _, e := range exprs {
		if t := expression.TypeOf(e); sql.IsConcrete(t) {
			return t, true
		}
	}
	return nil, false
}

func concrete(t sql.Type, ok bool) (sql.Type, bool) {
	if !ok || !sql.IsConcrete(t) {
		return nil, false
	}
	return t, true
}
