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

package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/shopspring/decimal"
	"github.com/xwb1989/sqlparser"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/plan"
)

var (
	// ErrUnsupportedSyntax is thrown when a specific syntax is not already supported
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %s")

	// ErrUnsupportedFeature is thrown when a feature is not already supported
	ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")

	// ErrInvalidSQLValType is returned when a SQLVal type is not valid.
	ErrInvalidSQLValType = errors.NewKind("invalid SQLVal of type: %d")

	// ErrInvalidSortOrder is returned when a sort order is not valid.
	ErrInvalidSortOrder = errors.NewKind("invalid sort order: %s")
)

// Parse parses the given SQL sentence and returns the corresponding node.
func Parse(ctx *sql.Context, query string) (sql.Node, error) {
	span, ctx := ctx.Span("parse", opentracing.Tag{Key: "query", Value: query})
	defer span.Finish()

	s := trimQuery(query)
	if s == "" {
		return nil, sql.ErrSyntax.New("empty query")
	}

	l := NewLexer(s)
	lexErr := l.Run()

	first := l.Peek()
	switch {
	case first.is("prepare"):
		if lexErr != nil {
			return nil, lexErr
		}
		return parsePrepare(ctx, s, l)
	case first.is("execute"):
		if lexErr != nil {
			return nil, lexErr
		}
		return parseExecute(ctx, s, l)
	case first.is("explain") && nextIs(l, "execute"):
		if lexErr != nil {
			return nil, lexErr
		}
		l.Next()
		exec, err := parseExecute(ctx, s, l)
		if err != nil {
			return nil, err
		}
		return plan.NewExplainQuery(exec), nil
	case (first.is("deallocate") || first.is("drop")) && nextIs(l, "prepare"):
		if lexErr != nil {
			return nil, lexErr
		}
		return parseDeallocate(l)
	}

	node, err := parseStatement(ctx, s)
	if err != nil {
		return nil, err
	}

	if ps := plan.Placeholders(node); len(ps) > 0 {
		return nil, sql.ErrSyntax.New(fmt.Sprintf("parameter %s outside of PREPARE", ps[0]))
	}
	return node, nil
}

// trimQuery removes surrounding spaces and trailing semicolons.
func trimQuery(query string) string {
	s := strings.TrimSpace(query)
	for strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(s[:len(s)-1])
	}
	return s
}

func nextIs(l *Lexer, kw string) bool {
	toks := l.Tokens()
	return len(toks) > l.idx+1 && toks[l.idx+1].is(kw)
}

// parseStatement parses a plain statement: the body of a PREPARE or any
// query run directly.
func parseStatement(ctx *sql.Context, s string) (sql.Node, error) {
	stmt, err := sqlparser.Parse(s)
	if err != nil {
		return nil, sql.ErrSyntax.New(err.Error())
	}

	return convert(ctx, stmt)
}

func convert(ctx *sql.Context, stmt sqlparser.Statement) (sql.Node, error) {
	switch n := stmt.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(n))
	case *sqlparser.Select:
		return convertSelect(ctx, n)
	case *sqlparser.Insert:
		return convertInsert(ctx, n)
	case *sqlparser.Union, *sqlparser.ParenSelect:
		return nil, ErrUnsupportedFeature.New("UNION")
	}
}

func convertSelect(ctx *sql.Context, s *sqlparser.Select) (sql.Node, error) {
	span, _ := ctx.Span("convert_select")
	defer span.Finish()

	node, err := tableExprsToTable(s.From)
	if err != nil {
		return nil, err
	}

	if s.Having != nil {
		return nil, ErrUnsupportedFeature.New("HAVING")
	}

	if len(s.GroupBy) > 0 {
		return nil, ErrUnsupportedFeature.New("GROUP BY")
	}

	if s.Where != nil {
		node, err = whereToFilter(s.Where, node)
		if err != nil {
			return nil, err
		}
	}

	exprs, err := selectExprsToExpressions(s.SelectExprs)
	if err != nil {
		return nil, err
	}
	node = plan.NewProject(exprs, node)

	if s.Distinct != "" {
		node = plan.NewDistinct(node)
	}

	if len(s.OrderBy) != 0 {
		node, err = orderByToSort(s.OrderBy, node)
		if err != nil {
			return nil, err
		}
	}

	if s.Limit != nil && s.Limit.Offset != nil {
		offset, err := exprToExpression(s.Limit.Offset)
		if err != nil {
			return nil, err
		}
		node = plan.NewOffset(offset, node)
	}

	if s.Limit != nil && s.Limit.Rowcount != nil {
		limit, err := exprToExpression(s.Limit.Rowcount)
		if err != nil {
			return nil, err
		}
		node = plan.NewLimit(limit, node)
	}

	return node, nil
}

func convertInsert(ctx *sql.Context, i *sqlparser.Insert) (sql.Node, error) {
	span, ctx := ctx.Span("convert_insert")
	defer span.Finish()

	if i.Action == sqlparser.ReplaceStr {
		return nil, ErrUnsupportedFeature.New("REPLACE")
	}

	if len(i.OnDup) > 0 {
		return nil, ErrUnsupportedFeature.New("ON DUPLICATE KEY")
	}

	if len(i.Ignore) > 0 {
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(i))
	}

	if i.Partitions != nil {
		return nil, ErrUnsupportedFeature.New("PARTITION")
	}

	src, err := insertRowsToNode(ctx, i.Rows)
	if err != nil {
		return nil, err
	}

	return plan.NewInsertInto(
		plan.NewUnresolvedTable(i.Table.Name.String(), i.Table.Qualifier.String()),
		src,
		columnsToStrings(i.Columns),
	), nil
}

func columnsToStrings(cols sqlparser.Columns) []string {
	res := make([]string, len(cols))
	for i, c := range cols {
		res[i] = c.String()
	}

	return res
}

func insertRowsToNode(ctx *sql.Context, ir sqlparser.InsertRows) (sql.Node, error) {
	switch v := ir.(type) {
	case *sqlparser.Select:
		return convertSelect(ctx, v)
	case *sqlparser.Union, *sqlparser.ParenSelect:
		return nil, ErrUnsupportedFeature.New("UNION")
	case sqlparser.Values:
		return valuesToValues(v)
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(ir))
	}
}

func valuesToValues(v sqlparser.Values) (sql.Node, error) {
	exprTuples := make([][]sql.Expression, len(v))
	for i, vt := range v {
		exprs := make([]sql.Expression, len(vt))
		exprTuples[i] = exprs
		for j, e := range vt {
			expr, err := exprToExpression(e)
			if err != nil {
				return nil, err
			}

			exprs[j] = expr
		}
	}

	return plan.NewValues(exprTuples), nil
}

func tableExprsToTable(te sqlparser.TableExprs) (sql.Node, error) {
	if len(te) == 0 {
		return nil, ErrUnsupportedFeature.New("zero tables in FROM")
	}

	var nodes []sql.Node
	for _, t := range te {
		n, err := tableExprToTable(t)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)
	}

	if len(nodes) == 1 {
		return nodes[0], nil
	}

	join := plan.NewCrossJoin(nodes[0], nodes[1])
	for i := 2; i < len(nodes); i++ {
		join = plan.NewCrossJoin(join, nodes[i])
	}

	return join, nil
}

func tableExprToTable(te sqlparser.TableExpr) (sql.Node, error) {
	switch t := (te).(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(te))
	case *sqlparser.AliasedTableExpr:
		switch e := t.Expr.(type) {
		case sqlparser.TableName:
			node := plan.NewUnresolvedTable(e.Name.String(), e.Qualifier.String())
			if !t.As.IsEmpty() {
				return plan.NewTableAlias(t.As.String(), node), nil
			}

			return node, nil
		case *sqlparser.Subquery:
			return nil, ErrUnsupportedFeature.New("subqueries")
		default:
			return nil, ErrUnsupportedSyntax.New(sqlparser.String(te))
		}
	case *sqlparser.JoinTableExpr:
		if t.Join != sqlparser.JoinStr {
			return nil, ErrUnsupportedFeature.New(t.Join)
		}

		if len(t.Condition.Using) > 0 {
			return nil, ErrUnsupportedFeature.New("using clause on join")
		}

		left, err := tableExprToTable(t.LeftExpr)
		if err != nil {
			return nil, err
		}

		right, err := tableExprToTable(t.RightExpr)
		if err != nil {
			return nil, err
		}

		if t.Condition.On == nil {
			return plan.NewCrossJoin(left, right), nil
		}

		cond, err := exprToExpression(t.Condition.On)
		if err != nil {
			return nil, err
		}

		return plan.NewInnerJoin(left, right, cond), nil
	}
}

func whereToFilter(w *sqlparser.Where, child sql.Node) (*plan.Filter, error) {
	c, err := exprToExpression(w.Expr)
	if err != nil {
		return nil, err
	}

	return plan.NewFilter(c, child), nil
}

func orderByToSort(ob sqlparser.OrderBy, child sql.Node) (*plan.Sort, error) {
	var sortFields []plan.SortField
	for _, o := range ob {
		e, err := exprToExpression(o.Expr)
		if err != nil {
			return nil, err
		}

		var so plan.SortOrder
		switch strings.ToLower(o.Direction) {
		default:
			return nil, ErrInvalidSortOrder.New(o.Direction)
		case sqlparser.AscScr, "":
			so = plan.Ascending
		case sqlparser.DescScr:
			so = plan.Descending
		}

		sf := plan.SortField{Column: e, Order: so}
		sortFields = append(sortFields, sf)
	}

	return plan.NewSort(sortFields, child), nil
}

func selectExprsToExpressions(se sqlparser.SelectExprs) ([]sql.Expression, error) {
	var exprs []sql.Expression
	for _, e := range se {
		pe, err := selectExprToExpression(e)
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, pe)
	}

	return exprs, nil
}

func selectExprToExpression(se sqlparser.SelectExpr) (sql.Expression, error) {
	switch e := se.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(e))
	case *sqlparser.StarExpr:
		if e.TableName.IsEmpty() {
			return expression.NewStar(), nil
		}
		return expression.NewQualifiedStar(e.TableName.Name.String()), nil
	case *sqlparser.AliasedExpr:
		expr, err := exprToExpression(e.Expr)
		if err != nil {
			return nil, err
		}

		if e.As.String() == "" {
			return expr, nil
		}

		return expression.NewAlias(e.As.Lowered(), expr), nil
	}
}

func exprsToExpressions(exprs ...sqlparser.Expr) ([]sql.Expression, error) {
	result := make([]sql.Expression, len(exprs))
	for i, e := range exprs {
		expr, err := exprToExpression(e)
		if err != nil {
			return nil, err
		}
		result[i] = expr
	}
	return result, nil
}

func exprToExpression(e sqlparser.Expr) (sql.Expression, error) {
	switch v := e.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(e))
	case *sqlparser.SubstrExpr:
		args := []sqlparser.Expr{v.Name, v.From}
		if v.To != nil {
			args = append(args, v.To)
		}

		exprs, err := exprsToExpressions(args...)
		if err != nil {
			return nil, err
		}
		return expression.NewUnresolvedFunction("substring", exprs...), nil
	case *sqlparser.ComparisonExpr:
		return comparisonExprToExpression(v)
	case *sqlparser.IsExpr:
		return isExprToExpression(v)
	case *sqlparser.NotExpr:
		c, err := exprToExpression(v.Expr)
		if err != nil {
			return nil, err
		}

		return expression.NewNot(c), nil
	case *sqlparser.SQLVal:
		return convertVal(v)
	case sqlparser.BoolVal:
		return expression.NewLiteral(bool(v), sql.Boolean), nil
	case *sqlparser.NullVal:
		return expression.NewLiteral(nil, sql.Null), nil
	case *sqlparser.ColName:
		if !v.Qualifier.IsEmpty() {
			return expression.NewUnresolvedQualifiedColumn(
				v.Qualifier.Name.String(),
				v.Name.String(),
			), nil
		}
		return expression.NewUnresolvedColumn(v.Name.String()), nil
	case *sqlparser.FuncExpr:
		if v.Distinct {
			return nil, ErrUnsupportedFeature.New("DISTINCT in function arguments")
		}

		if !v.Qualifier.IsEmpty() {
			return nil, ErrUnsupportedFeature.New("qualified function names")
		}

		exprs, err := selectExprsToExpressions(v.Exprs)
		if err != nil {
			return nil, err
		}

		return expression.NewUnresolvedFunction(v.Name.Lowered(), exprs...), nil
	case *sqlparser.ParenExpr:
		return exprToExpression(v.Expr)
	case *sqlparser.AndExpr:
		exprs, err := exprsToExpressions(v.Left, v.Right)
		if err != nil {
			return nil, err
		}

		return expression.NewAnd(exprs[0], exprs[1]), nil
	case *sqlparser.OrExpr:
		exprs, err := exprsToExpressions(v.Left, v.Right)
		if err != nil {
			return nil, err
		}

		return expression.NewOr(exprs[0], exprs[1]), nil
	case *sqlparser.ConvertExpr:
		expr, err := exprToExpression(v.Expr)
		if err != nil {
			return nil, err
		}

		typ, err := convertTypeToType(v.Type)
		if err != nil {
			return nil, err
		}

		return expression.NewConvert(expr, typ), nil
	case *sqlparser.RangeCond:
		exprs, err := exprsToExpressions(v.Left, v.From, v.To)
		if err != nil {
			return nil, err
		}

		between := expression.NewBetween(exprs[0], exprs[1], exprs[2])
		switch v.Operator {
		case sqlparser.BetweenStr:
			return between, nil
		case sqlparser.NotBetweenStr:
			return expression.NewNot(between), nil
		default:
			return nil, ErrUnsupportedFeature.New(fmt.Sprintf("RangeCond with operator: %s", v.Operator))
		}
	case sqlparser.ValTuple:
		exprs, err := exprsToExpressions(v...)
		if err != nil {
			return nil, err
		}
		return expression.NewTuple(exprs...), nil
	case *sqlparser.BinaryExpr:
		return binaryExprToExpression(v)
	case *sqlparser.UnaryExpr:
		return unaryExprToExpression(v)
	case *sqlparser.Subquery, *sqlparser.ExistsExpr:
		return nil, ErrUnsupportedFeature.New("subqueries")
	}
}

// convertVal converts a literal value. Bind variables can only come from
// rewritten positional parameters, so they are turned back into
// placeholders.
func convertVal(v *sqlparser.SQLVal) (sql.Expression, error) {
	switch v.Type {
	case sqlparser.StrVal:
		return expression.NewLiteral(string(v.Val), sql.Text), nil
	case sqlparser.IntVal:
		val, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			d, err := decimal.NewFromString(string(v.Val))
			if err != nil {
				return nil, sql.ErrSyntax.New(fmt.Sprintf("invalid number %s", v.Val))
			}
			return expression.NewLiteral(d, sql.Decimal), nil
		}
		return expression.NewLiteral(val, sql.Int64), nil
	case sqlparser.FloatVal:
		val, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, sql.ErrSyntax.New(fmt.Sprintf("invalid number %s", v.Val))
		}
		return expression.NewLiteral(val, sql.Float64), nil
	case sqlparser.HexNum:
		v := strings.ToLower(string(v.Val))
		if strings.HasPrefix(v, "0x") {
			v = v[2:]
		} else if strings.HasPrefix(v, "x") {
			v = strings.Trim(v[1:], "'")
		}

		val, err := strconv.ParseInt(v, 16, 64)
		if err != nil {
			return nil, sql.ErrSyntax.New(fmt.Sprintf("invalid hexadecimal number %s", v))
		}
		return expression.NewLiteral(val, sql.Int64), nil
	case sqlparser.HexVal:
		val, err := v.HexDecode()
		if err != nil {
			return nil, sql.ErrSyntax.New(err.Error())
		}
		return expression.NewLiteral(string(val), sql.Text), nil
	case sqlparser.ValArg:
		return placeholderFromBindVar(string(v.Val))
	case sqlparser.BitVal:
		if len(v.Val) == 0 {
			return expression.NewLiteral(int64(0), sql.Int64), nil
		}

		val, err := strconv.ParseUint(string(v.Val), 2, 64)
		if err != nil || val > math.MaxInt64 {
			return nil, sql.ErrSyntax.New(fmt.Sprintf("invalid bit value b'%s'", v.Val))
		}
		return expression.NewLiteral(int64(val), sql.Int64), nil
	}

	return nil, ErrInvalidSQLValType.New(v.Type)
}

func placeholderFromBindVar(name string) (sql.Expression, error) {
	if strings.HasPrefix(name, bindVarPrefix) {
		n, err := strconv.Atoi(name[len(bindVarPrefix):])
		if err == nil && n > 0 {
			return expression.NewPlaceholder(n), nil
		}
	}

	return nil, sql.ErrSyntax.New(fmt.Sprintf("unexpected bind variable %s", name))
}

func convertTypeToType(ct *sqlparser.ConvertType) (sql.Type, error) {
	switch strings.ToLower(ct.Type) {
	case "signed", "unsigned":
		return sql.Int64, nil
	case "char", "nchar", "binary":
		return sql.Text, nil
	}

	typ, err := sql.TypeFromName(ct.Type)
	if err != nil {
		return nil, sql.ErrSyntax.New(fmt.Sprintf("unsupported CAST type %s", ct.Type))
	}
	return typ, nil
}

func isExprToExpression(c *sqlparser.IsExpr) (sql.Expression, error) {
	e, err := exprToExpression(c.Expr)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.IsNullStr:
		return expression.NewIsNull(e), nil
	case sqlparser.IsNotNullStr:
		return expression.NewNot(expression.NewIsNull(e)), nil
	case sqlparser.IsTrueStr:
		return expression.NewIsTrue(e), nil
	case sqlparser.IsNotTrueStr:
		return expression.NewNot(expression.NewIsTrue(e)), nil
	case sqlparser.IsFalseStr:
		return expression.NewIsFalse(e), nil
	case sqlparser.IsNotFalseStr:
		return expression.NewNot(expression.NewIsFalse(e)), nil
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(c))
	}
}

var comparisonOperators = map[string]string{
	sqlparser.EqualStr:         expression.EqualsOp,
	sqlparser.NotEqualStr:      expression.NotEqualsOp,
	sqlparser.LessThanStr:      expression.LessThanOp,
	sqlparser.LessEqualStr:     expression.LessOrEqualOp,
	sqlparser.GreaterThanStr:   expression.GreaterThanOp,
	sqlparser.GreaterEqualStr:  expression.GreaterOrEqualOp,
	sqlparser.NullSafeEqualStr: expression.NullSafeEqualsOp,
	sqlparser.LikeStr:          expression.LikeOp,
	sqlparser.NotLikeStr:       expression.NotLikeOp,
	sqlparser.RegexpStr:        expression.RegexpOp,
	sqlparser.NotRegexpStr:     expression.NotRegexpOp,
}

func comparisonExprToExpression(c *sqlparser.ComparisonExpr) (sql.Expression, error) {
	if c.Escape != nil {
		return nil, ErrUnsupportedFeature.New("LIKE with ESCAPE")
	}

	left, err := exprToExpression(c.Left)
	if err != nil {
		return nil, err
	}

	right, err := exprToExpression(c.Right)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.InStr, sqlparser.NotInStr:
		tuple, ok := right.(expression.Tuple)
		if !ok {
			return nil, ErrUnsupportedSyntax.New(sqlparser.String(c))
		}

		if c.Operator == sqlparser.NotInStr {
			return expression.NewNotInTuple(left, tuple), nil
		}
		return expression.NewInTuple(left, tuple), nil
	}

	op, ok := comparisonOperators[c.Operator]
	if !ok {
		return nil, ErrUnsupportedFeature.New(c.Operator)
	}

	return expression.NewComparison(op, left, right), nil
}

func binaryExprToExpression(be *sqlparser.BinaryExpr) (sql.Expression, error) {
	switch be.Operator {
	case
		sqlparser.PlusStr,
		sqlparser.MinusStr,
		sqlparser.MultStr,
		sqlparser.DivStr,
		sqlparser.IntDivStr,
		sqlparser.ModStr:

		exprs, err := exprsToExpressions(be.Left, be.Right)
		if err != nil {
			return nil, err
		}

		return expression.NewArithmetic(exprs[0], exprs[1], be.Operator), nil

	default:
		return nil, ErrUnsupportedFeature.New(be.Operator)
	}
}

func unaryExprToExpression(ue *sqlparser.UnaryExpr) (sql.Expression, error) {
	e, err := exprToExpression(ue.Expr)
	if err != nil {
		return nil, err
	}

	switch strings.TrimSpace(ue.Operator) {
	case sqlparser.UPlusStr:
		return e, nil
	case sqlparser.UMinusStr:
		if lit, ok := e.(*expression.Literal); ok {
			switch v := lit.Value().(type) {
			case int64:
				return expression.NewLiteral(-v, sql.Int64), nil
			case float64:
				return expression.NewLiteral(-v, sql.Float64), nil
			case decimal.Decimal:
				return expression.NewLiteral(v.Neg(), sql.Decimal), nil
			}
		}
		return expression.NewUnaryMinus(e), nil
	case sqlparser.BangStr:
		return expression.NewNot(e), nil
	default:
		return nil, ErrUnsupportedFeature.New(ue.Operator)
	}
}
