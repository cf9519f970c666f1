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
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/plan"
	"github.com/src-d/go-prepared-sql/sql/transform"
)

// bindVarPrefix is the prefix positional parameters are rewritten to before
// the statement body is given to sqlparser, which has no syntax for $N.
const bindVarPrefix = ":v"

// parsePrepare parses
//
//	PREPARE name [(type, ...)] AS statement
func parsePrepare(ctx *sql.Context, s string, l *Lexer) (sql.Node, error) {
	l.Next()

	name, err := statementName(l, "PREPARE")
	if err != nil {
		return nil, err
	}

	var types []sql.Type
	tok := l.Next()
	if tok.Type == LeftParenToken {
		types, err = parseTypeList(l)
		if err != nil {
			return nil, err
		}
		tok = l.Next()
	}

	if !tok.is("as") {
		return nil, sql.ErrSyntax.New(fmt.Sprintf("expected AS after PREPARE %s, found %s", name, tok))
	}

	body := strings.TrimSpace(s[tok.End:])
	if body == "" {
		return nil, sql.ErrSyntax.New(fmt.Sprintf("missing statement after PREPARE %s AS", name))
	}

	rewritten, err := rewritePlaceholders(s, tok.End, l.Tokens()[l.idx:])
	if err != nil {
		return nil, err
	}

	child, err := parseStatement(ctx, rewritten)
	if err != nil {
		return nil, err
	}

	return plan.NewPrepareQuery(name, types, body, child), nil
}

// parseExecute parses
//
//	EXECUTE name [(arg, ...)]
func parseExecute(ctx *sql.Context, s string, l *Lexer) (*plan.ExecuteQuery, error) {
	l.Next()

	name, err := statementName(l, "EXECUTE")
	if err != nil {
		return nil, err
	}

	tok := l.Next()
	switch tok.Type {
	case EOFToken:
		return plan.NewExecuteQuery(name), nil
	case LeftParenToken:
	default:
		return nil, sql.ErrSyntax.New(fmt.Sprintf("unexpected %s after EXECUTE %s", tok, name))
	}

	open := tok
	var depth int
	for {
		tok = l.Next()
		switch tok.Type {
		case EOFToken:
			return nil, sql.ErrSyntax.New(fmt.Sprintf("unclosed argument list of EXECUTE %s", name))
		case PlaceholderToken:
			return nil, sql.ErrSyntax.New(fmt.Sprintf("parameter %s is not allowed in EXECUTE arguments", tok.Value))
		case LeftParenToken:
			depth++
			continue
		case RightParenToken:
			if depth > 0 {
				depth--
				continue
			}
		default:
			continue
		}
		break
	}

	if next := l.Next(); next.Type != EOFToken {
		return nil, sql.ErrSyntax.New(fmt.Sprintf("unexpected %s after EXECUTE %s", next, name))
	}

	args, err := parseArguments(s[open.End:tok.Pos])
	if err != nil {
		return nil, err
	}

	return plan.NewExecuteQuery(name, args...), nil
}

// parseDeallocate parses
//
//	{DEALLOCATE | DROP} PREPARE name
func parseDeallocate(l *Lexer) (sql.Node, error) {
	l.Next()
	l.Next()

	name, err := statementName(l, "DEALLOCATE PREPARE")
	if err != nil {
		return nil, err
	}

	if tok := l.Next(); tok.Type != EOFToken {
		return nil, sql.ErrSyntax.New(fmt.Sprintf("unexpected %s after DEALLOCATE PREPARE %s", tok, name))
	}

	return plan.NewDeallocateQuery(name), nil
}

func statementName(l *Lexer, stmt string) (string, error) {
	tok := l.Next()
	if tok.Type != IdentifierToken {
		return "", sql.ErrSyntax.New(fmt.Sprintf("missing statement name after %s", stmt))
	}
	return unquoteIdentifier(tok.Value), nil
}

func unquoteIdentifier(s string) string {
	if len(s) >= 2 && s[0] == backtick && s[len(s)-1] == backtick {
		return strings.ReplaceAll(s[1:len(s)-1], "``", "`")
	}
	return s
}

// parseTypeList parses the declared parameter types of a PREPARE. The
// opening parenthesis was already consumed. An empty list yields an empty,
// non-nil slice. Length and precision arguments
// such as VARCHAR(20) or DECIMAL(10, 2) are accepted and ignored.
func parseTypeList(l *Lexer) ([]sql.Type, error) {
	types := []sql.Type{}
	if l.Peek().Type == RightParenToken {
		l.Next()
		return types, nil
	}

	for {
		tok := l.Next()
		if tok.Type != IdentifierToken {
			return nil, sql.ErrSyntax.New(fmt.Sprintf("expected parameter type, found %s", tok))
		}

		typ, err := sql.TypeFromName(tok.Value)
		if err != nil {
			return nil, sql.ErrSyntax.New(fmt.Sprintf("unknown parameter type %q", tok.Value))
		}
		types = append(types, typ)

		if l.Peek().Type == LeftParenToken {
			l.Next()
			if err := skipTypeArguments(l); err != nil {
				return nil, err
			}
		}

		tok = l.Next()
		switch tok.Type {
		case CommaToken:
			continue
		case RightParenToken:
			return types, nil
		default:
			return nil, sql.ErrSyntax.New(fmt.Sprintf("unexpected %s in parameter type list", tok))
		}
	}
}

func skipTypeArguments(l *Lexer) error {
	for i := 0; ; i++ {
		tok := l.Next()
		if tok.Type != IntToken {
			return sql.ErrSyntax.New(fmt.Sprintf("expected type length, found %s", tok))
		}

		tok = l.Next()
		switch {
		case tok.Type == RightParenToken:
			return nil
		case tok.Type == CommaToken && i == 0:
		default:
			return sql.ErrSyntax.New(fmt.Sprintf("unexpected %s in type arguments", tok))
		}
	}
}

// rewritePlaceholders returns s[from:] with every $N parameter replaced by
// the bind variable sqlparser understands.
func rewritePlaceholders(s string, from int, tokens []*Token) (string, error) {
	var b strings.Builder
	last := from
	for _, tok := range tokens {
		if tok.Type != PlaceholderToken {
			continue
		}

		n, err := placeholderOrdinal(tok)
		if err != nil {
			return "", err
		}

		b.WriteString(s[last:tok.Pos])
		fmt.Fprintf(&b, "%s%d", bindVarPrefix, n)
		last = tok.End
	}
	b.WriteString(s[last:])

	return b.String(), nil
}

func placeholderOrdinal(tok *Token) (int, error) {
	n, err := strconv.Atoi(tok.Value[1:])
	if err != nil || n < 1 {
		return 0, sql.ErrSyntax.New(fmt.Sprintf("invalid parameter %s, parameters are numbered from $1", tok.Value))
	}
	return n, nil
}

// parseArguments parses the comma separated argument expressions of an
// EXECUTE.
func parseArguments(s string) ([]sql.Expression, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	stmt, err := sqlparser.Parse("SELECT " + s)
	if err != nil {
		return nil, sql.ErrSyntax.New(err.Error())
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok || !isDualSelect(sel) {
		return nil, sql.ErrSyntax.New(fmt.Sprintf("invalid EXECUTE arguments (%s)", s))
	}

	args := make([]sql.Expression, len(sel.SelectExprs))
	for i, se := range sel.SelectExprs {
		ae, ok := se.(*sqlparser.AliasedExpr)
		if !ok || !ae.As.IsEmpty() {
			return nil, sql.ErrSyntax.New(fmt.Sprintf("invalid EXECUTE argument %s", sqlparser.String(se)))
		}

		arg, err := exprToExpression(ae.Expr)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	if placeholders := findPlaceholders(args); len(placeholders) > 0 {
		return nil, sql.ErrSyntax.New(fmt.Sprintf("parameter %s is not allowed in EXECUTE arguments", placeholders[0]))
	}

	return args, nil
}

func isDualSelect(sel *sqlparser.Select) bool {
	if sel.Where != nil || sel.Having != nil || len(sel.GroupBy) > 0 ||
		len(sel.OrderBy) > 0 || sel.Limit != nil || sel.Distinct != "" || sel.Lock != "" {
		return false
	}

	if len(sel.From) != 1 {
		return false
	}

	t, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok || !t.As.IsEmpty() {
		return false
	}

	name, ok := t.Expr.(sqlparser.TableName)
	return ok && name.Qualifier.IsEmpty() && strings.EqualFold(name.Name.String(), plan.DualTableName)
}

func findPlaceholders(exprs []sql.Expression) []*expression.Placeholder {
	var result []*expression.Placeholder
	for _, e := range exprs {
		transform.InspectUp(e, func(e sql.Expression) bool {
			if p, ok := e.(*expression.Placeholder); ok {
				result = append(result, p)
			}
			return true
		})
	}
	return result
}
