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
	"context"
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/require"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/plan"
)

var fixtures = map[string]sql.Node{
	`PREPARE q AS SELECT id FROM person WHERE age = $1`: plan.NewPrepareQuery(
		"q",
		nil,
		"SELECT id FROM person WHERE age = $1",
		plan.NewProject(
			[]sql.Expression{expression.NewUnresolvedColumn("id")},
			plan.NewFilter(
				expression.NewEquals(
					expression.NewUnresolvedColumn("age"),
					expression.NewPlaceholder(1),
				),
				plan.NewUnresolvedTable("person", ""),
			),
		),
	),
	"prepare `my stmt`(int, varchar(20), decimal(10, 2)) as select $2, $1, '$3';": plan.NewPrepareQuery(
		"my stmt",
		[]sql.Type{sql.Int32, sql.Text, sql.Decimal},
		"select $2, $1, '$3'",
		plan.NewProject(
			[]sql.Expression{
				expression.NewPlaceholder(2),
				expression.NewPlaceholder(1),
				expression.NewLiteral("$3", sql.Text),
			},
			plan.NewUnresolvedTable("dual", ""),
		),
	),
	`PREPARE q() AS SELECT 1`: plan.NewPrepareQuery(
		"q",
		[]sql.Type{},
		"SELECT 1",
		plan.NewProject(
			[]sql.Expression{expression.NewLiteral(int64(1), sql.Int64)},
			plan.NewUnresolvedTable("dual", ""),
		),
	),
	`PREPARE q AS SELECT id FROM person LIMIT $1 OFFSET $2`: plan.NewPrepareQuery(
		"q",
		nil,
		"SELECT id FROM person LIMIT $1 OFFSET $2",
		plan.NewLimit(
			expression.NewPlaceholder(1),
			plan.NewOffset(
				expression.NewPlaceholder(2),
				plan.NewProject(
					[]sql.Expression{expression.NewUnresolvedColumn("id")},
					plan.NewUnresolvedTable("person", ""),
				),
			),
		),
	),
	`PREPARE ins AS INSERT INTO mydb.person (id, first_name) VALUES ($1, $2), (3, $10)`: plan.NewPrepareQuery(
		"ins",
		nil,
		"INSERT INTO mydb.person (id, first_name) VALUES ($1, $2), (3, $10)",
		plan.NewInsertInto(
			plan.NewUnresolvedTable("person", "mydb"),
			plan.NewValues([][]sql.Expression{
				{expression.NewPlaceholder(1), expression.NewPlaceholder(2)},
				{expression.NewLiteral(int64(3), sql.Int64), expression.NewPlaceholder(10)},
			}),
			[]string{"id", "first_name"},
		),
	),
	`PREPARE q AS SELECT id FROM person WHERE age IN ($1, 2) AND salary BETWEEN $2 AND -$3`: plan.NewPrepareQuery(
		"q",
		nil,
		"SELECT id FROM person WHERE age IN ($1, 2) AND salary BETWEEN $2 AND -$3",
		plan.NewProject(
			[]sql.Expression{expression.NewUnresolvedColumn("id")},
			plan.NewFilter(
				expression.NewAnd(
					expression.NewInTuple(
						expression.NewUnresolvedColumn("age"),
						expression.NewTuple(
							expression.NewPlaceholder(1),
							expression.NewLiteral(int64(2), sql.Int64),
						),
					),
					expression.NewBetween(
						expression.NewUnresolvedColumn("salary"),
						expression.NewPlaceholder(2),
						expression.NewUnaryMinus(expression.NewPlaceholder(3)),
					),
				),
				plan.NewUnresolvedTable("person", ""),
			),
		),
	),
	`PREPARE q AS SELECT id FROM person WHERE $1 IS NOT NULL`: plan.NewPrepareQuery(
		"q",
		nil,
		"SELECT id FROM person WHERE $1 IS NOT NULL",
		plan.NewProject(
			[]sql.Expression{expression.NewUnresolvedColumn("id")},
			plan.NewFilter(
				expression.NewNot(expression.NewIsNull(expression.NewPlaceholder(1))),
				plan.NewUnresolvedTable("person", ""),
			),
		),
	),
	`EXECUTE q(21, 'Foo')`: plan.NewExecuteQuery(
		"q",
		expression.NewLiteral(int64(21), sql.Int64),
		expression.NewLiteral("Foo", sql.Text),
	),
	`execute q (10*2 + 1, concat('a', "b"), NULL, true, -1.5)`: plan.NewExecuteQuery(
		"q",
		expression.NewArithmetic(
			expression.NewArithmetic(
				expression.NewLiteral(int64(10), sql.Int64),
				expression.NewLiteral(int64(2), sql.Int64),
				"*",
			),
			expression.NewLiteral(int64(1), sql.Int64),
			"+",
		),
		expression.NewUnresolvedFunction(
			"concat",
			expression.NewLiteral("a", sql.Text),
			expression.NewLiteral("b", sql.Text),
		),
		expression.NewLiteral(nil, sql.Null),
		expression.NewLiteral(true, sql.Boolean),
		expression.NewLiteral(-1.5, sql.Float64),
	),
	`EXECUTE q(b'', b'101')`: plan.NewExecuteQuery(
		"q",
		expression.NewLiteral(int64(0), sql.Int64),
		expression.NewLiteral(int64(5), sql.Int64),
	),
	`EXECUTE q`:                 plan.NewExecuteQuery("q"),
	`EXECUTE q ( )`:             plan.NewExecuteQuery("q"),
	`EXECUTE q(a)`:              plan.NewExecuteQuery("q", expression.NewUnresolvedColumn("a")),
	`EXPLAIN EXECUTE q(1)`:      plan.NewExplainQuery(plan.NewExecuteQuery("q", expression.NewLiteral(int64(1), sql.Int64))),
	`explain execute q;`:        plan.NewExplainQuery(plan.NewExecuteQuery("q")),
	`DEALLOCATE PREPARE q`:      plan.NewDeallocateQuery("q"),
	`drop prepare MyStatement;`: plan.NewDeallocateQuery("MyStatement"),
	`SELECT first_name AS name FROM person p ORDER BY name DESC LIMIT 1`: plan.NewLimit(
		expression.NewLiteral(int64(1), sql.Int64),
		plan.NewSort(
			[]plan.SortField{{
				Column: expression.NewUnresolvedColumn("name"),
				Order:  plan.Descending,
			}},
			plan.NewProject(
				[]sql.Expression{
					expression.NewAlias("name", expression.NewUnresolvedColumn("first_name")),
				},
				plan.NewTableAlias("p", plan.NewUnresolvedTable("person", "")),
			),
		),
	),
}

func TestParse(t *testing.T) {
	for query, expected := range fixtures {
		t.Run(query, func(t *testing.T) {
			require := require.New(t)
			ctx := sql.NewEmptyContext()
			p, err := Parse(ctx, query)
			require.NoError(err)
			require.Exactly(expected, p)
		})
	}
}

var fixturesErrors = map[string]interface{ Is(error) bool }{
	``:                                     sql.ErrSyntax,
	`;`:                                    sql.ErrSyntax,
	`PREPARE`:                              sql.ErrSyntax,
	`PREPARE AS SELECT 1`:                  sql.ErrSyntax,
	`PREPARE 'q' AS SELECT 1`:              sql.ErrSyntax,
	`PREPARE q SELECT 1`:                   sql.ErrSyntax,
	`PREPARE q AS`:                         sql.ErrSyntax,
	`PREPARE q(INTEGR) AS SELECT $1`:       sql.ErrSyntax,
	`PREPARE q(INT,) AS SELECT $1`:         sql.ErrSyntax,
	`PREPARE q(INT AS SELECT $1`:           sql.ErrSyntax,
	`PREPARE q AS SELECT ?`:                sql.ErrSyntax,
	`PREPARE q AS SELECT $0`:               sql.ErrSyntax,
	`PREPARE q AS SELECT 1; SELECT 2`:      sql.ErrSyntax,
	`PREPARE q AS SELEC 1`:                 sql.ErrSyntax,
	`PREPARE q AS SELECT a FROM t GROUP BY a`: ErrUnsupportedFeature,
	`PREPARE q AS SELECT a FROM t UNION SELECT b FROM u`: ErrUnsupportedFeature,
	`EXECUTE`:                              sql.ErrSyntax,
	`EXECUTE q(1`:                          sql.ErrSyntax,
	`EXECUTE q(1) x`:                       sql.ErrSyntax,
	`EXECUTE q 1`:                          sql.ErrSyntax,
	`EXECUTE q($1)`:                        sql.ErrSyntax,
	`EXECUTE q(1 AS a)`:                    sql.ErrSyntax,
	`EXECUTE q(1,)`:                        sql.ErrSyntax,
	`EXECUTE q(b'1111111111111111111111111111111111111111111111111111111111111111')`: sql.ErrSyntax,
	`EXPLAIN EXECUTE`:                      sql.ErrSyntax,
	`DEALLOCATE PREPARE`:                   sql.ErrSyntax,
	`DEALLOCATE PREPARE q r`:               sql.ErrSyntax,
	`SELECT ?`:                             sql.ErrSyntax,
	`SELECT * FROM t WHERE a = ? AND b = ?`: sql.ErrSyntax,
}

func TestParseErrors(t *testing.T) {
	for query, expectedError := range fixturesErrors {
		t.Run(query, func(t *testing.T) {
			require := require.New(t)
			ctx := sql.NewEmptyContext()
			_, err := Parse(ctx, query)
			require.Error(err)
			require.True(expectedError.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	testCases := []struct {
		query string
		msg   string
	}{
		{"PREPARE", "missing statement name after PREPARE"},
		{"PREPARE AS SELECT 1", "missing statement name after PREPARE"},
		{"EXECUTE", "missing statement name after EXECUTE"},
		{"PREPARE q(INTEGR) AS SELECT $1", `unknown parameter type "INTEGR"`},
		{"PREPARE q AS SELECT $0", "parameters are numbered from $1"},
		{"EXECUTE q($1)", "parameter $1 is not allowed in EXECUTE arguments"},
		{"SELECT ?", "parameter $1 outside of PREPARE"},
	}

	for _, tt := range testCases {
		t.Run(tt.query, func(t *testing.T) {
			require := require.New(t)
			_, err := Parse(sql.NewEmptyContext(), tt.query)
			require.Error(err)
			require.Contains(err.Error(), tt.msg)
		})
	}
}

func TestParseSpans(t *testing.T) {
	testCases := []struct {
		query string
		span  string
	}{
		{"SELECT id FROM person", "convert_select"},
		{"INSERT INTO person (id) VALUES (1)", "convert_insert"},
	}

	for _, tt := range testCases {
		t.Run(tt.span, func(t *testing.T) {
			require := require.New(t)

			tracer := mocktracer.New()
			ctx := sql.NewContext(context.Background(), sql.WithTracer(tracer))

			_, err := Parse(ctx, tt.query)
			require.NoError(err)

			spans := tracer.FinishedSpans()
			require.Len(spans, 2)
			require.Equal(tt.span, spans[0].OperationName)
			require.Equal("parse", spans[1].OperationName)
			require.Equal(spans[1].SpanContext.SpanID, spans[0].ParentID)
		})
	}
}
