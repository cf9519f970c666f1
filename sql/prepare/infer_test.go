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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/plan"
)

func TestInferParameterTypes(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected []sql.Type
	}{
		{
			"comparison",
			"PREPARE q AS SELECT id FROM person WHERE first_name = $1 AND age > $2",
			[]sql.Type{sql.Text, sql.Int32},
		},
		{
			"placeholder on the left",
			"PREPARE q AS SELECT id FROM person WHERE $1 <= salary",
			[]sql.Type{sql.Float64},
		},
		{
			"like",
			"PREPARE q AS SELECT id FROM person WHERE first_name LIKE $1",
			[]sql.Type{sql.Text},
		},
		{
			"arithmetic",
			"PREPARE q AS SELECT id FROM person WHERE age + $1 = 10",
			[]sql.Type{sql.Int32},
		},
		{
			"arithmetic between placeholders",
			"PREPARE q AS SELECT id FROM person WHERE salary = $1 * $2",
			[]sql.Type{sql.Float64, sql.Float64},
		},
		{
			"negated placeholder",
			"PREPARE q AS SELECT id FROM person WHERE age = -$1",
			[]sql.Type{sql.Int32},
		},
		{
			"in list",
			"PREPARE q AS SELECT id FROM person WHERE age IN ($1, 10, $2)",
			[]sql.Type{sql.Int32, sql.Int32},
		},
		{
			"placeholder in",
			"PREPARE q AS SELECT id FROM person WHERE $1 IN (first_name, last_name)",
			[]sql.Type{sql.Text},
		},
		{
			"between",
			"PREPARE q AS SELECT id FROM person WHERE salary BETWEEN $1 AND $2",
			[]sql.Type{sql.Float64, sql.Float64},
		},
		{
			"placeholder between",
			"PREPARE q AS SELECT id FROM person WHERE $1 BETWEEN age AND 100",
			[]sql.Type{sql.Int32},
		},
		{
			"function argument",
			"PREPARE q AS SELECT id FROM person WHERE add_one($1) > 3",
			[]sql.Type{sql.Float64},
		},
		{
			"nary function argument",
			"PREPARE q AS SELECT concat(first_name, $1) FROM person",
			[]sql.Type{sql.Text},
		},
		{
			"positional function arguments",
			"PREPARE q AS SELECT lpad($1, $2, $3)",
			[]sql.Type{sql.Text, sql.Int64, sql.Text},
		},
		{
			"limit and offset",
			"PREPARE q AS SELECT id FROM person LIMIT $1 OFFSET $2",
			[]sql.Type{sql.Int64, sql.Int64},
		},
		{
			"insert values",
			"PREPARE q AS INSERT INTO person (id, first_name, salary) VALUES ($1, $2, $3)",
			[]sql.Type{sql.Int32, sql.Text, sql.Float64},
		},
		{
			"insert without column list",
			"PREPARE q AS INSERT INTO orders VALUES ($1, $2, $3)",
			[]sql.Type{sql.Int64, sql.Int32, sql.Decimal},
		},
		{
			"boolean filter",
			"PREPARE q AS SELECT id FROM person WHERE $1",
			[]sql.Type{sql.Boolean},
		},
		{
			"logical operand",
			"PREPARE q AS SELECT id FROM person WHERE NOT $1",
			[]sql.Type{sql.Boolean},
		},
		{
			"join condition",
			"PREPARE q AS SELECT p.id FROM person p JOIN orders o ON o.person_id = p.id WHERE o.amount > $1",
			[]sql.Type{sql.Decimal},
		},
		{
			"same placeholder twice",
			"PREPARE q AS SELECT id FROM person WHERE first_name = $1 OR last_name = $1",
			[]sql.Type{sql.Text},
		},
		{
			"declared",
			"PREPARE q(BIGINT, TEXT) AS SELECT id FROM person WHERE age = $1 AND first_name = $2",
			[]sql.Type{sql.Int64, sql.Text},
		},
		{
			"declared without context",
			"PREPARE q(INT) AS SELECT $1",
			[]sql.Type{sql.Int32},
		},
		{
			"declared cast",
			"PREPARE q(VARCHAR(10)) AS SELECT CAST($1 AS SIGNED)",
			[]sql.Type{sql.Text},
		},
		{
			"no parameters",
			"PREPARE q AS SELECT id FROM person",
			nil,
		},
		{
			"empty declared list",
			"PREPARE q() AS SELECT id FROM person",
			nil,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			stmt, err := compileQuery(t, tt.query)
			require.NoError(err)
			require.Equal(tt.expected, slotTypes(stmt))

			for _, p := range plan.Placeholders(stmt.Plan()) {
				require.True(p.Typed())
				require.Equal(tt.expected[p.Ordinal-1], p.Type())
			}
		})
	}
}

func TestInferDeclaredWins(t *testing.T) {
	require := require.New(t)

	stmt, err := compileQuery(t, "PREPARE q(BIGINT) AS SELECT id FROM person WHERE age = $1")
	require.NoError(err)

	slots := stmt.Slots()
	require.Len(slots, 1)
	require.Equal(1, slots[0].Ordinal)
	require.Equal(sql.Int64, slots[0].Declared)
	require.Equal(sql.Int32, slots[0].Inferred)
	require.Equal(sql.Int64, slots[0].Type)
}

func TestInferDeclaredWinsOverConflict(t *testing.T) {
	require := require.New(t)

	stmt, err := compileQuery(t, "PREPARE q(TEXT) AS SELECT id FROM person WHERE first_name = $1 OR age = $1")
	require.NoError(err)

	slots := stmt.Slots()
	require.Equal(sql.Text, slots[0].Type)
	require.Nil(slots[0].Inferred)
}

func TestInferErrors(t *testing.T) {
	testCases := []struct {
		name  string
		query string
		kind  interface{ Is(error) bool }
		msg   string
	}{
		{
			"ordinal gap",
			"PREPARE q AS SELECT id FROM person WHERE id = $1 AND age = $3",
			sql.ErrParameterOrdinalGap,
			"$2 is missing",
		},
		{
			"more types declared",
			"PREPARE q(INT, INT) AS SELECT id FROM person WHERE id = $1",
			sql.ErrDeclaredParameterCount,
			"2 parameter types declared but 1 parameters referenced",
		},
		{
			"less types declared",
			"PREPARE q(INT) AS SELECT id FROM person WHERE id = $1 AND age = $2",
			sql.ErrDeclaredParameterCount,
			"1 parameter types declared but 2 parameters referenced",
		},
		{
			"types declared without parameters",
			"PREPARE q(INT) AS SELECT id FROM person",
			sql.ErrDeclaredParameterCount,
			"1 parameter types declared but 0 parameters referenced",
		},
		{
			"is null",
			"PREPARE q AS SELECT id FROM person WHERE $1 IS NULL",
			sql.ErrUnsupportedParameterPosition,
			"parameter $1 is not allowed as operand of IS NULL",
		},
		{
			"is not null declared",
			"PREPARE q(INT) AS SELECT id FROM person WHERE $1 IS NOT NULL",
			sql.ErrUnsupportedParameterPosition,
			"operand of IS NOT NULL",
		},
		{
			"negated operand of is null",
			"PREPARE q(INT) AS SELECT id FROM person WHERE -$1 IS NULL",
			sql.ErrUnsupportedParameterPosition,
			"parameter $1 is not allowed as operand of IS NULL",
		},
		{
			"cast operand of is not null",
			"PREPARE q(INT) AS SELECT id FROM person WHERE CAST($1 AS SIGNED) IS NOT NULL",
			sql.ErrUnsupportedParameterPosition,
			"parameter $1 is not allowed as operand of IS NOT NULL",
		},
		{
			"is true",
			"PREPARE q AS SELECT id FROM person WHERE age = $1 AND $2 IS TRUE",
			sql.ErrUnsupportedParameterPosition,
			"parameter $2 is not allowed as operand of IS TRUE",
		},
		{
			"is not false",
			"PREPARE q AS SELECT id FROM person WHERE $1 IS NOT FALSE",
			sql.ErrUnsupportedParameterPosition,
			"operand of IS NOT FALSE",
		},
		{
			"unsupported position before count mismatch",
			"PREPARE q(INT, INT, INT) AS SELECT id FROM person WHERE $1 IS NULL",
			sql.ErrUnsupportedParameterPosition,
			"IS NULL",
		},
		{
			"no context",
			"PREPARE q AS SELECT $1",
			sql.ErrUnresolvableParameterType,
			"could not determine the type of parameter $1",
		},
		{
			"cast gives no type",
			"PREPARE q AS SELECT id FROM person WHERE age = CAST($1 AS SIGNED)",
			sql.ErrUnresolvableParameterType,
			"parameter $1",
		},
		{
			"only placeholders",
			"PREPARE q AS SELECT id FROM person WHERE $1 = $2",
			sql.ErrUnresolvableParameterType,
			"parameter $1",
		},
		{
			"compared with null",
			"PREPARE q AS SELECT id FROM person WHERE $1 = NULL",
			sql.ErrUnresolvableParameterType,
			"parameter $1",
		},
		{
			"conflicting usages",
			"PREPARE q AS SELECT id FROM person WHERE first_name = $1 OR age = $1",
			sql.ErrUnresolvableParameterType,
			"conflicting types TEXT",
		},
		{
			"unknown column",
			"PREPARE q AS SELECT id FROM person WHERE missing = $1",
			sql.ErrColumnNotFound,
			"missing",
		},
		{
			"unknown column without relation",
			"PREPARE q AS SELECT a",
			sql.ErrColumnNotFound,
			`"a"`,
		},
		{
			"unknown table",
			"PREPARE q AS SELECT id FROM nope WHERE id = $1",
			sql.ErrTableNotFound,
			"nope",
		},
		{
			"unknown function",
			"PREPARE q AS SELECT id FROM person WHERE nope($1) = 1",
			sql.ErrFunctionNotFound,
			"nope",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := compileQuery(t, tt.query)
			require.Error(err)
			require.True(tt.kind.Is(err), "unexpected error: %s", err)
			require.Contains(err.Error(), tt.msg)
		})
	}
}

func TestCountMismatchKind(t *testing.T) {
	require := require.New(t)

	for _, q := range []string{
		"PREPARE q AS SELECT id FROM person WHERE id = $2",
		"PREPARE q(INT, INT) AS SELECT id FROM person WHERE id = $1",
	} {
		_, err := compileQuery(t, q)
		require.True(sql.ErrParameterCountMismatch.Is(err), "unexpected error: %s", err)
		require.Contains(err.Error(), `prepared statement "q"`)
	}
}

func TestCompileFingerprint(t *testing.T) {
	require := require.New(t)

	a, err := compileQuery(t, "PREPARE a AS SELECT id FROM person WHERE age = $1")
	require.NoError(err)
	b, err := compileQuery(t, "PREPARE b AS SELECT first_name FROM person LIMIT $1")
	require.NoError(err)
	c, err := compileQuery(t, "PREPARE c AS SELECT id FROM orders WHERE id = $1")
	require.NoError(err)

	require.NotZero(a.Fingerprint())
	require.Equal(a.Fingerprint(), b.Fingerprint())
	require.NotEqual(a.Fingerprint(), c.Fingerprint())
}

func TestCompileKeepsQuery(t *testing.T) {
	require := require.New(t)

	stmt, err := compileQuery(t, "PREPARE MyStmt (INT) AS SELECT id FROM person WHERE id = $1")
	require.NoError(err)
	require.Equal("mystmt", stmt.Name())
	require.Equal("SELECT id FROM person WHERE id = $1", stmt.Query())
	require.Equal(1, stmt.NumParams())
}
