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
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/plan"
)

const personByAgeAndName = "PREPARE q AS SELECT id FROM person WHERE age = $1 AND first_name = $2"

func bindQuery(t *testing.T, prepare, execute string) (*sql.PreparedStatement, *BoundPlan, error) {
	t.Helper()

	stmt, err := compileQuery(t, prepare)
	require.NoError(t, err)

	bound, err := Bind(newTestContext(), newTestAnalyzer(), stmt, parseArgs(t, execute))
	return stmt, bound, err
}

func TestBind(t *testing.T) {
	testCases := []struct {
		name    string
		prepare string
		execute string
		params  string
	}{
		{
			"literals",
			personByAgeAndName,
			"EXECUTE q(21, 'Foo')",
			`params=[21, "Foo"]`,
		},
		{
			"constant expressions",
			personByAgeAndName,
			"EXECUTE q(10*2 + 1, concat('F', 'oo'))",
			`params=[21, "Foo"]`,
		},
		{
			"coerced to the parameter type",
			personByAgeAndName,
			"EXECUTE q('21', 42)",
			`params=[21, "42"]`,
		},
		{
			"null",
			personByAgeAndName,
			"EXECUTE q(NULL, 'Foo')",
			`params=[NULL, "Foo"]`,
		},
		{
			"functions",
			personByAgeAndName,
			"EXECUTE q(length('abcd'), upper('foo'))",
			`params=[4, "FOO"]`,
		},
		{
			"floats",
			"PREPARE q AS SELECT id FROM person WHERE salary > $1",
			"EXECUTE q(3)",
			`params=[3.0]`,
		},
		{
			"udf",
			"PREPARE q AS SELECT id FROM person WHERE salary > $1",
			"EXECUTE q(multiply_two(add_one(1.5)))",
			`params=[5.0]`,
		},
		{
			"booleans",
			"PREPARE q AS SELECT id FROM person WHERE $1",
			"EXECUTE q(true)",
			`params=[true]`,
		},
		{
			"bit values",
			personByAgeAndName,
			"EXECUTE q(b'101', 'Foo')",
			`params=[5, "Foo"]`,
		},
		{
			"empty bit value",
			personByAgeAndName,
			"EXECUTE q(b'', 'Foo')",
			`params=[0, "Foo"]`,
		},
		{
			"zero limit",
			"PREPARE q AS SELECT id FROM person LIMIT $1 OFFSET $2",
			"EXECUTE q(0, 0)",
			`params=[0, 0]`,
		},
		{
			"no parameters",
			"PREPARE q AS SELECT id FROM person",
			"EXECUTE q",
			`params=[]`,
		},
		{
			"empty arguments",
			"PREPARE q AS SELECT id FROM person",
			"EXECUTE q()",
			`params=[]`,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, bound, err := bindQuery(t, tt.prepare, tt.execute)
			require.NoError(err)
			require.Equal("Execute: q "+tt.params, bound.String())
			require.False(plan.HasPlaceholders(bound.Plan))
		})
	}
}

func TestBindSubstitutesEveryOccurrence(t *testing.T) {
	require := require.New(t)

	stmt, bound, err := bindQuery(
		t,
		"PREPARE q AS SELECT id FROM person WHERE first_name = $1 OR last_name = $1 LIMIT $2",
		"EXECUTE q('Foo', 3)",
	)
	require.NoError(err)

	var literals []string
	for _, r := range bound.Rows() {
		literals = append(literals, r[0].(string))
	}
	require.Equal("Execute: q params=[\"Foo\", 3]", literals[0])

	require.Equal(
		`Limit(3)
 └─ Project(person.id)
     └─ Filter(((person.first_name = "Foo") OR (person.last_name = "Foo")))
         └─ Table(person)
`,
		bound.Plan.String(),
	)

	require.Len(plan.Placeholders(stmt.Plan()), 3, "the template keeps its placeholders")
}

func TestBindRows(t *testing.T) {
	require := require.New(t)

	bound := &BoundPlan{
		Name:   "q",
		Params: []*expression.Literal{expression.NewLiteral(int32(1), sql.Int32)},
		Plan:   plan.NewProject([]sql.Expression{expression.NewLiteral(int32(1), sql.Int32)}, plan.NewResolvedDualTable()),
	}

	require.Equal([]sql.Row{
		{"Execute: q params=[1]"},
		{"Project(1)"},
		{" └─ Table(dual)"},
	}, bound.Rows())
}

func TestBindErrors(t *testing.T) {
	testCases := []struct {
		name    string
		execute string
		kind    interface{ Is(error) bool }
		msg     string
	}{
		{
			"too few arguments",
			"EXECUTE q(21)",
			sql.ErrArgumentCountMismatch,
			"2 arguments expected, 1 received",
		},
		{
			"too many arguments",
			"EXECUTE q(21, 'Foo', 3)",
			sql.ErrArgumentCountMismatch,
			"2 arguments expected, 3 received",
		},
		{
			"no arguments",
			"EXECUTE q",
			sql.ErrParameterCountMismatch,
			"2 arguments expected, 0 received",
		},
		{
			"count checked before evaluation",
			"EXECUTE q(a)",
			sql.ErrArgumentCountMismatch,
			"1 received",
		},
		{
			"column reference",
			"EXECUTE q(a, 'Foo')",
			sql.ErrColumnNotFound,
			`"a"`,
		},
		{
			"qualified column reference",
			"EXECUTE q(person.age, 'Foo')",
			sql.ErrColumnNotFound,
			"person.age",
		},
		{
			"column inside expression",
			"EXECUTE q(1, concat('x', first_name))",
			sql.ErrColumnNotFound,
			"first_name",
		},
		{
			"unknown function",
			"EXECUTE q(nope(1), 'Foo')",
			sql.ErrFunctionNotFound,
			"nope",
		},
		{
			"not coercible",
			"EXECUTE q('abc', 'Foo')",
			sql.ErrTypeCoercion,
			"abc",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			stmt, _, err := bindQuery(t, personByAgeAndName, tt.execute)
			require.Error(err)
			require.True(tt.kind.Is(err), "unexpected error: %s", err)
			require.Contains(err.Error(), tt.msg)
			require.Len(plan.Placeholders(stmt.Plan()), 2)
		})
	}
}

func TestBindNegativeRowCount(t *testing.T) {
	testCases := []struct {
		name    string
		prepare string
		execute string
	}{
		{"limit", "PREPARE q AS SELECT id FROM person LIMIT $1 OFFSET $2", "EXECUTE q(-1, 2)"},
		{"offset", "PREPARE q AS SELECT id FROM person LIMIT $1 OFFSET $2", "EXECUTE q(1, 1 - 3)"},
		{"declared type", "PREPARE q(INT) AS SELECT id FROM person LIMIT $1", "EXECUTE q(-5)"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, _, err := bindQuery(t, tt.prepare, tt.execute)
			require.Error(err)
			require.True(sql.ErrTypeCoercion.Is(err), "unexpected error: %s", err)
			require.Contains(err.Error(), "non negative row count")
		})
	}

	require.NoError(t, checkRowCount(expression.NewLiteral(int64(3), sql.Int64)))
}
