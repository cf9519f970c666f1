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

func TestScanPlaceholders(t *testing.T) {
	require := require.New(t)

	eq := expression.NewEquals(
		expression.NewGetField(0, sql.Int32, "id", false),
		expression.NewPlaceholder(2),
	)
	sum := expression.NewPlus(expression.NewPlaceholder(1), expression.NewLiteral(int64(1), sql.Int64))
	node := plan.NewProject(
		[]sql.Expression{sum, expression.NewPlaceholder(2)},
		plan.NewFilter(eq, plan.NewResolvedDualTable()),
	)

	scan, err := ScanPlaceholders("q", node)
	require.NoError(err)
	require.Equal([]int{1, 2}, scan.Ordinals)
	require.Len(scan.Occurrences[1], 1)
	require.Len(scan.Occurrences[2], 2)

	occ := scan.Occurrences[1][0]
	require.Equal(0, occ.ExprIndex)
	parent, ok := occ.Parent()
	require.True(ok)
	require.Equal(sum, parent.Expr)
	require.Equal(0, parent.Index)

	var filterOcc Occurrence
	for _, o := range scan.Occurrences[2] {
		if _, ok := o.Node.(*plan.Filter); ok {
			filterOcc = o
		}
	}
	require.NotNil(filterOcc.Node)
	require.Len(filterOcc.Path, 1)
	require.Equal(1, filterOcc.Path[0].Index)

	for _, o := range scan.Occurrences[2] {
		if _, ok := o.Node.(*plan.Project); ok {
			_, ok := o.Parent()
			require.False(ok)
			require.Equal(1, o.ExprIndex)
		}
	}
}

func TestScanPlaceholdersNearestFirst(t *testing.T) {
	require := require.New(t)

	p := expression.NewPlaceholder(1)
	minus := expression.NewUnaryMinus(p)
	sum := expression.NewPlus(expression.NewLiteral(int64(1), sql.Int64), minus)
	node := plan.NewFilter(
		expression.NewGreaterThan(sum, expression.NewLiteral(int64(0), sql.Int64)),
		plan.NewResolvedDualTable(),
	)

	scan, err := ScanPlaceholders("q", node)
	require.NoError(err)

	path := scan.Occurrences[1][0].Path
	require.Len(path, 3)
	require.Equal(minus, path[0].Expr)
	require.Equal(sum, path[1].Expr)
	require.Equal(1, path[1].Index)
	require.IsType(&expression.Comparison{}, path[2].Expr)
}

func TestScanPlaceholdersNone(t *testing.T) {
	require := require.New(t)

	scan, err := ScanPlaceholders("q", plan.NewResolvedDualTable())
	require.NoError(err)
	require.Empty(scan.Ordinals)
}

func TestScanPlaceholdersGap(t *testing.T) {
	testCases := []struct {
		ordinals []int
		msg      string
	}{
		{[]int{1, 3}, "$3 is referenced but $2 is missing"},
		{[]int{2}, "$2 is referenced but $1 is missing"},
		{[]int{1, 2, 5, 5}, "$5 is referenced but $3 is missing"},
	}

	for _, tt := range testCases {
		t.Run(tt.msg, func(t *testing.T) {
			require := require.New(t)

			var exprs []sql.Expression
			for _, ord := range tt.ordinals {
				exprs = append(exprs, expression.NewPlaceholder(ord))
			}

			_, err := ScanPlaceholders("q", plan.NewProject(exprs, plan.NewResolvedDualTable()))
			require.Error(err)
			require.True(sql.ErrParameterCountMismatch.Is(err))
			require.True(sql.ErrParameterOrdinalGap.Is(err))
			require.Contains(err.Error(), tt.msg)
			require.Contains(err.Error(), `"q"`)
		})
	}
}
