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

package sql

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTypeFromName(t *testing.T) {
	testCases := map[string]Type{
		"TINYINT":  Int32,
		"smallint": Int32,
		"Int":      Int32,
		"INTEGER":  Int32,
		"bigint":   Int64,
		"FLOAT":    Float64,
		"real":     Float64,
		"DOUBLE":   Float64,
		"decimal":  Decimal,
		"NUMERIC":  Decimal,
		"text":     Text,
		"VARCHAR":  Text,
		"char":     Text,
		"STRING":   Text,
		"boolean":  Boolean,
		" BOOL ":   Boolean,
	}

	for name, expected := range testCases {
		t.Run(name, func(t *testing.T) {
			typ, err := TypeFromName(name)
			require.NoError(t, err)
			require.Equal(t, expected, typ)
		})
	}

	_, err := TypeFromName("BLOB")
	require.True(t, ErrUnknownType.Is(err))
}

func TestCoerce(t *testing.T) {
	testCases := []struct {
		value    interface{}
		to       Type
		expected interface{}
	}{
		{int64(21), Int32, int32(21)},
		{"21", Int32, int32(21)},
		{" 21 ", Int64, int64(21)},
		{float64(3), Int32, int32(3)},
		{decimal.NewFromInt(7), Int64, int64(7)},
		{int64(3), Float64, float64(3)},
		{"1.5", Float64, 1.5},
		{decimal.RequireFromString("2.5"), Float64, 2.5},
		{int64(3), Decimal, decimal.NewFromInt(3)},
		{"10.25", Decimal, decimal.RequireFromString("10.25")},
		{int64(42), Text, "42"},
		{1.5, Text, "1.5"},
		{decimal.RequireFromString("1.10"), Text, "1.1"},
		{"true", Boolean, true},
		{int64(0), Boolean, false},
		{nil, Int32, nil},
		{nil, Text, nil},
	}

	for _, tt := range testCases {
		t.Run(tt.to.Name(), func(t *testing.T) {
			require := require.New(t)
			v, err := Coerce(tt.value, tt.to)
			require.NoError(err)
			require.Equal(tt.expected, v)
		})
	}
}

func TestCoerceErrors(t *testing.T) {
	testCases := []struct {
		value interface{}
		to    Type
	}{
		{"abc", Int32},
		{int64(1) << 40, Int32},
		{1.5, Int64},
		{true, Int64},
		{"abc", Float64},
		{true, Float64},
		{"abc", Decimal},
		{"maybe", Boolean},
		{1.5, Boolean},
		{int64(1), Unknown},
		{int64(1), Null},
	}

	for _, tt := range testCases {
		t.Run(tt.to.Name(), func(t *testing.T) {
			_, err := Coerce(tt.value, tt.to)
			require.Error(t, err)
			require.True(t, ErrTypeCoercion.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestCompare(t *testing.T) {
	testCases := []struct {
		typ      Type
		a, b     interface{}
		expected int
	}{
		{Int32, int32(1), int64(2), -1},
		{Int64, "3", int64(3), 0},
		{Float64, 2.5, int64(2), 1},
		{Decimal, "1.5", 1.5, 0},
		{Text, "a", "b", -1},
		{Boolean, true, false, 1},
		{Int32, nil, int32(1), -1},
		{Int32, nil, nil, 0},
	}

	for _, tt := range testCases {
		t.Run(tt.typ.Name(), func(t *testing.T) {
			cmp, err := tt.typ.Compare(tt.a, tt.b)
			require.NoError(t, err)
			require.Equal(t, tt.expected, cmp)
		})
	}
}

func TestValueType(t *testing.T) {
	require := require.New(t)

	require.Equal(Null, ValueType(nil))
	require.Equal(Int32, ValueType(int32(1)))
	require.Equal(Int64, ValueType(1))
	require.Equal(Float64, ValueType(1.5))
	require.Equal(Decimal, ValueType(decimal.NewFromInt(1)))
	require.Equal(Text, ValueType("a"))
	require.Equal(Boolean, ValueType(true))
	require.Equal(Unknown, ValueType([]byte("a")))
}

func TestTypePredicates(t *testing.T) {
	require := require.New(t)

	require.True(IsConcrete(Int32))
	require.False(IsConcrete(Unknown))
	require.False(IsConcrete(Null))
	require.False(IsConcrete(nil))
	require.True(IsUnknown(Unknown))
	require.True(IsInteger(Int64))
	require.True(IsFloat(Float64))
	require.True(IsDecimal(Decimal))
	require.True(IsNumber(Decimal))
	require.False(IsNumber(Text))
	require.True(IsText(Text))
	require.True(IsBoolean(Boolean))
}
