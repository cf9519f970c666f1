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

	"github.com/stretchr/testify/require"
)

func TestSchemaFingerprint(t *testing.T) {
	require := require.New(t)

	person := &testTable{name: "person", schema: Schema{
		{Name: "id", Type: Int32},
		{Name: "name", Type: Text, Nullable: true},
	}}
	orders := &testTable{name: "orders", schema: Schema{
		{Name: "id", Type: Int64},
	}}

	a, err := SchemaFingerprint(person, orders)
	require.NoError(err)
	b, err := SchemaFingerprint(orders, person)
	require.NoError(err)
	require.Equal(a, b)

	upper := &testTable{name: "PERSON", schema: Schema{
		{Name: "ID", Type: Int32},
		{Name: "Name", Type: Text, Nullable: true},
	}}
	c, err := SchemaFingerprint(upper, orders)
	require.NoError(err)
	require.Equal(a, c)

	changed := &testTable{name: "person", schema: Schema{
		{Name: "id", Type: Int64},
		{Name: "name", Type: Text, Nullable: true},
	}}
	d, err := SchemaFingerprint(changed, orders)
	require.NoError(err)
	require.NotEqual(a, d)

	e, err := SchemaFingerprint(person)
	require.NoError(err)
	require.NotEqual(a, e)
}
