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

package memory

import (
	"fmt"
	"strings"

	"github.com/src-d/go-prepared-sql/sql"
)

// Table is an in-memory table definition.
type Table struct {
	name   string
	schema sql.Schema
}

var _ sql.Table = (*Table)(nil)

// NewTable creates a new Table with the given name and schema. Columns
// without a source are given the table name as source.
func NewTable(name string, schema sql.Schema) *Table {
	s := make(sql.Schema, len(schema))
	for i, c := range schema {
		col := *c
		if col.Source == "" {
			col.Source = name
		}
		s[i] = &col
	}

	return &Table{
		name:   name,
		schema: s,
	}
}

// Name implements the sql.Table interface.
func (t *Table) Name() string {
	return t.name
}

// Schema implements the sql.Table interface.
func (t *Table) Schema() sql.Schema {
	return t.schema
}

func (t *Table) String() string {
	cols := make([]string, len(t.schema))
	for i, c := range t.schema {
		cols[i] = fmt.Sprintf("%s %s", c.Name, c.Type)
		if !c.Nullable {
			cols[i] += " NOT NULL"
		}
	}
	return fmt.Sprintf("%s(%s)", t.name, strings.Join(cols, ", "))
}
