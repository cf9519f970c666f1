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

// Package memory provides in-memory databases and tables. Tables only
// carry a schema, which is all the analyzer needs to resolve statements
// against them.
package memory

import (
	"sort"
	"strings"

	"github.com/src-d/go-prepared-sql/sql"
)

// Database is an in-memory database.
type Database struct {
	name   string
	tables map[string]sql.Table
}

var _ sql.Database = (*Database)(nil)

// NewDatabase creates a new database with the given name.
func NewDatabase(name string) *Database {
	return &Database{
		name:   name,
		tables: map[string]sql.Table{},
	}
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.name
}

// Tables returns all tables in the database.
func (d *Database) Tables() map[string]sql.Table {
	return d.tables
}

// TableNames returns the sorted names of the tables in the database.
func (d *Database) TableNames() []string {
	names := make([]string, 0, len(d.tables))
	for k := range d.tables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AddTable adds a new table to the database.
func (d *Database) AddTable(name string, t sql.Table) {
	d.tables[name] = t
}

// CreateTable creates a table with the given name and schema.
func (d *Database) CreateTable(name string, schema sql.Schema) error {
	for existing := range d.tables {
		if strings.EqualFold(existing, name) {
			return sql.ErrTableAlreadyExists.New(name)
		}
	}

	d.tables[name] = NewTable(name, schema)
	return nil
}

// DropTable drops the table with the given name.
func (d *Database) DropTable(name string) error {
	_, ok := d.tables[name]
	if !ok {
		return sql.ErrTableNotFound.New(name)
	}

	delete(d.tables, name)
	return nil
}
