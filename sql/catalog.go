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
	"sort"
	"strings"
	"sync"
)

// Catalog holds databases and functions.
type Catalog struct {
	FunctionRegistry

	mu        sync.RWMutex
	databases []Database
}

// NewCatalog returns a new empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		FunctionRegistry: NewFunctionRegistry(),
	}
}

// AllDatabases returns all databases in the catalog.
func (c *Catalog) AllDatabases() []Database {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Database, len(c.databases))
	copy(result, c.databases)
	return result
}

// AddDatabase adds a new database to the catalog.
func (c *Catalog) AddDatabase(db Database) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, d := range c.databases {
		if strings.EqualFold(d.Name(), db.Name()) {
			c.databases[i] = db
			return
		}
	}
	c.databases = append(c.databases, db)
}

// Database returns the database with the given name.
func (c *Catalog) Database(db string) (Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, d := range c.databases {
		if strings.EqualFold(d.Name(), db) {
			return d, nil
		}
	}

	return nil, ErrDatabaseNotFound.New(db)
}

// Table returns the table in the given database with the given name.
func (c *Catalog) Table(db, table string) (Table, error) {
	d, err := c.Database(db)
	if err != nil {
		return nil, err
	}

	tables := d.Tables()
	if t, ok := tables[table]; ok {
		return t, nil
	}

	for name, t := range tables {
		if strings.EqualFold(name, table) {
			return t, nil
		}
	}

	return nil, ErrTableNotFound.New(table)
}

// Function is a function that can be called from SQL with a fixed or
// variable number of arguments.
type Function interface {
	// FunctionName returns the name of the function.
	FunctionName() string
	// NewInstance returns a new instance of the function applied to args.
	NewInstance(args []Expression) (Expression, error)
}

// Function0 is a function with no arguments.
type Function0 struct {
	Name string
	Fn   func() Expression
}

// Function1 is a function with one argument.
type Function1 struct {
	Name string
	Fn   func(e Expression) Expression
}

// Function2 is a function with two arguments.
type Function2 struct {
	Name string
	Fn   func(e1, e2 Expression) Expression
}

// FunctionN is a function with a variable number of arguments. It is up to
// Fn to validate them.
type FunctionN struct {
	Name string
	Fn   func(...Expression) (Expression, error)
}

// FunctionName implements the Function interface.
func (f Function0) FunctionName() string { return f.Name }

// FunctionName implements the Function interface.
func (f Function1) FunctionName() string { return f.Name }

// FunctionName implements the Function interface.
func (f Function2) FunctionName() string { return f.Name }

// FunctionName implements the Function interface.
func (f FunctionN) FunctionName() string { return f.Name }

// NewInstance implements the Function interface.
func (f Function0) NewInstance(args []Expression) (Expression, error) {
	if len(args) != 0 {
		return nil, ErrInvalidArgumentNumber.New(f.Name, 0, len(args))
	}
	return f.Fn(), nil
}

// NewInstance implements the Function interface.
func (f Function1) NewInstance(args []Expression) (Expression, error) {
	if len(args) != 1 {
		return nil, ErrInvalidArgumentNumber.New(f.Name, 1, len(args))
	}
	return f.Fn(args[0]), nil
}

// NewInstance implements the Function interface.
func (f Function2) NewInstance(args []Expression) (Expression, error) {
	if len(args) != 2 {
		return nil, ErrInvalidArgumentNumber.New(f.Name, 2, len(args))
	}
	return f.Fn(args[0], args[1]), nil
}

// NewInstance implements the Function interface.
func (f FunctionN) NewInstance(args []Expression) (Expression, error) {
	return f.Fn(args...)
}

// FunctionRegistry is used to register functions. Names are case
// insensitive.
type FunctionRegistry map[string]Function

// NewFunctionRegistry creates a new empty FunctionRegistry.
func NewFunctionRegistry() FunctionRegistry {
	return make(FunctionRegistry)
}

// Register registers the given functions under their names.
func (r FunctionRegistry) Register(fns ...Function) {
	for _, fn := range fns {
		r[strings.ToLower(fn.FunctionName())] = fn
	}
}

// Function returns the function with the given name.
func (r FunctionRegistry) Function(name string) (Function, error) {
	if fn, ok := r[strings.ToLower(name)]; ok {
		return fn, nil
	}
	return nil, ErrFunctionNotFound.New(name)
}

// FunctionNames returns the sorted names of all registered functions.
func (r FunctionRegistry) FunctionNames() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
