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

import "fmt"

// Nameable is something that has a name.
type Nameable interface {
	// Name returns the name.
	Name() string
}

// Tableable is something that has a table.
type Tableable interface {
	// Table returns the table name.
	Table() string
}

// Resolvable is something that can be resolved or not.
type Resolvable interface {
	// Resolved returns whether the node is resolved.
	Resolved() bool
}

// Expression is a combination of one or more SQL expressions.
type Expression interface {
	Resolvable
	fmt.Stringer
	// Type returns the expression type.
	Type() Type
	// IsNullable returns whether the expression can be null.
	IsNullable() bool
	// Eval evaluates the given row and returns a result.
	Eval(*Context, Row) (interface{}, error)
	// Children returns the children expressions of this expression.
	Children() []Expression
	// WithChildren returns a copy of the expression with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(...Expression) (Expression, error)
}

// FunctionExpression is an Expression that represents a function.
type FunctionExpression interface {
	Expression
	FunctionName() string
}

// ExpectedTyper is implemented by expressions and nodes that know the type
// they expect at one of their expression positions: function arguments,
// LIMIT and OFFSET counts, or the values of an INSERT.
type ExpectedTyper interface {
	// ExpectedType returns the type expected at the i-th position and
	// whether there is one.
	ExpectedType(i int) (Type, bool)
}

// Node is a node in the execution plan tree.
type Node interface {
	Resolvable
	fmt.Stringer
	// Schema of the node.
	Schema() Schema
	// Children nodes.
	Children() []Node
	// WithChildren returns a copy of the node with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(...Node) (Node, error)
}

// Expressioner is a node that contains expressions.
type Expressioner interface {
	// Expressions returns the list of expressions contained by the node.
	Expressions() []Expression
	// WithExpressions returns a copy of the node with expressions replaced.
	// It will return an error if the number of expressions is different than
	// the current number of expressions. They must be given in the same order
	// as they are returned by Expressions.
	WithExpressions(...Expression) (Node, error)
}

// Table represents the backend of a SQL table.
type Table interface {
	Nameable
	fmt.Stringer
	Schema() Schema
}

// Database represents the database.
type Database interface {
	Nameable
	// Tables returns the information of all tables.
	Tables() map[string]Table
}

// Executor runs a fully bound plan and produces its rows.
type Executor interface {
	Execute(ctx *Context, n Node) (RowIter, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(*Context, Node) (RowIter, error)

// Execute implements the Executor interface.
func (f ExecutorFunc) Execute(ctx *Context, n Node) (RowIter, error) {
	return f(ctx, n)
}

// UnimplementedExecutor rejects every plan with ErrNotImplemented.
var UnimplementedExecutor Executor = ExecutorFunc(func(_ *Context, n Node) (RowIter, error) {
	return nil, ErrNotImplemented.New("execution of a bound plan")
})
