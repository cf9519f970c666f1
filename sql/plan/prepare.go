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

package plan

import (
	"fmt"
	"strings"

	"github.com/src-d/go-prepared-sql/sql"
)

// PrepareInfo is the info of the OK result of a PREPARE.
const PrepareInfo = "Statement prepared"

// DeallocateInfo is the info of the OK result of a DEALLOCATE PREPARE.
const DeallocateInfo = "Statement deallocated"

// PrepareQuery is a node that compiles a statement into a prepared statement
// template. The child is the parsed statement body; it is opaque to the
// analyzer and compiled on its own.
type PrepareQuery struct {
	Name string
	// Types are the declared parameter types, in ordinal order. It is nil
	// when the statement has no type list at all.
	Types []sql.Type
	// Query is the text of the statement body.
	Query string
	Child sql.Node
}

var _ sql.Node = (*PrepareQuery)(nil)

// NewPrepareQuery creates a new PrepareQuery node.
func NewPrepareQuery(name string, types []sql.Type, query string, child sql.Node) *PrepareQuery {
	return &PrepareQuery{Name: name, Types: types, Query: query, Child: child}
}

// Schema implements the Node interface.
func (p *PrepareQuery) Schema() sql.Schema {
	return sql.OkResultSchema
}

// Resolved implements the Resolvable interface.
func (p *PrepareQuery) Resolved() bool {
	return true
}

// Children implements the Node interface.
func (p *PrepareQuery) Children() []sql.Node {
	return nil
}

// WithChildren implements the Node interface.
func (p *PrepareQuery) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) > 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}
	return p, nil
}

func (p *PrepareQuery) String() string {
	if len(p.Types) == 0 {
		return fmt.Sprintf("Prepare(%s)", p.Name)
	}

	types := make([]string, len(p.Types))
	for i, t := range p.Types {
		types[i] = t.Name()
	}
	return fmt.Sprintf("Prepare(%s(%s))", p.Name, strings.Join(types, ", "))
}

// ExecuteQuery is a node that runs a prepared statement with the given
// arguments.
type ExecuteQuery struct {
	Name string
	Args []sql.Expression
}

var _ sql.Node = (*ExecuteQuery)(nil)

// NewExecuteQuery creates a new ExecuteQuery node.
func NewExecuteQuery(name string, args ...sql.Expression) *ExecuteQuery {
	return &ExecuteQuery{Name: name, Args: args}
}

// Schema implements the Node interface.
func (p *ExecuteQuery) Schema() sql.Schema {
	return nil
}

// Resolved implements the Resolvable interface.
func (p *ExecuteQuery) Resolved() bool {
	return true
}

// Children implements the Node interface.
func (p *ExecuteQuery) Children() []sql.Node {
	return nil
}

// WithChildren implements the Node interface.
func (p *ExecuteQuery) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) > 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 0)
	}
	return p, nil
}

func (p *ExecuteQuery) String() string {
	return fmt.Sprintf("Execute(%s(%s))", p.Name, joinExpressions(p.Args))
}

// ExplainSchema is the schema of the rows describing a plan.
var ExplainSchema = sql.Schema{
	{Name: "plan", Type: sql.Text},
}

// ExplainQuery is a node that renders the plan an EXECUTE would run instead
// of running it.
type ExplainQuery struct {
	Execute *ExecuteQuery
}

var _ sql.Node = (*ExplainQuery)(nil)

// NewExplainQuery creates a new ExplainQuery node.
func NewExplainQuery(execute *ExecuteQuery) *ExplainQuery {
	return &ExplainQuery{Execute: execute}
}

// Schema implements the Node interface.
func (e *ExplainQuery) Schema() sql.Schema {
	return ExplainSchema
}

// Resolved implements the Resolvable interface.
func (e *ExplainQuery) Resolved() bool {
	return true
}

// Children implements the Node interface.
func (e *ExplainQuery) Children() []sql.Node {
	return nil
}

// WithChildren implements the Node interface.
func (e *ExplainQuery) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) > 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 0)
	}
	return e, nil
}

func (e *ExplainQuery) String() string {
	return fmt.Sprintf("Explain(%s)", e.Execute)
}

// DeallocateQuery is a node that removes a prepared statement.
type DeallocateQuery struct {
	Name string
}

var _ sql.Node = (*DeallocateQuery)(nil)

// NewDeallocateQuery creates a new DeallocateQuery node.
func NewDeallocateQuery(name string) *DeallocateQuery {
	return &DeallocateQuery{Name: name}
}

// Schema implements the Node interface.
func (d *DeallocateQuery) Schema() sql.Schema {
	return sql.OkResultSchema
}

// Resolved implements the Resolvable interface.
func (d *DeallocateQuery) Resolved() bool {
	return true
}

// Children implements the Node interface.
func (d *DeallocateQuery) Children() []sql.Node {
	return nil
}

// WithChildren implements the Node interface.
func (d *DeallocateQuery) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) > 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(d, len(children), 0)
	}
	return d, nil
}

func (d *DeallocateQuery) String() string {
	return fmt.Sprintf("Deallocate(%s)", d.Name)
}
