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

package sqle

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/analyzer"
	"github.com/src-d/go-prepared-sql/sql/expression"
	"github.com/src-d/go-prepared-sql/sql/expression/function"
	"github.com/src-d/go-prepared-sql/sql/parse"
	"github.com/src-d/go-prepared-sql/sql/plan"
	"github.com/src-d/go-prepared-sql/sql/prepare"
)

// Engine is a SQL engine that compiles prepared statements and binds their
// arguments. Bound plans are handed to the Executor.
type Engine struct {
	Catalog  *sql.Catalog
	Analyzer *analyzer.Analyzer
	// Executor runs bound plans. By default it rejects every plan with
	// sql.ErrNotImplemented.
	Executor sql.Executor
	Config   Config

	cache *lru.Cache[string, sql.Node]
}

// NewDefault creates a new default Engine with an empty catalog.
func NewDefault() *Engine {
	return New(sql.NewCatalog(), nil)
}

// New creates a new Engine using the given catalog and configuration. The
// default functions are registered in the catalog. A nil configuration is
// the same as NewConfig().
func New(c *sql.Catalog, cfg *Config) *Engine {
	if cfg == nil {
		cfg = NewConfig()
	}

	c.Register(function.Defaults...)

	ab := analyzer.NewBuilder(c)
	if cfg.DebugAnalyzer {
		ab = ab.WithDebug()
	}

	var cache *lru.Cache[string, sql.Node]
	if cfg.ParseCacheSize > 0 {
		// only fails for non positive sizes
		cache, _ = lru.New[string, sql.Node](cfg.ParseCacheSize)
	}

	return &Engine{
		Catalog:  c,
		Analyzer: ab.Build(),
		Executor: sql.UnimplementedExecutor,
		Config:   *cfg,
		cache:    cache,
	}
}

// NewFromConfig creates a new Engine whose catalog holds the databases
// declared in the configuration. It also configures the standard logger.
func NewFromConfig(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := ConfigureLogging(cfg.LogLevel); err != nil {
		return nil, err
	}

	dbs, err := cfg.Databases()
	if err != nil {
		return nil, err
	}

	e := New(sql.NewCatalog(), cfg)
	for _, db := range dbs {
		e.AddDatabase(db)
	}
	return e, nil
}

// AddDatabase adds the given database to the catalog. The first database
// added becomes the current database of new sessions, unless one was
// configured.
func (e *Engine) AddDatabase(db sql.Database) {
	e.Catalog.AddDatabase(db)
	if e.Config.CurrentDatabase == "" {
		e.Config.CurrentDatabase = db.Name()
	}
}

// NewSession creates a session for the given connection. Its prepared
// statements follow the configured policy.
func (e *Engine) NewSession(connID uint32) *sql.BaseSession {
	s := sql.NewSession(connID, e.Config.PreparePolicy)
	s.SetCurrentDatabase(e.Config.CurrentDatabase)
	return s
}

// NewContext creates a query context on a new session.
func (e *Engine) NewContext(ctx context.Context, opts ...sql.ContextOption) *sql.Context {
	opts = append([]sql.ContextOption{sql.WithSession(e.NewSession(0))}, opts...)
	return sql.NewContext(ctx, opts...)
}

// Query runs a query in the session of the given context.
func (e *Engine) Query(
	ctx *sql.Context,
	query string,
) (sql.Schema, sql.RowIter, error) {
	ctx = ctx.WithQuery(query)

	parsed, err := e.parse(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	switch n := parsed.(type) {
	case *plan.PrepareQuery:
		if _, err := e.prepare(ctx, n); err != nil {
			return nil, nil, err
		}
		return okResult(plan.PrepareInfo)
	case *plan.ExecuteQuery:
		iter, err := e.execute(ctx, n.Name, n.Args)
		if err != nil {
			return nil, nil, err
		}
		return nil, iter, nil
	case *plan.ExplainQuery:
		bound, err := e.bind(ctx, n.Execute.Name, n.Execute.Args)
		if err != nil {
			return nil, nil, err
		}
		return n.Schema(), sql.RowsToRowIter(bound.Rows()...), nil
	case *plan.DeallocateQuery:
		if err := ctx.PreparedStatements().Deallocate(n.Name); err != nil {
			return nil, nil, err
		}
		statementLogger(ctx, n.Name).Debug("statement deallocated")
		return okResult(plan.DeallocateInfo)
	}

	analyzed, err := e.Analyzer.Analyze(ctx, parsed)
	if err != nil {
		return nil, nil, err
	}

	iter, err := e.Executor.Execute(ctx, analyzed)
	if err != nil {
		return nil, nil, err
	}
	return analyzed.Schema(), iter, nil
}

// Prepare runs the given PREPARE statement and returns the statement it
// registered in the session.
func (e *Engine) Prepare(ctx *sql.Context, query string) (*sql.PreparedStatement, error) {
	ctx = ctx.WithQuery(query)

	parsed, err := e.parse(ctx, query)
	if err != nil {
		return nil, err
	}

	p, ok := parsed.(*plan.PrepareQuery)
	if !ok {
		return nil, sql.ErrSyntax.New("expected a PREPARE statement")
	}
	return e.prepare(ctx, p)
}

// Execute binds the given values to the named prepared statement and runs
// the resulting plan.
func (e *Engine) Execute(ctx *sql.Context, name string, values ...interface{}) (sql.RowIter, error) {
	return e.execute(ctx, name, literals(values))
}

// Explain binds the given values to the named prepared statement and
// returns the resulting plan without running it.
func (e *Engine) Explain(ctx *sql.Context, name string, values ...interface{}) (*prepare.BoundPlan, error) {
	return e.bind(ctx, name, literals(values))
}

func (e *Engine) parse(ctx *sql.Context, query string) (sql.Node, error) {
	if e.cache != nil {
		if n, ok := e.cache.Get(query); ok {
			return n, nil
		}
	}

	n, err := parse.Parse(ctx, query)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Add(query, n)
	}
	return n, nil
}

func (e *Engine) prepare(ctx *sql.Context, p *plan.PrepareQuery) (*sql.PreparedStatement, error) {
	stmt, err := prepare.Compile(ctx, e.Analyzer, p)
	if err != nil {
		return nil, err
	}

	if err := ctx.PreparedStatements().Create(p.Name, stmt); err != nil {
		return nil, err
	}

	statementLogger(ctx, stmt.Name()).WithFields(logrus.Fields{
		"params":      stmt.NumParams(),
		"fingerprint": stmt.Fingerprint(),
	}).Debug("statement prepared")

	return stmt, nil
}

func (e *Engine) bind(ctx *sql.Context, name string, args []sql.Expression) (*prepare.BoundPlan, error) {
	stmt, err := ctx.PreparedStatements().Lookup(name)
	if err != nil {
		return nil, err
	}
	return prepare.Bind(ctx, e.Analyzer, stmt, args)
}

func (e *Engine) execute(ctx *sql.Context, name string, args []sql.Expression) (sql.RowIter, error) {
	bound, err := e.bind(ctx, name, args)
	if err != nil {
		return nil, err
	}

	statementLogger(ctx, bound.Name).Debug("executing bound plan")
	return e.Executor.Execute(ctx, bound.Plan)
}

func okResult(info string) (sql.Schema, sql.RowIter, error) {
	return sql.OkResultSchema, sql.RowsToRowIter(sql.NewOkRow(sql.NewOkResult(info))), nil
}

func literals(values []interface{}) []sql.Expression {
	exprs := make([]sql.Expression, len(values))
	for i, v := range values {
		exprs[i] = expression.NewLiteral(v, sql.ValueType(v))
	}
	return exprs
}
