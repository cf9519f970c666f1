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
	"context"
	"sync"

	"github.com/google/uuid"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Session holds the session data.
type Session interface {
	// ID returns the unique identifier of the session.
	ID() uuid.UUID
	// ConnectionID returns the id of the connection that owns the session.
	ConnectionID() uint32
	// CurrentDatabase returns the database used when table names are not
	// qualified.
	CurrentDatabase() string
	// SetCurrentDatabase sets the current database.
	SetCurrentDatabase(string)
	// PreparedStatements returns the prepared statements of the session.
	PreparedStatements() *PreparedStatements
	// Close tears down the session, dropping all of its prepared statements.
	Close() error
}

// BaseSession is the basic session type.
type BaseSession struct {
	id       uuid.UUID
	connID   uint32
	prepared *PreparedStatements

	mu        sync.RWMutex
	currentDB string
}

// NewSession creates a new session for the given connection. Prepared
// statements are registered following policy.
func NewSession(connID uint32, policy PreparePolicy) *BaseSession {
	return &BaseSession{
		id:       uuid.New(),
		connID:   connID,
		prepared: NewPreparedStatements(policy),
	}
}

// NewBaseSession creates a new empty session with the default prepare policy.
func NewBaseSession() *BaseSession {
	return NewSession(0, PrepareOverwrite)
}

// ID implements the Session interface.
func (s *BaseSession) ID() uuid.UUID { return s.id }

// ConnectionID implements the Session interface.
func (s *BaseSession) ConnectionID() uint32 { return s.connID }

// CurrentDatabase implements the Session interface.
func (s *BaseSession) CurrentDatabase() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentDB
}

// SetCurrentDatabase implements the Session interface.
func (s *BaseSession) SetCurrentDatabase(db string) {
	s.mu.Lock()
	s.currentDB = db
	s.mu.Unlock()
}

// PreparedStatements implements the Session interface.
func (s *BaseSession) PreparedStatements() *PreparedStatements {
	return s.prepared
}

// Close implements the Session interface.
func (s *BaseSession) Close() error {
	n := s.prepared.DropSession()
	logrus.WithFields(logrus.Fields{
		"session":    s.id.String(),
		"statements": n,
	}).Debug("session closed")
	return nil
}

// Context of the query execution.
type Context struct {
	context.Context
	Session
	tracer opentracing.Tracer
	query  string
}

// ContextOption is a function to configure the context.
type ContextOption func(*Context)

// WithSession adds the given session to the context.
func WithSession(s Session) ContextOption {
	return func(ctx *Context) {
		ctx.Session = s
	}
}

// WithTracer adds the given tracer to the context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithQuery adds the given query to the context.
func WithQuery(q string) ContextOption {
	return func(ctx *Context) {
		ctx.query = q
	}
}

// NewContext creates a new query context. Options can be passed to configure
// the context. If some aspect of the context is not configure, the default
// value will be used.
// By default, the context will have an empty base session and a noop tracer.
func NewContext(
	ctx context.Context,
	opts ...ContextOption,
) *Context {
	c := &Context{
		Context: ctx,
		tracer:  opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.Session == nil {
		c.Session = NewBaseSession()
	}

	return c
}

// NewEmptyContext returns a default context with default values.
func NewEmptyContext() *Context { return NewContext(context.TODO()) }

// Query returns the query string being run.
func (c *Context) Query() string { return c.query }

// WithQuery returns a copy of the context with the given query string.
func (c *Context) WithQuery(q string) *Context {
	nc := *c
	nc.query = q
	return &nc
}

// Logger returns a log entry carrying the session and connection fields.
func (c *Context) Logger() *logrus.Entry {
	entry := logrus.WithFields(logrus.Fields{
		"session":      c.ID().String(),
		"connectionID": c.ConnectionID(),
	})
	if c.query != "" {
		entry = entry.WithField("query", c.query)
	}
	return entry
}

// Span creates a new tracing span with the given context.
// It will return the span and a new context that should be passed to all
// childrens of this span.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, c.WithContext(ctx)
}

// WithContext returns a new context with the given underlying context.
func (c *Context) WithContext(ctx context.Context) *Context {
	nc := *c
	nc.Context = ctx
	return &nc
}
