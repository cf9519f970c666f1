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
	"testing"

	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	require := require.New(t)

	s := NewSession(7, PrepareError)
	require.Equal(uint32(7), s.ConnectionID())
	require.NotEqual(NewBaseSession().ID(), s.ID())
	require.Equal(PrepareError, s.PreparedStatements().Policy())

	require.Empty(s.CurrentDatabase())
	s.SetCurrentDatabase("mydb")
	require.Equal("mydb", s.CurrentDatabase())
}

func TestSessionCloseDropsStatements(t *testing.T) {
	require := require.New(t)

	s := NewBaseSession()
	require.NoError(s.PreparedStatements().Create("q", NewPreparedStatement("q", "SELECT 1", nil, nil, 0)))
	require.Equal(1, s.PreparedStatements().Len())

	require.NoError(s.Close())
	require.Zero(s.PreparedStatements().Len())
}

func TestNewContext(t *testing.T) {
	require := require.New(t)

	ctx := NewEmptyContext()
	require.NotNil(ctx.Session)
	require.Equal(PrepareOverwrite, ctx.PreparedStatements().Policy())

	s := NewSession(1, PrepareError)
	ctx = NewContext(context.Background(), WithSession(s), WithQuery("SELECT 1"))
	require.Equal(s.ID(), ctx.ID())
	require.Equal("SELECT 1", ctx.Query())

	other := ctx.WithQuery("SELECT 2")
	require.Equal("SELECT 2", other.Query())
	require.Equal("SELECT 1", ctx.Query())
}

func TestContextLogger(t *testing.T) {
	require := require.New(t)

	s := NewSession(3, PrepareOverwrite)
	ctx := NewContext(context.Background(), WithSession(s))

	entry := ctx.Logger()
	require.Equal(s.ID().String(), entry.Data["session"])
	require.Equal(uint32(3), entry.Data["connectionID"])
	require.NotContains(entry.Data, "query")

	entry = ctx.WithQuery("SELECT 1").Logger()
	require.Equal("SELECT 1", entry.Data["query"])
}

func TestContextSpan(t *testing.T) {
	require := require.New(t)

	tracer := mocktracer.New()
	ctx := NewContext(context.Background(), WithTracer(tracer))

	parent, ctx := ctx.Span("prepare")
	child, _ := ctx.Span("bind")
	child.Finish()
	parent.Finish()

	spans := tracer.FinishedSpans()
	require.Len(spans, 2)
	require.Equal("bind", spans[0].OperationName)
	require.Equal("prepare", spans[1].OperationName)
	require.Equal(spans[1].SpanContext.SpanID, spans[0].ParentID)
}
