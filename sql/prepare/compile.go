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

// Package prepare compiles PREPARE statements into templates with typed
// parameter placeholders and binds EXECUTE arguments into those templates.
package prepare

import (
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/analyzer"
	"github.com/src-d/go-prepared-sql/sql/plan"
)

// Compile resolves the body of a PREPARE, infers the types of its
// parameters and returns the resulting template. The prepared statements of
// the session are not modified.
func Compile(ctx *sql.Context, a *analyzer.Analyzer, p *plan.PrepareQuery) (*sql.PreparedStatement, error) {
	span, ctx := ctx.Span("prepare", opentracing.Tags{
		"statement": p.Name,
		"declared":  len(p.Types),
	})
	defer span.Finish()

	analyzed, err := a.Analyze(ctx, p.Child)
	if err != nil {
		return nil, err
	}

	scan, err := ScanPlaceholders(p.Name, analyzed)
	if err != nil {
		return nil, err
	}

	slots, err := InferParameterTypes(p.Name, p.Types, scan)
	if err != nil {
		return nil, err
	}

	if err := validateSlots(slots); err != nil {
		return nil, err
	}

	typed, err := applySlotTypes(analyzed, slots)
	if err != nil {
		return nil, err
	}

	if err := validateTemplate(typed, slots); err != nil {
		return nil, err
	}

	stmt, err := newTemplate(p.Name, p.Query, typed, slots)
	if err != nil {
		return nil, err
	}

	span.SetTag("params", stmt.NumParams())
	ctx.Logger().WithFields(logrus.Fields{
		"statement": stmt.Name(),
		"params":    stmt.NumParams(),
	}).Debug("statement compiled")

	return stmt, nil
}
