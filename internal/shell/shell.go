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

// Package shell implements the interactive prompt of prepsql.
package shell

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"

	sqle "github.com/src-d/go-prepared-sql"
	"github.com/src-d/go-prepared-sql/sql"
)

// Prompt is the prompt of the interactive shell.
const Prompt = "prepsql> "

// Shell runs statements in a single session of an engine and prints their
// results.
type Shell struct {
	engine *sqle.Engine
	ctx    *sql.Context
	out    io.Writer
}

// New creates a shell writing to out.
func New(e *sqle.Engine, ctx *sql.Context, out io.Writer) *Shell {
	return &Shell{engine: e, ctx: ctx, out: out}
}

// Exec runs a statement or a shell command and prints the result.
func (s *Shell) Exec(line string) error {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, `\`):
		return s.command(line)
	}

	schema, iter, err := s.engine.Query(s.ctx, line)
	if err != nil {
		return err
	}

	rows, err := sql.RowIterToRows(iter)
	if err != nil {
		return err
	}

	s.print(schema, rows)
	return nil
}

// Run reads statements from rl until end of input or "exit". Errors of
// single statements are printed and do not stop the shell.
func (s *Shell) Run(rl *readline.Instance) error {
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if l := strings.TrimSpace(line); l == "exit" || l == "quit" {
			break
		}

		if err := s.Exec(line); err != nil {
			fmt.Fprintf(s.out, "ERROR: %s\n", err)
		}
	}

	fmt.Fprintln(s.out, "Bye!")
	return nil
}

func (s *Shell) command(line string) error {
	switch line {
	case `\statements`:
		for _, name := range s.ctx.PreparedStatements().Names() {
			stmt, err := s.ctx.PreparedStatements().Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%s %s\n", name, slotList(stmt.Slots()))
		}
		return nil
	case `\tables`:
		for _, db := range s.engine.Catalog.AllDatabases() {
			tables := db.Tables()
			names := make([]string, 0, len(tables))
			for name := range tables {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Fprintf(s.out, "%s.%s\n", db.Name(), tables[name])
			}
		}
		return nil
	case `\help`:
		fmt.Fprintln(s.out, `\statements  list the prepared statements of the session`)
		fmt.Fprintln(s.out, `\tables      list the tables of the catalog`)
		fmt.Fprintln(s.out, `exit         leave the shell`)
		return nil
	}
	return fmt.Errorf("unknown command %s, try \\help", line)
}

func slotList(slots []sql.ParameterSlot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s *Shell) print(schema sql.Schema, rows []sql.Row) {
	if len(rows) == 1 && len(rows[0]) == 1 {
		if ok, isOk := rows[0][0].(sql.OkResult); isOk {
			fmt.Fprintf(s.out, "OK: %s\n", ok.Info)
			return
		}
	}

	header := make([]string, len(schema))
	widths := make([]int, len(schema))
	for i, col := range schema {
		header[i] = col.Name
		widths[i] = utf8.RuneCountInString(col.Name)
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = formatValue(v)
			if j < len(widths) {
				widths[j] = max(widths[j], utf8.RuneCountInString(cells[i][j]))
			}
		}
	}

	if len(header) > 0 {
		fmt.Fprintln(s.out, joinPadded(header, widths, " | "))
		separator := make([]string, len(widths))
		for i, w := range widths {
			separator[i] = strings.Repeat("-", w)
		}
		fmt.Fprintln(s.out, strings.Join(separator, "-+-"))
	}

	for _, row := range cells {
		fmt.Fprintln(s.out, joinPadded(row, widths, " | "))
	}
	fmt.Fprintf(s.out, "(%d rows)\n", len(rows))
}

func joinPadded(values []string, widths []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if i < len(widths) {
			v += strings.Repeat(" ", widths[i]-utf8.RuneCountInString(v))
		}
		parts[i] = v
	}
	return strings.TrimRight(strings.Join(parts, sep), " ")
}

func formatValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}
