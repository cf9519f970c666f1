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
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func newTestStatement(name string, slots ...ParameterSlot) *PreparedStatement {
	return NewPreparedStatement(name, "SELECT 1", slots, nil, 42)
}

func TestPreparedStatement(t *testing.T) {
	require := require.New(t)

	slots := []ParameterSlot{
		{Ordinal: 1, Inferred: Int32, Type: Int32},
		{Ordinal: 2, Declared: Text, Type: Text},
	}
	stmt := NewPreparedStatement("MyStmt", "SELECT 1", slots, nil, 42)
	slots[0].Type = Boolean

	require.Equal("mystmt", stmt.Name())
	require.Equal("SELECT 1", stmt.Query())
	require.Equal(2, stmt.NumParams())
	require.Equal(uint64(42), stmt.Fingerprint())
	require.False(stmt.CreatedAt().IsZero())
	require.Equal(Int32, stmt.Slots()[0].Type)

	copied := stmt.Slots()
	copied[1].Type = Boolean
	require.Equal(Text, stmt.Slots()[1].Type)

	require.Equal("$2 TEXT", stmt.Slots()[1].String())
}

func TestPreparedStatementsLookup(t *testing.T) {
	require := require.New(t)
	p := NewPreparedStatements(PrepareOverwrite)

	_, err := p.Lookup("q")
	require.True(ErrUnknownPreparedStatement.Is(err))

	stmt := newTestStatement("q")
	require.NoError(p.Create("Q", stmt))

	found, err := p.Lookup("q")
	require.NoError(err)
	require.Same(stmt, found)

	found, err = p.Lookup("Q")
	require.NoError(err)
	require.Same(stmt, found)
}

func TestPreparedStatementsOverwrite(t *testing.T) {
	require := require.New(t)
	p := NewPreparedStatements(PrepareOverwrite)

	first, second := newTestStatement("q"), newTestStatement("q")
	require.NoError(p.Create("q", first))
	require.NoError(p.Create("q", second))

	found, err := p.Lookup("q")
	require.NoError(err)
	require.Same(second, found)
	require.Equal(1, p.Len())
}

func TestPreparedStatementsPrepareError(t *testing.T) {
	require := require.New(t)
	p := NewPreparedStatements(PrepareError)
	require.Equal(PrepareError, p.Policy())

	first := newTestStatement("q")
	require.NoError(p.Create("q", first))

	err := p.Create("Q", newTestStatement("q"))
	require.True(ErrPreparedStatementExists.Is(err))

	found, err := p.Lookup("q")
	require.NoError(err)
	require.Same(first, found)
}

func TestPreparedStatementsDeallocate(t *testing.T) {
	require := require.New(t)
	p := NewPreparedStatements(PrepareOverwrite)

	require.NoError(p.Create("a", newTestStatement("a")))
	require.NoError(p.Create("b", newTestStatement("b")))

	require.NoError(p.Deallocate("A"))
	require.Equal([]string{"b"}, p.Names())

	err := p.Deallocate("a")
	require.True(ErrUnknownPreparedStatement.Is(err))
}

func TestPreparedStatementsDropSession(t *testing.T) {
	require := require.New(t)
	p := NewPreparedStatements(PrepareOverwrite)

	for _, name := range []string{"c", "a", "b"} {
		require.NoError(p.Create(name, newTestStatement(name)))
	}
	require.Equal([]string{"a", "b", "c"}, p.Names())

	require.Equal(3, p.DropSession())
	require.Zero(p.Len())
	require.Empty(p.Names())
	require.Zero(p.DropSession())
}

func TestPreparedStatementsConcurrency(t *testing.T) {
	p := NewPreparedStatements(PrepareOverwrite)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("q%d", i%4)
			_ = p.Create(name, newTestStatement(name))
			_, _ = p.Lookup(name)
			_ = p.Names()
		}(i)
	}
	wg.Wait()

	require.Equal(t, []string{"q0", "q1", "q2", "q3"}, p.Names())
}

func TestParsePreparePolicy(t *testing.T) {
	require := require.New(t)

	for s, expected := range map[string]PreparePolicy{
		"":           PrepareOverwrite,
		"overwrite":  PrepareOverwrite,
		" Overwrite": PrepareOverwrite,
		"ERROR":      PrepareError,
	} {
		policy, err := ParsePreparePolicy(s)
		require.NoError(err)
		require.Equal(expected, policy)
	}

	_, err := ParsePreparePolicy("ignore")
	require.Error(err)
}

func TestPreparePolicyYAML(t *testing.T) {
	require := require.New(t)

	var cfg struct {
		Policy PreparePolicy `yaml:"policy"`
	}
	require.NoError(yaml.Unmarshal([]byte("policy: error\n"), &cfg))
	require.Equal(PrepareError, cfg.Policy)

	out, err := yaml.Marshal(cfg)
	require.NoError(err)
	require.Equal("policy: error\n", string(out))

	require.Error(yaml.Unmarshal([]byte("policy: sometimes\n"), &cfg))
}
