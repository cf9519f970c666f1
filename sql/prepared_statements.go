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
	"sort"
	"strings"
	"sync"
	"time"
)

// ParameterSlot is a typed parameter of a prepared statement.
type ParameterSlot struct {
	// Ordinal is the 1-based position of the parameter, $1 being the first.
	Ordinal int
	// Declared is the type given in the PREPARE type list, if any.
	Declared Type
	// Inferred is the type derived from the usage of the parameter, if any.
	Inferred Type
	// Type is the resolved type values bound to the parameter are coerced to.
	Type Type
}

func (s ParameterSlot) String() string {
	return fmt.Sprintf("$%d %s", s.Ordinal, s.Type)
}

// PreparedStatement is the compiled form of a PREPARE statement: a resolved
// plan containing typed placeholders along with the parameter slots.
// It is immutable once created.
type PreparedStatement struct {
	name        string
	query       string
	slots       []ParameterSlot
	plan        Node
	fingerprint uint64
	createdAt   time.Time
}

// NewPreparedStatement creates a prepared statement. The slots are copied.
func NewPreparedStatement(
	name string,
	query string,
	slots []ParameterSlot,
	plan Node,
	fingerprint uint64,
) *PreparedStatement {
	s := make([]ParameterSlot, len(slots))
	copy(s, slots)
	return &PreparedStatement{
		name:        strings.ToLower(name),
		query:       query,
		slots:       s,
		plan:        plan,
		fingerprint: fingerprint,
		createdAt:   time.Now(),
	}
}

// Name of the statement.
func (p *PreparedStatement) Name() string { return p.name }

// Query returns the text of the statement body.
func (p *PreparedStatement) Query() string { return p.query }

// Slots returns a copy of the parameter slots, ordered by ordinal.
func (p *PreparedStatement) Slots() []ParameterSlot {
	s := make([]ParameterSlot, len(p.slots))
	copy(s, p.slots)
	return s
}

// NumParams returns the number of parameters of the statement.
func (p *PreparedStatement) NumParams() int { return len(p.slots) }

// Plan returns the plan template. It must not be modified.
func (p *PreparedStatement) Plan() Node { return p.plan }

// Fingerprint returns the hash of the schemas the plan was resolved against.
func (p *PreparedStatement) Fingerprint() uint64 { return p.fingerprint }

// CreatedAt returns the time the statement was prepared.
func (p *PreparedStatement) CreatedAt() time.Time { return p.createdAt }

// PreparePolicy decides what happens when a statement is prepared with the
// name of an existing one.
type PreparePolicy byte

const (
	// PrepareOverwrite replaces the existing statement.
	PrepareOverwrite PreparePolicy = iota
	// PrepareError rejects the new statement with ErrPreparedStatementExists.
	PrepareError
)

// ParsePreparePolicy returns the policy with the given name, "overwrite" or
// "error".
func ParsePreparePolicy(s string) (PreparePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return PrepareOverwrite, nil
	case "error":
		return PrepareError, nil
	default:
		return 0, fmt.Errorf("invalid prepare policy %q", s)
	}
}

func (p PreparePolicy) String() string {
	if p == PrepareError {
		return "error"
	}
	return "overwrite"
}

// UnmarshalYAML reads the policy from its name.
func (p *PreparePolicy) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	policy, err := ParsePreparePolicy(s)
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

// MarshalYAML writes the policy as its name.
func (p PreparePolicy) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// PreparedStatements holds the prepared statements of a session indexed by
// name. Names are case insensitive.
type PreparedStatements struct {
	mu         sync.RWMutex
	policy     PreparePolicy
	statements map[string]*PreparedStatement
}

// NewPreparedStatements returns an empty registry with the given policy.
func NewPreparedStatements(policy PreparePolicy) *PreparedStatements {
	return &PreparedStatements{
		policy:     policy,
		statements: make(map[string]*PreparedStatement),
	}
}

// Policy returns the policy applied by Create.
func (p *PreparedStatements) Policy() PreparePolicy { return p.policy }

// Create registers the statement under the given name. If the name is taken
// the statement replaces the existing one, unless the registry was created
// with the PrepareError policy.
func (p *PreparedStatements) Create(name string, stmt *PreparedStatement) error {
	name = strings.ToLower(name)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.statements[name]; ok && p.policy == PrepareError {
		return ErrPreparedStatementExists.New(name)
	}

	p.statements[name] = stmt
	return nil
}

// Lookup returns the statement with the given name.
func (p *PreparedStatements) Lookup(name string) (*PreparedStatement, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stmt, ok := p.statements[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownPreparedStatement.New(name)
	}
	return stmt, nil
}

// Deallocate removes the statement with the given name.
func (p *PreparedStatements) Deallocate(name string) error {
	name = strings.ToLower(name)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.statements[name]; !ok {
		return ErrUnknownPreparedStatement.New(name)
	}
	delete(p.statements, name)
	return nil
}

// DropSession removes every statement and returns how many there were.
func (p *PreparedStatements) DropSession() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.statements)
	p.statements = make(map[string]*PreparedStatement)
	return n
}

// Names returns the sorted names of all statements.
func (p *PreparedStatements) Names() []string {
	p.mu.RLock()
	names := make([]string, 0, len(p.statements))
	for name := range p.statements {
		names = append(names, name)
	}
	p.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Len returns the number of statements.
func (p *PreparedStatements) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.statements)
}
