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

package prepare

import (
	"github.com/src-d/go-prepared-sql/sql"
	"github.com/src-d/go-prepared-sql/sql/analyzer"
	"github.com/src-d/go-prepared-sql/sql/plan"
)

// validateSlots checks every parameter resolved to a type values can be
// coerced to.
func validateSlots(slots []sql.ParameterSlot) error {
	for _, s := range slots {
		if !sql.IsConcrete(s.Type) {
			return sql.ErrUnresolvableParameterType.New(
				s.Ordinal,
				"type "+typeName(s.Type)+" can not hold a value",
			)
		}
	}
	return nil
}

// validateTemplate checks the plan of a template is resolved and every
// placeholder in it refers to a slot and carries its type.
func validateTemplate(n sql.Node, slots []sql.ParameterSlot) error {
	if !n.Resolved() {
		return analyzer.ErrInAnalysis.New("plan is not resolved")
	}

	for _, p := range plan.Placeholders(n) {
		if p.Ordinal < 1 || p.Ordinal > len(slots) {
			return sql.ErrUnboundPlaceholder.New(p.Ordinal)
		}
		if !p.Typed() || p.Type() != slots[p.Ordinal-1].Type {
			return sql.ErrUnresolvableParameterType.New(p.Ordinal, "placeholder was not typed")
		}
	}
	return nil
}

func typeName(t sql.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
