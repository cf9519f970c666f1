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
	"sort"
	"strings"

	"github.com/mitchellh/hashstructure"
)

type columnShape struct {
	Name     string
	Type     string
	Nullable bool
}

type tableShape struct {
	Name    string
	Columns []columnShape
}

// SchemaFingerprint returns a hash of the names and schemas of the given
// tables. The order of the tables does not change the result.
func SchemaFingerprint(tables ...Table) (uint64, error) {
	shapes := make([]tableShape, 0, len(tables))
	for _, t := range tables {
		shape := tableShape{Name: strings.ToLower(t.Name())}
		for _, c := range t.Schema() {
			shape.Columns = append(shape.Columns, columnShape{
				Name:     strings.ToLower(c.Name),
				Type:     c.Type.Name(),
				Nullable: c.Nullable,
			})
		}
		shapes = append(shapes, shape)
	}

	sort.Slice(shapes, func(i, j int) bool {
		return shapes[i].Name < shapes[j].Name
	})

	return hashstructure.Hash(shapes, nil)
}
