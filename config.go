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
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/src-d/go-prepared-sql/memory"
	"github.com/src-d/go-prepared-sql/sql"
)

// DefaultParseCacheSize is the number of parsed statements kept by an
// engine created without an explicit cache size.
const DefaultParseCacheSize = 256

// Config for the Engine.
type Config struct {
	// LogLevel is the level of the standard logger, as understood by
	// logrus.ParseLevel. Empty leaves the level untouched.
	LogLevel string `yaml:"log_level"`
	// DebugAnalyzer logs every analyzer rule application.
	DebugAnalyzer bool `yaml:"debug_analyzer"`
	// PreparePolicy decides whether a PREPARE may replace a statement with
	// the same name in the session.
	PreparePolicy sql.PreparePolicy `yaml:"prepare_policy"`
	// ParseCacheSize is the number of parsed statements kept by the engine.
	// Zero disables the cache.
	ParseCacheSize int `yaml:"parse_cache_size"`
	// CurrentDatabase is the database new sessions start in.
	CurrentDatabase string `yaml:"current_database"`
	// Catalog declares the databases the engine starts with.
	Catalog []DatabaseConfig `yaml:"catalog"`
}

// DatabaseConfig declares a database and its tables.
type DatabaseConfig struct {
	Name   string        `yaml:"name"`
	Tables []TableConfig `yaml:"tables"`
}

// TableConfig declares a table schema.
type TableConfig struct {
	Name    string         `yaml:"name"`
	Columns []ColumnConfig `yaml:"columns"`
}

// ColumnConfig declares a column. Type is any SQL type name accepted in a
// PREPARE type list.
type ColumnConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		PreparePolicy:  sql.PrepareOverwrite,
		ParseCacheSize: DefaultParseCacheSize,
	}
}

// LoadConfig reads the YAML configuration in the given file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %s", path, err)
	}
	return cfg, nil
}

// ParseConfig reads a YAML configuration. Missing keys keep their default
// values.
func ParseConfig(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values of the configuration.
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}

	if c.ParseCacheSize < 0 {
		return fmt.Errorf("invalid parse cache size %d", c.ParseCacheSize)
	}

	_, err := c.Databases()
	return err
}

// Databases builds the in-memory databases declared in the catalog section.
func (c *Config) Databases() ([]*memory.Database, error) {
	var dbs []*memory.Database
	for _, dc := range c.Catalog {
		if dc.Name == "" {
			return nil, fmt.Errorf("database without name in catalog")
		}

		db := memory.NewDatabase(dc.Name)
		for _, tc := range dc.Tables {
			schema, err := tc.schema()
			if err != nil {
				return nil, err
			}

			if err := db.CreateTable(tc.Name, schema); err != nil {
				return nil, err
			}
		}
		dbs = append(dbs, db)
	}
	return dbs, nil
}

func (tc TableConfig) schema() (sql.Schema, error) {
	if tc.Name == "" {
		return nil, fmt.Errorf("table without name in catalog")
	}

	schema := make(sql.Schema, len(tc.Columns))
	for i, cc := range tc.Columns {
		if cc.Name == "" {
			return nil, fmt.Errorf("column %d of table %s has no name", i+1, tc.Name)
		}

		typ, err := sql.TypeFromName(cc.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s.%s: %s", tc.Name, cc.Name, err)
		}

		schema[i] = &sql.Column{
			Name:     cc.Name,
			Type:     typ,
			Nullable: cc.Nullable,
			Source:   tc.Name,
		}
	}
	return schema, nil
}
