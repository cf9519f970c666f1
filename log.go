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
	"github.com/sirupsen/logrus"

	"github.com/src-d/go-prepared-sql/sql"
)

const (
	ConnectionIdLogField = "connectionID"
	StatementLogField    = "statement"
	QueryLogField        = "query"
)

// ConfigureLogging sets the level of the standard logger. An empty level
// leaves it untouched.
func ConfigureLogging(level string) error {
	if level == "" {
		return nil
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableQuote:     true,
		QuoteEmptyFields: true,
	})
	return nil
}

func statementLogger(ctx *sql.Context, name string) *logrus.Entry {
	return ctx.Logger().WithField(StatementLogField, name)
}
