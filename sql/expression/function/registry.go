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

package function

import "github.com/src-d/go-prepared-sql/sql"

// Defaults is the list of the built in functions.
var Defaults = []sql.Function{
	sql.Function1{Name: "lower", Fn: NewLower},
	sql.Function1{Name: "upper", Fn: NewUpper},
	sql.Function1{Name: "length", Fn: NewLength},
	sql.FunctionN{Name: "concat", Fn: NewConcat},
	sql.FunctionN{Name: "substring", Fn: NewSubstring},
	sql.FunctionN{Name: "substr", Fn: NewSubstring},
	sql.FunctionN{Name: "lpad", Fn: NewLPad},
	sql.Function1{Name: "abs", Fn: NewAbsVal},
	sql.Function1{Name: "sqrt", Fn: NewSqrt},
	sql.Function2{Name: "pow", Fn: NewPower},
	sql.Function2{Name: "power", Fn: NewPower},
	sql.Function1{Name: "add_one", Fn: NewScalarUDF("add_one", func(f float64) float64 {
		return f + 1
	})},
	sql.Function1{Name: "multiply_two", Fn: NewScalarUDF("multiply_two", func(f float64) float64 {
		return f * 2
	})},
}
