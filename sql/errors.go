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

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrSyntax is returned when a statement header cannot be parsed, for
	// example a PREPARE without a statement name.
	ErrSyntax = errors.NewKind("syntax error: %s")

	// ErrInvalidType is thrown when there is an unexpected type at some part of
	// the execution tree.
	ErrInvalidType = errors.NewKind("invalid type: %s")

	// ErrUnknownType is returned when a type name can not be mapped to a scalar type.
	ErrUnknownType = errors.NewKind("unknown type name: %s")

	// ErrDatabaseNotFound is thrown when a database is not found
	ErrDatabaseNotFound = errors.NewKind("database not found: %s")

	// ErrTableNotFound is returned when the table is not available from the
	// current scope.
	ErrTableNotFound = errors.NewKind("table not found: %s")

	// ErrTableAlreadyExists is thrown when a table is created with the name
	// of an existing one.
	ErrTableAlreadyExists = errors.NewKind("table with name %s already exists")

	// ErrTableColumnNotFound is thrown when a column named cannot be found in scope
	ErrTableColumnNotFound = errors.NewKind("table %q does not have column %q")

	// ErrColumnNotFound is returned when the column does not exist in any
	// table in scope.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in any table in scope")

	// ErrAmbiguousColumnName is returned when there is a column reference that
	// is present in more than one table.
	ErrAmbiguousColumnName = errors.NewKind("ambiguous column name %q, it's present in all these tables: %v")

	// ErrFunctionNotFound is thrown when a function is not found
	ErrFunctionNotFound = errors.NewKind("function not found: %s")

	// ErrInvalidArgumentNumber is returned when the number of arguments to call a
	// function is different from the function arity.
	ErrInvalidArgumentNumber = errors.NewKind("function %q expects %v arguments, %v received")

	// ErrInvalidChildrenNumber is returned when the WithChildren method of a
	// node or expression is called with an invalid number of arguments.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrInvalidExpressionNumber is returned when WithExpressions is called
	// with an invalid number of expressions.
	ErrInvalidExpressionNumber = errors.NewKind("%T: invalid expression number, got %d, expected %d")

	// ErrInsertIntoMismatchValueCount is returned when the number of values in
	// an INSERT does not match the number of target columns.
	ErrInsertIntoMismatchValueCount = errors.NewKind("number of values does not match number of columns provided")

	// ErrParameterCountMismatch is returned when the parameters of a prepared
	// statement do not add up. The cause tells which count is wrong.
	ErrParameterCountMismatch = errors.NewKind("parameter count mismatch in prepared statement %q")

	// ErrDeclaredParameterCount is the cause of ErrParameterCountMismatch when
	// the number of declared parameter types differs from the number of
	// distinct parameters used.
	ErrDeclaredParameterCount = errors.NewKind("%d parameter types declared but %d parameters referenced")

	// ErrParameterOrdinalGap is the cause of ErrParameterCountMismatch when
	// parameter ordinals are not dense.
	ErrParameterOrdinalGap = errors.NewKind("$%d is referenced but $%d is missing")

	// ErrArgumentCountMismatch is the cause of ErrParameterCountMismatch when
	// EXECUTE supplies a different number of arguments than the prepared
	// statement has parameters.
	ErrArgumentCountMismatch = errors.NewKind("%d arguments expected, %d received")

	// ErrUnresolvableParameterType is returned when the type of a parameter
	// can not be determined from its declaration or its context.
	ErrUnresolvableParameterType = errors.NewKind("could not determine the type of parameter $%d: %s")

	// ErrUnsupportedParameterPosition is returned when a parameter is used in a
	// position that carries no type information, such as a null test operand.
	ErrUnsupportedParameterPosition = errors.NewKind("parameter $%d is not allowed as operand of %s")

	// ErrUnknownPreparedStatement is returned on lookups of names that were
	// never prepared in the session.
	ErrUnknownPreparedStatement = errors.NewKind("unknown prepared statement: %s")

	// ErrPreparedStatementExists is returned when the registry is configured
	// to reject a PREPARE reusing an existing name.
	ErrPreparedStatementExists = errors.NewKind("prepared statement %q already exists")

	// ErrTypeCoercion is returned when a value can not be converted to the type
	// of the parameter it is bound to.
	ErrTypeCoercion = errors.NewKind("can not coerce %v of type %s to %s")

	// ErrNotConstant is returned when an expression that must be constant
	// references row data or unbound parameters.
	ErrNotConstant = errors.NewKind("expression %s is not constant")

	// ErrUnboundPlaceholder is returned when a parameter placeholder is
	// evaluated before a value was bound to it.
	ErrUnboundPlaceholder = errors.NewKind("attempt to evaluate unbound placeholder $%d")

	// ErrNotImplemented is returned by features the engine does not provide.
	ErrNotImplemented = errors.NewKind("not implemented: %s")

	// ErrDivisionByZero is returned when a constant expression divides by zero.
	ErrDivisionByZero = errors.NewKind("division by zero")
)
