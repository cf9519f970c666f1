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
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Type represents a SQL scalar type.
type Type interface {
	// Name is the SQL name of the type, as it is rendered in plans.
	Name() string
	// Convert a value of a compatible type to the most accurate Go value of
	// this type.
	Convert(interface{}) (interface{}, error)
	// Compare returns an integer comparing two values of this type.
	// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
	Compare(interface{}, interface{}) (int, error)
	String() string
}

type typeKind byte

const (
	unknownKind typeKind = iota
	nullKind
	int32Kind
	int64Kind
	float64Kind
	decimalKind
	textKind
	booleanKind
)

type scalarType struct {
	name string
	kind typeKind
}

var (
	// Unknown is the type of expressions whose type is not known yet, such
	// as parameter placeholders before inference.
	Unknown Type = scalarType{"UNKNOWN", unknownKind}
	// Null represents the type of the NULL literal.
	Null Type = scalarType{"NULL", nullKind}
	// Int32 is an integer of 32 bits.
	Int32 Type = scalarType{"INT", int32Kind}
	// Int64 is an integer of 64 bits.
	Int64 Type = scalarType{"BIGINT", int64Kind}
	// Float64 is a floating point number of 64 bits.
	Float64 Type = scalarType{"DOUBLE", float64Kind}
	// Decimal is an arbitrary precision decimal number.
	Decimal Type = scalarType{"DECIMAL", decimalKind}
	// Text is a string of arbitrary length.
	Text Type = scalarType{"TEXT", textKind}
	// Boolean is a boolean value.
	Boolean Type = scalarType{"BOOLEAN", booleanKind}
)

var typesByName = map[string]Type{
	"tinyint":  Int32,
	"smallint": Int32,
	"int":      Int32,
	"integer":  Int32,
	"bigint":   Int64,
	"float":    Float64,
	"real":     Float64,
	"double":   Float64,
	"decimal":  Decimal,
	"numeric":  Decimal,
	"text":     Text,
	"varchar":  Text,
	"char":     Text,
	"string":   Text,
	"boolean":  Boolean,
	"bool":     Boolean,
}

// TypeFromName returns the type with the given SQL name. Names are case
// insensitive.
func TypeFromName(name string) (Type, error) {
	t, ok := typesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrUnknownType.New(name)
	}
	return t, nil
}

func (t scalarType) Name() string   { return t.name }
func (t scalarType) String() string { return t.name }

// Convert implements the Type interface.
func (t scalarType) Convert(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch t.kind {
	case unknownKind:
		return v, nil
	case nullKind:
		return nil, ErrTypeCoercion.New(v, ValueType(v), t)
	case int32Kind:
		i, err := t.toInt64(v)
		if err != nil {
			return nil, err
		}
		if i > math.MaxInt32 || i < math.MinInt32 {
			return nil, ErrTypeCoercion.New(v, ValueType(v), t)
		}
		return int32(i), nil
	case int64Kind:
		return t.toInt64(v)
	case float64Kind:
		switch v := v.(type) {
		case bool:
			return nil, ErrTypeCoercion.New(v, Boolean, t)
		case decimal.Decimal:
			return v.InexactFloat64(), nil
		case string:
			f, err := cast.ToFloat64E(strings.TrimSpace(v))
			if err != nil {
				return nil, ErrTypeCoercion.New(v, Text, t)
			}
			return f, nil
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, ErrTypeCoercion.New(v, ValueType(v), t)
		}
		return f, nil
	case decimalKind:
		switch v := v.(type) {
		case decimal.Decimal:
			return v, nil
		case bool:
			return nil, ErrTypeCoercion.New(v, Boolean, t)
		case float32:
			return decimal.NewFromFloat32(v), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		case string:
			d, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				return nil, ErrTypeCoercion.New(v, Text, t)
			}
			return d, nil
		}
		i, err := cast.ToInt64E(v)
		if err != nil {
			return nil, ErrTypeCoercion.New(v, ValueType(v), t)
		}
		return decimal.NewFromInt(i), nil
	case textKind:
		switch v := v.(type) {
		case decimal.Decimal:
			return v.String(), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, ErrTypeCoercion.New(v, ValueType(v), t)
		}
		return s, nil
	case booleanKind:
		switch v := v.(type) {
		case float32, float64, decimal.Decimal:
			return nil, ErrTypeCoercion.New(v, ValueType(v), t)
		case string:
			b, err := cast.ToBoolE(strings.TrimSpace(v))
			if err != nil {
				return nil, ErrTypeCoercion.New(v, Text, t)
			}
			return b, nil
		}
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, ErrTypeCoercion.New(v, ValueType(v), t)
		}
		return b, nil
	}

	return nil, ErrInvalidType.New(t.name)
}

func (t scalarType) toInt64(v interface{}) (int64, error) {
	switch v := v.(type) {
	case bool:
		return 0, ErrTypeCoercion.New(v, Boolean, t)
	case float32:
		return t.integralFloat(float64(v), v)
	case float64:
		return t.integralFloat(v, v)
	case decimal.Decimal:
		if !v.IsInteger() || v.GreaterThan(decimal.NewFromInt(math.MaxInt64)) ||
			v.LessThan(decimal.NewFromInt(math.MinInt64)) {
			return 0, ErrTypeCoercion.New(v, Decimal, t)
		}
		return v.IntPart(), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, ErrTypeCoercion.New(v, Int64, t)
		}
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, ErrTypeCoercion.New(v, Text, t)
		}
		return i, nil
	}

	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0, ErrTypeCoercion.New(v, ValueType(v), t)
	}
	return i, nil
}

func (t scalarType) integralFloat(f float64, orig interface{}) (int64, error) {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 || math.IsNaN(f) {
		return 0, ErrTypeCoercion.New(orig, Float64, t)
	}
	return int64(f), nil
}

// Compare implements the Type interface.
func (t scalarType) Compare(a, b interface{}) (int, error) {
	if a == nil || b == nil {
		return compareNulls(a, b), nil
	}

	ca, err := t.Convert(a)
	if err != nil {
		return 0, err
	}
	cb, err := t.Convert(b)
	if err != nil {
		return 0, err
	}

	switch t.kind {
	case int32Kind, int64Kind:
		ia, ib := cast.ToInt64(ca), cast.ToInt64(cb)
		return compareOrdered(ia, ib), nil
	case float64Kind:
		return compareOrdered(ca.(float64), cb.(float64)), nil
	case decimalKind:
		return ca.(decimal.Decimal).Cmp(cb.(decimal.Decimal)), nil
	case textKind:
		return strings.Compare(ca.(string), cb.(string)), nil
	case booleanKind:
		ba, bb := ca.(bool), cb.(bool)
		switch {
		case ba == bb:
			return 0, nil
		case !ba:
			return -1, nil
		default:
			return 1, nil
		}
	}

	return 0, ErrInvalidType.New(t.name)
}

func compareNulls(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	default:
		return 1
	}
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ValueType returns the type of the given Go value.
func ValueType(v interface{}) Type {
	switch v.(type) {
	case nil:
		return Null
	case int32, int16, int8, uint8, uint16:
		return Int32
	case int, int64, uint, uint32, uint64:
		return Int64
	case float32, float64:
		return Float64
	case decimal.Decimal:
		return Decimal
	case string:
		return Text
	case bool:
		return Boolean
	}
	return Unknown
}

// IsConcrete returns whether t is a type a value can be coerced to.
func IsConcrete(t Type) bool {
	return t != nil && t != Unknown && t != Null
}

// IsUnknown returns whether t is the Unknown type.
func IsUnknown(t Type) bool {
	return t == nil || t == Unknown
}

// IsInteger checks if t is an integer type.
func IsInteger(t Type) bool {
	return t == Int32 || t == Int64
}

// IsFloat checks if t is a floating point type.
func IsFloat(t Type) bool {
	return t == Float64
}

// IsDecimal checks if t is the decimal type.
func IsDecimal(t Type) bool {
	return t == Decimal
}

// IsNumber checks if t is a number type.
func IsNumber(t Type) bool {
	return IsInteger(t) || IsFloat(t) || IsDecimal(t)
}

// IsText checks if t is a text type.
func IsText(t Type) bool {
	return t == Text
}

// IsBoolean checks if t is the boolean type.
func IsBoolean(t Type) bool {
	return t == Boolean
}

// Coerce converts a value to the given type, failing with ErrTypeCoercion
// when no conversion rule applies.
func Coerce(v interface{}, to Type) (interface{}, error) {
	if !IsConcrete(to) {
		return nil, ErrTypeCoercion.New(v, ValueType(v), to)
	}

	cv, err := to.Convert(v)
	if err != nil {
		if ErrTypeCoercion.Is(err) {
			return nil, err
		}
		return nil, ErrTypeCoercion.Wrap(err, v, ValueType(v), to)
	}
	return cv, nil
}
