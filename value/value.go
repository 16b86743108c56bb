// Package value defines the tagged runtime values used as condition operands
// and column values.
package value

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind tags the runtime type of a Value.
type Kind string

const (
	KindString Kind = "string"
	KindChoice Kind = "choice"
	KindI64    Kind = "i64"
	KindI32    Kind = "i32"
	KindI16    Kind = "i16"
	KindBool   Kind = "bool"
	KindF64    Kind = "f64"
	KindF32    Kind = "f32"
	KindBinary Kind = "binary"
	KindTime   Kind = "time"
	KindDate   Kind = "date"
	KindUUID   Kind = "uuid"
)

// Value is a runtime-typed literal.
//
// A null value keeps the kind it would have had if it were set,
// so the SQL backend can render a correctly typed NULL.
type Value struct {
	Kind Kind
	Null bool

	str    string
	i64    int64
	i32    int32
	i16    int16
	b      bool
	f64    float64
	f32    float32
	binary []byte
	t      time.Time
	uuid   uuid.UUID
}

// Null constructs a typed null value.
func Null(kind Kind) Value {
	return Value{Kind: kind, Null: true}
}

// String constructs a string value.
func String(v string) Value {
	return Value{Kind: KindString, str: v}
}

// Choice constructs a choices value.
func Choice(v string) Value {
	return Value{Kind: KindChoice, str: v}
}

// I64 constructs an int64 value.
func I64(v int64) Value {
	return Value{Kind: KindI64, i64: v}
}

// I32 constructs an int32 value.
func I32(v int32) Value {
	return Value{Kind: KindI32, i32: v}
}

// I16 constructs an int16 value.
func I16(v int16) Value {
	return Value{Kind: KindI16, i16: v}
}

// Bool constructs a bool value.
func Bool(v bool) Value {
	return Value{Kind: KindBool, b: v}
}

// F64 constructs a float64 value.
func F64(v float64) Value {
	return Value{Kind: KindF64, f64: v}
}

// F32 constructs a float32 value.
func F32(v float32) Value {
	return Value{Kind: KindF32, f32: v}
}

// Binary constructs a binary value.
func Binary(v []byte) Value {
	return Value{Kind: KindBinary, binary: v}
}

// Time constructs a timestamp value.
func Time(v time.Time) Value {
	return Value{Kind: KindTime, t: v}
}

// Date constructs a date value (time component ignored by the backend).
func Date(v time.Time) Value {
	return Value{Kind: KindDate, t: v}
}

// UUID constructs a uuid value.
func UUID(v uuid.UUID) Value {
	return Value{Kind: KindUUID, uuid: v}
}

// FromAny converts an ordinary Go scalar into a tagged value.
// It is the loose entry point for callers which don't construct
// values through the typed constructors.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case nil:
		return Null(KindString), nil
	case string:
		return String(x), nil
	case int:
		return I64(int64(x)), nil
	case int64:
		return I64(x), nil
	case int32:
		return I32(x), nil
	case int16:
		return I16(x), nil
	case bool:
		return Bool(x), nil
	case float64:
		return F64(x), nil
	case float32:
		return F32(x), nil
	case []byte:
		return Binary(x), nil
	case time.Time:
		return Time(x), nil
	case uuid.UUID:
		return UUID(x), nil
	default:
		return Value{}, fmt.Errorf("value: unsupported type %T", v)
	}
}

// Arg lowers the value to a database/sql driver argument.
func (v Value) Arg() any {
	if v.Null {
		return nil
	}
	switch v.Kind {
	case KindString, KindChoice:
		return v.str
	case KindI64:
		return v.i64
	case KindI32:
		return v.i32
	case KindI16:
		return v.i16
	case KindBool:
		return v.b
	case KindF64:
		return v.f64
	case KindF32:
		return v.f32
	case KindBinary:
		return v.binary
	case KindTime, KindDate:
		return v.t
	case KindUUID:
		return v.uuid.String()
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.Null != o.Null {
		return false
	}
	if v.Null {
		return true
	}
	switch v.Kind {
	case KindBinary:
		return string(v.binary) == string(o.binary)
	case KindTime, KindDate:
		return v.t.Equal(o.t)
	default:
		return v.Arg() == o.Arg()
	}
}

// String implements fmt.Stringer for debug output.
func (v Value) String() string {
	if v.Null {
		return fmt.Sprintf("null(%s)", v.Kind)
	}
	return fmt.Sprintf("%s(%v)", v.Kind, v.Arg())
}
