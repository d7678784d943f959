// Package value implements the tagged variant value model used for every
// tweak item: a small closed set of scalar kinds plus homogeneous vectors
// of the numeric scalar kinds.
//
// Go's garbage collector already owns allocation and lifetime for strings
// and slices, so the small-object-optimization and manual destroy/move
// machinery of the C original collapses to plain value semantics: a Value
// is a small struct, copying it copies the struct, and slices/strings
// inside are only deep-copied where Copy is called explicitly.
package value

import "fmt"

// Kind identifies which branch of a Value is live.
type Kind uint8

const (
	Null Kind = iota
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	String
	VecI8
	VecI16
	VecI32
	VecI64
	VecU8
	VecU16
	VecU32
	VecU64
	VecF32
	VecF64
)

// jsonTag returns the lowercase wire/JSON type tag for a scalar kind.
func (k Kind) jsonTag() string {
	switch k {
	case Bool:
		return "bool"
	case I8:
		return "sint8"
	case I16:
		return "sint16"
	case I32:
		return "sint32"
	case I64:
		return "sint64"
	case U8:
		return "uint8"
	case U16:
		return "uint16"
	case U32:
		return "uint32"
	case U64:
		return "uint64"
	case F32:
		return "float"
	case F64:
		return "double"
	case String:
		return "string"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case I8:
		return "sint8"
	case I16:
		return "sint16"
	case I32:
		return "sint32"
	case I64:
		return "sint64"
	case U8:
		return "uint8"
	case U16:
		return "uint16"
	case U32:
		return "uint32"
	case U64:
		return "uint64"
	case F32:
		return "float"
	case F64:
		return "double"
	case String:
		return "string"
	case VecI8:
		return "vector<sint8>"
	case VecI16:
		return "vector<sint16>"
	case VecI32:
		return "vector<sint32>"
	case VecI64:
		return "vector<sint64>"
	case VecU8:
		return "vector<uint8>"
	case VecU16:
		return "vector<uint16>"
	case VecU32:
		return "vector<uint32>"
	case VecU64:
		return "vector<uint64>"
	case VecF32:
		return "vector<float>"
	case VecF64:
		return "vector<double>"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsVector reports whether k is one of the vector kinds.
func (k Kind) IsVector() bool {
	return k >= VecI8 && k <= VecF64
}

// IsNumeric reports whether k is a scalar integer or floating point kind.
func (k Kind) IsNumeric() bool {
	switch k {
	case I8, I16, I32, I64, U8, U16, U32, U64, F32, F64:
		return true
	default:
		return false
	}
}

// Value is the tagged variant. The zero Value is Null.
type Value struct {
	kind Kind
	i64  int64
	u64  uint64
	f32  float32
	f64  float64
	b    bool
	str  string

	// exactly one of these is non-nil when kind.IsVector() is true.
	vI8  []int8
	vI16 []int16
	vI32 []int32
	vI64 []int64
	vU8  []uint8
	vU16 []uint16
	vU32 []uint32
	vU64 []uint64
	vF32 []float32
	vF64 []float64
}

// Type returns the live kind of v. Invariant V1.
func (v Value) Type() Kind { return v.kind }

// NewNull returns the Null value (the zero Value already is Null; this
// constructor exists for symmetry with the other New* functions).
func NewNull() Value { return Value{kind: Null} }

func NewBool(x bool) Value { return Value{kind: Bool, b: x} }
func NewI8(x int8) Value   { return Value{kind: I8, i64: int64(x)} }
func NewI16(x int16) Value { return Value{kind: I16, i64: int64(x)} }
func NewI32(x int32) Value { return Value{kind: I32, i64: int64(x)} }
func NewI64(x int64) Value { return Value{kind: I64, i64: x} }
func NewU8(x uint8) Value  { return Value{kind: U8, u64: uint64(x)} }
func NewU16(x uint16) Value { return Value{kind: U16, u64: uint64(x)} }
func NewU32(x uint32) Value { return Value{kind: U32, u64: uint64(x)} }
func NewU64(x uint64) Value { return Value{kind: U64, u64: x} }
func NewF32(x float32) Value { return Value{kind: F32, f32: x} }
func NewF64(x float64) Value { return Value{kind: F64, f64: x} }

// NewString copies s into a new String value.
func NewString(s string) Value { return Value{kind: String, str: s} }

func NewVecI8(s []int8) Value   { return Value{kind: VecI8, vI8: append([]int8(nil), s...)} }
func NewVecI16(s []int16) Value { return Value{kind: VecI16, vI16: append([]int16(nil), s...)} }
func NewVecI32(s []int32) Value { return Value{kind: VecI32, vI32: append([]int32(nil), s...)} }
func NewVecI64(s []int64) Value { return Value{kind: VecI64, vI64: append([]int64(nil), s...)} }
func NewVecU8(s []uint8) Value  { return Value{kind: VecU8, vU8: append([]uint8(nil), s...)} }
func NewVecU16(s []uint16) Value { return Value{kind: VecU16, vU16: append([]uint16(nil), s...)} }
func NewVecU32(s []uint32) Value { return Value{kind: VecU32, vU32: append([]uint32(nil), s...)} }
func NewVecU64(s []uint64) Value { return Value{kind: VecU64, vU64: append([]uint64(nil), s...)} }
func NewVecF32(s []float32) Value { return Value{kind: VecF32, vF32: append([]float32(nil), s...)} }
func NewVecF64(s []float64) Value { return Value{kind: VecF64, vF64: append([]float64(nil), s...)} }

// Bool, I8 ... F64 are accessors. They panic if v is not of the matching
// kind; callers that do not control v's provenance should check Type()
// first (the facade package does this on the caller's behalf).
func (v Value) Bool() bool { v.mustBe(Bool); return v.b }
func (v Value) I8() int8   { v.mustBe(I8); return int8(v.i64) }
func (v Value) I16() int16 { v.mustBe(I16); return int16(v.i64) }
func (v Value) I32() int32 { v.mustBe(I32); return int32(v.i64) }
func (v Value) I64() int64 { v.mustBe(I64); return v.i64 }
func (v Value) U8() uint8  { v.mustBe(U8); return uint8(v.u64) }
func (v Value) U16() uint16 { v.mustBe(U16); return uint16(v.u64) }
func (v Value) U32() uint32 { v.mustBe(U32); return uint32(v.u64) }
func (v Value) U64() uint64 { v.mustBe(U64); return v.u64 }
func (v Value) F32() float32 { v.mustBe(F32); return v.f32 }
func (v Value) F64() float64 { v.mustBe(F64); return v.f64 }
func (v Value) Str() string  { v.mustBe(String); return v.str }

func (v Value) VecI8() []int8   { v.mustBe(VecI8); return v.vI8 }
func (v Value) VecI16() []int16 { v.mustBe(VecI16); return v.vI16 }
func (v Value) VecI32() []int32 { v.mustBe(VecI32); return v.vI32 }
func (v Value) VecI64() []int64 { v.mustBe(VecI64); return v.vI64 }
func (v Value) VecU8() []uint8   { v.mustBe(VecU8); return v.vU8 }
func (v Value) VecU16() []uint16 { v.mustBe(VecU16); return v.vU16 }
func (v Value) VecU32() []uint32 { v.mustBe(VecU32); return v.vU32 }
func (v Value) VecU64() []uint64 { v.mustBe(VecU64); return v.vU64 }
func (v Value) VecF32() []float32 { v.mustBe(VecF32); return v.vF32 }
func (v Value) VecF64() []float64 { v.mustBe(VecF64); return v.vF64 }

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value: wrong kind: have %s, want %s", v.kind, k))
	}
}

// Destroy resets v to Null. Destroying an already-Null value is a no-op.
// Kept for symmetry with the source API; Go's GC reclaims the backing
// string/slice once the last reference (this Value) is gone.
func Destroy(v *Value) { *v = Value{} }

// Copy returns a deep copy of v: string and vector payloads get their own
// backing storage. Invariant V2.
func Copy(v Value) Value {
	out := v
	switch {
	case v.kind == String:
		out.str = string(append([]byte(nil), v.str...))
	case v.kind == VecI8:
		out.vI8 = append([]int8(nil), v.vI8...)
	case v.kind == VecI16:
		out.vI16 = append([]int16(nil), v.vI16...)
	case v.kind == VecI32:
		out.vI32 = append([]int32(nil), v.vI32...)
	case v.kind == VecI64:
		out.vI64 = append([]int64(nil), v.vI64...)
	case v.kind == VecU8:
		out.vU8 = append([]uint8(nil), v.vU8...)
	case v.kind == VecU16:
		out.vU16 = append([]uint16(nil), v.vU16...)
	case v.kind == VecU32:
		out.vU32 = append([]uint32(nil), v.vU32...)
	case v.kind == VecU64:
		out.vU64 = append([]uint64(nil), v.vU64...)
	case v.kind == VecF32:
		out.vF32 = append([]float32(nil), v.vF32...)
	case v.kind == VecF64:
		out.vF64 = append([]float64(nil), v.vF64...)
	}
	return out
}

// Swap exchanges a and b in place. Never allocates.
func Swap(a, b *Value) { *a, *b = *b, *a }

// Move returns the value held by src and resets src to Null (Invariant V3).
func Move(src *Value) Value {
	out := *src
	*src = Value{}
	return out
}

// ItemCount returns 1 for scalars and strings, or the element count for
// vectors.
func ItemCount(v Value) int {
	switch v.kind {
	case VecI8:
		return len(v.vI8)
	case VecI16:
		return len(v.vI16)
	case VecI32:
		return len(v.vI32)
	case VecI64:
		return len(v.vI64)
	case VecU8:
		return len(v.vU8)
	case VecU16:
		return len(v.vU16)
	case VecU32:
		return len(v.vU32)
	case VecU64:
		return len(v.vU64)
	case VecF32:
		return len(v.vF32)
	case VecF64:
		return len(v.vF64)
	case Null:
		return 0
	default:
		return 1
	}
}

// ScalarKindOf returns the scalar kind corresponding to vector kind k, or
// Null if k is not a vector kind.
func ScalarKindOf(k Kind) Kind {
	switch k {
	case VecI8:
		return I8
	case VecI16:
		return I16
	case VecI32:
		return I32
	case VecI64:
		return I64
	case VecU8:
		return U8
	case VecU16:
		return U16
	case VecU32:
		return U32
	case VecU64:
		return U64
	case VecF32:
		return F32
	case VecF64:
		return F64
	default:
		return Null
	}
}

// VecKindOf returns the vector kind corresponding to scalar kind k, or
// Null if k has no vector counterpart.
func VecKindOf(k Kind) Kind {
	switch k {
	case I8:
		return VecI8
	case I16:
		return VecI16
	case I32:
		return VecI32
	case I64:
		return VecI64
	case U8:
		return VecU8
	case U16:
		return VecU16
	case U32:
		return VecU32
	case U64:
		return VecU64
	case F32:
		return VecF32
	case F64:
		return VecF64
	default:
		return Null
	}
}
