package facade

import "github.com/CogentEmbedded/tweaktool-sub001/value"

// Scalar is every Go type the Facade's add_scalar_T/set_scalar_T/
// get_scalar_T family supports.
type Scalar interface {
	bool | int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Numeric is Scalar minus bool: the subset vectors are built from.
type Numeric interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// kindOf reports the value.Kind a Go scalar type T maps onto.
func kindOf[T Scalar]() value.Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return value.Bool
	case int8:
		return value.I8
	case int16:
		return value.I16
	case int32:
		return value.I32
	case int64:
		return value.I64
	case uint8:
		return value.U8
	case uint16:
		return value.U16
	case uint32:
		return value.U32
	case uint64:
		return value.U64
	case float32:
		return value.F32
	case float64:
		return value.F64
	default:
		return value.Null
	}
}

// scalarToValue wraps a Go scalar into its matching Value.
func scalarToValue[T Scalar](x T) value.Value {
	switch v := any(x).(type) {
	case bool:
		return value.NewBool(v)
	case int8:
		return value.NewI8(v)
	case int16:
		return value.NewI16(v)
	case int32:
		return value.NewI32(v)
	case int64:
		return value.NewI64(v)
	case uint8:
		return value.NewU8(v)
	case uint16:
		return value.NewU16(v)
	case uint32:
		return value.NewU32(v)
	case uint64:
		return value.NewU64(v)
	case float32:
		return value.NewF32(v)
	case float64:
		return value.NewF64(v)
	default:
		return value.NewNull()
	}
}

// valueToScalar extracts T out of v. The caller must already know
// v.Type() == kindOf[T]().
func valueToScalar[T Scalar](v value.Value) T {
	var zero T
	switch any(zero).(type) {
	case bool:
		return any(v.Bool()).(T)
	case int8:
		return any(v.I8()).(T)
	case int16:
		return any(v.I16()).(T)
	case int32:
		return any(v.I32()).(T)
	case int64:
		return any(v.I64()).(T)
	case uint8:
		return any(v.U8()).(T)
	case uint16:
		return any(v.U16()).(T)
	case uint32:
		return any(v.U32()).(T)
	case uint64:
		return any(v.U64()).(T)
	case float32:
		return any(v.F32()).(T)
	case float64:
		return any(v.F64()).(T)
	default:
		return zero
	}
}

// vecKindOf reports the value.Kind a Go numeric element type T's vector
// maps onto.
func vecKindOf[T Numeric]() value.Kind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return value.VecI8
	case int16:
		return value.VecI16
	case int32:
		return value.VecI32
	case int64:
		return value.VecI64
	case uint8:
		return value.VecU8
	case uint16:
		return value.VecU16
	case uint32:
		return value.VecU32
	case uint64:
		return value.VecU64
	case float32:
		return value.VecF32
	case float64:
		return value.VecF64
	default:
		return value.Null
	}
}

func vecToValue[T Numeric](s []T) value.Value {
	switch any(s).(type) {
	case []int8:
		return value.NewVecI8(any(s).([]int8))
	case []int16:
		return value.NewVecI16(any(s).([]int16))
	case []int32:
		return value.NewVecI32(any(s).([]int32))
	case []int64:
		return value.NewVecI64(any(s).([]int64))
	case []uint8:
		return value.NewVecU8(any(s).([]uint8))
	case []uint16:
		return value.NewVecU16(any(s).([]uint16))
	case []uint32:
		return value.NewVecU32(any(s).([]uint32))
	case []uint64:
		return value.NewVecU64(any(s).([]uint64))
	case []float32:
		return value.NewVecF32(any(s).([]float32))
	case []float64:
		return value.NewVecF64(any(s).([]float64))
	default:
		return value.NewNull()
	}
}

// valueToVec copies v's elements into out, returning the number copied
// (min(len(out), element count)). The caller must already know v.Type()
// == vecKindOf[T]().
func valueToVec[T Numeric](v value.Value, out []T) int {
	var zero T
	switch any(zero).(type) {
	case int8:
		return copy(any(out).([]int8), v.VecI8())
	case int16:
		return copy(any(out).([]int16), v.VecI16())
	case int32:
		return copy(any(out).([]int32), v.VecI32())
	case int64:
		return copy(any(out).([]int64), v.VecI64())
	case uint8:
		return copy(any(out).([]uint8), v.VecU8())
	case uint16:
		return copy(any(out).([]uint16), v.VecU16())
	case uint32:
		return copy(any(out).([]uint32), v.VecU32())
	case uint64:
		return copy(any(out).([]uint64), v.VecU64())
	case float32:
		return copy(any(out).([]float32), v.VecF32())
	case float64:
		return copy(any(out).([]float64), v.VecF64())
	default:
		return 0
	}
}
