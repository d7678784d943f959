package value

// Equal reports structural equality of a and b.
//
// Null is never equal to itself: Null represents "absence", so
// Equal(Null, Null) is false and a caller that needs reflexive equality
// checks for Null itself.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return false
	case Bool:
		return a.b == b.b
	case I8, I16, I32, I64:
		return a.i64 == b.i64
	case U8, U16, U32, U64:
		return a.u64 == b.u64
	case F32:
		return a.f32 == b.f32 // IEEE-754 comparison: NaN != NaN, +0 == -0
	case F64:
		return a.f64 == b.f64
	case String:
		return a.str == b.str
	case VecI8:
		return equalSlice(a.vI8, b.vI8)
	case VecI16:
		return equalSlice(a.vI16, b.vI16)
	case VecI32:
		return equalSlice(a.vI32, b.vI32)
	case VecI64:
		return equalSlice(a.vI64, b.vI64)
	case VecU8:
		return equalSlice(a.vU8, b.vU8)
	case VecU16:
		return equalSlice(a.vU16, b.vU16)
	case VecU32:
		return equalSlice(a.vU32, b.vU32)
	case VecU64:
		return equalSlice(a.vU64, b.vU64)
	case VecF32:
		return equalSlice(a.vF32, b.vF32)
	case VecF64:
		return equalSlice(a.vF64, b.vF64)
	default:
		return false
	}
}

func equalSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
