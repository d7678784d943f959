package value

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ToString renders v with full-precision
// scalars, "true"/"false" booleans, strings verbatim, vectors as
// "[e0, e1, ...]" with elements rendered recursively.
func ToString(v Value) string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case I8, I16, I32, I64:
		return strconv.FormatInt(v.i64, 10)
	case U8, U16, U32, U64:
		return strconv.FormatUint(v.u64, 10)
	case F32:
		return strconv.FormatFloat(float64(v.f32), 'g', -1, 32)
	case F64:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case String:
		return v.str
	case VecI8:
		return joinInts(len(v.vI8), func(i int) string { return strconv.FormatInt(int64(v.vI8[i]), 10) })
	case VecI16:
		return joinInts(len(v.vI16), func(i int) string { return strconv.FormatInt(int64(v.vI16[i]), 10) })
	case VecI32:
		return joinInts(len(v.vI32), func(i int) string { return strconv.FormatInt(int64(v.vI32[i]), 10) })
	case VecI64:
		return joinInts(len(v.vI64), func(i int) string { return strconv.FormatInt(v.vI64[i], 10) })
	case VecU8:
		return joinInts(len(v.vU8), func(i int) string { return strconv.FormatUint(uint64(v.vU8[i]), 10) })
	case VecU16:
		return joinInts(len(v.vU16), func(i int) string { return strconv.FormatUint(uint64(v.vU16[i]), 10) })
	case VecU32:
		return joinInts(len(v.vU32), func(i int) string { return strconv.FormatUint(uint64(v.vU32[i]), 10) })
	case VecU64:
		return joinInts(len(v.vU64), func(i int) string { return strconv.FormatUint(v.vU64[i], 10) })
	case VecF32:
		return joinInts(len(v.vF32), func(i int) string { return strconv.FormatFloat(float64(v.vF32[i]), 'g', -1, 32) })
	case VecF64:
		return joinInts(len(v.vF64), func(i int) string { return strconv.FormatFloat(v.vF64[i], 'g', -1, 64) })
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

func joinInts(n int, at func(int) string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(at(i))
	}
	b.WriteByte(']')
	return b.String()
}

// ToJSON renders v as {"<type_tag>": <value>} for scalars and strings, or
// {"vector": {"item_type": "<tag>", "items": [...]}} for vectors.
// String/control-character escaping is delegated to encoding/json, which
// escapes bytes below 0x20 as \n, \r and \t where such a short form
// exists and as \u00XX otherwise.
func ToJSON(v Value) string {
	var payload map[string]any
	switch {
	case v.kind == Null:
		payload = map[string]any{}
	case v.kind == Bool:
		payload = map[string]any{v.kind.jsonTag(): v.b}
	case v.kind == I8 || v.kind == I16 || v.kind == I32 || v.kind == I64:
		payload = map[string]any{v.kind.jsonTag(): v.i64}
	case v.kind == U8 || v.kind == U16 || v.kind == U32 || v.kind == U64:
		payload = map[string]any{v.kind.jsonTag(): v.u64}
	case v.kind == F32:
		payload = map[string]any{v.kind.jsonTag(): float64(v.f32)}
	case v.kind == F64:
		payload = map[string]any{v.kind.jsonTag(): v.f64}
	case v.kind == String:
		payload = map[string]any{v.kind.jsonTag(): v.str}
	case v.kind.IsVector():
		payload = map[string]any{
			"vector": map[string]any{
				"item_type": ScalarKindOf(v.kind).jsonTag(),
				"items":     vectorItems(v),
			},
		}
	default:
		payload = map[string]any{}
	}
	out, err := json.Marshal(payload)
	if err != nil {
		// payload is always built from JSON-safe primitives above.
		panic(err)
	}
	return string(out)
}

func vectorItems(v Value) []any {
	switch v.kind {
	case VecI8:
		return toAnySlice(v.vI8, func(x int8) any { return int64(x) })
	case VecI16:
		return toAnySlice(v.vI16, func(x int16) any { return int64(x) })
	case VecI32:
		return toAnySlice(v.vI32, func(x int32) any { return int64(x) })
	case VecI64:
		return toAnySlice(v.vI64, func(x int64) any { return x })
	case VecU8:
		return toAnySlice(v.vU8, func(x uint8) any { return uint64(x) })
	case VecU16:
		return toAnySlice(v.vU16, func(x uint16) any { return uint64(x) })
	case VecU32:
		return toAnySlice(v.vU32, func(x uint32) any { return uint64(x) })
	case VecU64:
		return toAnySlice(v.vU64, func(x uint64) any { return x })
	case VecF32:
		return toAnySlice(v.vF32, func(x float32) any { return float64(x) })
	case VecF64:
		return toAnySlice(v.vF64, func(x float64) any { return x })
	default:
		return nil
	}
}

func toAnySlice[T any](s []T, conv func(T) any) []any {
	out := make([]any, len(s))
	for i, x := range s {
		out[i] = conv(x)
	}
	return out
}
