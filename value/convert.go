package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ConvResult reports how FromString's textual parse went.
type ConvResult uint8

const (
	Success ConvResult = iota
	Truncated
	Failed
)

func (r ConvResult) String() string {
	switch r {
	case Success:
		return "success"
	case Truncated:
		return "truncated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// integer range bounds per scalar kind, used to saturate out-of-range
// conversions.
func intBounds(k Kind) (lo, hi float64, unsigned bool) {
	switch k {
	case I8:
		return math.MinInt8, math.MaxInt8, false
	case I16:
		return math.MinInt16, math.MaxInt16, false
	case I32:
		return math.MinInt32, math.MaxInt32, false
	case I64:
		return math.MinInt64, math.MaxInt64, false
	case U8:
		return 0, math.MaxUint8, true
	case U16:
		return 0, math.MaxUint16, true
	case U32:
		return 0, math.MaxUint32, true
	case U64:
		return 0, math.MaxUint64, true
	default:
		return 0, 0, false
	}
}

func isIntegerKind(k Kind) bool {
	switch k {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

func isFloatKind(k Kind) bool { return k == F32 || k == F64 }

// newIntValue builds a Value of kind k (must be an integer kind) from a
// float64 magnitude, saturating to the type's range.
func newIntValue(k Kind, x float64) (Value, ConvResult) {
	lo, hi, unsigned := intBounds(k)
	result := Success
	if x != math.Trunc(x) {
		result = Truncated
	}
	if x < lo {
		x = lo
		result = Truncated
	} else if x > hi {
		x = hi
		result = Truncated
	}
	if unsigned {
		u := uint64(x)
		switch k {
		case U8:
			return NewU8(uint8(u)), result
		case U16:
			return NewU16(uint16(u)), result
		case U32:
			return NewU32(uint32(u)), result
		default:
			if x >= hi {
				return NewU64(math.MaxUint64), Truncated
			}
			return NewU64(u), result
		}
	}
	i := int64(x)
	switch k {
	case I8:
		return NewI8(int8(i)), result
	case I16:
		return NewI16(int16(i)), result
	case I32:
		return NewI32(int32(i)), result
	default:
		if x >= hi {
			return NewI64(math.MaxInt64), Truncated
		}
		return NewI64(i), result
	}
}

// parseIntegerText parses text as target integer kind k: a plain decimal
// integer is saturated to range; anything else is parsed as a float and
// rounded to nearest, which always reports Truncated since the
// conversion was not exact.
func parseIntegerText(text string, k Kind) (Value, ConvResult) {
	_, _, unsigned := intBounds(k)
	if unsigned {
		if u, err := strconv.ParseUint(text, 10, 64); err == nil {
			if k == U64 {
				return NewU64(u), Success
			}
			return newIntValue(k, float64(u))
		}
	} else {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			if k == I64 {
				return NewI64(i), Success
			}
			return newIntValue(k, float64(i))
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !math.IsInf(f, 0) {
		return Value{}, Failed
	}
	rounded := math.Round(f)
	v, _ := newIntValue(k, rounded)
	return v, Truncated
}

func parseBoolText(text string) (Value, ConvResult) {
	switch text {
	case "true", "1", "on":
		return NewBool(true), Success
	case "false", "0", "off":
		return NewBool(false), Success
	default:
		return Value{}, Failed
	}
}

func parseFloatText(text string, k Kind) (Value, ConvResult) {
	bits := 64
	if k == F32 {
		bits = 32
	}
	f, err := strconv.ParseFloat(text, bits)
	if err != nil && !math.IsInf(f, 0) {
		return Value{}, Failed
	}
	if k == F32 {
		return NewF32(float32(f)), Success
	}
	return NewF64(f), Success
}

func parseVectorText(text string, k Kind) (Value, ConvResult) {
	scalar := ScalarKindOf(k)
	var raw []json.Number
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Value{}, Failed
	}
	result := Success
	switch scalar {
	case F32, F64:
		floats := make([]float64, len(raw))
		for i, n := range raw {
			f, err := n.Float64()
			if err != nil {
				return Value{}, Failed
			}
			floats[i] = f
		}
		return buildFloatVector(k, floats), result
	default:
		ints := make([]float64, len(raw))
		for i, n := range raw {
			f, err := n.Float64()
			if err != nil {
				return Value{}, Failed
			}
			ints[i] = f
		}
		return buildIntVector(k, scalar, ints, &result)
	}
}

func buildFloatVector(k Kind, floats []float64) Value {
	switch k {
	case VecF32:
		out := make([]float32, len(floats))
		for i, f := range floats {
			out[i] = float32(f)
		}
		return NewVecF32(out)
	default:
		return NewVecF64(floats)
	}
}

func buildIntVector(k, scalar Kind, vals []float64, result *ConvResult) (Value, ConvResult) {
	lo, hi, _ := intBounds(scalar)
	saturate := func(x float64) float64 {
		if x != math.Trunc(x) {
			*result = Truncated
		}
		if x < lo {
			*result = Truncated
			return lo
		}
		if x > hi {
			*result = Truncated
			return hi
		}
		return x
	}
	switch k {
	case VecI8:
		out := make([]int8, len(vals))
		for i, x := range vals {
			out[i] = int8(saturate(x))
		}
		return NewVecI8(out), *result
	case VecI16:
		out := make([]int16, len(vals))
		for i, x := range vals {
			out[i] = int16(saturate(x))
		}
		return NewVecI16(out), *result
	case VecI32:
		out := make([]int32, len(vals))
		for i, x := range vals {
			out[i] = int32(saturate(x))
		}
		return NewVecI32(out), *result
	case VecI64:
		out := make([]int64, len(vals))
		for i, x := range vals {
			out[i] = int64(saturate(x))
		}
		return NewVecI64(out), *result
	case VecU8:
		out := make([]uint8, len(vals))
		for i, x := range vals {
			out[i] = uint8(saturate(x))
		}
		return NewVecU8(out), *result
	case VecU16:
		out := make([]uint16, len(vals))
		for i, x := range vals {
			out[i] = uint16(saturate(x))
		}
		return NewVecU16(out), *result
	case VecU32:
		out := make([]uint32, len(vals))
		for i, x := range vals {
			out[i] = uint32(saturate(x))
		}
		return NewVecU32(out), *result
	default:
		out := make([]uint64, len(vals))
		for i, x := range vals {
			out[i] = uint64(saturate(x))
		}
		return NewVecU64(out), *result
	}
}

// FromString parses text into a Value of kind target, reporting a
// ConvResult that distinguishes exact parses from coerced or failed ones.
// On Failed the returned Value is Null.
func FromString(text string, target Kind) (Value, ConvResult) {
	switch {
	case target == Null:
		return Value{}, Failed
	case target == Bool:
		return parseBoolText(text)
	case isIntegerKind(target):
		if text == "" {
			return Value{}, Failed
		}
		return parseIntegerText(text, target)
	case isFloatKind(target):
		if text == "" {
			return Value{}, Failed
		}
		return parseFloatText(text, target)
	case target == String:
		return NewString(text), Success
	case target.IsVector():
		return parseVectorText(text, target)
	default:
		return Value{}, Failed
	}
}
