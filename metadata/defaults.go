package metadata

import (
	"math"

	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// defaultsFor returns the unconfigured Metadata for an item of the given
// type and element count, per the per-type defaults table.
func defaultsFor(itemType value.Kind, elementCount int) Metadata {
	if itemType.IsVector() {
		scalar := value.ScalarKindOf(itemType)
		base := scalarDefaults(scalar)
		base.Control = Table
		base.Layout = &Layout{Dims: []int{elementCount}, Order: RowMajor}
		return base
	}
	if itemType == value.String {
		return Metadata{
			Control: Editbox,
			Min:     value.NewString(""),
			Max:     value.NewString(""),
			Step:    value.NewString(""),
		}
	}
	return scalarDefaults(itemType)
}

// scalarDefaults returns the defaults row for a single scalar kind,
// independent of whether it is being used standalone or as a vector's
// element type.
func scalarDefaults(k value.Kind) Metadata {
	switch k {
	case value.Bool:
		return Metadata{Control: Checkbox, Min: value.NewBool(false), Max: value.NewBool(true), Step: value.NewBool(false)}
	case value.I8:
		return Metadata{Control: Spinbox, Min: value.NewI8(math.MinInt8), Max: value.NewI8(math.MaxInt8), Step: value.NewI8(1)}
	case value.I16:
		return Metadata{Control: Spinbox, Min: value.NewI16(math.MinInt16), Max: value.NewI16(math.MaxInt16), Step: value.NewI16(1)}
	case value.I32:
		return Metadata{Control: Spinbox, Min: value.NewI32(math.MinInt32), Max: value.NewI32(math.MaxInt32), Step: value.NewI32(1)}
	case value.I64:
		return Metadata{Control: Spinbox, Min: value.NewI64(math.MinInt64), Max: value.NewI64(math.MaxInt64), Step: value.NewI64(1)}
	case value.U8:
		return Metadata{Control: Spinbox, Min: value.NewU8(0), Max: value.NewU8(math.MaxUint8), Step: value.NewU8(1)}
	case value.U16:
		return Metadata{Control: Spinbox, Min: value.NewU16(0), Max: value.NewU16(math.MaxUint16), Step: value.NewU16(1)}
	case value.U32:
		return Metadata{Control: Spinbox, Min: value.NewU32(0), Max: value.NewU32(math.MaxUint32), Step: value.NewU32(1)}
	case value.U64:
		return Metadata{Control: Spinbox, Min: value.NewU64(0), Max: value.NewU64(math.MaxUint64), Step: value.NewU64(1)}
	case value.F32:
		return Metadata{Control: Slider, Min: value.NewF32(-math.MaxFloat32), Max: value.NewF32(math.MaxFloat32), Decimals: 4, Step: value.NewF32(1e-4)}
	case value.F64:
		return Metadata{Control: Slider, Min: value.NewF64(-math.MaxFloat64), Max: value.NewF64(math.MaxFloat64), Decimals: 4, Step: value.NewF64(1e-4)}
	default:
		return Metadata{}
	}
}
