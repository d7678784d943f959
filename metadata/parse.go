package metadata

import (
	"encoding/json"
	"strings"

	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

type rawLayout struct {
	Dimensions []int  `json:"dimensions"`
	Order      string `json:"order"`
}

type rawMetadata struct {
	Min      *json.Number      `json:"min"`
	Max      *json.Number      `json:"max"`
	Step     *json.Number      `json:"step"`
	Decimals *int              `json:"decimals"`
	ReadOnly *bool             `json:"readonly"`
	Caption  *string           `json:"caption"`
	Unit     *string           `json:"unit"`
	Control  *string           `json:"control"`
	Options  []json.RawMessage `json:"options"`
	Layout   *rawLayout        `json:"layout"`
}

// Parse builds the Metadata for an item of type itemType (elementCount
// elements when itemType is a vector kind) from its JSON metadata
// document. An empty or malformed document yields the per-type defaults
// unchanged; this mirrors tweakmetadata's behavior of never failing an
// item add over bad metadata.
func Parse(itemType value.Kind, elementCount int, jsonText string) Metadata {
	md := defaultsFor(itemType, elementCount)
	if jsonText == "" {
		return md
	}

	var raw rawMetadata
	dec := json.NewDecoder(strings.NewReader(jsonText))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return defaultsFor(itemType, elementCount)
	}

	scalarKind := itemType
	if itemType.IsVector() {
		scalarKind = value.ScalarKindOf(itemType)
	}
	flavour := flavourOf(itemType)

	if itemType.IsVector() {
		if raw.Layout != nil {
			layout, ok := validateLayout(*raw.Layout, elementCount)
			if !ok {
				return defaultsFor(itemType, elementCount)
			}
			md.Layout = &layout
		}
	}

	if raw.Control != nil {
		if c, ok := controlFromString(*raw.Control); ok && admissibleControls(flavour)[c] {
			md.Control = c
		}
	}
	if raw.Min != nil {
		if v, result := value.FromString(raw.Min.String(), scalarKind); result != value.Failed {
			md.Min = v
		}
	}
	if raw.Max != nil {
		if v, result := value.FromString(raw.Max.String(), scalarKind); result != value.Failed {
			md.Max = v
		}
	}
	if raw.Step != nil {
		if v, result := value.FromString(raw.Step.String(), scalarKind); result != value.Failed {
			md.Step = v
		}
	}
	if raw.Decimals != nil {
		md.Decimals = uint32(*raw.Decimals)
	}
	if raw.ReadOnly != nil {
		md.ReadOnly = *raw.ReadOnly
	}
	if raw.Caption != nil {
		md.Caption = *raw.Caption
	}
	if raw.Unit != nil {
		md.Unit = *raw.Unit
	}
	if len(raw.Options) > 0 {
		if opts, ok := parseOptions(raw.Options, scalarKind); ok {
			md.Options = opts
			// options presence overrides control to Combobox and nulls
			// out the numeric min/max/step.
			if admissibleControls(flavour)[Combobox] {
				md.Control = Combobox
			}
			md.Min = value.NewNull()
			md.Max = value.NewNull()
			md.Step = value.NewNull()
		}
	}

	return md
}

// parseOptions implements parse_options_array/variant_increment from
// original_source/tweak-metadata/src/tweakmetadata.c: every element but
// the first increments the running counter before use; an {text, value}
// object resets the counter to its own value instead of incrementing.
func parseOptions(raw []json.RawMessage, scalarKind value.Kind) ([]Option, bool) {
	counter := zeroValue(scalarKind)
	out := make([]Option, 0, len(raw))
	for i, item := range raw {
		if i != 0 {
			counter = incrementValue(counter)
		}

		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			out = append(out, Option{Text: text, Value: counter})
			continue
		}

		var obj struct {
			Text  string      `json:"text"`
			Value json.Number `json:"value"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return nil, false
		}
		v, result := value.FromString(obj.Value.String(), scalarKind)
		if result == value.Failed {
			return nil, false
		}
		counter = v
		out = append(out, Option{Text: obj.Text, Value: counter})
	}
	return out, true
}

func zeroValue(k value.Kind) value.Value {
	if k == value.Bool {
		return value.NewBool(false)
	}
	v, _ := value.FromString("0", k)
	return v
}

func incrementValue(v value.Value) value.Value {
	switch v.Type() {
	case value.Bool:
		return value.NewBool(!v.Bool())
	case value.I8:
		return value.NewI8(v.I8() + 1)
	case value.I16:
		return value.NewI16(v.I16() + 1)
	case value.I32:
		return value.NewI32(v.I32() + 1)
	case value.I64:
		return value.NewI64(v.I64() + 1)
	case value.U8:
		return value.NewU8(v.U8() + 1)
	case value.U16:
		return value.NewU16(v.U16() + 1)
	case value.U32:
		return value.NewU32(v.U32() + 1)
	case value.U64:
		return value.NewU64(v.U64() + 1)
	case value.F32:
		return value.NewF32(v.F32() + 1)
	case value.F64:
		return value.NewF64(v.F64() + 1)
	default:
		return v
	}
}

// validateLayout checks that the explicit dimensions multiply out to
// elementCount, matching the vector/Table row of the per-type defaults table.
func validateLayout(raw rawLayout, elementCount int) (Layout, bool) {
	if len(raw.Dimensions) == 0 {
		return Layout{}, false
	}
	product := 1
	for _, d := range raw.Dimensions {
		if d <= 0 {
			return Layout{}, false
		}
		product *= d
	}
	if product != elementCount {
		return Layout{}, false
	}
	order := RowMajor
	switch raw.Order {
	case "", "row-major":
		order = RowMajor
	case "column-major":
		order = ColumnMajor
	default:
		return Layout{}, false
	}
	return Layout{Dims: append([]int(nil), raw.Dimensions...), Order: order}, true
}
