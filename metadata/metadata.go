// Package metadata parses the free-form JSON document attached to each
// item into a Metadata value describing how a UI should render and
// constrain it.
package metadata

import "github.com/CogentEmbedded/tweaktool-sub001/value"

// Control identifies the editor widget a Metadata recommends.
type Control uint8

const (
	Unspecified Control = iota
	Checkbox
	Spinbox
	Slider
	Combobox
	Button
	Editbox
	Table
)

func (c Control) String() string {
	switch c {
	case Checkbox:
		return "checkbox"
	case Spinbox:
		return "spinbox"
	case Slider:
		return "slider"
	case Combobox:
		return "combobox"
	case Button:
		return "button"
	case Editbox:
		return "editbox"
	case Table:
		return "table"
	default:
		return "unspecified"
	}
}

func controlFromString(s string) (Control, bool) {
	switch s {
	case "checkbox":
		return Checkbox, true
	case "spinbox":
		return Spinbox, true
	case "slider":
		return Slider, true
	case "combobox":
		return Combobox, true
	case "button":
		return Button, true
	case "editbox":
		return Editbox, true
	case "table":
		return Table, true
	default:
		return Unspecified, false
	}
}

// Option is one entry of a Combobox's enumeration.
type Option struct {
	Text  string
	Value value.Value
}

// LayoutOrder is the element ordering of a vector item's Table rendering.
type LayoutOrder uint8

const (
	RowMajor LayoutOrder = iota
	ColumnMajor
)

// Layout describes how a vector item's elements map onto a 2+D grid.
type Layout struct {
	Dims  []int
	Order LayoutOrder
}

// Metadata is the parsed, defaulted, and validated rendering hint set for
// one item.
type Metadata struct {
	Control  Control
	Min      value.Value
	Max      value.Value
	ReadOnly bool
	Decimals uint32
	Step     value.Value
	Caption  string
	Unit     string
	Options  []Option // nil when not present
	Layout   *Layout  // nil when not present
}

// dataFlavour groups item kinds that share an admissible-control table and
// a defaults row.
type dataFlavour uint8

const (
	flavourBool dataFlavour = iota
	flavourInteger
	flavourFloat
	flavourString
	flavourVector
)

func flavourOf(k value.Kind) dataFlavour {
	switch {
	case k == value.Bool:
		return flavourBool
	case k == value.I8 || k == value.I16 || k == value.I32 || k == value.I64 ||
		k == value.U8 || k == value.U16 || k == value.U32 || k == value.U64:
		return flavourInteger
	case k == value.F32 || k == value.F64:
		return flavourFloat
	case k == value.String:
		return flavourString
	default:
		return flavourVector
	}
}

// admissibleControls implements the validation tables in
// original_source/tweak-metadata/src/tweakmetadata.c
// (validate_metadata_bool/integer/float/string/vector).
func admissibleControls(f dataFlavour) map[Control]bool {
	switch f {
	case flavourBool:
		return map[Control]bool{Button: true, Checkbox: true, Spinbox: true, Combobox: true}
	case flavourInteger:
		return map[Control]bool{Spinbox: true, Slider: true, Combobox: true}
	case flavourFloat:
		return map[Control]bool{Slider: true, Spinbox: true}
	case flavourString:
		return map[Control]bool{Editbox: true}
	default: // flavourVector
		return map[Control]bool{Table: true}
	}
}
