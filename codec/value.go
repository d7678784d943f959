package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// valueTag is the 1-byte wire discriminant for a Value's kind. It is
// independent of value.Kind's own numbering so the wire format does not
// shift if the in-memory enum is reordered.
type valueTag uint8

const (
	tagNull valueTag = iota
	tagBool
	tagI8
	tagI16
	tagI32
	tagI64
	tagU8
	tagU16
	tagU32
	tagU64
	tagF32
	tagF64
	tagString
	tagVecI8
	tagVecI16
	tagVecI32
	tagVecI64
	tagVecU8
	tagVecU16
	tagVecU32
	tagVecU64
	tagVecF32
	tagVecF64
)

func tagForKind(k value.Kind) valueTag {
	switch k {
	case value.Null:
		return tagNull
	case value.Bool:
		return tagBool
	case value.I8:
		return tagI8
	case value.I16:
		return tagI16
	case value.I32:
		return tagI32
	case value.I64:
		return tagI64
	case value.U8:
		return tagU8
	case value.U16:
		return tagU16
	case value.U32:
		return tagU32
	case value.U64:
		return tagU64
	case value.F32:
		return tagF32
	case value.F64:
		return tagF64
	case value.String:
		return tagString
	case value.VecI8:
		return tagVecI8
	case value.VecI16:
		return tagVecI16
	case value.VecI32:
		return tagVecI32
	case value.VecI64:
		return tagVecI64
	case value.VecU8:
		return tagVecU8
	case value.VecU16:
		return tagVecU16
	case value.VecU32:
		return tagVecU32
	case value.VecU64:
		return tagVecU64
	case value.VecF32:
		return tagVecF32
	case value.VecF64:
		return tagVecF64
	default:
		return tagNull
	}
}

// putValue writes v as (1-byte tag || payload); vector and string
// payloads are length-prefixed.
func putValue(buf *bytes.Buffer, v value.Value) {
	tag := tagForKind(v.Type())
	buf.WriteByte(byte(tag))
	switch tag {
	case tagNull:
	case tagBool:
		if v.Bool() {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case tagI8:
		buf.WriteByte(byte(v.I8()))
	case tagI16:
		putUint16(buf, uint16(v.I16()))
	case tagI32:
		putUint32(buf, uint32(v.I32()))
	case tagI64:
		putUint64(buf, uint64(v.I64()))
	case tagU8:
		buf.WriteByte(v.U8())
	case tagU16:
		putUint16(buf, v.U16())
	case tagU32:
		putUint32(buf, v.U32())
	case tagU64:
		putUint64(buf, v.U64())
	case tagF32:
		putUint32(buf, math.Float32bits(v.F32()))
	case tagF64:
		putUint64(buf, math.Float64bits(v.F64()))
	case tagString:
		putString(buf, v.Str())
	case tagVecI8:
		s := v.VecI8()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			buf.WriteByte(byte(x))
		}
	case tagVecI16:
		s := v.VecI16()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			putUint16(buf, uint16(x))
		}
	case tagVecI32:
		s := v.VecI32()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			putUint32(buf, uint32(x))
		}
	case tagVecI64:
		s := v.VecI64()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			putUint64(buf, uint64(x))
		}
	case tagVecU8:
		s := v.VecU8()
		putUint32(buf, uint32(len(s)))
		buf.Write(s)
	case tagVecU16:
		s := v.VecU16()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			putUint16(buf, x)
		}
	case tagVecU32:
		s := v.VecU32()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			putUint32(buf, x)
		}
	case tagVecU64:
		s := v.VecU64()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			putUint64(buf, x)
		}
	case tagVecF32:
		s := v.VecF32()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			putUint32(buf, math.Float32bits(x))
		}
	case tagVecF64:
		s := v.VecF64()
		putUint32(buf, uint32(len(s)))
		for _, x := range s {
			putUint64(buf, math.Float64bits(x))
		}
	}
}

func getValue(r *bytes.Reader) (value.Value, bool) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return value.Value{}, false
	}
	switch valueTag(tagByte) {
	case tagNull:
		return value.NewNull(), true
	case tagBool:
		b, err := r.ReadByte()
		if err != nil {
			return value.Value{}, false
		}
		return value.NewBool(b != 0), true
	case tagI8:
		b, err := r.ReadByte()
		if err != nil {
			return value.Value{}, false
		}
		return value.NewI8(int8(b)), true
	case tagI16:
		u, ok := getUint16(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewI16(int16(u)), true
	case tagI32:
		u, ok := getUint32(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewI32(int32(u)), true
	case tagI64:
		u, ok := getUint64(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewI64(int64(u)), true
	case tagU8:
		b, err := r.ReadByte()
		if err != nil {
			return value.Value{}, false
		}
		return value.NewU8(b), true
	case tagU16:
		u, ok := getUint16(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewU16(u), true
	case tagU32:
		u, ok := getUint32(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewU32(u), true
	case tagU64:
		u, ok := getUint64(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewU64(u), true
	case tagF32:
		u, ok := getUint32(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewF32(math.Float32frombits(u)), true
	case tagF64:
		u, ok := getUint64(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewF64(math.Float64frombits(u)), true
	case tagString:
		s, ok := getString(r)
		if !ok {
			return value.Value{}, false
		}
		return value.NewString(s), true
	case tagVecI8:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]int8, n)
		for i := range out {
			b, err := r.ReadByte()
			if err != nil {
				return value.Value{}, false
			}
			out[i] = int8(b)
		}
		return value.NewVecI8(out), true
	case tagVecI16:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]int16, n)
		for i := range out {
			u, ok := getUint16(r)
			if !ok {
				return value.Value{}, false
			}
			out[i] = int16(u)
		}
		return value.NewVecI16(out), true
	case tagVecI32:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]int32, n)
		for i := range out {
			u, ok := getUint32(r)
			if !ok {
				return value.Value{}, false
			}
			out[i] = int32(u)
		}
		return value.NewVecI32(out), true
	case tagVecI64:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]int64, n)
		for i := range out {
			u, ok := getUint64(r)
			if !ok {
				return value.Value{}, false
			}
			out[i] = int64(u)
		}
		return value.NewVecI64(out), true
	case tagVecU8:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]uint8, n)
		if _, err := r.Read(out); err != nil {
			return value.Value{}, false
		}
		return value.NewVecU8(out), true
	case tagVecU16:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]uint16, n)
		for i := range out {
			u, ok := getUint16(r)
			if !ok {
				return value.Value{}, false
			}
			out[i] = u
		}
		return value.NewVecU16(out), true
	case tagVecU32:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]uint32, n)
		for i := range out {
			u, ok := getUint32(r)
			if !ok {
				return value.Value{}, false
			}
			out[i] = u
		}
		return value.NewVecU32(out), true
	case tagVecU64:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]uint64, n)
		for i := range out {
			u, ok := getUint64(r)
			if !ok {
				return value.Value{}, false
			}
			out[i] = u
		}
		return value.NewVecU64(out), true
	case tagVecF32:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]float32, n)
		for i := range out {
			u, ok := getUint32(r)
			if !ok {
				return value.Value{}, false
			}
			out[i] = math.Float32frombits(u)
		}
		return value.NewVecF32(out), true
	case tagVecF64:
		n, ok := vecLen(r)
		if !ok {
			return value.Value{}, false
		}
		out := make([]float64, n)
		for i := range out {
			u, ok := getUint64(r)
			if !ok {
				return value.Value{}, false
			}
			out[i] = math.Float64frombits(u)
		}
		return value.NewVecF64(out), true
	default:
		return value.Value{}, false
	}
}

// vecLen reads a vector's element count and sanity-checks it against the
// remaining buffer so a corrupt length cannot force a huge allocation.
func vecLen(r *bytes.Reader) (int, bool) {
	n, ok := getUint32(r)
	if !ok {
		return 0, false
	}
	if uint64(n) > uint64(r.Len()) {
		return 0, false
	}
	return int(n), true
}

func putUint16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func getUint16(r *bytes.Reader) (uint16, bool) {
	var tmp [2]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, false
	}
	return binary.BigEndian.Uint16(tmp[:]), true
}

func putUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func getUint32(r *bytes.Reader) (uint32, bool) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, false
	}
	return binary.BigEndian.Uint32(tmp[:]), true
}
