// Package codec encodes and decodes the five protocol messages
// (Features, AddItem, ChangeItem, RemoveItem, Subscribe) to and from a
// deterministic, self-delimiting byte layout, plus a length-prefix
// framing layer for transports that only deliver a byte stream rather
// than preserving datagram boundaries.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

// Kind identifies which of the five protocol messages a buffer holds.
type Kind uint8

const (
	KindFeatures Kind = iota + 1
	KindAddItem
	KindChangeItem
	KindRemoveItem
	KindSubscribe
)

func (k Kind) String() string {
	switch k {
	case KindFeatures:
		return "Features"
	case KindAddItem:
		return "AddItem"
	case KindChangeItem:
		return "ChangeItem"
	case KindRemoveItem:
		return "RemoveItem"
	case KindSubscribe:
		return "Subscribe"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Message is the union of the five wire messages; exactly the field(s)
// matching Kind are meaningful.
type Message struct {
	Kind Kind

	// Features
	Features string

	// AddItem
	ID      uint64
	URI     string
	Desc    string
	Meta    string
	Default value.Value
	Current value.Value

	// AddItem and ChangeItem both carry Generation: the sender's local
	// generation counter for the item at the moment Current was
	// committed. AddItem uses it to seed the mirrored item's starting
	// counter; ChangeItem uses it so the receiver can discard a
	// late-arriving stale update whose generation it has already passed.
	Generation uint64

	// RemoveItem uses ID only.

	// Subscribe
	URIPatterns string
}

var errMalformed = fmt.Errorf("codec: malformed message")

// ErrMalformed reports a decode failure. Decode never panics and never
// leaves partial state behind: on error the returned Message is zero.
func ErrMalformed() error { return errMalformed }

// Encode serializes m deterministically: the same logical message
// always produces the same bytes.
func Encode(m Message) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(m.Kind))
	switch m.Kind {
	case KindFeatures:
		putString(&buf, m.Features)
	case KindAddItem:
		putUint64(&buf, m.ID)
		putString(&buf, m.URI)
		putString(&buf, m.Desc)
		putString(&buf, m.Meta)
		putValue(&buf, m.Default)
		putValue(&buf, m.Current)
		putUint64(&buf, m.Generation)
	case KindChangeItem:
		putUint64(&buf, m.ID)
		putValue(&buf, m.Current)
		putUint64(&buf, m.Generation)
	case KindRemoveItem:
		putUint64(&buf, m.ID)
	case KindSubscribe:
		putString(&buf, m.URIPatterns)
	}
	return buf.Bytes()
}

// Decode parses exactly one message from buf. Malformed input returns
// ErrMalformed() without panicking.
func Decode(buf []byte) (Message, error) {
	r := bytes.NewReader(buf)
	kindByte, err := r.ReadByte()
	if err != nil {
		return Message{}, errMalformed
	}
	kind := Kind(kindByte)

	var m Message
	m.Kind = kind
	switch kind {
	case KindFeatures:
		s, ok := getString(r)
		if !ok {
			return Message{}, errMalformed
		}
		m.Features = s
	case KindAddItem:
		id, ok := getUint64(r)
		if !ok {
			return Message{}, errMalformed
		}
		m.ID = id
		if m.URI, ok = getString(r); !ok {
			return Message{}, errMalformed
		}
		if m.Desc, ok = getString(r); !ok {
			return Message{}, errMalformed
		}
		if m.Meta, ok = getString(r); !ok {
			return Message{}, errMalformed
		}
		if m.Default, ok = getValue(r); !ok {
			return Message{}, errMalformed
		}
		if m.Current, ok = getValue(r); !ok {
			return Message{}, errMalformed
		}
		if m.Generation, ok = getUint64(r); !ok {
			return Message{}, errMalformed
		}
	case KindChangeItem:
		id, ok := getUint64(r)
		if !ok {
			return Message{}, errMalformed
		}
		m.ID = id
		if m.Current, ok = getValue(r); !ok {
			return Message{}, errMalformed
		}
		if m.Generation, ok = getUint64(r); !ok {
			return Message{}, errMalformed
		}
	case KindRemoveItem:
		id, ok := getUint64(r)
		if !ok {
			return Message{}, errMalformed
		}
		m.ID = id
	case KindSubscribe:
		s, ok := getString(r)
		if !ok {
			return Message{}, errMalformed
		}
		m.URIPatterns = s
	default:
		return Message{}, errMalformed
	}
	if r.Len() != 0 {
		return Message{}, errMalformed
	}
	return m, nil
}

func putUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func getUint64(r *bytes.Reader) (uint64, bool) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, false
	}
	return binary.BigEndian.Uint64(tmp[:]), true
}

func putString(buf *bytes.Buffer, s string) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(s)))
	buf.Write(tmp[:])
	buf.WriteString(s)
}

func getString(r *bytes.Reader) (string, bool) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return "", false
	}
	n := binary.BigEndian.Uint32(tmp[:])
	if uint64(n) > uint64(r.Len()) {
		return "", false
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return "", false
	}
	return string(out), true
}
