package codec

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/CogentEmbedded/tweaktool-sub001/value"
)

func TestRoundTripEachMessage(t *testing.T) {
	cases := []Message{
		{Kind: KindFeatures, Features: "scalar;vector"},
		{Kind: KindAddItem, ID: 7, URI: "/a/b", Desc: "d", Meta: `{"caption":"x"}`,
			Default: value.NewI32(1), Current: value.NewI32(2)},
		{Kind: KindChangeItem, ID: 7, Current: value.NewVecF64([]float64{1, 2, 3})},
		{Kind: KindRemoveItem, ID: 7},
		{Kind: KindSubscribe, URIPatterns: "*"},
	}
	for _, m := range cases {
		encoded := Encode(m)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decode %s: %v", m.Kind, err)
		}
		if decoded.Kind != m.Kind || decoded.ID != m.ID || decoded.URI != m.URI ||
			decoded.Desc != m.Desc || decoded.Meta != m.Meta ||
			decoded.Features != m.Features || decoded.URIPatterns != m.URIPatterns {
			t.Fatalf("round trip mismatch for %s: %+v != %+v", m.Kind, decoded, m)
		}
		if !value.Equal(m.Default, decoded.Default) && m.Default.Type() != value.Null {
			t.Fatalf("default value mismatch for %s", m.Kind)
		}
		if !value.Equal(m.Current, decoded.Current) && m.Current.Type() != value.Null {
			t.Fatalf("current value mismatch for %s", m.Kind)
		}
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	m := Message{Kind: KindAddItem, ID: 1, URI: "/x", Default: value.NewBool(true), Current: value.NewBool(false)}
	a := Encode(m)
	b := Encode(m)
	if !bytes.Equal(a, b) {
		t.Fatal("Encode must be deterministic for the same logical message")
	}
}

func TestDecodeTruncatedInputFails(t *testing.T) {
	full := Encode(Message{Kind: KindAddItem, ID: 1, URI: "/x", Default: value.NewI32(1), Current: value.NewI32(1)})
	for n := 0; n < len(full); n++ {
		if _, err := Decode(full[:n]); err == nil {
			t.Fatalf("expected error decoding truncated input of length %d", n)
		}
	}
}

func TestDecodeUnknownKindFails(t *testing.T) {
	if _, err := Decode([]byte{0xFF}); err == nil {
		t.Fatal("expected error for unknown kind byte")
	}
}

func TestDecodeTrailingBytesFails(t *testing.T) {
	encoded := Encode(Message{Kind: KindRemoveItem, ID: 1})
	encoded = append(encoded, 0x00)
	if _, err := Decode(encoded); err == nil {
		t.Fatal("expected error for trailing bytes")
	}
}

func TestVectorOversizeLengthRejected(t *testing.T) {
	// layout: kind(1) | id(8) | valueTag(1) | vecLen(4) | elements(2*4) | generation(8)
	encoded := Encode(Message{Kind: KindChangeItem, ID: 1, Current: value.NewVecI32([]int32{1, 2})})
	corrupt := append([]byte(nil), encoded...)
	const vecLenOffset = 1 + 8 + 1
	corrupt[vecLenOffset] = 0xFF
	corrupt[vecLenOffset+1] = 0xFF
	if _, err := Decode(corrupt); err == nil {
		t.Fatal("expected error for a vector length exceeding the buffer")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg1 := Encode(Message{Kind: KindSubscribe, URIPatterns: "*"})
	msg2 := Encode(Message{Kind: KindRemoveItem, ID: 42})

	if err := WriteFrame(&buf, msg1); err != nil {
		t.Fatal(err)
	}
	if err := WriteFrame(&buf, msg2); err != nil {
		t.Fatal(err)
	}

	r := bufio.NewReader(&buf)
	got1, err := ReadFrame(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got1, msg1) {
		t.Fatal("first frame mismatch")
	}
	got2, err := ReadFrame(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got2, msg2) {
		t.Fatal("second frame mismatch")
	}
}

func TestFrameOversizeRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	r := bufio.NewReader(&buf)
	if _, err := ReadFrame(r); err == nil {
		t.Fatal("expected error for an oversize frame length prefix")
	}
}
