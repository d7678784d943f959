package value

import (
	"math"
	"testing"
)

func TestCopyEqual(t *testing.T) {
	cases := []Value{
		NewBool(true),
		NewI32(-7),
		NewU64(42),
		NewF64(3.14159),
		NewString("hello"),
		NewVecI32([]int32{1, 2, 3}),
		NewVecF64([]float64{1.5, -2.5}),
	}
	for _, v := range cases {
		cp := Copy(v)
		if !Equal(v, cp) {
			t.Errorf("Copy(%v) not equal to original", ToString(v))
		}
	}
}

func TestNullNeverEqual(t *testing.T) {
	if Equal(NewNull(), NewNull()) {
		t.Fatal("Equal(Null, Null) must be false")
	}
}

func TestSwapAndMove(t *testing.T) {
	a := NewI32(1)
	b := NewI32(2)
	Swap(&a, &b)
	if a.I32() != 2 || b.I32() != 1 {
		t.Fatalf("swap failed: a=%v b=%v", a, b)
	}

	src := NewString("owned")
	moved := Move(&src)
	if src.Type() != Null {
		t.Fatalf("Move must leave source Null, got %s", src.Type())
	}
	if moved.Str() != "owned" {
		t.Fatalf("Move must return original value, got %q", moved.Str())
	}
}

func TestFromStringTruncation(t *testing.T) {
	cases := []struct {
		text   string
		kind   Kind
		want   string
		result ConvResult
	}{
		{"256", U8, "255", Truncated},
		{"-1", U8, "0", Truncated},
		{"3.7", I32, "4", Truncated},
		{"300", U8, "255", Truncated},
		{"2.7", I32, "3", Truncated},
		{"7", I32, "7", Success},
	}
	for _, c := range cases {
		v, result := FromString(c.text, c.kind)
		if result != c.result {
			t.Errorf("FromString(%q, %s) result = %s, want %s", c.text, c.kind, result, c.result)
		}
		if ToString(v) != c.want {
			t.Errorf("FromString(%q, %s) = %s, want %s", c.text, c.kind, ToString(v), c.want)
		}
	}
}

func TestFromStringFailed(t *testing.T) {
	v, result := FromString("", I32)
	if result != Failed {
		t.Fatalf("expected Failed, got %s", result)
	}
	if v.Type() != Null {
		t.Fatalf("Failed conversion must leave output Null, got %s", v.Type())
	}

	if _, result := FromString("not-a-bool", Bool); result != Failed {
		t.Fatalf("expected Failed for bad bool text, got %s", result)
	}
}

func TestFromStringInfinity(t *testing.T) {
	v, result := FromString("1.5e309", F64)
	if result != Success {
		t.Fatalf("expected Success, got %s", result)
	}
	if !math.IsInf(v.F64(), 1) {
		t.Fatalf("expected +Inf, got %v", v.F64())
	}
}

func TestRoundTripScalars(t *testing.T) {
	for _, k := range []Kind{I8, I16, I32, I64, U8, U16, U32, U64, F32, F64, Bool} {
		var v Value
		switch k {
		case I8:
			v = NewI8(-12)
		case I16:
			v = NewI16(-1234)
		case I32:
			v = NewI32(123456)
		case I64:
			v = NewI64(-123456789)
		case U8:
			v = NewU8(200)
		case U16:
			v = NewU16(60000)
		case U32:
			v = NewU32(4000000000)
		case U64:
			v = NewU64(18000000000000000000)
		case F32:
			v = NewF32(1.5)
		case F64:
			v = NewF64(2.718281828)
		case Bool:
			v = NewBool(true)
		}
		text := ToString(v)
		back, result := FromString(text, k)
		if result != Success {
			t.Errorf("round trip for %s: result=%s", k, result)
		}
		if !Equal(v, back) {
			t.Errorf("round trip for %s: %s != %s", k, ToString(v), ToString(back))
		}
	}
}

func TestVectorRoundTrip(t *testing.T) {
	v := NewVecF32([]float32{1, 2, 3, -4.5})
	if ToString(v) != "[1, 2, 3, -4.5]" {
		t.Fatalf("ToString(vector) = %s", ToString(v))
	}

	jsonText := ToJSON(v)
	if jsonText == "" {
		t.Fatal("ToJSON produced empty output")
	}

	back, result := FromString(`[1, 2, 3, -4.5]`, VecF32)
	if result != Success {
		t.Fatalf("vector FromString result = %s", result)
	}
	if !Equal(v, back) {
		t.Fatalf("vector round trip mismatch: %v != %v", v.VecF32(), back.VecF32())
	}
}

func TestToJSON(t *testing.T) {
	if got := ToJSON(NewI32(-5)); got != `{"sint32":-5}` {
		t.Errorf("ToJSON(I32(-5)) = %s", got)
	}
	if got := ToJSON(NewBool(true)); got != `{"bool":true}` {
		t.Errorf("ToJSON(Bool(true)) = %s", got)
	}
	if got := ToJSON(NewString("a\tb")); got != `{"string":"a\tb"}` {
		t.Errorf("ToJSON(String) = %s", got)
	}
}

func TestItemCount(t *testing.T) {
	if ItemCount(NewI32(1)) != 1 {
		t.Fatal("scalar item count must be 1")
	}
	if ItemCount(NewVecI32([]int32{1, 2, 3})) != 3 {
		t.Fatal("vector item count must match length")
	}
	if ItemCount(NewNull()) != 0 {
		t.Fatal("null item count must be 0")
	}
}
