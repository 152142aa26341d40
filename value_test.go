package mint

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:             "0",
		10:            "10",
		-3:            "-3",
		2.5:           "2.5",
		0.1:           "0.1",
		1e21:          "1000000000000000000000",
		1234567890123: "1234567890123",
		math.Inf(1):   "inf",
		math.Inf(-1):  "-inf",
	}
	for n, want := range cases {
		if got := formatNumber(n); got != want {
			t.Fatalf("formatNumber(%v) = %q, want %q", n, got, want)
		}
	}
	if got := formatNumber(math.NaN()); got != "nan" {
		t.Fatalf("got %q", got)
	}
}

func TestToValue(t *testing.T) {
	v, err := ToValue(true)
	if err != nil || v.Kind() != KindBool || !v.AsBool() {
		t.Fatalf("bool: %v %v", v, err)
	}
	v, err = ToValue(false)
	if err != nil || v.AsBool() || v.Truthy() {
		t.Fatalf("false: %v %v", v, err)
	}
	v, err = ToValue(uint8(7))
	if err != nil || v.Kind() != KindNumber || v.AsNumber() != 7 {
		t.Fatalf("uint8: %v %v", v, err)
	}
	v, err = ToValue("s")
	if err != nil || v.AsString() != "s" {
		t.Fatalf("string: %v %v", v, err)
	}
	v, err = ToValue(nil)
	if err != nil || !v.IsNil() {
		t.Fatalf("nil: %v %v", v, err)
	}
	if _, err := ToValue(map[string]int{}); err == nil {
		t.Fatalf("maps have no Mint counterpart")
	}
}
