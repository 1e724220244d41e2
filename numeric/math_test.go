package numeric

import (
	"math"
	"testing"
)

func TestMulDivRoundingModes(t *testing.T) {
	// 7*3/2 = 10.5
	cases := []struct {
		rounding Rounding
		want     uint64
	}{
		{RoundFloor, 10},
		{RoundHalf, 11},
		{RoundCeil, 11},
	}
	for _, tc := range cases {
		got, err := MulDiv("x", 7, 3, 2, tc.rounding)
		if err != nil {
			t.Fatalf("%s: %v", tc.rounding, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.rounding, got, tc.want)
		}
	}
}

func TestMulDivExactDivision(t *testing.T) {
	for _, r := range []Rounding{RoundFloor, RoundHalf, RoundCeil} {
		got, err := MulDiv("x", 1_000_000, 250, 10_000, r)
		if err != nil {
			t.Fatal(err)
		}
		if got != 25_000 {
			t.Fatalf("%s: got %d", r, got)
		}
	}
}

func TestMulDivHalfRoundsDownBelowMidpoint(t *testing.T) {
	// 7*1/3 = 2.33
	got, err := MulDiv("x", 7, 1, 3, RoundHalf)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestMulDivIntermediateOverflowIsFine(t *testing.T) {
	// a*b overflows uint64 but the quotient fits.
	got, err := MulDiv("x", math.MaxUint64, 2, 4, RoundFloor)
	if err != nil {
		t.Fatal(err)
	}
	if got != math.MaxUint64/2 {
		t.Fatalf("got %d", got)
	}
}

func TestMulDivResultOverflow(t *testing.T) {
	if _, err := MulDiv("x", math.MaxUint64, 2, 1, RoundFloor); err == nil {
		t.Fatal("overflowing quotient accepted")
	}
}

func TestCheckedMulOverflow(t *testing.T) {
	if got, err := CheckedMul("x", 1<<32, 1<<31); err != nil || got != 1<<63 {
		t.Fatalf("got %d, %v", got, err)
	}
	if _, err := CheckedMul("x", 1<<32, 1<<32); err == nil {
		t.Fatal("overflow accepted")
	}
}

func TestCheckedAddOverflow(t *testing.T) {
	if _, err := CheckedAdd("x", math.MaxUint64, 1); err == nil {
		t.Fatal("overflow accepted")
	}
	if got, err := CheckedAdd("x", math.MaxUint64-1, 1); err != nil || got != math.MaxUint64 {
		t.Fatalf("got %d, %v", got, err)
	}
}

func TestParseRounding(t *testing.T) {
	cases := map[string]Rounding{
		"":      RoundFloor,
		"floor": RoundFloor,
		"round": RoundHalf,
		"ceil":  RoundCeil,
	}
	for in, want := range cases {
		got, err := ParseRounding(in)
		if err != nil {
			t.Fatalf("ParseRounding(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRounding(%q) = %v", in, got)
		}
	}
	if _, err := ParseRounding("bankers"); err == nil {
		t.Fatal("unknown mode accepted")
	}
}
