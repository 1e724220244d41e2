package numeric

import (
	"github.com/holiman/uint256"

	"github.com/soulboard-labs/soulboard-go/errdefs"
)

// Rounding selects how an inexact integer division resolves.
type Rounding int

const (
	// RoundFloor truncates toward zero (integer division). The default
	// everywhere a policy is not given.
	RoundFloor Rounding = iota
	// RoundHalf rounds half away from zero.
	RoundHalf
	// RoundCeil rounds up.
	RoundCeil
)

func (r Rounding) String() string {
	switch r {
	case RoundHalf:
		return "round"
	case RoundCeil:
		return "ceil"
	default:
		return "floor"
	}
}

// ParseRounding maps the wire names "floor", "round" and "ceil". An empty
// string selects the floor default.
func ParseRounding(s string) (Rounding, error) {
	switch s {
	case "", "floor":
		return RoundFloor, nil
	case "round":
		return RoundHalf, nil
	case "ceil":
		return RoundCeil, nil
	default:
		return RoundFloor, errdefs.NewInvalidArgument("rounding", "unknown mode %q", s)
	}
}

// MulDiv computes a*b/den under the given rounding, exactly, in 256-bit
// integer arithmetic. The intermediate product may exceed 64 bits; only a
// final result above 64 bits or a zero denominator is an error.
func MulDiv(field string, a, b, den uint64, rounding Rounding) (uint64, error) {
	if den == 0 {
		return 0, errdefs.NewInvalidArgument(field, "division by zero")
	}
	num := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	d := uint256.NewInt(den)

	switch rounding {
	case RoundCeil:
		// (num + den - 1) / den
		num.Add(num, new(uint256.Int).SubUint64(d, 1))
	case RoundHalf:
		// (num + den/2) / den
		num.Add(num, new(uint256.Int).Rsh(d, 1))
	}
	num.Div(num, d)
	if num.BitLen() > 64 {
		return 0, errdefs.NewInvalidArgument(field, "result %s exceeds 64 bits", num.Dec())
	}
	return num.Uint64(), nil
}

// CheckedMul multiplies two amounts, failing instead of wrapping on 64-bit
// overflow.
func CheckedMul(field string, a, b uint64) (uint64, error) {
	product, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(a), uint256.NewInt(b))
	if overflow || product.BitLen() > 64 {
		return 0, errdefs.NewInvalidArgument(field, "product %d*%d exceeds 64 bits", a, b)
	}
	return product.Uint64(), nil
}

// CheckedAdd adds two amounts, failing instead of wrapping on 64-bit
// overflow.
func CheckedAdd(field string, a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errdefs.NewInvalidArgument(field, "sum %d+%d exceeds 64 bits", a, b)
	}
	return sum, nil
}
