// Package numeric canonicalizes caller-supplied integers and performs the
// exact integer arithmetic the fee and pricing engines depend on. All
// computation is integer-only; floating point never touches an amount after
// normalization. Overflow fails rather than wraps.
package numeric

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/soulboard-labs/soulboard-go/errdefs"
)

// maxI64Bits bounds timestamp magnitudes: seed encoding stores them in a
// signed 64-bit slot, so only 63 bits of magnitude are representable.
const maxI64Bits = 63

// Normalize canonicalizes v into an unsigned 64-bit integer. Accepted inputs
// are machine integers, base-10 decimal strings, *big.Int and *uint256.Int.
// Negative, fractional, non-finite and >64-bit values are rejected with an
// invalid-argument error naming field.
func Normalize(field string, v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case int:
		return normalizeSigned(field, int64(n))
	case int64:
		return normalizeSigned(field, n)
	case int32:
		return normalizeSigned(field, int64(n))
	case int16:
		return normalizeSigned(field, int64(n))
	case int8:
		return normalizeSigned(field, int64(n))
	case float64:
		return normalizeFloat(field, n)
	case float32:
		return normalizeFloat(field, float64(n))
	case string:
		return normalizeString(field, n)
	case *big.Int:
		return normalizeBig(field, n)
	case big.Int:
		return normalizeBig(field, &n)
	case *uint256.Int:
		if n.BitLen() > 64 {
			return 0, errdefs.NewInvalidArgument(field, "value %s exceeds 64 bits", n.Dec())
		}
		return n.Uint64(), nil
	default:
		return 0, errdefs.NewInvalidArgument(field, "unsupported numeric type %T", v)
	}
}

func normalizeSigned(field string, n int64) (uint64, error) {
	if n < 0 {
		return 0, errdefs.NewInvalidArgument(field, "value %d is negative", n)
	}
	return uint64(n), nil
}

func normalizeFloat(field string, f float64) (uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errdefs.NewInvalidArgument(field, "value is not finite")
	}
	if f != math.Trunc(f) {
		return 0, errdefs.NewInvalidArgument(field, "value %v has a fractional part", f)
	}
	if f < 0 {
		return 0, errdefs.NewInvalidArgument(field, "value %v is negative", f)
	}
	// 2^64 as a float64 is exact; anything >= it cannot fit.
	if f >= float64(1<<63)*2 {
		return 0, errdefs.NewInvalidArgument(field, "value %v exceeds 64 bits", f)
	}
	return uint64(f), nil
}

func normalizeString(field, s string) (uint64, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return 0, errdefs.NewInvalidArgument(field, "value %q is not a base-10 integer", s)
	}
	return normalizeBig(field, n)
}

func normalizeBig(field string, n *big.Int) (uint64, error) {
	if n.Sign() < 0 {
		return 0, errdefs.NewInvalidArgument(field, "value %s is negative", n)
	}
	if n.BitLen() > 64 {
		return 0, errdefs.NewInvalidArgument(field, "value %s exceeds 64 bits", n)
	}
	return n.Uint64(), nil
}

// NormalizeTimestamp canonicalizes v into a non-negative signed 64-bit epoch
// timestamp. The marketplace never produces negative epochs, so values
// needing more than 63 bits of magnitude are rejected.
func NormalizeTimestamp(field string, v any) (int64, error) {
	n, err := Normalize(field, v)
	if err != nil {
		return 0, err
	}
	if bitsOf(n) > maxI64Bits {
		return 0, errdefs.NewInvalidArgument(field, "timestamp %d exceeds 63 bits", n)
	}
	return int64(n), nil
}

func bitsOf(n uint64) int {
	bits := 0
	for n != 0 {
		bits++
		n >>= 1
	}
	return bits
}

// EncodeU64 normalizes v and emits its 8-byte little-endian unsigned
// encoding, the exact byte form the on-chain program embeds in derivation
// seeds. Width, signedness or endianness mismatches here would silently
// derive a different, wrong address, so the range checks are strict.
func EncodeU64(field string, v any) ([]byte, error) {
	n, err := Normalize(field, v)
	if err != nil {
		return nil, err
	}
	return AppendU64(nil, n), nil
}

// EncodeI64 normalizes v as a non-negative timestamp and emits its 8-byte
// little-endian encoding. The two's-complement form of a non-negative value
// matches the unsigned encoding byte for byte.
func EncodeI64(field string, v any) ([]byte, error) {
	ts, err := NormalizeTimestamp(field, v)
	if err != nil {
		return nil, err
	}
	return AppendU64(nil, uint64(ts)), nil
}

// AppendU64 appends the 8-byte little-endian form of n to dst.
func AppendU64(dst []byte, n uint64) []byte {
	return append(dst,
		byte(n), byte(n>>8), byte(n>>16), byte(n>>24),
		byte(n>>32), byte(n>>40), byte(n>>48), byte(n>>56),
	)
}

// DecodeU64 reads an 8-byte little-endian unsigned integer.
func DecodeU64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errdefs.NewInvalidArgument("buffer", "got %d bytes, want 8", len(b))
	}
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56, nil
}
