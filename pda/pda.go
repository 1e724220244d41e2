// Package pda derives the program-derived account addresses used by the
// Soulboard marketplace. Derivation is pure and deterministic: any two
// callers with the same program id and inputs compute byte-identical
// addresses with no coordination, which is what lets the SDK know an
// account's address before the program has ever initialized it.
package pda

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/soulboard-labs/soulboard-go/types"
)

const (
	// MaxSeeds is the maximum number of seeds a single derivation accepts.
	MaxSeeds = 16
	// MaxSeedLength is the maximum byte length of one seed.
	MaxSeedLength = 32
)

// derivedAddressMarker is the domain separator appended after the program id
// when hashing, so PDA hashes can never collide with other sha256 uses.
var derivedAddressMarker = []byte("ProgramDerivedAddress")

// ErrSeedsOnCurve means the seed set (including bump) hashed onto the ed25519
// curve and cannot be used as a program address.
var ErrSeedsOnCurve = errors.New("invalid seeds: address falls on the curve")

// CreateProgramAddress hashes seeds‖bump-free input with the program id and
// marker, requiring the result to fall off the ed25519 curve so no private
// key can exist for it.
func CreateProgramAddress(programID types.PublicKey, seeds ...[]byte) (types.PublicKey, error) {
	var zero types.PublicKey
	if len(seeds) > MaxSeeds {
		return zero, fmt.Errorf("too many seeds: %d, max %d", len(seeds), MaxSeeds)
	}
	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return zero, fmt.Errorf("seed %d is %d bytes, max %d", i, len(seed), MaxSeedLength)
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(derivedAddressMarker)

	var pk types.PublicKey
	copy(pk[:], h.Sum(nil))
	if pk.IsOnCurve() {
		return zero, ErrSeedsOnCurve
	}
	return pk, nil
}

// FindProgramAddress searches bump seeds from 255 downward for the first
// off-curve address. The on-chain program performs the identical search, so
// the pair (address, bump) agrees across every client and the program itself.
func FindProgramAddress(programID types.PublicKey, seeds ...[]byte) (types.PublicKey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		withBump := make([][]byte, len(seeds), len(seeds)+1)
		copy(withBump, seeds)
		withBump = append(withBump, []byte{byte(bump)})
		addr, err := CreateProgramAddress(programID, withBump...)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrSeedsOnCurve) {
			return types.PublicKey{}, 0, err
		}
	}
	return types.PublicKey{}, 0, errors.New("unable to find a viable bump seed")
}
