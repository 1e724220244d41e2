// Package types defines the on-chain account shapes, status enums and key
// types shared by every part of the Soulboard SDK. The SDK never stores these
// entities itself; it derives their addresses and decodes the program's
// account data into them.
package types

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcutil/base58"
)

// PublicKeyLength is the byte length of an ed25519 public key / account address.
const PublicKeyLength = 32

// PublicKey is a 32-byte account address. Program-derived addresses share this
// representation but have no corresponding private key.
type PublicKey [PublicKeyLength]byte

// PublicKeyFromBase58 parses a base58-encoded address.
func PublicKeyFromBase58(s string) (PublicKey, error) {
	var pk PublicKey
	decoded := base58.Decode(s)
	if len(decoded) != PublicKeyLength {
		return pk, fmt.Errorf("invalid public key %q: decoded to %d bytes, want %d", s, len(decoded), PublicKeyLength)
	}
	copy(pk[:], decoded)
	return pk, nil
}

// MustPublicKeyFromBase58 is PublicKeyFromBase58 for known-good literals; it
// panics on malformed input.
func MustPublicKeyFromBase58(s string) PublicKey {
	pk, err := PublicKeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PublicKeyFromBytes copies b into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeyLength {
		return pk, fmt.Errorf("invalid public key: %d bytes, want %d", len(b), PublicKeyLength)
	}
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 form.
func (p PublicKey) String() string { return base58.Encode(p[:]) }

// Bytes returns a copy of the raw 32 bytes.
func (p PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeyLength)
	copy(b, p[:])
	return b
}

// IsZero reports whether the key is the all-zero address.
func (p PublicKey) IsZero() bool {
	var zero PublicKey
	return p == zero
}

// Equals reports byte equality.
func (p PublicKey) Equals(other PublicKey) bool { return bytes.Equal(p[:], other[:]) }

// IsOnCurve reports whether the bytes decode to a valid ed25519 curve point.
// Program-derived addresses must NOT be on the curve so that no private key
// can ever exist for them.
func (p PublicKey) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

// MarshalJSON encodes the key as a base58 string.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a base58 string.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pk, err := PublicKeyFromBase58(s)
	if err != nil {
		return err
	}
	*p = pk
	return nil
}

// Keypair is a signing identity: an ed25519 private key plus its address.
type Keypair struct {
	priv ed25519.PrivateKey
	pub  PublicKey
}

// NewKeypair generates a fresh random keypair.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	var pk PublicKey
	copy(pk[:], pub)
	return &Keypair{priv: priv, pub: pk}, nil
}

// KeypairFromSeed builds a keypair from a 32-byte ed25519 seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("invalid seed: %d bytes, want %d", len(seed), ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	var pk PublicKey
	copy(pk[:], priv.Public().(ed25519.PublicKey))
	return &Keypair{priv: priv, pub: pk}, nil
}

// PublicKey returns the keypair's address.
func (k *Keypair) PublicKey() PublicKey { return k.pub }

// Sign signs msg with the private key.
func (k *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}
