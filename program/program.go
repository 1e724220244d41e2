// Package program is the static binding to the on-chain Soulboard program:
// one instruction builder per operation, each with a fixed 8-byte
// discriminator, a typed argument encoding and a typed ordered account list,
// plus the codecs that decode fetched account data. Nothing here is resolved
// at runtime from a schema; the instruction set is closed and checked by the
// compiler.
package program

import (
	"crypto/sha256"

	"github.com/soulboard-labs/soulboard-go/types"
)

// DefaultProgramID is the deployed Soulboard program. Clients targeting a
// local validator or a fork pass their own id instead.
var DefaultProgramID = types.MustPublicKeyFromBase58("4mQFH57Eg2tdqa24G4pMToEyYdD5icQusoVdr1A7Uh41")

// SystemProgramID is the native system program, required as the payer target
// in every account-creating instruction.
var SystemProgramID = types.MustPublicKeyFromBase58("11111111111111111111111111111111")

// AccountMeta describes one account an instruction touches.
type AccountMeta struct {
	PublicKey  types.PublicKey `json:"public_key"`
	IsSigner   bool            `json:"is_signer"`
	IsWritable bool            `json:"is_writable"`
}

// Instruction is a fully built program call: discriminator and arguments in
// Data, accounts in program-defined order.
type Instruction struct {
	ProgramID types.PublicKey `json:"program_id"`
	Accounts  []AccountMeta   `json:"accounts"`
	Data      []byte          `json:"data"`
}

// Discriminator computes the 8-byte prefix for a namespaced name, e.g.
// ("global", "create_campaign") for instructions and ("account", "Campaign")
// for account data.
func Discriminator(namespace, name string) [8]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

func meta(pk types.PublicKey, signer, writable bool) AccountMeta {
	return AccountMeta{PublicKey: pk, IsSigner: signer, IsWritable: writable}
}
