// Package rpc is the transport boundary of the SDK: a narrow Client
// interface over the chain node's JSON-RPC surface, an HTTP implementation
// of it, and a polling subscription transport. Everything above this package
// treats the node as a black box.
package rpc

import (
	"context"

	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// Signature identifies a submitted transaction, base58-encoded.
type Signature string

// AccountInfo is the raw state of one on-chain account.
type AccountInfo struct {
	Owner    types.PublicKey
	Lamports uint64
	Data     []byte
}

// Client is the remote surface the SDK needs. Implementations must return
// an error whose message contains "account does not exist" when an address
// has no account, so the error mapper can classify it.
type Client interface {
	// GetAccountInfo fetches the account at address.
	GetAccountInfo(ctx context.Context, address types.PublicKey) (*AccountInfo, error)
	// GetBalance fetches the lamport balance at address.
	GetBalance(ctx context.Context, address types.PublicKey) (uint64, error)
	// GetLatestBlockhash fetches a recent blockhash for transaction assembly.
	GetLatestBlockhash(ctx context.Context) (string, error)
	// SendInstructions assembles, signs and submits a transaction carrying
	// the instructions. The first signer pays fees. No retries: one call,
	// one attempt.
	SendInstructions(ctx context.Context, instructions []program.Instruction, signers []*types.Keypair) (Signature, error)
}
