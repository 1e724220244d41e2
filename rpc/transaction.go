package rpc

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// compiledAccount tracks the merged signer/writable flags of one account
// across all instructions in a transaction.
type compiledAccount struct {
	key      types.PublicKey
	signer   bool
	writable bool
}

// compileMessage flattens instructions into the legacy wire message: a
// header, a deduplicated account table ordered signers-first then
// writable-first, the recent blockhash and index-compiled instructions.
func compileMessage(feePayer types.PublicKey, recentBlockhash string, instructions []program.Instruction) ([]byte, int, error) {
	blockhash := base58.Decode(recentBlockhash)
	if len(blockhash) != 32 {
		return nil, 0, fmt.Errorf("invalid recent blockhash %q", recentBlockhash)
	}

	accounts := []compiledAccount{{key: feePayer, signer: true, writable: true}}
	index := map[types.PublicKey]int{feePayer: 0}
	upsert := func(key types.PublicKey, signer, writable bool) {
		if i, ok := index[key]; ok {
			accounts[i].signer = accounts[i].signer || signer
			accounts[i].writable = accounts[i].writable || writable
			return
		}
		index[key] = len(accounts)
		accounts = append(accounts, compiledAccount{key: key, signer: signer, writable: writable})
	}
	for _, ix := range instructions {
		for _, m := range ix.Accounts {
			upsert(m.PublicKey, m.IsSigner, m.IsWritable)
		}
		upsert(ix.ProgramID, false, false)
	}

	// Stable partition: signer+writable, signer+readonly, writable, readonly.
	ordered := make([]compiledAccount, 0, len(accounts))
	for _, want := range [][2]bool{{true, true}, {true, false}, {false, true}, {false, false}} {
		for _, a := range accounts {
			if a.signer == want[0] && a.writable == want[1] {
				ordered = append(ordered, a)
			}
		}
	}
	for i, a := range ordered {
		index[a.key] = i
	}

	var numSigners, numReadonlySigned, numReadonlyUnsigned int
	for _, a := range ordered {
		if a.signer {
			numSigners++
			if !a.writable {
				numReadonlySigned++
			}
		} else if !a.writable {
			numReadonlyUnsigned++
		}
	}

	msg := []byte{byte(numSigners), byte(numReadonlySigned), byte(numReadonlyUnsigned)}
	msg = appendShortvecLen(msg, len(ordered))
	for _, a := range ordered {
		msg = append(msg, a.key[:]...)
	}
	msg = append(msg, blockhash...)
	msg = appendShortvecLen(msg, len(instructions))
	for _, ix := range instructions {
		msg = append(msg, byte(index[ix.ProgramID]))
		msg = appendShortvecLen(msg, len(ix.Accounts))
		for _, m := range ix.Accounts {
			msg = append(msg, byte(index[m.PublicKey]))
		}
		msg = appendShortvecLen(msg, len(ix.Data))
		msg = append(msg, ix.Data...)
	}
	return msg, numSigners, nil
}

// signTransaction produces the full wire transaction: a shortvec of
// signatures over the message, then the message itself. Signers must cover
// the first numSigners accounts of the compiled message in order.
func signTransaction(msg []byte, numSigners int, signerOrder []types.PublicKey, signers []*types.Keypair) ([]byte, error) {
	byKey := make(map[types.PublicKey]*types.Keypair, len(signers))
	for _, kp := range signers {
		byKey[kp.PublicKey()] = kp
	}
	tx := appendShortvecLen(nil, numSigners)
	for i := 0; i < numSigners; i++ {
		kp, ok := byKey[signerOrder[i]]
		if !ok {
			return nil, fmt.Errorf("missing signer for account %s", signerOrder[i])
		}
		tx = append(tx, kp.Sign(msg)...)
	}
	return append(tx, msg...), nil
}

// appendShortvecLen appends n in the compact-u16 encoding the wire format
// uses for array lengths.
func appendShortvecLen(dst []byte, n int) []byte {
	for {
		if n < 0x80 {
			return append(dst, byte(n))
		}
		dst = append(dst, byte(n&0x7f)|0x80)
		n >>= 7
	}
}

// signerKeys extracts the ordered signer account keys from a compiled
// message produced by compileMessage.
func signerKeys(msg []byte, numSigners int) []types.PublicKey {
	// Skip the 3-byte header and the account-count shortvec (always a single
	// byte for the table sizes this SDK produces).
	off := 4
	keys := make([]types.PublicKey, 0, numSigners)
	for i := 0; i < numSigners; i++ {
		var pk types.PublicKey
		copy(pk[:], msg[off:off+32])
		keys = append(keys, pk)
		off += 32
	}
	return keys
}
