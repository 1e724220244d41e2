package rpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// Mock is an in-memory Client for tests. Accounts are seeded with
// SetAccount; SendInstructions records submissions and runs an optional
// OnSend hook so tests can emulate the program's state transitions.
type Mock struct {
	mu       sync.Mutex
	accounts map[types.PublicKey]*AccountInfo
	sent     [][]program.Instruction
	sigs     map[types.PublicKey][]string // newest first
	logs     map[string][]string

	// OnSend, when set, observes each submission and may mutate accounts or
	// return an error to emulate a failed transaction.
	OnSend func(instructions []program.Instruction, signers []*types.Keypair) error
	// FetchErr, when set, is returned by every GetAccountInfo call.
	FetchErr error
	// SendErr, when set, is returned by every SendInstructions call.
	SendErr error
}

// NewMock returns an empty in-memory client.
func NewMock() *Mock {
	return &Mock{
		accounts: make(map[types.PublicKey]*AccountInfo),
		sigs:     make(map[types.PublicKey][]string),
		logs:     make(map[string][]string),
	}
}

// AddLogs records a confirmed transaction touching address, for the polling
// transport to discover.
func (m *Mock) AddLogs(address types.PublicKey, signature string, logs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sigs[address] = append([]string{signature}, m.sigs[address]...)
	m.logs[signature] = logs
}

// GetSignaturesForAddress implements SubscriptionClient.
func (m *Mock) GetSignaturesForAddress(_ context.Context, address types.PublicKey, until string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sigs[address]
	if until == "" {
		return append([]string(nil), all...), nil
	}
	var out []string
	for _, sig := range all {
		if sig == until {
			break
		}
		out = append(out, sig)
	}
	return out, nil
}

// GetTransactionLogs implements SubscriptionClient.
func (m *Mock) GetTransactionLogs(_ context.Context, signature string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs, ok := m.logs[signature]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", signature)
	}
	return append([]string(nil), logs...), nil
}

// SetAccount seeds or replaces the account at address.
func (m *Mock) SetAccount(address, owner types.PublicKey, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[address] = &AccountInfo{Owner: owner, Lamports: 1, Data: data}
}

// DeleteAccount removes the account at address.
func (m *Mock) DeleteAccount(address types.PublicKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, address)
}

// Sent returns every instruction batch submitted so far.
func (m *Mock) Sent() [][]program.Instruction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]program.Instruction, len(m.sent))
	copy(out, m.sent)
	return out
}

// GetAccountInfo implements Client.
func (m *Mock) GetAccountInfo(_ context.Context, address types.PublicKey) (*AccountInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	info, ok := m.accounts[address]
	if !ok {
		return nil, fmt.Errorf("account %s does not exist", address)
	}
	copied := *info
	copied.Data = append([]byte(nil), info.Data...)
	return &copied, nil
}

// GetBalance implements Client.
func (m *Mock) GetBalance(_ context.Context, address types.PublicKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.accounts[address]; ok {
		return info.Lamports, nil
	}
	return 0, nil
}

// GetLatestBlockhash implements Client.
func (m *Mock) GetLatestBlockhash(context.Context) (string, error) {
	// base58 of 32 one-bytes, constant is fine for tests
	return "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi", nil
}

// SendInstructions implements Client.
func (m *Mock) SendInstructions(_ context.Context, instructions []program.Instruction, signers []*types.Keypair) (Signature, error) {
	m.mu.Lock()
	m.sent = append(m.sent, instructions)
	onSend := m.OnSend
	sendErr := m.SendErr
	m.mu.Unlock()

	if sendErr != nil {
		return "", sendErr
	}
	if onSend != nil {
		if err := onSend(instructions, signers); err != nil {
			return "", err
		}
	}
	return Signature(fmt.Sprintf("mock-signature-%d", len(m.sent))), nil
}
