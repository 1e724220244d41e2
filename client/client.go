// Package client is the high-level SDK surface. A Client is constructed
// once with its transport, wallet and program id, and passed by reference
// into each entity service; there is no ambient global state. Every service
// method follows the same shape: derive the affected addresses, build the
// static instruction, execute through the guard, then re-read the account
// the program was expected to initialize or mutate.
package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/rpc"
	"github.com/soulboard-labs/soulboard-go/types"
)

// Options configures a Client.
type Options struct {
	// RPC is the node transport. Required.
	RPC rpc.Client
	// ProgramID identifies the deployed marketplace program.
	// program.DefaultProgramID when zero.
	ProgramID types.PublicKey
	// Wallet signs and pays for mutating operations. Read-only clients may
	// leave it nil; mutating calls then fail with MissingWalletError before
	// touching the network.
	Wallet *types.Keypair
	// Logger defaults to a nop logger.
	Logger *zap.Logger
}

// Client holds the SDK's dependencies and exposes one service per entity.
type Client struct {
	rpc       rpc.Client
	programID types.PublicKey
	wallet    *types.Keypair
	logger    *zap.Logger

	Advertisers *AdvertiserService
	Campaigns   *CampaignService
	Providers   *ProviderService
	Locations   *LocationService
	Bookings    *BookingService
	Config      *ConfigService
}

// New builds a Client from opts.
func New(opts Options) (*Client, error) {
	if opts.RPC == nil {
		return nil, errdefs.NewInvalidArgument("rpc", "transport is required")
	}
	if opts.ProgramID.IsZero() {
		opts.ProgramID = program.DefaultProgramID
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	c := &Client{
		rpc:       opts.RPC,
		programID: opts.ProgramID,
		wallet:    opts.Wallet,
		logger:    opts.Logger,
	}
	c.Advertisers = &AdvertiserService{c: c}
	c.Campaigns = &CampaignService{c: c}
	c.Providers = &ProviderService{c: c}
	c.Locations = &LocationService{c: c}
	c.Bookings = &BookingService{c: c}
	c.Config = &ConfigService{c: c}
	return c, nil
}

// ProgramID returns the program this client targets.
func (c *Client) ProgramID() types.PublicKey { return c.programID }

// WalletPublicKey returns the signer address, or MissingWalletError when the
// client was built without a wallet.
func (c *Client) WalletPublicKey() (types.PublicKey, error) {
	if c.wallet == nil {
		return types.PublicKey{}, errdefs.NewMissingWallet("")
	}
	return c.wallet.PublicKey(), nil
}

// Run executes op exactly once, mapping any failure into the SDK's error
// taxonomy under label. Errors already in the taxonomy pass through
// unchanged. Retry and timeout policy belong to the caller: wrap ctx for a
// deadline, call Run again for a retry.
func Run[T any](ctx context.Context, label string, op func(context.Context) (T, error)) (T, error) {
	out, err := op(ctx)
	if err != nil {
		var zero T
		return zero, errdefs.MapExecutionError(label, err)
	}
	return out, nil
}

// requireWallet is the proactive missing-wallet check every mutating call
// performs before doing any work.
func (c *Client) requireWallet(operation string) (*types.Keypair, error) {
	if c.wallet == nil {
		return nil, errdefs.NewMissingWallet(operation)
	}
	return c.wallet, nil
}

// send submits instructions signed by the wallet through the execution
// guard.
func (c *Client) send(ctx context.Context, label string, instructions ...program.Instruction) (rpc.Signature, error) {
	wallet, err := c.requireWallet(label)
	if err != nil {
		return "", err
	}
	sig, err := c.rpc.SendInstructions(ctx, instructions, []*types.Keypair{wallet})
	if err != nil {
		return "", errdefs.MapExecutionError(label, err)
	}
	c.logger.Debug("instructions submitted",
		zap.String("operation", label),
		zap.String("signature", string(sig)),
	)
	return sig, nil
}

// fetchAccount reads the account at address, classifying a missing account
// as AccountNotFoundError carrying the derived address.
func (c *Client) fetchAccount(ctx context.Context, label string, address types.PublicKey) (*rpc.AccountInfo, error) {
	info, err := c.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, errdefs.MapFetchError(label, address, err)
	}
	return info, nil
}
