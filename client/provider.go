package client

import (
	"context"

	"github.com/soulboard-labs/soulboard-go/pda"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// ProviderService manages provider registry accounts.
type ProviderService struct {
	c *Client
}

// Address derives the provider registry address for authority.
func (s *ProviderService) Address(authority types.PublicKey) (types.PublicKey, error) {
	addr, _, err := pda.Provider(s.c.programID, authority)
	return addr, err
}

// Register initializes the provider registry for the wallet authority.
func (s *ProviderService) Register(ctx context.Context) (types.PublicKey, *types.Provider, error) {
	wallet, err := s.c.requireWallet("registerProvider")
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	addr, err := s.Address(wallet.PublicKey())
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	ix := program.RegisterProvider(s.c.programID, addr, wallet.PublicKey())
	if _, err := s.c.send(ctx, "registerProvider", ix); err != nil {
		return types.PublicKey{}, nil, err
	}
	provider, err := s.fetch(ctx, addr)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	return addr, provider, nil
}

// Get fetches the provider registry for authority.
func (s *ProviderService) Get(ctx context.Context, authority types.PublicKey) (*types.Provider, error) {
	addr, err := s.Address(authority)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, addr)
}

func (s *ProviderService) fetch(ctx context.Context, addr types.PublicKey) (*types.Provider, error) {
	info, err := s.c.fetchAccount(ctx, "fetchProvider", addr)
	if err != nil {
		return nil, err
	}
	return program.DecodeProvider(info.Data)
}
