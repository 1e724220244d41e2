package client

import (
	"context"

	"github.com/soulboard-labs/soulboard-go/pda"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// AdvertiserService manages advertiser registry accounts.
type AdvertiserService struct {
	c *Client
}

// Address derives the advertiser registry address for authority.
func (s *AdvertiserService) Address(authority types.PublicKey) (types.PublicKey, error) {
	addr, _, err := pda.Advertiser(s.c.programID, authority)
	return addr, err
}

// Create initializes the advertiser registry for the wallet authority and
// returns its derived address with the freshly fetched account.
func (s *AdvertiserService) Create(ctx context.Context) (types.PublicKey, *types.Advertiser, error) {
	wallet, err := s.c.requireWallet("createAdvertiser")
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	addr, err := s.Address(wallet.PublicKey())
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	ix := program.CreateAdvertiser(s.c.programID, addr, wallet.PublicKey())
	if _, err := s.c.send(ctx, "createAdvertiser", ix); err != nil {
		return types.PublicKey{}, nil, err
	}
	adv, err := s.fetch(ctx, addr)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	return addr, adv, nil
}

// Get fetches the advertiser registry for authority.
func (s *AdvertiserService) Get(ctx context.Context, authority types.PublicKey) (*types.Advertiser, error) {
	addr, err := s.Address(authority)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, addr)
}

func (s *AdvertiserService) fetch(ctx context.Context, addr types.PublicKey) (*types.Advertiser, error) {
	info, err := s.c.fetchAccount(ctx, "fetchAdvertiser", addr)
	if err != nil {
		return nil, err
	}
	return program.DecodeAdvertiser(info.Data)
}
