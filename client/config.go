package client

import (
	"context"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/pda"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// ConfigService reads and initializes the singleton program configuration.
type ConfigService struct {
	c *Client
}

// Address derives the config singleton address.
func (s *ConfigService) Address() (types.PublicKey, error) {
	addr, _, err := pda.Config(s.c.programID)
	return addr, err
}

// Initialize creates the config account. Admin-only; the wallet becomes the
// admin.
func (s *ConfigService) Initialize(ctx context.Context, treasury types.PublicKey, feeBps uint32) (*types.Config, error) {
	wallet, err := s.c.requireWallet("initializeConfig")
	if err != nil {
		return nil, err
	}
	cfg := types.Config{Treasury: treasury, FeeBps: feeBps}
	if err := cfg.Validate(); err != nil {
		return nil, errdefs.NewInvalidArgument("config", "%v", err)
	}
	addr, err := s.Address()
	if err != nil {
		return nil, err
	}
	ix := program.InitializeConfig(s.c.programID, addr, wallet.PublicKey(), treasury, feeBps)
	if _, err := s.c.send(ctx, "initializeConfig", ix); err != nil {
		return nil, err
	}
	return s.Get(ctx)
}

// Get fetches the program configuration.
func (s *ConfigService) Get(ctx context.Context) (*types.Config, error) {
	addr, err := s.Address()
	if err != nil {
		return nil, err
	}
	info, err := s.c.fetchAccount(ctx, "fetchConfig", addr)
	if err != nil {
		return nil, err
	}
	return program.DecodeConfig(info.Data)
}
