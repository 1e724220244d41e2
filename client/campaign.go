package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/numeric"
	"github.com/soulboard-labs/soulboard-go/pda"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// CampaignService manages campaign accounts and their budgets.
type CampaignService struct {
	c *Client
}

// Address derives a campaign address from its authority and index.
func (s *CampaignService) Address(authority types.PublicKey, campaignIdx any) (types.PublicKey, error) {
	addr, _, err := pda.Campaign(s.c.programID, authority, campaignIdx)
	return addr, err
}

// CreateParams describe a new campaign.
type CreateParams struct {
	Name          string
	Description   string
	ImageURL      string
	InitialBudget uint64
}

// Create registers a campaign under the wallet's advertiser account. The
// next campaign index comes from the advertiser's on-chain counter, so the
// derived address matches the one the program will initialize.
func (s *CampaignService) Create(ctx context.Context, params CreateParams) (types.PublicKey, *types.Campaign, error) {
	wallet, err := s.c.requireWallet("createCampaign")
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	advertiserAddr, err := s.c.Advertisers.Address(wallet.PublicKey())
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	advertiser, err := s.c.Advertisers.Get(ctx, wallet.PublicKey())
	if err != nil {
		return types.PublicKey{}, nil, err
	}

	idx := advertiser.LastCampaignID + 1
	campaignAddr, err := s.Address(wallet.PublicKey(), idx)
	if err != nil {
		return types.PublicKey{}, nil, err
	}

	ix := program.CreateCampaign(s.c.programID, advertiserAddr, campaignAddr, wallet.PublicKey(), program.CreateCampaignParams{
		Name:          params.Name,
		Description:   params.Description,
		ImageURL:      params.ImageURL,
		InitialBudget: params.InitialBudget,
	})
	if _, err := s.c.send(ctx, "createCampaign", ix); err != nil {
		return types.PublicKey{}, nil, err
	}
	s.c.logger.Info("campaign created",
		zap.Stringer("campaign", campaignAddr),
		zap.Uint64("idx", idx),
	)
	campaign, err := s.fetch(ctx, campaignAddr)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	return campaignAddr, campaign, nil
}

// Get fetches the campaign at (authority, campaignIdx).
func (s *CampaignService) Get(ctx context.Context, authority types.PublicKey, campaignIdx any) (*types.Campaign, error) {
	addr, err := s.Address(authority, campaignIdx)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, addr)
}

// AddBudget moves amount from the wallet into the campaign's available
// budget. amount is validated before any network call.
func (s *CampaignService) AddBudget(ctx context.Context, campaignIdx, amount any) error {
	return s.budgetOp(ctx, "addBudget", campaignIdx, amount, program.AddBudget)
}

// WithdrawBudget returns amount of available budget to the wallet. Reserved
// budget is not withdrawable; the program enforces that.
func (s *CampaignService) WithdrawBudget(ctx context.Context, campaignIdx, amount any) error {
	return s.budgetOp(ctx, "withdrawBudget", campaignIdx, amount, program.WithdrawBudget)
}

func (s *CampaignService) budgetOp(ctx context.Context, label string, campaignIdx, amount any, build func(programID, campaign, authority types.PublicKey, amount uint64) program.Instruction) error {
	wallet, err := s.c.requireWallet(label)
	if err != nil {
		return err
	}
	value, err := numeric.Normalize("amount", amount)
	if err != nil {
		return err
	}
	campaignAddr, err := s.Address(wallet.PublicKey(), campaignIdx)
	if err != nil {
		return err
	}
	_, err = s.c.send(ctx, label, build(s.c.programID, campaignAddr, wallet.PublicKey(), value))
	return err
}

// Close closes the campaign terminally, refunding available budget to the
// wallet.
func (s *CampaignService) Close(ctx context.Context, campaignIdx any) error {
	wallet, err := s.c.requireWallet("closeCampaign")
	if err != nil {
		return err
	}
	advertiserAddr, err := s.c.Advertisers.Address(wallet.PublicKey())
	if err != nil {
		return err
	}
	campaignAddr, err := s.Address(wallet.PublicKey(), campaignIdx)
	if err != nil {
		return err
	}
	_, err = s.c.send(ctx, "closeCampaign", program.CloseCampaign(s.c.programID, advertiserAddr, campaignAddr, wallet.PublicKey()))
	return err
}

func (s *CampaignService) fetch(ctx context.Context, addr types.PublicKey) (*types.Campaign, error) {
	info, err := s.c.fetchAccount(ctx, "fetchCampaign", addr)
	if err != nil {
		return nil, err
	}
	return program.DecodeCampaign(info.Data)
}
