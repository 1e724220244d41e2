package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/fees"
	"github.com/soulboard-labs/soulboard-go/numeric"
	"github.com/soulboard-labs/soulboard-go/pda"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// BookingService manages time-ranged bookings and whole-location bookings.
type BookingService struct {
	c *Client
}

// Ref identifies a time-ranged booking by its derivation inputs.
type Ref struct {
	Campaign     types.PublicKey
	Location     types.PublicKey
	RangeStartTs any
	RangeEndTs   any
}

// Address derives the booking address for ref.
func (s *BookingService) Address(ref Ref) (types.PublicKey, error) {
	addr, _, err := pda.CampaignBooking(s.c.programID, ref.Campaign, ref.Location, ref.RangeStartTs, ref.RangeEndTs)
	return addr, err
}

// CampaignLocationAddress derives the whole-location booking address.
func (s *BookingService) CampaignLocationAddress(campaign, location types.PublicKey) (types.PublicKey, error) {
	addr, _, err := pda.CampaignLocation(s.c.programID, campaign, location)
	return addr, err
}

// BookRangeParams describe a ranged booking of a location's slots.
type BookRangeParams struct {
	// CampaignIdx selects the wallet's campaign to book under.
	CampaignIdx any
	// Location is the location account to book.
	Location types.PublicKey
	// RangeStartTs and RangeEndTs bound the half-open booking window.
	RangeStartTs any
	RangeEndTs   any
	// Device and DeviceIdx identify the display device serving the booking.
	Device    types.PublicKey
	DeviceIdx any
	// PricingModel sets how the booking settles.
	PricingModel types.PricingModel
}

// BookRange books every available slot inside the window, reserving the
// total price from the campaign's budget. The window is validated before
// any network call; the program enforces slot availability and budget.
func (s *BookingService) BookRange(ctx context.Context, params BookRangeParams) (types.PublicKey, *types.CampaignBooking, error) {
	wallet, err := s.c.requireWallet("bookLocationRange")
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	start, err := numeric.NormalizeTimestamp("rangeStartTs", params.RangeStartTs)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	end, err := numeric.NormalizeTimestamp("rangeEndTs", params.RangeEndTs)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	if start >= end {
		return types.PublicKey{}, nil, errdefs.NewInvalidArgument("rangeStartTs", "range start %d must precede end %d", start, end)
	}
	if params.PricingModel == nil {
		return types.PublicKey{}, nil, errdefs.NewInvalidArgument("pricingModel", "required")
	}
	deviceIdx, err := numeric.Normalize("deviceIdx", params.DeviceIdx)
	if err != nil {
		return types.PublicKey{}, nil, err
	}

	campaignAddr, err := s.c.Campaigns.Address(wallet.PublicKey(), params.CampaignIdx)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	scheduleAddr, err := s.c.Locations.ScheduleAddress(params.Location)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	bookingAddr, err := s.Address(Ref{
		Campaign:     campaignAddr,
		Location:     params.Location,
		RangeStartTs: start,
		RangeEndTs:   end,
	})
	if err != nil {
		return types.PublicKey{}, nil, err
	}

	ix := program.BookLocationRange(s.c.programID, campaignAddr, params.Location, scheduleAddr, bookingAddr, wallet.PublicKey(), program.BookLocationRangeParams{
		RangeStartTs: start,
		RangeEndTs:   end,
		Device:       params.Device,
		DeviceIdx:    deviceIdx,
		PricingModel: params.PricingModel,
	})
	if _, err := s.c.send(ctx, "bookLocationRange", ix); err != nil {
		return types.PublicKey{}, nil, err
	}
	s.c.logger.Info("location range booked",
		zap.Stringer("booking", bookingAddr),
		zap.Int64("range_start", start),
		zap.Int64("range_end", end),
	)
	booking, err := s.Get(ctx, Ref{Campaign: campaignAddr, Location: params.Location, RangeStartTs: start, RangeEndTs: end})
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	return bookingAddr, booking, nil
}

// Get fetches the booking identified by ref.
func (s *BookingService) Get(ctx context.Context, ref Ref) (*types.CampaignBooking, error) {
	addr, err := s.Address(ref)
	if err != nil {
		return nil, err
	}
	info, err := s.c.fetchAccount(ctx, "fetchCampaignBooking", addr)
	if err != nil {
		return nil, err
	}
	return program.DecodeCampaignBooking(info.Data)
}

// Cancel releases a ranged booking's slots and returns its reserved budget
// to the campaign. The wallet must be the campaign authority.
func (s *BookingService) Cancel(ctx context.Context, ref Ref) error {
	wallet, err := s.c.requireWallet("cancelLocationBooking")
	if err != nil {
		return err
	}
	bookingAddr, err := s.Address(ref)
	if err != nil {
		return err
	}
	scheduleAddr, err := s.c.Locations.ScheduleAddress(ref.Location)
	if err != nil {
		return err
	}
	ix := program.CancelLocationBooking(s.c.programID, ref.Campaign, scheduleAddr, bookingAddr, wallet.PublicKey())
	_, err = s.c.send(ctx, "cancelLocationBooking", ix)
	return err
}

// QuoteSettlement previews what settling ref at the reported impression
// count would pay out, using the chain's configured fee rate. Pure
// computation over fetched state: the same arithmetic the program runs,
// capped at the booking's escrowed total price.
func (s *BookingService) QuoteSettlement(ctx context.Context, ref Ref, impressions any) (fees.Quote, error) {
	reported, err := numeric.Normalize("impressions", impressions)
	if err != nil {
		return fees.Quote{}, err
	}
	booking, err := s.Get(ctx, ref)
	if err != nil {
		return fees.Quote{}, err
	}
	cfg, err := s.c.Config.Get(ctx)
	if err != nil {
		return fees.Quote{}, err
	}
	return s.quote(booking, cfg, reported)
}

func (s *BookingService) quote(booking *types.CampaignBooking, cfg *types.Config, reported uint64) (fees.Quote, error) {
	if reported < booking.StartImpressions {
		return fees.Quote{}, errdefs.NewInvalidArgument("impressions", "reported count %d is below the booking's start count %d", reported, booking.StartImpressions)
	}
	delivered := reported - booking.StartImpressions
	escrow := booking.TotalPrice
	return fees.SettlementQuote(booking.PricingModel, types.Metrics{
		Views:       types.U64(delivered),
		Impressions: types.U64(delivered),
	}, fees.QuoteOptions{
		CapAmount: &escrow,
		Fee:       fees.Config{FeeBps: cfg.FeeBps},
	})
}

// Settle settles a ranged booking against the reported impression count.
// The wallet must be the location's oracle authority. The settlement quote
// is computed locally first; the program runs the same math and would
// reject anything above escrow, so the preview keeps doomed transactions
// off the wire.
func (s *BookingService) Settle(ctx context.Context, ref Ref, impressions any) (fees.Quote, error) {
	wallet, err := s.c.requireWallet("settleLocationBooking")
	if err != nil {
		return fees.Quote{}, err
	}
	reported, err := numeric.Normalize("impressions", impressions)
	if err != nil {
		return fees.Quote{}, err
	}
	booking, err := s.Get(ctx, ref)
	if err != nil {
		return fees.Quote{}, err
	}
	cfg, err := s.c.Config.Get(ctx)
	if err != nil {
		return fees.Quote{}, err
	}
	quote, err := s.quote(booking, cfg, reported)
	if err != nil {
		return fees.Quote{}, err
	}

	bookingAddr, err := s.Address(ref)
	if err != nil {
		return fees.Quote{}, err
	}
	configAddr, err := s.c.Config.Address()
	if err != nil {
		return fees.Quote{}, err
	}
	providerAuthority, err := s.providerAuthority(ctx, booking.Provider)
	if err != nil {
		return fees.Quote{}, err
	}

	ix := program.SettleLocationBooking(s.c.programID, configAddr, ref.Campaign, bookingAddr, cfg.Treasury, providerAuthority, wallet.PublicKey(), reported)
	if _, err := s.c.send(ctx, "settleLocationBooking", ix); err != nil {
		return fees.Quote{}, err
	}
	s.c.logger.Info("booking settled",
		zap.Stringer("booking", bookingAddr),
		zap.Uint64("gross", quote.Gross),
		zap.Uint64("fee", quote.Fee),
		zap.Uint64("net", quote.Net),
	)
	return quote, nil
}

// BookLocation books a whole location at its listed price.
func (s *BookingService) BookLocation(ctx context.Context, campaignIdx any, location types.PublicKey) (types.PublicKey, *types.CampaignLocation, error) {
	wallet, err := s.c.requireWallet("bookLocation")
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	campaignAddr, err := s.c.Campaigns.Address(wallet.PublicKey(), campaignIdx)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	clAddr, err := s.CampaignLocationAddress(campaignAddr, location)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	ix := program.BookLocation(s.c.programID, campaignAddr, location, clAddr, wallet.PublicKey())
	if _, err := s.c.send(ctx, "bookLocation", ix); err != nil {
		return types.PublicKey{}, nil, err
	}
	cl, err := s.GetCampaignLocation(ctx, campaignAddr, location)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	return clAddr, cl, nil
}

// GetCampaignLocation fetches the whole-location booking linking campaign
// and location.
func (s *BookingService) GetCampaignLocation(ctx context.Context, campaign, location types.PublicKey) (*types.CampaignLocation, error) {
	addr, err := s.CampaignLocationAddress(campaign, location)
	if err != nil {
		return nil, err
	}
	info, err := s.c.fetchAccount(ctx, "fetchCampaignLocation", addr)
	if err != nil {
		return nil, err
	}
	return program.DecodeCampaignLocation(info.Data)
}

// CancelLocation cancels a whole-location booking.
func (s *BookingService) CancelLocation(ctx context.Context, campaignIdx any, location types.PublicKey) error {
	wallet, err := s.c.requireWallet("cancelCampaignLocation")
	if err != nil {
		return err
	}
	campaignAddr, err := s.c.Campaigns.Address(wallet.PublicKey(), campaignIdx)
	if err != nil {
		return err
	}
	clAddr, err := s.CampaignLocationAddress(campaignAddr, location)
	if err != nil {
		return err
	}
	ix := program.CancelCampaignLocation(s.c.programID, campaignAddr, location, clAddr, wallet.PublicKey())
	_, err = s.c.send(ctx, "cancelCampaignLocation", ix)
	return err
}

// SettleLocation settles a whole-location booking for amount. The wallet
// must be the location's oracle authority; amount may not exceed the booked
// price, which is checked locally before submission.
func (s *BookingService) SettleLocation(ctx context.Context, campaign, location types.PublicKey, amount any) error {
	wallet, err := s.c.requireWallet("settleCampaignLocation")
	if err != nil {
		return err
	}
	value, err := numeric.Normalize("amount", amount)
	if err != nil {
		return err
	}
	cl, err := s.GetCampaignLocation(ctx, campaign, location)
	if err != nil {
		return err
	}
	if value > cl.Price {
		return errdefs.NewInvalidArgument("amount", "settlement %d exceeds booked price %d", value, cl.Price)
	}
	cfg, err := s.c.Config.Get(ctx)
	if err != nil {
		return err
	}
	clAddr, err := s.CampaignLocationAddress(campaign, location)
	if err != nil {
		return err
	}
	configAddr, err := s.c.Config.Address()
	if err != nil {
		return err
	}
	providerAuthority, err := s.providerAuthority(ctx, cl.Provider)
	if err != nil {
		return err
	}
	ix := program.SettleCampaignLocation(s.c.programID, configAddr, campaign, location, clAddr, cfg.Treasury, providerAuthority, wallet.PublicKey(), value)
	_, err = s.c.send(ctx, "settleCampaignLocation", ix)
	return err
}

// providerAuthority resolves a provider PDA to its payout authority.
func (s *BookingService) providerAuthority(ctx context.Context, provider types.PublicKey) (types.PublicKey, error) {
	info, err := s.c.fetchAccount(ctx, "fetchProvider", provider)
	if err != nil {
		return types.PublicKey{}, err
	}
	decoded, err := program.DecodeProvider(info.Data)
	if err != nil {
		return types.PublicKey{}, err
	}
	return decoded.Authority, nil
}
