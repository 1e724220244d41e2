package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/numeric"
	"github.com/soulboard-labs/soulboard-go/pda"
	"github.com/soulboard-labs/soulboard-go/program"
	"github.com/soulboard-labs/soulboard-go/types"
)

// LocationService manages location listings and their slot schedules.
type LocationService struct {
	c *Client
}

// Address derives a location address from its authority and index.
func (s *LocationService) Address(authority types.PublicKey, locationIdx any) (types.PublicKey, error) {
	addr, _, err := pda.Location(s.c.programID, authority, locationIdx)
	return addr, err
}

// ScheduleAddress derives the slot calendar address of a location.
func (s *LocationService) ScheduleAddress(location types.PublicKey) (types.PublicKey, error) {
	addr, _, err := pda.LocationSchedule(s.c.programID, location)
	return addr, err
}

// RegisterParams describe a new location listing.
type RegisterParams struct {
	Name            string
	Description     string
	Price           uint64
	OracleAuthority types.PublicKey
	MaxSlots        uint32
}

// Register lists a location under the wallet's provider account, creating
// its empty schedule alongside. The next location index comes from the
// provider's on-chain counter.
func (s *LocationService) Register(ctx context.Context, params RegisterParams) (types.PublicKey, *types.Location, error) {
	wallet, err := s.c.requireWallet("registerLocation")
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	if params.OracleAuthority.IsZero() {
		return types.PublicKey{}, nil, errdefs.NewInvalidArgument("oracleAuthority", "must not be the zero address")
	}
	providerAddr, err := s.c.Providers.Address(wallet.PublicKey())
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	provider, err := s.c.Providers.Get(ctx, wallet.PublicKey())
	if err != nil {
		return types.PublicKey{}, nil, err
	}

	idx := provider.LastLocationID + 1
	locationAddr, err := s.Address(wallet.PublicKey(), idx)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	scheduleAddr, err := s.ScheduleAddress(locationAddr)
	if err != nil {
		return types.PublicKey{}, nil, err
	}

	ix := program.RegisterLocation(s.c.programID, providerAddr, locationAddr, scheduleAddr, wallet.PublicKey(), program.RegisterLocationParams{
		Name:            params.Name,
		Description:     params.Description,
		Price:           params.Price,
		OracleAuthority: params.OracleAuthority,
		MaxSlots:        params.MaxSlots,
	})
	if _, err := s.c.send(ctx, "registerLocation", ix); err != nil {
		return types.PublicKey{}, nil, err
	}
	s.c.logger.Info("location registered",
		zap.Stringer("location", locationAddr),
		zap.Uint64("idx", idx),
	)
	location, err := s.fetch(ctx, locationAddr)
	if err != nil {
		return types.PublicKey{}, nil, err
	}
	return locationAddr, location, nil
}

// Get fetches the location at (authority, locationIdx).
func (s *LocationService) Get(ctx context.Context, authority types.PublicKey, locationIdx any) (*types.Location, error) {
	addr, err := s.Address(authority, locationIdx)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, addr)
}

// Update rewrites a location's listing fields.
func (s *LocationService) Update(ctx context.Context, locationIdx any, params program.UpdateLocationParams) error {
	wallet, err := s.c.requireWallet("updateLocation")
	if err != nil {
		return err
	}
	addr, err := s.Address(wallet.PublicKey(), locationIdx)
	if err != nil {
		return err
	}
	_, err = s.c.send(ctx, "updateLocation", program.UpdateLocation(s.c.programID, addr, wallet.PublicKey(), params))
	return err
}

// Deactivate marks the location inactive; nothing reverses this except an
// explicit provider update.
func (s *LocationService) Deactivate(ctx context.Context, locationIdx any) error {
	wallet, err := s.c.requireWallet("deactivateLocation")
	if err != nil {
		return err
	}
	addr, err := s.Address(wallet.PublicKey(), locationIdx)
	if err != nil {
		return err
	}
	_, err = s.c.send(ctx, "deactivateLocation", program.DeactivateLocation(s.c.programID, addr, wallet.PublicKey()))
	return err
}

// AddSlot appends a bookable [startTs, endTs) range to the wallet's
// location. Bounds are validated client-side before submission.
func (s *LocationService) AddSlot(ctx context.Context, locationIdx, startTs, endTs, price any) error {
	wallet, err := s.c.requireWallet("addLocationSlot")
	if err != nil {
		return err
	}
	start, err := numeric.NormalizeTimestamp("startTs", startTs)
	if err != nil {
		return err
	}
	end, err := numeric.NormalizeTimestamp("endTs", endTs)
	if err != nil {
		return err
	}
	slotPrice, err := numeric.Normalize("price", price)
	if err != nil {
		return err
	}
	slot := types.LocationSlot{StartTs: start, EndTs: end, Price: slotPrice}
	if err := slot.Validate(); err != nil {
		return errdefs.NewInvalidArgument("slot", "%v", err)
	}
	locationAddr, err := s.Address(wallet.PublicKey(), locationIdx)
	if err != nil {
		return err
	}
	scheduleAddr, err := s.ScheduleAddress(locationAddr)
	if err != nil {
		return err
	}
	ix := program.AddLocationSlot(s.c.programID, locationAddr, scheduleAddr, wallet.PublicKey(), start, end, slotPrice)
	_, err = s.c.send(ctx, "addLocationSlot", ix)
	return err
}

// Schedule fetches the slot calendar of the location at (authority,
// locationIdx).
func (s *LocationService) Schedule(ctx context.Context, authority types.PublicKey, locationIdx any) (*types.LocationSchedule, error) {
	locationAddr, err := s.Address(authority, locationIdx)
	if err != nil {
		return nil, err
	}
	scheduleAddr, err := s.ScheduleAddress(locationAddr)
	if err != nil {
		return nil, err
	}
	info, err := s.c.fetchAccount(ctx, "fetchLocationSchedule", scheduleAddr)
	if err != nil {
		return nil, err
	}
	return program.DecodeLocationSchedule(info.Data)
}

func (s *LocationService) fetch(ctx context.Context, addr types.PublicKey) (*types.Location, error) {
	info, err := s.c.fetchAccount(ctx, "fetchLocation", addr)
	if err != nil {
		return nil, err
	}
	return program.DecodeLocation(info.Data)
}
