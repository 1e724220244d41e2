package program

import (
	"github.com/soulboard-labs/soulboard-go/types"
)

// Instruction names as the program declares them. Discriminators derive from
// these, namespaced under "global".
const (
	IxCreateAdvertiser       = "create_advertiser"
	IxCreateCampaign         = "create_campaign"
	IxRegisterProvider       = "register_provider"
	IxRegisterLocation       = "register_location"
	IxUpdateLocation         = "update_location"
	IxDeactivateLocation     = "deactivate_location"
	IxAddLocationSlot        = "add_location_slot"
	IxBookLocationRange      = "book_location_range"
	IxCancelLocationBooking  = "cancel_location_booking"
	IxSettleLocationBooking  = "settle_location_booking"
	IxBookLocation           = "book_location"
	IxCancelCampaignLocation = "cancel_campaign_location"
	IxSettleCampaignLocation = "settle_campaign_location"
	IxAddBudget              = "add_budget"
	IxWithdrawBudget         = "withdraw_budget"
	IxCloseCampaign          = "close_campaign"
	IxInitializeConfig       = "initialize_config"
)

func ixDiscriminator(name string) [8]byte { return Discriminator("global", name) }

// CreateAdvertiser initializes the advertiser registry for authority.
func CreateAdvertiser(programID, advertiser, authority types.PublicKey) Instruction {
	e := newEncoder(ixDiscriminator(IxCreateAdvertiser))
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(advertiser, false, true),
			meta(authority, true, true),
			meta(SystemProgramID, false, false),
		},
		Data: e.bytes(),
	}
}

// CreateCampaignParams are the arguments to create_campaign.
type CreateCampaignParams struct {
	Name          string
	Description   string
	ImageURL      string
	InitialBudget uint64
}

// CreateCampaign initializes a campaign at the derived campaign address and
// bumps the advertiser's last campaign id.
func CreateCampaign(programID, advertiser, campaign, authority types.PublicKey, params CreateCampaignParams) Instruction {
	e := newEncoder(ixDiscriminator(IxCreateCampaign))
	e.str(params.Name)
	e.str(params.Description)
	e.str(params.ImageURL)
	e.u64(params.InitialBudget)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(advertiser, false, true),
			meta(campaign, false, true),
			meta(authority, true, true),
			meta(SystemProgramID, false, false),
		},
		Data: e.bytes(),
	}
}

// RegisterProvider initializes the provider registry for authority.
func RegisterProvider(programID, provider, authority types.PublicKey) Instruction {
	e := newEncoder(ixDiscriminator(IxRegisterProvider))
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(provider, false, true),
			meta(authority, true, true),
			meta(SystemProgramID, false, false),
		},
		Data: e.bytes(),
	}
}

// RegisterLocationParams are the arguments to register_location.
type RegisterLocationParams struct {
	Name            string
	Description     string
	Price           uint64
	OracleAuthority types.PublicKey
	MaxSlots        uint32
}

// RegisterLocation initializes a location and its empty schedule.
func RegisterLocation(programID, provider, location, schedule, authority types.PublicKey, params RegisterLocationParams) Instruction {
	e := newEncoder(ixDiscriminator(IxRegisterLocation))
	e.str(params.Name)
	e.str(params.Description)
	e.u64(params.Price)
	e.pubkey(params.OracleAuthority)
	e.u32(params.MaxSlots)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(provider, false, true),
			meta(location, false, true),
			meta(schedule, false, true),
			meta(authority, true, true),
			meta(SystemProgramID, false, false),
		},
		Data: e.bytes(),
	}
}

// UpdateLocationParams are the arguments to update_location.
type UpdateLocationParams struct {
	Name        string
	Description string
	Price       uint64
}

// UpdateLocation updates a location's listing fields.
func UpdateLocation(programID, location, authority types.PublicKey, params UpdateLocationParams) Instruction {
	e := newEncoder(ixDiscriminator(IxUpdateLocation))
	e.str(params.Name)
	e.str(params.Description)
	e.u64(params.Price)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(location, false, true),
			meta(authority, true, false),
		},
		Data: e.bytes(),
	}
}

// DeactivateLocation marks a location inactive. Only the provider authority
// can reverse this.
func DeactivateLocation(programID, location, authority types.PublicKey) Instruction {
	e := newEncoder(ixDiscriminator(IxDeactivateLocation))
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(location, false, true),
			meta(authority, true, false),
		},
		Data: e.bytes(),
	}
}

// AddLocationSlot appends a bookable time range to a location's schedule.
// The program rejects ranges overlapping an available or booked slot.
func AddLocationSlot(programID, location, schedule, authority types.PublicKey, startTs, endTs int64, price uint64) Instruction {
	e := newEncoder(ixDiscriminator(IxAddLocationSlot))
	e.i64(startTs)
	e.i64(endTs)
	e.u64(price)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(location, false, false),
			meta(schedule, false, true),
			meta(authority, true, false),
		},
		Data: e.bytes(),
	}
}

// BookLocationRangeParams are the arguments to book_location_range.
type BookLocationRangeParams struct {
	RangeStartTs int64
	RangeEndTs   int64
	Device       types.PublicKey
	DeviceIdx    uint64
	PricingModel types.PricingModel
}

// BookLocationRange books every available slot of a location inside
// [RangeStartTs, RangeEndTs), reserving the total price from the campaign's
// available budget.
func BookLocationRange(programID, campaign, location, schedule, booking, authority types.PublicKey, params BookLocationRangeParams) Instruction {
	e := newEncoder(ixDiscriminator(IxBookLocationRange))
	e.i64(params.RangeStartTs)
	e.i64(params.RangeEndTs)
	e.pubkey(params.Device)
	e.u64(params.DeviceIdx)
	e.pricingModel(params.PricingModel)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(campaign, false, true),
			meta(location, false, true),
			meta(schedule, false, true),
			meta(booking, false, true),
			meta(authority, true, true),
			meta(SystemProgramID, false, false),
		},
		Data: e.bytes(),
	}
}

// CancelLocationBooking releases a booking's slots and returns the reserved
// budget to the campaign.
func CancelLocationBooking(programID, campaign, schedule, booking, authority types.PublicKey) Instruction {
	e := newEncoder(ixDiscriminator(IxCancelLocationBooking))
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(campaign, false, true),
			meta(schedule, false, true),
			meta(booking, false, true),
			meta(authority, true, false),
		},
		Data: e.bytes(),
	}
}

// SettleLocationBooking settles a booking against reported impressions. Only
// the location's oracle authority may sign; the program rejects settlement
// amounts above the booking's escrow.
func SettleLocationBooking(programID, config, campaign, booking, treasury, providerAuthority, oracle types.PublicKey, impressions uint64) Instruction {
	e := newEncoder(ixDiscriminator(IxSettleLocationBooking))
	e.u64(impressions)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(config, false, false),
			meta(campaign, false, true),
			meta(booking, false, true),
			meta(treasury, false, true),
			meta(providerAuthority, false, true),
			meta(oracle, true, false),
		},
		Data: e.bytes(),
	}
}

// BookLocation books a whole location for a campaign at the location's
// listed price.
func BookLocation(programID, campaign, location, campaignLocation, authority types.PublicKey) Instruction {
	e := newEncoder(ixDiscriminator(IxBookLocation))
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(campaign, false, true),
			meta(location, false, true),
			meta(campaignLocation, false, true),
			meta(authority, true, true),
			meta(SystemProgramID, false, false),
		},
		Data: e.bytes(),
	}
}

// CancelCampaignLocation cancels a whole-location booking.
func CancelCampaignLocation(programID, campaign, location, campaignLocation, authority types.PublicKey) Instruction {
	e := newEncoder(ixDiscriminator(IxCancelCampaignLocation))
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(campaign, false, true),
			meta(location, false, true),
			meta(campaignLocation, false, true),
			meta(authority, true, false),
		},
		Data: e.bytes(),
	}
}

// SettleCampaignLocation settles a whole-location booking for amount, which
// the program caps at the booked price.
func SettleCampaignLocation(programID, config, campaign, location, campaignLocation, treasury, providerAuthority, oracle types.PublicKey, amount uint64) Instruction {
	e := newEncoder(ixDiscriminator(IxSettleCampaignLocation))
	e.u64(amount)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(config, false, false),
			meta(campaign, false, true),
			meta(location, false, true),
			meta(campaignLocation, false, true),
			meta(treasury, false, true),
			meta(providerAuthority, false, true),
			meta(oracle, true, false),
		},
		Data: e.bytes(),
	}
}

// AddBudget moves amount from the authority into the campaign's available
// budget.
func AddBudget(programID, campaign, authority types.PublicKey, amount uint64) Instruction {
	e := newEncoder(ixDiscriminator(IxAddBudget))
	e.u64(amount)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(campaign, false, true),
			meta(authority, true, true),
		},
		Data: e.bytes(),
	}
}

// WithdrawBudget returns amount of available (never reserved) budget to the
// authority.
func WithdrawBudget(programID, campaign, authority types.PublicKey, amount uint64) Instruction {
	e := newEncoder(ixDiscriminator(IxWithdrawBudget))
	e.u64(amount)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(campaign, false, true),
			meta(authority, true, true),
		},
		Data: e.bytes(),
	}
}

// CloseCampaign closes the campaign terminally, refunding any available
// budget.
func CloseCampaign(programID, advertiser, campaign, authority types.PublicKey) Instruction {
	e := newEncoder(ixDiscriminator(IxCloseCampaign))
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(advertiser, false, true),
			meta(campaign, false, true),
			meta(authority, true, true),
		},
		Data: e.bytes(),
	}
}

// InitializeConfig creates the singleton config account.
func InitializeConfig(programID, config, admin, treasury types.PublicKey, feeBps uint32) Instruction {
	e := newEncoder(ixDiscriminator(IxInitializeConfig))
	e.pubkey(treasury)
	e.u32(feeBps)
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			meta(config, false, true),
			meta(admin, true, true),
			meta(SystemProgramID, false, false),
		},
		Data: e.bytes(),
	}
}
