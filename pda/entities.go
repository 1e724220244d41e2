package pda

import (
	"github.com/soulboard-labs/soulboard-go/numeric"
	"github.com/soulboard-labs/soulboard-go/types"
)

// Literal seed prefixes, byte for byte what the program uses. Changing any of
// these derives different addresses for every account in the system.
const (
	SeedAdvertiser       = "advertiser"
	SeedCampaign         = "campaign"
	SeedProvider         = "provider"
	SeedLocation         = "location"
	SeedCampaignLocation = "campaign_location"
	SeedLocationSchedule = "location_schedule"
	SeedCampaignBooking  = "campaign_booking"
	SeedConfig           = "soulboard_config"
)

// Advertiser derives the advertiser registry address for an authority.
func Advertiser(programID, authority types.PublicKey) (types.PublicKey, uint8, error) {
	return FindProgramAddress(programID, []byte(SeedAdvertiser), authority[:])
}

// Campaign derives a campaign address from its authority and index.
// campaignIdx accepts any representation numeric.Normalize understands.
func Campaign(programID, authority types.PublicKey, campaignIdx any) (types.PublicKey, uint8, error) {
	idx, err := numeric.EncodeU64("campaignIdx", campaignIdx)
	if err != nil {
		return types.PublicKey{}, 0, err
	}
	return FindProgramAddress(programID, []byte(SeedCampaign), authority[:], idx)
}

// Provider derives the provider registry address for an authority.
func Provider(programID, authority types.PublicKey) (types.PublicKey, uint8, error) {
	return FindProgramAddress(programID, []byte(SeedProvider), authority[:])
}

// Location derives a location address from its authority and index.
func Location(programID, authority types.PublicKey, locationIdx any) (types.PublicKey, uint8, error) {
	idx, err := numeric.EncodeU64("locationIdx", locationIdx)
	if err != nil {
		return types.PublicKey{}, 0, err
	}
	return FindProgramAddress(programID, []byte(SeedLocation), authority[:], idx)
}

// CampaignLocation derives the whole-location booking address linking a
// campaign to a location.
func CampaignLocation(programID, campaign, location types.PublicKey) (types.PublicKey, uint8, error) {
	return FindProgramAddress(programID, []byte(SeedCampaignLocation), campaign[:], location[:])
}

// LocationSchedule derives a location's slot calendar address.
func LocationSchedule(programID, location types.PublicKey) (types.PublicKey, uint8, error) {
	return FindProgramAddress(programID, []byte(SeedLocationSchedule), location[:])
}

// CampaignBooking derives a time-ranged booking address. The timestamps are
// encoded as 8-byte little-endian non-negative values; the pair
// (rangeStartTs, rangeEndTs) is part of the identity, so the same campaign
// and location can hold bookings for disjoint ranges.
func CampaignBooking(programID, campaign, location types.PublicKey, rangeStartTs, rangeEndTs any) (types.PublicKey, uint8, error) {
	start, err := numeric.EncodeI64("rangeStartTs", rangeStartTs)
	if err != nil {
		return types.PublicKey{}, 0, err
	}
	end, err := numeric.EncodeI64("rangeEndTs", rangeEndTs)
	if err != nil {
		return types.PublicKey{}, 0, err
	}
	return FindProgramAddress(programID, []byte(SeedCampaignBooking), campaign[:], location[:], start, end)
}

// Config derives the singleton program configuration address.
func Config(programID types.PublicKey) (types.PublicKey, uint8, error) {
	return FindProgramAddress(programID, []byte(SeedConfig))
}
