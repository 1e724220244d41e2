package types

import (
	"errors"
	"fmt"
)

// Campaign lifecycle. A campaign is closed terminally; there is no reopen.
const (
	CampaignStatusActive = "active"
	CampaignStatusClosed = "closed"
)

// Location lifecycle. Available and Booked flip back and forth as bookings are
// made and cancelled; Inactive is entered and left only by explicit provider
// action.
const (
	LocationStatusAvailable = "available"
	LocationStatusBooked    = "booked"
	LocationStatusInactive  = "inactive"
)

// Slot lifecycle within a location schedule.
const (
	SlotStatusAvailable = "available"
	SlotStatusBooked    = "booked"
	SlotStatusCancelled = "cancelled"
	SlotStatusSettled   = "settled"
)

// Booking lifecycle. Cancelled and Settled are terminal.
const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
	BookingStatusSettled   = "settled"
)

// Advertiser is the per-authority registry account for campaign owners. It is
// created once and never deleted; LastCampaignID increments with each campaign.
type Advertiser struct {
	Authority      PublicKey `json:"authority"`
	LastCampaignID uint64    `json:"last_campaign_id"`
	CampaignCount  uint64    `json:"campaign_count"`
}

// Campaign holds an advertiser's budgeted ad buy. AvailableBudget is spendable;
// ReservedBudget is escrowed against active bookings. Both are non-negative by
// program invariant.
type Campaign struct {
	Authority       PublicKey `json:"authority"`
	CampaignIdx     uint64    `json:"campaign_idx"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url"`
	Status          string    `json:"status"`
	AvailableBudget uint64    `json:"available_budget"`
	ReservedBudget  uint64    `json:"reserved_budget"`
}

// Provider is the per-authority registry account for location owners.
type Provider struct {
	Authority      PublicKey `json:"authority"`
	LastLocationID uint64    `json:"last_location_id"`
	LocationCount  uint64    `json:"location_count"`
}

// Location is a bookable display slot (a physical board) owned by a provider.
// OracleAuthority is the key allowed to report delivered impressions for
// settlement.
type Location struct {
	Authority       PublicKey `json:"authority"`
	LocationIdx     uint64    `json:"location_idx"`
	Price           uint64    `json:"price"`
	OracleAuthority PublicKey `json:"oracle_authority"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	BookedBy        PublicKey `json:"booked_by,omitzero"` // campaign address when Status is booked
}

// LocationSlot is one bookable time range inside a schedule.
// [StartTs, EndTs) half-open; no two available/booked slots of the same
// location overlap.
type LocationSlot struct {
	StartTs int64     `json:"start_ts"`
	EndTs   int64     `json:"end_ts"`
	Price   uint64    `json:"price"`
	Status  string    `json:"status"`
	Booking PublicKey `json:"booking,omitzero"`
}

// LocationSchedule is the slot calendar for one location. SlotCount never
// exceeds MaxSlots.
type LocationSchedule struct {
	Location  PublicKey      `json:"location"`
	MaxSlots  uint32         `json:"max_slots"`
	SlotCount uint32         `json:"slot_count"`
	Slots     []LocationSlot `json:"slots"`
}

// CampaignLocation is a whole-location booking by a campaign. SettledAmount
// never exceeds Price; Cancelled and Settled are terminal.
type CampaignLocation struct {
	Campaign        PublicKey `json:"campaign"`
	Location        PublicKey `json:"location"`
	Advertiser      PublicKey `json:"advertiser"`
	Provider        PublicKey `json:"provider"`
	OracleAuthority PublicKey `json:"oracle_authority"`
	Price           uint64    `json:"price"`
	Status          string    `json:"status"`
	SettledAmount   uint64    `json:"settled_amount"`
}

// CampaignBooking is a time-ranged booking of a location's slots by a campaign.
// SettledAmount + FeeAmount never exceeds TotalPrice and RangeStartTs is
// strictly before RangeEndTs.
type CampaignBooking struct {
	Campaign         PublicKey    `json:"campaign"`
	Location         PublicKey    `json:"location"`
	Advertiser       PublicKey    `json:"advertiser"`
	Provider         PublicKey    `json:"provider"`
	OracleAuthority  PublicKey    `json:"oracle_authority"`
	Device           PublicKey    `json:"device"`
	DeviceIdx        uint64       `json:"device_idx"`
	RangeStartTs     int64        `json:"range_start_ts"`
	RangeEndTs       int64        `json:"range_end_ts"`
	SlotCount        uint32       `json:"slot_count"`
	TotalPrice       uint64       `json:"total_price"`
	PricingModel     PricingModel `json:"pricing_model"`
	StartImpressions uint64       `json:"start_impressions"`
	Status           string       `json:"status"`
	Impressions      uint64       `json:"impressions"`
	SettledAmount    uint64       `json:"settled_amount"`
	FeeAmount        uint64       `json:"fee_amount"`
}

// Config is the singleton program configuration account.
type Config struct {
	Admin    PublicKey `json:"admin"`
	Treasury PublicKey `json:"treasury"`
	FeeBps   uint32    `json:"fee_bps"`
}

// Validate checks that the configuration is acceptable to the program.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Treasury.IsZero() {
		return errors.New("treasury is required")
	}
	if c.FeeBps > 10000 {
		return fmt.Errorf("fee bps %d exceeds 10000", c.FeeBps)
	}
	return nil
}

// Validate checks the slot's half-open range.
func (s *LocationSlot) Validate() error {
	if s == nil {
		return errors.New("slot is nil")
	}
	if s.StartTs < 0 || s.EndTs < 0 {
		return errors.New("slot bounds must be non-negative")
	}
	if s.StartTs >= s.EndTs {
		return fmt.Errorf("slot start %d must precede end %d", s.StartTs, s.EndTs)
	}
	return nil
}
