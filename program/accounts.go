package program

import (
	"fmt"

	"github.com/soulboard-labs/soulboard-go/types"
)

// Account type names as the program declares them; the account discriminator
// is derived from these.
const (
	AccountAdvertiser       = "Advertiser"
	AccountCampaign         = "Campaign"
	AccountProvider         = "Provider"
	AccountLocation         = "Location"
	AccountLocationSchedule = "LocationSchedule"
	AccountCampaignLocation = "CampaignLocation"
	AccountCampaignBooking  = "CampaignBooking"
	AccountConfig           = "Config"
)

func campaignStatus(tag uint8) (string, error) {
	switch tag {
	case 0:
		return types.CampaignStatusActive, nil
	case 1:
		return types.CampaignStatusClosed, nil
	default:
		return "", fmt.Errorf("unknown campaign status tag %d", tag)
	}
}

func locationStatus(tag uint8) (string, error) {
	switch tag {
	case 0:
		return types.LocationStatusAvailable, nil
	case 1:
		return types.LocationStatusBooked, nil
	case 2:
		return types.LocationStatusInactive, nil
	default:
		return "", fmt.Errorf("unknown location status tag %d", tag)
	}
}

func slotStatus(tag uint8) (string, error) {
	switch tag {
	case 0:
		return types.SlotStatusAvailable, nil
	case 1:
		return types.SlotStatusBooked, nil
	case 2:
		return types.SlotStatusCancelled, nil
	case 3:
		return types.SlotStatusSettled, nil
	default:
		return "", fmt.Errorf("unknown slot status tag %d", tag)
	}
}

func bookingStatus(tag uint8) (string, error) {
	switch tag {
	case 0:
		return types.BookingStatusActive, nil
	case 1:
		return types.BookingStatusCancelled, nil
	case 2:
		return types.BookingStatusSettled, nil
	default:
		return "", fmt.Errorf("unknown booking status tag %d", tag)
	}
}

// DecodeAdvertiser decodes an Advertiser account.
func DecodeAdvertiser(data []byte) (*types.Advertiser, error) {
	body, err := checkDiscriminator(AccountAdvertiser, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(body)
	out := &types.Advertiser{
		Authority:      d.pubkey(),
		LastCampaignID: d.u64(),
		CampaignCount:  d.u64(),
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode advertiser: %w", err)
	}
	return out, nil
}

// DecodeCampaign decodes a Campaign account.
func DecodeCampaign(data []byte) (*types.Campaign, error) {
	body, err := checkDiscriminator(AccountCampaign, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(body)
	out := &types.Campaign{
		Authority:   d.pubkey(),
		CampaignIdx: d.u64(),
		Name:        d.str(),
		Description: d.str(),
		ImageURL:    d.str(),
	}
	statusTag := d.u8()
	out.AvailableBudget = d.u64()
	out.ReservedBudget = d.u64()
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode campaign: %w", err)
	}
	if out.Status, err = campaignStatus(statusTag); err != nil {
		return nil, fmt.Errorf("decode campaign: %w", err)
	}
	return out, nil
}

// DecodeProvider decodes a Provider account.
func DecodeProvider(data []byte) (*types.Provider, error) {
	body, err := checkDiscriminator(AccountProvider, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(body)
	out := &types.Provider{
		Authority:      d.pubkey(),
		LastLocationID: d.u64(),
		LocationCount:  d.u64(),
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode provider: %w", err)
	}
	return out, nil
}

// DecodeLocation decodes a Location account. A booked location carries the
// booking campaign's address in its status payload.
func DecodeLocation(data []byte) (*types.Location, error) {
	body, err := checkDiscriminator(AccountLocation, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(body)
	out := &types.Location{
		Authority:       d.pubkey(),
		LocationIdx:     d.u64(),
		Price:           d.u64(),
		OracleAuthority: d.pubkey(),
		Name:            d.str(),
		Description:     d.str(),
	}
	statusTag := d.u8()
	if statusTag == 1 {
		out.BookedBy = d.pubkey()
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}
	if out.Status, err = locationStatus(statusTag); err != nil {
		return nil, fmt.Errorf("decode location: %w", err)
	}
	return out, nil
}

// DecodeLocationSchedule decodes a LocationSchedule account with its slot
// vector.
func DecodeLocationSchedule(data []byte) (*types.LocationSchedule, error) {
	body, err := checkDiscriminator(AccountLocationSchedule, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(body)
	out := &types.LocationSchedule{
		Location:  d.pubkey(),
		MaxSlots:  d.u32(),
		SlotCount: d.u32(),
	}
	n := d.u32()
	for i := uint32(0); i < n && d.finish() == nil; i++ {
		slot := types.LocationSlot{
			StartTs: d.i64(),
			EndTs:   d.i64(),
			Price:   d.u64(),
		}
		statusTag := d.u8()
		if statusTag != 0 {
			slot.Booking = d.pubkey()
		}
		if slot.Status, err = slotStatus(statusTag); err != nil {
			return nil, fmt.Errorf("decode location schedule slot %d: %w", i, err)
		}
		out.Slots = append(out.Slots, slot)
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode location schedule: %w", err)
	}
	return out, nil
}

// DecodeCampaignLocation decodes a CampaignLocation account.
func DecodeCampaignLocation(data []byte) (*types.CampaignLocation, error) {
	body, err := checkDiscriminator(AccountCampaignLocation, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(body)
	out := &types.CampaignLocation{
		Campaign:        d.pubkey(),
		Location:        d.pubkey(),
		Advertiser:      d.pubkey(),
		Provider:        d.pubkey(),
		OracleAuthority: d.pubkey(),
		Price:           d.u64(),
	}
	statusTag := d.u8()
	out.SettledAmount = d.u64()
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode campaign location: %w", err)
	}
	if out.Status, err = bookingStatus(statusTag); err != nil {
		return nil, fmt.Errorf("decode campaign location: %w", err)
	}
	return out, nil
}

// DecodeCampaignBooking decodes a CampaignBooking account.
func DecodeCampaignBooking(data []byte) (*types.CampaignBooking, error) {
	body, err := checkDiscriminator(AccountCampaignBooking, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(body)
	out := &types.CampaignBooking{
		Campaign:        d.pubkey(),
		Location:        d.pubkey(),
		Advertiser:      d.pubkey(),
		Provider:        d.pubkey(),
		OracleAuthority: d.pubkey(),
		Device:          d.pubkey(),
		DeviceIdx:       d.u64(),
		RangeStartTs:    d.i64(),
		RangeEndTs:      d.i64(),
		SlotCount:       d.u32(),
		TotalPrice:      d.u64(),
	}
	out.PricingModel = d.pricingModel()
	out.StartImpressions = d.u64()
	statusTag := d.u8()
	out.Impressions = d.u64()
	out.SettledAmount = d.u64()
	out.FeeAmount = d.u64()
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode campaign booking: %w", err)
	}
	if out.Status, err = bookingStatus(statusTag); err != nil {
		return nil, fmt.Errorf("decode campaign booking: %w", err)
	}
	return out, nil
}

// DecodeConfig decodes the singleton Config account.
func DecodeConfig(data []byte) (*types.Config, error) {
	body, err := checkDiscriminator(AccountConfig, data)
	if err != nil {
		return nil, err
	}
	d := newDecoder(body)
	out := &types.Config{
		Admin:    d.pubkey(),
		Treasury: d.pubkey(),
		FeeBps:   d.u32(),
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return out, nil
}

// EncodeAdvertiser builds Advertiser account data. The encoders exist for
// tests and local mocks; the program itself writes account data on chain.
func EncodeAdvertiser(a *types.Advertiser) []byte {
	e := newEncoder(Discriminator("account", AccountAdvertiser))
	e.pubkey(a.Authority)
	e.u64(a.LastCampaignID)
	e.u64(a.CampaignCount)
	return e.bytes()
}

// EncodeCampaign builds Campaign account data.
func EncodeCampaign(c *types.Campaign) []byte {
	e := newEncoder(Discriminator("account", AccountCampaign))
	e.pubkey(c.Authority)
	e.u64(c.CampaignIdx)
	e.str(c.Name)
	e.str(c.Description)
	e.str(c.ImageURL)
	switch c.Status {
	case types.CampaignStatusClosed:
		e.u8(1)
	default:
		e.u8(0)
	}
	e.u64(c.AvailableBudget)
	e.u64(c.ReservedBudget)
	return e.bytes()
}

// EncodeProvider builds Provider account data.
func EncodeProvider(p *types.Provider) []byte {
	e := newEncoder(Discriminator("account", AccountProvider))
	e.pubkey(p.Authority)
	e.u64(p.LastLocationID)
	e.u64(p.LocationCount)
	return e.bytes()
}

// EncodeLocation builds Location account data.
func EncodeLocation(l *types.Location) []byte {
	e := newEncoder(Discriminator("account", AccountLocation))
	e.pubkey(l.Authority)
	e.u64(l.LocationIdx)
	e.u64(l.Price)
	e.pubkey(l.OracleAuthority)
	e.str(l.Name)
	e.str(l.Description)
	switch l.Status {
	case types.LocationStatusBooked:
		e.u8(1)
		e.pubkey(l.BookedBy)
	case types.LocationStatusInactive:
		e.u8(2)
	default:
		e.u8(0)
	}
	return e.bytes()
}

// EncodeLocationSchedule builds LocationSchedule account data.
func EncodeLocationSchedule(s *types.LocationSchedule) []byte {
	e := newEncoder(Discriminator("account", AccountLocationSchedule))
	e.pubkey(s.Location)
	e.u32(s.MaxSlots)
	e.u32(s.SlotCount)
	e.u32(uint32(len(s.Slots)))
	for _, slot := range s.Slots {
		e.i64(slot.StartTs)
		e.i64(slot.EndTs)
		e.u64(slot.Price)
		switch slot.Status {
		case types.SlotStatusBooked:
			e.u8(1)
			e.pubkey(slot.Booking)
		case types.SlotStatusCancelled:
			e.u8(2)
			e.pubkey(slot.Booking)
		case types.SlotStatusSettled:
			e.u8(3)
			e.pubkey(slot.Booking)
		default:
			e.u8(0)
		}
	}
	return e.bytes()
}

// EncodeCampaignLocation builds CampaignLocation account data.
func EncodeCampaignLocation(cl *types.CampaignLocation) []byte {
	e := newEncoder(Discriminator("account", AccountCampaignLocation))
	e.pubkey(cl.Campaign)
	e.pubkey(cl.Location)
	e.pubkey(cl.Advertiser)
	e.pubkey(cl.Provider)
	e.pubkey(cl.OracleAuthority)
	e.u64(cl.Price)
	switch cl.Status {
	case types.BookingStatusCancelled:
		e.u8(1)
	case types.BookingStatusSettled:
		e.u8(2)
	default:
		e.u8(0)
	}
	e.u64(cl.SettledAmount)
	return e.bytes()
}

// EncodeCampaignBooking builds CampaignBooking account data.
func EncodeCampaignBooking(b *types.CampaignBooking) []byte {
	e := newEncoder(Discriminator("account", AccountCampaignBooking))
	e.pubkey(b.Campaign)
	e.pubkey(b.Location)
	e.pubkey(b.Advertiser)
	e.pubkey(b.Provider)
	e.pubkey(b.OracleAuthority)
	e.pubkey(b.Device)
	e.u64(b.DeviceIdx)
	e.i64(b.RangeStartTs)
	e.i64(b.RangeEndTs)
	e.u32(b.SlotCount)
	e.u64(b.TotalPrice)
	e.pricingModel(b.PricingModel)
	e.u64(b.StartImpressions)
	switch b.Status {
	case types.BookingStatusCancelled:
		e.u8(1)
	case types.BookingStatusSettled:
		e.u8(2)
	default:
		e.u8(0)
	}
	e.u64(b.Impressions)
	e.u64(b.SettledAmount)
	e.u64(b.FeeAmount)
	return e.bytes()
}

// EncodeConfig builds Config account data.
func EncodeConfig(c *types.Config) []byte {
	e := newEncoder(Discriminator("account", AccountConfig))
	e.pubkey(c.Admin)
	e.pubkey(c.Treasury)
	e.u32(c.FeeBps)
	return e.bytes()
}
