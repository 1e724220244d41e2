package program

import (
	"bytes"
	"testing"

	"github.com/soulboard-labs/soulboard-go/types"
)

func key(b byte) types.PublicKey {
	var pk types.PublicKey
	pk[0] = b
	return pk
}

func TestDiscriminator(t *testing.T) {
	d1 := Discriminator("global", "create_campaign")
	d2 := Discriminator("global", "create_campaign")
	if d1 != d2 {
		t.Fatal("not deterministic")
	}
	if d1 == Discriminator("global", "close_campaign") {
		t.Fatal("different names collided")
	}
	if d1 == Discriminator("account", "create_campaign") {
		t.Fatal("different namespaces collided")
	}
}

func TestInstructionDataCarriesDiscriminator(t *testing.T) {
	ix := CreateAdvertiser(key(1), key(2), key(3))
	want := Discriminator("global", IxCreateAdvertiser)
	if !bytes.Equal(ix.Data[:8], want[:]) {
		t.Fatalf("data prefix % x, want % x", ix.Data[:8], want)
	}
	if len(ix.Data) != 8 {
		t.Fatalf("create_advertiser takes no arguments, got %d data bytes", len(ix.Data))
	}
}

func TestCreateAdvertiserAccounts(t *testing.T) {
	advertiser, authority := key(2), key(3)
	ix := CreateAdvertiser(key(1), advertiser, authority)
	if len(ix.Accounts) != 3 {
		t.Fatalf("got %d accounts", len(ix.Accounts))
	}
	if !ix.Accounts[0].PublicKey.Equals(advertiser) || ix.Accounts[0].IsSigner || !ix.Accounts[0].IsWritable {
		t.Fatalf("advertiser meta wrong: %+v", ix.Accounts[0])
	}
	if !ix.Accounts[1].PublicKey.Equals(authority) || !ix.Accounts[1].IsSigner || !ix.Accounts[1].IsWritable {
		t.Fatalf("authority meta wrong: %+v", ix.Accounts[1])
	}
	if !ix.Accounts[2].PublicKey.Equals(SystemProgramID) || ix.Accounts[2].IsSigner || ix.Accounts[2].IsWritable {
		t.Fatalf("system program meta wrong: %+v", ix.Accounts[2])
	}
}

func TestCreateCampaignArguments(t *testing.T) {
	ix := CreateCampaign(key(1), key(2), key(3), key(4), CreateCampaignParams{
		Name:          "spring",
		Description:   "spring push",
		ImageURL:      "https://cdn/x.png",
		InitialBudget: 1_000_000,
	})
	d := newDecoder(ix.Data[8:])
	if got := d.str(); got != "spring" {
		t.Fatalf("name %q", got)
	}
	if got := d.str(); got != "spring push" {
		t.Fatalf("description %q", got)
	}
	if got := d.str(); got != "https://cdn/x.png" {
		t.Fatalf("image url %q", got)
	}
	if got := d.u64(); got != 1_000_000 {
		t.Fatalf("budget %d", got)
	}
	if err := d.finish(); err != nil {
		t.Fatal(err)
	}
	if d.off != len(ix.Data[8:]) {
		t.Fatalf("trailing bytes: read %d of %d", d.off, len(ix.Data[8:]))
	}
}

func TestSettleLocationBookingAccounts(t *testing.T) {
	config, campaign, booking := key(10), key(11), key(12)
	treasury, provider, oracle := key(13), key(14), key(15)
	ix := SettleLocationBooking(key(1), config, campaign, booking, treasury, provider, oracle, 5000)

	want := Discriminator("global", IxSettleLocationBooking)
	if !bytes.Equal(ix.Data[:8], want[:]) {
		t.Fatal("wrong discriminator")
	}
	d := newDecoder(ix.Data[8:])
	if got := d.u64(); got != 5000 {
		t.Fatalf("impressions %d", got)
	}

	var sawOracleSigner bool
	for _, acc := range ix.Accounts {
		if acc.PublicKey.Equals(oracle) && acc.IsSigner {
			sawOracleSigner = true
		}
	}
	if !sawOracleSigner {
		t.Fatal("oracle is not a signer")
	}
}

func TestAdvertiserRoundTrip(t *testing.T) {
	in := &types.Advertiser{Authority: key(9), LastCampaignID: 4, CampaignCount: 3}
	out, err := DecodeAdvertiser(EncodeAdvertiser(in))
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestCampaignRoundTrip(t *testing.T) {
	in := &types.Campaign{
		Authority:       key(7),
		CampaignIdx:     3,
		Name:            "spring",
		Description:     "spring push",
		ImageURL:        "https://cdn/x.png",
		Status:          types.CampaignStatusActive,
		AvailableBudget: 900_000,
		ReservedBudget:  100_000,
	}
	out, err := DecodeCampaign(EncodeCampaign(in))
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestLocationRoundTrip(t *testing.T) {
	booked := &types.Location{
		Authority:       key(1),
		LocationIdx:     2,
		Price:           500,
		OracleAuthority: key(5),
		Name:            "times sq 4",
		Description:     "north face",
		Status:          types.LocationStatusBooked,
		BookedBy:        key(8),
	}
	out, err := DecodeLocation(EncodeLocation(booked))
	if err != nil {
		t.Fatal(err)
	}
	if *out != *booked {
		t.Fatalf("got %+v, want %+v", out, booked)
	}

	available := &types.Location{
		Authority:       key(1),
		LocationIdx:     3,
		Price:           500,
		OracleAuthority: key(5),
		Name:            "times sq 5",
		Status:          types.LocationStatusAvailable,
	}
	out, err = DecodeLocation(EncodeLocation(available))
	if err != nil {
		t.Fatal(err)
	}
	if !out.BookedBy.IsZero() {
		t.Fatalf("available location has BookedBy %s", out.BookedBy)
	}
}

func TestLocationScheduleRoundTrip(t *testing.T) {
	in := &types.LocationSchedule{
		Location:  key(4),
		MaxSlots:  8,
		SlotCount: 2,
		Slots: []types.LocationSlot{
			{StartTs: 1000, EndTs: 2000, Price: 50, Status: types.SlotStatusAvailable},
			{StartTs: 2000, EndTs: 3000, Price: 60, Status: types.SlotStatusBooked, Booking: key(6)},
		},
	}
	out, err := DecodeLocationSchedule(EncodeLocationSchedule(in))
	if err != nil {
		t.Fatal(err)
	}
	if out.Location != in.Location || out.MaxSlots != in.MaxSlots || out.SlotCount != in.SlotCount {
		t.Fatalf("header mismatch: %+v", out)
	}
	if len(out.Slots) != 2 {
		t.Fatalf("got %d slots", len(out.Slots))
	}
	for i := range in.Slots {
		if out.Slots[i] != in.Slots[i] {
			t.Fatalf("slot %d: got %+v, want %+v", i, out.Slots[i], in.Slots[i])
		}
	}
}

func TestCampaignBookingRoundTrip(t *testing.T) {
	in := &types.CampaignBooking{
		Campaign:         key(1),
		Location:         key(2),
		Advertiser:       key(3),
		Provider:         key(4),
		OracleAuthority:  key(5),
		Device:           key(6),
		DeviceIdx:        1,
		RangeStartTs:     1000,
		RangeEndTs:       2000,
		SlotCount:        2,
		TotalPrice:       10_000,
		PricingModel:     types.CPMPricing{Price: 2500},
		StartImpressions: 100,
		Status:           types.BookingStatusActive,
		Impressions:      150,
		SettledAmount:    0,
		FeeAmount:        0,
	}
	out, err := DecodeCampaignBooking(EncodeCampaignBooking(in))
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	in := &types.Config{Admin: key(1), Treasury: key(2), FeeBps: 250}
	out, err := DecodeConfig(EncodeConfig(in))
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestDecodeRejectsWrongDiscriminator(t *testing.T) {
	data := EncodeAdvertiser(&types.Advertiser{Authority: key(1)})
	if _, err := DecodeCampaign(data); err == nil {
		t.Fatal("advertiser data decoded as campaign")
	}
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	data := EncodeCampaign(&types.Campaign{Name: "x", Status: types.CampaignStatusActive})
	if _, err := DecodeCampaign(data[:len(data)-4]); err == nil {
		t.Fatal("truncated data decoded")
	}
	if _, err := DecodeAdvertiser([]byte{1, 2}); err == nil {
		t.Fatal("two bytes decoded")
	}
}
