package pda

import (
	"testing"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/types"
)

func testKeys(t *testing.T) (types.PublicKey, types.PublicKey) {
	t.Helper()
	program, err := types.KeypairFromSeed(make([]byte, 32))
	if err != nil {
		t.Fatal(err)
	}
	seed := make([]byte, 32)
	seed[0] = 1
	authority, err := types.KeypairFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	return program.PublicKey(), authority.PublicKey()
}

func TestFindProgramAddressDeterministic(t *testing.T) {
	programID, authority := testKeys(t)

	a1, bump1, err := FindProgramAddress(programID, []byte(SeedAdvertiser), authority[:])
	if err != nil {
		t.Fatal(err)
	}
	a2, bump2, err := FindProgramAddress(programID, []byte(SeedAdvertiser), authority[:])
	if err != nil {
		t.Fatal(err)
	}
	if !a1.Equals(a2) || bump1 != bump2 {
		t.Fatalf("derivation not deterministic: %s/%d vs %s/%d", a1, bump1, a2, bump2)
	}
}

func TestFindProgramAddressOffCurve(t *testing.T) {
	programID, authority := testKeys(t)
	addr, _, err := FindProgramAddress(programID, []byte(SeedProvider), authority[:])
	if err != nil {
		t.Fatal(err)
	}
	if addr.IsOnCurve() {
		t.Fatalf("derived address %s is on the curve", addr)
	}
}

func TestFindProgramAddressMatchesCreateWithBump(t *testing.T) {
	programID, authority := testKeys(t)
	addr, bump, err := FindProgramAddress(programID, []byte(SeedAdvertiser), authority[:])
	if err != nil {
		t.Fatal(err)
	}
	recreated, err := CreateProgramAddress(programID, []byte(SeedAdvertiser), authority[:], []byte{bump})
	if err != nil {
		t.Fatal(err)
	}
	if !addr.Equals(recreated) {
		t.Fatalf("%s != %s", addr, recreated)
	}
}

func TestCreateProgramAddressSeedLimits(t *testing.T) {
	programID, _ := testKeys(t)

	if _, err := CreateProgramAddress(programID, make([]byte, MaxSeedLength+1)); err == nil {
		t.Fatal("oversized seed accepted")
	}

	seeds := make([][]byte, MaxSeeds+1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	if _, err := CreateProgramAddress(programID, seeds...); err == nil {
		t.Fatal("too many seeds accepted")
	}
}

func TestCampaignIndexChangesAddress(t *testing.T) {
	programID, authority := testKeys(t)

	c7, _, err := Campaign(programID, authority, 7)
	if err != nil {
		t.Fatal(err)
	}
	c8, _, err := Campaign(programID, authority, 8)
	if err != nil {
		t.Fatal(err)
	}
	if c7.Equals(c8) {
		t.Fatal("different indices derived the same address")
	}

	// Any accepted representation of the same index agrees.
	c7s, _, err := Campaign(programID, authority, "7")
	if err != nil {
		t.Fatal(err)
	}
	if !c7.Equals(c7s) {
		t.Fatalf("int and string forms disagree: %s vs %s", c7, c7s)
	}
}

func TestCampaignRejectsBadIndex(t *testing.T) {
	programID, authority := testKeys(t)
	_, _, err := Campaign(programID, authority, -1)
	if err == nil {
		t.Fatal("negative index accepted")
	}
	if !errdefs.IsInvalidArgument(err) {
		t.Fatalf("error %v is not invalid-argument", err)
	}
}

func TestEntityDerivationsDiffer(t *testing.T) {
	programID, authority := testKeys(t)

	adv, _, err := Advertiser(programID, authority)
	if err != nil {
		t.Fatal(err)
	}
	prov, _, err := Provider(programID, authority)
	if err != nil {
		t.Fatal(err)
	}
	if adv.Equals(prov) {
		t.Fatal("advertiser and provider derived the same address")
	}
}

func TestCampaignBookingRangeIsPartOfIdentity(t *testing.T) {
	programID, authority := testKeys(t)
	campaign, _, err := Campaign(programID, authority, 1)
	if err != nil {
		t.Fatal(err)
	}
	location, _, err := Location(programID, authority, 1)
	if err != nil {
		t.Fatal(err)
	}

	b1, _, err := CampaignBooking(programID, campaign, location, 1000, 2000)
	if err != nil {
		t.Fatal(err)
	}
	b2, _, err := CampaignBooking(programID, campaign, location, 2000, 3000)
	if err != nil {
		t.Fatal(err)
	}
	if b1.Equals(b2) {
		t.Fatal("disjoint ranges derived the same address")
	}

	if _, _, err := CampaignBooking(programID, campaign, location, -5, 2000); err == nil {
		t.Fatal("negative timestamp accepted")
	}
}

func TestConfigSingleton(t *testing.T) {
	programID, _ := testKeys(t)
	c1, bump, err := Config(programID)
	if err != nil {
		t.Fatal(err)
	}
	c2, bump2, err := Config(programID)
	if err != nil {
		t.Fatal(err)
	}
	if !c1.Equals(c2) || bump != bump2 {
		t.Fatal("config derivation not stable")
	}
}
