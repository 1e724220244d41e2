package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/numeric"
	"github.com/soulboard-labs/soulboard-go/types"
)

func TestCalculateBreakdownBasic(t *testing.T) {
	b, err := CalculateBreakdown(uint64(1_000_000), Config{FeeBps: 250})
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), b.Gross)
	assert.Equal(t, uint64(25_000), b.Fee)
	assert.Equal(t, uint64(975_000), b.Net)
}

func TestCalculateBreakdownConservation(t *testing.T) {
	cases := []struct {
		gross uint64
		cfg   Config
	}{
		{1, Config{FeeBps: 1}},
		{999, Config{FeeBps: 333}},
		{1_000_000, Config{FeeBps: 250, FlatAmount: 17}},
		{42, Config{FeeBps: 10_000}},
		{0, Config{FeeBps: 500, FlatAmount: 10}},
	}
	for _, tc := range cases {
		b, err := CalculateBreakdown(tc.gross, tc.cfg)
		require.NoError(t, err)
		assert.Equal(t, tc.gross, b.Fee+b.Net, "fee+net must equal gross")
		assert.LessOrEqual(t, b.Fee, b.Gross)
	}
}

func TestCalculateBreakdownRoundingOrder(t *testing.T) {
	// 999 * 333 / 10000 = 33.2667
	floor, err := CalculateBreakdown(uint64(999), Config{FeeBps: 333, Rounding: numeric.RoundFloor})
	require.NoError(t, err)
	half, err := CalculateBreakdown(uint64(999), Config{FeeBps: 333, Rounding: numeric.RoundHalf})
	require.NoError(t, err)
	ceil, err := CalculateBreakdown(uint64(999), Config{FeeBps: 333, Rounding: numeric.RoundCeil})
	require.NoError(t, err)

	assert.Equal(t, uint64(33), floor.Fee)
	assert.Equal(t, uint64(33), half.Fee)
	assert.Equal(t, uint64(34), ceil.Fee)
	assert.LessOrEqual(t, floor.Fee, half.Fee)
	assert.LessOrEqual(t, half.Fee, ceil.Fee)
}

func TestCalculateBreakdownClamps(t *testing.T) {
	min := uint64(500)
	b, err := CalculateBreakdown(uint64(10_000), Config{FeeBps: 100, MinFee: &min})
	require.NoError(t, err)
	assert.Equal(t, uint64(500), b.Fee, "min fee raises 100 to 500")

	max := uint64(100)
	b, err = CalculateBreakdown(uint64(1_000_000), Config{FeeBps: 250, MaxFee: &max})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), b.Fee, "max fee caps 25000 at 100")

	waived := uint64(0)
	b, err = CalculateBreakdown(uint64(1_000_000), Config{FeeBps: 250, MaxFee: &waived})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), b.Fee, "max fee of zero waives the fee")
	assert.Equal(t, uint64(1_000_000), b.Net)

	// Fee never exceeds gross even when the flat amount does.
	b, err = CalculateBreakdown(uint64(50), Config{FlatAmount: 200})
	require.NoError(t, err)
	assert.Equal(t, uint64(50), b.Fee)
	assert.Equal(t, uint64(0), b.Net)
}

func TestCalculateBreakdownRejectsExcessRate(t *testing.T) {
	_, err := CalculateBreakdown(uint64(100), Config{FeeBps: 10_001})
	require.Error(t, err)
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestCalculateBreakdownNormalizesGross(t *testing.T) {
	b, err := CalculateBreakdown("1000000", Config{FeeBps: 250})
	require.NoError(t, err)
	assert.Equal(t, uint64(25_000), b.Fee)

	_, err = CalculateBreakdown(-1, Config{FeeBps: 250})
	require.Error(t, err)
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestPricingAmount(t *testing.T) {
	got, err := PricingAmount(types.FlatPricing{Amount: 5000}, types.Metrics{}, numeric.RoundFloor)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), got)

	got, err = PricingAmount(types.PerViewPricing{Price: 10}, types.Metrics{Views: types.U64(5)}, numeric.RoundFloor)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), got)

	got, err = PricingAmount(types.PerImpressionPricing{Price: 3}, types.Metrics{Impressions: types.U64(7)}, numeric.RoundFloor)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), got)

	got, err = PricingAmount(types.CPMPricing{Price: 2500}, types.Metrics{Impressions: types.U64(1000)}, numeric.RoundFloor)
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), got)
}

func TestPricingAmountCPMRounding(t *testing.T) {
	// 2500 * 1500 / 1000 = 3750 exactly; 999 impressions gives 2497.5
	floor, err := PricingAmount(types.CPMPricing{Price: 2500}, types.Metrics{Impressions: types.U64(999)}, numeric.RoundFloor)
	require.NoError(t, err)
	ceil, err := PricingAmount(types.CPMPricing{Price: 2500}, types.Metrics{Impressions: types.U64(999)}, numeric.RoundCeil)
	require.NoError(t, err)
	assert.Equal(t, uint64(2497), floor)
	assert.Equal(t, uint64(2498), ceil)
}

func TestPricingAmountMissingMetric(t *testing.T) {
	_, err := PricingAmount(types.PerViewPricing{Price: 10}, types.Metrics{}, numeric.RoundFloor)
	require.Error(t, err)
	assert.True(t, errdefs.IsInvalidArgument(err))

	_, err = PricingAmount(types.CPMPricing{Price: 10}, types.Metrics{Views: types.U64(9)}, numeric.RoundFloor)
	require.Error(t, err)
	assert.True(t, errdefs.IsInvalidArgument(err))

	_, err = PricingAmount(nil, types.Metrics{}, numeric.RoundFloor)
	require.Error(t, err)
	assert.True(t, errdefs.IsInvalidArgument(err))
}

func TestSettlementQuoteCap(t *testing.T) {
	escrow := uint64(3000)
	q, err := SettlementQuote(
		types.PerImpressionPricing{Price: 5},
		types.Metrics{Impressions: types.U64(1000)},
		QuoteOptions{CapAmount: &escrow, Fee: Config{FeeBps: 250}},
	)
	require.NoError(t, err)
	assert.True(t, q.Capped)
	assert.Equal(t, uint64(3000), q.Gross, "5000 capped at 3000")
	assert.Equal(t, uint64(75), q.Fee)
	assert.Equal(t, uint64(2925), q.Net)
}

func TestSettlementQuoteUnderCap(t *testing.T) {
	escrow := uint64(10_000)
	q, err := SettlementQuote(
		types.PerImpressionPricing{Price: 5},
		types.Metrics{Impressions: types.U64(1000)},
		QuoteOptions{CapAmount: &escrow, Fee: Config{FeeBps: 250}},
	)
	require.NoError(t, err)
	assert.False(t, q.Capped)
	assert.Equal(t, uint64(5000), q.Gross)
	assert.Equal(t, uint64(125), q.Fee)
	assert.Equal(t, uint64(4875), q.Net)
}

func TestSettlementQuoteNoCap(t *testing.T) {
	q, err := SettlementQuote(
		types.FlatPricing{Amount: 1_000_000},
		types.Metrics{},
		QuoteOptions{Fee: Config{FeeBps: 250}},
	)
	require.NoError(t, err)
	assert.False(t, q.Capped)
	assert.Equal(t, uint64(975_000), q.Net)
}
