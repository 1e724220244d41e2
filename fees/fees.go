// Package fees computes the settlement amounts a booking will produce:
// the gross charge from a pricing model, the platform fee taken from it and
// the net payout to the provider. The on-chain program runs the same
// arithmetic at settlement; computing it here lets a client preview or verify
// amounts without a network round trip, and refuse to submit a settlement the
// program would reject.
//
// Everything in this package is pure integer arithmetic on amounts in the
// chain's smallest unit. There is no floating point and no state.
package fees

import (
	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/numeric"
	"github.com/soulboard-labs/soulboard-go/types"
)

// BpsDenominator converts basis points to a proportion: 10000 bps = 100%.
const BpsDenominator = 10000

// Config describes how a fee is taken from a gross amount. The zero value
// charges nothing.
type Config struct {
	// FeeBps is the proportional fee rate in basis points, 0..10000.
	FeeBps uint32 `json:"fee_bps,omitempty"`
	// FlatAmount is added on top of the proportional fee.
	FlatAmount uint64 `json:"flat_amount,omitempty"`
	// MinFee, when set, raises the combined fee to at least this value.
	MinFee *uint64 `json:"min_fee,omitempty"`
	// MaxFee, when set, caps the combined fee. A present zero waives the fee
	// entirely, which is why this is a pointer and not a bare uint64.
	MaxFee *uint64 `json:"max_fee,omitempty"`
	// Rounding applies to the proportional division. Floor when unset.
	Rounding numeric.Rounding `json:"-"`
}

// Breakdown is the result of taking a fee from a gross amount.
// Fee+Net == Gross always, exactly.
type Breakdown struct {
	Gross uint64 `json:"gross"`
	Fee   uint64 `json:"fee"`
	Net   uint64 `json:"net"`
}

// CalculateBreakdown splits gross into fee and net under cfg. gross accepts
// any representation numeric.Normalize understands. The returned fee is
// always within [0, gross]: the proportional part is computed as
// gross*feeBps/10000 in exact integer arithmetic, the flat amount and
// min/max clamps are applied, and the result is finally clamped to gross
// since a fee can never exceed the amount it is taken from.
func CalculateBreakdown(gross any, cfg Config) (Breakdown, error) {
	g, err := numeric.Normalize("grossAmount", gross)
	if err != nil {
		return Breakdown{}, err
	}
	if cfg.FeeBps > BpsDenominator {
		return Breakdown{}, errdefs.NewInvalidArgument("feeBps", "%d exceeds %d (100%%)", cfg.FeeBps, BpsDenominator)
	}

	var fee uint64
	if cfg.FeeBps > 0 {
		fee, err = numeric.MulDiv("proportionalFee", g, uint64(cfg.FeeBps), BpsDenominator, cfg.Rounding)
		if err != nil {
			return Breakdown{}, err
		}
	}
	fee, err = numeric.CheckedAdd("fee", fee, cfg.FlatAmount)
	if err != nil {
		return Breakdown{}, err
	}
	if cfg.MinFee != nil && fee < *cfg.MinFee {
		fee = *cfg.MinFee
	}
	if cfg.MaxFee != nil && fee > *cfg.MaxFee {
		fee = *cfg.MaxFee
	}
	if fee > g {
		fee = g
	}
	return Breakdown{Gross: g, Fee: fee, Net: g - fee}, nil
}

// PricingAmount evaluates a pricing model against delivery metrics and
// returns the gross amount it charges. Exactly one branch runs per model;
// the sum type is closed, so no unknown-model branch exists. Models that
// need a metric the caller did not report fail with invalid-argument rather
// than pricing against an assumed zero.
func PricingAmount(model types.PricingModel, metrics types.Metrics, rounding numeric.Rounding) (uint64, error) {
	switch m := model.(type) {
	case types.FlatPricing:
		return m.Amount, nil
	case types.PerViewPricing:
		if metrics.Views == nil {
			return 0, errdefs.NewInvalidArgument("metrics.views", "required by perView pricing")
		}
		return numeric.CheckedMul("perViewAmount", m.Price, *metrics.Views)
	case types.PerImpressionPricing:
		if metrics.Impressions == nil {
			return 0, errdefs.NewInvalidArgument("metrics.impressions", "required by perImpression pricing")
		}
		return numeric.CheckedMul("perImpressionAmount", m.Price, *metrics.Impressions)
	case types.CPMPricing:
		if metrics.Impressions == nil {
			return 0, errdefs.NewInvalidArgument("metrics.impressions", "required by cpm pricing")
		}
		return numeric.MulDiv("cpmAmount", m.Price, *metrics.Impressions, 1000, rounding)
	default:
		return 0, errdefs.NewInvalidArgument("pricingModel", "missing pricing model")
	}
}

// QuoteOptions adjusts settlement quote computation.
type QuoteOptions struct {
	// CapAmount, when set, bounds the gross charge (the escrowed amount a
	// settlement may never exceed).
	CapAmount *uint64
	// PricingRounding applies to the pricing model's division (CPM). Floor
	// when unset.
	PricingRounding numeric.Rounding
	// Fee configures the fee taken from the (possibly capped) gross.
	Fee Config
}

// Quote is a settlement preview: the capped gross, the fee taken from it and
// the provider's net payout.
type Quote struct {
	Gross     uint64  `json:"gross"`
	Fee       uint64  `json:"fee"`
	Net       uint64  `json:"net"`
	Capped    bool    `json:"capped"`
	CapAmount *uint64 `json:"cap_amount,omitempty"`
}

// SettlementQuote prices the model against metrics, caps the gross at the
// escrowed amount when one is given, and takes the fee from the capped
// gross. The cap mirrors the program's refusal to settle beyond escrow:
// computing it client-side avoids submitting a doomed transaction.
func SettlementQuote(model types.PricingModel, metrics types.Metrics, opts QuoteOptions) (Quote, error) {
	gross, err := PricingAmount(model, metrics, opts.PricingRounding)
	if err != nil {
		return Quote{}, err
	}
	capped := false
	if opts.CapAmount != nil && gross > *opts.CapAmount {
		gross = *opts.CapAmount
		capped = true
	}
	breakdown, err := CalculateBreakdown(gross, opts.Fee)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Gross:     breakdown.Gross,
		Fee:       breakdown.Fee,
		Net:       breakdown.Net,
		Capped:    capped,
		CapAmount: opts.CapAmount,
	}, nil
}
