package types

import (
	"encoding/json"
	"fmt"
)

// Pricing model kinds as they appear on the wire and in JSON payloads.
const (
	PricingKindFlat          = "flat"
	PricingKindPerView       = "perView"
	PricingKindPerImpression = "perImpression"
	PricingKindCPM           = "cpm"
)

// PricingModel is a closed sum over the four ways a booking can be priced.
// The unexported method keeps the set closed so evaluation can be exhaustive
// by construction; there is no "unknown model" branch anywhere downstream.
type PricingModel interface {
	Kind() string
	pricingModel()
}

// FlatPricing charges a fixed amount regardless of delivery metrics.
type FlatPricing struct {
	Amount uint64 `json:"amount"`
}

// PerViewPricing charges Price per recorded view.
type PerViewPricing struct {
	Price uint64 `json:"price"`
}

// PerImpressionPricing charges Price per recorded impression.
type PerImpressionPricing struct {
	Price uint64 `json:"price"`
}

// CPMPricing charges Price per thousand impressions. The division by 1000 is
// the one place pricing needs a rounding policy.
type CPMPricing struct {
	Price uint64 `json:"price"`
}

func (FlatPricing) Kind() string          { return PricingKindFlat }
func (PerViewPricing) Kind() string       { return PricingKindPerView }
func (PerImpressionPricing) Kind() string { return PricingKindPerImpression }
func (CPMPricing) Kind() string           { return PricingKindCPM }

func (FlatPricing) pricingModel()          {}
func (PerViewPricing) pricingModel()       {}
func (PerImpressionPricing) pricingModel() {}
func (CPMPricing) pricingModel()           {}

// MarshalJSON emits the tagged form {"type":"flat","amount":N}.
func (m FlatPricing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Amount uint64 `json:"amount"`
	}{m.Kind(), m.Amount})
}

func (m PerViewPricing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Price uint64 `json:"price"`
	}{m.Kind(), m.Price})
}

func (m PerImpressionPricing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Price uint64 `json:"price"`
	}{m.Kind(), m.Price})
}

func (m CPMPricing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Price uint64 `json:"price"`
	}{m.Kind(), m.Price})
}

// ParsePricingModel decodes the tagged JSON form into the matching concrete
// model. Used by the gateway and MCP surfaces; on-chain data uses the binary
// codec instead.
func ParsePricingModel(data []byte) (PricingModel, error) {
	var envelope struct {
		Type   string  `json:"type"`
		Amount *uint64 `json:"amount"`
		Price  *uint64 `json:"price"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse pricing model: %w", err)
	}
	switch envelope.Type {
	case PricingKindFlat:
		if envelope.Amount == nil {
			return nil, fmt.Errorf("parse pricing model: flat requires amount")
		}
		return FlatPricing{Amount: *envelope.Amount}, nil
	case PricingKindPerView:
		if envelope.Price == nil {
			return nil, fmt.Errorf("parse pricing model: perView requires price")
		}
		return PerViewPricing{Price: *envelope.Price}, nil
	case PricingKindPerImpression:
		if envelope.Price == nil {
			return nil, fmt.Errorf("parse pricing model: perImpression requires price")
		}
		return PerImpressionPricing{Price: *envelope.Price}, nil
	case PricingKindCPM:
		if envelope.Price == nil {
			return nil, fmt.Errorf("parse pricing model: cpm requires price")
		}
		return CPMPricing{Price: *envelope.Price}, nil
	default:
		return nil, fmt.Errorf("parse pricing model: unknown type %q", envelope.Type)
	}
}

// Metrics carries the delivery counters a pricing model may need. Nil means
// the metric was not reported; models that require a missing metric fail
// rather than default to zero.
type Metrics struct {
	Views       *uint64 `json:"views,omitempty"`
	Impressions *uint64 `json:"impressions,omitempty"`
}

// U64 returns a pointer to v, for building Metrics literals.
func U64(v uint64) *uint64 { return &v }
