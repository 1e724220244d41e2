package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePricingModel(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want PricingModel
	}{
		{"flat", `{"type":"flat","amount":5000}`, FlatPricing{Amount: 5000}},
		{"perView", `{"type":"perView","price":25}`, PerViewPricing{Price: 25}},
		{"perImpression", `{"type":"perImpression","price":3}`, PerImpressionPricing{Price: 3}},
		{"cpm", `{"type":"cpm","price":2500}`, CPMPricing{Price: 2500}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePricingModel([]byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePricingModelRejects(t *testing.T) {
	for _, in := range []string{
		`{"type":"auction","price":1}`,
		`{"type":"flat"}`,
		`{"type":"perView"}`,
		`{"type":"cpm","amount":5}`,
		`{`,
		`{}`,
	} {
		_, err := ParsePricingModel([]byte(in))
		assert.Error(t, err, "input %s", in)
	}
}

func TestPricingModelJSONRoundTrip(t *testing.T) {
	models := []PricingModel{
		FlatPricing{Amount: 1},
		PerViewPricing{Price: 2},
		PerImpressionPricing{Price: 3},
		CPMPricing{Price: 4},
	}
	for _, m := range models {
		data, err := json.Marshal(m)
		require.NoError(t, err)
		back, err := ParsePricingModel(data)
		require.NoError(t, err)
		assert.Equal(t, m, back)
		assert.Equal(t, m.Kind(), back.Kind())
	}
}

func TestPricingKinds(t *testing.T) {
	assert.Equal(t, "flat", FlatPricing{}.Kind())
	assert.Equal(t, "perView", PerViewPricing{}.Kind())
	assert.Equal(t, "perImpression", PerImpressionPricing{}.Kind())
	assert.Equal(t, "cpm", CPMPricing{}.Kind())
}
