package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/soulboard-labs/soulboard-go/errdefs"
	"github.com/soulboard-labs/soulboard-go/fees"
	"github.com/soulboard-labs/soulboard-go/numeric"
	"github.com/soulboard-labs/soulboard-go/types"
)

type quoteRequest struct {
	Pricing   json.RawMessage `json:"pricing"`
	Metrics   types.Metrics   `json:"metrics"`
	CapAmount *uint64         `json:"cap_amount,omitempty"`
	Rounding  string          `json:"rounding,omitempty"`
	Fee       *feeRequest     `json:"fee,omitempty"`
}

type feeRequest struct {
	FeeBps     *uint32 `json:"fee_bps,omitempty"`
	FlatAmount uint64  `json:"flat_amount,omitempty"`
	MinFee     *uint64 `json:"min_fee,omitempty"`
	MaxFee     *uint64 `json:"max_fee,omitempty"`
	Rounding   string  `json:"rounding,omitempty"`
}

// feeConfig translates the request's fee block into a fees.Config, falling
// back to the gateway's default fee rate when the block or its rate is
// absent.
func (s *Server) feeConfig(req *feeRequest) (fees.Config, error) {
	cfg := fees.Config{FeeBps: s.Config.DefaultFeeBps}
	if req == nil {
		return cfg, nil
	}
	if req.FeeBps != nil {
		cfg.FeeBps = *req.FeeBps
	}
	cfg.FlatAmount = req.FlatAmount
	cfg.MinFee = req.MinFee
	cfg.MaxFee = req.MaxFee
	rounding, err := numeric.ParseRounding(req.Rounding)
	if err != nil {
		return fees.Config{}, err
	}
	cfg.Rounding = rounding
	return cfg, nil
}

// QuoteHandler handles POST /v1/quote: price a pricing model against
// delivery metrics, cap at escrow and take the platform fee.
func (s *Server) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "quote"
	const method = "POST"

	status := http.StatusOK
	defer func() {
		s.Metrics.IncrementRequests(endpoint, method, strconv.Itoa(status))
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	}()

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = s.writeError(w, r, errdefs.NewInvalidArgument("body", "invalid JSON: %v", err))
		return
	}
	if len(req.Pricing) == 0 {
		status = s.writeError(w, r, errdefs.NewInvalidArgument("pricing", "required"))
		return
	}
	model, err := types.ParsePricingModel(req.Pricing)
	if err != nil {
		status = s.writeError(w, r, errdefs.NewInvalidArgument("pricing", "%v", err))
		return
	}
	rounding, err := numeric.ParseRounding(req.Rounding)
	if err != nil {
		status = s.writeError(w, r, err)
		return
	}
	feeCfg, err := s.feeConfig(req.Fee)
	if err != nil {
		status = s.writeError(w, r, err)
		return
	}

	quote, err := fees.SettlementQuote(model, req.Metrics, fees.QuoteOptions{
		CapAmount:       req.CapAmount,
		PricingRounding: rounding,
		Fee:             feeCfg,
	})
	if err != nil {
		status = s.writeError(w, r, err)
		return
	}

	s.Metrics.IncrementQuotes(model.Kind())
	s.writeJSON(w, r, http.StatusOK, quote)
}

type feesRequest struct {
	Gross json.Number `json:"gross"`
	feeRequest
}

// FeesHandler handles POST /v1/fees: split a gross amount into fee and net.
func (s *Server) FeesHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "fees"
	const method = "POST"

	status := http.StatusOK
	defer func() {
		s.Metrics.IncrementRequests(endpoint, method, strconv.Itoa(status))
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	}()

	var req feesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = s.writeError(w, r, errdefs.NewInvalidArgument("body", "invalid JSON: %v", err))
		return
	}
	cfg, err := s.feeConfig(&req.feeRequest)
	if err != nil {
		status = s.writeError(w, r, err)
		return
	}
	breakdown, err := fees.CalculateBreakdown(req.Gross.String(), cfg)
	if err != nil {
		status = s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, breakdown)
}
